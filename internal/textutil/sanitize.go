package textutil

import "strings"

// SanitizeToken folds a video name into a lowercase token safe for log file
// names. ASCII letters and digits are kept along with '-' and '_'; any other
// run of characters collapses to a single underscore. Empty results become
// "unknown".
func SanitizeToken(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	pendingSep := false
	for _, r := range strings.ToLower(strings.TrimSpace(value)) {
		keep := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_'
		if !keep {
			pendingSep = b.Len() > 0
			continue
		}
		if pendingSep {
			b.WriteByte('_')
			pendingSep = false
		}
		b.WriteRune(r)
	}
	out := strings.Trim(b.String(), "_-")
	if out == "" {
		return "unknown"
	}
	return out
}
