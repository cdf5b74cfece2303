package logging

import "strings"

// FormatSubject builds the run/phase subject string used in console output.
// Run identifiers are shortened to their first eight characters.
func FormatSubject(runID, phase string) string {
	runID = strings.TrimSpace(runID)
	phase = strings.TrimSpace(phase)
	if len(runID) > 8 {
		runID = runID[:8]
	}
	switch {
	case runID != "" && phase != "":
		return "Run " + runID + " (" + phase + ")"
	case runID != "":
		return "Run " + runID
	default:
		return phase
	}
}
