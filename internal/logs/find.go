package logs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// shortIDLength matches the run id prefix embedded in run log names.
const shortIDLength = 8

// ErrNoRunLog is returned when no log file matches a run id.
var ErrNoRunLog = errors.New("run log not found")

// FindRunLog returns the newest run log in dir whose embedded id starts with
// runID. Only the first eight characters of runID are significant. Distinct
// runs sharing the prefix are reported as ambiguous.
func FindRunLog(dir, runID string) (string, error) {
	prefix := strings.TrimSpace(runID)
	if prefix == "" {
		return "", errors.New("run id required")
	}
	if len(prefix) > shortIDLength {
		prefix = prefix[:shortIDLength]
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNoRunLog, runID)
		}
		return "", fmt.Errorf("read log dir: %w", err)
	}

	var matches []string
	ids := map[string]struct{}{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		id, ok := runLogID(entry.Name())
		if !ok || !strings.HasPrefix(id, prefix) {
			continue
		}
		matches = append(matches, entry.Name())
		ids[id] = struct{}{}
	}
	switch {
	case len(matches) == 0:
		return "", fmt.Errorf("%w: %s", ErrNoRunLog, runID)
	case len(ids) > 1:
		return "", fmt.Errorf("run id prefix %q matches %d runs", runID, len(ids))
	}
	// Names start with a UTC stamp, so lexical order is chronological.
	sort.Strings(matches)
	return filepath.Join(dir, matches[len(matches)-1]), nil
}

// runLogID extracts the short run id from run-<stamp>-<video>-<id8>.log.
func runLogID(name string) (string, bool) {
	if !strings.HasPrefix(name, "run-") || !strings.HasSuffix(name, ".log") {
		return "", false
	}
	stem := strings.TrimSuffix(name, ".log")
	idx := strings.LastIndex(stem, "-")
	if idx < len("run-") || idx == len(stem)-1 {
		return "", false
	}
	return stem[idx+1:], true
}
