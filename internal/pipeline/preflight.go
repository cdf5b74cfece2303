package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"interviewlens/internal/logging"
	"interviewlens/internal/services"
)

// preflight records the input check as the run's first phase. A rejected
// input is the only Fatal outcome a run produces.
func preflight(logger *slog.Logger, report *Report, videoPath string) Outcome[string] {
	start := time.Now()
	abs, err := CheckInput(videoPath)
	outcome, count := Data(abs), 1
	if err != nil {
		outcome, count = Fatal[string](err), 0
		logging.ErrorWithContext(logger, "input rejected", "run_rejected",
			logging.String(logging.FieldPhase, PhasePreflight),
			logging.String("video_path", videoPath),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, services.Hint(err)),
		)
	}
	report.Phases = append(report.Phases, PhaseReport{
		Name:    PhasePreflight,
		Outcome: outcome.Kind.String(),
		Count:   count,
		Elapsed: time.Since(start),
		Error:   errString(err),
	})
	return outcome
}

// CheckInput verifies the source video exists, is a regular file, and is
// readable by this process. It returns the absolute path.
func CheckInput(videoPath string) (string, error) {
	trimmed := strings.TrimSpace(videoPath)
	if trimmed == "" {
		return "", services.Wrap(services.ErrValidation, "preflight", "check input", "Video path is empty", nil)
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "preflight", "resolve path", "Video path cannot be resolved", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", services.Wrap(services.ErrNotFound, "preflight", "stat video",
				fmt.Sprintf("Video not found: %s", abs), err)
		}
		return "", services.Wrap(services.ErrValidation, "preflight", "stat video",
			fmt.Sprintf("Video cannot be inspected: %s", abs), err)
	}
	if !info.Mode().IsRegular() {
		return "", services.Wrap(services.ErrValidation, "preflight", "check video",
			fmt.Sprintf("Video is not a regular file: %s", abs), nil)
	}
	if err := unix.Access(abs, unix.R_OK); err != nil {
		return "", services.Wrap(services.ErrValidation, "preflight", "access video",
			fmt.Sprintf("Video is not readable: %s", abs), err)
	}
	return abs, nil
}
