package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrExternalTool  = errors.New("external tool error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrTimeout       = errors.New("timeout")
	ErrTransient     = errors.New("transient failure")
	ErrWorkerCrashed = errors.New("worker crashed")
)

// Wrap builds an error message that includes phase context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, phase, operation, message string, err error) error {
	detail := buildDetail(phase, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Category returns a short machine-readable label for the marker carried by
// err. Unmarked errors are reported as "unknown".
func Category(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrWorkerCrashed):
		return "worker_crashed"
	case errors.Is(err, ErrExternalTool):
		return "external_tool"
	case errors.Is(err, ErrTransient):
		return "transient"
	default:
		return "unknown"
	}
}

// Hint returns an operator-facing next step for the marker carried by err.
func Hint(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "check that the input path exists"
	case errors.Is(err, ErrValidation):
		return "check the input file permissions and format"
	case errors.Is(err, ErrConfiguration):
		return "run interviewlens config validate"
	case errors.Is(err, ErrTimeout):
		return "raise recognition.timeout_seconds or check the worker for hangs"
	case errors.Is(err, ErrWorkerCrashed):
		return "inspect ocr-worker log lines for the crash cause"
	case errors.Is(err, ErrExternalTool):
		return "run interviewlens doctor to verify external tools"
	default:
		return "check logs for details"
	}
}

// ErrorDetails summarizes a wrapped error for logs and CLI output.
type ErrorDetails struct {
	Kind    string
	Hint    string
	Message string
}

// Details classifies err and returns its message without the marker prefix.
func Details(err error) ErrorDetails {
	if err == nil {
		return ErrorDetails{}
	}
	message := err.Error()
	for _, marker := range []error{ErrExternalTool, ErrValidation, ErrConfiguration, ErrNotFound, ErrTimeout, ErrTransient, ErrWorkerCrashed} {
		if trimmed, ok := strings.CutPrefix(message, marker.Error()+": "); ok {
			message = trimmed
			break
		}
	}
	return ErrorDetails{Kind: Category(err), Hint: Hint(err), Message: message}
}

func buildDetail(phase, operation, message string) string {
	parts := make([]string, 0, 3)
	if phase = strings.TrimSpace(phase); phase != "" {
		parts = append(parts, phase)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
