package logs_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"interviewlens/internal/logs"
)

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("{}\n"), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestFindRunLog(t *testing.T) {
	dir := t.TempDir()
	older := touch(t, dir, "run-20260101T090000-mock-interview-5d1f0c2e.log")
	newer := touch(t, dir, "run-20260102T090000-mock-interview-5d1f0c2e.log")
	touch(t, dir, "run-20260101T100000-other-9b7e4410.log")
	touch(t, dir, "notes.txt")

	got, err := logs.FindRunLog(dir, "5d1f0c2e-aaaa-4000-8000-000000000001")
	if err != nil {
		t.Fatalf("FindRunLog: %v", err)
	}
	if got != newer {
		t.Fatalf("expected newest log %s, got %s (older %s)", newer, got, older)
	}

	got, err = logs.FindRunLog(dir, "9b7e")
	if err != nil {
		t.Fatalf("FindRunLog prefix: %v", err)
	}
	if !strings.HasSuffix(got, "-9b7e4410.log") {
		t.Fatalf("unexpected match %s", got)
	}
}

func TestFindRunLogMissingAndAmbiguous(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "run-20260101T090000-a-abc11111.log")
	touch(t, dir, "run-20260101T090000-b-abc22222.log")

	if _, err := logs.FindRunLog(dir, "zzz"); !errors.Is(err, logs.ErrNoRunLog) {
		t.Fatalf("expected ErrNoRunLog, got %v", err)
	}
	if _, err := logs.FindRunLog(dir, "abc"); err == nil || errors.Is(err, logs.ErrNoRunLog) {
		t.Fatalf("expected ambiguity error, got %v", err)
	}
	if _, err := logs.FindRunLog(filepath.Join(dir, "missing"), "abc"); !errors.Is(err, logs.ErrNoRunLog) {
		t.Fatalf("expected ErrNoRunLog for missing dir, got %v", err)
	}
}
