package worker

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"interviewlens/internal/logging"
)

func TestRelayLogsPreservesLevelAndFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "debug", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	input := strings.Join([]string{
		`{"ts":"2026-01-01T00:00:00Z","level":"warn","msg":"frame recognition failed","component":"ocr","frame_index":42}`,
		`plain text from a native library`,
		``,
	}, "\n")
	relayLogs(strings.NewReader(input), logging.NewComponentLogger(logger, "ocr-worker"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 relayed lines, got %d: %s", len(lines), buf.String())
	}
	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("decode relayed line: %v", err)
	}
	if first["level"] != "warn" || first["msg"] != "frame recognition failed" {
		t.Fatalf("unexpected relayed record %v", first)
	}
	if first["component"] != "ocr-worker" {
		t.Fatalf("expected supervisor component, got %v", first["component"])
	}
	if first["frame_index"] != float64(42) {
		t.Fatalf("expected frame_index field, got %v", first["frame_index"])
	}
	if !strings.Contains(lines[1], `"msg":"worker output"`) || !strings.Contains(lines[1], "plain text from a native library") {
		t.Fatalf("unexpected raw line relay %s", lines[1])
	}
}
