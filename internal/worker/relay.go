package worker

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"slices"
	"strings"

	"interviewlens/internal/logging"
)

// relayLogs forwards the worker's JSON log lines to logger at their original
// level. Lines that are not JSON are forwarded at debug level. The reader is
// always drained.
func relayLogs(r io.Reader, logger *slog.Logger) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		relayLine(line, logger)
	}
	if scanner.Err() != nil {
		_, _ = io.Copy(io.Discard, r)
	}
}

func relayLine(line string, logger *slog.Logger) {
	var record map[string]any
	if err := json.Unmarshal([]byte(line), &record); err != nil {
		logger.Debug("worker output", logging.String("line", line))
		return
	}
	level := logging.ParseLevel(stringField(record, "level"))
	msg := stringField(record, "msg")
	if msg == "" {
		msg = "worker log"
	}
	for _, key := range []string{"ts", "level", "msg", logging.FieldComponent, "source"} {
		delete(record, key)
	}
	keys := make([]string, 0, len(record))
	for key := range record {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	args := make([]any, 0, len(keys))
	for _, key := range keys {
		args = append(args, slog.Any(key, record[key]))
	}
	logger.Log(context.Background(), level, msg, args...)
}

func stringField(record map[string]any, key string) string {
	if value, ok := record[key].(string); ok {
		return value
	}
	return ""
}
