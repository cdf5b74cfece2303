// Package worker runs slide text recognition in an isolated child process.
//
// The recognizer links native libraries that must never share an address
// space with the transcription engine, so recognition always happens in a
// fresh interviewlens-ocr-worker process (see ResolveExecutable).
//
// Supervisor side:
//   - Supervisor owns a task queue served by a single actor goroutine, so
//     exactly one worker process is alive per supervisor. A host-wide flock
//     extends that guarantee across concurrent interviewlens processes.
//   - Dispatch blocks until the worker answers, crashes, or exceeds the
//     configured timeout; the worker's process group is killed on timeout.
//   - Worker stderr carries JSON log lines that are relayed into the
//     supervisor's logger.
//
// Worker side:
//   - Serve decodes one Task from stdin, runs the ScanFunc, and writes one
//     Result to stdout.
//
// Failures are returned as errors tagged with services markers together with
// an empty, non-nil sample list; callers treat them as missing visual
// evidence.
package worker
