// Package logs finds and tails the per-run log files written under
// paths.log_dir.
//
// Every analyze run tees its logger into run-<stamp>-<video>-<id8>.log.
// FindRunLog resolves a run id (or a prefix of it) to that file, and Tail
// reads it with bounded memory: the last N lines for a snapshot, or new
// lines from a byte offset in follow mode. `interviewlens runs log` is the
// only caller.
package logs
