// Package runstore keeps a history of evidence runs in SQLite.
//
// `interviewlens analyze --save` records each completed run: its id, source
// video, timestamps, evidence counts, judge score, and the full bundle JSON.
// `interviewlens runs list` and `runs show` read the history back. The
// pipeline itself never touches the store.
//
// The schema lives in schema.sql and is versioned by schemaVersion in
// schema.go. A version mismatch is reported rather than migrated; delete the
// database (see config.RunStorePath) to adopt a new schema.
package runstore
