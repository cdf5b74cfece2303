// Package preflight provides readiness checks for the binaries, models,
// directories, and services an evidence run depends on.
//
// `interviewlens doctor` calls RunAll and CheckSystemDeps and renders the
// results as a table. `interviewlens analyze` calls CheckSystemDeps before
// starting a run so a missing ffmpeg is reported up front instead of
// surfacing as a degraded phase.
//
// Each check is gated by its config toggle; a disabled judge is not probed.
package preflight
