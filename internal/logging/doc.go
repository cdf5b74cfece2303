// Package logging assembles structured slog loggers and formatting helpers
// used across interviewlens.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so phase code automatically
// tags log lines with run IDs, phase names, and correlation IDs. Each
// pipeline run can tee its output into a dedicated JSON log file, and old run
// logs are pruned by age.
//
// Prefer these constructors over hand-rolled slog setup so every component,
// including the isolated recognition worker, emits records with the same
// shape.
package logging
