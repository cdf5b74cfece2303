// Package config loads, normalizes, and validates interviewlens configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// HF_TOKEN and JUDGE_API_KEY. The Config type centralizes every knob the
// pipeline and CLI need so engines, thresholds, and credentials are
// discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
