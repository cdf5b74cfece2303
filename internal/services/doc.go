// Package services defines shared utilities consumed by the pipeline phases
// and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, phase names, and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper so phase failures can be
//     classified (fatal input problem vs degraded evidence) without string
//     matching.
//
// Use these helpers when wiring new phase logic so error handling and
// observability stay uniform across the pipeline.
package services
