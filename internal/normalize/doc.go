// Package normalize turns noisy per-frame recognized text into a clean,
// deduplicated slide timeline.
//
// A session is processed in one walk: stray single glyphs are dropped,
// tokens found in more than NoiseTokenRatio of the session's samples are
// stripped as watermarks, near-empty samples are rejected, and consecutive
// near-duplicates are collapsed against the last accepted entry.
//
// Watermark statistics always describe the raw session. Feeding a timeline
// back in recounts them over fewer samples, so a second run can strip a
// token the first run kept.
package normalize
