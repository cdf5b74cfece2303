// Package ocr recognizes slide text in candidate video frames.
//
// The package is linked only into cmd/interviewlens-ocr-worker. It extracts
// candidate frames with ffmpeg, upscales narrow frames, and hands them to a
// Recognizer. The default Recognizer wraps Tesseract through gosseract.
//
// Key types:
//   - Recognizer: per-line text recognition over an encoded image
//   - Scanner: frame extraction plus recognition for a list of candidates
//
// Recognized lines at or below the confidence threshold are dropped; the
// remaining lines are joined with single spaces and the sample is kept
// only when its trimmed length exceeds the minimum text length.
package ocr
