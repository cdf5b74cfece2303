package ocr

import (
	"context"
	"strings"
	"unicode/utf8"
)

// Line is one recognized text line with a confidence in [0, 1].
type Line struct {
	Text       string
	Confidence float64
}

// Recognizer extracts text lines from an encoded image.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte) ([]Line, error)
	Close() error
}

// RecognizerFactory opens a Recognizer for a recognizer language identifier
// such as "en", "french", or "ch".
type RecognizerFactory func(language string) (Recognizer, error)

// AcceptedText joins the lines whose confidence exceeds threshold.
func AcceptedText(lines []Line, threshold float64) string {
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		if line.Confidence <= threshold {
			continue
		}
		if text := strings.TrimSpace(line.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

// longEnough reports whether trimmed text has more than min runes.
func longEnough(text string, min int) bool {
	return utf8.RuneCountInString(strings.TrimSpace(text)) > min
}
