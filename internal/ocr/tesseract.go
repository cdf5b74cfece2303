package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"interviewlens/internal/language"
)

// Tesseract recognizes text with a single reusable gosseract client.
type Tesseract struct {
	client *gosseract.Client
	lang   string
}

// NewTesseract opens a Tesseract recognizer for a recognizer language
// identifier. The traineddata file must be installed; gosseract initializes
// lazily, so availability is checked up front to let callers fall back.
func NewTesseract(recognizerLang, tessdataPrefix string) (*Tesseract, error) {
	trained := language.TrainedData(recognizerLang)
	if err := checkTrainedData(trained, tessdataPrefix); err != nil {
		return nil, err
	}
	client := gosseract.NewClient()
	if prefix := strings.TrimSpace(tessdataPrefix); prefix != "" {
		if err := client.SetTessdataPrefix(prefix); err != nil {
			client.Close()
			return nil, fmt.Errorf("tesseract: set tessdata prefix: %w", err)
		}
	}
	if err := client.SetLanguage(trained); err != nil {
		client.Close()
		return nil, fmt.Errorf("tesseract: set language %s: %w", trained, err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_AUTO); err != nil {
		client.Close()
		return nil, fmt.Errorf("tesseract: set page segmentation: %w", err)
	}
	return &Tesseract{client: client, lang: trained}, nil
}

// TesseractFactory returns a RecognizerFactory bound to a tessdata prefix.
func TesseractFactory(tessdataPrefix string) RecognizerFactory {
	return func(lang string) (Recognizer, error) {
		return NewTesseract(lang, tessdataPrefix)
	}
}

// Language returns the traineddata name in use.
func (t *Tesseract) Language() string {
	return t.lang
}

// Recognize returns the text lines found in an encoded image.
func (t *Tesseract) Recognize(ctx context.Context, image []byte) ([]Line, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(image) == 0 {
		return nil, fmt.Errorf("tesseract: empty image")
	}
	if err := t.client.SetImageFromBytes(image); err != nil {
		return nil, fmt.Errorf("tesseract: set image: %w", err)
	}
	boxes, err := t.client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("tesseract: recognize: %w", err)
	}
	lines := make([]Line, 0, len(boxes))
	for _, box := range boxes {
		lines = append(lines, Line{
			Text:       strings.TrimSpace(box.Word),
			Confidence: box.Confidence / 100.0,
		})
	}
	return lines, nil
}

// Close releases the underlying Tesseract API.
func (t *Tesseract) Close() error {
	if t == nil || t.client == nil {
		return nil
	}
	return t.client.Close()
}

func checkTrainedData(trained, tessdataPrefix string) error {
	if prefix := strings.TrimSpace(tessdataPrefix); prefix != "" {
		path := filepath.Join(prefix, trained+".traineddata")
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("tesseract: traineddata %s: %w", trained, err)
		}
		return nil
	}
	available, err := gosseract.GetAvailableLanguages()
	if err != nil {
		return fmt.Errorf("tesseract: list languages: %w", err)
	}
	if !slices.Contains(available, trained) {
		return fmt.Errorf("tesseract: traineddata %s not installed", trained)
	}
	return nil
}
