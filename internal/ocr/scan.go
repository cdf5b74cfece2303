package ocr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"interviewlens/internal/evidence"
	"interviewlens/internal/language"
	"interviewlens/internal/logging"
)

// Options controls sample acceptance.
type Options struct {
	// ConfidenceThreshold is the per-line confidence a line must exceed.
	ConfidenceThreshold float64
	// MinTextLength is the trimmed rune count a sample must exceed.
	MinTextLength int
	// UpscaleWidth is the width narrow frames are scaled up to before
	// recognition. Zero disables scaling.
	UpscaleWidth int
}

// DefaultOptions returns the stock acceptance thresholds.
func DefaultOptions() Options {
	return Options{ConfidenceThreshold: 0.6, MinTextLength: 3, UpscaleWidth: 1280}
}

// Scanner recognizes text for a list of slide candidates.
type Scanner struct {
	opts    Options
	frames  FrameSource
	factory RecognizerFactory
	logger  *slog.Logger
}

// NewScanner constructs a Scanner.
func NewScanner(opts Options, frames FrameSource, factory RecognizerFactory, logger *slog.Logger) *Scanner {
	return &Scanner{
		opts:    opts,
		frames:  frames,
		factory: factory,
		logger:  logging.NewComponentLogger(logger, "ocr"),
	}
}

// Scan returns recognized samples in candidate order. Candidates whose frame
// could not be extracted or recognized, or whose accepted text is too short,
// are omitted. An error is returned only when no recognizer could be opened
// or the video is unreadable; per-frame failures are logged and skipped.
func (s *Scanner) Scan(ctx context.Context, videoPath string, candidates []evidence.SlideCandidate, lang, workDir string) ([]evidence.RawSlideText, error) {
	samples := make([]evidence.RawSlideText, 0, len(candidates))
	if len(candidates) == 0 {
		return samples, nil
	}
	if _, err := os.Stat(videoPath); err != nil {
		return samples, fmt.Errorf("open video: %w", err)
	}

	recognizer, err := s.openRecognizer(lang)
	if err != nil {
		return samples, err
	}
	defer recognizer.Close()

	indices := make([]int, 0, len(candidates))
	for _, c := range candidates {
		indices = append(indices, c.FrameIndex)
	}
	paths, err := s.frames.Extract(ctx, videoPath, indices, workDir)
	if err != nil {
		if len(paths) == 0 {
			return samples, fmt.Errorf("extract frames: %w", err)
		}
		logging.WarnWithContext(s.logger, "some frames could not be extracted", "frame_extract_partial",
			logging.Error(err),
			logging.Int("extracted", len(paths)),
			logging.Int("requested", len(indices)),
			logging.String(logging.FieldImpact, "missing frames contribute no slide text"),
		)
	}

	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return samples, err
		}
		path, ok := paths[c.FrameIndex]
		if !ok {
			continue
		}
		text, err := s.recognizeFrame(ctx, recognizer, path)
		if err != nil {
			logging.WarnWithContext(s.logger, "frame recognition failed", "frame_recognition_failed",
				logging.Error(err),
				logging.Int("frame_index", c.FrameIndex),
				logging.String(logging.FieldImpact, "frame skipped"),
			)
			continue
		}
		if !longEnough(text, s.opts.MinTextLength) {
			continue
		}
		samples = append(samples, evidence.RawSlideText{
			TimestampSec: c.TimestampSec,
			FrameIndex:   c.FrameIndex,
			Text:         text,
		})
	}
	s.logger.Info("slide text recognized",
		logging.String(logging.FieldEventType, "ocr_complete"),
		logging.Int("candidates", len(candidates)),
		logging.Int("samples", len(samples)),
	)
	return samples, nil
}

func (s *Scanner) recognizeFrame(ctx context.Context, recognizer Recognizer, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	prepared, err := PrepareFrame(data, s.opts.UpscaleWidth)
	if err != nil {
		return "", err
	}
	lines, err := recognizer.Recognize(ctx, prepared)
	if err != nil {
		return "", err
	}
	return AcceptedText(lines, s.opts.ConfidenceThreshold), nil
}

// openRecognizer opens the recognizer for lang and retries with the default
// language when that fails.
func (s *Scanner) openRecognizer(lang string) (Recognizer, error) {
	recognizer, err := s.factory(lang)
	if err == nil {
		return recognizer, nil
	}
	fallback := language.ToRecognizer(language.DefaultCode)
	if lang == fallback {
		return nil, fmt.Errorf("open recognizer %s: %w", lang, err)
	}
	logging.WarnWithContext(s.logger, "recognizer unavailable for language; falling back", "recognizer_fallback",
		logging.String("language", lang),
		logging.String("fallback", fallback),
		logging.Error(err),
		logging.String(logging.FieldImpact, "slide text recognized with the default language model"),
	)
	recognizer, fallbackErr := s.factory(fallback)
	if fallbackErr != nil {
		return nil, fmt.Errorf("open recognizer: %w", errors.Join(err, fallbackErr))
	}
	return recognizer, nil
}
