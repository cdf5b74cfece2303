package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"interviewlens/internal/evidence"
	"interviewlens/internal/logging"
	"interviewlens/internal/ocr"
	"interviewlens/internal/worker"
)

func main() {
	// The supervisor relays these lines into its own logger, which applies
	// the configured level.
	logger := slog.New(logging.NewJSONHandler(os.Stderr, slog.LevelDebug))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := worker.Serve(ctx, os.Stdin, os.Stdout, newScanFunc(logger, ocr.TesseractFactory)); err != nil {
		logger.Error("ocr worker failed", logging.Error(err))
		os.Exit(1)
	}
}

// newScanFunc builds the recognition step. factory is parameterized so tests
// can avoid the native Tesseract library.
func newScanFunc(logger *slog.Logger, factory func(tessdataPrefix string) ocr.RecognizerFactory) worker.ScanFunc {
	return func(ctx context.Context, task worker.Task) ([]evidence.RawSlideText, error) {
		settings := task.Settings
		frames := ocr.NewFrameExtractor(settings.FFmpegBinary, settings.BatchSize)
		scanner := ocr.NewScanner(ocr.Options{
			ConfidenceThreshold: settings.ConfidenceThreshold,
			MinTextLength:       settings.MinTextLength,
			UpscaleWidth:        settings.UpscaleWidth,
		}, frames, factory(settings.TessdataPrefix), logger)
		return scanner.Scan(ctx, task.VideoPath, task.Candidates, task.Language, task.WorkDir)
	}
}
