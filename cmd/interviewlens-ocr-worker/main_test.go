package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"interviewlens/internal/evidence"
	"interviewlens/internal/logging"
	"interviewlens/internal/ocr"
	"interviewlens/internal/worker"
)

func TestScanFuncPassesTaskSettings(t *testing.T) {
	video := filepath.Join(t.TempDir(), "video.mp4")
	if err := os.WriteFile(video, []byte("stub"), 0o644); err != nil {
		t.Fatal(err)
	}

	var prefixes, languages []string
	factory := func(prefix string) ocr.RecognizerFactory {
		prefixes = append(prefixes, prefix)
		return func(lang string) (ocr.Recognizer, error) {
			languages = append(languages, lang)
			return nil, errors.New("traineddata missing")
		}
	}

	scan := newScanFunc(logging.NewNop(), factory)
	_, err := scan(context.Background(), worker.Task{
		VideoPath:  video,
		Candidates: []evidence.SlideCandidate{{FrameIndex: 0, ChangeRatio: 1}},
		Language:   "ch",
		WorkDir:    t.TempDir(),
		Settings:   worker.Settings{TessdataPrefix: "/opt/tessdata"},
	})
	if err == nil {
		t.Fatal("expected error when no recognizer opens")
	}
	if len(prefixes) != 1 || prefixes[0] != "/opt/tessdata" {
		t.Fatalf("unexpected tessdata prefixes %v", prefixes)
	}
	if len(languages) != 2 || languages[0] != "ch" || languages[1] != "en" {
		t.Fatalf("expected ch then en fallback, got %v", languages)
	}
}
