package ocr

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"interviewlens/internal/evidence"
	"interviewlens/internal/logging"
)

type fakeFrames struct {
	dir    string
	data   []byte
	skip   map[int]bool
	err    error
	called bool
}

func (f *fakeFrames) Extract(_ context.Context, _ string, frames []int, dir string) (map[int]string, error) {
	f.called = true
	paths := make(map[int]string)
	for _, idx := range frames {
		if f.skip[idx] {
			continue
		}
		path := filepath.Join(dir, filepath.Base(dir)+"-"+string(rune('a'+idx%26))+".png")
		if err := os.WriteFile(path, f.data, 0o644); err != nil {
			return nil, err
		}
		paths[idx] = path
	}
	return paths, f.err
}

type fakeRecognizer struct {
	responses [][]Line
	calls     int
	closed    bool
}

func (r *fakeRecognizer) Recognize(context.Context, []byte) ([]Line, error) {
	defer func() { r.calls++ }()
	if r.calls >= len(r.responses) {
		return nil, errors.New("no response")
	}
	return r.responses[r.calls], nil
}

func (r *fakeRecognizer) Close() error {
	r.closed = true
	return nil
}

func touchVideo(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "talk.mp4")
	if err := os.WriteFile(path, []byte("video"), 0o644); err != nil {
		t.Fatalf("write video: %v", err)
	}
	return path
}

func TestScanFiltersAndPreservesOrder(t *testing.T) {
	rec := &fakeRecognizer{responses: [][]Line{
		{{Text: "Hash Tables", Confidence: 0.9}, {Text: "noise", Confidence: 0.3}},
		{{Text: "ab", Confidence: 0.99}},
		{{Text: "Recursion basics", Confidence: 0.8}},
	}}
	frames := &fakeFrames{data: encodeTestPNG(t, 2000, 10)}
	var opened []string
	scanner := NewScanner(DefaultOptions(), frames, func(lang string) (Recognizer, error) {
		opened = append(opened, lang)
		return rec, nil
	}, logging.NewNop())

	candidates := []evidence.SlideCandidate{
		{FrameIndex: 0, TimestampSec: 0},
		{FrameIndex: 60, TimestampSec: 2},
		{FrameIndex: 120, TimestampSec: 4},
	}
	got, err := scanner.Scan(context.Background(), touchVideo(t), candidates, "french", t.TempDir())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(opened) != 1 || opened[0] != "french" {
		t.Fatalf("unexpected recognizer languages %v", opened)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 samples, got %+v", got)
	}
	if got[0].Text != "Hash Tables" || got[0].FrameIndex != 0 {
		t.Fatalf("unexpected first sample %+v", got[0])
	}
	if got[1].Text != "Recursion basics" || got[1].TimestampSec != 4 {
		t.Fatalf("unexpected second sample %+v", got[1])
	}
	if !rec.closed {
		t.Fatal("expected recognizer to be closed")
	}
}

func TestScanFallsBackToDefaultLanguage(t *testing.T) {
	rec := &fakeRecognizer{responses: [][]Line{{{Text: "Graph traversal", Confidence: 0.95}}}}
	var opened []string
	scanner := NewScanner(DefaultOptions(), &fakeFrames{data: encodeTestPNG(t, 2000, 10)}, func(lang string) (Recognizer, error) {
		opened = append(opened, lang)
		if lang == "korean" {
			return nil, errors.New("traineddata missing")
		}
		return rec, nil
	}, logging.NewNop())

	got, err := scanner.Scan(context.Background(), touchVideo(t), []evidence.SlideCandidate{{FrameIndex: 3}}, "korean", t.TempDir())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(opened) != 2 || opened[1] != "en" {
		t.Fatalf("expected fallback to en, got %v", opened)
	}
	if len(got) != 1 {
		t.Fatalf("expected one sample, got %+v", got)
	}
}

func TestScanFailsWhenNoRecognizer(t *testing.T) {
	scanner := NewScanner(DefaultOptions(), &fakeFrames{}, func(string) (Recognizer, error) {
		return nil, errors.New("no tesseract")
	}, logging.NewNop())
	got, err := scanner.Scan(context.Background(), touchVideo(t), []evidence.SlideCandidate{{FrameIndex: 1}}, "en", t.TempDir())
	if err == nil {
		t.Fatal("expected error")
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil samples, got %#v", got)
	}
}

func TestScanMissingVideo(t *testing.T) {
	frames := &fakeFrames{}
	scanner := NewScanner(DefaultOptions(), frames, func(string) (Recognizer, error) {
		return &fakeRecognizer{}, nil
	}, logging.NewNop())
	_, err := scanner.Scan(context.Background(), filepath.Join(t.TempDir(), "missing.mp4"), []evidence.SlideCandidate{{FrameIndex: 1}}, "en", t.TempDir())
	if err == nil {
		t.Fatal("expected error for missing video")
	}
	if frames.called {
		t.Fatal("frames should not be extracted for a missing video")
	}
}

func TestScanSkipsMissingFramesAndRecognitionErrors(t *testing.T) {
	rec := &fakeRecognizer{responses: [][]Line{{{Text: "Dynamic programming", Confidence: 0.9}}}}
	frames := &fakeFrames{data: encodeTestPNG(t, 2000, 10), skip: map[int]bool{1: true}, err: errors.New("partial")}
	scanner := NewScanner(DefaultOptions(), frames, func(string) (Recognizer, error) { return rec, nil }, logging.NewNop())
	candidates := []evidence.SlideCandidate{{FrameIndex: 1}, {FrameIndex: 2}, {FrameIndex: 3}}
	got, err := scanner.Scan(context.Background(), touchVideo(t), candidates, "en", t.TempDir())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(got) != 1 || got[0].FrameIndex != 2 {
		t.Fatalf("expected only frame 2, got %+v", got)
	}
}

func TestScanNoCandidates(t *testing.T) {
	scanner := NewScanner(DefaultOptions(), &fakeFrames{}, func(string) (Recognizer, error) {
		t.Fatal("recognizer should not open without candidates")
		return nil, nil
	}, logging.NewNop())
	got, err := scanner.Scan(context.Background(), "missing.mp4", nil, "en", t.TempDir())
	if err != nil || len(got) != 0 {
		t.Fatalf("expected empty result, got %v %v", got, err)
	}
}
