package whisperx

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestTranscribeParsesOutput(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "audio.wav")
	var gotName string
	var gotArgs []string
	svc := NewService(Config{Model: "large-v3-turbo", VADMethod: VADMethodPyannote, HFToken: "hf_x"})
	svc.WithCommandRunner(func(_ context.Context, name string, args ...string) error {
		gotName = name
		gotArgs = args
		payload := `{"language":"de","segments":[{"start":0.5,"end":2.25,"text":" Guten Tag "},{"start":2.25,"end":4.0,"text":"Was ist ein Hash?"}]}`
		return os.WriteFile(filepath.Join(dir, "out", "audio.json"), []byte(payload), 0o644)
	})

	got, err := svc.Transcribe(context.Background(), source, filepath.Join(dir, "out"), "")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if gotName != UVXCommand {
		t.Fatalf("expected uvx, got %q", gotName)
	}
	if idx := slices.Index(gotArgs, "--model"); idx < 0 || gotArgs[idx+1] != "large-v3-turbo" {
		t.Fatalf("expected model flag, got %v", gotArgs)
	}
	if idx := slices.Index(gotArgs, "--hf_token"); idx < 0 || gotArgs[idx+1] != "hf_x" {
		t.Fatalf("expected hf token for pyannote, got %v", gotArgs)
	}
	if slices.Contains(gotArgs, "--language") {
		t.Fatalf("expected auto language detection, got %v", gotArgs)
	}
	if got.Language != "de" {
		t.Fatalf("expected detected language de, got %q", got.Language)
	}
	if len(got.Segments) != 2 || got.Segments[0].Start != 0.5 || got.Segments[1].Text != "Was ist ein Hash?" {
		t.Fatalf("unexpected segments %+v", got.Segments)
	}
}

func TestTranscribeLanguageHint(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(Config{CUDAEnabled: true})
	var gotArgs []string
	svc.WithCommandRunner(func(_ context.Context, _ string, args ...string) error {
		gotArgs = args
		return os.WriteFile(filepath.Join(dir, "a.json"), []byte(`{"segments":[]}`), 0o644)
	})
	got, err := svc.Transcribe(context.Background(), filepath.Join(dir, "a.wav"), "", "French")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if idx := slices.Index(gotArgs, "--language"); idx < 0 || gotArgs[idx+1] != "fr" {
		t.Fatalf("expected --language fr, got %v", gotArgs)
	}
	if idx := slices.Index(gotArgs, "--device"); idx < 0 || gotArgs[idx+1] != CUDADevice {
		t.Fatalf("expected cuda device, got %v", gotArgs)
	}
	if got.Language != "fr" {
		t.Fatalf("expected hint language when output has none, got %q", got.Language)
	}
}

func TestTranscribeFailures(t *testing.T) {
	svc := NewService(Config{})
	if _, err := svc.Transcribe(context.Background(), "", "", ""); err == nil {
		t.Fatal("expected error for empty source")
	}

	svc.WithCommandRunner(func(context.Context, string, ...string) error {
		return errors.New("exit status 1")
	})
	if _, err := svc.Transcribe(context.Background(), filepath.Join(t.TempDir(), "a.wav"), "", ""); err == nil {
		t.Fatal("expected error when whisperx fails")
	}

	svc.WithCommandRunner(func(context.Context, string, ...string) error { return nil })
	if _, err := svc.Transcribe(context.Background(), filepath.Join(t.TempDir(), "a.wav"), "", ""); err == nil {
		t.Fatal("expected error when output json is missing")
	}
}
