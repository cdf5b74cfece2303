package whispercpp

import (
	"context"
	"path/filepath"
	"testing"
)

func TestNewRequiresModelPath(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("expected error for empty model path")
	}
	if _, err := New(Config{ModelPath: filepath.Join(t.TempDir(), "missing.bin")}); err == nil {
		t.Fatal("expected error for missing model file")
	}
}

func TestTranscribeRejectsUnreadableAudio(t *testing.T) {
	e := &Engine{}
	if _, err := e.Transcribe(context.Background(), filepath.Join(t.TempDir(), "missing.wav"), "", "en"); err == nil {
		t.Fatal("expected error for missing audio")
	}
	if err := e.Close(); err != nil {
		t.Fatalf("Close on unloaded engine: %v", err)
	}
}
