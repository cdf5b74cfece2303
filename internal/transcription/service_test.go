package transcription

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"interviewlens/internal/evidence"
	"interviewlens/internal/logging"
	"interviewlens/internal/media/ffprobe"
	"interviewlens/internal/services"
)

type fakeEngine struct {
	result   evidence.Transcript
	err      error
	gotPath  string
	gotLang  string
	gotCalls int
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) Transcribe(_ context.Context, wavPath, _ string, lang string) (evidence.Transcript, error) {
	f.gotCalls++
	f.gotPath = wavPath
	f.gotLang = lang
	return f.result, f.err
}

func probeWithAudio(streams ...ffprobe.Stream) func(context.Context, string, string) (ffprobe.Result, error) {
	return func(context.Context, string, string) (ffprobe.Result, error) {
		return ffprobe.Result{Streams: append([]ffprobe.Stream{{Index: 0, CodecType: "video"}}, streams...)}, nil
	}
}

func TestTranscribeExtractsAndCleans(t *testing.T) {
	engine := &fakeEngine{result: evidence.Transcript{
		Language: "English",
		Segments: []evidence.TranscriptSegment{
			{Start: 0, End: 2, Text: "  Tell me about hash tables. "},
			{Start: 2, End: 2, Text: "zero length"},
			{Start: 3, End: 4, Text: "   "},
			{Start: 4, End: 6.5, Text: "They map keys to buckets."},
		},
	}}
	svc := NewService(engine, Options{FFmpegBinary: "/usr/bin/ffmpeg"}, logging.NewNop())
	svc.WithProber(probeWithAudio(
		ffprobe.Stream{Index: 1, CodecType: "audio", Tags: map[string]string{"title": "Commentary"}},
		ffprobe.Stream{Index: 2, CodecType: "audio"},
	))
	var gotArgs []string
	svc.WithCommandRunner(func(_ context.Context, name string, args ...string) error {
		if name != "/usr/bin/ffmpeg" {
			t.Fatalf("unexpected binary %q", name)
		}
		gotArgs = args
		return nil
	})

	workDir := filepath.Join(t.TempDir(), "run")
	got, err := svc.Transcribe(context.Background(), "/videos/talk.mp4", workDir)
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if idx := slices.Index(gotArgs, "-map"); idx < 0 || gotArgs[idx+1] != "0:a:1" {
		t.Fatalf("expected speech stream map 0:a:1, got %v", gotArgs)
	}
	if engine.gotPath != filepath.Join(workDir, AudioFileName) {
		t.Fatalf("unexpected wav path %q", engine.gotPath)
	}
	if engine.gotLang != "" {
		t.Fatalf("expected detection mode, got language %q", engine.gotLang)
	}
	if got.Language != "en" {
		t.Fatalf("expected en, got %q", got.Language)
	}
	if len(got.Segments) != 2 || got.Segments[0].Text != "Tell me about hash tables." {
		t.Fatalf("unexpected segments %+v", got.Segments)
	}
}

func TestTranscribeNoAudio(t *testing.T) {
	engine := &fakeEngine{}
	svc := NewService(engine, Options{}, logging.NewNop())
	svc.WithProber(probeWithAudio())
	svc.WithCommandRunner(func(context.Context, string, ...string) error {
		t.Fatal("ffmpeg should not run without audio")
		return nil
	})
	_, err := svc.Transcribe(context.Background(), "/videos/silent.mp4", t.TempDir())
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if engine.gotCalls != 0 {
		t.Fatal("engine should not run without audio")
	}
}

func TestTranscribeEngineFailure(t *testing.T) {
	engine := &fakeEngine{err: errors.New("uvx: not found")}
	svc := NewService(engine, Options{}, logging.NewNop())
	svc.WithProber(probeWithAudio(ffprobe.Stream{Index: 1, CodecType: "audio"}))
	svc.WithCommandRunner(func(context.Context, string, ...string) error { return nil })
	if _, err := svc.Transcribe(context.Background(), "/videos/talk.mp4", t.TempDir()); !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}

func TestTranscribeFallsBackToStreamLanguage(t *testing.T) {
	engine := &fakeEngine{result: evidence.Transcript{Segments: []evidence.TranscriptSegment{{Start: 0, End: 1, Text: "Hola"}}}}
	svc := NewService(engine, Options{}, logging.NewNop())
	svc.WithProber(probeWithAudio(ffprobe.Stream{Index: 1, CodecType: "audio", Tags: map[string]string{"language": "spa"}}))
	svc.WithCommandRunner(func(context.Context, string, ...string) error { return nil })
	got, err := svc.Transcribe(context.Background(), "/videos/talk.mp4", t.TempDir())
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if got.Language != "es" {
		t.Fatalf("expected stream language es, got %q", got.Language)
	}
}

func TestCleanNeverReturnsNilSegments(t *testing.T) {
	got := Clean(evidence.Transcript{})
	if got.Segments == nil {
		t.Fatal("expected non-nil segments")
	}
	if got.Language != "" {
		t.Fatalf("expected empty language, got %q", got.Language)
	}
}
