package whispercpp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	whisperlib "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"

	"interviewlens/internal/evidence"
	langpkg "interviewlens/internal/language"
	"interviewlens/internal/media/wav"
)

// BackendName identifies this backend in logs and run records.
const BackendName = "whispercpp"

const (
	autoLanguage = "auto"
	sampleRate   = 16000
)

// Config configures the whisper.cpp engine.
type Config struct {
	// ModelPath is the ggml model file, e.g. ggml-large-v3.bin.
	ModelPath string
	// Threads is the inference thread count. Zero keeps the library default.
	Threads int
}

// Engine transcribes WAV files with a loaded whisper.cpp model.
type Engine struct {
	model   whisperlib.Model
	threads int
	// whisper.cpp contexts share model buffers; calls are serialized.
	mu sync.Mutex
}

// New loads the model at cfg.ModelPath.
func New(cfg Config) (*Engine, error) {
	path := strings.TrimSpace(cfg.ModelPath)
	if path == "" {
		return nil, errors.New("whispercpp: model path required")
	}
	model, err := whisperlib.New(path)
	if err != nil {
		return nil, fmt.Errorf("whispercpp: load model %q: %w", path, err)
	}
	return &Engine{model: model, threads: cfg.Threads}, nil
}

// Name returns the backend name.
func (e *Engine) Name() string {
	return BackendName
}

// Close releases the model.
func (e *Engine) Close() error {
	if e == nil || e.model == nil {
		return nil
	}
	return e.model.Close()
}

// Transcribe runs inference over a mono 16 kHz WAV file. An empty language
// enables detection. outputDir is unused; whisper.cpp writes no files.
func (e *Engine) Transcribe(ctx context.Context, source, _ string, language string) (evidence.Transcript, error) {
	samples, format, err := wav.ReadFile(source)
	if err != nil {
		return evidence.Transcript{}, fmt.Errorf("whispercpp: read audio: %w", err)
	}
	if format.SampleRate != sampleRate {
		return evidence.Transcript{}, fmt.Errorf("whispercpp: expected %d Hz audio, got %d", sampleRate, format.SampleRate)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return evidence.Transcript{}, err
	}
	wctx, err := e.model.NewContext()
	if err != nil {
		return evidence.Transcript{}, fmt.Errorf("whispercpp: create context: %w", err)
	}
	if e.threads > 0 {
		wctx.SetThreads(uint(e.threads))
	}
	lang := langpkg.ToISO2(language)
	if lang == "" || !e.model.IsMultilingual() {
		lang = autoLanguage
	}
	if err := wctx.SetLanguage(lang); err != nil {
		if err := wctx.SetLanguage(autoLanguage); err != nil {
			return evidence.Transcript{}, fmt.Errorf("whispercpp: set language: %w", err)
		}
	}

	// Returning false from the encoder callback aborts inference.
	keepGoing := func() bool { return ctx.Err() == nil }
	if err := wctx.Process(samples, keepGoing, nil, nil); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return evidence.Transcript{}, ctxErr
		}
		return evidence.Transcript{}, fmt.Errorf("whispercpp: process audio: %w", err)
	}

	transcript := evidence.Transcript{Segments: make([]evidence.TranscriptSegment, 0)}
	for {
		segment, err := wctx.NextSegment()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return evidence.Transcript{}, fmt.Errorf("whispercpp: read segment: %w", err)
		}
		transcript.Segments = append(transcript.Segments, evidence.TranscriptSegment{
			Start: segment.Start.Seconds(),
			End:   segment.End.Seconds(),
			Text:  segment.Text,
		})
	}
	transcript.Language = langpkg.ToISO2(wctx.DetectedLanguage())
	return transcript, nil
}
