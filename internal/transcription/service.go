package transcription

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"interviewlens/internal/evidence"
	"interviewlens/internal/language"
	"interviewlens/internal/logging"
	"interviewlens/internal/media/audio"
	"interviewlens/internal/media/ffprobe"
	"interviewlens/internal/services"
)

// AudioFileName is the scratch file the speech track is extracted to.
const AudioFileName = "speech.wav"

// Engine transcribes a mono 16 kHz WAV file. An empty language asks the
// engine to detect it.
type Engine interface {
	Name() string
	Transcribe(ctx context.Context, wavPath, outputDir, language string) (evidence.Transcript, error)
}

// Options configures a Service.
type Options struct {
	FFmpegBinary  string
	FFprobeBinary string
	// Language forces the spoken language. Empty enables detection.
	Language string
}

// Service runs audio extraction and transcription for one video.
type Service struct {
	engine Engine
	opts   Options
	logger *slog.Logger
	probe  func(ctx context.Context, binary, path string) (ffprobe.Result, error)
	run    func(ctx context.Context, name string, args ...string) error
}

// NewService constructs a Service around engine.
func NewService(engine Engine, opts Options, logger *slog.Logger) *Service {
	if strings.TrimSpace(opts.FFmpegBinary) == "" {
		opts.FFmpegBinary = "ffmpeg"
	}
	if strings.TrimSpace(opts.FFprobeBinary) == "" {
		opts.FFprobeBinary = "ffprobe"
	}
	return &Service{
		engine: engine,
		opts:   opts,
		logger: logging.NewComponentLogger(logger, "transcription"),
		probe:  ffprobe.Inspect,
		run:    runCommand,
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.run = runner
}

// WithProber sets a custom media prober (for testing).
func (s *Service) WithProber(probe func(ctx context.Context, binary, path string) (ffprobe.Result, error)) {
	s.probe = probe
}

// Backend returns the engine name.
func (s *Service) Backend() string {
	return s.engine.Name()
}

// Transcribe extracts speech audio from videoPath into workDir and
// transcribes it. The extracted WAV stays in workDir; the caller owns the
// directory's lifetime.
func (s *Service) Transcribe(ctx context.Context, videoPath, workDir string) (evidence.Transcript, error) {
	logger := logging.WithContext(ctx, s.logger)
	probe, err := s.probe(ctx, s.opts.FFprobeBinary, videoPath)
	if err != nil {
		return evidence.Transcript{}, services.Wrap(services.ErrExternalTool, "transcription", "probe video", "ffprobe failed", err)
	}
	selection := audio.Select(probe.Streams, s.opts.Language)
	if !selection.Found() {
		return evidence.Transcript{}, services.Wrap(services.ErrValidation, "transcription", "select audio", "no audio stream", nil)
	}

	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return evidence.Transcript{}, services.Wrap(services.ErrConfiguration, "transcription", "prepare scratch dir", workDir, err)
	}
	wavPath := filepath.Join(workDir, AudioFileName)
	started := time.Now()
	if err := s.run(ctx, s.opts.FFmpegBinary, extractArgs(videoPath, selection.MapSpecifier(), wavPath)...); err != nil {
		return evidence.Transcript{}, services.Wrap(services.ErrExternalTool, "transcription", "extract audio", "ffmpeg failed", err)
	}
	logger.Debug("speech audio extracted",
		logging.String("stream", selection.Label()),
		logging.String("path", wavPath),
		logging.Duration("elapsed", time.Since(started)),
	)

	started = time.Now()
	raw, err := s.engine.Transcribe(ctx, wavPath, workDir, s.opts.Language)
	if err != nil {
		return evidence.Transcript{}, services.Wrap(services.ErrExternalTool, "transcription", s.engine.Name(), "transcription failed", err)
	}
	transcript := Clean(raw)
	if transcript.Language == "" {
		transcript.Language = selection.Language
	}
	logger.Info("transcription complete",
		logging.String(logging.FieldEventType, "transcription_complete"),
		logging.String("backend", s.engine.Name()),
		logging.Int("segments", len(transcript.Segments)),
		logging.String("language", language.DisplayName(transcript.Language)),
		logging.Duration("elapsed", time.Since(started)),
	)
	return transcript, nil
}

// Clean drops segments with empty text or end <= start, trims segment text,
// and normalizes the language code. The segment slice is never nil.
func Clean(raw evidence.Transcript) evidence.Transcript {
	out := evidence.Transcript{
		Segments: make([]evidence.TranscriptSegment, 0, len(raw.Segments)),
		Language: language.ToISO2(raw.Language),
	}
	for _, seg := range raw.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" || seg.End <= seg.Start || seg.Start < 0 {
			continue
		}
		out.Segments = append(out.Segments, evidence.TranscriptSegment{Start: seg.Start, End: seg.End, Text: text})
	}
	return out
}

func extractArgs(source, specifier, dest string) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-map", specifier,
		"-vn",
		"-sn",
		"-dn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		dest,
	}
}

func runCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}
