package slides

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"interviewlens/internal/evidence"
	"interviewlens/internal/logging"
	"interviewlens/internal/media/ffprobe"
	"interviewlens/internal/services"
)

// CommandRunner executes a command and returns its standard output.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Prober inspects a media file.
type Prober func(ctx context.Context, binary, path string) (ffprobe.Result, error)

// Detector finds slide candidates with ffmpeg scene detection.
type Detector struct {
	opts          Options
	ffmpegBinary  string
	ffprobeBinary string
	logger        *slog.Logger
	run           CommandRunner
	probe         Prober
}

// NewDetector constructs a Detector. Empty binary names default to ffmpeg
// and ffprobe on PATH.
func NewDetector(opts Options, ffmpegBinary, ffprobeBinary string, logger *slog.Logger) *Detector {
	if strings.TrimSpace(ffmpegBinary) == "" {
		ffmpegBinary = "ffmpeg"
	}
	if strings.TrimSpace(ffprobeBinary) == "" {
		ffprobeBinary = "ffprobe"
	}
	return &Detector{
		opts:          opts,
		ffmpegBinary:  ffmpegBinary,
		ffprobeBinary: ffprobeBinary,
		logger:        logging.NewComponentLogger(logger, "slides"),
		run:           runCommand,
		probe:         ffprobe.Inspect,
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (d *Detector) WithCommandRunner(runner CommandRunner) {
	d.run = runner
}

// WithProber sets a custom media prober (for testing).
func (d *Detector) WithProber(probe Prober) {
	d.probe = probe
}

// Detect returns the slide candidates for a video, ordered by timestamp.
func (d *Detector) Detect(ctx context.Context, videoPath string) ([]evidence.SlideCandidate, error) {
	probe, err := d.probe(ctx, d.ffprobeBinary, videoPath)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "slides", "probe video", "ffprobe failed", err)
	}
	if _, ok := probe.PrimaryVideo(); !ok {
		return nil, services.Wrap(services.ErrValidation, "slides", "probe video", "no video stream", nil)
	}
	output, err := d.run(ctx, d.ffmpegBinary, buildSceneArgs(videoPath)...)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "slides", "scene detection", "ffmpeg failed", err)
	}
	scores, err := ParseSceneScores(bytes.NewReader(output))
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "slides", "scene detection", "unreadable ffmpeg output", err)
	}
	candidates := SelectCandidates(scores, d.opts)
	d.logger.Info("slide candidates detected",
		logging.String(logging.FieldEventType, "slides_detected"),
		logging.Int("frames_scored", len(scores)),
		logging.Int("candidates", len(candidates)),
		logging.Float64("nominal_fps", probe.FrameRate()),
		logging.Float64("duration_seconds", probe.DurationSeconds()),
	)
	return candidates, nil
}

// buildSceneArgs scores every frame of the first video stream. Every frame
// passes the select so metadata=print numbers them exactly like the
// decoder-index select used for frame extraction; thresholds apply in
// SelectCandidates.
func buildSceneArgs(videoPath string) []string {
	return []string{
		"-hide_banner",
		"-nostats",
		"-loglevel", "error",
		"-i", videoPath,
		"-map", "0:v:0",
		"-an", "-sn", "-dn",
		"-vf", "select='gte(scene,0)',metadata=print:file=-",
		"-f", "null",
		"-",
	}
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(stderr.String()))
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return output, nil
}
