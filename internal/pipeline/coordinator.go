package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"interviewlens/internal/evidence"
	"interviewlens/internal/language"
	"interviewlens/internal/logging"
	"interviewlens/internal/services"
	"interviewlens/internal/worker"
)

// Phase names used in logs and reports.
const (
	PhasePreflight     = "preflight"
	PhaseTranscription = "transcription"
	PhaseDetection     = "slide_detection"
	PhaseRecognition   = "recognition"
	PhaseNormalization = "normalization"
	PhaseJudgment      = "judgment"
)

// Transcriber turns the video's speech into segments plus a detected language.
type Transcriber interface {
	Transcribe(ctx context.Context, videoPath, workDir string) (evidence.Transcript, error)
}

// SlideDetector finds candidate slide frames.
type SlideDetector interface {
	Detect(ctx context.Context, videoPath string) ([]evidence.SlideCandidate, error)
}

// Recognizer runs text recognition behind the isolation boundary.
type Recognizer interface {
	Dispatch(ctx context.Context, task worker.Task) ([]evidence.RawSlideText, error)
}

// Normalizer converts raw samples into the clean slide timeline.
type Normalizer interface {
	Normalize(raw []evidence.RawSlideText) []evidence.CleanSlide
}

// Evaluator scores the assembled evidence. It reports failures inside the
// returned map.
type Evaluator interface {
	Evaluate(ctx context.Context, transcript []evidence.TranscriptSegment, slides []evidence.CleanSlide) map[string]any
}

// Services holds the engines a run uses. Judge may be nil, which disables
// judgment and omits the evaluation from the bundle.
type Services struct {
	Transcriber Transcriber
	Detector    SlideDetector
	Recognizer  Recognizer
	Normalizer  Normalizer
	Judge       Evaluator
}

// Options controls run behaviour.
type Options struct {
	// WorkRoot is the parent of every per-run scratch directory.
	WorkRoot string
	// KeepArtifacts retains the scratch directory after the run.
	KeepArtifacts bool
	// DefaultLanguage is used when transcription yields no language.
	DefaultLanguage string
	// Recognition is forwarded to the worker with every task.
	Recognition worker.Settings
}

// Coordinator sequences the evidence phases for one video at a time.
type Coordinator struct {
	services Services
	opts     Options
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
}

// New validates services and returns a coordinator.
func New(svc Services, opts Options, logger *slog.Logger) (*Coordinator, error) {
	var missing []string
	if svc.Transcriber == nil {
		missing = append(missing, "transcriber")
	}
	if svc.Detector == nil {
		missing = append(missing, "slide detector")
	}
	if svc.Recognizer == nil {
		missing = append(missing, "recognizer")
	}
	if svc.Normalizer == nil {
		missing = append(missing, "normalizer")
	}
	if len(missing) > 0 {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "init",
			"missing services: "+strings.Join(missing, ", "), nil)
	}
	if strings.TrimSpace(opts.DefaultLanguage) == "" {
		opts.DefaultLanguage = language.DefaultCode
	}
	if strings.TrimSpace(opts.WorkRoot) == "" {
		opts.WorkRoot = os.TempDir()
	}
	return &Coordinator{
		services: svc,
		opts:     opts,
		logger:   logging.NewComponentLogger(logger, "pipeline"),
		now:      time.Now,
		newID:    uuid.NewString,
	}, nil
}

// Request identifies one run. RunID is generated when empty.
type Request struct {
	VideoPath string
	RunID     string
}

// PhaseReport summarizes a finished phase.
type PhaseReport struct {
	Name    string        `json:"name"`
	Outcome string        `json:"outcome"`
	Count   int           `json:"count"`
	Elapsed time.Duration `json:"elapsed"`
	Error   string        `json:"error,omitempty"`
}

// Report is the result of a completed run.
type Report struct {
	RunID      string          `json:"run_id"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Phases     []PhaseReport   `json:"phases"`
	WorkDir    string          `json:"work_dir,omitempty"`
	Bundle     evidence.Bundle `json:"bundle"`
}

// Run executes every phase for req.VideoPath. The returned error is non-nil
// only when the input fails preflight, the scratch directory cannot be
// created, or ctx is cancelled.
func (c *Coordinator) Run(ctx context.Context, req Request) (Report, error) {
	runID := strings.TrimSpace(req.RunID)
	if runID == "" {
		runID = c.newID()
	}
	ctx = services.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, c.logger)
	report := Report{RunID: runID, StartedAt: c.now()}

	input := preflight(logger, &report, req.VideoPath)
	if input.Kind == OutcomeFatal {
		return report, input.Err
	}
	videoPath := input.Value

	workDir, err := c.prepareWorkDir(runID)
	if err != nil {
		return report, err
	}
	defer c.releaseWorkDir(logger, workDir)
	if c.opts.KeepArtifacts {
		report.WorkDir = workDir
	}

	logger.Info("run started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.String("video_path", videoPath),
		logging.String("work_dir", workDir),
	)

	transcript := runPhase(ctx, logger, &report, PhaseTranscription,
		func(ctx context.Context) (evidence.Transcript, int, error) {
			t, err := c.services.Transcriber.Transcribe(ctx, videoPath, workDir)
			return t, len(t.Segments), err
		})
	segments := transcript.ValueOr(evidence.Transcript{}).Segments
	detected := c.opts.DefaultLanguage
	if transcript.Kind == OutcomeData && transcript.Value.Language != "" {
		detected = transcript.Value.Language
	}

	candidates := runPhase(ctx, logger, &report, PhaseDetection,
		func(ctx context.Context) ([]evidence.SlideCandidate, int, error) {
			found, err := c.services.Detector.Detect(ctx, videoPath)
			return found, len(found), err
		})

	var raw Outcome[[]evidence.RawSlideText]
	if candidates.Kind == OutcomeData {
		task := worker.Task{
			VideoPath:  videoPath,
			Candidates: candidates.Value,
			Language:   language.ToRecognizer(detected),
			WorkDir:    filepath.Join(workDir, "frames"),
			Settings:   c.opts.Recognition,
		}
		raw = runPhase(ctx, logger, &report, PhaseRecognition,
			func(ctx context.Context) ([]evidence.RawSlideText, int, error) {
				samples, err := c.services.Recognizer.Dispatch(ctx, task)
				return samples, len(samples), err
			})
	} else {
		raw = skipPhase[[]evidence.RawSlideText](logger, &report, PhaseRecognition, "no slide candidates")
	}

	slides := runPhase(ctx, logger, &report, PhaseNormalization,
		func(context.Context) ([]evidence.CleanSlide, int, error) {
			clean := c.services.Normalizer.Normalize(raw.ValueOr(nil))
			return clean, len(clean), nil
		})

	if err := ctx.Err(); err != nil {
		return report, fmt.Errorf("run %s cancelled: %w", runID, err)
	}

	bundle := evidence.NewBundle(videoPath, detected, segments, slides.ValueOr(nil))
	if c.services.Judge != nil {
		bundle.Evaluation = c.judge(ctx, logger, &report, bundle)
	}
	report.Bundle = bundle
	report.FinishedAt = c.now()

	logger.Info("run completed",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.String("status", bundle.Meta.Status),
		logging.String("detected_language", detected),
		logging.Int("transcript_segments", len(bundle.Transcription)),
		logging.Int("slides", len(bundle.VisualContext)),
		logging.Bool("degraded", bundle.Degraded()),
		logging.Duration("elapsed", report.FinishedAt.Sub(report.StartedAt)),
	)
	return report, nil
}

func (c *Coordinator) judge(ctx context.Context, logger *slog.Logger, report *Report, bundle evidence.Bundle) map[string]any {
	var result map[string]any
	runPhase(ctx, logger, report, PhaseJudgment,
		func(ctx context.Context) (struct{}, int, error) {
			result = c.services.Judge.Evaluate(ctx, bundle.Transcription, bundle.VisualContext)
			if msg, failed := result["error"].(string); failed {
				return struct{}{}, 0, errors.New(msg)
			}
			pairs, _ := result["qa_pairs"].([]any)
			return struct{}{}, len(pairs), nil
		})
	if result == nil {
		return map[string]any{"error": "judge returned no evaluation"}
	}
	return result
}

func (c *Coordinator) prepareWorkDir(runID string) (string, error) {
	if err := os.MkdirAll(c.opts.WorkRoot, 0o755); err != nil {
		return "", services.Wrap(services.ErrConfiguration, "pipeline", "create work root", c.opts.WorkRoot, err)
	}
	dir, err := os.MkdirTemp(c.opts.WorkRoot, "run-"+shortID(runID)+"-")
	if err != nil {
		return "", services.Wrap(services.ErrConfiguration, "pipeline", "create work dir", c.opts.WorkRoot, err)
	}
	return dir, nil
}

func (c *Coordinator) releaseWorkDir(logger *slog.Logger, dir string) {
	if c.opts.KeepArtifacts {
		logger.Info("run artifacts kept", logging.String("work_dir", dir))
		return
	}
	if err := os.RemoveAll(dir); err != nil {
		logging.WarnWithContext(logger, "work dir cleanup failed", "work_dir_cleanup_failed",
			logging.String("work_dir", dir),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "remove the directory manually"),
			logging.String(logging.FieldImpact, "scratch files remain on disk"),
		)
	}
}

func shortID(runID string) string {
	if len(runID) > 8 {
		return runID[:8]
	}
	return runID
}
