package pipeline_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"interviewlens/internal/evidence"
	"interviewlens/internal/normalize"
	"interviewlens/internal/pipeline"
	"interviewlens/internal/services"
	"interviewlens/internal/worker"
)

type fakeTranscriber struct {
	transcript evidence.Transcript
	err        error
	panicMsg   string
	calls      int
	workDir    string
}

func (f *fakeTranscriber) Transcribe(_ context.Context, _, workDir string) (evidence.Transcript, error) {
	f.calls++
	f.workDir = workDir
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	if err := os.WriteFile(filepath.Join(workDir, "speech.wav"), []byte("RIFF"), 0o644); err != nil {
		return evidence.Transcript{}, err
	}
	return f.transcript, f.err
}

type fakeDetector struct {
	candidates []evidence.SlideCandidate
	err        error
	calls      int
}

func (f *fakeDetector) Detect(context.Context, string) ([]evidence.SlideCandidate, error) {
	f.calls++
	return f.candidates, f.err
}

type fakeRecognizer struct {
	samples []evidence.RawSlideText
	err     error
	calls   int
	task    worker.Task
}

func (f *fakeRecognizer) Dispatch(_ context.Context, task worker.Task) ([]evidence.RawSlideText, error) {
	f.calls++
	f.task = task
	return f.samples, f.err
}

type fakeJudge struct {
	result map[string]any
	calls  int
}

func (f *fakeJudge) Evaluate(context.Context, []evidence.TranscriptSegment, []evidence.CleanSlide) map[string]any {
	f.calls++
	return f.result
}

type harness struct {
	transcriber *fakeTranscriber
	detector    *fakeDetector
	recognizer  *fakeRecognizer
	workRoot    string
	video       string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	video := filepath.Join(dir, "interview.mp4")
	if err := os.WriteFile(video, []byte("not really a video"), 0o644); err != nil {
		t.Fatalf("write video: %v", err)
	}
	return &harness{
		transcriber: &fakeTranscriber{transcript: evidence.Transcript{
			Segments: []evidence.TranscriptSegment{{Start: 0, End: 2, Text: "hello"}},
			Language: "zh",
		}},
		detector: &fakeDetector{candidates: []evidence.SlideCandidate{
			{FrameIndex: 0, TimestampSec: 0, ChangeRatio: 1},
			{FrameIndex: 60, TimestampSec: 2, ChangeRatio: 0.4},
			{FrameIndex: 120, TimestampSec: 4, ChangeRatio: 0.5},
		}},
		recognizer: &fakeRecognizer{samples: []evidence.RawSlideText{
			{TimestampSec: 0, FrameIndex: 0, Text: "machine learning basics"},
			{TimestampSec: 2, FrameIndex: 60, Text: "Machine Learning Basics!!"},
			{TimestampSec: 4, FrameIndex: 120, Text: "neural networks"},
		}},
		workRoot: filepath.Join(dir, "work"),
		video:    video,
	}
}

func (h *harness) coordinator(t *testing.T, judge pipeline.Evaluator, keep bool) *pipeline.Coordinator {
	t.Helper()
	svc := pipeline.Services{
		Transcriber: h.transcriber,
		Detector:    h.detector,
		Recognizer:  h.recognizer,
		Normalizer:  normalize.New(normalize.DefaultOptions(), nil),
	}
	if judge != nil {
		svc.Judge = judge
	}
	c, err := pipeline.New(svc, pipeline.Options{
		WorkRoot:      h.workRoot,
		KeepArtifacts: keep,
		Recognition:   worker.Settings{ConfidenceThreshold: 0.6, MinTextLength: 3},
	}, nil)
	if err != nil {
		t.Fatalf("pipeline.New: %v", err)
	}
	return c
}

func phaseOutcome(report pipeline.Report, name string) string {
	for _, p := range report.Phases {
		if p.Name == name {
			return p.Outcome
		}
	}
	return ""
}

func TestRunHappyPath(t *testing.T) {
	h := newHarness(t)
	report, err := h.coordinator(t, nil, false).Run(context.Background(), pipeline.Request{VideoPath: h.video, RunID: "run-1234567890"})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	bundle := report.Bundle
	if report.RunID != "run-1234567890" {
		t.Fatalf("unexpected run id %q", report.RunID)
	}
	if bundle.Meta.Status != evidence.StatusCompleted || bundle.Meta.DetectedLanguage != "zh" {
		t.Fatalf("unexpected meta %+v", bundle.Meta)
	}
	if bundle.Meta.VideoPath != h.video {
		t.Fatalf("expected absolute video path, got %q", bundle.Meta.VideoPath)
	}
	if len(bundle.Transcription) != 1 {
		t.Fatalf("expected transcript, got %+v", bundle.Transcription)
	}
	if len(bundle.VisualContext) != 2 {
		t.Fatalf("expected near-duplicate collapse to two slides, got %+v", bundle.VisualContext)
	}
	if bundle.VisualContext[0].TimestampSec != 0 || bundle.VisualContext[1].Text != "neural networks" {
		t.Fatalf("unexpected timeline %+v", bundle.VisualContext)
	}

	if h.recognizer.task.Language != "ch" {
		t.Fatalf("expected mapped recognizer language ch, got %q", h.recognizer.task.Language)
	}
	if len(h.recognizer.task.Candidates) != 3 || h.recognizer.task.Settings.ConfidenceThreshold != 0.6 {
		t.Fatalf("unexpected task %+v", h.recognizer.task)
	}
	if !strings.HasPrefix(h.recognizer.task.WorkDir, h.transcriber.workDir) {
		t.Fatalf("frames dir %q should live in run dir %q", h.recognizer.task.WorkDir, h.transcriber.workDir)
	}
	if _, err := os.Stat(h.transcriber.workDir); !os.IsNotExist(err) {
		t.Fatalf("expected work dir removed, stat err = %v", err)
	}
	if report.WorkDir != "" {
		t.Fatalf("work dir should not be reported when removed, got %q", report.WorkDir)
	}

	for _, name := range []string{pipeline.PhasePreflight, pipeline.PhaseTranscription, pipeline.PhaseDetection, pipeline.PhaseRecognition, pipeline.PhaseNormalization} {
		if got := phaseOutcome(report, name); got != "data" {
			t.Errorf("phase %s outcome = %q, want data", name, got)
		}
	}
	if phaseOutcome(report, pipeline.PhaseJudgment) != "" {
		t.Error("judgment should not run when disabled")
	}

	encoded, err := json.Marshal(bundle)
	if err != nil {
		t.Fatalf("marshal bundle: %v", err)
	}
	if strings.Contains(string(encoded), "ai_evaluation") {
		t.Fatalf("disabled judge must not emit ai_evaluation: %s", encoded)
	}
}

func TestRunMissingVideoIsFatal(t *testing.T) {
	h := newHarness(t)
	report, err := h.coordinator(t, nil, false).Run(context.Background(), pipeline.Request{VideoPath: filepath.Join(t.TempDir(), "missing.mp4")})
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(report.Phases) != 1 || report.Phases[0].Name != pipeline.PhasePreflight {
		t.Fatalf("expected only the preflight phase, got %+v", report.Phases)
	}
	if report.Phases[0].Outcome != pipeline.OutcomeFatal.String() || report.Phases[0].Error == "" {
		t.Fatalf("expected fatal preflight with error, got %+v", report.Phases[0])
	}
	if h.transcriber.calls+h.detector.calls+h.recognizer.calls != 0 {
		t.Fatal("no phase may start when preflight fails")
	}
}

func TestRunDirectoryIsFatal(t *testing.T) {
	h := newHarness(t)
	_, err := h.coordinator(t, nil, false).Run(context.Background(), pipeline.Request{VideoPath: t.TempDir()})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestRunUnreadableVideoIsFatal(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root bypasses file permissions")
	}
	h := newHarness(t)
	if err := os.Chmod(h.video, 0o000); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(h.video, 0o644) })
	_, err := h.coordinator(t, nil, false).Run(context.Background(), pipeline.Request{VideoPath: h.video})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestRunTranscriptionFailureDegrades(t *testing.T) {
	h := newHarness(t)
	h.transcriber.err = services.Wrap(services.ErrExternalTool, "transcription", "whisperx", "exit 1", nil)

	report, err := h.coordinator(t, nil, false).Run(context.Background(), pipeline.Request{VideoPath: h.video})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if report.Bundle.Meta.DetectedLanguage != "en" {
		t.Fatalf("expected default language, got %q", report.Bundle.Meta.DetectedLanguage)
	}
	if report.Bundle.Transcription == nil || len(report.Bundle.Transcription) != 0 {
		t.Fatalf("expected empty non-nil transcript, got %#v", report.Bundle.Transcription)
	}
	if h.recognizer.task.Language != "en" {
		t.Fatalf("expected default recognizer language, got %q", h.recognizer.task.Language)
	}
	if phaseOutcome(report, pipeline.PhaseTranscription) != "empty" {
		t.Fatalf("unexpected phases %+v", report.Phases)
	}
	if report.Bundle.Meta.Status != evidence.StatusCompleted {
		t.Fatal("degraded runs still complete")
	}
}

func TestRunTranscriberPanicDegrades(t *testing.T) {
	h := newHarness(t)
	h.transcriber.panicMsg = "native engine exploded"

	report, err := h.coordinator(t, nil, false).Run(context.Background(), pipeline.Request{VideoPath: h.video})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(report.Bundle.Transcription) != 0 || len(report.Bundle.VisualContext) != 2 {
		t.Fatalf("unexpected bundle %+v", report.Bundle)
	}
}

func TestRunDetectionFailureSkipsRecognition(t *testing.T) {
	h := newHarness(t)
	h.detector.err = errors.New("ffmpeg missing")

	report, err := h.coordinator(t, nil, false).Run(context.Background(), pipeline.Request{VideoPath: h.video})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if h.recognizer.calls != 0 {
		t.Fatal("recognition must not start without candidates")
	}
	if report.Bundle.VisualContext == nil || len(report.Bundle.VisualContext) != 0 {
		t.Fatalf("expected empty non-nil slides, got %#v", report.Bundle.VisualContext)
	}
	if phaseOutcome(report, pipeline.PhaseRecognition) != "empty" {
		t.Fatalf("recognition should be recorded as empty, got %+v", report.Phases)
	}
	if !report.Bundle.Degraded() {
		t.Fatal("bundle without slides is degraded")
	}
}

func TestRunRecognitionFailureDegrades(t *testing.T) {
	h := newHarness(t)
	h.recognizer.err = services.Wrap(services.ErrWorkerCrashed, "recognition", "wait", "signal: killed", nil)

	report, err := h.coordinator(t, nil, false).Run(context.Background(), pipeline.Request{VideoPath: h.video})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(report.Bundle.VisualContext) != 0 || len(report.Bundle.Transcription) != 1 {
		t.Fatalf("unexpected bundle %+v", report.Bundle)
	}
}

func TestRunKeepArtifacts(t *testing.T) {
	h := newHarness(t)
	report, err := h.coordinator(t, nil, true).Run(context.Background(), pipeline.Request{VideoPath: h.video})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if report.WorkDir == "" || report.WorkDir != h.transcriber.workDir {
		t.Fatalf("expected kept work dir, got %q", report.WorkDir)
	}
	if _, err := os.Stat(filepath.Join(report.WorkDir, "speech.wav")); err != nil {
		t.Fatalf("expected artifacts kept: %v", err)
	}
}

func TestRunJudgeResults(t *testing.T) {
	h := newHarness(t)
	judge := &fakeJudge{result: map[string]any{"interview_score": 8.0, "qa_pairs": []any{map[string]any{}}}}
	report, err := h.coordinator(t, judge, false).Run(context.Background(), pipeline.Request{VideoPath: h.video})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if report.Bundle.Evaluation["interview_score"] != 8.0 {
		t.Fatalf("unexpected evaluation %+v", report.Bundle.Evaluation)
	}
	if phaseOutcome(report, pipeline.PhaseJudgment) != "data" {
		t.Fatalf("unexpected phases %+v", report.Phases)
	}

	failing := &fakeJudge{result: map[string]any{"error": "http 500"}}
	report, err = h.coordinator(t, failing, false).Run(context.Background(), pipeline.Request{VideoPath: h.video})
	if err != nil {
		t.Fatalf("judge failure must not fail the run: %v", err)
	}
	if report.Bundle.Evaluation["error"] != "http 500" {
		t.Fatalf("expected error evaluation, got %+v", report.Bundle.Evaluation)
	}

	silent := &fakeJudge{}
	report, err = h.coordinator(t, silent, false).Run(context.Background(), pipeline.Request{VideoPath: h.video})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if _, ok := report.Bundle.Evaluation["error"]; !ok {
		t.Fatalf("nil evaluation should be reported as an error, got %+v", report.Bundle.Evaluation)
	}
}

func TestRunCancelled(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := h.coordinator(t, nil, false).Run(ctx, pipeline.Request{VideoPath: h.video})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNewRequiresServices(t *testing.T) {
	_, err := pipeline.New(pipeline.Services{}, pipeline.Options{}, nil)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestOutcomeValueOr(t *testing.T) {
	if got := pipeline.Data(3).ValueOr(7); got != 3 {
		t.Fatalf("Data.ValueOr = %d", got)
	}
	if got := pipeline.Empty[int](errors.New("x")).ValueOr(7); got != 7 {
		t.Fatalf("Empty.ValueOr = %d", got)
	}
	if got := pipeline.Fatal[int](errors.New("x")).ValueOr(7); got != 7 {
		t.Fatalf("Fatal.ValueOr = %d", got)
	}
}
