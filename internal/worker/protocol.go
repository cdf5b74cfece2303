package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"interviewlens/internal/evidence"
)

// Settings carries the recognition configuration into the worker process.
type Settings struct {
	FFmpegBinary        string  `json:"ffmpeg_binary,omitempty"`
	TessdataPrefix      string  `json:"tessdata_prefix,omitempty"`
	BatchSize           int     `json:"batch_size,omitempty"`
	ConfidenceThreshold float64 `json:"confidence_threshold"`
	MinTextLength       int     `json:"min_text_length"`
	UpscaleWidth        int     `json:"upscale_width,omitempty"`
}

// Task is the serializable description of one recognition job.
type Task struct {
	VideoPath  string                    `json:"video_path"`
	Candidates []evidence.SlideCandidate `json:"candidates"`
	Language   string                    `json:"language"`
	WorkDir    string                    `json:"work_dir"`
	Settings   Settings                  `json:"settings"`
}

// Validate reports whether the task can be executed.
func (t Task) Validate() error {
	if strings.TrimSpace(t.VideoPath) == "" {
		return errors.New("task: video path required")
	}
	if strings.TrimSpace(t.WorkDir) == "" {
		return errors.New("task: work dir required")
	}
	return nil
}

// Result is the worker's answer. Error is set when recognition could not
// run at all.
type Result struct {
	Samples []evidence.RawSlideText `json:"samples"`
	Error   string                  `json:"error,omitempty"`
}

// ScanFunc performs recognition for a task inside the worker process.
type ScanFunc func(ctx context.Context, task Task) ([]evidence.RawSlideText, error)

// Serve reads one Task from r, runs scan, and writes one Result to w. A
// failed scan is reported inside the Result; the returned error covers
// protocol failures only.
func Serve(ctx context.Context, r io.Reader, w io.Writer, scan ScanFunc) error {
	var task Task
	if err := json.NewDecoder(r).Decode(&task); err != nil {
		err = fmt.Errorf("decode task: %w", err)
		return errors.Join(err, writeResult(w, Result{Error: err.Error()}))
	}
	if err := task.Validate(); err != nil {
		return writeResult(w, Result{Error: err.Error()})
	}
	samples, err := scan(ctx, task)
	if err != nil {
		return writeResult(w, Result{Error: err.Error()})
	}
	return writeResult(w, Result{Samples: samples})
}

func writeResult(w io.Writer, result Result) error {
	if result.Samples == nil {
		result.Samples = []evidence.RawSlideText{}
	}
	if err := json.NewEncoder(w).Encode(result); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}
