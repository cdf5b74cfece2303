package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"interviewlens/internal/config"
	"interviewlens/internal/deps"
	"interviewlens/internal/language"
	"interviewlens/internal/runstore"
	"interviewlens/internal/services/llm"
	"interviewlens/internal/textutil"
	"interviewlens/internal/worker"
)

// CheckJudge verifies that the judge API is reachable and the key is valid.
// It uses a 30-second timeout and a single attempt (no retries).
func CheckJudge(ctx context.Context, name string, cfg config.JudgeConfig) Result {
	if cfg.APIKey == "" {
		return Result{Name: name, Detail: "API key missing"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client := llm.NewClient(llm.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		Referer: cfg.Referer,
		Title:   cfg.Title,
	}, llm.WithRetryMaxAttempts(1))

	if err := client.HealthCheck(checkCtx); err != nil {
		return Result{Name: name, Detail: summarizeLLMError(err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("API reachable (%s)", client.Model())}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckModelFile verifies that a local model file exists and is readable.
func CheckModelFile(name, path string) Result {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "model_path not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	if info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not readable: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d MiB)", path, info.Size()>>20)}
}

// CheckTessdata verifies that the English traineddata used as the recognition
// fallback is installed under the configured prefix. An empty prefix defers to
// TESSDATA_PREFIX and then to the system tessdata location, which Tesseract
// resolves itself.
func CheckTessdata(prefix string) Result {
	const name = "Tesseract data"
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = strings.TrimSpace(os.Getenv("TESSDATA_PREFIX"))
	}
	if prefix == "" {
		return Result{Name: name, Passed: true, Detail: "system default (resolved at recognition time)"}
	}
	trained := language.TrainedData(language.DefaultCode) + ".traineddata"
	path := filepath.Join(prefix, trained)
	if _, err := os.Stat(path); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s missing under %s", trained, prefix)}
	}
	return Result{Name: name, Passed: true, Detail: prefix}
}

// CheckRunStore opens the run history database and runs its integrity check.
func CheckRunStore(ctx context.Context, cfg *config.Config) Result {
	const name = "Run history"
	store, err := runstore.Open(cfg)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	defer store.Close()
	if err := store.CheckHealth(ctx); err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	count, err := store.Count(ctx)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d runs)", store.Path(), count)}
}

// CheckSystemDeps evaluates the external binaries a run shells out to.
// Both analyze and doctor use this to avoid duplicating the requirements
// list.
func CheckSystemDeps(ctx context.Context, cfg *config.Config) []deps.Status {
	statuses := []deps.Status{
		deps.CheckMediaTool(ctx, deps.Requirement{
			Name:        "FFmpeg",
			Command:     cfg.FFmpegBinary(),
			Description: "Required for audio extraction, scene scoring, and frame capture",
		}),
		deps.CheckMediaTool(ctx, deps.Requirement{
			Name:        "FFprobe",
			Command:     cfg.FFprobeBinary(),
			Description: "Required for stream and frame-rate inspection",
		}),
	}
	statuses = append(statuses, checkWorkerBinary(cfg.Recognition.WorkerBinary))
	if cfg.Transcription.Backend == config.BackendWhisperX {
		statuses = append(statuses, deps.CheckBinaries([]deps.Requirement{{
			Name:        "uvx",
			Command:     "uvx",
			Description: "Required for WhisperX-driven transcription",
		}})...)
	}
	return statuses
}

func checkWorkerBinary(configured string) deps.Status {
	status := deps.Status{
		Name:        "OCR worker",
		Command:     textutil.Ternary(configured != "", configured, worker.BinaryName),
		Description: "Required for slide text recognition",
	}
	path, err := worker.ResolveExecutable(configured)
	if err != nil {
		status.Detail = err.Error()
		return status
	}
	status.Available = true
	status.Detail = path
	return status
}

// summarizeLLMError produces a human-readable summary for LLM health check failures.
func summarizeLLMError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "health check timed out (LLM API unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "health check timed out (LLM API unreachable)"
	}
	return err.Error()
}
