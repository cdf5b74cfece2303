package preflight

import (
	"context"

	"interviewlens/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// Checks are only run when the corresponding feature is enabled.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Work directory", cfg.Paths.WorkDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
	}

	if cfg.Transcription.Backend == config.BackendWhisperCPP {
		results = append(results, CheckModelFile("Whisper model", cfg.Transcription.ModelPath))
	}

	results = append(results, CheckTessdata(cfg.Recognition.TessdataPrefix))
	results = append(results, CheckRunStore(ctx, cfg))

	if cfg.Judge.Enabled {
		results = append(results, CheckJudge(ctx, "Judge LLM", cfg.GetJudge()))
	}

	return results
}

// Failed returns the checks that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
