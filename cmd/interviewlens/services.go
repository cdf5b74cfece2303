package main

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"interviewlens/internal/config"
	"interviewlens/internal/evidence"
	"interviewlens/internal/judge"
	"interviewlens/internal/logging"
	"interviewlens/internal/normalize"
	"interviewlens/internal/pipeline"
	"interviewlens/internal/services"
	"interviewlens/internal/services/llm"
	"interviewlens/internal/services/whispercpp"
	"interviewlens/internal/services/whisperx"
	"interviewlens/internal/slides"
	"interviewlens/internal/transcription"
	"interviewlens/internal/worker"
)

// engineSet is the wired pipeline.Services plus the resources that must be
// released when the command exits.
type engineSet struct {
	services pipeline.Services
	closers  []func() error
}

func (e *engineSet) Close() error {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		errs = append(errs, e.closers[i]())
	}
	return errors.Join(errs...)
}

// buildEngines wires every engine a run needs from cfg. forcedLanguage, when
// set, disables speech language detection.
func buildEngines(cfg *config.Config, forcedLanguage string, logger *slog.Logger) *engineSet {
	set := &engineSet{}

	engine := newSpeechEngine(cfg, logger)
	if closer, ok := engine.(interface{ Close() error }); ok {
		set.closers = append(set.closers, closer.Close)
	}
	set.services.Transcriber = transcription.NewService(engine, transcription.Options{
		FFmpegBinary:  cfg.FFmpegBinary(),
		FFprobeBinary: cfg.FFprobeBinary(),
		Language:      forcedLanguage,
	}, logger)

	set.services.Detector = slides.NewDetector(slides.Options{
		MinSceneDuration: cfg.Slides.MinSceneDuration,
		MinAreaRatio:     cfg.Slides.MinAreaRatio,
	}, cfg.FFmpegBinary(), cfg.FFprobeBinary(), logger)

	supervisor := worker.NewSupervisor(worker.Config{
		Executable: cfg.Recognition.WorkerBinary,
		LockPath:   cfg.WorkerLockPath(),
		Timeout:    time.Duration(cfg.Recognition.TimeoutSeconds) * time.Second,
	}, logger)
	set.closers = append(set.closers, supervisor.Close)
	set.services.Recognizer = supervisor

	set.services.Normalizer = normalize.New(normalize.Options{
		NoiseTokenRatio:     cfg.Normalize.NoiseTokenRatio,
		SimilarityThreshold: cfg.Normalize.SimilarityThreshold,
		MinSlideLength:      cfg.Normalize.MinSlideLength,
		MinNoiseSamples:     cfg.Normalize.MinNoiseSamples,
		SingleCharWhitelist: cfg.Normalize.SingleCharWhitelist,
	}, logger)

	if cfg.Judge.Enabled {
		judgeCfg := cfg.GetJudge()
		client := llm.NewClient(llm.Config{
			APIKey:         judgeCfg.APIKey,
			BaseURL:        judgeCfg.BaseURL,
			Model:          judgeCfg.Model,
			Referer:        judgeCfg.Referer,
			Title:          judgeCfg.Title,
			TimeoutSeconds: judgeCfg.TimeoutSeconds,
		})
		set.services.Judge = judge.New(client, logger)
	}

	return set
}

// recognitionSettings is the worker configuration forwarded with every task.
func recognitionSettings(cfg *config.Config) worker.Settings {
	return worker.Settings{
		FFmpegBinary:        cfg.FFmpegBinary(),
		TessdataPrefix:      cfg.Recognition.TessdataPrefix,
		BatchSize:           cfg.Recognition.BatchSize,
		ConfidenceThreshold: cfg.Recognition.ConfidenceThreshold,
		MinTextLength:       cfg.Recognition.MinTextLength,
		UpscaleWidth:        cfg.Recognition.UpscaleWidth,
	}
}

func newSpeechEngine(cfg *config.Config, logger *slog.Logger) transcription.Engine {
	switch cfg.Transcription.Backend {
	case config.BackendWhisperCPP:
		engine, err := whispercpp.New(whispercpp.Config{
			ModelPath: cfg.Transcription.ModelPath,
			Threads:   cfg.Transcription.Threads,
		})
		if err != nil {
			logging.WarnWithContext(logger, "speech engine unavailable; transcription will be empty", "speech_engine_unavailable",
				logging.String("backend", config.BackendWhisperCPP),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check transcription.model_path points at a ggml model"),
				logging.String(logging.FieldImpact, "bundle has no transcript"),
			)
			return unavailableEngine{name: config.BackendWhisperCPP, err: err}
		}
		return engine
	default:
		return whisperx.NewService(whisperx.Config{
			Model:       cfg.Transcription.Model,
			CUDAEnabled: cfg.Transcription.CUDAEnabled,
			VADMethod:   cfg.Transcription.VADMethod,
			HFToken:     cfg.Transcription.HuggingFace,
		})
	}
}

// unavailableEngine stands in for a backend that failed to load so the
// transcription phase degrades instead of aborting the run.
type unavailableEngine struct {
	name string
	err  error
}

func (u unavailableEngine) Name() string { return u.name }

func (u unavailableEngine) Transcribe(context.Context, string, string, string) (evidence.Transcript, error) {
	return evidence.Transcript{}, services.Wrap(services.ErrConfiguration, "transcription", "load engine", u.name+" unavailable", u.err)
}
