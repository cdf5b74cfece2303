package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"interviewlens/internal/config"
	"interviewlens/internal/deps"
	"interviewlens/internal/language"
	"interviewlens/internal/logging"
	"interviewlens/internal/pipeline"
	"interviewlens/internal/preflight"
	"interviewlens/internal/runstore"
)

type analyzeOptions struct {
	output        string
	summary       bool
	save          bool
	keepArtifacts bool
	language      string
	runID         string
}

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var opts analyzeOptions

	cmd := &cobra.Command{
		Use:   "analyze <video>",
		Short: "Build the evidence bundle for a recorded interview",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			forcedLanguage, err := languageFlag(opts.language)
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			videoPath, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve video path: %w", err)
			}
			runID := strings.TrimSpace(opts.runID)
			if runID == "" {
				runID = uuid.NewString()
			}

			now := time.Now()
			logging.PruneRunLogs(logger, cfg.Paths.LogDir, cfg.Logging.RetentionDays, now)
			runLog, err := logging.OpenRunLog(logger, cfg.Paths.LogDir, runID, filepath.Base(videoPath), now)
			if err != nil {
				return err
			}
			defer runLog.Close()
			logger = runLog.Logger

			for _, missing := range deps.Missing(preflight.CheckSystemDeps(runCtx, cfg)) {
				logging.WarnWithContext(logger, "required tool unavailable", "dependency_missing",
					logging.String("dependency", missing.Name),
					logging.String("detail", missing.Detail),
					logging.String(logging.FieldErrorHint, "install it or run `interviewlens doctor`"),
					logging.String(logging.FieldImpact, missing.Description),
				)
			}

			engines := buildEngines(cfg, forcedLanguage, logger)
			defer engines.Close()

			coordinator, err := pipeline.New(engines.services, pipeline.Options{
				WorkRoot:        cfg.Paths.WorkDir,
				KeepArtifacts:   opts.keepArtifacts,
				DefaultLanguage: cfg.Transcription.DefaultLanguage,
				Recognition:     recognitionSettings(cfg),
			}, logger)
			if err != nil {
				return err
			}

			report, err := coordinator.Run(runCtx, pipeline.Request{VideoPath: videoPath, RunID: runID})
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return err
				}
				return fmt.Errorf("analyze %s: %w", videoPath, err)
			}

			if err := writeBundle(cmd, report, opts.output); err != nil {
				return err
			}

			notes := cmd.OutOrStdout()
			if strings.TrimSpace(opts.output) == "" {
				notes = cmd.ErrOrStderr()
			}
			if opts.summary {
				fmt.Fprintln(notes, renderRunSummary(report, shouldColorize(notes)))
			}
			if opts.save {
				record, err := saveReport(runCtx, cfg, report)
				if err != nil {
					return err
				}
				fmt.Fprintf(notes, "Saved run %s to %s\n", record.RunID, cfg.RunStorePath())
			}
			if report.WorkDir != "" {
				fmt.Fprintf(notes, "Artifacts kept in %s\n", report.WorkDir)
			}
			fmt.Fprintf(notes, "Run log: %s\n", runLog.Path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write the bundle JSON to this file instead of stdout")
	cmd.Flags().BoolVar(&opts.summary, "summary", false, "Print a table of the clean slide timeline")
	cmd.Flags().BoolVar(&opts.save, "save", false, "Record the run in the run history database")
	cmd.Flags().BoolVar(&opts.keepArtifacts, "keep-artifacts", false, "Keep extracted audio and frames after the run")
	cmd.Flags().StringVar(&opts.language, "language", "", "Force the spoken language instead of detecting it")
	cmd.Flags().StringVar(&opts.runID, "run-id", "", "Use this run id instead of generating one")
	return cmd
}

// writeBundle writes the bundle JSON to path, or to stdout when path is empty.
func writeBundle(cmd *cobra.Command, report pipeline.Report, path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return writeJSONTo(cmd.OutOrStdout(), report.Bundle)
	}
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	file, err := os.Create(expanded)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	if err := writeJSONTo(file, report.Bundle); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close output file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote bundle to %s\n", expanded)
	return nil
}

func saveReport(ctx context.Context, cfg *config.Config, report pipeline.Report) (*runstore.Record, error) {
	store, err := runstore.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open run history: %w", err)
	}
	defer store.Close()
	record, err := store.Save(ctx, report)
	if err != nil {
		return nil, fmt.Errorf("save run: %w", err)
	}
	return record, nil
}

// languageFlag normalizes --language to an ISO 639-1 code. Empty means detect.
func languageFlag(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	if !language.Supported(value) {
		return "", fmt.Errorf("unsupported --language %q", value)
	}
	return language.ToISO2(value), nil
}
