package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"interviewlens/internal/logs"
	"interviewlens/internal/pipeline"
	"interviewlens/internal/runstore"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect saved evidence runs",
	}
	runsCmd.AddCommand(newRunsListCommand(ctx))
	runsCmd.AddCommand(newRunsShowCommand(ctx))
	runsCmd.AddCommand(newRunsRemoveCommand(ctx))
	runsCmd.AddCommand(newRunsLogCommand(ctx))
	return runsCmd
}

func newRunsListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(ctx, func(store *runstore.Store) error {
				records, err := store.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, listView(records))
				}
				out := cmd.OutOrStdout()
				if len(records) == 0 {
					fmt.Fprintln(out, "No saved runs.")
					return nil
				}
				fmt.Fprintln(out, renderRunTable(records))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list (0 lists all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func newRunsShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show a saved run; a unique run id prefix is accepted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(ctx, func(store *runstore.Store) error {
				record, err := lookupRun(cmd.Context(), store, args[0])
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, record.Bundle)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, renderRunSummary(recordReport(record), shouldColorize(out)))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output the stored bundle JSON")
	return cmd
}

func newRunsRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <run-id>",
		Short: "Delete a saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(ctx, func(store *runstore.Store) error {
				record, err := lookupRun(cmd.Context(), store, args[0])
				if err != nil {
					return err
				}
				if _, err := store.Remove(cmd.Context(), record.RunID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed run %s\n", record.RunID)
				return nil
			})
		},
	}
}

func newRunsLogCommand(ctx *commandContext) *cobra.Command {
	var lines int
	var follow bool

	cmd := &cobra.Command{
		Use:   "log <run-id>",
		Short: "Print the log of a run, saved or not",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path, err := logs.FindRunLog(cfg.Paths.LogDir, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			result, err := logs.Tail(cmd.Context(), path, logs.TailOptions{Offset: -1, Limit: lines})
			if err != nil {
				return err
			}
			printLines(out, result.Lines)
			if !follow {
				return nil
			}

			followCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			offset := result.Offset
			for {
				result, err := logs.Tail(followCtx, path, logs.TailOptions{Offset: offset, Follow: true, Wait: followWait})
				if err != nil {
					if followCtx.Err() != nil {
						return nil
					}
					return err
				}
				printLines(out, result.Lines)
				offset = result.Offset
			}
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of trailing lines to print")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new lines until interrupted")
	return cmd
}

const followWait = 2 * time.Second

func printLines(w io.Writer, lines []string) {
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
}

func withStore(ctx *commandContext, fn func(*runstore.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	store, err := runstore.Open(cfg)
	if err != nil {
		return fmt.Errorf("open run history: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func lookupRun(ctx context.Context, store *runstore.Store, id string) (*runstore.Record, error) {
	record, err := store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("run %s not found", strings.TrimSpace(id))
	}
	if record.Bundle == nil {
		return nil, errors.New("run record has no bundle")
	}
	return record, nil
}

// recordReport rebuilds a report from a stored record for rendering.
func recordReport(record *runstore.Record) pipeline.Report {
	return pipeline.Report{
		RunID:      record.RunID,
		StartedAt:  record.StartedAt,
		FinishedAt: record.FinishedAt,
		Phases:     record.Phases,
		Bundle:     *record.Bundle,
	}
}

func renderRunTable(records []runstore.Record) string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			shortRunID(r.RunID),
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			truncateRunes(r.VideoPath, 48),
			languageOrDash(r.DetectedLanguage),
			strconv.Itoa(r.TranscriptSegments),
			strconv.Itoa(r.Slides),
			scoreLabel(r),
			formatDuration(r.Duration()),
		})
	}
	columns := []column{
		{title: "Run"},
		{title: "Started"},
		{title: "Video"},
		{title: "Lang"},
		{title: "Segments", numeric: true},
		{title: "Slides", numeric: true},
		{title: "Score", numeric: true},
		{title: "Took", numeric: true},
	}
	return renderTable(columns, rows, "")
}

type runListItem struct {
	RunID              string    `json:"run_id"`
	VideoPath          string    `json:"video_path"`
	Status             string    `json:"status"`
	DetectedLanguage   string    `json:"detected_language"`
	StartedAt          time.Time `json:"started_at"`
	FinishedAt         time.Time `json:"finished_at"`
	TranscriptSegments int       `json:"transcript_segments"`
	Slides             int       `json:"slides"`
	InterviewScore     *float64  `json:"interview_score,omitempty"`
	EvaluationError    string    `json:"evaluation_error,omitempty"`
}

func listView(records []runstore.Record) []runListItem {
	items := make([]runListItem, 0, len(records))
	for _, r := range records {
		items = append(items, runListItem{
			RunID:              r.RunID,
			VideoPath:          r.VideoPath,
			Status:             r.Status,
			DetectedLanguage:   r.DetectedLanguage,
			StartedAt:          r.StartedAt,
			FinishedAt:         r.FinishedAt,
			TranscriptSegments: r.TranscriptSegments,
			Slides:             r.Slides,
			InterviewScore:     r.InterviewScore,
			EvaluationError:    r.EvaluationError,
		})
	}
	return items
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func languageOrDash(code string) string {
	if strings.TrimSpace(code) == "" {
		return "-"
	}
	return code
}

func scoreLabel(r runstore.Record) string {
	switch {
	case r.InterviewScore != nil:
		return strconv.FormatFloat(*r.InterviewScore, 'f', -1, 64)
	case r.EvaluationError != "":
		return "error"
	default:
		return "-"
	}
}
