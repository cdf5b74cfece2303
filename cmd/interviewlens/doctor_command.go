package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"interviewlens/internal/deps"
	"interviewlens/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check external tools, models, directories, and the judge",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			var lines []string
			lines = append(lines, renderSectionHeader("Config", colorize)...)
			configDetail := ctx.configPath
			if !ctx.configSeen {
				configDetail += " (not found, defaults in use)"
			}
			lines = append(lines,
				renderStatusLine("Config file", statusInfo, configDetail, colorize),
				renderStatusLine("Transcription", statusInfo, cfg.Transcription.Backend, colorize),
				renderStatusLine("Judge enabled", statusInfo, yesNo(cfg.Judge.Enabled), colorize),
				"",
			)

			statuses := preflight.CheckSystemDeps(cmd.Context(), cfg)
			lines = append(lines, renderSectionHeader("Tools", colorize)...)
			for _, status := range statuses {
				lines = append(lines, renderStatusLine(status.Name, dependencyKind(status), dependencyDetail(status), colorize))
			}
			lines = append(lines, "")

			results := preflight.RunAll(cmd.Context(), cfg)
			lines = append(lines, renderSectionHeader("Checks", colorize)...)
			for _, result := range results {
				kind := statusOK
				if !result.Passed {
					kind = statusError
				}
				lines = append(lines, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}
			fmt.Fprintln(out, strings.Join(lines, "\n"))

			problems := len(deps.Missing(statuses)) + len(preflight.Failed(results))
			if problems > 0 {
				return fmt.Errorf("doctor found %d problem(s)", problems)
			}
			return nil
		},
	}
}

func dependencyKind(status deps.Status) statusKind {
	switch {
	case status.Available:
		return statusOK
	case status.Optional:
		return statusWarn
	default:
		return statusError
	}
}

func dependencyDetail(status deps.Status) string {
	parts := []string{status.Command}
	if status.Detail != "" {
		parts = append(parts, status.Detail)
	}
	if !status.Available && status.Description != "" {
		parts = append(parts, status.Description)
	}
	return strings.Join(parts, " - ")
}
