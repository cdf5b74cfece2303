package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	xlang "golang.org/x/text/language"

	"interviewlens/internal/evidence"
	"interviewlens/internal/language"
	"interviewlens/internal/pipeline"
	"interviewlens/internal/textutil"
)

const slidePreviewRunes = 72

// renderRunSummary renders the phase outcomes and the clean slide timeline
// of a finished run.
func renderRunSummary(report pipeline.Report, colorize bool) string {
	var lines []string
	lines = append(lines, renderSectionHeader("Run "+report.RunID, colorize)...)
	lines = append(lines,
		renderStatusLine("Video", statusInfo, report.Bundle.Meta.VideoPath, colorize),
		renderStatusLine("Language", statusInfo, languageLabel(report.Bundle.Meta.DetectedLanguage), colorize),
		renderStatusLine("Duration", statusInfo, formatDuration(report.FinishedAt.Sub(report.StartedAt)), colorize),
	)
	for _, phase := range report.Phases {
		lines = append(lines, renderStatusLine(phaseLabel(phase.Name), outcomeKind(phase.Outcome), phaseDetail(phase), colorize))
	}
	lines = append(lines, renderStatusLine("Evaluation", evaluationKind(report.Bundle.Evaluation), evaluationDetail(report.Bundle.Evaluation), colorize))
	lines = append(lines, "")
	lines = append(lines, renderSlideTable(report.Bundle.VisualContext))
	return strings.Join(lines, "\n")
}

func renderSlideTable(slides []evidence.CleanSlide) string {
	if len(slides) == 0 {
		return "No slides in the clean timeline."
	}
	rows := make([][]string, 0, len(slides))
	for i, slide := range slides {
		frame := "-"
		if slide.FrameIndex != nil {
			frame = strconv.Itoa(*slide.FrameIndex)
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			formatTimestamp(slide.TimestampSec),
			frame,
			truncateRunes(textutil.CollapseSpace(slide.Text), slidePreviewRunes),
		})
	}
	columns := []column{{"#", true}, {"Time", true}, {"Frame", true}, {"Text", false}}
	return renderTable(columns, rows, pluralize(len(slides), "slide"))
}

// phaseLabel turns a phase name such as slide_detection into "Slide Detection".
func phaseLabel(name string) string {
	return cases.Title(xlang.English).String(strings.ReplaceAll(name, "_", " "))
}

func phaseDetail(phase pipeline.PhaseReport) string {
	detail := fmt.Sprintf("%d items in %s", phase.Count, formatDuration(phase.Elapsed))
	if phase.Error != "" {
		detail += " (" + phase.Error + ")"
	}
	return detail
}

func evaluationKind(evaluation map[string]any) statusKind {
	switch {
	case evaluation == nil:
		return statusInfo
	case evaluation["error"] != nil:
		return statusWarn
	default:
		return statusOK
	}
}

func evaluationDetail(evaluation map[string]any) string {
	if evaluation == nil {
		return "judge disabled"
	}
	if msg, ok := evaluation["error"].(string); ok {
		return msg
	}
	if score, ok := evaluation["interview_score"]; ok {
		return fmt.Sprintf("score %v/10", score)
	}
	return "evaluation returned"
}

// languageLabel renders an ISO code with its English display name.
func languageLabel(code string) string {
	if strings.TrimSpace(code) == "" {
		return "unknown"
	}
	name := language.DisplayName(code)
	return textutil.Ternary(name == "" || strings.EqualFold(name, code), code, fmt.Sprintf("%s (%s)", code, name))
}

// formatTimestamp renders seconds as m:ss.s.
func formatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	minutes := int(seconds) / 60
	rest := seconds - float64(minutes*60)
	return fmt.Sprintf("%d:%04.1f", minutes, rest)
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(100 * time.Millisecond).String()
}

func truncateRunes(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit-3]) + "..."
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
