package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

// statusStyles is indexed by statusKind.
var statusStyles = [...]struct {
	label string
	color string
}{
	statusInfo:  {"INFO", ansiBlue},
	statusOK:    {"OK", ansiGreen},
	statusWarn:  {"WARN", ansiYellow},
	statusError: {"ERROR", ansiRed},
}

const statusLabelWidth = 20

func (k statusKind) style() (label, color string) {
	if k < 0 || int(k) >= len(statusStyles) {
		k = statusInfo
	}
	s := statusStyles[k]
	return s.label, s.color
}

// renderStatusLine prints "  Label:   [KIND] message", colored as a whole when
// colorize is set.
func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	kindLabel, color := kind.style()
	var b strings.Builder
	fmt.Fprintf(&b, "  %-*s [%s]", statusLabelWidth, label+":", kindLabel)
	if message != "" {
		b.WriteByte(' ')
		b.WriteString(message)
	}
	if !colorize {
		return b.String()
	}
	return color + b.String() + ansiReset
}

func renderSectionHeader(title string, colorize bool) []string {
	line := "== " + strings.TrimSpace(title) + " =="
	lines := []string{line, strings.Repeat("-", len(line))}
	if colorize {
		for i := range lines {
			lines[i] = ansiBlue + lines[i] + ansiReset
		}
	}
	return lines
}

// outcomeKind maps a phase outcome label onto a status line color.
func outcomeKind(outcome string) statusKind {
	switch outcome {
	case "data":
		return statusOK
	case "empty":
		return statusWarn
	case "fatal":
		return statusError
	default:
		return statusInfo
	}
}

func shouldColorize(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
