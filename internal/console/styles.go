// Package console formats everything evoviz prints to a terminal:
// diagnostics, job summaries, progress lines and text previews.
package console

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/evoviz/internal/fault"
)

var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00ffff"))

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	Label = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888899")).
		Width(12)

	Value = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#00ccff")).
		Bold(true)

	Success = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00ff88"))

	Failure = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#ff4444"))

	Hint = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688")).
		Italic(true)
)

// Diagnostic renders err as a one-line message naming its kind. Format
// errors already carry file and line.
func Diagnostic(err error) string {
	kind := "error"
	switch {
	case errors.Is(err, fault.ErrArgument):
		kind = "invalid arguments"
	case errors.Is(err, fault.ErrMissingFile):
		kind = "missing file"
	case errors.Is(err, fault.ErrFormat):
		kind = "bad input"
	case errors.Is(err, fault.ErrEncoding):
		kind = "write failed"
	}
	return Failure.Render(kind+":") + " " + err.Error()
}

// Field renders an aligned "label value" line.
func Field(label string, value any) string {
	return Label.Render(label) + Value.Render(fmt.Sprint(value))
}

func Done(msg string) string {
	return Success.Render("✓") + " " + msg
}

func Separator(width int) string {
	if width < 8 {
		width = 8
	}
	mid := width / 2
	return Subtle.Render(strings.Repeat("─", mid-3) + " ◆ " + strings.Repeat("─", width-mid-3))
}

// NewLogger returns the progress logger for a job. Quiet loggers discard
// everything.
func NewLogger(w io.Writer, quiet bool) *log.Logger {
	if quiet {
		return log.New(io.Discard, "", 0)
	}
	return log.New(w, Subtle.Render("evoviz")+" ", log.Ltime)
}
