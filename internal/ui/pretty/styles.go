// Package pretty renders the CLI's human-facing output with lipgloss.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// ANSI palette indexes.
const (
	colorRed    = "9"
	colorGreen  = "10"
	colorYellow = "11"
	colorCyan   = "14"
	colorGray   = "8"
)

// Styles holds the renderers for file listings, diffs and summaries.
type Styles struct {
	Error   lipgloss.Style
	Warning lipgloss.Style

	FilePath lipgloss.Style
	Status   lipgloss.Style

	DiffHeader  lipgloss.Style
	DiffHunk    lipgloss.Style
	DiffAdd     lipgloss.Style
	DiffRemove  lipgloss.Style
	DiffContext lipgloss.Style

	SummaryTitle lipgloss.Style
	SummaryValue lipgloss.Style
	Success      lipgloss.Style
	Failure      lipgloss.Style

	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// NewStyles returns the color styles, or styles that render text unchanged
// when colorEnabled is false.
func NewStyles(colorEnabled bool) *Styles {
	plain := lipgloss.NewStyle()
	fg := func(color string) lipgloss.Style {
		if !colorEnabled {
			return plain
		}
		return plain.Foreground(lipgloss.Color(color))
	}
	bold := plain
	if colorEnabled {
		bold = plain.Bold(true)
	}

	return &Styles{
		Error:        fg(colorRed).Inherit(bold),
		Warning:      fg(colorYellow).Inherit(bold),
		FilePath:     bold,
		Status:       fg(colorGray),
		DiffHeader:   bold,
		DiffHunk:     fg(colorCyan),
		DiffAdd:      fg(colorGreen),
		DiffRemove:   fg(colorRed),
		DiffContext:  fg(colorGray),
		SummaryTitle: bold,
		SummaryValue: plain,
		Success:      fg(colorGreen).Inherit(bold),
		Failure:      fg(colorRed).Inherit(bold),
		Dim:          fg(colorGray),
		Bold:         bold,
	}
}

// IsColorEnabled resolves a --color mode for writer. "always" and "never"
// are absolute; anything else means auto: color only on a terminal and
// only when NO_COLOR is unset.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := writer.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
