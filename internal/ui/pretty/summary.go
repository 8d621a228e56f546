package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/rsfmt/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

func plural(n int) string {
	if n == 1 {
		return wordFile
	}
	return wordFiles
}

// FormatFileStatus formats one line of a file listing, e.g. "src/lib.rs  reformatted".
func (s *Styles) FormatFileStatus(path, status string) string {
	return s.FilePath.Render(path) + "  " + s.Status.Render(status) + "\n"
}

// FormatFileError formats a file that could not be formatted.
func (s *Styles) FormatFileError(path string, err error) string {
	return s.FilePath.Render(path) + ": " + s.Error.Render(fmt.Sprintf("error: %v", err)) + "\n"
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "12 files checked, 3 reformatted, 1 failed".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	checked := fmt.Sprintf("%d %s checked", stats.FilesDiscovered, plural(stats.FilesDiscovered))
	if stats.FilesChanged == 0 && stats.FilesErrored == 0 && stats.FilesSkipped == 0 {
		return s.Success.Render("All files formatted") + s.Dim.Render(" ("+checked+")") + "\n"
	}

	parts := []string{checked}
	if stats.FilesWritten > 0 {
		parts = append(parts, s.Success.Render(fmt.Sprintf("%d reformatted", stats.FilesWritten)))
	}
	if pending := stats.FilesChanged - stats.FilesWritten; pending > 0 {
		parts = append(parts, s.Warning.Render(fmt.Sprintf("%d need formatting", pending)))
	}
	if stats.FilesSkipped > 0 {
		parts = append(parts, s.Dim.Render(fmt.Sprintf("%d skipped", stats.FilesSkipped)))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Error.Render(fmt.Sprintf("%d failed", stats.FilesErrored)))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	row := func(label string, value int, style func(...string) string) {
		builder.WriteString(fmt.Sprintf("  %-18s %s\n", label+":", style(strconv.Itoa(value))))
	}

	row("Files checked", stats.FilesDiscovered, s.SummaryValue.Render)
	row("Files formatted", stats.FilesFormatted, s.SummaryValue.Render)
	if stats.FilesChanged > 0 {
		row("Files changed", stats.FilesChanged, s.Warning.Render)
	}
	if stats.FilesWritten > 0 {
		row("Files written", stats.FilesWritten, s.Success.Render)
	}
	if stats.FilesSkipped > 0 {
		row("Files skipped", stats.FilesSkipped, s.Dim.Render)
	}
	if stats.FilesErrored > 0 {
		row("Files failed", stats.FilesErrored, s.Error.Render)
	}

	builder.WriteString("\n")
	switch {
	case stats.FilesErrored > 0:
		builder.WriteString(s.Failure.Render("Formatting failed for some files"))
	case stats.FilesChanged > stats.FilesWritten:
		builder.WriteString(s.Warning.Render("Some files need formatting"))
	default:
		builder.WriteString(s.Success.Render("All files formatted"))
	}
	builder.WriteString("\n")

	return builder.String()
}
