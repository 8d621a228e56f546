package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/rsfmt/internal/ui/pretty"
	"github.com/yaklabco/rsfmt/pkg/runner"
)

// TextReporter lists the files a run touched, one per line, then a summary.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No files to format."))
		}
		return 0, nil
	}

	var changed int
	for _, file := range result.Files {
		path := displayPath(r.opts.WorkingDir, file.Path)
		if file.Error != nil {
			fmt.Fprint(r.bw, r.styles.FormatFileError(path, file.Error))
			continue
		}
		if file.Changed {
			changed++
		}
		if status := fileStatus(file, r.opts.Verbose); status != "" {
			fmt.Fprint(r.bw, r.styles.FormatFileStatus(path, status))
		}
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return changed, nil
}

// fileStatus describes what happened to a file. Unchanged files are only
// listed when verbose is set.
func fileStatus(file runner.FileOutcome, verbose bool) string {
	switch {
	case file.Skipped:
		return "skipped: " + file.SkipReason
	case file.Written && file.Changed:
		return "reformatted"
	case file.Written:
		return "written"
	case file.Changed:
		return "needs formatting"
	case verbose:
		return "unchanged"
	default:
		return ""
	}
}

// SummaryReporter prints only the aggregate statistics block.
type SummaryReporter struct {
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewSummaryReporter creates a new summary reporter.
func NewSummaryReporter(opts Options) *SummaryReporter {
	return &SummaryReporter{
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *SummaryReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	var stats runner.Stats
	if result != nil {
		stats = result.Stats
	}
	fmt.Fprint(r.bw, r.styles.FormatSummary(stats))
	return stats.FilesChanged, nil
}
