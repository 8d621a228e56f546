// Package reporter renders formatting results as text, JSON, SARIF or diffs.
package reporter

import (
	"context"
	"fmt"

	"github.com/yaklabco/rsfmt/pkg/runner"
)

// Reporter formats and writes formatting results.
type Reporter interface {
	// Report writes formatted output for the given result.
	// It returns the number of files that need (or needed) formatting and any write errors.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// New returns the Reporter for opts.Format.
func New(opts Options) (Reporter, error) {
	defaults := DefaultOptions()
	if opts.Writer == nil {
		opts.Writer = defaults.Writer
	}
	if opts.ContextLines <= 0 {
		opts.ContextLines = defaults.ContextLines
	}
	if opts.Version == "" {
		opts.Version = defaults.Version
	}

	format := opts.Format
	if format == "" {
		format = FormatText
	}

	switch format {
	case FormatJSON:
		return NewJSONReporter(opts), nil
	case FormatSARIF:
		return NewSARIFReporter(opts), nil
	case FormatDiff:
		return NewDiffReporter(opts), nil
	case FormatText:
		return NewTextReporter(opts), nil
	case FormatSummary:
		return NewSummaryReporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
