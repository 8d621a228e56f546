package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/rsfmt/pkg/runner"
)

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's results.
type JSONFileResult struct {
	Path       string     `json:"path"`
	Changed    bool       `json:"changed"`
	Written    bool       `json:"written,omitempty"`
	Skipped    string     `json:"skipped,omitempty"`
	Error      string     `json:"error,omitempty"`
	Mismatches []Mismatch `json:"mismatches"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesChecked   int `json:"filesChecked"`
	FilesFormatted int `json:"filesFormatted"`
	FilesChanged   int `json:"filesChanged"`
	FilesWritten   int `json:"filesWritten"`
	FilesSkipped   int `json:"filesSkipped"`
	FilesErrored   int `json:"filesErrored"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.FilesChanged, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: r.opts.Version,
		Files:   make([]JSONFileResult, 0),
	}

	if result == nil {
		return output
	}

	output.Files = make([]JSONFileResult, 0, len(result.Files))
	for _, file := range result.Files {
		fileResult := JSONFileResult{
			Path:       displayPath(r.opts.WorkingDir, file.Path),
			Changed:    file.Changed,
			Written:    file.Written,
			Skipped:    file.SkipReason,
			Mismatches: make([]Mismatch, 0),
		}
		if file.Error != nil {
			fileResult.Error = file.Error.Error()
		}
		if file.Changed && file.Output != "" {
			fileResult.Mismatches = append(fileResult.Mismatches, Mismatches(file.Source, file.Output)...)
		}
		output.Files = append(output.Files, fileResult)
	}

	output.Summary = JSONSummary{
		FilesChecked:   result.Stats.FilesDiscovered,
		FilesFormatted: result.Stats.FilesFormatted,
		FilesChanged:   result.Stats.FilesChanged,
		FilesWritten:   result.Stats.FilesWritten,
		FilesSkipped:   result.Stats.FilesSkipped,
		FilesErrored:   result.Stats.FilesErrored,
	}

	return output
}
