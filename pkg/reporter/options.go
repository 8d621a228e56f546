package reporter

import (
	"io"
	"os"
)

// bufWriterSize is the buffer size for buffered output writers (64 KiB).
const bufWriterSize = 64 * 1024

// Options configures reporter behavior.
type Options struct {
	// Writer is the destination for output (typically os.Stdout).
	Writer io.Writer

	// Format specifies the output format.
	Format Format

	// Color controls colorized output.
	// Values: "auto" (default), "always", "never"
	Color string

	// ShowSummary displays aggregate statistics after results.
	ShowSummary bool

	// Verbose lists unchanged files in text output.
	Verbose bool

	// Compact uses compact/minified output where applicable.
	Compact bool

	// ContextLines is the number of unchanged lines around each diff hunk.
	ContextLines int

	// WorkingDir is the directory to make paths relative to.
	// If empty, paths are kept relative to the process working directory when close by.
	WorkingDir string

	// Version is reported as the tool version in machine-readable output.
	Version string
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Writer:       os.Stdout,
		Format:       FormatText,
		Color:        "auto",
		ShowSummary:  true,
		ContextLines: 3,
		Version:      "dev",
	}
}
