package runner

// FileOutcome is the result of formatting one file.
type FileOutcome struct {
	// Path is the file path that was processed.
	Path string

	// Source is the file content as read.
	Source string

	// Output is the formatted content. Empty when the file errored or was skipped.
	Output string

	// Changed reports whether Output differs from Source.
	Changed bool

	// Written reports whether the output was written to disk.
	Written bool

	// Skipped is set when the file was left alone, with the reason in SkipReason.
	Skipped    bool
	SkipReason string

	// Error is set if the file could not be read, parsed or formatted.
	Error error
}

// Skip reasons.
const (
	SkipGenerated = "generated file"
	SkipModified  = "modified since it was read"
)

// Stats captures aggregate information about a run.
type Stats struct {
	// FilesDiscovered is the total number of files found during discovery.
	FilesDiscovered int

	// FilesFormatted is the number of files formatted without error.
	FilesFormatted int

	// FilesChanged is the number of formatted files whose output differs from their source.
	FilesChanged int

	// FilesWritten is the number of files written to disk.
	FilesWritten int

	// FilesSkipped is the number of files left alone (generated or concurrently modified).
	FilesSkipped int

	// FilesErrored is the number of files that encountered errors.
	FilesErrored int
}

// Result is the overall runner result.
type Result struct {
	// Files contains the outcome for each discovered file, ordered by path.
	Files []FileOutcome

	// Stats contains aggregate statistics for the run.
	Stats Stats
}

// HasChanges reports whether any file's formatting differs from its source.
func (r *Result) HasChanges() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesChanged > 0
}

// HasErrors reports whether any file failed.
func (r *Result) HasErrors() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesErrored > 0
}

// tally recomputes Stats from Files.
func (r *Result) tally() {
	stats := Stats{FilesDiscovered: r.Stats.FilesDiscovered}
	for _, outcome := range r.Files {
		switch {
		case outcome.Error != nil:
			stats.FilesErrored++
		case outcome.Skipped:
			stats.FilesSkipped++
		default:
			stats.FilesFormatted++
		}
		if outcome.Changed {
			stats.FilesChanged++
		}
		if outcome.Written {
			stats.FilesWritten++
		}
	}
	r.Stats = stats
}
