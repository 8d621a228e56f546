package logging

// Structured log keys shared by the CLI, runner and visitor.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldInput      = "input"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"

	// Configuration fields.
	FieldMode      = "mode"
	FieldJobs      = "jobs"
	FieldMaxWidth  = "max_width"
	FieldTabSpaces = "tab_spaces"
	FieldNewline   = "newline_style"

	// Formatting fields.
	FieldFile   = "file"
	FieldSpan   = "span"
	FieldFrom   = "from"
	FieldTo     = "to"
	FieldIndent = "indent"
	FieldNode   = "node"
	FieldItems  = "items"

	// Statistics fields.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesProcessed  = "files_processed"
	FieldFilesChanged    = "files_changed"
	FieldFilesSkipped    = "files_skipped"
	FieldFilesFailed     = "files_failed"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
