package cli

import (
	"errors"

	"github.com/yaklabco/rsfmt/pkg/runner"
)

// Exit codes for rsfmt.
const (
	// ExitSuccess indicates every file was already formatted or was written.
	ExitSuccess = 0

	// ExitUnformatted indicates check found files that need formatting.
	ExitUnformatted = 1

	// ExitFormatErrors indicates at least one file could not be formatted.
	ExitFormatErrors = 2

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70
)

var (
	// ErrUnformatted is returned by check when files differ from their formatted form.
	ErrUnformatted = errors.New("files need formatting")

	// ErrFormatFailed is returned when some files could not be parsed or formatted.
	ErrFormatFailed = errors.New("formatting failed for some files")

	// ErrConfig wraps configuration loading failures.
	ErrConfig = errors.New("failed to load configuration")

	// ErrUsage wraps invalid flag values.
	ErrUsage = errors.New("invalid usage")
)

// ExitCodeFromResult determines the exit code of a run. With check set,
// changed files are a failure.
func ExitCodeFromResult(result *runner.Result, check bool) int {
	if result == nil {
		return ExitSuccess
	}
	if result.HasErrors() {
		return ExitFormatErrors
	}
	if check && result.HasChanges() {
		return ExitUnformatted
	}
	return ExitSuccess
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrFormatFailed):
		return ExitFormatErrors
	case errors.Is(err, ErrUnformatted):
		return ExitUnformatted
	case errors.Is(err, ErrConfig):
		return ExitConfigError
	case errors.Is(err, ErrUsage):
		return ExitInvalidUsage
	default:
		return ExitInternalError
	}
}

// Silent reports whether err only signals an exit code and was already
// reported to the user.
func Silent(err error) bool {
	return errors.Is(err, ErrUnformatted) || errors.Is(err, ErrFormatFailed)
}

// errorForResult converts a run result into the command's error.
func errorForResult(result *runner.Result, check bool) error {
	switch ExitCodeFromResult(result, check) {
	case ExitFormatErrors:
		return ErrFormatFailed
	case ExitUnformatted:
		return ErrUnformatted
	default:
		return nil
	}
}
