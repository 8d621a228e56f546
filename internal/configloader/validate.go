package configloader

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/yaklabco/rsfmt/pkg/config"
)

// maxTabSpaces bounds tab_spaces.
const maxTabSpaces = 16

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "tab_spaces").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

func (r *ValidationResult) fail(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf(format, args...),
	})
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if cfg.MaxWidth <= 0 {
		result.fail("max_width", cfg.MaxWidth, "max_width must be positive")
	}
	if cfg.IdealWidth <= 0 {
		result.fail("ideal_width", cfg.IdealWidth, "ideal_width must be positive")
	} else if cfg.MaxWidth > 0 && cfg.IdealWidth > cfg.MaxWidth {
		result.fail("ideal_width", cfg.IdealWidth,
			"ideal_width (%d) must not exceed max_width (%d)", cfg.IdealWidth, cfg.MaxWidth)
	}
	if cfg.TabSpaces < 1 || cfg.TabSpaces > maxTabSpaces {
		result.fail("tab_spaces", cfg.TabSpaces, "tab_spaces must be between 1 and %d", maxTabSpaces)
	}
	if !cfg.NewlineStyle.IsValid() {
		result.fail("newline_style", cfg.NewlineStyle,
			"invalid newline style %q; must be one of: unix, windows, native", cfg.NewlineStyle)
	}
	if !cfg.StructTrailingComma.IsValid() {
		result.fail("struct_trailing_comma", cfg.StructTrailingComma,
			"invalid trailing comma policy %q; must be one of: always, never, vertical", cfg.StructTrailingComma)
	}
	if cfg.MaxBlankLines < 0 {
		result.fail("max_blank_lines", cfg.MaxBlankLines, "max_blank_lines must be >= 0")
	}
	if cfg.Jobs < 0 {
		result.fail("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}

	if cfg.TabSpaces > 0 && cfg.MaxWidth > 0 && cfg.TabSpaces*2 > cfg.MaxWidth {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "tab_spaces",
			Value:   cfg.TabSpaces,
			Message: "tab_spaces leaves little room within max_width; most lines will overflow",
		})
	}

	validateIgnorePatterns(cfg, result)

	return result
}

// validateIgnorePatterns checks that ignore patterns are valid globs.
func validateIgnorePatterns(cfg *config.Config, result *ValidationResult) {
	for i, pattern := range cfg.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			result.fail(fmt.Sprintf("ignore[%d]", i), pattern, "invalid glob pattern %q", pattern)
		}
	}
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}
