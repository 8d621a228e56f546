// Package config defines core configuration types for rsfmt.
// These types are pure data structures; loading and layering lives in internal/configloader.
package config

import "runtime"

// NewlineStyle selects the line terminator written to output files.
type NewlineStyle string

const (
	NewlineUnix    NewlineStyle = "unix"
	NewlineWindows NewlineStyle = "windows"
	NewlineNative  NewlineStyle = "native"
)

// IsValid returns true if the newline style is known.
func (s NewlineStyle) IsValid() bool {
	switch s {
	case NewlineUnix, NewlineWindows, NewlineNative:
		return true
	default:
		return false
	}
}

// Resolve maps NewlineNative to the style of the running platform.
func (s NewlineStyle) Resolve() NewlineStyle {
	if s != NewlineNative {
		return s
	}
	if runtime.GOOS == "windows" {
		return NewlineWindows
	}
	return NewlineUnix
}

// TrailingComma controls the comma after the last field of a struct.
type TrailingComma string

const (
	TrailingCommaAlways   TrailingComma = "always"
	TrailingCommaNever    TrailingComma = "never"
	TrailingCommaVertical TrailingComma = "vertical"
)

// IsValid returns true if the trailing comma policy is known.
func (t TrailingComma) IsValid() bool {
	switch t {
	case TrailingCommaAlways, TrailingCommaNever, TrailingCommaVertical:
		return true
	default:
		return false
	}
}

// Allows reports whether a trailing comma is written for a list laid out
// vertically (or horizontally when vertical is false).
func (t TrailingComma) Allows(vertical bool) bool {
	switch t {
	case TrailingCommaAlways:
		return true
	case TrailingCommaVertical:
		return vertical
	default:
		return false
	}
}

// Default formatting limits.
const (
	DefaultMaxWidth      = 100
	DefaultIdealWidth    = 80
	DefaultTabSpaces     = 4
	DefaultMaxBlankLines = 1
)

// Config is the root configuration structure for rsfmt.
type Config struct {
	// MaxWidth is the hard line width limit.
	MaxWidth int `toml:"max_width" yaml:"max_width"`

	// IdealWidth is the preferred width for wrapped lists such as imports.
	IdealWidth int `toml:"ideal_width" yaml:"ideal_width"`

	// TabSpaces is the number of spaces per indentation level.
	TabSpaces int `toml:"tab_spaces" yaml:"tab_spaces"`

	// NewlineStyle selects the output line terminator.
	NewlineStyle NewlineStyle `toml:"newline_style" yaml:"newline_style"`

	// StructTrailingComma controls the comma after the last struct field.
	StructTrailingComma TrailingComma `toml:"struct_trailing_comma" yaml:"struct_trailing_comma"`

	// ReorderImportedNames sorts the entries of list imports.
	ReorderImportedNames bool `toml:"reorder_imported_names" yaml:"reorder_imported_names"`

	// MaxBlankLines caps runs of consecutive blank lines.
	MaxBlankLines int `toml:"max_blank_lines" yaml:"max_blank_lines"`

	// Ignore contains glob patterns for files to skip.
	Ignore []string `toml:"ignore" yaml:"ignore"`

	// CLI-level options (not persisted to config files).

	// Jobs specifies the number of parallel workers.
	Jobs int `toml:"-" yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		MaxWidth:             DefaultMaxWidth,
		IdealWidth:           DefaultIdealWidth,
		TabSpaces:            DefaultTabSpaces,
		NewlineStyle:         NewlineUnix,
		StructTrailingComma:  TrailingCommaVertical,
		ReorderImportedNames: false,
		MaxBlankLines:        DefaultMaxBlankLines,
		Ignore:               nil,
		Jobs:                 0, // 0 means use GOMAXPROCS
	}
}
