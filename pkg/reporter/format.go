package reporter

import (
	"fmt"
	"slices"
	"strings"
)

// Format names a report layout selected with check --format.
type Format string

const (
	FormatText    Format = "text"
	FormatJSON    Format = "json"
	FormatSARIF   Format = "sarif"
	FormatDiff    Format = "diff"
	FormatSummary Format = "summary"
)

//nolint:gochecknoglobals // read-only list of known formats
var formats = []Format{FormatText, FormatJSON, FormatSARIF, FormatDiff, FormatSummary}

// ParseFormat maps a --format value to a Format. The empty string is text.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatText, nil
	}
	if f := Format(s); f.IsValid() {
		return f, nil
	}
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return "", fmt.Errorf("unknown format %q; valid formats: %s", s, strings.Join(names, ", "))
}

func (f Format) String() string {
	return string(f)
}

// IsValid reports whether f is one of the known formats.
func (f Format) IsValid() bool {
	return slices.Contains(formats, f)
}
