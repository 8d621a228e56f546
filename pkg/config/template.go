package config

import (
	"bytes"
	"fmt"
)

// Template formats accepted by GenerateTemplate.
const (
	TemplateTOML = "toml"
	TemplateYAML = "yaml"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full writes every option with its default value.
	// If false, generates a minimal commented template.
	Full bool

	// Format is the output format: "toml" or "yaml".
	Format string
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	switch opts.Format {
	case TemplateTOML, TemplateYAML:
	default:
		return nil, fmt.Errorf("unsupported template format %q", opts.Format)
	}
	if opts.Full {
		return generateFullTemplate(opts)
	}
	return generateMinimalTemplate(opts), nil
}

// generateMinimalTemplate creates a commented template with every option disabled.
func generateMinimalTemplate(opts TemplateOptions) []byte {
	var buf bytes.Buffer
	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString("\n\n")

	if opts.Format == TemplateYAML {
		buf.WriteString(`# Hard line width limit
# max_width: 100

# Preferred width for wrapped import lists
# ideal_width: 80

# Spaces per indentation level
# tab_spaces: 4

# Line terminator: unix, windows or native
# newline_style: unix

# Comma after the last struct field: always, never or vertical
# struct_trailing_comma: vertical

# Sort the entries of list imports
# reorder_imported_names: false

# Longest run of blank lines kept between items
# max_blank_lines: 1

# File patterns to ignore (glob patterns)
# ignore:
#   - "target/**"
`)
		return buf.Bytes()
	}

	buf.WriteString(`# Hard line width limit
# max_width = 100

# Preferred width for wrapped import lists
# ideal_width = 80

# Spaces per indentation level
# tab_spaces = 4

# Line terminator: unix, windows or native
# newline_style = "unix"

# Comma after the last struct field: always, never or vertical
# struct_trailing_comma = "vertical"

# Sort the entries of list imports
# reorder_imported_names = false

# Longest run of blank lines kept between items
# max_blank_lines = 1

# File patterns to ignore (glob patterns)
# ignore = ["target/**"]
`)
	return buf.Bytes()
}

// generateFullTemplate serializes the default configuration.
func generateFullTemplate(opts TemplateOptions) ([]byte, error) {
	cfg := NewConfig()
	cfg.Ignore = []string{"target/**"}

	var body []byte
	var err error
	if opts.Format == TemplateYAML {
		body, err = cfg.ToYAML()
	} else {
		body, err = cfg.ToTOML()
	}
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString("\n\n")
	buf.Write(body)
	return buf.Bytes(), nil
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# rsfmt configuration
# See: https://github.com/yaklabco/rsfmt`
}
