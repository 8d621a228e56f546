package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yaklabco/rsfmt/pkg/config"
)

const envVarPrefix = "RSFMT_"

// envVar binds one RSFMT_* variable to the config field it overrides.
type envVar struct {
	name  string
	help  string
	apply func(cfg *config.Config, value string) error
}

func intVar(field func(*config.Config) *int) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("invalid integer %q", value)
		}
		*field(cfg) = n
		return nil
	}
}

//nolint:gochecknoglobals // read-only binding table
var envVars = []envVar{
	{"MAX_WIDTH", "Hard line width limit",
		intVar(func(c *config.Config) *int { return &c.MaxWidth })},
	{"IDEAL_WIDTH", "Preferred width for wrapped import lists",
		intVar(func(c *config.Config) *int { return &c.IdealWidth })},
	{"TAB_SPACES", "Spaces per indentation level",
		intVar(func(c *config.Config) *int { return &c.TabSpaces })},
	{"MAX_BLANK_LINES", "Maximum consecutive blank lines kept",
		intVar(func(c *config.Config) *int { return &c.MaxBlankLines })},
	{"JOBS", "Number of parallel workers (0 = auto)",
		intVar(func(c *config.Config) *int { return &c.Jobs })},
	{"NEWLINE_STYLE", "Line terminator: unix, windows, or native",
		func(c *config.Config, v string) error {
			c.NewlineStyle = config.NewlineStyle(strings.TrimSpace(v))
			return nil
		}},
	{"STRUCT_TRAILING_COMMA", "Comma after the last struct field: always, never, or vertical",
		func(c *config.Config, v string) error {
			c.StructTrailingComma = config.TrailingComma(strings.TrimSpace(v))
			return nil
		}},
	{"REORDER_IMPORTED_NAMES", "Sort the entries of list imports: true or false",
		func(c *config.Config, v string) error {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("invalid boolean %q (expected true/false/1/0)", v)
			}
			c.ReorderImportedNames = b
			return nil
		}},
	{"IGNORE", "Comma-separated list of ignore patterns",
		func(c *config.Config, v string) error {
			c.Ignore = splitList(v)
			return nil
		}},
}

// LoadFromEnv applies the non-empty RSFMT_* variables to cfg. Values are
// validated with the rest of the config afterwards; only unparsable numbers
// and booleans fail here.
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}
	for _, v := range envVars {
		name := envVarPrefix + v.name
		value := os.Getenv(name)
		if value == "" {
			continue
		}
		if err := v.apply(cfg, value); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// splitList splits a comma-separated value, dropping empty entries.
func splitList(value string) []string {
	var out []string
	for part := range strings.SplitSeq(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ListEnvVars maps every supported variable name to its description.
func ListEnvVars() map[string]string {
	vars := make(map[string]string, len(envVars))
	for _, v := range envVars {
		vars[envVarPrefix+v.name] = v.help
	}
	return vars
}
