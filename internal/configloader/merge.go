package configloader

import "github.com/yaklabco/rsfmt/pkg/config"

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Slices: override replaces base entirely if override is non-nil
//   - Nil/unset values in override do not override values in base
//
// MaxBlankLines uses a negative value as unset, since zero is a meaningful
// limit. ReorderImportedNames can only be switched on by an override.
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	if override.MaxWidth != 0 {
		result.MaxWidth = override.MaxWidth
	}
	if override.IdealWidth != 0 {
		result.IdealWidth = override.IdealWidth
	}
	if override.TabSpaces != 0 {
		result.TabSpaces = override.TabSpaces
	}
	if override.NewlineStyle != "" {
		result.NewlineStyle = override.NewlineStyle
	}
	if override.StructTrailingComma != "" {
		result.StructTrailingComma = override.StructTrailingComma
	}
	if override.MaxBlankLines >= 0 {
		result.MaxBlankLines = override.MaxBlankLines
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.ReorderImportedNames {
		result.ReorderImportedNames = true
	}

	if override.Ignore != nil {
		result.Ignore = override.Ignore
	}

	return &result
}

// Overrides returns an empty override layer: every field is unset, so
// merging it changes nothing until the caller fills in fields.
func Overrides() *config.Config {
	return &config.Config{MaxBlankLines: -1}
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
