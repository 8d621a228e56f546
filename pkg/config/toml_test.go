package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/rsfmt/pkg/config"
)

func TestTOMLRoundTrip(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.NewlineStyle = config.NewlineWindows
	cfg.StructTrailingComma = config.TrailingCommaNever
	cfg.Ignore = []string{"target/**"}

	data, err := cfg.ToTOML()
	require.NoError(t, err)

	parsed, undecoded, err := config.FromTOML(data)
	require.NoError(t, err)
	assert.Empty(t, undecoded)
	assert.Equal(t, cfg, parsed)
}

func TestFromTOMLReportsUnknownKeys(t *testing.T) {
	t.Parallel()

	cfg, undecoded, err := config.FromTOML([]byte("max_width = 80\nfn_single_line = true\n"))
	require.NoError(t, err)
	assert.Equal(t, 80, cfg.MaxWidth)
	assert.Equal(t, []string{"fn_single_line"}, undecoded)
}

func TestFromTOMLInvalid(t *testing.T) {
	t.Parallel()

	_, _, err := config.FromTOML([]byte("max_width = \"wide\""))
	require.Error(t, err)
}

func TestNewlineStyleResolve(t *testing.T) {
	t.Parallel()

	assert.Equal(t, config.NewlineUnix, config.NewlineUnix.Resolve())
	assert.Equal(t, config.NewlineWindows, config.NewlineWindows.Resolve())
	assert.NotEqual(t, config.NewlineNative, config.NewlineNative.Resolve())
	assert.False(t, config.NewlineStyle("mac").IsValid())
}

func TestTrailingCommaAllows(t *testing.T) {
	t.Parallel()

	tests := []struct {
		policy   config.TrailingComma
		vertical bool
		want     bool
	}{
		{config.TrailingCommaAlways, false, true},
		{config.TrailingCommaAlways, true, true},
		{config.TrailingCommaNever, true, false},
		{config.TrailingCommaVertical, true, true},
		{config.TrailingCommaVertical, false, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.policy.Allows(tt.vertical), "%s vertical=%v", tt.policy, tt.vertical)
	}
}

func TestGenerateTemplate(t *testing.T) {
	t.Parallel()

	for _, format := range []string{config.TemplateTOML, config.TemplateYAML} {
		minimal, err := config.GenerateTemplate(config.TemplateOptions{Format: format})
		require.NoError(t, err)
		assert.Contains(t, string(minimal), "# rsfmt configuration")

		full, err := config.GenerateTemplate(config.TemplateOptions{Format: format, Full: true})
		require.NoError(t, err)
		assert.Contains(t, string(full), "max_width")
	}

	full, err := config.GenerateTemplate(config.TemplateOptions{Format: config.TemplateTOML, Full: true})
	require.NoError(t, err)
	cfg, undecoded, err := config.FromTOML(full)
	require.NoError(t, err)
	assert.Empty(t, undecoded)
	assert.Equal(t, []string{"target/**"}, cfg.Ignore)

	_, err = config.GenerateTemplate(config.TemplateOptions{Format: "json"})
	require.Error(t, err)
}
