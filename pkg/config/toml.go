package config

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"
)

// ToTOML serializes the configuration to TOML format.
func (c *Config) ToTOML() ([]byte, error) {
	if c == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// FromTOML parses a configuration from TOML bytes. Keys absent from the
// document keep their default values.
func FromTOML(data []byte) (*Config, []string, error) {
	cfg := NewConfig()
	undecoded, err := DecodeTOML(data, cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, undecoded, nil
}

// DecodeTOML overlays the keys present in data onto cfg and returns the keys
// that did not match any configuration field.
func DecodeTOML(data []byte, cfg *Config) ([]string, error) {
	meta, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("parse toml: %w", err)
	}

	keys := meta.Undecoded()
	undecoded := make([]string, 0, len(keys))
	for _, key := range keys {
		undecoded = append(undecoded, key.String())
	}
	return undecoded, nil
}
