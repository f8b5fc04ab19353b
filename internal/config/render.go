package config

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is an output format for Render.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// ValidFormats returns all valid render formats.
func ValidFormats() []Format {
	return []Format{FormatTOML, FormatYAML}
}

// Render serializes the settings in the given format.
func (s *Settings) Render(format Format) ([]byte, error) {
	switch format {
	case FormatTOML, "":
		data, err := toml.Marshal(s)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal settings as toml: %w", err)
		}
		return data, nil
	case FormatYAML:
		data, err := yaml.Marshal(s)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal settings as yaml: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("invalid format %q, must be one of: %v", format, ValidFormats())
	}
}
