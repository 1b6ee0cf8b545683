// Package formats provides pluggable level file format parsers.
package formats

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// FileLevel is the on-disk structure shared by every format.
type FileLevel struct {
	ID         int               `yaml:"id" toml:"id"`
	Name       string            `yaml:"name" toml:"name"`
	Multiplier float64           `yaml:"multiplier" toml:"multiplier"`
	UnlockSkin string            `yaml:"unlock_skin,omitempty" toml:"unlock_skin"`
	Metadata   map[string]string `yaml:"metadata,omitempty" toml:"metadata"`
}

// Level represents a parsed level ready for use.
type Level struct {
	ID         int
	Name       string
	Multiplier float64
	UnlockSkin string
	Metadata   map[string]string
}

// ParseYAML parses a YAML level file.
func ParseYAML(data []byte) (Level, error) {
	var fl FileLevel
	if err := yaml.Unmarshal(data, &fl); err != nil {
		return Level{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	return fromFile(fl)
}

// fromFile fills defaults and rejects levels that cannot be played.
func fromFile(fl FileLevel) (Level, error) {
	if fl.ID <= 0 {
		return Level{}, fmt.Errorf("level id must be positive, got %d", fl.ID)
	}
	if fl.Multiplier == 0 {
		fl.Multiplier = 1 // Default multiplier
	}
	if fl.Multiplier < 0 {
		return Level{}, fmt.Errorf("level %d: negative multiplier %v", fl.ID, fl.Multiplier)
	}
	if fl.Name == "" {
		fl.Name = fmt.Sprintf("Level %d", fl.ID)
	}
	return Level{
		ID:         fl.ID,
		Name:       fl.Name,
		Multiplier: fl.Multiplier,
		UnlockSkin: fl.UnlockSkin,
		Metadata:   fl.Metadata,
	}, nil
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml", ".toml"}
}
