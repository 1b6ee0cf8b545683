package formats

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// ParseTOML parses a TOML level file. Keys match the YAML format.
func ParseTOML(data []byte) (Level, error) {
	var fl FileLevel
	md, err := toml.Decode(string(data), &fl)
	if err != nil {
		return Level{}, fmt.Errorf("toml decode: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Level{}, fmt.Errorf("toml: unknown keys %v", undecoded)
	}
	return fromFile(fl)
}
