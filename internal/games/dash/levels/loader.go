// Package levels loads extra level packs from disk.
// A pack is a directory of level files, one level per file, in any
// format the formats package understands.
package levels

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/vovakirdan/tui-dash/internal/config"
	"github.com/vovakirdan/tui-dash/internal/games/dash/levels/formats"
)

// Level is a level definition read from a file.
type Level struct {
	formats.Level
	FilePath string
}

// Spec converts the level into its configuration form.
func (l Level) Spec() config.LevelSpec {
	return config.LevelSpec{
		ID:         l.ID,
		Name:       l.Name,
		Multiplier: l.Multiplier,
		UnlockSkin: l.UnlockSkin,
	}
}

// Loader handles loading levels from a directory.
type Loader struct {
	Root string
}

// NewLoader creates a new level loader.
func NewLoader(root string) *Loader {
	return &Loader{Root: root}
}

// LoadAll recursively scans and loads all level files.
// Invalid files are skipped and reported through the joined error alongside
// the levels that did load. A missing root is not an error.
// Returns levels sorted by ID for deterministic ordering.
func (l *Loader) LoadAll() ([]Level, error) {
	var levels []Level
	var problems []error

	err := filepath.WalkDir(l.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if !slices.Contains(formats.FormatExtensions(), ext) {
			return nil
		}

		level, err := l.LoadFile(path)
		if err != nil {
			problems = append(problems, err)
			return nil
		}

		levels = append(levels, level)
		return nil
	})

	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("walking directory %s: %w", l.Root, err)
	}

	sort.SliceStable(levels, func(i, j int) bool {
		return levels[i].ID < levels[j].ID
	})

	return levels, errors.Join(problems...)
}

// LoadFile loads a single level file.
func (l *Loader) LoadFile(path string) (Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Level{}, fmt.Errorf("reading file %s: %w", path, err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	parsed, err := parseByExtension(data, ext)
	if err != nil {
		return Level{}, fmt.Errorf("parsing file %s: %w", path, err)
	}

	return Level{Level: parsed, FilePath: path}, nil
}

// Specs loads every level and returns them in configuration form.
func (l *Loader) Specs() ([]config.LevelSpec, error) {
	levels, err := l.LoadAll()
	specs := make([]config.LevelSpec, len(levels))
	for i, lvl := range levels {
		specs[i] = lvl.Spec()
	}
	return specs, err
}

// parseByExtension routes to the correct parser.
func parseByExtension(data []byte, ext string) (formats.Level, error) {
	switch ext {
	case ".yaml", ".yml":
		return formats.ParseYAML(data)
	case ".toml":
		return formats.ParseTOML(data)
	default:
		return formats.Level{}, fmt.Errorf("unsupported extension: %s", ext)
	}
}
