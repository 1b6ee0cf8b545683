// Package dash implements a Geometry Dash style obstacle runner.
//
// The simulation is split the way a frame flows: the generator lays out an
// immutable track once per attempt, the integrator moves the body, the
// collision pass resolves overlaps, and the renderer reads the result onto a
// core.Canvas. Nothing in the simulation reads the clock or a global RNG, so a
// run is a pure function of its configuration, seed and input stream.
package dash

import (
	"errors"
	"fmt"
	"math"

	"github.com/vovakirdan/tui-dash/internal/config"
)

var (
	// ErrUnknownLevel is returned when a level ID is not in the configuration.
	ErrUnknownLevel = errors.New("dash: unknown level")
	// ErrInvalidLevel is returned when level parameters would break the physics math.
	ErrInvalidLevel = errors.New("dash: invalid level")
)

// Level is a playable level with its derived track length.
type Level struct {
	ID         int
	Name       string
	Multiplier float64
	Length     float64 // Track length in world units
	UnlockSkin string
}

// LevelLength returns the track length for a level ID.
func LevelLength(track config.DashTrack, id int) float64 {
	return track.BaseLength + float64(id)*track.LengthPerLevel
}

// LevelByID resolves and validates a level from the configuration.
func LevelByID(cfg *config.DashConfig, id int) (Level, error) {
	spec, ok := cfg.Level(id)
	if !ok {
		return Level{}, fmt.Errorf("%w: %d", ErrUnknownLevel, id)
	}
	l := Level{
		ID:         spec.ID,
		Name:       spec.Name,
		Multiplier: spec.Multiplier,
		Length:     LevelLength(cfg.Track, spec.ID),
		UnlockSkin: spec.UnlockSkin,
	}
	if err := l.Validate(); err != nil {
		return Level{}, err
	}
	return l, nil
}

// Levels returns every configured level in configuration order.
func Levels(cfg *config.DashConfig) ([]Level, error) {
	out := make([]Level, 0, len(cfg.Levels))
	for _, spec := range cfg.Levels {
		l, err := LevelByID(cfg, spec.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

// Validate checks that the level can be simulated.
func (l Level) Validate() error {
	switch {
	case l.ID <= 0:
		return fmt.Errorf("%w: id must be positive, got %d", ErrInvalidLevel, l.ID)
	case !finitePositive(l.Multiplier):
		return fmt.Errorf("%w: level %d multiplier %v", ErrInvalidLevel, l.ID, l.Multiplier)
	case !finitePositive(l.Length):
		return fmt.Errorf("%w: level %d length %v", ErrInvalidLevel, l.ID, l.Length)
	}
	return nil
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
