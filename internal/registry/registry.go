// Package registry provides a global registry for game factories.
// Games register themselves in init() functions, allowing the platform
// to discover and instantiate games without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tui-dash/internal/config"
	"github.com/vovakirdan/tui-dash/internal/core"
)

// Game is the interface every playable mode implements.
// Games contain pure logic with no external dependencies (especially no Bubble Tea).
// The platform handles input mapping, timing, and rendering.
type Game interface {
	// ID returns a unique identifier for this game (e.g., "dash").
	// Used for CLI commands and run storage.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Reset starts a fresh attempt.
	// Called once at start and again when restarting after the run ends.
	Reset(cfg core.RuntimeConfig)

	// Step advances the simulation by one fixed tick.
	Step(in core.InputFrame) core.StepResult

	// Render draws the current frame. It must not change simulation state.
	Render(dst core.Canvas)

	// Viewport returns the logical size of the canvas the game draws on.
	Viewport() (w, h float64)

	// State returns the current game state.
	State() core.GameState
}

// Settings carries everything a factory needs to build a game.
type Settings struct {
	Config config.DashConfig
	Level  int
	Skin   string  // Skin ID; empty means the configured default
	God    bool    // Disable loss on fatal obstacles
	Fly    bool    // Force fly physics
	Speed  float64 // Debug speed multiplier; zero means 1
	Versus bool    // Second side is a local human instead of a bot
}

// DefaultSettings returns settings for level 1 with the built-in configuration.
func DefaultSettings() Settings {
	return Settings{
		Config: config.DefaultDashConfig(),
		Level:  1,
	}
}

// GameInfo contains metadata about a registered game.
type GameInfo struct {
	ID    string
	Title string
}

// Factory builds a game from settings. It fails on settings the game cannot run.
type Factory func(s Settings) (Game, error)

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a game factory to the registry.
// Typically called from a game's init() function.
// Panics if a game with the same ID is already registered.
func Register(id, title string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}

	factories[id] = f
	titles[id] = title
}

// List returns information about all registered games, sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(factories))
	for id := range factories {
		result = append(result, GameInfo{
			ID:    id,
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a new game by its ID.
// Returns an error if the game ID is not registered or the factory rejects the settings.
func Create(id string, s Settings) (Game, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}

	g, err := f(s)
	if err != nil {
		return nil, fmt.Errorf("registry: cannot create %q: %w", id, err)
	}
	return g, nil
}
