package tui

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-dash/internal/games/dash"
	"github.com/vovakirdan/tui-dash/internal/multiplayer"
	"github.com/vovakirdan/tui-dash/internal/profile"
	"github.com/vovakirdan/tui-dash/internal/registry"
	"github.com/vovakirdan/tui-dash/internal/storage"
)

// Env is what the TUI screens share: game settings, the player and persistence.
// Store and Profiles may be nil; the game still runs without them.
type Env struct {
	Settings registry.Settings
	Username string
	Store    *storage.Store
	Profiles *profile.Service
	Logger   *log.Logger
}

func (e Env) logger() *log.Logger {
	if e.Logger == nil {
		return log.New(io.Discard)
	}
	return e.Logger
}

// NewGame creates the game for a menu selection. The returned env carries
// the settings the game was built with so results are recorded against them.
func NewGame(env Env, sel MenuSelection) (registry.Game, Env, error) {
	env.Settings.Level = sel.LevelID
	env.Settings.Versus = sel.Mode == multiplayer.MatchModeLocalVersus

	id := dash.GameID
	if sel.Mode != multiplayer.MatchModeSolo {
		id = dash.DuelID
	}
	game, err := registry.Create(id, env.Settings)
	if err != nil {
		return nil, env, err
	}
	return game, env, nil
}
