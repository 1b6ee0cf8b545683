package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-dash/internal/core"
	"github.com/vovakirdan/tui-dash/internal/multiplayer"
)

// holdTicks is how long one thrust key event keeps thrust held.
// Terminals report repeats but never releases, so a held key keeps refreshing it.
const holdTicks = 8

// KeyMapper translates Bubble Tea key messages to game actions.
// In versus mode the arrow/k keys belong to player 2.
type KeyMapper struct {
	versus bool
}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper(versus bool) *KeyMapper {
	return &KeyMapper{versus: versus}
}

// MapKey translates a key message to an action and the player it belongs to.
// Returns ActionNone for unbound keys.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (core.PlayerID, core.Action) {
	switch msg.String() {
	case "ctrl+c", "q":
		return multiplayer.Player1, core.ActionQuit
	case " ", "w":
		return multiplayer.Player1, core.ActionThrust
	case "up", "k":
		if km.versus {
			return multiplayer.Player2, core.ActionThrust
		}
		return multiplayer.Player1, core.ActionThrust
	case "enter":
		return multiplayer.Player1, core.ActionConfirm
	case "b", "esc":
		return multiplayer.Player1, core.ActionBack
	case "p":
		return multiplayer.Player1, core.ActionPause
	case "r":
		return multiplayer.Player1, core.ActionRestart
	}
	return multiplayer.Player1, core.ActionNone
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionPlay
	MenuActionDuel
	MenuActionVersus
	MenuActionScoreboard
	MenuActionBack
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionPlay
	case "d":
		return MenuActionDuel
	case "v":
		return MenuActionVersus
	case "tab":
		return MenuActionScoreboard
	case "b", "esc":
		return MenuActionBack
	}
	return MenuActionNone
}
