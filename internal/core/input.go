package core

// Action represents a semantic game action, abstracted from physical key presses.
// This allows games to work with high-level intents rather than raw input.
type Action int

const (
	ActionNone    Action = iota
	ActionThrust         // Space, W, Up - jump on press, fly while held
	ActionConfirm        // Enter - confirm selection in menu
	ActionBack           // B, Escape - go back to menu
	ActionRestart        // R key - restart after the run ends
	ActionQuit           // Q, Ctrl+C - exit game/session
	ActionPause          // P - pause/unpause game
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionThrust:
		return "Thrust"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionPause:
		return "Pause"
	default:
		return "Unknown"
	}
}

// PlayerID identifies a side in a two-body game.
type PlayerID int

const (
	Player1 PlayerID = iota + 1
	Player2
)

// String returns "P1" or "P2".
func (p PlayerID) String() string {
	switch p {
	case Player1:
		return "P1"
	case Player2:
		return "P2"
	default:
		return "P?"
	}
}

// InputFrame represents the input state for a single player during one simulation tick.
// Held actions (ActionThrust) are level-triggered: the platform keeps them set for
// every tick the key is considered down. Games derive edges themselves.
type InputFrame struct {
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as active for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action is active this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}

// MultiInputFrame contains input from both players for a single tick.
// The platform fills Player1 from the keyboard and Player2 from a second key
// binding in local versus mode; bot-driven sides ignore it.
type MultiInputFrame struct {
	ByPlayer map[PlayerID]InputFrame
}

// NewMultiInputFrame creates an empty multi-input frame.
func NewMultiInputFrame() MultiInputFrame {
	return MultiInputFrame{
		ByPlayer: make(map[PlayerID]InputFrame),
	}
}

// Player returns the input frame for a specific player.
// Returns an empty frame if player has no input.
func (m MultiInputFrame) Player(id PlayerID) InputFrame {
	if frame, ok := m.ByPlayer[id]; ok {
		return frame
	}
	return NewInputFrame()
}

// SetPlayer sets the input frame for a specific player.
func (m *MultiInputFrame) SetPlayer(id PlayerID, frame InputFrame) {
	if m.ByPlayer == nil {
		m.ByPlayer = make(map[PlayerID]InputFrame)
	}
	m.ByPlayer[id] = frame
}

// Player1 returns the input frame for Player 1 (convenience method).
func (m MultiInputFrame) Player1() InputFrame {
	return m.Player(Player1)
}

// Player2 returns the input frame for Player 2 (convenience method).
func (m MultiInputFrame) Player2() InputFrame {
	return m.Player(Player2)
}

// Clear resets all player inputs for the next frame.
func (m *MultiInputFrame) Clear() {
	for id := range m.ByPlayer {
		frame := m.ByPlayer[id]
		frame.Clear()
		m.ByPlayer[id] = frame
	}
}
