package core

// RuntimeConfig contains configuration passed to games at initialization.
// Games use this to adapt to screen size and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed for deterministic gameplay
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// Outcome is the state of a run: in progress until it is won or lost.
type Outcome int

const (
	OutcomeInProgress Outcome = iota
	OutcomeWon
	OutcomeLost
)

// String returns a lowercase name suitable for storage.
func (o Outcome) String() string {
	switch o {
	case OutcomeInProgress:
		return "in-progress"
	case OutcomeWon:
		return "won"
	case OutcomeLost:
		return "lost"
	default:
		return "unknown"
	}
}

// Terminal reports whether stepping should stop.
func (o Outcome) Terminal() bool {
	return o == OutcomeWon || o == OutcomeLost
}

// ParseOutcome is the inverse of Outcome.String.
func ParseOutcome(s string) (Outcome, bool) {
	switch s {
	case "in-progress":
		return OutcomeInProgress, true
	case "won":
		return OutcomeWon, true
	case "lost":
		return OutcomeLost, true
	}
	return OutcomeInProgress, false
}

// GameState represents the current state of a game.
// Returned by Game.State() to communicate status to the platform.
type GameState struct {
	Score    int     // Gems picked up this run
	Progress float64 // Level completion percentage in [0, 100]
	Outcome  Outcome
	GameOver bool // Outcome is terminal; kept for platform code that only cares about stopping
	Paused   bool
}

// EventKind classifies things that happened during a tick.
type EventKind int

const (
	EventPickup EventKind = iota + 1
	EventWon
	EventLost
)

// String returns a short name for logs.
func (k EventKind) String() string {
	switch k {
	case EventPickup:
		return "pickup"
	case EventWon:
		return "won"
	case EventLost:
		return "lost"
	default:
		return "unknown"
	}
}

// Event is emitted by a game when something noteworthy happens during a step.
// Outcome events carry the run's pickup count so the platform can compute rewards.
type Event struct {
	Kind     EventKind
	Player   PlayerID
	Pickups  int
	Progress float64
	Frame    int
}

// StepResult is returned by Game.Step() after each simulation tick.
// Contains the updated game state and any events that occurred.
type StepResult struct {
	State  GameState
	Events []Event
}
