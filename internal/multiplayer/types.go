// Package multiplayer provides types for two-sided play.
// Both sides always run on the same machine: the second side is either a
// scripted bot or a second local human sharing the keyboard.
package multiplayer

import "github.com/vovakirdan/tui-dash/internal/core"

// PlayerID is an alias to core.PlayerID for convenience.
// Player1 is always the local human player, Player2 is the bot or the second human.
type PlayerID = core.PlayerID

// Re-export player constants for convenience.
const (
	Player1 = core.Player1
	Player2 = core.Player2
)

// NoWinner marks a drawn match.
const NoWinner PlayerID = 0

// MatchMode defines how a game match is configured.
type MatchMode int

const (
	// MatchModeSolo is a single-player run.
	MatchModeSolo MatchMode = iota

	// MatchModeVsBot is player vs simulated opponent.
	MatchModeVsBot

	// MatchModeLocalVersus is two humans on one keyboard.
	MatchModeLocalVersus
)

// String returns a human-readable name for the match mode.
func (m MatchMode) String() string {
	switch m {
	case MatchModeSolo:
		return "Solo"
	case MatchModeVsBot:
		return "vs Bot"
	case MatchModeLocalVersus:
		return "Local Versus"
	default:
		return "Unknown"
	}
}

// Key returns the storage name of the mode.
func (m MatchMode) Key() string {
	switch m {
	case MatchModeSolo:
		return "solo"
	case MatchModeVsBot:
		return "bot"
	case MatchModeLocalVersus:
		return "versus"
	default:
		return "unknown"
	}
}

// MultiGame is implemented by games that take input for both sides.
// The platform calls StepMulti instead of Step when the game implements it.
type MultiGame interface {
	StepMulti(in core.MultiInputFrame) core.StepResult
	Mode() MatchMode
	Result() Result
	Sides() (p1, p2 Side)
}

// Result is the final state of a two-sided match.
type Result struct {
	Over   bool
	Winner PlayerID // NoWinner on a draw
}

// Side is the comparable summary of one side of a match.
// Only Outcome and Progress take part in deciding the winner.
type Side struct {
	Outcome  core.Outcome
	Progress float64
	Pickups  int
	Frames   int
}

// rank orders outcomes: won beats still running beats lost.
func rank(o core.Outcome) int {
	switch o {
	case core.OutcomeWon:
		return 2
	case core.OutcomeInProgress:
		return 1
	default:
		return 0
	}
}

// Decide picks the winner: the better outcome wins, then the higher progress.
// Anything else is a draw.
func Decide(p1, p2 Side) PlayerID {
	r1, r2 := rank(p1.Outcome), rank(p2.Outcome)
	switch {
	case r1 > r2:
		return Player1
	case r2 > r1:
		return Player2
	case p1.Progress > p2.Progress:
		return Player1
	case p2.Progress > p1.Progress:
		return Player2
	default:
		return NoWinner
	}
}
