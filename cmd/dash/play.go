package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-dash/internal/multiplayer"
	"github.com/vovakirdan/tui-dash/internal/platform/tui"
	"github.com/vovakirdan/tui-dash/internal/platform/window"
)

var (
	flagVersus      bool
	flagWindowDuel  bool
	flagWindowScale float64
)

var playCmd = &cobra.Command{
	Use:   "play <level>",
	Short: "Play a level",
	Long: `Start playing the given level.

Controls:
  Space/W/Up  - Jump (hold to keep jumping, or to fly)
  P           - Pause
  R           - Restart (after the run ends)
  B/Esc       - Back (when paused or over)
  Ctrl+S      - Save a text screenshot
  Q/Ctrl+C    - Quit

Examples:
  dash play 1
  dash play 4 --difficulty easy
  dash play 2 --seed 42
  dash play 5 --skin jet`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return runGame(args[0], multiplayer.MatchModeSolo)
	},
}

var duelCmd = &cobra.Command{
	Use:   "duel <level>",
	Short: "Race an opponent on the same layout",
	Long: `Race the simulated opponent on the same layout. Both lanes are shown;
the run that gets further wins.

With --versus a second player takes the bottom lane:
  Space/W  - Player 1
  Up/K     - Player 2

Examples:
  dash duel 1
  dash duel 3 --difficulty hard
  dash duel 2 --versus`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		mode := multiplayer.MatchModeVsBot
		if flagVersus {
			mode = multiplayer.MatchModeLocalVersus
		}
		return runGame(args[0], mode)
	},
}

var windowCmd = &cobra.Command{
	Use:   "window <level>",
	Short: "Play a level in a desktop window",
	Long: `Open a desktop window and play the given level.

Controls:
  Space/W/Up/Mouse  - Jump (held)
  P                 - Pause
  R                 - Restart (after the run ends)
  Esc/Q             - Quit

Examples:
  dash window 1
  dash window 3 --scale 1.5
  dash window 2 --duel`,
	Args: cobra.ExactArgs(1),
	RunE: runWindow,
}

func init() {
	duelCmd.Flags().BoolVar(&flagVersus, "versus", false, "Second lane is a local player instead of the bot")
	windowCmd.Flags().BoolVar(&flagWindowDuel, "duel", false, "Race the bot")
	windowCmd.Flags().BoolVar(&flagVersus, "versus", false, "Race a second local player")
	windowCmd.Flags().Float64Var(&flagWindowScale, "scale", 1, "Window pixels per world unit")
}

// runGame plays one level in the terminal.
func runGame(arg string, mode multiplayer.MatchMode) error {
	level, err := parseLevel(arg)
	if err != nil {
		return err
	}

	logger, closeLog := newLogger(true)
	defer closeLog()

	env, closeEnv, err := openEnv(level, logger)
	if err != nil {
		return err
	}
	defer closeEnv()

	game, env, err := tui.NewGame(env, tui.MenuSelection{LevelID: level, Mode: mode})
	if err != nil {
		return fmt.Errorf("could not start level %d: %w", level, err)
	}
	logger.Info("starting game", "game", game.ID(), "level", level, "mode", mode.Key())

	return tui.Run(game, env, runtimeConfig())
}

func runWindow(_ *cobra.Command, args []string) error {
	level, err := parseLevel(args[0])
	if err != nil {
		return err
	}

	logger, closeLog := newLogger(false)
	defer closeLog()

	env, closeEnv, err := openEnv(level, logger)
	if err != nil {
		return err
	}
	defer closeEnv()

	mode := multiplayer.MatchModeSolo
	switch {
	case flagVersus:
		mode = multiplayer.MatchModeLocalVersus
	case flagWindowDuel:
		mode = multiplayer.MatchModeVsBot
	}

	game, env, err := tui.NewGame(env, tui.MenuSelection{LevelID: level, Mode: mode})
	if err != nil {
		return fmt.Errorf("could not start level %d: %w", level, err)
	}

	cfg := runtimeConfig()
	return window.Run(game, env, cfg, window.Options{Scale: flagWindowScale})
}
