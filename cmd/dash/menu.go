package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-dash/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a level picker menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to pick a level. After a run you return to the menu.

Controls:
  Up/Down/j/k  - Navigate
  Enter/Space  - Play the level
  D            - Duel the bot
  V            - Local versus
  Tab          - Scoreboard
  Q            - Quit

Examples:
  dash menu
  dash menu --fps 30
  dash menu --user ann --db ./dash.db`,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	logger, closeLog := newLogger(true)
	defer closeLog()

	// The menu cursor starts on level 1; selections set the level per run.
	env, closeEnv, err := openEnv(1, logger)
	if err != nil {
		return err
	}
	defer closeEnv()

	return tui.RunSession(env, runtimeConfig())
}
