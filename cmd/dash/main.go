// dash is a one-button runner for the terminal, an SSH server and a desktop window.
//
// Usage:
//
//	dash list                - List levels and skins
//	dash play <level>        - Play a level
//	dash duel <level>        - Race the bot (or a second player with --versus)
//	dash menu                - Pick levels interactively
//	dash scores <level>      - Show the best runs for a level
//	dash profile             - Show gems, skins and recent runs
//	dash redeem <code>       - Redeem a code for gems or skins
//	dash sim <level>         - Play a level headless with the autopilot
//	dash serve               - Start SSH server for remote play
//	dash window <level>      - Play a level in a desktop window
//
// Global flags:
//
//	--fps <rate>      - Set tick rate (default: 60)
//	--seed <value>    - Set the layout seed for reproducible runs
//	--db <path>       - Set database path (default: ~/.dash/dash.db)
//	--user <name>     - Profile to play as (default: $USER)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagUser       string
	flagLogLevel   string
	flagLevelsDir  string
	flagDifficulty string

	// Debug flags
	flagGod   bool
	flagFly   bool
	flagSpeed float64
	flagSkin  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dash",
	Short: "Dash - a one-button runner in your terminal",
	Long: `Dash is a side-scrolling runner. Hold one button to jump (or fly) over
spikes and blocks, collect gems and reach the end of the level.

Available commands:
  list     - Show levels and skins
  play     - Play a level
  duel     - Race the bot on the same layout
  menu     - Interactive level picker
  scores   - View the best runs
  profile  - Show your gems and skins
  redeem   - Redeem a code
  sim      - Headless autopilot run
  serve    - Start SSH server for remote play
  window   - Play in a desktop window

Examples:
  dash list
  dash play 1
  dash duel 3 --difficulty hard
  dash menu --user ann
  dash serve --ssh :2222`,
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	pf.Int64Var(&flagSeed, "seed", 0, "Layout seed (0 = random based on time)")
	pf.StringVar(&flagDBPath, "db", "~/.dash/dash.db", "Path to the database")
	pf.StringVar(&flagConfig, "config", "", "Path to a custom dash.yaml")
	pf.StringVar(&flagUser, "user", "", "Profile name (default: $USER)")
	pf.StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.StringVar(&flagLevelsDir, "levels", "~/.dash/levels", "Directory with extra level files (.yaml, .yml, .toml)")
	pf.StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")

	pf.BoolVar(&flagGod, "god", false, "Debug: fatal obstacles do not end the run")
	pf.BoolVar(&flagFly, "fly", false, "Debug: force fly physics")
	pf.Float64Var(&flagSpeed, "speed", 0, "Debug: speed multiplier (0 = normal)")
	pf.StringVar(&flagSkin, "skin", "", "Skin to play with (must be owned)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(duelCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(redeemCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(windowCmd)
}
