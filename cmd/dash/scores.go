package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-dash/internal/platform/tui"
	"github.com/vovakirdan/tui-dash/internal/storage"
)

var flagScoresTable bool

var scoresCmd = &cobra.Command{
	Use:   "scores <level>",
	Short: "Show the best runs for a level",
	Long: `Display the top 10 runs for the given level, ranked by progress,
then gems, then the fewest frames.

Use --table for the interactive scoreboard.

Examples:
  dash scores 1
  dash scores 3 --table`,
	Args: cobra.ExactArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagScoresTable, "table", false, "Open the interactive scoreboard")
}

func runScores(_ *cobra.Command, args []string) error {
	levelID, err := parseLevel(args[0])
	if err != nil {
		return err
	}

	logger, closeLog := newLogger(flagScoresTable)
	defer closeLog()

	cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}
	level, ok := cfg.Level(levelID)
	if !ok {
		return fmt.Errorf("unknown level %d; run 'dash list' to see levels", levelID)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("could not open database: %w", err)
	}
	defer store.Close()

	if flagScoresTable {
		rc := runtimeConfig()
		_, err := tui.RunScoreboard(store, cfg.Levels, levelID, rc.ScreenW, rc.ScreenH)
		return err
	}

	runs, err := store.TopRuns(levelID, 10)
	if err != nil {
		return fmt.Errorf("could not load runs: %w", err)
	}

	fmt.Printf("Best runs - %s (level %d)\n", level.Name, level.ID)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'dash play %d' to set the first one!\n", levelID)
		return nil
	}

	fmt.Printf("  %-4s  %-12s  %-8s  %-4s  %-6s  %s\n", "Rank", "Player", "Progress", "Gems", "Mode", "Date")
	fmt.Printf("  %-4s  %-12s  %-8s  %-4s  %-6s  %s\n", "----", "------", "--------", "----", "----", "----")
	for i, r := range runs {
		fmt.Printf("  %-4d  %-12s  %-8s  %-4d  %-6s  %s\n",
			i+1, r.Username, fmt.Sprintf("%.0f%%", r.Progress), r.Pickups, r.Mode,
			r.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.GetLevelStats(levelID)
	if err == nil && stats.Attempts > 0 {
		fmt.Println()
		fmt.Printf("Attempts: %d  Wins: %d  Best: %.0f%%  Average: %.0f%%\n",
			stats.Attempts, stats.Wins, stats.BestProgress, stats.AvgProgress)
	}
	return nil
}
