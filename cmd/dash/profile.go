package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-dash/internal/platform/tui"
	"github.com/vovakirdan/tui-dash/internal/profile"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show gems, skins and recent runs",
	Long: `Show the current player's gem balance, owned skins, duel record and
the last runs.

Examples:
  dash profile
  dash profile --user ann`,
	Args: cobra.NoArgs,
	RunE: runProfile,
}

var redeemCmd = &cobra.Command{
	Use:   "redeem <code>",
	Short: "Redeem a code for gems or skins",
	Long: `Redeem a secret code. Every code works once per player.

Examples:
  dash redeem PRISMATIC
  dash redeem PRISMATIC --user ann`,
	Args: cobra.ExactArgs(1),
	RunE: runRedeem,
}

func runProfile(_ *cobra.Command, _ []string) error {
	logger, closeLog := newLogger(false)
	defer closeLog()

	env, closeEnv, err := openEnv(1, logger)
	if err != nil {
		return err
	}
	defer closeEnv()
	if env.Profiles == nil {
		return errors.New("profiles need a database; check --db")
	}

	p, err := env.Profiles.Load(env.Username)
	if err != nil {
		return err
	}

	fmt.Printf("Player: %s\n", p.Username)
	fmt.Printf("Gems:   ◆ %d\n", p.Gems)
	fmt.Printf("Skins:  %s\n", strings.Join(p.Skins, ", "))
	fmt.Printf("Duels:  %d won, %d lost, %d drawn\n", p.Duels.Wins, p.Duels.Losses, p.Duels.Draws)

	runs, err := env.Profiles.History(env.Username, 5)
	if err != nil {
		return err
	}
	fmt.Println()
	if len(runs) == 0 {
		fmt.Println("No runs yet. Run 'dash play 1' to start.")
		return nil
	}
	fmt.Println("Recent runs:")
	for _, r := range runs {
		fmt.Printf("  level %-3d  %-6s  %-8s  %6.1f%%  ◆ %d  %s\n",
			r.LevelID, r.Mode, r.Outcome, r.Progress, r.Pickups,
			r.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func runRedeem(_ *cobra.Command, args []string) error {
	logger, closeLog := newLogger(false)
	defer closeLog()

	env, closeEnv, err := openEnv(1, logger)
	if err != nil {
		return err
	}
	defer closeEnv()
	if env.Profiles == nil {
		return errors.New("profiles need a database; check --db")
	}

	reward, err := env.Profiles.Redeem(env.Username, args[0])
	switch {
	case errors.Is(err, profile.ErrUnknownCode):
		return fmt.Errorf("no such code %q", args[0])
	case errors.Is(err, profile.ErrCodeUsed):
		return fmt.Errorf("code %q was already redeemed by %s", args[0], env.Username)
	case err != nil:
		return err
	}

	fmt.Println(tui.RewardLine(reward))
	return nil
}
