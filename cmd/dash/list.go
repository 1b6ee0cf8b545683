package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	// Registers the runner and the duel.
	_ "github.com/vovakirdan/tui-dash/internal/games/dash"
	"github.com/vovakirdan/tui-dash/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List levels and skins",
	Long:  `Shows every level (built-in and from level packs) and every skin.`,
	RunE:  runList,
}

func runList(_ *cobra.Command, _ []string) error {
	logger, closeLog := newLogger(false)
	defer closeLog()

	cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}

	lvls := append(cfg.Levels[:0:0], cfg.Levels...)
	sort.Slice(lvls, func(i, j int) bool { return lvls[i].ID < lvls[j].ID })

	fmt.Println("Levels:")
	fmt.Println()
	fmt.Printf("  %-4s  %-16s  %-6s  %s\n", "ID", "Name", "Speed", "Unlocks")
	fmt.Printf("  %-4s  %-16s  %-6s  %s\n", "--", "----", "-----", "-------")
	for _, l := range lvls {
		fmt.Printf("  %-4d  %-16s  %-6s  %s\n", l.ID, l.Name, fmt.Sprintf("x%.2g", l.Multiplier), l.UnlockSkin)
	}

	fmt.Println()
	fmt.Println("Skins:")
	fmt.Println()
	for _, s := range cfg.Skins {
		var traits []string
		if s.Default {
			traits = append(traits, "default")
		}
		if s.Fly {
			traits = append(traits, "fly")
		}
		if s.Shoot {
			traits = append(traits, "shoot")
		}
		if s.Glitch {
			traits = append(traits, "glitch")
		}
		fmt.Printf("  %s %-10s  %-12s  %v\n", s.Glyph, s.ID, s.Name, traits)
	}

	fmt.Println()
	fmt.Println("Modes:")
	fmt.Println()
	for _, g := range registry.List() {
		fmt.Printf("  %-10s  %s\n", g.ID, g.Title)
	}

	fmt.Println()
	fmt.Println("Run 'dash play <id>' to play a level.")
	return nil
}
