package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/orb-runner/internal/level"
	"github.com/vovakirdan/orb-runner/internal/progress"
)

var (
	flagTier   string
	flagExport string
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List levels and their unlock state",
	Long: `Shows every level of the active level source with its parameters,
your best result and whether it is unlocked.

With --export the levels are written as a YAML level pack instead, which
can be edited and loaded back with --levels.

Examples:
  orbrun levels
  orbrun levels --tier mid
  orbrun levels --export ./pack.yaml`,
	Run: runLevels,
}

func init() {
	levelsCmd.Flags().StringVar(&flagTier, "tier", "", "Only show this tier (low, mid, top)")
	levelsCmd.Flags().StringVar(&flagExport, "export", "", "Write the levels as a YAML pack to this path")
}

func runLevels(_ *cobra.Command, _ []string) {
	_, src := mustSetup()

	tiers := level.Tiers
	if flagTier != "" {
		tier, err := level.ParseTier(flagTier)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		tiers = []level.Tier{tier}
	}

	if flagExport != "" {
		exportPack(src, tiers)
		return
	}

	bests := map[string]progress.LevelBest{}
	if store := openStore(newLogger(os.Stderr, "orbrun")); store != nil {
		if loaded, err := store.LevelBests(); err == nil {
			bests = loaded
		}
		store.Close()
	}

	for _, tier := range tiers {
		fmt.Printf("%s tier\n", tier)
		fmt.Printf("  %-7s  %-6s  %-9s  %-5s  %-10s  %s\n", "Level", "Speed", "Obstacles", "Runes", "Best", "Status")
		fmt.Printf("  %-7s  %-6s  %-9s  %-5s  %-10s  %s\n", "-----", "-----", "---------", "-----", "----", "------")

		for _, d := range src.Levels(tier) {
			b := bests[d.Key()]
			best := "-"
			status := "locked"
			switch {
			case b.Completions > 0:
				best = fmt.Sprintf("%d", b.BestScore)
				status = fmt.Sprintf("cleared x%d", b.Completions)
			case progress.Unlocked(bests, d):
				status = "open"
			}
			fmt.Printf("  %-7s  %-6.2f  %-9d  %-5d  %-10s  %s\n",
				d.Key(), d.ObstacleSpeed, d.ObstacleCount, d.RequiredRunes, best, status)
		}
		fmt.Println()
	}

	fmt.Println("Run 'orbrun play <level>' to play a level.")
}

func exportPack(src level.Source, tiers []level.Tier) {
	pack := &level.Pack{Name: "orbrun levels"}
	for _, tier := range tiers {
		pack.Entries = append(pack.Entries, src.Levels(tier)...)
	}

	data, err := pack.Encode()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding level pack: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(flagExport, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing level pack: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %d levels to %s\n", len(pack.Entries), flagExport)
}
