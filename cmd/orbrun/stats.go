package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/orb-runner/internal/progress"
	"github.com/vovakirdan/orb-runner/internal/storage"
)

var flagRecent int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show lifetime progress",
	Long: `Display lifetime totals, the orb upgrade tier, per-level bests and
the most recent runs.

Examples:
  orbrun stats
  orbrun stats --recent 20`,
	Run: runStats,
}

func init() {
	statsCmd.Flags().IntVar(&flagRecent, "recent", 10, "Number of recent runs to show")
}

func runStats(_ *cobra.Command, _ []string) {
	// Only the tick rate is needed; a broken file still yields defaults
	cfg, _, _ := loadSetup()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening progress database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	stats, err := store.GetStats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading stats: %v\n", err)
		return
	}

	t := stats.Totals
	fmt.Println("Orb Runner - Lifetime")
	fmt.Println()
	fmt.Printf("  Attempts:     %s\n", humanize.Comma(int64(t.Attempts)))
	fmt.Printf("  Completions:  %s\n", humanize.Comma(int64(t.Completions)))
	fmt.Printf("  Runes:        %s\n", humanize.Comma(int64(t.Items.Runes)))
	fmt.Printf("  Crystals:     %s\n", humanize.Comma(int64(t.Items.Crystals)))
	fmt.Printf("  Fragments:    %s\n", humanize.Comma(int64(t.Items.Fragments)))
	fmt.Printf("  Best score:   %s\n", humanize.Comma(int64(stats.BestScore)))

	upgrade := fmt.Sprintf("%s (%d pts)", stats.Upgrade, t.Items.Points())
	if next, missing := progress.NextUpgrade(t.Items); missing > 0 {
		upgrade += fmt.Sprintf(", %d to %s", missing, next)
	}
	fmt.Printf("  Orb:          %s\n", upgrade)

	if !stats.LastPlayed.IsZero() {
		fmt.Printf("  Last played:  %s\n", humanize.Time(stats.LastPlayed))
	}

	bests, err := store.LevelBests()
	if err == nil && len(bests) > 0 {
		keys := make([]string, 0, len(bests))
		for k := range bests {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fmt.Println()
		fmt.Println("Level bests")
		fmt.Printf("  %-7s  %-6s  %-5s  %-8s  %-9s  %s\n", "Level", "Score", "Runes", "Crystals", "Fragments", "Cleared")
		for _, k := range keys {
			b := bests[k]
			fmt.Printf("  %-7s  %-6d  %-5d  %-8d  %-9d  %d\n",
				k, b.BestScore, b.Best.Runes, b.Best.Crystals, b.Best.Fragments, b.Completions)
		}
	}

	runs, err := store.RecentRuns(flagRecent)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading runs: %v\n", err)
		return
	}
	fmt.Println()
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'orbrun play' to start your first run!")
		return
	}

	fmt.Println("Recent runs")
	fmt.Printf("  %-7s  %-9s  %-6s  %-14s  %s\n", "Level", "Outcome", "Score", "Duration", "When")
	for _, r := range runs {
		fmt.Printf("  %-7s  %-9s  %-6d  %-14s  %s\n",
			r.LevelKey, r.Outcome, r.Score, ticksToDuration(r.Ticks, cfg.TickRate), humanize.Time(r.CreatedAt))
	}
}

// ticksToDuration formats a run length in seconds at the given tick rate.
func ticksToDuration(ticks int64, tickRate int) string {
	if tickRate <= 0 {
		tickRate = 60
	}
	secs := float64(ticks) / float64(tickRate)
	return humanize.FtoaWithDigits(secs, 1) + "s"
}
