// orbrun is an endless orb runner for the terminal, SSH and the browser.
//
// Usage:
//
//	orbrun play [level]      - Play (level select when no level is given)
//	orbrun levels            - List levels with unlock state
//	orbrun stats             - Show lifetime progress and recent runs
//	orbrun simulate <level>  - Run a level headless with a scripted lift pattern
//	orbrun serve             - Start SSH server for remote play
//	orbrun web               - Start the browser front end
//
// Global flags:
//
//	--fps <rate>      - Redraw rate (the simulation always ticks at tick_rate)
//	--db <path>       - Progress database (default: ~/.orbrun/progress.db)
//	--config <path>   - Tuning YAML (default search: ~/.orbrun/configs, ./configs)
//	--levels <path>   - Level pack YAML instead of the derived levels
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/orb-runner/internal/config"
	"github.com/vovakirdan/orb-runner/internal/level"
	"github.com/vovakirdan/orb-runner/internal/progress"
	"github.com/vovakirdan/orb-runner/internal/storage"
)

var (
	// Global flags
	flagFPS    int
	flagDBPath string
	flagConfig string
	flagLevels string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "orbrun",
	Short: "Orb Runner - steer a glowing orb through a scrolling corridor",
	Long: `Orb Runner is a side-scrolling corridor game. Hold lift to rise,
let go to fall, dodge barriers and rotating pillars, and collect runes,
crystals and fragments on the way to the end of each level.

Available commands:
  play      - Play in the terminal
  levels    - Show all levels and which are unlocked
  stats     - Lifetime totals, upgrade tier and recent runs
  simulate  - Run a level headless with a scripted lift pattern
  serve     - Start SSH server for remote play
  web       - Start the browser front end

Examples:
  orbrun play
  orbrun play mid-3
  orbrun levels --tier top
  orbrun simulate low-1 --lift 4 --fall 9
  orbrun serve --ssh :2222
  orbrun web --addr :8080`,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 30, "Redraw rate (frames per second)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.orbrun/progress.db", "Path to progress database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom tuning YAML")
	rootCmd.PersistentFlags().StringVar(&flagLevels, "levels", "", "Path to a level pack YAML")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(webCmd)
}

// loadSetup reads the tuning and the level source named by the global flags.
func loadSetup() (config.OrbConfig, level.Source, error) {
	cfg, err := config.LoadOrb(flagConfig)
	if err != nil {
		return cfg, nil, err
	}
	if flagLevels != "" {
		pack, err := level.LoadPack(flagLevels)
		if err != nil {
			return cfg, nil, err
		}
		return cfg, pack, nil
	}
	return cfg, level.NewFormulaSource(cfg.Levels), nil
}

// lookupLevel resolves a key such as "mid-3" against the source.
func lookupLevel(src level.Source, key string) (level.Descriptor, error) {
	tier, index, err := level.ParseKey(key)
	if err != nil {
		return level.Descriptor{}, err
	}
	return src.Lookup(tier, index)
}

// requireUnlocked rejects a directly launched level that the saved progress
// has not unlocked. Without a store nothing is persisted, so every level is
// allowed.
func requireUnlocked(store *storage.Store, desc level.Descriptor) error {
	if store == nil {
		return nil
	}
	bests, err := store.LevelBests()
	if err != nil {
		return err
	}
	return progress.CheckUnlocked(bests, desc)
}

// mustSetup is loadSetup for commands that cannot continue without it.
func mustSetup() (config.OrbConfig, level.Source) {
	cfg, src, err := loadSetup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cfg, src
}

// openStore opens the progress database. Failures are reported and the
// caller continues without persistence.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open progress database", "error", err)
		return nil
	}
	return store
}

func newLogger(w io.Writer, prefix string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
}
