package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/orb-runner/internal/core"
	"github.com/vovakirdan/orb-runner/internal/progress"
	"github.com/vovakirdan/orb-runner/internal/run"
)

var (
	flagLiftTicks int
	flagFallTicks int
	flagMaxTicks  int
	flagSave      bool
	flagVerbose   bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <level>",
	Short: "Run a level headless with a scripted lift pattern",
	Long: `Run a level without a screen. The orb lifts for --lift ticks, then
falls for --fall ticks, repeating until the run ends or --max-ticks is reached.

Results are kept in memory unless --save is given. Saving requires the
level to be unlocked; without --save any level can be simulated.

Examples:
  orbrun simulate low-1
  orbrun simulate mid-4 --lift 3 --fall 7
  orbrun simulate top-2 --max-ticks 20000 --save`,
	Args: cobra.ExactArgs(1),
	Run:  runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagLiftTicks, "lift", 4, "Ticks to hold lift in each cycle")
	simulateCmd.Flags().IntVar(&flagFallTicks, "fall", 8, "Ticks to release lift in each cycle")
	simulateCmd.Flags().IntVar(&flagMaxTicks, "max-ticks", 36000, "Give up after this many ticks")
	simulateCmd.Flags().BoolVar(&flagSave, "save", false, "Record the result in the progress database")
	simulateCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log run events")
}

func runSimulate(_ *cobra.Command, args []string) {
	cfg, src := mustSetup()
	desc, err := lookupLevel(src, args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if flagLiftTicks < 0 || flagFallTicks < 0 || flagLiftTicks+flagFallTicks == 0 {
		fmt.Fprintln(os.Stderr, "Error: --lift and --fall must be non-negative and not both zero")
		os.Exit(1)
	}

	logger := newLogger(os.Stderr, "orbrun-sim")
	logger.SetLevel(log.WarnLevel)
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}

	driver := run.NewStepDriver()
	opts := []run.Option{run.WithDriver(driver), run.WithLogger(logger)}
	if flagSave {
		store := openStore(logger)
		if store != nil {
			if err := requireUnlocked(store, desc); err != nil {
				store.Close()
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				fmt.Fprintln(os.Stderr, "Drop --save to simulate a locked level without recording it.")
				os.Exit(1)
			}
			defer store.Close()
			opts = append(opts, run.WithStore(store))
		}
	} else {
		opts = append(opts, run.WithStore(progress.NewMemoryStore()))
	}

	ctrl := run.New(desc, core.ViewportForScreen(80, 25), cfg, opts...)
	defer ctrl.Close()

	if err := ctrl.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cycle := flagLiftTicks + flagFallTicks
	for tick := 0; tick < flagMaxTicks && driver.Running(); tick++ {
		ctrl.SetLift(tick%cycle < flagLiftTicks)
		driver.Advance(1)
	}

	snap := ctrl.Snapshot()
	fmt.Printf("Level:      %s\n", desc.Key())
	fmt.Printf("Pattern:    lift %d / fall %d\n", flagLiftTicks, flagFallTicks)

	if snap.Outcome == nil {
		st := snap.World.State
		fmt.Printf("Result:     unfinished after %s ticks (%.0f%%)\n", humanize.Comma(int64(st.Tick)), st.Progress*100)
		return
	}

	o := snap.Outcome
	fmt.Printf("Result:     %s\n", o.Kind)
	fmt.Printf("Time:       %s (%s ticks)\n", ticksToDuration(int64(o.Ticks), cfg.TickRate), humanize.Comma(int64(o.Ticks)))
	fmt.Printf("Runes:      %d/%d\n", o.Runes, desc.RequiredRunes)
	fmt.Printf("Crystals:   %d\n", o.Crystals)
	fmt.Printf("Fragments:  %d\n", o.Fragments)
	fmt.Printf("Score:      %s (+%s bonus)\n", humanize.Comma(int64(o.Score)), humanize.Comma(int64(o.Bonus)))
}
