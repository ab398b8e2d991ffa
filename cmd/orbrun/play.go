package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/orb-runner/internal/level"
	"github.com/vovakirdan/orb-runner/internal/platform/tui"
)

var flagLogFile string

var playCmd = &cobra.Command{
	Use:   "play [level]",
	Short: "Play in the terminal",
	Long: `Start the terminal game. Without a level the level select screen
opens; with a level key (tier-index) that level starts right away.

Controls:
  Space/Up/W  - Lift (hold)
  Enter       - Launch / replay
  P/Esc       - Pause
  R           - Restart
  B           - Back to level select
  Ctrl+S      - Screenshot to ~/.orbrun/screenshots
  Q/Ctrl+C    - Quit

Examples:
  orbrun play
  orbrun play low-1
  orbrun play top-4 --config ./orb.yaml
  orbrun play --levels ./pack.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write diagnostics to this file")
}

func runPlay(_ *cobra.Command, args []string) {
	cfg, src := mustSetup()

	var logOut io.Writer = io.Discard
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	logger := newLogger(logOut, "orbrun")

	var start *level.Descriptor
	if len(args) == 1 {
		desc, err := lookupLevel(src, args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			fmt.Fprintln(os.Stderr, "Run 'orbrun levels' to see available levels.")
			os.Exit(1)
		}
		start = &desc
	}

	// Size stays 0x0 (defaults) when stdout is not a terminal
	width, height, _ := term.GetSize(int(os.Stdout.Fd()))
	runtime := tui.RuntimeFor(width, height, flagFPS)

	store := openStore(logger)
	if store == nil {
		fmt.Fprintln(os.Stderr, "Warning: could not open progress database, progress will not be saved")
	}
	if start != nil {
		if err := requireUnlocked(store, *start); err != nil {
			store.Close()
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			fmt.Fprintln(os.Stderr, "Run 'orbrun levels' to see which levels are open.")
			os.Exit(1)
		}
	}

	runErr := tui.Run(tui.Env{
		Config: cfg,
		Levels: src,
		Store:  store,
		Logger: logger,
	}, runtime, start)

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
