package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/orb-runner/internal/platform/web"
)

var flagWebAddr string

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Start the browser front end",
	Long: `Serve the game over HTTP. The page talks to the server over a
websocket; each browser tab plays on its own run controller and all tabs
share the progress database.

Examples:
  orbrun web
  orbrun web --addr :9000 --fps 60`,
	Run: runWeb,
}

func init() {
	webCmd.Flags().StringVar(&flagWebAddr, "addr", ":8080", "HTTP listen address (host:port)")
}

func runWeb(_ *cobra.Command, _ []string) {
	cfg, src := mustSetup()
	logger := newLogger(os.Stderr, "orbrun-web")

	opts := []web.Option{
		web.WithLogger(logger),
		web.WithFrameRate(flagFPS),
	}
	store := openStore(logger)
	if store != nil {
		defer store.Close()
		opts = append(opts, web.WithStore(store))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Open http://localhost:%s in your browser\n", portOf(flagWebAddr))
	fmt.Println("Press Ctrl+C to stop")

	srv := web.NewServer(cfg, src, opts...)
	if err := srv.ListenAndServe(ctx, flagWebAddr); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
