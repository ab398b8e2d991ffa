// Package tui provides the Bubble Tea front end for the orb runner.
// The simulation ticks on its own driver; the UI only polls snapshots on
// frame ticks and forwards input to the run controller.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// liftHold is how long a single key press keeps the orb lifting.
// Terminals report no key-up, so auto-repeat presses extend the hold.
const liftHold = 120 * time.Millisecond

// FrameMsg is sent to trigger a redraw from the latest snapshot.
type FrameMsg time.Time

// liftReleaseMsg ends a lift hold unless a newer press superseded it.
type liftReleaseMsg struct {
	seq int
}

// frameCmd returns a Bubble Tea command that sends frame messages at the specified rate.
func frameCmd(fps int) tea.Cmd {
	if fps <= 0 {
		fps = 30
	}
	interval := time.Second / time.Duration(fps)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}

// liftReleaseCmd schedules the release of the lift press numbered seq.
func liftReleaseCmd(seq int) tea.Cmd {
	return tea.Tick(liftHold, func(time.Time) tea.Msg {
		return liftReleaseMsg{seq: seq}
	})
}
