package run

import (
	"fmt"

	"github.com/vovakirdan/orb-runner/internal/level"
	"github.com/vovakirdan/orb-runner/internal/sim"
)

// Phase is the run state.
type Phase int

const (
	PhaseReady Phase = iota
	PhasePlaying
	PhasePaused
	PhaseFailed
	PhaseCompleted
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseReady:
		return "Ready"
	case PhasePlaying:
		return "Playing"
	case PhasePaused:
		return "Paused"
	case PhaseFailed:
		return "Failed"
	case PhaseCompleted:
		return "Completed"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Terminal reports whether the run has ended.
func (p Phase) Terminal() bool {
	return p == PhaseFailed || p == PhaseCompleted
}

// OutcomeKind is how a run ended.
type OutcomeKind int

const (
	OutcomeCompleted OutcomeKind = iota
	OutcomeFailed
)

// String returns the outcome name.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeCompleted:
		return "completed"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(k))
	}
}

// Outcome is reported exactly once per run, on the terminal transition.
type Outcome struct {
	Kind       OutcomeKind
	Descriptor level.Descriptor
	Runes      int
	Crystals   int
	Fragments  int
	Score      int // Includes Bonus
	Bonus      int // Completion bonus, 0 for failed runs
	Ticks      uint64
}

// MetTarget reports whether the run collected the level's required runes.
func (o Outcome) MetTarget() bool {
	return o.Runes >= o.Descriptor.RequiredRunes
}

// Event is delivered to a Listener.
type Event interface {
	event()
}

// TickEvent follows every non-terminal tick.
type TickEvent struct {
	State sim.State
}

// FlashEvent signals an obstacle hit. It precedes the Failed phase change.
type FlashEvent struct {
	Obstacle int
}

// PhaseEvent reports a transition.
type PhaseEvent struct {
	From, To Phase
}

// OutcomeEvent carries the terminal outcome.
type OutcomeEvent struct {
	Outcome Outcome
}

func (TickEvent) event()    {}
func (FlashEvent) event()   {}
func (PhaseEvent) event()   {}
func (OutcomeEvent) event() {}

// Listener observes a controller. It is called from the tick goroutine and
// from whichever goroutine requested a transition, never under the controller
// lock. It must not block or call back into the controller.
type Listener func(Event)
