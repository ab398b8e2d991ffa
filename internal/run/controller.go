// Package run implements the run controller: the state machine that owns a
// simulation world, schedules fixed ticks through a Driver and reports the
// terminal outcome to the progress store.
package run

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/orb-runner/internal/config"
	"github.com/vovakirdan/orb-runner/internal/core"
	"github.com/vovakirdan/orb-runner/internal/level"
	"github.com/vovakirdan/orb-runner/internal/sim"
)

// Controller errors.
var (
	ErrInvalidTransition = errors.New("invalid transition")
	ErrClosed            = errors.New("run: controller closed")
)

// ProgressStore receives attempts and completions.
type ProgressStore interface {
	RecordAttempt() error
	CompleteLevel(desc level.Descriptor, runes, crystals, fragments, score int) error
}

// OutcomeRecorder is implemented by stores that keep a run history.
type OutcomeRecorder interface {
	RecordOutcome(o Outcome) error
}

// Snapshot is a read-only copy of the controller state.
type Snapshot struct {
	Phase      Phase
	Descriptor level.Descriptor
	Viewport   core.Viewport
	World      sim.World
	Flash      bool     // Set on the tick the orb was hit
	Outcome    *Outcome // Set once the run is terminal
}

// Option configures a Controller.
type Option func(*Controller)

// WithDriver sets the tick driver. The default is a TickerDriver at the
// configured tick rate.
func WithDriver(d Driver) Option {
	return func(c *Controller) { c.driver = d }
}

// WithStore sets the progress store.
func WithStore(s ProgressStore) Option {
	return func(c *Controller) { c.store = s }
}

// WithLogger sets the logger used for store failures.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithListener registers an observer for controller events.
func WithListener(fn Listener) Option {
	return func(c *Controller) { c.listener = fn }
}

// Controller drives one level. Transitions are serialized; ticks never
// overlap and never run after a transition out of Playing has returned.
type Controller struct {
	desc level.Descriptor
	vp   core.Viewport
	cfg  config.OrbConfig

	driver   Driver
	store    ProgressStore
	logger   *log.Logger
	listener Listener

	lift atomic.Bool

	ctl sync.Mutex // serializes transitions, including driver start/stop

	mu      sync.Mutex // guards everything below
	phase   Phase
	world   sim.World
	flash   bool
	outcome *Outcome
	closed  bool
}

// New creates a controller in the Ready phase with a freshly generated world.
// The viewport must stay the same for the whole run.
func New(desc level.Descriptor, vp core.Viewport, cfg config.OrbConfig, opts ...Option) *Controller {
	c := &Controller{
		desc: desc,
		vp:   vp,
		cfg:  cfg,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.driver == nil {
		c.driver = NewTickerDriver(cfg.TickRate)
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}
	c.setupLevel()
	return c
}

// setupLevel resets the run state. Callers hold c.mu or own c exclusively.
func (c *Controller) setupLevel() {
	c.world = sim.Generate(c.desc, c.vp.Height, c.cfg)
	c.phase = PhaseReady
	c.flash = false
	c.outcome = nil
	c.lift.Store(false)
}

// Descriptor returns the level being played.
func (c *Controller) Descriptor() level.Descriptor {
	return c.desc
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// SetLift records the latest lift input. It is sampled once per tick.
func (c *Controller) SetLift(on bool) {
	c.lift.Store(on)
}

// Lifting reports the current lift input.
func (c *Controller) Lifting() bool {
	return c.lift.Load()
}

// Start moves Ready -> Playing, records an attempt and starts ticking.
func (c *Controller) Start() error {
	c.ctl.Lock()
	defer c.ctl.Unlock()

	if err := c.transition("start", PhasePlaying, PhaseReady); err != nil {
		return err
	}

	if c.store != nil {
		if err := c.store.RecordAttempt(); err != nil {
			c.logger.Warn("could not record attempt", "level", c.desc.Key(), "error", err)
		}
	}
	c.emit(PhaseEvent{From: PhaseReady, To: PhasePlaying})
	c.driver.Start(c.Tick)
	return nil
}

// Pause moves Playing -> Paused. It returns once the tick loop has halted.
func (c *Controller) Pause() error {
	c.ctl.Lock()
	defer c.ctl.Unlock()

	if err := c.transition("pause", PhasePaused, PhasePlaying); err != nil {
		return err
	}
	c.driver.Stop()
	c.emit(PhaseEvent{From: PhasePlaying, To: PhasePaused})
	return nil
}

// Resume moves Paused -> Playing and restarts the tick loop.
func (c *Controller) Resume() error {
	c.ctl.Lock()
	defer c.ctl.Unlock()

	if err := c.transition("resume", PhasePlaying, PhasePaused); err != nil {
		return err
	}
	c.emit(PhaseEvent{From: PhasePaused, To: PhasePlaying})
	c.driver.Start(c.Tick)
	return nil
}

// TogglePause pauses a playing run or resumes a paused one.
func (c *Controller) TogglePause() error {
	if c.Phase() == PhasePaused {
		return c.Resume()
	}
	return c.Pause()
}

// Restart stops the tick loop and regenerates the level, returning to Ready.
// It is not allowed while Playing; pause first.
func (c *Controller) Restart() error {
	c.ctl.Lock()
	defer c.ctl.Unlock()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	from := c.phase
	if from == PhasePlaying {
		c.mu.Unlock()
		return transitionError("restart", from)
	}
	c.mu.Unlock()

	c.driver.Stop()

	c.mu.Lock()
	c.setupLevel()
	c.mu.Unlock()

	c.emit(PhaseEvent{From: from, To: PhaseReady})
	return nil
}

// Close stops the tick loop. The controller rejects further transitions.
// Close is idempotent and safe on every exit path.
func (c *Controller) Close() {
	c.ctl.Lock()
	defer c.ctl.Unlock()

	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.driver.Stop()
}

// transition checks the phase and moves to next under the lock.
func (c *Controller) transition(op string, next Phase, allowed Phase) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if c.phase != allowed {
		return transitionError(op, c.phase)
	}
	c.phase = next
	return nil
}

func transitionError(op string, from Phase) error {
	return fmt.Errorf("run: cannot %s from %s: %w", op, from, ErrInvalidTransition)
}

// Tick runs one simulation pass. It returns false once the run is no longer
// playing or the controller is closed, which ends a driver's loop.
func (c *Controller) Tick() bool {
	c.mu.Lock()
	if c.closed || c.phase != PhasePlaying {
		c.mu.Unlock()
		return false
	}

	sim.Integrate(&c.world, c.lift.Load(), c.desc, c.vp.Height, c.cfg)
	hit := sim.Detect(&c.world, c.vp, c.cfg)
	sim.Apply(&c.world, hit, c.cfg)

	var events []Event
	switch {
	case hit.HitObstacle:
		// A hit on the final tick still fails the run
		c.flash = true
		events = append(events, FlashEvent{Obstacle: hit.Obstacle})
		c.finishLocked(OutcomeFailed, 0)
	case c.world.State.Progress >= 1:
		s := c.world.State
		c.finishLocked(OutcomeCompleted, c.cfg.CompletionBonus(s.Runes, s.Crystals, s.Fragments))
	default:
		events = append(events, TickEvent{State: c.world.State})
	}

	outcome := c.outcome
	terminal := c.phase.Terminal()
	phase := c.phase
	c.mu.Unlock()

	if !terminal {
		c.emit(events...)
		return true
	}

	events = append(events, PhaseEvent{From: PhasePlaying, To: phase})
	c.emit(events...)
	c.report(*outcome)
	c.emit(OutcomeEvent{Outcome: *outcome})
	return false
}

// finishLocked applies the bonus and records the terminal outcome.
func (c *Controller) finishLocked(kind OutcomeKind, bonus int) {
	c.world.State.Score += bonus
	s := c.world.State

	if kind == OutcomeFailed {
		c.phase = PhaseFailed
	} else {
		c.phase = PhaseCompleted
	}
	c.outcome = &Outcome{
		Kind:       kind,
		Descriptor: c.desc,
		Runes:      s.Runes,
		Crystals:   s.Crystals,
		Fragments:  s.Fragments,
		Score:      s.Score,
		Bonus:      bonus,
		Ticks:      s.Tick,
	}
}

// report hands a terminal outcome to the store. Failures are logged only.
func (c *Controller) report(o Outcome) {
	if c.store == nil {
		return
	}

	if o.Kind == OutcomeCompleted {
		if err := c.store.CompleteLevel(o.Descriptor, o.Runes, o.Crystals, o.Fragments, o.Score); err != nil {
			c.logger.Warn("could not save completion", "level", o.Descriptor.Key(), "error", err)
		}
	}

	if rec, ok := c.store.(OutcomeRecorder); ok {
		if err := rec.RecordOutcome(o); err != nil {
			c.logger.Warn("could not record run", "level", o.Descriptor.Key(), "error", err)
		}
	}
}

func (c *Controller) emit(events ...Event) {
	if c.listener == nil {
		return
	}
	for _, e := range events {
		c.listener(e)
	}
}

// Snapshot returns a copy of the current state for rendering.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		Phase:      c.phase,
		Descriptor: c.desc,
		Viewport:   c.vp,
		World:      c.world.Clone(),
		Flash:      c.flash,
	}
	if c.outcome != nil {
		o := *c.outcome
		snap.Outcome = &o
	}
	return snap
}
