package run

import (
	"sync"
	"sync/atomic"
	"time"
)

// Driver schedules fixed ticks. step is called once per tick and returns
// false to end the loop from inside.
type Driver interface {
	// Start begins calling step. Starting a running driver does nothing.
	Start(step func() bool)

	// Stop halts the loop and returns only once no step is running.
	// Stopping a stopped driver does nothing.
	Stop()

	// Running reports whether the loop is active.
	Running() bool
}

// TickerDriver calls step from its own goroutine at a fixed rate.
type TickerDriver struct {
	interval time.Duration

	mu      sync.Mutex
	done    chan struct{}
	exited  chan struct{}
	running atomic.Bool
}

// NewTickerDriver creates a driver ticking tickRate times per second.
func NewTickerDriver(tickRate int) *TickerDriver {
	if tickRate <= 0 {
		tickRate = 60
	}
	return &TickerDriver{interval: time.Second / time.Duration(tickRate)}
}

// Start launches the tick goroutine.
func (d *TickerDriver) Start(step func() bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running.Load() {
		return
	}

	done := make(chan struct{})
	exited := make(chan struct{})
	d.done, d.exited = done, exited
	d.running.Store(true)

	go d.loop(step, done, exited)
}

func (d *TickerDriver) loop(step func() bool, done, exited chan struct{}) {
	defer close(exited)
	defer d.running.Store(false)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if !step() {
				return
			}
		case <-done:
			return
		}
	}
}

// Stop signals the goroutine and waits for it to exit. It must not be called
// from inside step.
func (d *TickerDriver) Stop() {
	d.mu.Lock()
	done, exited := d.done, d.exited
	d.done, d.exited = nil, nil
	d.mu.Unlock()

	if done == nil {
		return
	}
	close(done)
	<-exited
}

// Running reports whether the tick goroutine is alive.
func (d *TickerDriver) Running() bool {
	return d.running.Load()
}

// StepDriver has no clock: ticks happen only when Advance is called.
// It drives tests and headless simulations.
type StepDriver struct {
	mu      sync.Mutex
	step    func() bool
	running bool
}

// NewStepDriver creates a manual driver.
func NewStepDriver() *StepDriver {
	return &StepDriver{}
}

// Start arms the driver with step.
func (d *StepDriver) Start(step func() bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		return
	}
	d.step = step
	d.running = true
}

// Stop disarms the driver.
func (d *StepDriver) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.running = false
	d.step = nil
}

// Running reports whether the driver is armed.
func (d *StepDriver) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}

// Advance runs up to n ticks synchronously and returns how many ran.
// It stops early when step returns false or the driver is stopped.
func (d *StepDriver) Advance(n int) int {
	ran := 0
	for ran < n {
		d.mu.Lock()
		step := d.step
		if !d.running || step == nil {
			d.mu.Unlock()
			return ran
		}
		d.mu.Unlock()

		ran++
		if !step() {
			d.mu.Lock()
			d.running = false
			d.step = nil
			d.mu.Unlock()
			return ran
		}
	}
	return ran
}

var (
	_ Driver = (*TickerDriver)(nil)
	_ Driver = (*StepDriver)(nil)
)
