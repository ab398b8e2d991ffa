package run

import (
	"sync/atomic"
	"testing"
	"time"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("timed out")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestTickerDriverStopIsSynchronous(t *testing.T) {
	d := NewTickerDriver(1000)
	var ticks atomic.Int64

	d.Start(func() bool {
		ticks.Add(1)
		return true
	})
	waitFor(t, func() bool { return ticks.Load() >= 3 })

	d.Stop()
	if d.Running() {
		t.Error("Running() true after Stop")
	}

	stopped := ticks.Load()
	time.Sleep(10 * time.Millisecond)
	if got := ticks.Load(); got != stopped {
		t.Errorf("ticks continued after Stop: %d -> %d", stopped, got)
	}

	// Idempotent
	d.Stop()
}

func TestTickerDriverNoDoubleStart(t *testing.T) {
	d := NewTickerDriver(1000)
	var active, maxActive atomic.Int64

	step := func() bool {
		n := active.Add(1)
		for {
			m := maxActive.Load()
			if n <= m || maxActive.CompareAndSwap(m, n) {
				break
			}
		}
		time.Sleep(100 * time.Microsecond)
		active.Add(-1)
		return true
	}

	d.Start(step)
	d.Start(step)
	d.Start(step)
	time.Sleep(20 * time.Millisecond)
	d.Stop()

	if maxActive.Load() != 1 {
		t.Errorf("saw %d concurrent steps, expected 1", maxActive.Load())
	}
}

func TestTickerDriverStepEndsLoop(t *testing.T) {
	d := NewTickerDriver(1000)
	var ticks atomic.Int64

	d.Start(func() bool {
		return ticks.Add(1) < 3
	})
	waitFor(t, func() bool { return !d.Running() })

	if got := ticks.Load(); got != 3 {
		t.Errorf("ticks = %d, expected 3", got)
	}

	// Restartable after ending on its own
	d.Start(func() bool { return false })
	waitFor(t, func() bool { return !d.Running() })
	d.Stop()
}

func TestStepDriverAdvance(t *testing.T) {
	d := NewStepDriver()
	calls := 0

	if n := d.Advance(3); n != 0 {
		t.Errorf("unarmed driver advanced %d", n)
	}

	d.Start(func() bool {
		calls++
		return calls < 5
	})

	if n := d.Advance(3); n != 3 {
		t.Errorf("Advance(3) = %d", n)
	}
	if n := d.Advance(10); n != 2 {
		t.Errorf("Advance(10) = %d, expected 2 (step ended the loop)", n)
	}
	if d.Running() {
		t.Error("driver should disarm when step returns false")
	}
	if calls != 5 {
		t.Errorf("calls = %d, expected 5", calls)
	}
}
