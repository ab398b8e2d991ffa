// Package sim implements the orb runner simulation: deterministic content
// generation, the fixed-tick physics and scroll integrator, and collision
// detection against barriers, pillars and collectibles.
//
// Everything in this package is single-threaded. The run controller owns a
// World and is the only writer.
package sim

import "fmt"

// Kind identifies a collectible type.
type Kind int

const (
	KindRune Kind = iota
	KindCrystal
	KindFragment
)

// String returns the collectible name.
func (k Kind) String() string {
	switch k {
	case KindRune:
		return "rune"
	case KindCrystal:
		return "crystal"
	case KindFragment:
		return "fragment"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Obstacle is a barrier or rotating pillar placed along the corridor.
// X and Offset never change after generation; only Rotation does.
type Obstacle struct {
	X           float64 // World position along the corridor
	Offset      float64 // Vertical offset from the centerline (negative = up)
	Width       float64
	Height      float64
	Rotating    bool
	Rotation    float64 // Degrees in [0, 360)
	SpeedFactor float64 // Rotation rate multiplier
}

// Radius returns the circular hitbox radius used for rotating obstacles.
func (o Obstacle) Radius() float64 {
	if o.Width > o.Height {
		return o.Width / 2
	}
	return o.Height / 2
}

// Collectible is a rune, crystal or fragment. Collected only goes false -> true.
type Collectible struct {
	X         float64
	Offset    float64
	Kind      Kind
	Collected bool
}

// CollectibleRef is the index of a collectible within its World.
type CollectibleRef int

// State is the mutable per-run simulation state.
type State struct {
	PlayerOffset   float64 // Vertical offset from the centerline (negative = up)
	PlayerVelocity float64
	Scroll         float64 // Distance travelled, never decreases
	Progress       float64 // Scroll / corridor length, in [0, 1]
	Runes          int
	Crystals       int
	Fragments      int
	Score          int
	Lift           bool   // Input sampled on the last tick
	Tick           uint64 // Ticks integrated so far
}

// World holds the entities and state of one run.
type World struct {
	Obstacles    []Obstacle
	Collectibles []Collectible
	State        State
}

// Clone returns a deep copy safe to hand to observers.
func (w *World) Clone() World {
	c := World{State: w.State}
	c.Obstacles = append([]Obstacle(nil), w.Obstacles...)
	c.Collectibles = append([]Collectible(nil), w.Collectibles...)
	return c
}

// Remaining returns how many collectibles of kind k are still uncollected.
func (w *World) Remaining(k Kind) int {
	n := 0
	for _, c := range w.Collectibles {
		if c.Kind == k && !c.Collected {
			n++
		}
	}
	return n
}
