package sim

import (
	"math"

	"github.com/vovakirdan/orb-runner/internal/config"
	"github.com/vovakirdan/orb-runner/internal/core"
	"github.com/vovakirdan/orb-runner/internal/level"
)

// velocitySnap absorbs float drift when velocity accumulates onto the clamp.
// Ten lift steps of -0.8 sum to -7.999999999999999, not -8.
const velocitySnap = 1e-9

// StepResult reports which clamps fired during a tick.
type StepResult struct {
	VelocityClamped bool
	WallClamped     bool
}

// StepVelocity applies one tick of gravity or lift and clamps the result to
// [-MaxVelocity, MaxVelocity]. The second return value reports the clamp.
func StepVelocity(v float64, lift bool, p config.OrbPhysics) (float64, bool) {
	if lift {
		v += p.LiftForce
	} else {
		v += p.Gravity
	}

	if v >= p.MaxVelocity-velocitySnap {
		return p.MaxVelocity, true
	}
	if v <= -p.MaxVelocity+velocitySnap {
		return -p.MaxVelocity, true
	}
	return v, false
}

// HalfScreen returns how far the orb may travel from the centerline.
func HalfScreen(viewportHeight, wallMargin float64) float64 {
	return math.Max(0, viewportHeight/2-wallMargin)
}

// Integrate advances the world by one fixed tick: vertical physics
// (semi-implicit Euler, velocity before position), wall clamp, scroll,
// progress and pillar rotation.
func Integrate(w *World, lift bool, desc level.Descriptor, viewportHeight float64, cfg config.OrbConfig) StepResult {
	var res StepResult
	s := &w.State

	s.Lift = lift
	s.Tick++

	s.PlayerVelocity, res.VelocityClamped = StepVelocity(s.PlayerVelocity, lift, cfg.Physics)
	s.PlayerOffset += s.PlayerVelocity

	// Walls stop the orb dead, no bounce
	half := HalfScreen(viewportHeight, cfg.Player.WallMargin)
	if s.PlayerOffset < -half || s.PlayerOffset > half {
		s.PlayerOffset = core.ClampF(s.PlayerOffset, -half, half)
		s.PlayerVelocity = 0
		res.WallClamped = true
	}

	s.Scroll += desc.ObstacleSpeed * cfg.Physics.ScrollMultiplier
	s.Progress = progressFor(s.Scroll, cfg.Corridor.Length)

	for i := range w.Obstacles {
		o := &w.Obstacles[i]
		if o.Rotating {
			o.Rotation = wrapDegrees(o.Rotation + cfg.Physics.RotationStep*o.SpeedFactor)
		}
	}

	return res
}

// progressFor returns scroll/length capped at 1. It is exactly 1 only once
// scroll reaches the corridor length.
func progressFor(scroll, length float64) float64 {
	if scroll >= length {
		return 1
	}
	p := scroll / length
	if p >= 1 {
		p = math.Nextafter(1, 0)
	}
	if p < 0 {
		p = 0
	}
	return p
}

func wrapDegrees(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}
