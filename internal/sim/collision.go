package sim

import (
	"github.com/vovakirdan/orb-runner/internal/config"
	"github.com/vovakirdan/orb-runner/internal/core"
)

// Collision is the result of testing the orb against the world for one tick.
type Collision struct {
	HitObstacle bool
	Obstacle    int // Index of the first obstacle hit, -1 if none
	Collected   []CollectibleRef
}

// ScreenPoint maps a world entity to screen space. The renderer and the
// collision detector both go through here so what is drawn is what is hit.
func ScreenPoint(x, offset, scroll float64, vp core.Viewport, cfg config.OrbConfig) (float64, float64) {
	return x - scroll + cfg.Player.AnchorX, vp.CenterY() + offset
}

// PlayerCircle returns the orb hitbox in screen space.
func PlayerCircle(s State, vp core.Viewport, cfg config.OrbConfig) core.Circle {
	return core.Circle{
		X: cfg.Player.AnchorX,
		Y: vp.CenterY() + s.PlayerOffset,
		R: cfg.PlayerRadius(),
	}
}

// ObstacleHit reports whether the orb touches obstacle o.
// Rotating pillars are circles (strict overlap). Barriers are boxes tested
// against the orb's bounding square with inclusive edges.
func ObstacleHit(player core.Circle, o Obstacle, scroll float64, vp core.Viewport, cfg config.OrbConfig) bool {
	cx, cy := ScreenPoint(o.X, o.Offset, scroll, vp, cfg)
	if o.Rotating {
		return player.Overlaps(core.Circle{X: cx, Y: cy, R: o.Radius()})
	}
	return player.Bounds().Touches(core.BoxAround(cx, cy, o.Width, o.Height))
}

// Detect tests the orb against the world. The obstacle scan stops at the
// first hit; the collectible scan collects everything in reach.
func Detect(w *World, vp core.Viewport, cfg config.OrbConfig) Collision {
	s := w.State
	player := PlayerCircle(s, vp, cfg)
	res := Collision{Obstacle: -1}

	for i, o := range w.Obstacles {
		if ObstacleHit(player, o, s.Scroll, vp, cfg) {
			res.HitObstacle = true
			res.Obstacle = i
			break
		}
	}

	reach := player.R + cfg.Items.PickupRadius
	for i, c := range w.Collectibles {
		if c.Collected {
			continue
		}
		cx, cy := ScreenPoint(c.X, c.Offset, s.Scroll, vp, cfg)
		if core.Distance(player.X, player.Y, cx, cy) < reach {
			res.Collected = append(res.Collected, CollectibleRef(i))
		}
	}

	return res
}

// Apply marks the collected items, bumps their counters and adds the
// per-item score. Items already collected are ignored.
func Apply(w *World, c Collision, cfg config.OrbConfig) int {
	picked := 0
	for _, ref := range c.Collected {
		i := int(ref)
		if i < 0 || i >= len(w.Collectibles) || w.Collectibles[i].Collected {
			continue
		}
		item := &w.Collectibles[i]
		item.Collected = true

		switch item.Kind {
		case KindRune:
			w.State.Runes++
		case KindCrystal:
			w.State.Crystals++
		case KindFragment:
			w.State.Fragments++
		}
		w.State.Score += cfg.Scoring.PerItem
		picked++
	}
	return picked
}
