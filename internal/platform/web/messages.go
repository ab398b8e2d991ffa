// Package web serves the orb runner to browsers over a websocket.
// Each connection owns one run controller; the server streams snapshots at
// the frame rate and forwards client actions, including explicit lift
// release on key-up.
package web

import (
	"strings"

	"github.com/vovakirdan/orb-runner/internal/config"
	"github.com/vovakirdan/orb-runner/internal/level"
	"github.com/vovakirdan/orb-runner/internal/progress"
	"github.com/vovakirdan/orb-runner/internal/run"
	"github.com/vovakirdan/orb-runner/internal/sim"
)

// Message types.
const (
	MsgSelect  = "select"
	MsgAction  = "action"
	MsgLevels  = "levels"
	MsgState   = "state"
	MsgOutcome = "outcome"
	MsgError   = "error"
)

// ClientMessage is sent by the browser.
type ClientMessage struct {
	Type   string  `json:"type"`
	Action string  `json:"action,omitempty"` // lift, release, start, pause, restart, back, quit
	Level  string  `json:"level,omitempty"`  // level key for select, e.g. "mid-3"
	Width  float64 `json:"width,omitempty"`  // viewport in world units; 0 uses the default
	Height float64 `json:"height,omitempty"`
}

// ServerMessage is sent to the browser.
type ServerMessage struct {
	Type    string       `json:"type"`
	Levels  []LevelView  `json:"levels,omitempty"`
	State   *StateView   `json:"state,omitempty"`
	Outcome *OutcomeView `json:"outcome,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// LevelView describes one entry of the level list.
type LevelView struct {
	Key           string  `json:"key"`
	Tier          string  `json:"tier"`
	Index         int     `json:"index"`
	RequiredRunes int     `json:"requiredRunes"`
	ObstacleSpeed float64 `json:"obstacleSpeed"`
	ObstacleCount int     `json:"obstacleCount"`
	Unlocked      bool    `json:"unlocked"`
	Completions   int     `json:"completions"`
	BestScore     int     `json:"bestScore"`
}

// EntityView is an obstacle or item in screen coordinates.
type EntityView struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"w,omitempty"`
	Height   float64 `json:"h,omitempty"`
	Kind     string  `json:"kind"`
	Rotation float64 `json:"rot,omitempty"`
}

// StateView is one rendered frame.
type StateView struct {
	Level         string       `json:"level"`
	Phase         string       `json:"phase"`
	Width         float64      `json:"width"`
	Height        float64      `json:"height"`
	PlayerX       float64      `json:"playerX"`
	PlayerY       float64      `json:"playerY"`
	PlayerR       float64      `json:"playerR"`
	Flash         bool         `json:"flash"`
	Obstacles     []EntityView `json:"obstacles"`
	Items         []EntityView `json:"items"`
	Progress      float64      `json:"progress"`
	Runes         int          `json:"runes"`
	RequiredRunes int          `json:"requiredRunes"`
	Crystals      int          `json:"crystals"`
	Fragments     int          `json:"fragments"`
	Score         int          `json:"score"`
	Tick          uint64       `json:"tick"`
}

// OutcomeView reports a finished run.
type OutcomeView struct {
	Kind      string `json:"kind"`
	Level     string `json:"level"`
	Runes     int    `json:"runes"`
	Crystals  int    `json:"crystals"`
	Fragments int    `json:"fragments"`
	Score     int    `json:"score"`
	Bonus     int    `json:"bonus"`
	MetTarget bool   `json:"metTarget"`
	Ticks     uint64 `json:"ticks"`
}

// newStateView projects a snapshot into screen coordinates. Entities fully
// outside the viewport are left out.
func newStateView(snap run.Snapshot, cfg config.OrbConfig) *StateView {
	w := snap.World
	st := w.State
	vp := snap.Viewport
	player := sim.PlayerCircle(st, vp, cfg)

	v := &StateView{
		Level:         snap.Descriptor.Key(),
		Phase:         strings.ToLower(snap.Phase.String()),
		Width:         vp.Width,
		Height:        vp.Height,
		PlayerX:       player.X,
		PlayerY:       player.Y,
		PlayerR:       player.R,
		Flash:         snap.Flash,
		Obstacles:     []EntityView{},
		Items:         []EntityView{},
		Progress:      st.Progress,
		Runes:         st.Runes,
		RequiredRunes: snap.Descriptor.RequiredRunes,
		Crystals:      st.Crystals,
		Fragments:     st.Fragments,
		Score:         st.Score,
		Tick:          st.Tick,
	}

	for _, o := range w.Obstacles {
		x, y := sim.ScreenPoint(o.X, o.Offset, st.Scroll, vp, cfg)
		if x+o.Width/2 < 0 || x-o.Width/2 > vp.Width {
			continue
		}
		kind := "barrier"
		if o.Rotating {
			kind = "pillar"
		}
		v.Obstacles = append(v.Obstacles, EntityView{
			X: x, Y: y, Width: o.Width, Height: o.Height, Kind: kind, Rotation: o.Rotation,
		})
	}

	for _, c := range w.Collectibles {
		if c.Collected {
			continue
		}
		x, y := sim.ScreenPoint(c.X, c.Offset, st.Scroll, vp, cfg)
		if x < 0 || x > vp.Width {
			continue
		}
		v.Items = append(v.Items, EntityView{X: x, Y: y, Kind: c.Kind.String()})
	}
	return v
}

func newOutcomeView(o run.Outcome) *OutcomeView {
	return &OutcomeView{
		Kind:      o.Kind.String(),
		Level:     o.Descriptor.Key(),
		Runes:     o.Runes,
		Crystals:  o.Crystals,
		Fragments: o.Fragments,
		Score:     o.Score,
		Bonus:     o.Bonus,
		MetTarget: o.MetTarget(),
		Ticks:     o.Ticks,
	}
}

// levelViews lists every level of the source with unlock state.
func levelViews(src level.Source, bests map[string]progress.LevelBest) []LevelView {
	var out []LevelView
	for _, tier := range level.Tiers {
		for _, d := range src.Levels(tier) {
			b := bests[d.Key()]
			out = append(out, LevelView{
				Key:           d.Key(),
				Tier:          d.Tier.String(),
				Index:         d.Index,
				RequiredRunes: d.RequiredRunes,
				ObstacleSpeed: d.ObstacleSpeed,
				ObstacleCount: d.ObstacleCount,
				Unlocked:      progress.Unlocked(bests, d),
				Completions:   b.Completions,
				BestScore:     b.BestScore,
			})
		}
	}
	return out
}
