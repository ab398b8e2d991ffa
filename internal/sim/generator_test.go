package sim

import (
	"math"
	"reflect"
	"testing"

	"github.com/vovakirdan/orb-runner/internal/config"
	"github.com/vovakirdan/orb-runner/internal/level"
)

func lowDescriptor(count int) level.Descriptor {
	return level.Descriptor{
		Tier:          level.TierLow,
		Index:         1,
		RequiredRunes: 3,
		ObstacleSpeed: 2,
		ObstacleCount: count,
	}
}

func TestGenerateDeterminism(t *testing.T) {
	cfg := config.DefaultOrbConfig()
	src := level.NewFormulaSource(cfg.Levels)

	for _, tier := range level.Tiers {
		for _, desc := range src.Levels(tier) {
			a := Generate(desc, 480, cfg)
			b := Generate(desc, 480, cfg)
			if !reflect.DeepEqual(a, b) {
				t.Fatalf("%s: two generations differ", desc.Key())
			}
		}
	}
}

func TestGenerateLowTierAlternation(t *testing.T) {
	cfg := config.DefaultOrbConfig()
	w := Generate(lowDescriptor(4), 800, cfg)

	if len(w.Obstacles) != 4 {
		t.Fatalf("expected 4 obstacles, got %d", len(w.Obstacles))
	}
	for i, o := range w.Obstacles {
		if o.Rotating {
			t.Errorf("obstacle %d is rotating; low tier has no pillars", i)
		}
	}

	// safeHalf = max(800*0.3, 100) = 240
	if got := w.Obstacles[0].Offset; got != -200 {
		t.Errorf("obstacle 0 offset = %f, expected -200 (above centerline)", got)
	}
	if got := w.Obstacles[1].Offset; got != 191.5 {
		t.Errorf("obstacle 1 offset = %f, expected 191.5 (below centerline)", got)
	}

	// spacing = 3000/5 = 600
	expectedX := []float64{800, 1400, 2000, 2600}
	for i, x := range expectedX {
		if w.Obstacles[i].X != x {
			t.Errorf("obstacle %d x = %f, expected %f", i, w.Obstacles[i].X, x)
		}
	}

	if w.Obstacles[0].Height != 80 || w.Obstacles[0].Width != 15 {
		t.Errorf("obstacle 0 size = %fx%f, expected 15x80", w.Obstacles[0].Width, w.Obstacles[0].Height)
	}
	if w.Obstacles[1].Height != 97 || w.Obstacles[1].Width != 22 {
		t.Errorf("obstacle 1 size = %fx%f, expected 22x97", w.Obstacles[1].Width, w.Obstacles[1].Height)
	}
}

func TestGenerateSafeHalfFloor(t *testing.T) {
	cfg := config.DefaultOrbConfig()
	// 200*0.3 = 60 < 100, so the floor applies
	w := Generate(lowDescriptor(1), 200, cfg)
	if got := w.Obstacles[0].Offset; got != -60 {
		t.Errorf("offset = %f, expected -(100 - 40) = -60", got)
	}
}

func TestGeneratePillars(t *testing.T) {
	cfg := config.DefaultOrbConfig()
	tests := []struct {
		tier    level.Tier
		pillars int
	}{
		{level.TierLow, 0},
		{level.TierMid, 1},
		{level.TierTop, 3},
	}

	for _, tc := range tests {
		desc := level.Derive(cfg.Levels, tc.tier, 1)
		w := Generate(desc, 480, cfg)

		var rotations []float64
		for _, o := range w.Obstacles {
			if o.Rotating {
				rotations = append(rotations, o.Rotation)
				if o.Offset != 0 {
					t.Errorf("%s: pillar off the centerline: %f", desc.Key(), o.Offset)
				}
				if o.SpeedFactor != cfg.Corridor.PillarSpeedFactor {
					t.Errorf("%s: pillar speed factor = %f", desc.Key(), o.SpeedFactor)
				}
			}
		}
		if len(rotations) != tc.pillars {
			t.Errorf("%s: expected %d pillars, got %d", desc.Key(), tc.pillars, len(rotations))
		}
		if len(w.Obstacles) != desc.ObstacleCount+tc.pillars {
			t.Errorf("%s: expected %d obstacles in total, got %d", desc.Key(), desc.ObstacleCount+tc.pillars, len(w.Obstacles))
		}
		for j, r := range rotations {
			if r != float64(j*45) {
				t.Errorf("%s: pillar %d starts at %f, expected %d", desc.Key(), j, r, j*45)
			}
		}
	}
}

func TestGenerateStrictlyIncreasingX(t *testing.T) {
	cfg := config.DefaultOrbConfig()
	src := level.NewFormulaSource(cfg.Levels)

	for _, tier := range level.Tiers {
		for _, desc := range src.Levels(tier) {
			w := Generate(desc, 480, cfg)
			for i := 1; i < len(w.Obstacles); i++ {
				if w.Obstacles[i].X <= w.Obstacles[i-1].X {
					t.Fatalf("%s: obstacle %d x=%f not after %f", desc.Key(), i, w.Obstacles[i].X, w.Obstacles[i-1].X)
				}
			}
		}
	}
}

func TestGenerateCollectibles(t *testing.T) {
	cfg := config.DefaultOrbConfig()
	desc := level.Descriptor{Tier: level.TierMid, Index: 4, RequiredRunes: 5, ObstacleSpeed: 2, ObstacleCount: 6}
	w := Generate(desc, 800, cfg)

	counts := map[Kind]int{}
	for _, c := range w.Collectibles {
		counts[c.Kind]++
		if c.Collected {
			t.Error("collectible generated already collected")
		}
	}

	if counts[KindRune] != 7 {
		t.Errorf("runes = %d, expected RequiredRunes+2 = 7", counts[KindRune])
	}
	if counts[KindCrystal] != 6 {
		t.Errorf("crystals = %d, expected 2+Index = 6", counts[KindCrystal])
	}
	if counts[KindFragment] != 2 {
		t.Errorf("fragments = %d, expected 2 for mid tier", counts[KindFragment])
	}

	// Ordered runes, crystals, fragments
	if w.Collectibles[0].Kind != KindRune || w.Collectibles[len(w.Collectibles)-1].Kind != KindFragment {
		t.Error("collectibles not grouped by kind")
	}

	band := 800 * cfg.Items.BandRatio
	for i, c := range w.Collectibles {
		limit := band
		if c.Kind == KindFragment {
			limit = band * cfg.Items.FragmentBand
		}
		if math.Abs(c.Offset) > limit+1e-9 {
			t.Errorf("collectible %d (%s) offset %f outside band %f", i, c.Kind, c.Offset, limit)
		}
		if c.X < cfg.Corridor.StartOffset || c.X > cfg.Corridor.StartOffset+cfg.Corridor.Length {
			t.Errorf("collectible %d x=%f outside the corridor", i, c.X)
		}
	}
}

func TestPlaceKindFirstRune(t *testing.T) {
	cfg := config.DefaultOrbConfig()
	items := placeKind(KindRune, 5, 100, cfg.Corridor)

	// seq = 3: jx = 3/16 - 0.5 = -0.3125, jy = 3/22*2 - 1
	spacing := 3000.0 / 6
	wantX := 200 + spacing*(1+0.4*(-0.3125))
	wantY := (3.0/22*2 - 1) * 100

	if math.Abs(items[0].X-wantX) > 1e-9 {
		t.Errorf("x = %f, expected %f", items[0].X, wantX)
	}
	if math.Abs(items[0].Offset-wantY) > 1e-9 {
		t.Errorf("offset = %f, expected %f", items[0].Offset, wantY)
	}
}
