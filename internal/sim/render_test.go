package sim

import (
	"testing"

	"github.com/vovakirdan/orb-runner/internal/config"
	"github.com/vovakirdan/orb-runner/internal/core"
)

func TestRenderPlacesEntities(t *testing.T) {
	cfg := config.DefaultOrbConfig()
	dst := core.NewScreen(80, 25)

	w := World{
		Obstacles: []Obstacle{
			// Screen center (320, 140): cells x 31-32, y 6-7
			{X: 200, Offset: -100, Width: 20, Height: 40},
		},
		Collectibles: []Collectible{
			// Rune at cell (22, 15)
			{X: 100, Offset: 60, Kind: KindRune},
			{X: 150, Offset: 60, Kind: KindCrystal, Collected: true},
		},
	}

	Render(dst, &w, testViewport, cfg, false)

	if got := dst.GetCell(12, 12).Rune; got != OrbChar {
		t.Errorf("orb cell = %q, expected %q", got, OrbChar)
	}
	if got := dst.GetCell(12, 12).Color; got != core.ColorOrb {
		t.Errorf("orb color = %d, expected %d", got, core.ColorOrb)
	}
	for _, p := range [][2]int{{31, 6}, {32, 7}} {
		if got := dst.GetCell(p[0], p[1]).Rune; got != BarrierChar {
			t.Errorf("barrier cell %v = %q", p, got)
		}
	}
	if got := dst.GetCell(33, 6).Rune; got == BarrierChar {
		t.Error("barrier drawn wider than its box")
	}
	if got := dst.GetCell(22, 15).Rune; got != RuneChar {
		t.Errorf("rune cell = %q, expected %q", got, RuneChar)
	}
	if got := dst.GetCell(27, 15).Rune; got == CrystalChar {
		t.Error("collected crystal should not be drawn")
	}

	// Walls on the first and last playfield rows, HUD row untouched
	if dst.GetCell(0, 0).Rune != WallTopChar || dst.GetCell(79, 23).Rune != WallBotChar {
		t.Error("corridor walls missing")
	}
	if dst.GetCell(0, 24).Rune != ' ' {
		t.Error("HUD row should be left for the caller")
	}
}

func TestRenderFlashAndScroll(t *testing.T) {
	cfg := config.DefaultOrbConfig()
	dst := core.NewScreen(80, 25)
	w := World{Obstacles: []Obstacle{{X: 200, Width: 20, Height: 40}}}
	w.State.Scroll = 2000

	Render(dst, &w, testViewport, cfg, true)

	if got := dst.GetCell(12, 12).Rune; got != OrbHitChar {
		t.Errorf("flash orb = %q, expected %q", got, OrbHitChar)
	}
	for x := 0; x < 80; x++ {
		for y := 1; y < 23; y++ {
			if dst.GetCell(x, y).Rune == BarrierChar {
				t.Fatalf("scrolled-past barrier still drawn at (%d, %d)", x, y)
			}
		}
	}
}

func TestPillarGlyph(t *testing.T) {
	tests := []struct {
		rotation float64
		expected rune
	}{
		{0, '│'},
		{44, '╱'},
		{90, '─'},
		{135, '╲'},
		{180, '│'},
		{359, '│'},
	}

	for _, tc := range tests {
		if got := pillarGlyph(tc.rotation); got != tc.expected {
			t.Errorf("pillarGlyph(%f) = %q, expected %q", tc.rotation, got, tc.expected)
		}
	}
}
