package sim

import (
	"math"

	"github.com/vovakirdan/orb-runner/internal/config"
	"github.com/vovakirdan/orb-runner/internal/core"
)

// Visual characters for rendering
const (
	OrbChar      = '●'
	OrbHitChar   = '✸'
	BarrierChar  = '█'
	RuneChar     = '✦'
	CrystalChar  = '◆'
	FragmentChar = '✧'
	WallTopChar  = '▀'
	WallBotChar  = '▄'
)

// pillarGlyphs index by rotation in 45 degree steps.
var pillarGlyphs = [4]rune{'│', '╱', '─', '╲'}

// Render draws the playfield rows of dst from the world. The viewport maps
// onto dst through core.CellWidth and core.CellHeight; rows below the
// viewport are left untouched for the HUD.
func Render(dst *core.Screen, w *World, vp core.Viewport, cfg config.OrbConfig, flash bool) {
	rows := int(vp.Height / core.CellHeight)
	cols := dst.Width()

	dst.DrawHLine(0, 0, cols, WallTopChar, core.ColorWall)
	if rows > 1 {
		dst.DrawHLine(0, rows-1, cols, WallBotChar, core.ColorWall)
	}

	scroll := w.State.Scroll
	for _, o := range w.Obstacles {
		cx, cy := ScreenPoint(o.X, o.Offset, scroll, vp, cfg)
		if cx+o.Width/2 < 0 || cx-o.Width/2 > vp.Width {
			continue
		}
		r := cellRect(core.BoxAround(cx, cy, o.Width, o.Height))
		if o.Rotating {
			dst.DrawRect(r, pillarGlyph(o.Rotation), core.ColorPillar)
		} else {
			dst.DrawRect(r, BarrierChar, core.ColorBarrier)
		}
	}

	for _, c := range w.Collectibles {
		if c.Collected {
			continue
		}
		cx, cy := ScreenPoint(c.X, c.Offset, scroll, vp, cfg)
		if cx < 0 || cx > vp.Width {
			continue
		}
		x, y := cellOf(cx, cy)
		switch c.Kind {
		case KindRune:
			dst.SetColored(x, y, RuneChar, core.ColorRune)
		case KindCrystal:
			dst.SetColored(x, y, CrystalChar, core.ColorCrystal)
		case KindFragment:
			dst.SetColored(x, y, FragmentChar, core.ColorFragment)
		}
	}

	p := PlayerCircle(w.State, vp, cfg)
	x, y := cellOf(p.X, p.Y)
	if flash {
		dst.SetColored(x, y, OrbHitChar, core.ColorFlash)
	} else {
		dst.SetColored(x, y, OrbChar, core.ColorOrb)
	}
}

// cellOf maps a screen point to the terminal cell containing it.
func cellOf(sx, sy float64) (int, int) {
	return int(math.Floor(sx / core.CellWidth)), int(math.Floor(sy / core.CellHeight))
}

// cellRect returns the cells covered by a box, at least one cell.
func cellRect(b core.Box) core.Rect {
	x0, y0 := cellOf(b.X, b.Y)
	x1 := int(math.Ceil(b.Right() / core.CellWidth))
	y1 := int(math.Ceil(b.Bottom() / core.CellHeight))
	return core.NewRect(x0, y0, core.Max(1, x1-x0), core.Max(1, y1-y0))
}

func pillarGlyph(rotation float64) rune {
	step := int(math.Floor((wrapDegrees(rotation)+22.5)/45)) % len(pillarGlyphs)
	return pillarGlyphs[step]
}
