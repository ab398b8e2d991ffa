package core

// RuntimeConfig contains configuration passed to a front end at startup.
type RuntimeConfig struct {
	ScreenW  int // Screen width in characters
	ScreenH  int // Screen height in characters
	FrameFPS int // Render refresh rate; the simulation always ticks at its own fixed rate
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		FrameFPS: 30,
	}
}

// Viewport is the size of the visible play field in world units.
// It is fixed for the duration of a run.
type Viewport struct {
	Width  float64
	Height float64
}

// CenterY returns the world y-coordinate of the corridor centerline.
func (v Viewport) CenterY() float64 {
	return v.Height / 2
}

// Terminal cell size in world units. A cell is roughly twice as tall as wide.
const (
	CellWidth  = 10.0
	CellHeight = 20.0
)

// ViewportForScreen maps a terminal size (cells) to a world viewport.
// The bottom row is reserved for the HUD.
func ViewportForScreen(cols, rows int) Viewport {
	if rows > 1 {
		rows--
	}
	return Viewport{
		Width:  float64(cols) * CellWidth,
		Height: float64(rows) * CellHeight,
	}
}
