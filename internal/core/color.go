package core

// Color names the role of a screen cell. The platform renderer decides how
// each role looks.
type Color uint8

// Play field.
const (
	ColorDefault Color = iota
	ColorOrb
	ColorBarrier
	ColorPillar
	ColorRune
	ColorCrystal
	ColorFragment
	ColorFlash // Orb on the tick it was hit
	ColorWall
)

// HUD and overlays.
const (
	ColorLabel Color = iota + ColorWall + 1
	ColorProgress
	ColorScore
	ColorReady
	ColorPaused
	ColorFailed
	ColorCompleted
)
