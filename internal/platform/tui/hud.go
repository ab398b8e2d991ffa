package tui

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/orb-runner/internal/core"
	"github.com/vovakirdan/orb-runner/internal/run"
	"github.com/vovakirdan/orb-runner/internal/sim"
)

const progressBarCells = 10

// DrawHUD writes the status line on the bottom row of s.
func DrawHUD(s *core.Screen, snap run.Snapshot) {
	y := s.Height() - 1
	if y < 1 {
		return
	}
	st := snap.World.State
	s.DrawHLine(0, y, s.Width(), ' ', core.ColorDefault)

	x := 0
	put := func(text string, c core.Color) {
		s.DrawTextColored(x, y, text, c)
		x += len([]rune(text))
	}

	put(strings.ToUpper(snap.Descriptor.Key())+" ", core.ColorLabel)
	put(progressBar(st.Progress), core.ColorProgress)
	put(fmt.Sprintf(" %3d%%  ", int(st.Progress*100)), core.ColorDefault)
	put(fmt.Sprintf("%c %d/%d  ", sim.RuneChar, st.Runes, snap.Descriptor.RequiredRunes), core.ColorRune)
	put(fmt.Sprintf("%c %d  ", sim.CrystalChar, st.Crystals), core.ColorCrystal)
	put(fmt.Sprintf("%c %d  ", sim.FragmentChar, st.Fragments), core.ColorFragment)
	put(fmt.Sprintf("Score %d", st.Score), core.ColorScore)
}

// progressBar renders a fixed width bar for a progress value in [0, 1].
func progressBar(p float64) string {
	filled := core.Clamp(int(p*progressBarCells), 0, progressBarCells)
	return "[" + strings.Repeat("■", filled) + strings.Repeat("·", progressBarCells-filled) + "]"
}

// DrawOverlay draws the phase panel over the playfield. Playing has none.
func DrawOverlay(s *core.Screen, snap run.Snapshot) {
	lines, color := overlayLines(snap)
	if len(lines) == 0 {
		return
	}
	drawPanel(s, lines, color)
}

func overlayLines(snap run.Snapshot) ([]string, core.Color) {
	d := snap.Descriptor
	st := snap.World.State

	switch snap.Phase {
	case run.PhaseReady:
		return []string{
			fmt.Sprintf("%s TIER - LEVEL %d", strings.ToUpper(d.Tier.String()), d.Index),
			fmt.Sprintf("Collect %d runes", d.RequiredRunes),
			"ENTER or SPACE to launch",
			"hold SPACE to lift",
			"B levels  Q quit",
		}, core.ColorReady
	case run.PhasePaused:
		return []string{
			"PAUSED",
			"P resume  R restart",
			"B levels  Q quit",
		}, core.ColorPaused
	case run.PhaseFailed:
		return []string{
			"ORB SHATTERED",
			fmt.Sprintf("Score %d   %c %d/%d", st.Score, sim.RuneChar, st.Runes, d.RequiredRunes),
			"R retry  B levels",
		}, core.ColorFailed
	case run.PhaseCompleted:
		target := "Rune target met"
		bonus := 0
		if snap.Outcome != nil {
			bonus = snap.Outcome.Bonus
			if !snap.Outcome.MetTarget() {
				target = fmt.Sprintf("Rune target missed (%d/%d)", st.Runes, d.RequiredRunes)
			}
		}
		return []string{
			"LEVEL COMPLETE",
			fmt.Sprintf("Score %d (+%d bonus)", st.Score, bonus),
			target,
			"R replay  B levels",
		}, core.ColorCompleted
	}
	return nil, core.ColorDefault
}

// drawPanel draws a bordered box centered on the playfield with one
// centered line of text per row. The first line takes the accent color.
// The box is at least four cells wider than the longest line, so screen
// centered text always lands inside the border.
func drawPanel(s *core.Screen, lines []string, accent core.Color) {
	width := 0
	for _, l := range lines {
		width = core.Max(width, len([]rune(l)))
	}
	width += 4
	height := len(lines) + 2

	field := s.Height() - 1
	r := core.NewRect((s.Width()-width)/2, (field-height)/2, width, height)

	s.DrawRect(r, ' ', core.ColorDefault)
	s.DrawBox(r)
	for i, l := range lines {
		c := core.ColorDefault
		if i == 0 {
			c = accent
		}
		s.DrawTextCentered(r.Y+1+i, l, c)
	}
}
