package tui

import (
	"strings"
	"testing"

	"github.com/vovakirdan/orb-runner/internal/core"
	"github.com/vovakirdan/orb-runner/internal/level"
	"github.com/vovakirdan/orb-runner/internal/run"
)

func testSnapshot(phase run.Phase) run.Snapshot {
	snap := run.Snapshot{
		Phase:      phase,
		Descriptor: level.Descriptor{Tier: level.TierMid, Index: 2, RequiredRunes: 4, ObstacleSpeed: 2, ObstacleCount: 9},
		Viewport:   core.ViewportForScreen(80, 25),
	}
	snap.World.State.Progress = 0.42
	snap.World.State.Runes = 2
	snap.World.State.Crystals = 1
	snap.World.State.Score = 40
	return snap
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		p        float64
		expected string
	}{
		{0, "[··········]"},
		{0.42, "[■■■■······]"},
		{1, "[■■■■■■■■■■]"},
		{1.5, "[■■■■■■■■■■]"},
	}
	for _, tc := range tests {
		if got := progressBar(tc.p); got != tc.expected {
			t.Errorf("progressBar(%v) = %q, expected %q", tc.p, got, tc.expected)
		}
	}
}

func TestDrawHUD(t *testing.T) {
	s := core.NewScreen(80, 25)
	DrawHUD(s, testSnapshot(run.PhasePlaying))

	rows := strings.Split(s.String(), "\n")
	row := rows[24]
	for _, want := range []string{"MID-2", "[■■■■······]", "42%", "2/4", "Score 40"} {
		if !strings.Contains(row, want) {
			t.Errorf("HUD %q missing %q", row, want)
		}
	}
	if strings.TrimSpace(rows[23]) != "" {
		t.Error("HUD drew above the bottom row")
	}
}

func TestDrawOverlay(t *testing.T) {
	tests := []struct {
		phase run.Phase
		want  string
	}{
		{run.PhaseReady, "MID TIER - LEVEL 2"},
		{run.PhasePaused, "PAUSED"},
		{run.PhaseFailed, "ORB SHATTERED"},
		{run.PhaseCompleted, "LEVEL COMPLETE"},
	}

	for _, tc := range tests {
		s := core.NewScreen(80, 25)
		DrawOverlay(s, testSnapshot(tc.phase))
		if !strings.Contains(s.String(), tc.want) {
			t.Errorf("%v overlay missing %q", tc.phase, tc.want)
		}
	}

	s := core.NewScreen(80, 25)
	DrawOverlay(s, testSnapshot(run.PhasePlaying))
	if strings.TrimSpace(s.String()) != "" {
		t.Error("Playing should draw no overlay")
	}
}

func TestCompletedOverlayTarget(t *testing.T) {
	snap := testSnapshot(run.PhaseCompleted)
	snap.Outcome = &run.Outcome{Kind: run.OutcomeCompleted, Descriptor: snap.Descriptor, Runes: 2, Bonus: 40}

	lines, _ := overlayLines(snap)
	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, "+40 bonus") {
		t.Errorf("missing bonus in %q", joined)
	}
	if !strings.Contains(joined, "missed (2/4)") {
		t.Errorf("missing target miss in %q", joined)
	}

	snap.Outcome.Runes = 4
	lines, _ = overlayLines(snap)
	if !strings.Contains(strings.Join(lines, "\n"), "target met") {
		t.Errorf("expected target met, got %q", lines)
	}
}

func TestOverlayTextCenteredInsidePanel(t *testing.T) {
	for _, phase := range []run.Phase{run.PhaseReady, run.PhasePaused, run.PhaseFailed, run.PhaseCompleted} {
		s := core.NewScreen(80, 25)
		snap := testSnapshot(phase)
		DrawOverlay(s, snap)
		lines, accent := overlayLines(snap)
		rows := strings.Split(s.String(), "\n")

		for i, l := range lines {
			y := -1
			for ry, r := range rows {
				if strings.Contains(r, l) {
					y = ry
					break
				}
			}
			if y < 0 {
				t.Fatalf("%v: line %q not drawn", phase, l)
			}

			runes := []rune(rows[y])
			start := (80 - len([]rune(l))) / 2
			if string(runes[start:start+len([]rune(l))]) != l {
				t.Errorf("%v: %q not centered on row %d: %q", phase, l, y, rows[y])
			}
			left, right := -1, -1
			for x, r := range runes {
				if r == '│' {
					if left < 0 {
						left = x
					}
					right = x
				}
			}
			if left < 0 || right <= left {
				t.Fatalf("%v: row %d has no panel border: %q", phase, y, rows[y])
			}
			if left >= start || right < start+len([]rune(l)) {
				t.Errorf("%v: %q escapes the panel border on row %d", phase, l, y)
			}

			want := core.ColorDefault
			if i == 0 {
				want = accent
			}
			if got := s.GetCell(start, y).Color; got != want {
				t.Errorf("%v: line %d color = %v, expected %v", phase, i, got, want)
			}
		}
	}
}
