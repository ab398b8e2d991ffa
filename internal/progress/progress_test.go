package progress

import (
	"errors"
	"sync"
	"testing"

	"github.com/vovakirdan/orb-runner/internal/level"
)

func TestMergePositiveDelta(t *testing.T) {
	prev := LevelBest{Key: "low-1", Best: Counts{Runes: 5, Crystals: 1, Fragments: 0}, BestScore: 200, Completions: 1}

	next, delta := Merge(prev, Counts{Runes: 3, Crystals: 2, Fragments: 1}, 150)

	if delta != (Counts{Runes: 0, Crystals: 1, Fragments: 1}) {
		t.Errorf("delta = %+v, expected {0 1 1}", delta)
	}
	if next.Best != (Counts{Runes: 5, Crystals: 2, Fragments: 1}) {
		t.Errorf("best = %+v, expected {5 2 1}", next.Best)
	}
	if next.BestScore != 200 {
		t.Errorf("best score = %d, expected 200", next.BestScore)
	}
	if next.Completions != 2 {
		t.Errorf("completions = %d, expected 2", next.Completions)
	}
}

func TestRecompletionWithFewerRunes(t *testing.T) {
	store := NewMemoryStore()
	desc := level.Descriptor{Tier: level.TierLow, Index: 2, RequiredRunes: 3, ObstacleSpeed: 2, ObstacleCount: 6}

	if err := store.CompleteLevel(desc, 5, 0, 0, 100); err != nil {
		t.Fatal(err)
	}
	before := store.Totals().Items.Runes

	if err := store.CompleteLevel(desc, 3, 0, 0, 80); err != nil {
		t.Fatal(err)
	}

	if got := store.Totals().Items.Runes - before; got != 0 {
		t.Errorf("lifetime runes grew by %d, expected 0", got)
	}
	if best := store.LevelBests()[desc.Key()].Best.Runes; best != 5 {
		t.Errorf("level best runes = %d, expected 5", best)
	}
	if c := store.Totals().Completions; c != 2 {
		t.Errorf("completions = %d, expected 2", c)
	}
}

func TestMemoryStoreAttempts(t *testing.T) {
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.RecordAttempt()
		}()
	}
	wg.Wait()

	if got := store.Totals().Attempts; got != 20 {
		t.Errorf("attempts = %d, expected 20", got)
	}
}

func TestUpgradeFor(t *testing.T) {
	tests := []struct {
		counts   Counts
		expected Upgrade
	}{
		{Counts{}, UpgradeSpark},
		{Counts{Runes: 49}, UpgradeSpark},
		{Counts{Runes: 50}, UpgradeGlow},
		{Counts{Runes: 10, Crystals: 20, Fragments: 30}, UpgradeGlow},    // 140 points
		{Counts{Runes: 10, Crystals: 25, Fragments: 30}, UpgradeRadiant}, // 150 points
		{Counts{Crystals: 200}, UpgradeStellar},
	}

	for _, tc := range tests {
		if got := UpgradeFor(tc.counts); got != tc.expected {
			t.Errorf("UpgradeFor(%+v) = %v (points %d), expected %v", tc.counts, got, tc.counts.Points(), tc.expected)
		}
	}
}

func TestNextUpgrade(t *testing.T) {
	next, missing := NextUpgrade(Counts{Runes: 45})
	if next != UpgradeGlow || missing != 5 {
		t.Errorf("NextUpgrade(45 pts) = %v, %d; expected Glow, 5", next, missing)
	}

	next, missing = NextUpgrade(Counts{Fragments: 200})
	if next != UpgradeStellar || missing != 0 {
		t.Errorf("NextUpgrade(600 pts) = %v, %d; expected Stellar, 0", next, missing)
	}
}

func TestUnlocked(t *testing.T) {
	bests := map[string]LevelBest{
		"mid-1": {Key: "mid-1", Completions: 1},
	}

	tests := []struct {
		desc     level.Descriptor
		expected bool
	}{
		{level.Descriptor{Tier: level.TierTop, Index: 1}, true},
		{level.Descriptor{Tier: level.TierMid, Index: 2}, true},
		{level.Descriptor{Tier: level.TierMid, Index: 3}, false},
		{level.Descriptor{Tier: level.TierLow, Index: 2}, false},
	}

	for _, tc := range tests {
		if got := Unlocked(bests, tc.desc); got != tc.expected {
			t.Errorf("Unlocked(%s) = %v, expected %v", tc.desc.Key(), got, tc.expected)
		}
	}
}

func TestCheckUnlocked(t *testing.T) {
	bests := map[string]LevelBest{"mid-1": {Key: "mid-1", Completions: 1}}

	if err := CheckUnlocked(bests, level.Descriptor{Tier: level.TierMid, Index: 2}); err != nil {
		t.Errorf("mid-2 should be open: %v", err)
	}

	err := CheckUnlocked(bests, level.Descriptor{Tier: level.TierTop, Index: 9})
	if !errors.Is(err, ErrLocked) {
		t.Fatalf("top-9 error = %v, expected ErrLocked", err)
	}
	if err.Error() != "top-9 is locked: complete top-8 first" {
		t.Errorf("message = %q", err.Error())
	}
}
