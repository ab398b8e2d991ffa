// Package progress holds the bookkeeping behind the progress store: per-level
// bests, lifetime totals, reward upgrade tiers and level unlocks.
//
// Lifetime totals only ever grow by the positive delta above a level's
// previous best, so replaying a level for fewer items never takes anything
// away.
package progress

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/orb-runner/internal/level"
)

// ErrLocked is returned for levels whose predecessor is not completed yet.
var ErrLocked = errors.New("locked")

// Counts is a rune/crystal/fragment triple.
type Counts struct {
	Runes     int
	Crystals  int
	Fragments int
}

// Add returns the component-wise sum.
func (c Counts) Add(o Counts) Counts {
	return Counts{
		Runes:     c.Runes + o.Runes,
		Crystals:  c.Crystals + o.Crystals,
		Fragments: c.Fragments + o.Fragments,
	}
}

// Points weighs the counts for upgrade tiers: runes 1, crystals 2, fragments 3.
func (c Counts) Points() int {
	return c.Runes + 2*c.Crystals + 3*c.Fragments
}

// LevelBest is the best result recorded for one level.
type LevelBest struct {
	Key         string // level.Descriptor.Key()
	Best        Counts
	BestScore   int
	Completions int
}

// Totals are lifetime aggregates.
type Totals struct {
	Attempts    int
	Completions int
	Items       Counts
}

// Merge folds a completed run into a level's best. It returns the new best
// and the positive delta to add to lifetime totals.
func Merge(prev LevelBest, run Counts, score int) (LevelBest, Counts) {
	delta := Counts{
		Runes:     positive(run.Runes - prev.Best.Runes),
		Crystals:  positive(run.Crystals - prev.Best.Crystals),
		Fragments: positive(run.Fragments - prev.Best.Fragments),
	}

	next := prev
	next.Best = prev.Best.Add(delta)
	if score > next.BestScore {
		next.BestScore = score
	}
	next.Completions++
	return next, delta
}

func positive(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// Upgrade is the orb's visual reward tier.
type Upgrade int

const (
	UpgradeSpark Upgrade = iota
	UpgradeGlow
	UpgradeRadiant
	UpgradeStellar
)

// upgradeThresholds are the minimum points for each tier above Spark.
var upgradeThresholds = []struct {
	tier   Upgrade
	points int
}{
	{UpgradeStellar, 400},
	{UpgradeRadiant, 150},
	{UpgradeGlow, 50},
}

// String returns the tier name.
func (u Upgrade) String() string {
	switch u {
	case UpgradeSpark:
		return "Spark"
	case UpgradeGlow:
		return "Glow"
	case UpgradeRadiant:
		return "Radiant"
	case UpgradeStellar:
		return "Stellar"
	default:
		return fmt.Sprintf("upgrade(%d)", int(u))
	}
}

// UpgradeFor returns the upgrade tier earned by lifetime item totals.
func UpgradeFor(c Counts) Upgrade {
	p := c.Points()
	for _, th := range upgradeThresholds {
		if p >= th.points {
			return th.tier
		}
	}
	return UpgradeSpark
}

// NextUpgrade returns the next tier and the points still missing.
// At the top tier it returns UpgradeStellar and 0.
func NextUpgrade(c Counts) (Upgrade, int) {
	p := c.Points()
	for i := len(upgradeThresholds) - 1; i >= 0; i-- {
		th := upgradeThresholds[i]
		if p < th.points {
			return th.tier, th.points - p
		}
	}
	return UpgradeStellar, 0
}

// Unlocked reports whether desc may be played. The first level of every tier
// is open; later levels need the previous level of the same tier completed.
func Unlocked(bests map[string]LevelBest, desc level.Descriptor) bool {
	if desc.Index <= 1 {
		return true
	}
	prev := level.Descriptor{Tier: desc.Tier, Index: desc.Index - 1}
	return bests[prev.Key()].Completions > 0
}

// CheckUnlocked returns an error wrapping ErrLocked that names the level to
// complete first, or nil when desc may be played.
func CheckUnlocked(bests map[string]LevelBest, desc level.Descriptor) error {
	if Unlocked(bests, desc) {
		return nil
	}
	prev := level.Descriptor{Tier: desc.Tier, Index: desc.Index - 1}
	return fmt.Errorf("%s is %w: complete %s first", desc.Key(), ErrLocked, prev.Key())
}
