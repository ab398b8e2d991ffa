package sim

import (
	"math"
	"sort"

	"github.com/vovakirdan/orb-runner/internal/config"
	"github.com/vovakirdan/orb-runner/internal/level"
)

// placement pairs give each collectible kind its own index pattern so the
// three kinds do not line up.
type placement struct {
	mul, off int
}

var placements = map[Kind]placement{
	KindRune:     {mul: 7, off: 3},
	KindCrystal:  {mul: 11, off: 5},
	KindFragment: {mul: 13, off: 9},
}

// Generate builds the world for a level. It has no entropy source: the same
// descriptor, viewport height and tuning always produce the same world.
func Generate(desc level.Descriptor, viewportHeight float64, cfg config.OrbConfig) World {
	return World{
		Obstacles:    generateObstacles(desc, viewportHeight, cfg.Corridor),
		Collectibles: generateCollectibles(desc, viewportHeight, cfg),
	}
}

func generateObstacles(desc level.Descriptor, viewportHeight float64, c config.OrbCorridor) []Obstacle {
	count := desc.ObstacleCount
	if count < 0 {
		count = 0
	}
	spacing := c.Length / float64(count+1)
	safeHalf := math.Max(viewportHeight*c.SafeBandRatio, c.MinSafeHalf)

	pillars := desc.Tier.PillarCount()
	obstacles := make([]Obstacle, 0, count+pillars)

	for i := 0; i < count; i++ {
		h := float64(80 + (i*17)%120)
		w := float64(15 + (i*7)%10)

		// Even barriers hang above the centerline, odd ones sit below
		offset := safeHalf - h/2
		if i%2 == 0 {
			offset = -offset
		}

		obstacles = append(obstacles, Obstacle{
			X:           c.StartOffset + spacing*float64(i+1),
			Offset:      offset,
			Width:       w,
			Height:      h,
			SpeedFactor: 1,
		})
	}

	// Pillars are phase-shifted by a third of the barrier spacing so they
	// never share an X with a barrier.
	for j := 0; j < pillars; j++ {
		obstacles = append(obstacles, Obstacle{
			X:           c.StartOffset + c.Length*float64(j+1)/float64(pillars+1) + spacing/3,
			Width:       c.PillarSize,
			Height:      c.PillarSize,
			Rotating:    true,
			Rotation:    math.Mod(float64(j*45), 360),
			SpeedFactor: c.PillarSpeedFactor,
		})
	}

	sort.SliceStable(obstacles, func(a, b int) bool {
		return obstacles[a].X < obstacles[b].X
	})
	return obstacles
}

func generateCollectibles(desc level.Descriptor, viewportHeight float64, cfg config.OrbConfig) []Collectible {
	band := viewportHeight * cfg.Items.BandRatio
	counts := []struct {
		kind Kind
		n    int
		band float64
	}{
		{KindRune, desc.RequiredRunes + 2, band},
		{KindCrystal, 2 + desc.Index, band},
		{KindFragment, desc.Tier.FragmentCount(), band * cfg.Items.FragmentBand},
	}

	var items []Collectible
	for _, k := range counts {
		items = append(items, placeKind(k.kind, k.n, k.band, cfg.Corridor)...)
	}
	return items
}

// placeKind spreads n collectibles of one kind evenly along the corridor with
// a deterministic jitter in both axes.
func placeKind(kind Kind, n int, band float64, c config.OrbCorridor) []Collectible {
	if n <= 0 {
		return nil
	}
	p := placements[kind]
	spacing := c.Length / float64(n+1)

	items := make([]Collectible, 0, n)
	for i := 0; i < n; i++ {
		seq := i*p.mul + p.off
		jx := float64(seq%17)/16 - 0.5 // [-0.5, 0.5]
		jy := float64(seq%23)/22*2 - 1  // [-1, 1]

		items = append(items, Collectible{
			X:      c.StartOffset + spacing*(float64(i+1)+0.4*jx),
			Offset: jy * band,
			Kind:   kind,
		})
	}
	return items
}
