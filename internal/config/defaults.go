package config

import (
	_ "embed"
)

//go:embed defaults/orb.yaml
var defaultOrbYAML []byte

// DefaultOrbConfig returns the built-in tuning.
// It mirrors defaults/orb.yaml and is used when the embedded file cannot be parsed.
func DefaultOrbConfig() OrbConfig {
	return OrbConfig{
		TickRate: 60,
		Physics: OrbPhysics{
			Gravity:          0.5,
			LiftForce:        -0.8,
			MaxVelocity:      8,
			ScrollMultiplier: 1.5,
			RotationStep:     2,
		},
		Corridor: OrbCorridor{
			Length:            3000,
			StartOffset:       200,
			SafeBandRatio:     0.3,
			MinSafeHalf:       100,
			PillarSize:        56,
			PillarSpeedFactor: 1.5,
		},
		Player: OrbPlayer{
			AnchorX:      120,
			Size:         40,
			HitboxMargin: 8,
			WallMargin:   20,
		},
		Items: OrbItems{
			PickupRadius: 20,
			BandRatio:    0.3,
			FragmentBand: 0.8,
		},
		Scoring: OrbScoring{
			PerItem:         10,
			RuneWeight:      1,
			CrystalWeight:   2,
			FragmentWeight:  3,
			BonusMultiplier: 10,
		},
		Levels: LevelFormula{
			LevelsPerTier:  10,
			BaseSpeed:      1.6,
			TierSpeed:      0.4,
			LevelSpeed:     0.05,
			BaseObstacles:  6,
			TierObstacles:  3,
			LevelObstacles: 1,
			BaseRunes:      3,
			TierRunes:      1,
			RunesEvery:     3,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultOrbYAML
}
