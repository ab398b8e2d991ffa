// Package config provides YAML-based tuning for the orb runner: physics
// constants, corridor layout, player hitbox, scoring and the level formula.
package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned by Validate for unusable tuning values.
var ErrInvalidConfig = errors.New("config: invalid value")

// OrbConfig contains all tuning for a run.
type OrbConfig struct {
	TickRate int          `yaml:"tick_rate"`
	Physics  OrbPhysics   `yaml:"physics"`
	Corridor OrbCorridor  `yaml:"corridor"`
	Player   OrbPlayer    `yaml:"player"`
	Items    OrbItems     `yaml:"items"`
	Scoring  OrbScoring   `yaml:"scoring"`
	Levels   LevelFormula `yaml:"levels"`
}

// OrbPhysics defines the vertical physics and scroll parameters.
type OrbPhysics struct {
	Gravity          float64 `yaml:"gravity"`           // Downward acceleration per tick
	LiftForce        float64 `yaml:"lift_force"`        // Acceleration while lifting (negative = up)
	MaxVelocity      float64 `yaml:"max_velocity"`      // Symmetric velocity clamp
	ScrollMultiplier float64 `yaml:"scroll_multiplier"` // Scroll per tick = obstacle speed * multiplier
	RotationStep     float64 `yaml:"rotation_step"`     // Degrees per tick for rotating pillars
}

// OrbCorridor defines the corridor and obstacle layout.
type OrbCorridor struct {
	Length            float64 `yaml:"length"`
	StartOffset       float64 `yaml:"start_offset"`
	SafeBandRatio     float64 `yaml:"safe_band_ratio"`
	MinSafeHalf       float64 `yaml:"min_safe_half"`
	PillarSize        float64 `yaml:"pillar_size"`
	PillarSpeedFactor float64 `yaml:"pillar_speed_factor"`
}

// OrbPlayer defines the player anchor and hitbox.
type OrbPlayer struct {
	AnchorX      float64 `yaml:"anchor_x"`      // Fixed horizontal screen position
	Size         float64 `yaml:"size"`          // Visual diameter
	HitboxMargin float64 `yaml:"hitbox_margin"` // Subtracted from the visual radius
	WallMargin   float64 `yaml:"wall_margin"`   // Distance kept from top/bottom edges
}

// OrbItems defines collectible placement and pickup.
type OrbItems struct {
	PickupRadius float64 `yaml:"pickup_radius"`
	BandRatio    float64 `yaml:"band_ratio"`    // Vertical band as a fraction of viewport height
	FragmentBand float64 `yaml:"fragment_band"` // Fragment band relative to the rune/crystal band
}

// OrbScoring defines per-item score and the completion bonus.
type OrbScoring struct {
	PerItem         int `yaml:"per_item"`
	RuneWeight      int `yaml:"rune_weight"`
	CrystalWeight   int `yaml:"crystal_weight"`
	FragmentWeight  int `yaml:"fragment_weight"`
	BonusMultiplier int `yaml:"bonus_multiplier"`
}

// LevelFormula holds the coefficients that derive a level descriptor from
// (tier, index). Index is 1-based.
type LevelFormula struct {
	LevelsPerTier  int     `yaml:"levels_per_tier"`
	BaseSpeed      float64 `yaml:"base_speed"`
	TierSpeed      float64 `yaml:"tier_speed"`
	LevelSpeed     float64 `yaml:"level_speed"`
	BaseObstacles  int     `yaml:"base_obstacles"`
	TierObstacles  int     `yaml:"tier_obstacles"`
	LevelObstacles int     `yaml:"level_obstacles"`
	BaseRunes      int     `yaml:"base_runes"`
	TierRunes      int     `yaml:"tier_runes"`
	RunesEvery     int     `yaml:"runes_every"`
}

// PlayerRadius returns the radius of the circular player hitbox.
func (c OrbConfig) PlayerRadius() float64 {
	return c.Player.Size/2 - c.Player.HitboxMargin
}

// CompletionBonus returns the score added when a run completes.
func (c OrbConfig) CompletionBonus(runes, crystals, fragments int) int {
	s := c.Scoring
	weighted := runes*s.RuneWeight + crystals*s.CrystalWeight + fragments*s.FragmentWeight
	return weighted * s.BonusMultiplier
}

// Validate checks that the tuning can drive a run.
func (c OrbConfig) Validate() error {
	switch {
	case c.TickRate <= 0:
		return fmt.Errorf("%w: tick_rate must be positive, got %d", ErrInvalidConfig, c.TickRate)
	case c.Physics.MaxVelocity <= 0:
		return fmt.Errorf("%w: physics.max_velocity must be positive", ErrInvalidConfig)
	case c.Physics.ScrollMultiplier <= 0:
		return fmt.Errorf("%w: physics.scroll_multiplier must be positive", ErrInvalidConfig)
	case c.Corridor.Length <= 0:
		return fmt.Errorf("%w: corridor.length must be positive", ErrInvalidConfig)
	case c.PlayerRadius() <= 0:
		return fmt.Errorf("%w: player.size/2 must exceed player.hitbox_margin", ErrInvalidConfig)
	case c.Items.PickupRadius <= 0:
		return fmt.Errorf("%w: items.pickup_radius must be positive", ErrInvalidConfig)
	case c.Levels.LevelsPerTier <= 0:
		return fmt.Errorf("%w: levels.levels_per_tier must be positive", ErrInvalidConfig)
	case c.Levels.RunesEvery <= 0:
		return fmt.Errorf("%w: levels.runes_every must be positive", ErrInvalidConfig)
	}
	return nil
}
