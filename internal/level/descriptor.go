// Package level defines level descriptors and the sources that supply them.
// The simulation only consumes descriptors; it never creates or mutates them.
package level

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vovakirdan/orb-runner/internal/config"
)

// Sentinel errors for descriptor lookup and validation.
var (
	ErrUnknownLevel      = errors.New("level: unknown level")
	ErrInvalidDescriptor = errors.New("level: invalid descriptor")
)

// Tier is a difficulty tier.
type Tier int

const (
	TierLow Tier = iota
	TierMid
	TierTop
)

// Tiers lists every tier in ascending difficulty.
var Tiers = []Tier{TierLow, TierMid, TierTop}

// String returns the tier name used on the command line and in storage.
func (t Tier) String() string {
	switch t {
	case TierLow:
		return "low"
	case TierMid:
		return "mid"
	case TierTop:
		return "top"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// Valid reports whether t is one of the known tiers.
func (t Tier) Valid() bool {
	return t >= TierLow && t <= TierTop
}

// PillarCount returns how many rotating pillars a level of this tier gets.
func (t Tier) PillarCount() int {
	switch t {
	case TierMid:
		return 1
	case TierTop:
		return 3
	default:
		return 0
	}
}

// FragmentCount returns how many fragments a level of this tier places.
func (t Tier) FragmentCount() int {
	switch t {
	case TierMid:
		return 2
	case TierTop:
		return 3
	default:
		return 1
	}
}

// ParseTier accepts tier names and the difficulty preset aliases.
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "easy":
		return TierLow, nil
	case "mid", "normal", "medium":
		return TierMid, nil
	case "top", "hard":
		return TierTop, nil
	default:
		return 0, fmt.Errorf("level: unknown tier %q (want low, mid or top)", s)
	}
}

// ParseKey parses a level key such as "mid-3" into its tier and index.
func ParseKey(key string) (Tier, int, error) {
	name, num, ok := strings.Cut(key, "-")
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q (want tier-index, e.g. low-1)", ErrUnknownLevel, key)
	}
	tier, err := ParseTier(name)
	if err != nil {
		return 0, 0, err
	}
	index, err := strconv.Atoi(num)
	if err != nil || index < 1 {
		return 0, 0, fmt.Errorf("%w: bad index in %q", ErrUnknownLevel, key)
	}
	return tier, index, nil
}

// MarshalYAML encodes the tier by name.
func (t Tier) MarshalYAML() (any, error) {
	return t.String(), nil
}

// UnmarshalYAML decodes a tier by name.
func (t *Tier) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseTier(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Descriptor holds the immutable parameters of one level.
type Descriptor struct {
	Tier          Tier    `yaml:"tier"`
	Index         int     `yaml:"index"` // 1-based within the tier
	RequiredRunes int     `yaml:"required_runes"`
	ObstacleSpeed float64 `yaml:"obstacle_speed"`
	ObstacleCount int     `yaml:"obstacle_count"`
}

// Key returns a stable identifier such as "mid-3".
func (d Descriptor) Key() string {
	return fmt.Sprintf("%s-%d", d.Tier, d.Index)
}

// String returns a human-readable label.
func (d Descriptor) String() string {
	return fmt.Sprintf("%s tier, level %d", d.Tier, d.Index)
}

// Validate checks the descriptor at input boundaries (flags, level packs).
func (d Descriptor) Validate() error {
	switch {
	case !d.Tier.Valid():
		return fmt.Errorf("%w: tier %d", ErrInvalidDescriptor, int(d.Tier))
	case d.Index < 1:
		return fmt.Errorf("%w: index must be >= 1, got %d", ErrInvalidDescriptor, d.Index)
	case d.RequiredRunes < 0:
		return fmt.Errorf("%w: required runes must be >= 0, got %d", ErrInvalidDescriptor, d.RequiredRunes)
	case d.ObstacleSpeed <= 0:
		return fmt.Errorf("%w: obstacle speed must be positive, got %g", ErrInvalidDescriptor, d.ObstacleSpeed)
	case d.ObstacleCount < 0:
		return fmt.Errorf("%w: obstacle count must be >= 0, got %d", ErrInvalidDescriptor, d.ObstacleCount)
	}
	return nil
}

// Derive computes the descriptor for (tier, index) from the formula.
func Derive(f config.LevelFormula, tier Tier, index int) Descriptor {
	t := int(tier)
	step := index - 1
	every := f.RunesEvery
	if every <= 0 {
		every = 1
	}
	return Descriptor{
		Tier:          tier,
		Index:         index,
		RequiredRunes: f.BaseRunes + f.TierRunes*t + step/every,
		ObstacleSpeed: f.BaseSpeed + f.TierSpeed*float64(t) + f.LevelSpeed*float64(step),
		ObstacleCount: f.BaseObstacles + f.TierObstacles*t + f.LevelObstacles*step,
	}
}
