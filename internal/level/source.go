package level

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/orb-runner/internal/config"
)

// Source supplies level descriptors.
type Source interface {
	// Levels returns the descriptors of a tier, sorted by index.
	Levels(tier Tier) []Descriptor

	// Lookup returns the descriptor for (tier, index).
	Lookup(tier Tier, index int) (Descriptor, error)
}

// FormulaSource derives every level from a LevelFormula.
type FormulaSource struct {
	formula config.LevelFormula
}

// NewFormulaSource creates a source backed by the given coefficients.
func NewFormulaSource(f config.LevelFormula) *FormulaSource {
	return &FormulaSource{formula: f}
}

// Levels returns all levels of the tier.
func (s *FormulaSource) Levels(tier Tier) []Descriptor {
	if !tier.Valid() {
		return nil
	}
	out := make([]Descriptor, 0, s.formula.LevelsPerTier)
	for i := 1; i <= s.formula.LevelsPerTier; i++ {
		out = append(out, Derive(s.formula, tier, i))
	}
	return out
}

// Lookup returns the derived descriptor, or ErrUnknownLevel when out of range.
func (s *FormulaSource) Lookup(tier Tier, index int) (Descriptor, error) {
	if !tier.Valid() || index < 1 || index > s.formula.LevelsPerTier {
		return Descriptor{}, fmt.Errorf("%w: %s-%d", ErrUnknownLevel, tier, index)
	}
	return Derive(s.formula, tier, index), nil
}

// Pack is a fixed list of descriptors, usually loaded from a YAML file.
type Pack struct {
	Name    string       `yaml:"name"`
	Entries []Descriptor `yaml:"levels"`
}

// LoadPack reads and validates a YAML level pack.
func LoadPack(path string) (*Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading level pack %s: %w", path, err)
	}
	pack, err := ParsePack(data)
	if err != nil {
		return nil, fmt.Errorf("parsing level pack %s: %w", path, err)
	}
	return pack, nil
}

// ParsePack decodes a YAML level pack. Duplicate (tier, index) pairs,
// invalid descriptors and gaps in a tier's numbering are rejected.
func ParsePack(data []byte) (*Pack, error) {
	var p Pack
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}

	seen := make(map[string]bool, len(p.Entries))
	for _, d := range p.Entries {
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("level %s: %w", d.Key(), err)
		}
		if seen[d.Key()] {
			return nil, fmt.Errorf("%w: duplicate level %s", ErrInvalidDescriptor, d.Key())
		}
		seen[d.Key()] = true
	}

	// Sort for deterministic ordering
	sort.Slice(p.Entries, func(i, j int) bool {
		if p.Entries[i].Tier != p.Entries[j].Tier {
			return p.Entries[i].Tier < p.Entries[j].Tier
		}
		return p.Entries[i].Index < p.Entries[j].Index
	})

	// Unlocks walk index-1, so every tier must number its levels 1..n
	next := map[Tier]int{}
	for _, d := range p.Entries {
		next[d.Tier]++
		if d.Index != next[d.Tier] {
			return nil, fmt.Errorf("%w: level %s follows %s-%d, tier indices must run 1, 2, 3, ...",
				ErrInvalidDescriptor, d.Key(), d.Tier, next[d.Tier]-1)
		}
	}
	return &p, nil
}

// Levels returns the pack's levels for the tier.
func (p *Pack) Levels(tier Tier) []Descriptor {
	var out []Descriptor
	for _, d := range p.Entries {
		if d.Tier == tier {
			out = append(out, d)
		}
	}
	return out
}

// Lookup finds a level in the pack.
func (p *Pack) Lookup(tier Tier, index int) (Descriptor, error) {
	for _, d := range p.Entries {
		if d.Tier == tier && d.Index == index {
			return d, nil
		}
	}
	return Descriptor{}, fmt.Errorf("%w: %s-%d", ErrUnknownLevel, tier, index)
}

// Encode renders the pack as YAML.
func (p *Pack) Encode() ([]byte, error) {
	return yaml.Marshal(p)
}

var (
	_ Source = (*FormulaSource)(nil)
	_ Source = (*Pack)(nil)
)
