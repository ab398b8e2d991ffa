package level

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/orb-runner/internal/config"
)

func TestParseTier(t *testing.T) {
	tests := []struct {
		in       string
		expected Tier
	}{
		{"low", TierLow},
		{"easy", TierLow},
		{"MID", TierMid},
		{"normal", TierMid},
		{"top", TierTop},
		{" hard ", TierTop},
	}

	for _, tc := range tests {
		got, err := ParseTier(tc.in)
		if err != nil {
			t.Errorf("ParseTier(%q) failed: %v", tc.in, err)
			continue
		}
		if got != tc.expected {
			t.Errorf("ParseTier(%q) = %v, expected %v", tc.in, got, tc.expected)
		}
	}

	if _, err := ParseTier("insane"); err == nil {
		t.Error("ParseTier should reject unknown names")
	}
}

func TestTierCounts(t *testing.T) {
	tests := []struct {
		tier      Tier
		pillars   int
		fragments int
	}{
		{TierLow, 0, 1},
		{TierMid, 1, 2},
		{TierTop, 3, 3},
	}

	for _, tc := range tests {
		if got := tc.tier.PillarCount(); got != tc.pillars {
			t.Errorf("%v.PillarCount() = %d, expected %d", tc.tier, got, tc.pillars)
		}
		if got := tc.tier.FragmentCount(); got != tc.fragments {
			t.Errorf("%v.FragmentCount() = %d, expected %d", tc.tier, got, tc.fragments)
		}
	}
}

func TestDerive(t *testing.T) {
	f := config.DefaultOrbConfig().Levels

	tests := []struct {
		tier      Tier
		index     int
		runes     int
		speed     float64
		obstacles int
	}{
		{TierLow, 1, 3, 1.6, 6},
		{TierLow, 4, 4, 1.75, 9},
		{TierMid, 1, 4, 2.0, 9},
		{TierTop, 10, 8, 2.85, 21},
	}

	for _, tc := range tests {
		d := Derive(f, tc.tier, tc.index)
		if d.RequiredRunes != tc.runes {
			t.Errorf("%s: runes = %d, expected %d", d.Key(), d.RequiredRunes, tc.runes)
		}
		if math.Abs(d.ObstacleSpeed-tc.speed) > 1e-9 {
			t.Errorf("%s: speed = %f, expected %f", d.Key(), d.ObstacleSpeed, tc.speed)
		}
		if d.ObstacleCount != tc.obstacles {
			t.Errorf("%s: obstacles = %d, expected %d", d.Key(), d.ObstacleCount, tc.obstacles)
		}
		if err := d.Validate(); err != nil {
			t.Errorf("%s: derived descriptor invalid: %v", d.Key(), err)
		}
	}
}

func TestDescriptorValidate(t *testing.T) {
	valid := Descriptor{Tier: TierLow, Index: 1, RequiredRunes: 3, ObstacleSpeed: 2, ObstacleCount: 4}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid descriptor rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Descriptor)
	}{
		{"bad tier", func(d *Descriptor) { d.Tier = 7 }},
		{"zero index", func(d *Descriptor) { d.Index = 0 }},
		{"negative runes", func(d *Descriptor) { d.RequiredRunes = -1 }},
		{"zero speed", func(d *Descriptor) { d.ObstacleSpeed = 0 }},
		{"negative obstacles", func(d *Descriptor) { d.ObstacleCount = -2 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := valid
			tc.mutate(&d)
			if err := d.Validate(); !errors.Is(err, ErrInvalidDescriptor) {
				t.Errorf("Validate() = %v, expected ErrInvalidDescriptor", err)
			}
		})
	}
}

func TestFormulaSource(t *testing.T) {
	src := NewFormulaSource(config.DefaultOrbConfig().Levels)

	levels := src.Levels(TierMid)
	if len(levels) != 10 {
		t.Fatalf("expected 10 mid levels, got %d", len(levels))
	}
	for i, d := range levels {
		if d.Index != i+1 || d.Tier != TierMid {
			t.Errorf("level %d has key %s", i, d.Key())
		}
	}

	d, err := src.Lookup(TierTop, 3)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if d.Key() != "top-3" {
		t.Errorf("Lookup key = %s, expected top-3", d.Key())
	}

	if _, err := src.Lookup(TierLow, 11); !errors.Is(err, ErrUnknownLevel) {
		t.Errorf("expected ErrUnknownLevel, got %v", err)
	}
	if _, err := src.Lookup(TierLow, 0); !errors.Is(err, ErrUnknownLevel) {
		t.Errorf("expected ErrUnknownLevel for index 0, got %v", err)
	}
}

func TestParsePack(t *testing.T) {
	data := []byte(`
name: custom
levels:
  - tier: top
    index: 1
    required_runes: 6
    obstacle_speed: 3.5
    obstacle_count: 14
  - tier: easy
    index: 1
    required_runes: 2
    obstacle_speed: 1.2
    obstacle_count: 4
`)

	pack, err := ParsePack(data)
	if err != nil {
		t.Fatalf("ParsePack failed: %v", err)
	}

	if pack.Name != "custom" || len(pack.Entries) != 2 {
		t.Fatalf("unexpected pack: %+v", pack)
	}
	// Sorted by tier then index
	if pack.Entries[0].Tier != TierLow || pack.Entries[1].Tier != TierTop {
		t.Errorf("pack not sorted: %v, %v", pack.Entries[0].Key(), pack.Entries[1].Key())
	}

	if got := pack.Levels(TierTop); len(got) != 1 || got[0].ObstacleCount != 14 {
		t.Errorf("Levels(top) = %+v", got)
	}
	if _, err := pack.Lookup(TierMid, 1); !errors.Is(err, ErrUnknownLevel) {
		t.Errorf("expected ErrUnknownLevel, got %v", err)
	}
}

func TestParsePackRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad tier", "levels:\n  - tier: insane\n    index: 1\n    obstacle_speed: 1\n"},
		{"invalid descriptor", "levels:\n  - tier: low\n    index: 1\n    obstacle_speed: 0\n"},
		{"duplicate", "levels:\n  - {tier: low, index: 1, obstacle_speed: 1}\n  - {tier: low, index: 1, obstacle_speed: 2}\n"},
		{"gap in tier", "levels:\n  - {tier: low, index: 1, obstacle_speed: 1}\n  - {tier: low, index: 3, obstacle_speed: 2}\n"},
		{"tier not starting at 1", "levels:\n  - {tier: mid, index: 2, obstacle_speed: 1}\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParsePack([]byte(tc.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParsePackRejectsIndexGap(t *testing.T) {
	data := []byte("levels:\n  - {tier: low, index: 1, obstacle_speed: 1}\n  - {tier: low, index: 3, obstacle_speed: 2}\n  - {tier: top, index: 1, obstacle_speed: 3}\n")

	_, err := ParsePack(data)
	if !errors.Is(err, ErrInvalidDescriptor) {
		t.Fatalf("expected ErrInvalidDescriptor, got %v", err)
	}
	if !strings.Contains(err.Error(), "low-3") {
		t.Errorf("error should name the orphaned level: %v", err)
	}
}

func TestPackEncodeRoundTrip(t *testing.T) {
	src := NewFormulaSource(config.DefaultOrbConfig().Levels)
	pack := &Pack{Name: "formula", Entries: src.Levels(TierLow)}

	data, err := pack.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "pack.yaml")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadPack(path)
	if err != nil {
		t.Fatalf("LoadPack failed: %v", err)
	}
	if len(loaded.Entries) != len(pack.Entries) {
		t.Fatalf("expected %d levels, got %d", len(pack.Entries), len(loaded.Entries))
	}
	if loaded.Entries[4] != pack.Entries[4] {
		t.Errorf("level 5 changed across encode: %+v vs %+v", loaded.Entries[4], pack.Entries[4])
	}
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		key     string
		tier    Tier
		index   int
		wantErr bool
	}{
		{"low-1", TierLow, 1, false},
		{"mid-10", TierMid, 10, false},
		{"hard-2", TierTop, 2, false},
		{"top", 0, 0, true},
		{"top-0", 0, 0, true},
		{"side-1", 0, 0, true},
		{"low-x", 0, 0, true},
	}

	for _, tc := range tests {
		tier, index, err := ParseKey(tc.key)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseKey(%q) expected error", tc.key)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseKey(%q) unexpected error: %v", tc.key, err)
			continue
		}
		if tier != tc.tier || index != tc.index {
			t.Errorf("ParseKey(%q) = %v, %d", tc.key, tier, index)
		}
	}
}
