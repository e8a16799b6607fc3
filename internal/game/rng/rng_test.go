package rng

import (
	"testing"

	"pgregory.net/rapid"
)

// fixedSource returns scripted values for deterministic tests.
type fixedSource struct {
	ints   []int
	floats []float64
	i, f   int
}

func (s *fixedSource) Intn(n int) int {
	v := s.ints[s.i%len(s.ints)]
	s.i++
	return v % n
}

func (s *fixedSource) Float64() float64 {
	v := s.floats[s.f%len(s.floats)]
	s.f++
	return v
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		in      string
		want    Range
		wantErr bool
	}{
		{"15-25", Range{15, 25}, false},
		{"1-1", Range{1, 1}, false},
		{"7", Range{7, 7}, false},
		{" 3 - 9 ", Range{3, 9}, false},
		{"", Range{}, true},
		{"9-3", Range{}, true},
		{"a-b", Range{}, true},
	}
	for _, tt := range tests {
		got, err := ParseRange(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseRange(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseRange(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseRange(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRange_RollWithinBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		min := rapid.IntRange(0, 100).Draw(t, "min")
		max := min + rapid.IntRange(0, 100).Draw(t, "spread")
		src := NewSource(rapid.Int64().Draw(t, "seed"))
		r := Range{Min: min, Max: max}
		got := r.Roll(src)
		if got < min || got > max {
			t.Fatalf("Roll() = %d outside [%d, %d]", got, min, max)
		}
	})
}

func TestRange_Add(t *testing.T) {
	r := Range{13, 18}.Add(Range{15, 25})
	if r.Min != 28 || r.Max != 43 {
		t.Errorf("Add = %v, want 28-43", r)
	}
}

func TestPercentChance_Extremes(t *testing.T) {
	src := &fixedSource{floats: []float64{0.5}}
	if PercentChance(src, 0) {
		t.Error("0%% should never succeed")
	}
	if PercentChance(src, -5) {
		t.Error("negative chance should never succeed")
	}
	if !PercentChance(src, 100) {
		t.Error("100%% should always succeed")
	}
}

func TestPercentChance_Threshold(t *testing.T) {
	// Float64 of 0.049 → 4.9 < 5, succeeds; 0.051 → 5.1, fails.
	src := &fixedSource{floats: []float64{0.049, 0.051}}
	if !PercentChance(src, 5) {
		t.Error("roll just under threshold should succeed")
	}
	if PercentChance(src, 5) {
		t.Error("roll just over threshold should fail")
	}
}
