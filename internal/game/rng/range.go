package rng

import (
	"fmt"
	"strconv"
	"strings"
)

// Range is an inclusive integer interval, parsed from a "min-max" string.
//
// Invariant: Min <= Max after successful Parse.
type Range struct {
	Min int
	Max int
}

// ParseRange parses a damage range string of the form "15-25".
// A bare number ("15") is treated as a degenerate range.
//
// Precondition: s must be non-empty.
// Postcondition: Returns a Range with Min <= Max, or a descriptive error.
func ParseRange(s string) (Range, error) {
	if s == "" {
		return Range{}, fmt.Errorf("rng: empty range expression")
	}

	parts := strings.SplitN(s, "-", 2)
	min, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Range{}, fmt.Errorf("rng: invalid minimum in %q: %w", s, err)
	}

	max := min
	if len(parts) == 2 {
		max, err = strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return Range{}, fmt.Errorf("rng: invalid maximum in %q: %w", s, err)
		}
	}

	if min > max {
		return Range{}, fmt.Errorf("rng: range %q has min > max", s)
	}
	return Range{Min: min, Max: max}, nil
}

// Roll returns a uniform value in [r.Min, r.Max].
//
// Precondition: src must be non-nil; r must satisfy Min <= Max.
func (r Range) Roll(src Source) int {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + src.Intn(r.Max-r.Min+1)
}

// Add widens the range by another range's bounds.
func (r Range) Add(other Range) Range {
	return Range{Min: r.Min + other.Min, Max: r.Max + other.Max}
}

// String renders the range in "min-max" form.
func (r Range) String() string {
	return fmt.Sprintf("%d-%d", r.Min, r.Max)
}
