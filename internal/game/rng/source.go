// Package rng provides the injectable random source used by combat and loot
// rolls, plus parsing for "min-max" damage range strings.
package rng

import (
	"math/rand"
	"sync"
	"time"
)

// Source produces the random values the game consumes. Injecting it keeps
// combat resolution deterministic under test.
type Source interface {
	// Intn returns a uniform int in [0, n). n must be > 0.
	Intn(n int) int
	// Float64 returns a uniform float64 in [0.0, 1.0).
	Float64() float64
}

// lockedSource wraps math/rand behind a mutex so a single Source can be
// shared by the update loop and input handlers.
type lockedSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewSource returns a Source seeded with seed; seed 0 uses the current time.
func NewSource(seed int64) Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &lockedSource{r: rand.New(rand.NewSource(seed))}
}

func (s *lockedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Intn(n)
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}

// PercentChance rolls a percentage check: true with probability pct/100.
// Values <= 0 never succeed; values >= 100 always succeed.
func PercentChance(src Source, pct float64) bool {
	if pct <= 0 {
		return false
	}
	if pct >= 100 {
		return true
	}
	return src.Float64()*100 < pct
}
