package monster

import (
	"math"
	"time"

	"github.com/ravenstone/murpg/internal/game/clock"
)

// AI tuning. Distances are world units; the cooldown is wall-clock based so
// frame drops do not change attack pacing.
const (
	// AggroRange is the outer distance at which a monster seeks the player.
	AggroRange = 400.0
	// AttackRange is the distance at which a monster stops and attacks.
	AttackRange = 40.0
	// SeekSpeed is the movement speed in units per tick.
	SeekSpeed = 1.5
	// AttackCooldown is the minimum wall-clock time between attacks.
	AttackCooldown = 1500 * time.Millisecond
)

// Population owns the active monster collection.
type Population struct {
	monsters []*Instance
}

// NewPopulation returns an empty population.
func NewPopulation() *Population {
	return &Population{}
}

// Add inserts a live instance into the active set.
func (p *Population) Add(m *Instance) {
	p.monsters = append(p.monsters, m)
}

// All returns the active monster slice. The renderer reads this snapshot
// after each update and must not mutate it.
func (p *Population) All() []*Instance {
	return p.monsters
}

// Len returns the number of active monsters, dead or alive, prior to the
// next compaction.
func (p *Population) Len() int {
	return len(p.monsters)
}

// ByID returns the active instance with the given id.
func (p *Population) ByID(id string) (*Instance, bool) {
	for _, m := range p.monsters {
		if m.ID == id {
			return m, true
		}
	}
	return nil, false
}

// Remove drops the instance with the given id from the active set.
func (p *Population) Remove(id string) bool {
	for i, m := range p.monsters {
		if m.ID == id {
			p.monsters = append(p.monsters[:i], p.monsters[i+1:]...)
			return true
		}
	}
	return false
}

// Compact filters out dead monsters. Called at the end of every tick so a
// corpse never persists into the next tick.
func (p *Population) Compact() {
	alive := p.monsters[:0]
	for _, m := range p.monsters {
		if !m.Dead() {
			alive = append(alive, m)
		}
	}
	// Clear trailing slots so removed instances can be collected.
	for i := len(alive); i < len(p.monsters); i++ {
		p.monsters[i] = nil
	}
	p.monsters = alive
}

// Advance runs one AI tick for every living monster: seek toward the player
// when within aggro range, attack when adjacent and off cooldown. Dead
// monsters are skipped, then compacted out at the end of the tick.
//
// attack is invoked once per monster strike with the damage dealt; it must
// not re-enter Advance.
func (p *Population) Advance(playerX, playerY float64, clk clock.Clock, attack func(damage int)) {
	now := clk.Now()
	for _, m := range p.monsters {
		if m.Dead() {
			continue
		}

		dx := playerX - m.X
		dy := playerY - m.Y
		dist := math.Hypot(dx, dy)

		if dist < AggroRange && dist > AttackRange {
			m.X += dx / dist * SeekSpeed
			m.Y += dy / dist * SeekSpeed
			continue
		}

		if dist < AttackRange {
			if m.LastAttack.IsZero() || now.Sub(m.LastAttack) > AttackCooldown {
				attack(m.Damage)
				m.LastAttack = now
			}
		}
	}
	p.Compact()
}
