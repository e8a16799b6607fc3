package session

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/ravenstone/murpg/internal/game/content"
	"github.com/ravenstone/murpg/internal/game/monster"
)

// eventSpawnRadius is the distance from the player at which event monsters
// appear, evenly spaced on a ring.
const eventSpawnRadius = 300.0

// runDueEvents fires every active event whose nextSpawn timestamp has
// passed, then re-arms it one interval into the future. Caller holds g.mu.
func (g *GameState) runDueEvents() {
	now := g.clk.Now().UnixMilli()
	for _, ev := range g.content.Events() {
		if !ev.Active || ev.NextSpawn == 0 || ev.NextSpawn > now {
			continue
		}
		g.spawnEventRing(ev)
		g.content.UpdateEvent(ev.ID, func(e *content.EventTemplate) {
			e.NextSpawn = now + int64(e.Interval)*1000
		})
	}
}

// StartEvent spawns an event's monsters immediately and arms its next
// scheduled spawn.
func (g *GameState) StartEvent(id int) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	ev, ok := g.content.EventByID(id)
	if !ok {
		return false
	}
	if _, ok := g.content.MonsterByID(ev.MonsterID); !ok {
		g.addChatMessage("Monster not found!", "system")
		return false
	}

	g.spawnEventRing(ev)
	now := g.clk.Now().UnixMilli()
	g.content.UpdateEvent(ev.ID, func(e *content.EventTemplate) {
		e.Active = true
		e.NextSpawn = now + int64(e.Interval)*1000
	})
	return true
}

// spawnEventRing places the event's monsters evenly on a circle around the
// player.
func (g *GameState) spawnEventRing(ev content.EventTemplate) {
	tmpl, ok := g.content.MonsterByID(ev.MonsterID)
	if !ok {
		g.logger.Warn("event references missing monster",
			zap.String("event", ev.Name),
			zap.Int("monster_id", ev.MonsterID),
		)
		return
	}
	count := ev.Count
	if count < 1 {
		count = 1
	}
	for i := 0; i < count; i++ {
		angle := float64(i) / float64(count) * 2 * math.Pi
		x := g.player.Position.X + math.Cos(angle)*eventSpawnRadius
		y := g.player.Position.Y + math.Sin(angle)*eventSpawnRadius
		g.monsters.Add(monster.Spawn(tmpl, x, y))
	}
	g.addChatMessage(fmt.Sprintf("Event started! Spawned %d %s(s)!", count, tmpl.Name), "system")
}
