package monster

import (
	"github.com/ravenstone/murpg/internal/game/content"
	"github.com/ravenstone/murpg/internal/game/rng"
)

// RollLoot decides what a slain monster drops. The monster's own dropRate
// gates the roll; then every item template at or below the player's level
// passes an independent chance at its dropRate, and one survivor is picked
// uniformly at random.
//
// Postcondition: returns (template, true) when a drop occurs, or
// (zero, false) when nothing drops.
func RollLoot(m *Instance, items []content.ItemTemplate, playerLevel int, src rng.Source) (content.ItemTemplate, bool) {
	if !rng.PercentChance(src, m.DropRate) {
		return content.ItemTemplate{}, false
	}

	var candidates []content.ItemTemplate
	for _, it := range items {
		if it.Level <= playerLevel && rng.PercentChance(src, it.DropRate) {
			candidates = append(candidates, it)
		}
	}
	if len(candidates) == 0 {
		return content.ItemTemplate{}, false
	}
	return candidates[src.Intn(len(candidates))], true
}
