package content

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ravenstone/murpg/internal/storage"
)

// Bootstrap loads every category from dir ("<dir>/<category>.yaml", each a
// YAML list of templates), then lets locally persisted category data
// supersede the bootstrap data where present.
//
// A missing or malformed bootstrap file degrades that category to its seeded
// defaults without aborting the other categories. Bootstrap never returns an
// error: the game stays playable on empty content.
func (s *Store) Bootstrap(dir string) {
	s.mu.Lock()
	s.items = loadCategoryFile[ItemTemplate](s.logger, dir, CategoryItems, defaultItems())
	s.monsters = loadCategoryFile[MonsterTemplate](s.logger, dir, CategoryMonsters, defaultMonsters())
	s.skills = loadCategoryFile[SkillTemplate](s.logger, dir, CategorySkills, nil)
	s.classes = loadCategoryFile[ClassTemplate](s.logger, dir, CategoryClasses, nil)
	s.events = loadCategoryFile[EventTemplate](s.logger, dir, CategoryEvents, nil)
	s.mu.Unlock()

	s.loadFromStore()
}

// loadCategoryFile reads one category's YAML list; on any failure it falls
// back to the provided defaults.
func loadCategoryFile[T interface{ Validate() error }](logger *zap.Logger, dir string, category Category, defaults []T) []T {
	path := filepath.Join(dir, string(category)+".yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("bootstrap file unavailable, using defaults",
			zap.String("category", string(category)),
			zap.Error(err),
		)
		return defaults
	}

	var records []T
	if err := yaml.Unmarshal(data, &records); err != nil {
		logger.Warn("bootstrap file malformed, using defaults",
			zap.String("category", string(category)),
			zap.Error(err),
		)
		return defaults
	}

	for i, r := range records {
		if err := r.Validate(); err != nil {
			logger.Warn("bootstrap file contains invalid record, using defaults",
				zap.String("category", string(category)),
				zap.Int("index", i),
				zap.Error(err),
			)
			return defaults
		}
	}

	logger.Info("loaded bootstrap content",
		zap.String("category", string(category)),
		zap.Int("count", len(records)),
	)
	return records
}

// loadFromStore replaces each category with its persisted copy when one
// exists, is non-empty, and parses cleanly. Persisted edits made through the
// runtime editors take precedence over the shipped bootstrap data.
func (s *Store) loadFromStore() {
	if s.kv == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	restoreCategory(s, CategoryItems, &s.items)
	restoreCategory(s, CategoryMonsters, &s.monsters)
	restoreCategory(s, CategorySkills, &s.skills)
	restoreCategory(s, CategoryClasses, &s.classes)
	restoreCategory(s, CategoryEvents, &s.events)
}

func restoreCategory[T any](s *Store, category Category, dst *[]T) {
	raw, ok, err := s.kv.Get(storage.CategoryKey(string(category)))
	if err != nil {
		s.logger.Warn("reading persisted category",
			zap.String("category", string(category)), zap.Error(err))
		return
	}
	if !ok {
		return
	}
	var records []T
	if err := json.Unmarshal(raw, &records); err != nil {
		s.logger.Warn("persisted category malformed, keeping bootstrap data",
			zap.String("category", string(category)), zap.Error(err))
		return
	}
	if len(records) == 0 {
		return
	}
	*dst = records
	s.logger.Info("restored persisted content",
		zap.String("category", string(category)),
		zap.Int("count", len(records)),
	)
}

// defaultItems seeds a minimal playable item set when no bootstrap data is
// available.
func defaultItems() []ItemTemplate {
	return []ItemTemplate{
		{
			ID:          1,
			Name:        "Bronze Sword",
			Type:        ItemWeapon,
			Rarity:      RarityCommon,
			Level:       1,
			DropRate:    10,
			Width:       1,
			Height:      1,
			Stats:       ItemStats{Strength: 5, Damage: "15-25"},
			Description: "A basic bronze sword.",
		},
		{
			ID:          2,
			Name:        "Leather Armor",
			Type:        ItemArmor,
			Rarity:      RarityCommon,
			Level:       1,
			DropRate:    10,
			Width:       1,
			Height:      1,
			Stats:       ItemStats{Defense: 8, Vitality: 3},
			Description: "Worn leather armor.",
		},
		{
			ID:          3,
			Name:        "Healing Potion",
			Type:        ItemPotion,
			Rarity:      RarityCommon,
			Level:       1,
			DropRate:    25,
			Width:       1,
			Height:      1,
			Stats:       ItemStats{Heal: 40},
			Description: "Restores 40 HP.",
			Stackable:   true,
			Count:       3,
		},
	}
}

// defaultMonsters seeds a minimal monster set when no bootstrap data is
// available.
func defaultMonsters() []MonsterTemplate {
	return []MonsterTemplate{
		{
			ID:       1,
			Name:     "Goblin",
			Kind:     "goblin",
			Level:    1,
			MaxHP:    50,
			Damage:   10,
			Exp:      25,
			DropRate: 30,
			Color:    "#2d7d32",
		},
	}
}

// DumpCategory renders one category as JSON, mostly for diagnostics.
func (s *Store) DumpCategory(category Category) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch category {
	case CategoryItems:
		return json.Marshal(s.items)
	case CategoryMonsters:
		return json.Marshal(s.monsters)
	case CategorySkills:
		return json.Marshal(s.skills)
	case CategoryClasses:
		return json.Marshal(s.classes)
	case CategoryEvents:
		return json.Marshal(s.events)
	default:
		return nil, fmt.Errorf("unknown category %q", category)
	}
}
