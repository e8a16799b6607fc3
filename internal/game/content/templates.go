// Package content provides the category-indexed template registry for items,
// monsters, skills, classes, and events, with runtime CRUD and write-through
// persistence.
package content

import (
	"fmt"

	"github.com/ravenstone/murpg/internal/game/rng"
)

// Category identifies one template collection. The closed enumeration replaces
// string-keyed dynamic access on the store.
type Category string

const (
	CategoryItems    Category = "items"
	CategoryMonsters Category = "monsters"
	CategorySkills   Category = "skills"
	CategoryClasses  Category = "classes"
	CategoryEvents   Category = "events"
)

// Categories lists every category in load order.
var Categories = []Category{
	CategoryItems, CategoryMonsters, CategorySkills, CategoryClasses, CategoryEvents,
}

// ItemType enumerates equipment and consumable item types.
type ItemType string

const (
	ItemWeapon ItemType = "weapon"
	ItemArmor  ItemType = "armor"
	ItemHelm   ItemType = "helm"
	ItemGloves ItemType = "gloves"
	ItemPants  ItemType = "pants"
	ItemBoots  ItemType = "boots"
	ItemRing   ItemType = "ring"
	ItemAmulet ItemType = "amulet"
	ItemWings  ItemType = "wings"
	ItemPet    ItemType = "pet"
	ItemShield ItemType = "shield"
	ItemPotion ItemType = "potion"
	ItemScroll ItemType = "scroll"
)

var validItemTypes = map[ItemType]bool{
	ItemWeapon: true, ItemArmor: true, ItemHelm: true, ItemGloves: true,
	ItemPants: true, ItemBoots: true, ItemRing: true, ItemAmulet: true,
	ItemWings: true, ItemPet: true, ItemShield: true, ItemPotion: true,
	ItemScroll: true,
}

// Rarity orders item quality tiers.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

var rarityOrder = map[Rarity]int{
	RarityCommon:    0,
	RarityUncommon:  1,
	RarityRare:      2,
	RarityEpic:      3,
	RarityLegendary: 4,
}

// Ordinal returns the rarity's position in the quality ordering, or -1 for
// unknown rarities.
func (r Rarity) Ordinal() int {
	if ord, ok := rarityOrder[r]; ok {
		return ord
	}
	return -1
}

// ItemStats holds the bonus values an item grants. Damage is a "min-max"
// range string; everything else is a flat numeric bonus.
type ItemStats struct {
	Damage   string `yaml:"damage,omitempty" json:"damage,omitempty"`
	Defense  int    `yaml:"defense,omitempty" json:"defense,omitempty"`
	Accuracy int    `yaml:"accuracy,omitempty" json:"accuracy,omitempty"`
	Critical int    `yaml:"critical,omitempty" json:"critical,omitempty"`
	Strength int    `yaml:"strength,omitempty" json:"strength,omitempty"`
	Agility  int    `yaml:"agility,omitempty" json:"agility,omitempty"`
	Vitality int    `yaml:"vitality,omitempty" json:"vitality,omitempty"`
	Energy   int    `yaml:"energy,omitempty" json:"energy,omitempty"`
	Heal     int    `yaml:"heal,omitempty" json:"heal,omitempty"`
	Mana     int    `yaml:"mana,omitempty" json:"mana,omitempty"`
}

// ItemTemplate is the authoring-time definition of an item.
type ItemTemplate struct {
	ID          int       `yaml:"id" json:"id"`
	Name        string    `yaml:"name" json:"name"`
	Type        ItemType  `yaml:"type" json:"type"`
	Rarity      Rarity    `yaml:"rarity" json:"rarity"`
	Level       int       `yaml:"level" json:"level"`
	DropRate    float64   `yaml:"dropRate" json:"dropRate"`
	Width       int       `yaml:"width" json:"width"`
	Height      int       `yaml:"height" json:"height"`
	Stats       ItemStats `yaml:"stats" json:"stats"`
	Description string    `yaml:"description" json:"description"`
	Stackable   bool      `yaml:"stackable" json:"stackable"`
	Count       int       `yaml:"count,omitempty" json:"count,omitempty"`
	Image       string    `yaml:"image,omitempty" json:"image,omitempty"`
}

// Validate checks that the template satisfies its invariants.
//
// Postcondition: Returns nil iff the template is well formed, including a
// parseable damage range when one is present.
func (t ItemTemplate) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("item template: name must not be empty")
	}
	if !validItemTypes[t.Type] {
		return fmt.Errorf("item template %q: unknown type %q", t.Name, t.Type)
	}
	if t.Rarity != "" && t.Rarity.Ordinal() < 0 {
		return fmt.Errorf("item template %q: unknown rarity %q", t.Name, t.Rarity)
	}
	if t.Level < 1 {
		return fmt.Errorf("item template %q: level must be >= 1, got %d", t.Name, t.Level)
	}
	if t.DropRate < 0 || t.DropRate > 100 {
		return fmt.Errorf("item template %q: dropRate must be 0-100, got %g", t.Name, t.DropRate)
	}
	if t.Stats.Damage != "" {
		if _, err := rng.ParseRange(t.Stats.Damage); err != nil {
			return fmt.Errorf("item template %q: %w", t.Name, err)
		}
	}
	return nil
}

// MonsterTemplate is the authoring-time definition of a monster. The source
// data carries a single "hp" field serving as the template's spawn-time
// maximum; live instances track current and max separately.
type MonsterTemplate struct {
	ID       int     `yaml:"id" json:"id"`
	Name     string  `yaml:"name" json:"name"`
	Kind     string  `yaml:"type,omitempty" json:"type,omitempty"`
	Level    int     `yaml:"level" json:"level"`
	MaxHP    int     `yaml:"hp" json:"hp"`
	Damage   int     `yaml:"damage" json:"damage"`
	Exp      int     `yaml:"exp" json:"exp"`
	DropRate float64 `yaml:"dropRate" json:"dropRate"`
	Color    string  `yaml:"color,omitempty" json:"color,omitempty"`
	Image    string  `yaml:"image,omitempty" json:"image,omitempty"`
}

// Validate checks that the template satisfies its invariants.
func (t MonsterTemplate) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("monster template: name must not be empty")
	}
	if t.Level < 1 {
		return fmt.Errorf("monster template %q: level must be >= 1, got %d", t.Name, t.Level)
	}
	if t.MaxHP < 1 {
		return fmt.Errorf("monster template %q: hp must be >= 1, got %d", t.Name, t.MaxHP)
	}
	if t.Damage < 0 {
		return fmt.Errorf("monster template %q: damage must be >= 0, got %d", t.Name, t.Damage)
	}
	if t.Exp < 0 {
		return fmt.Errorf("monster template %q: exp must be >= 0, got %d", t.Name, t.Exp)
	}
	if t.DropRate < 0 || t.DropRate > 100 {
		return fmt.Errorf("monster template %q: dropRate must be 0-100, got %g", t.Name, t.DropRate)
	}
	return nil
}

// SkillType enumerates skill behaviors.
type SkillType string

const (
	SkillAttack SkillType = "attack"
	SkillHeal   SkillType = "heal"
	SkillBuff   SkillType = "buff"
	SkillDebuff SkillType = "debuff"
	SkillSummon SkillType = "summon"
)

var validSkillTypes = map[SkillType]bool{
	SkillAttack: true, SkillHeal: true, SkillBuff: true,
	SkillDebuff: true, SkillSummon: true,
}

// SkillTemplate is the authoring-time definition of a skill. Damage and Heal
// are mutually exclusive by type. Script, when non-empty, is a Lua snippet
// run in the scripting sandbox to compute the skill's effect.
type SkillTemplate struct {
	ID          int       `yaml:"id" json:"id"`
	Name        string    `yaml:"name" json:"name"`
	Type        SkillType `yaml:"type" json:"type"`
	LevelReq    int       `yaml:"levelReq" json:"levelReq"`
	ManaCost    int       `yaml:"manaCost" json:"manaCost"`
	Cooldown    float64   `yaml:"cooldown" json:"cooldown"`
	Range       float64   `yaml:"range" json:"range"`
	Damage      int       `yaml:"damage,omitempty" json:"damage,omitempty"`
	Heal        int       `yaml:"heal,omitempty" json:"heal,omitempty"`
	Description string    `yaml:"description" json:"description"`
	Script      string    `yaml:"script,omitempty" json:"script,omitempty"`
}

// Validate checks that the template satisfies its invariants.
func (t SkillTemplate) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("skill template: name must not be empty")
	}
	if !validSkillTypes[t.Type] {
		return fmt.Errorf("skill template %q: unknown type %q", t.Name, t.Type)
	}
	if t.LevelReq < 1 {
		return fmt.Errorf("skill template %q: levelReq must be >= 1, got %d", t.Name, t.LevelReq)
	}
	if t.ManaCost < 0 {
		return fmt.Errorf("skill template %q: manaCost must be >= 0, got %d", t.Name, t.ManaCost)
	}
	if t.Type == SkillAttack && t.Heal != 0 {
		return fmt.Errorf("skill template %q: attack skills must not define heal", t.Name)
	}
	if t.Type == SkillHeal && t.Damage != 0 {
		return fmt.Errorf("skill template %q: heal skills must not define damage", t.Name)
	}
	return nil
}

// ClassTemplate is the authoring-time definition of a player class.
type ClassTemplate struct {
	ID            int    `yaml:"id" json:"id"`
	Name          string `yaml:"name" json:"name"`
	Description   string `yaml:"description,omitempty" json:"description,omitempty"`
	StartingItems []int  `yaml:"startingItems,omitempty" json:"startingItems,omitempty"`
	Image         string `yaml:"image,omitempty" json:"image,omitempty"`
}

// Validate checks that the template satisfies its invariants.
func (t ClassTemplate) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("class template: name must not be empty")
	}
	return nil
}

// EventTemplate defines a recurring spawn event. NextSpawn is an absolute
// Unix-millisecond timestamp; Active events are picked up by the session's
// event scheduler.
type EventTemplate struct {
	ID        int    `yaml:"id" json:"id"`
	Name      string `yaml:"name" json:"name"`
	Kind      string `yaml:"type" json:"type"`
	Duration  int    `yaml:"duration" json:"duration"` // seconds
	Interval  int    `yaml:"interval" json:"interval"` // seconds
	MonsterID int    `yaml:"monsterId" json:"monsterId"`
	Count     int    `yaml:"count" json:"count"`
	NextSpawn int64  `yaml:"nextSpawn,omitempty" json:"nextSpawn,omitempty"`
	Active    bool   `yaml:"active" json:"active"`
}

// Validate checks that the template satisfies its invariants.
func (t EventTemplate) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("event template: name must not be empty")
	}
	if t.MonsterID <= 0 {
		return fmt.Errorf("event template %q: monsterId must reference a monster", t.Name)
	}
	if t.Count < 1 {
		return fmt.Errorf("event template %q: count must be >= 1, got %d", t.Name, t.Count)
	}
	if t.Interval < 1 {
		return fmt.Errorf("event template %q: interval must be >= 1s, got %d", t.Name, t.Interval)
	}
	return nil
}
