package combat_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ravenstone/murpg/internal/game/combat"
	"github.com/ravenstone/murpg/internal/game/content"
	"github.com/ravenstone/murpg/internal/game/entity"
	"github.com/ravenstone/murpg/internal/game/monster"
	"github.com/ravenstone/murpg/internal/scripting"
	"github.com/ravenstone/murpg/internal/storage"
)

// scriptedSource replays queued rolls and falls back to fixed values. The
// fallback Float64 of 0.99 keeps critical and drop rolls from firing unless
// a test queues them.
type scriptedSource struct {
	ints   []int
	floats []float64
}

func (s *scriptedSource) Intn(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	if v >= n {
		v = n - 1
	}
	return v
}

func (s *scriptedSource) Float64() float64 {
	if len(s.floats) == 0 {
		return 0.99
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

type chatCapture struct {
	lines []string
}

func (c *chatCapture) log(text, category string) {
	c.lines = append(c.lines, category+": "+text)
}

func (c *chatCapture) contains(substr string) bool {
	for _, l := range c.lines {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}

type fixture struct {
	engine *combat.Engine
	source *scriptedSource
	chat   *chatCapture
	store  *content.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	src := &scriptedSource{}
	chat := &chatCapture{}
	store := content.NewStore(zap.NewNop(), storage.NewMemStore())
	eng := &combat.Engine{
		Player:    entity.NewDefaultPlayer("warrior"),
		Inventory: entity.NewInventory(),
		Monsters:  monster.NewPopulation(),
		Content:   store,
		RNG:       src,
		Scripts:   scripting.NewRunner(0, zap.NewNop()),
		Log:       chat.log,
	}
	return &fixture{engine: eng, source: src, chat: chat, store: store}
}

func goblinTemplate() content.MonsterTemplate {
	return content.MonsterTemplate{
		ID: 1, Name: "Goblin", Level: 1, MaxHP: 50, Damage: 10, Exp: 25, DropRate: 30,
	}
}

func (f *fixture) spawnGoblin() *monster.Instance {
	m := monster.Spawn(goblinTemplate(), 100, 100)
	f.engine.Monsters.Add(m)
	return m
}

// Default player: 20 STR / 15 AGI derives a 13-18 damage range.
func TestAttackMonster_AppliesRolledDamage(t *testing.T) {
	f := newFixture(t)
	m := f.spawnGoblin()
	f.source.ints = []int{2} // 13 + 2

	res := f.engine.AttackMonster(m)

	assert.Equal(t, 15, res.Damage)
	assert.False(t, res.Critical)
	assert.False(t, res.Killed)
	assert.Equal(t, 35, m.HP)
	assert.True(t, f.chat.contains("Hit Goblin for 15 damage!"))
}

func TestAttackMonster_CriticalMultiplierFloors(t *testing.T) {
	f := newFixture(t)
	m := f.spawnGoblin()
	f.source.ints = []int{0}       // base 13
	f.source.floats = []float64{0} // under the 5.75% critical chance

	res := f.engine.AttackMonster(m)

	assert.True(t, res.Critical)
	assert.Equal(t, 19, res.Damage, "13 * 1.5 = 19.5 floors to 19")
	assert.True(t, f.chat.contains("Critical hit!"))
}

func TestAttackMonster_OverkillGrantsExpOnce(t *testing.T) {
	f := newFixture(t)
	m := f.spawnGoblin()
	m.HP = 10
	m.DropRate = 0

	res := f.engine.AttackMonster(m)
	require.True(t, res.Killed)
	assert.Equal(t, 25, f.engine.Player.XP.Current)

	// A second swing at the corpse is a no-op.
	res = f.engine.AttackMonster(m)
	assert.Equal(t, combat.AttackResult{}, res)
	assert.Equal(t, 25, f.engine.Player.XP.Current)
}

func TestAttackMonster_NilTargetNoOp(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, combat.AttackResult{}, f.engine.AttackMonster(nil))
	assert.Empty(t, f.chat.lines)
}

func TestAttackMonster_KillAwardsLoot(t *testing.T) {
	f := newFixture(t)
	_, err := f.store.AddItem(content.ItemTemplate{
		Name: "Rusty Dagger", Type: content.ItemWeapon, Level: 1, DropRate: 100,
	})
	require.NoError(t, err)

	m := f.spawnGoblin()
	m.HP = 1
	m.DropRate = 100

	res := f.engine.AttackMonster(m)
	require.True(t, res.Killed)

	got := f.engine.Inventory.At(0)
	require.NotNil(t, got)
	assert.Equal(t, "Rusty Dagger", got.Name)
	assert.True(t, f.chat.contains("Looted Rusty Dagger!"))
}

func TestAttackMonster_LootLostSilentlyWhenInventoryFull(t *testing.T) {
	f := newFixture(t)
	_, err := f.store.AddItem(content.ItemTemplate{
		Name: "Rusty Dagger", Type: content.ItemWeapon, Level: 1, DropRate: 100,
	})
	require.NoError(t, err)
	for i := 0; i < entity.InventorySize; i++ {
		f.engine.Inventory.Set(i, entity.NewItemInstance(content.ItemTemplate{
			Name: "Rock", Type: content.ItemWeapon, Level: 1,
		}))
	}

	m := f.spawnGoblin()
	m.HP = 1
	m.DropRate = 100

	res := f.engine.AttackMonster(m)
	require.True(t, res.Killed)
	assert.False(t, f.chat.contains("Looted"), "lost loot must not be announced")
}

func TestGainExperience_CarryOver(t *testing.T) {
	f := newFixture(t)
	p := f.engine.Player

	f.engine.GainExperience(150, "Goblin")

	assert.Equal(t, 2, p.Level)
	assert.Equal(t, 50, p.XP.Current)
	assert.Equal(t, 150, p.XP.Max)
	assert.Equal(t, 22, p.Stats.Strength)
	assert.Equal(t, 17, p.Stats.Agility)
	assert.Equal(t, 28, p.Stats.Vitality)
	assert.Equal(t, 11, p.Stats.Energy)
	assert.Equal(t, 106, p.HP.Current, "full restore to 50 + 2*28")
	assert.Equal(t, 53, p.MP.Current, "full restore to 20 + 3*11")
	assert.True(t, f.chat.contains("level 2"))
}

func TestGainExperience_MultiLevelSingleGrant(t *testing.T) {
	f := newFixture(t)
	p := f.engine.Player

	// 250 crosses level 2 (needs 100) and level 3 (needs 150) exactly.
	f.engine.GainExperience(250, "Dragon")

	assert.Equal(t, 3, p.Level)
	assert.Equal(t, 0, p.XP.Current)
	assert.Equal(t, 225, p.XP.Max)
	assert.True(t, f.chat.contains("level 3"))
}

func TestUseSkill_EmptySlotRejected(t *testing.T) {
	f := newFixture(t)
	f.engine.Player.LearnedSkills = nil

	assert.False(t, f.engine.UseSkill(0, nil))
	assert.True(t, f.chat.contains("No skill in this slot!"))
}

func TestUseSkill_UnknownSkillRejected(t *testing.T) {
	f := newFixture(t)
	f.engine.Player.LearnedSkills = []int{99}

	assert.False(t, f.engine.UseSkill(0, nil))
	assert.True(t, f.chat.contains("Skill not found!"))
}

func TestUseSkill_GatesLeaveManaUntouched(t *testing.T) {
	f := newFixture(t)
	p := f.engine.Player
	skill, err := f.store.AddSkill(content.SkillTemplate{
		Name: "Meteor", Type: content.SkillAttack, LevelReq: 10, ManaCost: 5, Damage: 100,
	})
	require.NoError(t, err)
	p.LearnedSkills = []int{skill.ID}
	startMP := p.MP.Current

	assert.False(t, f.engine.UseSkill(0, nil))
	assert.True(t, f.chat.contains("requires level 10"))
	assert.Equal(t, startMP, p.MP.Current)

	p.Level = 10
	p.MP.Current = 4
	assert.False(t, f.engine.UseSkill(0, nil))
	assert.True(t, f.chat.contains("Not enough MP!"))
	assert.Equal(t, 4, p.MP.Current)
}

func TestUseSkill_AttackKillRemovesTargetAndGrantsExp(t *testing.T) {
	f := newFixture(t)
	skill, err := f.store.AddSkill(content.SkillTemplate{
		Name: "Fireball", Type: content.SkillAttack, LevelReq: 1, ManaCost: 5, Damage: 100,
	})
	require.NoError(t, err)
	f.engine.Player.LearnedSkills = []int{skill.ID}

	m := f.spawnGoblin()
	require.True(t, f.engine.UseSkill(0, m))

	assert.Equal(t, 15, f.engine.Player.MP.Current)
	assert.Equal(t, 25, f.engine.Player.XP.Current)
	assert.Equal(t, 0, f.engine.Monsters.Len(), "skill kill removes the monster immediately")
}

func TestUseSkill_ManaSpentEvenWithoutTarget(t *testing.T) {
	f := newFixture(t)
	skill, err := f.store.AddSkill(content.SkillTemplate{
		Name: "Fireball", Type: content.SkillAttack, LevelReq: 1, ManaCost: 5, Damage: 100,
	})
	require.NoError(t, err)
	f.engine.Player.LearnedSkills = []int{skill.ID}

	assert.True(t, f.engine.UseSkill(0, nil))
	assert.Equal(t, 15, f.engine.Player.MP.Current)
}

func TestUseSkill_AttackFallsBackToAutoTarget(t *testing.T) {
	f := newFixture(t)
	skill, err := f.store.AddSkill(content.SkillTemplate{
		Name: "Fireball", Type: content.SkillAttack, LevelReq: 1, ManaCost: 5, Damage: 10,
	})
	require.NoError(t, err)
	f.engine.Player.LearnedSkills = []int{skill.ID}

	m := f.spawnGoblin()
	f.engine.Player.AutoTarget = m.ID

	require.True(t, f.engine.UseSkill(0, nil))
	assert.Equal(t, 40, m.HP)
}

func TestUseSkill_HealClampsToDerivedMax(t *testing.T) {
	f := newFixture(t)
	skill, err := f.store.AddSkill(content.SkillTemplate{
		Name: "Mend", Type: content.SkillHeal, LevelReq: 1, ManaCost: 5, Heal: 500,
	})
	require.NoError(t, err)
	p := f.engine.Player
	p.LearnedSkills = []int{skill.ID}
	p.HP.Current = 10

	require.True(t, f.engine.UseSkill(0, nil))
	assert.Equal(t, 100, p.HP.Current, "derived max for 25 VIT")
}

func TestUseSkill_ScriptedEffectOverridesStaticDamage(t *testing.T) {
	f := newFixture(t)
	skill, err := f.store.AddSkill(content.SkillTemplate{
		Name: "Arcane Bolt", Type: content.SkillAttack, LevelReq: 1, ManaCost: 5, Damage: 1,
		Script: `return { damage = caster.level * 10 + caster.energy }`,
	})
	require.NoError(t, err)
	f.engine.Player.LearnedSkills = []int{skill.ID}

	m := f.spawnGoblin()
	require.True(t, f.engine.UseSkill(0, m))
	assert.Equal(t, 30, m.HP, "level 1 * 10 + energy 10 = 20 damage")
}

func TestUseSkill_BrokenScriptFallsBackToStaticDamage(t *testing.T) {
	f := newFixture(t)
	skill, err := f.store.AddSkill(content.SkillTemplate{
		Name: "Arcane Bolt", Type: content.SkillAttack, LevelReq: 1, ManaCost: 5, Damage: 7,
		Script: `error("corrupted")`,
	})
	require.NoError(t, err)
	f.engine.Player.LearnedSkills = []int{skill.ID}

	m := f.spawnGoblin()
	require.True(t, f.engine.UseSkill(0, m))
	assert.Equal(t, 43, m.HP)
}

func TestTakeDamage_LethalTriggersDeathPenalty(t *testing.T) {
	f := newFixture(t)
	p := f.engine.Player
	p.XP.Current = 105
	p.HP.Current = 10
	f.engine.Inventory.Set(3, entity.NewItemInstance(content.ItemTemplate{
		Name: "Keepsake", Type: content.ItemWeapon, Level: 1,
	}))
	f.source.ints = []int{0, 3} // one drop, slot 3

	f.engine.TakeDamage(15)

	assert.Equal(t, 95, p.XP.Current, "10% of 105 floors to 10")
	assert.Equal(t, 100, p.HP.Current)
	assert.Equal(t, 50, p.MP.Current)
	assert.Nil(t, f.engine.Inventory.At(3))
	assert.True(t, f.chat.contains("Lost Keepsake on death!"))
	assert.True(t, f.chat.contains("You died! Lost 10 experience."))
}

func TestTakeDamage_NonLethalJustReducesHP(t *testing.T) {
	f := newFixture(t)
	f.engine.TakeDamage(15)
	assert.Equal(t, 35, f.engine.Player.HP.Current)
	assert.False(t, f.chat.contains("You died"))
}

func TestPlayerDeath_EmptyInventoryDropsNothing(t *testing.T) {
	f := newFixture(t)
	f.engine.Player.XP.Current = 50
	f.source.ints = []int{1} // would be two drops

	f.engine.PlayerDeath()

	assert.Equal(t, 45, f.engine.Player.XP.Current)
	assert.False(t, f.chat.contains("on death"), "no items to lose: %v", f.chat.lines)
}

func TestPlayerDeath_RerollsEmptySlots(t *testing.T) {
	f := newFixture(t)
	f.engine.Inventory.Set(7, entity.NewItemInstance(content.ItemTemplate{
		Name: "Keepsake", Type: content.ItemWeapon, Level: 1,
	}))
	f.source.ints = []int{0, 2, 5, 7} // one drop: slots 2 and 5 are empty, re-rolled

	f.engine.PlayerDeath()

	assert.Nil(t, f.engine.Inventory.At(7))
}

func TestUseItem_PotionStackDecrements(t *testing.T) {
	f := newFixture(t)
	p := f.engine.Player
	p.HP.Current = 10
	potion := entity.NewItemInstance(content.ItemTemplate{
		Name: "Healing Potion", Type: content.ItemPotion, Level: 1,
		Stackable: true, Count: 2, Stats: content.ItemStats{Heal: 30},
	})
	f.engine.Inventory.Set(0, potion)

	require.True(t, f.engine.UseItem(0))
	assert.Equal(t, 40, p.HP.Current)
	require.NotNil(t, f.engine.Inventory.At(0))
	assert.Equal(t, 1, f.engine.Inventory.At(0).Count)

	require.True(t, f.engine.UseItem(0))
	assert.Nil(t, f.engine.Inventory.At(0), "stack exhausted")
}

func TestUseItem_ManaPotionClampsToMax(t *testing.T) {
	f := newFixture(t)
	p := f.engine.Player
	p.MP.Current = 15
	f.engine.Inventory.Set(0, entity.NewItemInstance(content.ItemTemplate{
		Name: "Mana Potion", Type: content.ItemPotion, Level: 1,
		Stats: content.ItemStats{Mana: 100},
	}))

	require.True(t, f.engine.UseItem(0))
	assert.Equal(t, p.MP.Max, p.MP.Current)
}

func TestUseItem_ScrollSingleUse(t *testing.T) {
	f := newFixture(t)
	f.engine.Inventory.Set(0, entity.NewItemInstance(content.ItemTemplate{
		Name: "Town Scroll", Type: content.ItemScroll, Level: 1,
	}))

	require.True(t, f.engine.UseItem(0))
	assert.Nil(t, f.engine.Inventory.At(0))
	assert.True(t, f.chat.contains("Used Town Scroll!"))
}

func TestUseItem_EquippableNotConsumable(t *testing.T) {
	f := newFixture(t)
	f.engine.Inventory.Set(0, entity.NewItemInstance(content.ItemTemplate{
		Name: "Bronze Sword", Type: content.ItemWeapon, Level: 1,
	}))

	assert.False(t, f.engine.UseItem(0))
	assert.NotNil(t, f.engine.Inventory.At(0))
}
