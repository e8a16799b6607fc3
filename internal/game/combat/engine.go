// Package combat resolves player attacks, skill casts, item use, leveling,
// and the death penalty. The Engine owns no goroutines and performs no I/O
// beyond its injected collaborators; every mutation happens synchronously
// inside the caller's frame.
package combat

import (
	"fmt"
	"math"

	"github.com/ravenstone/murpg/internal/game/content"
	"github.com/ravenstone/murpg/internal/game/entity"
	"github.com/ravenstone/murpg/internal/game/monster"
	"github.com/ravenstone/murpg/internal/game/rng"
	"github.com/ravenstone/murpg/internal/scripting"
)

// Per-level base stat increments.
const (
	levelStrengthGain = 2
	levelAgilityGain  = 2
	levelVitalityGain = 3
	levelEnergyGain   = 1
)

// xpGrowthFactor scales the experience requirement on each level-up.
const xpGrowthFactor = 1.5

// deathExpLossRatio is the fraction of current experience lost on death.
const deathExpLossRatio = 0.1

// LogFunc receives chat/notification lines. A nil LogFunc is tolerated
// everywhere; combat outcomes never depend on the sink.
type LogFunc func(text, category string)

// Engine wires the player, inventory, and monster population to the content
// store and resolves all combat and progression rules.
//
// All fields must be set before use except Log and Scripts, which may be nil.
type Engine struct {
	Player    *entity.Player
	Inventory *entity.Inventory
	Monsters  *monster.Population
	Content   *content.Store
	RNG       rng.Source
	Scripts   *scripting.Runner
	Log       LogFunc
}

// AttackResult reports one resolved player attack.
type AttackResult struct {
	Damage   int
	Critical bool
	Killed   bool
}

func (e *Engine) logf(category, format string, args ...any) {
	if e.Log != nil {
		e.Log(fmt.Sprintf(format, args...), category)
	}
}

// rollDamage rolls one player hit: uniform in the derived damage range, with
// a critical chance at the derived critical percentage multiplying the roll
// by 1.5, floored.
func (e *Engine) rollDamage() (int, bool) {
	derived := entity.DeriveStats(e.Player)
	base := derived.Damage().Roll(e.RNG)
	if rng.PercentChance(e.RNG, derived.Critical) {
		return int(math.Floor(float64(base) * 1.5)), true
	}
	return base, false
}

// AttackMonster resolves one basic attack against target.
//
// Precondition: target may be nil or already dead; both are no-ops.
// Postcondition: On a kill the player is granted the monster's experience
// and a loot roll; the corpse stays in the population until the next tick
// compaction.
func (e *Engine) AttackMonster(target *monster.Instance) AttackResult {
	if target == nil || target.Dead() {
		return AttackResult{}
	}

	damage, critical := e.rollDamage()
	target.HP -= damage

	if critical {
		e.logf("system", "Critical hit! %s for %d damage!", target.Name, damage)
	} else {
		e.logf("system", "Hit %s for %d damage!", target.Name, damage)
	}

	killed := target.Dead()
	if killed {
		e.GainExperience(target.Exp, target.Name)
		e.rollAndAwardLoot(target)
	}
	return AttackResult{Damage: damage, Critical: critical, Killed: killed}
}

// rollAndAwardLoot runs the drop roll for a killed monster and places the
// won item in the first free inventory slot. A full inventory loses the
// drop silently.
func (e *Engine) rollAndAwardLoot(m *monster.Instance) {
	tmpl, ok := monster.RollLoot(m, e.Content.Items(), e.Player.Level, e.RNG)
	if !ok {
		return
	}
	if _, added := e.Inventory.Add(entity.NewItemInstance(tmpl)); added {
		e.logf("loot", "Looted %s!", tmpl.Name)
	}
}

// UseSkill casts the skill in the given hotbar slot. The hotbar is the
// player's learned-skill sequence in insertion order. Mana is deducted once
// the level and MP gates pass, even when an attack skill then finds no
// target.
//
// Postcondition: Returns true only when a skill was actually cast.
func (e *Engine) UseSkill(slotIndex int, target *monster.Instance) bool {
	if slotIndex < 0 || slotIndex >= len(e.Player.LearnedSkills) {
		e.logf("system", "No skill in this slot!")
		return false
	}

	skill, ok := e.Content.SkillByID(e.Player.LearnedSkills[slotIndex])
	if !ok {
		e.logf("system", "Skill not found!")
		return false
	}
	if e.Player.Level < skill.LevelReq {
		e.logf("system", "Skill requires level %d!", skill.LevelReq)
		return false
	}
	if e.Player.MP.Current < skill.ManaCost {
		e.logf("system", "Not enough MP!")
		return false
	}
	e.Player.MP.Current -= skill.ManaCost

	damage, heal := e.skillEffect(skill, target)

	switch skill.Type {
	case content.SkillAttack:
		if target == nil {
			target = e.autoTarget()
		}
		if target != nil && !target.Dead() {
			target.HP -= damage
			e.logf("system", "%s hit for %d damage!", skill.Name, damage)
			if target.Dead() {
				e.Monsters.Remove(target.ID)
				e.GainExperience(target.Exp, target.Name)
			}
		}
	case content.SkillHeal:
		e.Heal(heal)
	default:
		// Buff, debuff, and summon skills only act through their scripts.
		if heal > 0 {
			e.Heal(heal)
		}
		if damage > 0 && target != nil && !target.Dead() {
			target.HP -= damage
		}
	}
	return true
}

// skillEffect resolves a skill's damage and heal numbers. Scripted skills
// evaluate their Lua effect; a script that fails or yields nothing falls
// back to the template's static fields.
func (e *Engine) skillEffect(skill content.SkillTemplate, target *monster.Instance) (damage, heal int) {
	damage, heal = skill.Damage, skill.Heal
	if skill.Script == "" || e.Scripts == nil {
		return damage, heal
	}

	derived := entity.DeriveStats(e.Player)
	caster := scripting.CasterInfo{
		Level:     e.Player.Level,
		HP:        e.Player.HP.Current,
		MaxHP:     e.Player.HP.Max,
		MP:        e.Player.MP.Current,
		MaxMP:     e.Player.MP.Max,
		Strength:  e.Player.Stats.Strength,
		Agility:   e.Player.Stats.Agility,
		Vitality:  e.Player.Stats.Vitality,
		Energy:    e.Player.Stats.Energy,
		DamageMin: derived.DamageMin,
		DamageMax: derived.DamageMax,
	}
	var tg scripting.TargetInfo
	if target != nil {
		tg = scripting.TargetInfo{
			Present: true,
			Name:    target.Name,
			Level:   target.Level,
			HP:      target.HP,
			MaxHP:   target.MaxHP,
		}
	}

	effect := e.Scripts.Run(skill.Script, caster, tg)
	if effect == (scripting.Effect{}) {
		return damage, heal
	}
	if effect.Mana > 0 {
		e.RestoreMana(effect.Mana)
	}
	return effect.Damage, effect.Heal
}

// autoTarget resolves the player's weak monster reference, clearing it when
// the instance no longer exists.
func (e *Engine) autoTarget() *monster.Instance {
	if e.Player.AutoTarget == "" {
		return nil
	}
	m, ok := e.Monsters.ByID(e.Player.AutoTarget)
	if !ok {
		e.Player.AutoTarget = ""
		return nil
	}
	return m
}

// GainExperience adds experience and applies level-ups. A single grant can
// cross several thresholds; each level carries surplus experience over,
// grows the requirement by half, raises base stats, and fully restores
// HP/MP to the re-derived maxima.
func (e *Engine) GainExperience(amount int, source string) {
	p := e.Player
	p.XP.Current += amount
	e.logf("exp", "+%d EXP from %s", amount, source)

	for p.XP.Current >= p.XP.Max {
		p.Level++
		p.XP.Current -= p.XP.Max
		p.XP.Max = int(math.Floor(float64(p.XP.Max) * xpGrowthFactor))

		p.Stats.Strength += levelStrengthGain
		p.Stats.Agility += levelAgilityGain
		p.Stats.Vitality += levelVitalityGain
		p.Stats.Energy += levelEnergyGain

		derived := entity.DeriveStats(p)
		p.HP.Current = derived.HPMax
		p.MP.Current = derived.MPMax

		e.logf("level", "Congratulations! You reached level %d!", p.Level)
	}
}

// TakeDamage applies incoming damage to the player, triggering the death
// penalty when HP reaches zero.
func (e *Engine) TakeDamage(amount int) {
	p := e.Player
	p.HP.Current -= amount
	if p.HP.Current < 0 {
		p.HP.Current = 0
	}
	e.logf("system", "You took %d damage!", amount)

	if p.HP.Current <= 0 {
		e.PlayerDeath()
	}
}

// Heal restores HP up to the derived maximum. Only the amount actually
// restored is reported.
func (e *Engine) Heal(amount int) {
	if amount <= 0 {
		return
	}
	derived := entity.DeriveStats(e.Player)
	old := e.Player.HP.Current
	e.Player.HP.Current = min(derived.HPMax, old+amount)
	if healed := e.Player.HP.Current - old; healed > 0 {
		e.logf("system", "Healed for %d HP!", healed)
	}
}

// RestoreMana restores MP up to the current maximum.
func (e *Engine) RestoreMana(amount int) {
	if amount <= 0 {
		return
	}
	e.Player.MP.Current = min(e.Player.MP.Max, e.Player.MP.Current+amount)
}

// PlayerDeath applies the death penalty: a tenth of current experience is
// lost (floored), HP/MP are fully restored, and one or two uniformly chosen
// inventory slots are dropped. Slot picks that land on an empty slot are
// re-rolled; picks across the two drops are not guaranteed distinct.
func (e *Engine) PlayerDeath() {
	p := e.Player
	lost := int(math.Floor(float64(p.XP.Current) * deathExpLossRatio))
	p.XP.Current -= lost

	derived := entity.DeriveStats(p)
	p.HP.Current = derived.HPMax
	p.MP.Current = derived.MPMax

	dropCount := e.RNG.Intn(2) + 1
	for i := 0; i < dropCount; i++ {
		if len(e.Inventory.Occupied()) == 0 {
			break
		}
		for {
			index := e.RNG.Intn(entity.InventorySize)
			item := e.Inventory.At(index)
			if item == nil {
				continue
			}
			e.Inventory.RemoveAt(index)
			e.logf("loot", "Lost %s on death!", item.Name)
			break
		}
	}

	e.logf("system", "You died! Lost %d experience.", lost)
}

// UseItem consumes the item at the given inventory index. Potions apply
// their heal/mana stats and decrement stackable counts; scrolls are single
// use. Equippable items are not consumable and return false.
func (e *Engine) UseItem(index int) bool {
	item := e.Inventory.At(index)
	if item == nil {
		return false
	}

	switch item.Type {
	case content.ItemPotion:
		if item.Stats.Heal > 0 {
			e.Heal(item.Stats.Heal)
		}
		if item.Stats.Mana > 0 {
			e.RestoreMana(item.Stats.Mana)
		}
		if item.Stackable {
			if item.Count < 1 {
				item.Count = 1
			}
			item.Count--
			if item.Count <= 0 {
				e.Inventory.RemoveAt(index)
			}
		}
		return true
	case content.ItemScroll:
		e.logf("system", "Used %s!", item.Name)
		e.Inventory.RemoveAt(index)
		return true
	default:
		return false
	}
}
