package scripting_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/ravenstone/murpg/internal/scripting"
)

func testRunner() *scripting.Runner {
	return scripting.NewRunner(0, zap.NewNop())
}

func TestRun_ReadsCasterStats(t *testing.T) {
	eff := testRunner().Run(
		`return { damage = caster.damageMax + caster.energy * 2 }`,
		scripting.CasterInfo{DamageMax: 25, Energy: 10},
		scripting.TargetInfo{},
	)
	assert.Equal(t, scripting.Effect{Damage: 45}, eff)
}

func TestRun_TargetTablePresent(t *testing.T) {
	eff := testRunner().Run(
		`if target.hp < target.maxHp then return { heal = 0 } end
		 return { damage = target.level * 3 }`,
		scripting.CasterInfo{},
		scripting.TargetInfo{Present: true, Name: "Goblin", Level: 4, HP: 50, MaxHP: 50},
	)
	assert.Equal(t, 12, eff.Damage)
}

func TestRun_NilTargetForSelfCast(t *testing.T) {
	eff := testRunner().Run(
		`if target == nil then return { heal = caster.maxHp - caster.hp } end
		 return { damage = 1 }`,
		scripting.CasterInfo{HP: 30, MaxHP: 100},
		scripting.TargetInfo{},
	)
	assert.Equal(t, 70, eff.Heal)
	assert.Zero(t, eff.Damage)
}

func TestRun_RuntimeErrorYieldsZeroEffect(t *testing.T) {
	eff := testRunner().Run(`error("boom")`, scripting.CasterInfo{}, scripting.TargetInfo{})
	assert.Equal(t, scripting.Effect{}, eff)
}

func TestRun_NonTableReturnYieldsZeroEffect(t *testing.T) {
	for _, script := range []string{``, `return 42`, `return "fireball"`, `local x = 1`} {
		eff := testRunner().Run(script, scripting.CasterInfo{}, scripting.TargetInfo{})
		assert.Equal(t, scripting.Effect{}, eff, "script %q", script)
	}
}

func TestRun_NegativeValuesClampedToZero(t *testing.T) {
	eff := testRunner().Run(
		`return { damage = -10, heal = 5.9 }`,
		scripting.CasterInfo{},
		scripting.TargetInfo{},
	)
	assert.Zero(t, eff.Damage)
	assert.Equal(t, 5, eff.Heal, "fractional heal floors")
}

func TestRun_InfiniteLoopTerminates(t *testing.T) {
	r := scripting.NewRunner(1000, zap.NewNop())
	eff := r.Run(`while true do end`, scripting.CasterInfo{}, scripting.TargetInfo{})
	assert.Equal(t, scripting.Effect{}, eff)
}
