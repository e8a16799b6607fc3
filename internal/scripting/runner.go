package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// CasterInfo is a snapshot of the casting player's state passed to Lua.
type CasterInfo struct {
	Level     int
	HP        int
	MaxHP     int
	MP        int
	MaxMP     int
	Strength  int
	Agility   int
	Vitality  int
	Energy    int
	DamageMin int
	DamageMax int
}

// TargetInfo is a snapshot of the skill target passed to Lua. For
// self-targeted skills Present is false and the target table is nil.
type TargetInfo struct {
	Present bool
	Name    string
	Level   int
	HP      int
	MaxHP   int
}

// Effect is the outcome a skill script produces. Zero value means the
// script had no effect.
type Effect struct {
	Damage int
	Heal   int
	Mana   int
}

// Runner executes skill scripts in a fresh sandboxed VM per cast. A fresh
// VM keeps scripts stateless between casts and makes the opcode budget
// apply per execution rather than per session.
type Runner struct {
	limit  int
	logger *zap.Logger
}

// NewRunner creates a Runner.
//
// Precondition: logger must be non-nil.
// Postcondition: Returns a non-nil Runner; instLimit <= 0 selects
// DefaultInstructionLimit.
func NewRunner(instLimit int, logger *zap.Logger) *Runner {
	return &Runner{limit: instLimit, logger: logger}
}

// Run executes script with caster and target exposed as Lua globals and
// reads the returned table's damage, heal and mana fields. A script that
// returns nothing, returns a non-table, or raises a runtime error yields
// the zero Effect; script failures are logged at Warn level and never
// propagated to the caller.
//
// Postcondition: All Effect fields are >= 0.
func (r *Runner) Run(script string, caster CasterInfo, target TargetInfo) Effect {
	if script == "" {
		return Effect{}
	}

	L := NewSandboxedState(r.limit)
	defer L.Close()

	L.SetGlobal("caster", casterTable(L, caster))
	if target.Present {
		L.SetGlobal("target", targetTable(L, target))
	} else {
		L.SetGlobal("target", lua.LNil)
	}

	if err := L.DoString(script); err != nil {
		r.logger.Warn("skill script failed",
			zap.Error(err),
		)
		return Effect{}
	}

	ret, ok := L.Get(-1).(*lua.LTable)
	if !ok {
		return Effect{}
	}

	return Effect{
		Damage: tableInt(L, ret, "damage"),
		Heal:   tableInt(L, ret, "heal"),
		Mana:   tableInt(L, ret, "mana"),
	}
}

func casterTable(L *lua.LState, c CasterInfo) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "level", lua.LNumber(c.Level))
	L.SetField(t, "hp", lua.LNumber(c.HP))
	L.SetField(t, "maxHp", lua.LNumber(c.MaxHP))
	L.SetField(t, "mp", lua.LNumber(c.MP))
	L.SetField(t, "maxMp", lua.LNumber(c.MaxMP))
	L.SetField(t, "strength", lua.LNumber(c.Strength))
	L.SetField(t, "agility", lua.LNumber(c.Agility))
	L.SetField(t, "vitality", lua.LNumber(c.Vitality))
	L.SetField(t, "energy", lua.LNumber(c.Energy))
	L.SetField(t, "damageMin", lua.LNumber(c.DamageMin))
	L.SetField(t, "damageMax", lua.LNumber(c.DamageMax))
	return t
}

func targetTable(L *lua.LState, tg TargetInfo) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "name", lua.LString(tg.Name))
	L.SetField(t, "level", lua.LNumber(tg.Level))
	L.SetField(t, "hp", lua.LNumber(tg.HP))
	L.SetField(t, "maxHp", lua.LNumber(tg.MaxHP))
	return t
}

// tableInt reads a numeric field, floors it, and clamps negatives to zero.
func tableInt(L *lua.LState, t *lua.LTable, field string) int {
	v := L.GetField(t, field)
	n, ok := v.(lua.LNumber)
	if !ok {
		return 0
	}
	if n < 0 {
		return 0
	}
	return int(n)
}
