// Package monster provides live monster instances, their per-tick AI, and
// loot generation.
package monster

import (
	"time"

	"github.com/google/uuid"

	"github.com/ravenstone/murpg/internal/game/content"
)

// Instance is a live monster occupying the world. Instances are ephemeral:
// created by spawn, removed from the active set in the tick their HP reaches
// zero. The template's single hp value becomes the instance's spawn-time
// maximum; current and max are tracked separately from then on.
type Instance struct {
	// ID uniquely identifies this runtime instance.
	ID string
	// TemplateID is the source template's id.
	TemplateID int
	// Name is copied from the template for display.
	Name string
	// Kind is the sprite-selection key copied from the template.
	Kind string
	// Level is copied from the template.
	Level int
	// X, Y is the world position.
	X, Y float64
	// HP is the current hit points, decremented by combat.
	HP int
	// MaxHP is the spawn-time maximum, copied from the template.
	MaxHP int
	// Damage is the per-attack damage dealt to the player.
	Damage int
	// Exp is the experience granted to the player on kill.
	Exp int
	// DropRate is the percent chance this monster drops loot on death.
	DropRate float64
	// Color is the fallback render color.
	Color string
	// Image is the optional sprite name.
	Image string
	// LastAttack is the wall-clock time of the last attack on the player;
	// zero until the first attack.
	LastAttack time.Time
}

// Spawn creates a live instance of tmpl at the given position.
//
// Postcondition: HP == MaxHP == tmpl.MaxHP; the instance id is unique.
func Spawn(tmpl content.MonsterTemplate, x, y float64) *Instance {
	return &Instance{
		ID:         uuid.New().String(),
		TemplateID: tmpl.ID,
		Name:       tmpl.Name,
		Kind:       tmpl.Kind,
		Level:      tmpl.Level,
		X:          x,
		Y:          y,
		HP:         tmpl.MaxHP,
		MaxHP:      tmpl.MaxHP,
		Damage:     tmpl.Damage,
		Exp:        tmpl.Exp,
		DropRate:   tmpl.DropRate,
		Color:      tmpl.Color,
		Image:      tmpl.Image,
	}
}

// Dead reports whether the instance has zero or fewer hit points. Dead
// monsters are excluded from AI, rendering, and targeting within the tick
// they die.
func (m *Instance) Dead() bool {
	return m.HP <= 0
}
