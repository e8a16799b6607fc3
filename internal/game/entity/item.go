// Package entity holds the player, inventory, and equipment state plus the
// derived-stat computation.
package entity

import (
	"github.com/google/uuid"

	"github.com/ravenstone/murpg/internal/game/content"
)

// ItemInstance is a live, independently mutable copy of an item template.
// Once created it never shares identity with its template: mutating an
// instance (count decrement on use, editor tweaks) must never alter the
// template.
type ItemInstance struct {
	InstanceID  string            `json:"instanceId"`
	TemplateID  int               `json:"templateId"`
	Name        string            `json:"name"`
	Type        content.ItemType  `json:"type"`
	Rarity      content.Rarity    `json:"rarity"`
	Level       int               `json:"level"`
	Width       int               `json:"width"`
	Height      int               `json:"height"`
	Stats       content.ItemStats `json:"stats"`
	Description string            `json:"description"`
	Stackable   bool              `json:"stackable"`
	Count       int               `json:"count,omitempty"`
	Image       string            `json:"image,omitempty"`
}

// NewItemInstance clones a template into a fresh instance.
//
// Postcondition: the instance carries a unique id; stackable instances start
// with the template count, defaulting to 1.
func NewItemInstance(tmpl content.ItemTemplate) *ItemInstance {
	count := 0
	if tmpl.Stackable {
		count = tmpl.Count
		if count < 1 {
			count = 1
		}
	}
	return &ItemInstance{
		InstanceID:  uuid.New().String(),
		TemplateID:  tmpl.ID,
		Name:        tmpl.Name,
		Type:        tmpl.Type,
		Rarity:      tmpl.Rarity,
		Level:       tmpl.Level,
		Width:       tmpl.Width,
		Height:      tmpl.Height,
		Stats:       tmpl.Stats,
		Description: tmpl.Description,
		Stackable:   tmpl.Stackable,
		Count:       count,
		Image:       tmpl.Image,
	}
}

// Equippable reports whether this item can occupy a paperdoll slot.
func (i *ItemInstance) Equippable() bool {
	switch i.Type {
	case content.ItemPotion, content.ItemScroll:
		return false
	default:
		return true
	}
}
