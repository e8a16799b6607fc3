package entity

import (
	"github.com/ravenstone/murpg/internal/game/content"
)

// Slot identifies one paperdoll equipment slot.
type Slot string

const (
	SlotWeapon Slot = "weapon"
	SlotArmor  Slot = "armor"
	SlotHelm   Slot = "helm"
	SlotGloves Slot = "gloves"
	SlotPants  Slot = "pants"
	SlotBoots  Slot = "boots"
	SlotRing1  Slot = "ring1"
	SlotRing2  Slot = "ring2"
	SlotAmulet Slot = "amulet"
	SlotWings  Slot = "wings"
	SlotPet    Slot = "pet"
	SlotShield Slot = "shield"
)

// Slots lists every paperdoll slot in display order.
var Slots = []Slot{
	SlotWeapon, SlotArmor, SlotHelm, SlotGloves, SlotPants, SlotBoots,
	SlotRing1, SlotRing2, SlotAmulet, SlotWings, SlotPet, SlotShield,
}

// slotCompat maps each slot to the item types it accepts. Items never sit in
// an incompatible slot.
var slotCompat = map[Slot]content.ItemType{
	SlotWeapon: content.ItemWeapon,
	SlotArmor:  content.ItemArmor,
	SlotHelm:   content.ItemHelm,
	SlotGloves: content.ItemGloves,
	SlotPants:  content.ItemPants,
	SlotBoots:  content.ItemBoots,
	SlotRing1:  content.ItemRing,
	SlotRing2:  content.ItemRing,
	SlotAmulet: content.ItemAmulet,
	SlotWings:  content.ItemWings,
	SlotPet:    content.ItemPet,
	SlotShield: content.ItemShield,
}

// ValidSlot reports whether s names a paperdoll slot.
func ValidSlot(s Slot) bool {
	_, ok := slotCompat[s]
	return ok
}

// CanEquip reports whether item's type is compatible with slot.
func CanEquip(item *ItemInstance, slot Slot) bool {
	want, ok := slotCompat[slot]
	return ok && item != nil && item.Type == want
}

// Equipment is the paperdoll: a fixed set of named slots each holding an
// item instance or nothing.
type Equipment map[Slot]*ItemInstance

// NewEquipment returns an empty paperdoll with every slot present.
func NewEquipment() Equipment {
	eq := make(Equipment, len(Slots))
	for _, s := range Slots {
		eq[s] = nil
	}
	return eq
}

// Swap places item into slot and returns whatever was previously there.
// The exchange is atomic: the caller receives the displaced item (possibly
// nil) and is responsible for placing it elsewhere — nothing is silently
// overwritten.
//
// Precondition: the item's type must be compatible with slot; callers check
// with CanEquip. Swap with an incompatible item returns (nil, false) and
// changes nothing.
func (eq Equipment) Swap(slot Slot, item *ItemInstance) (*ItemInstance, bool) {
	if item != nil && !CanEquip(item, slot) {
		return nil, false
	}
	if !ValidSlot(slot) {
		return nil, false
	}
	prev := eq[slot]
	eq[slot] = item
	return prev, true
}

// Unequip empties slot and returns its previous occupant.
func (eq Equipment) Unequip(slot Slot) *ItemInstance {
	if !ValidSlot(slot) {
		return nil
	}
	prev := eq[slot]
	eq[slot] = nil
	return prev
}

// PreferredSlot returns the natural slot for an item type. Rings prefer
// ring1 and fall through to ring2 when ring1 is occupied.
func (eq Equipment) PreferredSlot(itemType content.ItemType) (Slot, bool) {
	if itemType == content.ItemRing {
		if eq[SlotRing1] != nil {
			return SlotRing2, true
		}
		return SlotRing1, true
	}
	for _, s := range Slots {
		if slotCompat[s] == itemType {
			return s, true
		}
	}
	return "", false
}

// Count returns the number of occupied slots.
func (eq Equipment) Count() int {
	n := 0
	for _, item := range eq {
		if item != nil {
			n++
		}
	}
	return n
}
