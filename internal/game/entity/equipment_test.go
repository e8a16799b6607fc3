package entity_test

import (
	"testing"

	"github.com/ravenstone/murpg/internal/game/content"
	"github.com/ravenstone/murpg/internal/game/entity"
)

func TestEquipment_CompatibilityRejection(t *testing.T) {
	eq := entity.NewEquipment()
	boots := testItem("Boots", content.ItemBoots)

	if _, ok := eq.Swap(entity.SlotWeapon, boots); ok {
		t.Fatal("boots must not equip into the weapon slot")
	}
	if eq[entity.SlotWeapon] != nil {
		t.Error("rejected swap must leave the slot unchanged")
	}
}

func TestEquipment_RingSlotsAcceptOnlyRings(t *testing.T) {
	eq := entity.NewEquipment()
	ring := testItem("Ring", content.ItemRing)
	amulet := testItem("Amulet", content.ItemAmulet)

	if _, ok := eq.Swap(entity.SlotRing1, ring); !ok {
		t.Error("ring should equip into ring1")
	}
	if _, ok := eq.Swap(entity.SlotRing2, amulet); ok {
		t.Error("amulet must not equip into ring2")
	}
}

func TestEquipment_SwapReturnsDisplacedItem(t *testing.T) {
	eq := entity.NewEquipment()
	old := testItem("Old Ring", content.ItemRing)
	fresh := testItem("New Ring", content.ItemRing)

	eq.Swap(entity.SlotRing1, old)
	displaced, ok := eq.Swap(entity.SlotRing1, fresh)
	if !ok {
		t.Fatal("swap should succeed")
	}
	if displaced != old {
		t.Error("swap must hand back the previous occupant")
	}
	if eq[entity.SlotRing1] != fresh {
		t.Error("new item not in slot")
	}
}

// Dragging a ring onto an occupied ring1 swaps items atomically: across
// inventory and equipment, the same multiset of items exists before and after.
func TestEquipSwap_PreservesItemMultiset(t *testing.T) {
	inv := entity.NewInventory()
	eq := entity.NewEquipment()

	worn := testItem("Worn Ring", content.ItemRing)
	bagged := testItem("Bagged Ring", content.ItemRing)
	eq.Swap(entity.SlotRing1, worn)
	inv.Set(5, bagged)

	// The drag-drop path: pull from inventory, swap into the slot, place the
	// displaced item back where the dragged one came from.
	dragged := inv.RemoveAt(5)
	displaced, ok := eq.Swap(entity.SlotRing1, dragged)
	if !ok {
		t.Fatal("swap should succeed")
	}
	inv.Set(5, displaced)

	if eq[entity.SlotRing1] != bagged {
		t.Error("bagged ring should now be worn")
	}
	if inv.At(5) != worn {
		t.Error("worn ring should now be bagged")
	}

	count := eq.Count() + len(inv.Occupied())
	if count != 2 {
		t.Errorf("item multiset changed: %d items total", count)
	}
}

func TestEquipment_PreferredSlotRingFallthrough(t *testing.T) {
	eq := entity.NewEquipment()

	slot, ok := eq.PreferredSlot(content.ItemRing)
	if !ok || slot != entity.SlotRing1 {
		t.Errorf("empty paperdoll should prefer ring1, got %q", slot)
	}

	eq.Swap(entity.SlotRing1, testItem("Ring", content.ItemRing))
	slot, ok = eq.PreferredSlot(content.ItemRing)
	if !ok || slot != entity.SlotRing2 {
		t.Errorf("occupied ring1 should fall through to ring2, got %q", slot)
	}
}

func TestEquipment_PreferredSlotUnequippable(t *testing.T) {
	eq := entity.NewEquipment()
	if _, ok := eq.PreferredSlot(content.ItemPotion); ok {
		t.Error("potions have no paperdoll slot")
	}
}

func TestItemInstance_IndependentOfTemplate(t *testing.T) {
	tmpl := content.ItemTemplate{
		ID: 9, Name: "Potion", Type: content.ItemPotion, Level: 1,
		Stackable: true, Count: 3,
	}
	inst := entity.NewItemInstance(tmpl)

	inst.Count--
	inst.Name = "Sipped Potion"
	if tmpl.Count != 3 || tmpl.Name != "Potion" {
		t.Error("mutating an instance must never alter the template")
	}
	if inst.InstanceID == "" {
		t.Error("instance id must be assigned")
	}
}

func TestItemInstance_StackableCountDefaultsToOne(t *testing.T) {
	inst := entity.NewItemInstance(content.ItemTemplate{
		ID: 1, Name: "Scrap", Type: content.ItemScroll, Level: 1, Stackable: true,
	})
	if inst.Count != 1 {
		t.Errorf("Count = %d, want 1", inst.Count)
	}
}
