package entity

// InventorySize is the fixed slot count. Slot index is positional identity:
// items do not carry a slot reference.
const InventorySize = 64

// Inventory is a fixed-capacity sequence of item slots.
//
// Invariant: len(Items) == InventorySize at all times.
type Inventory struct {
	Items []*ItemInstance `json:"items"`
}

// NewInventory returns an empty inventory of exactly InventorySize slots.
func NewInventory() *Inventory {
	return &Inventory{Items: make([]*ItemInstance, InventorySize)}
}

// Normalize repairs the slot count after deserializing external data,
// truncating overflow and padding missing slots with empties.
func (inv *Inventory) Normalize() {
	if len(inv.Items) > InventorySize {
		inv.Items = inv.Items[:InventorySize]
	}
	for len(inv.Items) < InventorySize {
		inv.Items = append(inv.Items, nil)
	}
}

// At returns the item at index, or nil for empty or out-of-range slots.
func (inv *Inventory) At(index int) *ItemInstance {
	if index < 0 || index >= len(inv.Items) {
		return nil
	}
	return inv.Items[index]
}

// Add places item into the first empty slot, scanning left to right.
//
// Postcondition: returns the slot index used, or -1 with false when the
// inventory is full; a full inventory is left unchanged.
func (inv *Inventory) Add(item *ItemInstance) (int, bool) {
	for i, slot := range inv.Items {
		if slot == nil {
			inv.Items[i] = item
			return i, true
		}
	}
	return -1, false
}

// RemoveAt empties the slot at index and returns its previous occupant.
// Out-of-range indices are rejected with nil.
func (inv *Inventory) RemoveAt(index int) *ItemInstance {
	if index < 0 || index >= len(inv.Items) {
		return nil
	}
	item := inv.Items[index]
	inv.Items[index] = nil
	return item
}

// Set places item at index, returning false for out-of-range indices.
func (inv *Inventory) Set(index int, item *ItemInstance) bool {
	if index < 0 || index >= len(inv.Items) {
		return false
	}
	inv.Items[index] = item
	return true
}

// MoveOrSwap exchanges the contents of two slots. Moving onto an occupied
// slot swaps the two items; neither is lost.
func (inv *Inventory) MoveOrSwap(src, dst int) bool {
	if src < 0 || src >= len(inv.Items) || dst < 0 || dst >= len(inv.Items) {
		return false
	}
	inv.Items[src], inv.Items[dst] = inv.Items[dst], inv.Items[src]
	return true
}

// Occupied returns the indices of non-empty slots.
func (inv *Inventory) Occupied() []int {
	var out []int
	for i, slot := range inv.Items {
		if slot != nil {
			out = append(out, i)
		}
	}
	return out
}

// Full reports whether no empty slot remains.
func (inv *Inventory) Full() bool {
	for _, slot := range inv.Items {
		if slot == nil {
			return false
		}
	}
	return true
}
