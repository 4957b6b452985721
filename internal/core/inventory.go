package core

import "fmt"

// Item identifies a transportable good by name.
type Item string

// Inventory maps items to non-negative quantities. It never holds a
// zero-quantity entry; capacity enforcement belongs to the owning chest.
type Inventory struct {
	items map[Item]int
}

// NewInventory creates an empty inventory.
func NewInventory() *Inventory {
	return &Inventory{items: make(map[Item]int)}
}

// Add increases the quantity of an item. Quantity must be positive.
func (inv *Inventory) Add(item Item, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("add %q: quantity must be positive, got %d", item, qty)
	}
	inv.items[item] += qty
	return nil
}

// Remove decreases the quantity of an item. Returns false without mutating
// when the inventory holds less than qty.
func (inv *Inventory) Remove(item Item, qty int) bool {
	if qty <= 0 {
		return false
	}
	have, ok := inv.items[item]
	if !ok || have < qty {
		return false
	}
	if have == qty {
		delete(inv.items, item)
	} else {
		inv.items[item] = have - qty
	}
	return true
}

// Quantity returns the stored quantity of an item (0 when absent).
func (inv *Inventory) Quantity(item Item) int {
	return inv.items[item]
}

// Has reports whether at least qty units of item are stored.
func (inv *Inventory) Has(item Item, qty int) bool {
	return inv.items[item] >= qty
}

// Total returns the sum of all stored quantities.
func (inv *Inventory) Total() int {
	total := 0
	for _, qty := range inv.items {
		total += qty
	}
	return total
}

// Empty reports whether nothing is stored.
func (inv *Inventory) Empty() bool {
	return len(inv.items) == 0
}

// Items returns a copy of the item → quantity mapping.
func (inv *Inventory) Items() map[Item]int {
	out := make(map[Item]int, len(inv.items))
	for item, qty := range inv.items {
		out[item] = qty
	}
	return out
}
