package core

import "fmt"

// ChestID is a unique chest identifier.
type ChestID string

// Chest is a fixed storage node with a capacity, an inventory and an
// exchange policy. Position is immutable after construction.
type Chest struct {
	ID        ChestID
	Pos       Point
	Capacity  int
	Inventory *Inventory

	defaultBehavior Behavior
	overrides       map[Item]Behavior
}

// NewChest creates an empty chest governed by the given default behavior.
func NewChest(id ChestID, pos Point, capacity int, behavior Behavior) *Chest {
	return &Chest{
		ID:              id,
		Pos:             pos,
		Capacity:        capacity,
		Inventory:       NewInventory(),
		defaultBehavior: behavior,
		overrides:       make(map[Item]Behavior),
	}
}

// SetItemBehavior overrides the policy for a single item.
func (c *Chest) SetItemBehavior(item Item, b Behavior) {
	c.overrides[item] = b
}

// BehaviorFor returns the policy governing an item.
func (c *Chest) BehaviorFor(item Item) Behavior {
	if b, ok := c.overrides[item]; ok {
		return b
	}
	return c.defaultBehavior
}

// DefaultBehavior returns the chest-wide policy.
func (c *Chest) DefaultBehavior() Behavior {
	return c.defaultBehavior
}

// CanOffer reports whether the chest may hand out qty units of item under
// its governing policy and live inventory.
func (c *Chest) CanOffer(item Item, qty int) bool {
	return c.BehaviorFor(item).CanOffer(item, qty, c)
}

// CanRequest reports whether the chest may accept qty units of item.
func (c *Chest) CanRequest(item Item, qty int) bool {
	return c.BehaviorFor(item).CanRequest(item, qty, c)
}

// RequestPriority returns the urgency with which the chest wants item.
func (c *Chest) RequestPriority(item Item) int {
	return c.BehaviorFor(item).RequestPriority(item, c)
}

// Deposit adds qty units of item, rejecting overflow before mutation.
func (c *Chest) Deposit(item Item, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("deposit %q into %s: quantity must be positive, got %d", item, c.ID, qty)
	}
	if c.Inventory.Total()+qty > c.Capacity {
		return fmt.Errorf("deposit %d %q into %s: %w", qty, item, c.ID, ErrCapacityExceeded)
	}
	return c.Inventory.Add(item, qty)
}

// Withdraw removes qty units of item. Returns false without mutating when
// the chest holds less than qty.
func (c *Chest) Withdraw(item Item, qty int) bool {
	return c.Inventory.Remove(item, qty)
}

// FreeSpace returns the remaining capacity.
func (c *Chest) FreeSpace() int {
	return c.Capacity - c.Inventory.Total()
}
