package core

import "testing"

func TestBehavior_OfferRequestRules(t *testing.T) {
	tests := []struct {
		name        string
		behavior    Behavior
		stock       int
		capacity    int
		offerQty    int
		wantOffer   bool
		requestQty  int
		wantRequest bool
	}{
		{"storage offers stock", StorageBehavior(), 5, 10, 3, true, 3, true},
		{"storage rejects overflow", StorageBehavior(), 5, 10, 3, true, 6, false},
		{"active supply never requests", ActiveSupplyBehavior(), 5, 10, 2, true, 1, false},
		{"passive supply never requests", PassiveSupplyBehavior(), 5, 10, 5, true, 1, false},
		{"supply cannot offer beyond stock", ActiveSupplyBehavior(), 2, 10, 3, false, 0, false},
		{"buffer offers above low", BufferBehavior(2, 8), 5, 10, 3, true, 2, true},
		{"buffer holds at low threshold", BufferBehavior(5, 8), 5, 10, 1, false, 2, true},
		{"buffer stops requesting at high", BufferBehavior(2, 5), 5, 10, 3, true, 1, false},
		{"request never offers", RequestBehavior(10), 5, 10, 1, false, 2, true},
		{"request stops at cap", RequestBehavior(5), 5, 10, 0, false, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChest("c1", Point{X: 1, Y: 1}, tt.capacity, tt.behavior)
			if tt.stock > 0 {
				if err := c.Inventory.Add("bolt", tt.stock); err != nil {
					t.Fatalf("seed inventory: %v", err)
				}
			}
			if tt.offerQty > 0 || tt.wantOffer {
				if got := c.CanOffer("bolt", tt.offerQty); got != tt.wantOffer {
					t.Errorf("CanOffer(%d) = %v, want %v", tt.offerQty, got, tt.wantOffer)
				}
			}
			if tt.requestQty > 0 || tt.wantRequest {
				if got := c.CanRequest("bolt", tt.requestQty); got != tt.wantRequest {
					t.Errorf("CanRequest(%d) = %v, want %v", tt.requestQty, got, tt.wantRequest)
				}
			}
		})
	}
}

func TestBehavior_RequestPriorityOrdering(t *testing.T) {
	c := NewChest("c1", Point{}, 10, StorageBehavior())

	request := RequestBehavior(10).RequestPriority("bolt", c)
	buffer := BufferBehavior(1, 5).RequestPriority("bolt", c)
	storage := StorageBehavior().RequestPriority("bolt", c)
	passive := PassiveSupplyBehavior().RequestPriority("bolt", c)
	active := ActiveSupplyBehavior().RequestPriority("bolt", c)

	if !(request > buffer && buffer > storage && storage == passive && passive > active) {
		t.Errorf("priority ordering broken: request=%d buffer=%d storage=%d passive=%d active=%d",
			request, buffer, storage, passive, active)
	}
}

func TestChest_ItemBehaviorOverride(t *testing.T) {
	c := NewChest("c1", Point{}, 10, StorageBehavior())
	c.SetItemBehavior("gear", RequestBehavior(5))

	if c.BehaviorFor("bolt").Kind != BehaviorStorage {
		t.Error("non-overridden item should use the default behavior")
	}
	if c.BehaviorFor("gear").Kind != BehaviorRequest {
		t.Error("overridden item should use the override")
	}
}

func TestChest_DepositRespectsCapacity(t *testing.T) {
	c := NewChest("c1", Point{}, 5, StorageBehavior())
	if err := c.Deposit("bolt", 4); err != nil {
		t.Fatalf("Deposit(4): %v", err)
	}
	err := c.Deposit("bolt", 2)
	if err == nil {
		t.Fatal("Deposit over capacity should fail")
	}
	if c.Inventory.Total() != 4 {
		t.Errorf("failed deposit must not mutate: total = %d, want 4", c.Inventory.Total())
	}
}
