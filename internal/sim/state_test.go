package sim

import (
	"testing"

	"github.com/elektrokombinacija/logibots/internal/core"
)

func TestState_AddOrderRejectsDuplicateID(t *testing.T) {
	st := NewState(core.NewGrid(core.Point{}, 5, 5))
	if err := st.AddChest(core.NewChest("dst", core.Point{X: 2, Y: 2}, 10, core.RequestBehavior(10))); err != nil {
		t.Fatal(err)
	}

	if err := st.AddOrder(core.NewOrder("o1", "bolt", 1, "", "dst", core.PriorityLow)); err != nil {
		t.Fatal(err)
	}
	if err := st.AddOrder(core.NewOrder("o1", "bolt", 3, "", "dst", core.PriorityHigh)); err == nil {
		t.Error("duplicate order id must be rejected")
	}
	if len(st.Orders) != 1 {
		t.Fatalf("%d orders stored, want 1", len(st.Orders))
	}
}

func TestState_AddOrderValidation(t *testing.T) {
	st := NewState(core.NewGrid(core.Point{}, 5, 5))
	if err := st.AddChest(core.NewChest("dst", core.Point{X: 2, Y: 2}, 10, core.RequestBehavior(10))); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		order *core.Order
	}{
		{"unknown destination", core.NewOrder("o1", "bolt", 1, "", "nowhere", core.PriorityLow)},
		{"unknown origin", core.NewOrder("o2", "bolt", 1, "nowhere", "dst", core.PriorityLow)},
		{"non-positive quantity", core.NewOrder("o3", "bolt", 0, "", "dst", core.PriorityLow)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := st.AddOrder(tt.order); err == nil {
				t.Error("want error, got nil")
			}
		})
	}
	if len(st.Orders) != 0 {
		t.Fatalf("%d orders stored, want 0", len(st.Orders))
	}
}
