package sim

import (
	"testing"

	"github.com/elektrokombinacija/logibots/internal/core"
	"github.com/elektrokombinacija/logibots/internal/sim/tuning"
)

// fleetFixture builds a 7x3 corridor with one port, one supply chest, one
// requesting chest and one robot parked at the port.
//
//	P . S . . R .
//
// P = port (0,1), S = supply chest (2,1), R = request chest (5,1).
func fleetFixture(t *testing.T) (*Engine, *State) {
	t.Helper()
	st := NewState(core.NewGrid(core.Point{}, 7, 3))

	if err := st.AddRoboPort(core.NewRoboPort("port-1", core.Point{X: 0, Y: 1}, 10, 50)); err != nil {
		t.Fatal(err)
	}

	src := core.NewChest("src", core.Point{X: 2, Y: 1}, 20, core.PassiveSupplyBehavior())
	if err := src.Deposit("bolt", 5); err != nil {
		t.Fatal(err)
	}
	if err := st.AddChest(src); err != nil {
		t.Fatal(err)
	}
	if err := st.AddChest(core.NewChest("dst", core.Point{X: 5, Y: 1}, 20, core.RequestBehavior(20))); err != nil {
		t.Fatal(err)
	}

	if err := st.AddRobot(core.NewRobot("robot-1", core.Point{X: 0, Y: 1}, 100, 10)); err != nil {
		t.Fatal(err)
	}

	return NewEngine(st, tuning.Defaults(), nil, nil), st
}

// runUntilStable ticks the engine until stability or the cycle limit.
func runUntilStable(t *testing.T, e *Engine, limit int) int {
	t.Helper()
	for i := 0; i < limit; i++ {
		if st := e.Tick(); st.Stable {
			return st.Cycle
		}
	}
	t.Fatalf("not stable within %d cycles", limit)
	return 0
}

// itemTotal sums one item across every chest and every robot's cargo.
func itemTotal(st *State, item core.Item) int {
	total := 0
	for _, c := range st.Chests {
		total += c.Inventory.Quantity(item)
	}
	for _, r := range st.Robots {
		total += r.CargoQuantity(item)
	}
	return total
}

func TestEngine_DeliversOrderAndStabilizes(t *testing.T) {
	e, st := fleetFixture(t)
	order := core.NewOrder("o1", "bolt", 2, "src", "dst", core.PriorityHigh)
	if err := e.AddOrder(order); err != nil {
		t.Fatal(err)
	}

	runUntilStable(t, e, 50)

	if order.Status != core.OrderCompleted {
		t.Errorf("order status = %v, want COMPLETED", order.Status)
	}
	if got := st.Chests["dst"].Inventory.Quantity("bolt"); got != 2 {
		t.Errorf("destination holds %d bolt, want 2", got)
	}
	if got := st.Chests["src"].Inventory.Quantity("bolt"); got != 3 {
		t.Errorf("source holds %d bolt, want 3", got)
	}

	r := st.Robots["robot-1"]
	if r.Carrying() {
		t.Error("robot should have delivered all cargo")
	}
	if st.PortAt(r.Pos) == nil {
		t.Errorf("robot parked at %v, want a port cell", r.Pos)
	}
	if !r.FullyCharged() || r.State != core.StateActive {
		t.Errorf("robot battery %d/%d state %v, want fully charged ACTIVE", r.Battery, r.MaxBattery, r.State)
	}
}

func TestEngine_ItemsAreConserved(t *testing.T) {
	e, st := fleetFixture(t)
	if err := e.AddOrder(core.NewOrder("o1", "bolt", 2, "src", "dst", core.PriorityHigh)); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 50; i++ {
		stable := e.Tick().Stable
		if got := itemTotal(st, "bolt"); got != 5 {
			t.Fatalf("cycle %d: %d bolt in the world, want 5", st.Cycle, got)
		}
		if stable {
			return
		}
	}
	t.Fatal("not stable within 50 cycles")
}

func TestEngine_StabilityIsIdempotent(t *testing.T) {
	e, st := fleetFixture(t)
	if err := e.AddOrder(core.NewOrder("o1", "bolt", 2, "src", "dst", core.PriorityHigh)); err != nil {
		t.Fatal(err)
	}
	runUntilStable(t, e, 50)

	pos := st.Robots["robot-1"].Pos
	for i := 0; i < 3; i++ {
		if st := e.Tick(); !st.Stable {
			t.Fatalf("tick %d after stability: stable = false", i+1)
		}
	}
	if st.Robots["robot-1"].Pos != pos {
		t.Error("robot moved after stability")
	}
}

func TestEngine_DestinationFullFailsOrder(t *testing.T) {
	e, st := fleetFixture(t)
	// Shrink the destination so the delivery cannot fit.
	st.Chests["dst"] = core.NewChest("dst", core.Point{X: 5, Y: 1}, 1, core.RequestBehavior(20))

	order := core.NewOrder("o1", "bolt", 2, "src", "dst", core.PriorityHigh)
	if err := e.AddOrder(order); err != nil {
		t.Fatal(err)
	}

	status := e.Tick()
	if !status.Stable {
		t.Error("fleet with only a rejected order must be stable")
	}
	if order.Status != core.OrderFailed {
		t.Errorf("order status = %v, want FAILED", order.Status)
	}
	if !st.Chests["dst"].Inventory.Empty() {
		t.Error("destination must stay empty after a rejected delivery")
	}
	// Rejected at dispatch; the source is never depleted for it.
	if got := st.Chests["src"].Inventory.Quantity("bolt"); got != 5 {
		t.Errorf("source holds %d bolt, want untouched 5", got)
	}
	r := st.Robots["robot-1"]
	if r.Carrying() || r.Pos != (core.Point{X: 0, Y: 1}) {
		t.Errorf("robot must not move for an undeliverable order, pos %v cargo %v", r.Pos, r.Carrying())
	}
}

func TestEngine_RetryCloneIsIssuedOnce(t *testing.T) {
	e, st := fleetFixture(t)
	st.Chests["dst"] = core.NewChest("dst", core.Point{X: 5, Y: 1}, 1, core.RequestBehavior(20))

	if err := e.AddOrder(core.NewOrder("o1", "bolt", 2, "src", "dst", core.PriorityHigh)); err != nil {
		t.Fatal(err)
	}
	runUntilStable(t, e, 60)

	if len(st.Orders) != 2 {
		t.Fatalf("%d orders in the world, want original plus one retry clone", len(st.Orders))
	}
	clone := st.Orders[1]
	if clone.RetryKey() != st.Orders[0].RetryKey() {
		t.Error("clone must share the original's retry key")
	}
	if clone.Status != core.OrderFailed {
		t.Errorf("clone status = %v, want FAILED", clone.Status)
	}
}

func TestEngine_InfeasibleBatteryFailsWithoutMoving(t *testing.T) {
	st := NewState(core.NewGrid(core.Point{}, 12, 3))
	if err := st.AddRoboPort(core.NewRoboPort("port-1", core.Point{X: 0, Y: 1}, 20, 10)); err != nil {
		t.Fatal(err)
	}
	src := core.NewChest("src", core.Point{X: 5, Y: 1}, 20, core.PassiveSupplyBehavior())
	if err := src.Deposit("bolt", 2); err != nil {
		t.Fatal(err)
	}
	if err := st.AddChest(src); err != nil {
		t.Fatal(err)
	}
	if err := st.AddChest(core.NewChest("dst", core.Point{X: 9, Y: 1}, 20, core.RequestBehavior(20))); err != nil {
		t.Fatal(err)
	}
	// Max battery far below the mission cost; recharging cannot help.
	if err := st.AddRobot(core.NewRobot("robot-1", core.Point{X: 0, Y: 1}, 5, 10)); err != nil {
		t.Fatal(err)
	}
	e := NewEngine(st, tuning.Defaults(), nil, nil)

	order := core.NewOrder("o1", "bolt", 1, "src", "dst", core.PriorityHigh)
	if err := e.AddOrder(order); err != nil {
		t.Fatal(err)
	}

	status := e.Tick()
	if !status.Stable {
		t.Error("fleet with only terminal orders and a parked robot must be stable")
	}
	if order.Status != core.OrderFailed {
		t.Errorf("order status = %v, want FAILED", order.Status)
	}
	r := st.Robots["robot-1"]
	if r.Pos != (core.Point{X: 0, Y: 1}) {
		t.Errorf("robot moved to %v despite infeasible mission", r.Pos)
	}
	if r.Battery != r.MaxBattery {
		t.Errorf("battery = %d, want untouched %d", r.Battery, r.MaxBattery)
	}
}

// A robot dispatched near the continue threshold must abort, head home and
// recharge instead of stalling PASSIVE mid-corridor. The fleet still has to
// reach stability.
func TestEngine_LowBatteryMissionAbortsAndRecovers(t *testing.T) {
	e, st := fleetFixture(t)
	r := st.Robots["robot-1"]
	// Enough for the mission cost alone but not for the reserve; binding
	// relies on the recharge fallback and the battery dips below the
	// threshold en route.
	r.Battery = 12

	order := core.NewOrder("o1", "bolt", 2, "src", "dst", core.PriorityHigh)
	if err := e.AddOrder(order); err != nil {
		t.Fatal(err)
	}

	runUntilStable(t, e, 30)

	if order.Status != core.OrderFailed {
		t.Errorf("order status = %v, want FAILED", order.Status)
	}
	if len(st.Orders) != 2 || st.Orders[1].Status != core.OrderFailed {
		t.Fatalf("want the original plus one failed retry clone, got %d orders", len(st.Orders))
	}
	if r.State == core.StateEnMission || st.PortAt(r.Pos) == nil {
		t.Errorf("robot must be back at a port, state %v pos %v", r.State, r.Pos)
	}
	if got := itemTotal(st, "bolt"); got != 5 {
		t.Errorf("%d bolt in the world, want 5", got)
	}
	if r.Battery <= 12 {
		t.Errorf("battery = %d, want recharging under way at the port", r.Battery)
	}
}

func TestEngine_ContendingOrdersServeHighestPriorityFirst(t *testing.T) {
	e, st := fleetFixture(t)
	if err := st.Chests["src"].Deposit("gear", 2); err != nil {
		t.Fatal(err)
	}

	high := core.NewOrder("o-high", "bolt", 2, "src", "dst", core.PriorityHigh)
	low := core.NewOrder("o-low", "gear", 2, "src", "dst", core.PriorityLow)
	// Insert the low-priority order first; priority must still win.
	if err := e.AddOrder(low); err != nil {
		t.Fatal(err)
	}
	if err := e.AddOrder(high); err != nil {
		t.Fatal(err)
	}

	e.Tick()
	if high.Status != core.OrderInProgress && high.Status != core.OrderCompleted {
		t.Errorf("high-priority status = %v, want in progress", high.Status)
	}
	if low.Status != core.OrderFailed {
		t.Errorf("low-priority status = %v, want FAILED while the only robot is busy", low.Status)
	}

	runUntilStable(t, e, 60)
	if high.Status != core.OrderCompleted {
		t.Errorf("high-priority status = %v, want COMPLETED", high.Status)
	}
	if got := st.Chests["dst"].Inventory.Quantity("bolt"); got != 2 {
		t.Errorf("destination holds %d bolt, want 2", got)
	}
	if got := st.Chests["dst"].Inventory.Quantity("gear"); got != 0 {
		t.Errorf("destination holds %d gear, want 0", got)
	}
}

func TestEngine_RobotsNeverShareACell(t *testing.T) {
	st := NewState(core.NewGrid(core.Point{}, 7, 3))
	if err := st.AddRoboPort(core.NewRoboPort("port-1", core.Point{X: 0, Y: 1}, 10, 50)); err != nil {
		t.Fatal(err)
	}
	if err := st.AddRoboPort(core.NewRoboPort("port-2", core.Point{X: 6, Y: 1}, 10, 50)); err != nil {
		t.Fatal(err)
	}
	src := core.NewChest("src", core.Point{X: 2, Y: 1}, 20, core.PassiveSupplyBehavior())
	if err := src.Deposit("bolt", 2); err != nil {
		t.Fatal(err)
	}
	if err := src.Deposit("gear", 2); err != nil {
		t.Fatal(err)
	}
	if err := st.AddChest(src); err != nil {
		t.Fatal(err)
	}
	if err := st.AddChest(core.NewChest("dst", core.Point{X: 5, Y: 1}, 20, core.RequestBehavior(20))); err != nil {
		t.Fatal(err)
	}
	if err := st.AddRobot(core.NewRobot("robot-1", core.Point{X: 0, Y: 1}, 100, 10)); err != nil {
		t.Fatal(err)
	}
	if err := st.AddRobot(core.NewRobot("robot-2", core.Point{X: 6, Y: 1}, 100, 10)); err != nil {
		t.Fatal(err)
	}
	e := NewEngine(st, tuning.Defaults(), nil, nil)

	if err := e.AddOrder(core.NewOrder("o1", "bolt", 2, "src", "dst", core.PriorityHigh)); err != nil {
		t.Fatal(err)
	}
	if err := e.AddOrder(core.NewOrder("o2", "gear", 2, "src", "dst", core.PriorityMedium)); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 40; i++ {
		stable := e.Tick().Stable
		seen := make(map[core.Point]core.RobotID)
		for id, r := range st.Robots {
			if other, taken := seen[r.Pos]; taken {
				t.Fatalf("cycle %d: robots %s and %s share cell %v", st.Cycle, other, id, r.Pos)
			}
			seen[r.Pos] = id
		}
		if got := itemTotal(st, "bolt") + itemTotal(st, "gear"); got != 4 {
			t.Fatalf("cycle %d: %d items in the world, want 4", st.Cycle, got)
		}
		if stable {
			break
		}
	}
}

func TestEngine_OrderToUnreachableDestinationFails(t *testing.T) {
	e, st := fleetFixture(t)
	// A chest outside every port's coverage.
	far := core.NewChest("far", core.Point{X: 6, Y: 2}, 20, core.RequestBehavior(20))
	if err := st.AddChest(far); err != nil {
		t.Fatal(err)
	}
	st.Ports["port-1"].Range = 4

	order := core.NewOrder("o1", "bolt", 1, "src", "far", core.PriorityHigh)
	if err := e.AddOrder(order); err != nil {
		t.Fatal(err)
	}

	e.Tick()
	if order.Status != core.OrderFailed {
		t.Errorf("order status = %v, want FAILED for uncovered destination", order.Status)
	}
}

func TestEngine_RemoveOrderOnlyWhileNew(t *testing.T) {
	e, _ := fleetFixture(t)
	order := core.NewOrder("o1", "bolt", 2, "src", "dst", core.PriorityHigh)
	if err := e.AddOrder(order); err != nil {
		t.Fatal(err)
	}
	if !e.RemoveOrder("o1") {
		t.Error("NEW order should be removable")
	}

	if err := e.AddOrder(order); err != nil {
		t.Fatal(err)
	}
	e.Tick()
	if e.RemoveOrder("o1") {
		t.Error("dispatched order must not be removable")
	}
}
