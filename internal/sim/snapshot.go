package sim

import "github.com/elektrokombinacija/logibots/internal/core"

// Snapshot is an immutable copy of the observable simulation state taken
// after a tick. Observers get value copies only; nothing here aliases
// engine-owned memory.
type Snapshot struct {
	Cycle  int             `json:"cycle"`
	Stable bool            `json:"stable"`
	Grid   GridSnapshot    `json:"grid"`
	Robots []RobotSnapshot `json:"robots"`
	Chests []ChestSnapshot `json:"chests"`
	Ports  []PortSnapshot  `json:"ports"`
	Orders []OrderSnapshot `json:"orders"`
}

type GridSnapshot struct {
	OriginX int `json:"origin_x"`
	OriginY int `json:"origin_y"`
	Width   int `json:"width"`
	Height  int `json:"height"`
}

type RobotSnapshot struct {
	ID         core.RobotID      `json:"id"`
	X          int               `json:"x"`
	Y          int               `json:"y"`
	Battery    int               `json:"battery"`
	MaxBattery int               `json:"max_battery"`
	Capacity   int               `json:"capacity"`
	State      string            `json:"state"`
	Cargo      map[core.Item]int `json:"cargo,omitempty"`
	Route      []core.Point      `json:"route,omitempty"`
	Pending    int               `json:"pending_orders"`
}

type ChestSnapshot struct {
	ID        core.ChestID      `json:"id"`
	X         int               `json:"x"`
	Y         int               `json:"y"`
	Capacity  int               `json:"capacity"`
	Inventory map[core.Item]int `json:"inventory,omitempty"`
	Behavior  string            `json:"behavior"`
	Reachable bool              `json:"reachable"`
}

type PortSnapshot struct {
	ID           core.PortID    `json:"id"`
	X            int            `json:"x"`
	Y            int            `json:"y"`
	Range        float64        `json:"range"`
	RechargeRate int            `json:"recharge_rate"`
	CoveredIDs   []core.ChestID `json:"covered_chests,omitempty"`
}

type OrderSnapshot struct {
	ID       core.OrderID `json:"id"`
	Item     core.Item    `json:"item"`
	Quantity int          `json:"quantity"`
	OriginID core.ChestID `json:"origin"`
	DestID   core.ChestID `json:"destination"`
	Priority string       `json:"priority"`
	Status   string       `json:"status"`
}

// Snapshot captures the current observable state under the tick mutex.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.state
	snap := Snapshot{
		Cycle:  s.Cycle,
		Stable: e.stableLocked(),
		Grid: GridSnapshot{
			OriginX: s.Grid.Origin.X,
			OriginY: s.Grid.Origin.Y,
			Width:   s.Grid.Width,
			Height:  s.Grid.Height,
		},
	}

	for _, id := range s.sortedRobotIDs() {
		r := s.Robots[id]
		snap.Robots = append(snap.Robots, RobotSnapshot{
			ID:         r.ID,
			X:          r.Pos.X,
			Y:          r.Pos.Y,
			Battery:    r.Battery,
			MaxBattery: r.MaxBattery,
			Capacity:   r.Capacity,
			State:      r.State.String(),
			Cargo:      r.Cargo(),
			Route:      append([]core.Point(nil), r.Route...),
			Pending:    r.PendingOrders(),
		})
	}

	for _, id := range s.sortedChestIDs() {
		c := s.Chests[id]
		snap.Chests = append(snap.Chests, ChestSnapshot{
			ID:        c.ID,
			X:         c.Pos.X,
			Y:         c.Pos.Y,
			Capacity:  c.Capacity,
			Inventory: c.Inventory.Items(),
			Behavior:  c.DefaultBehavior().Kind.String(),
			Reachable: s.IsReachable(c.ID),
		})
	}

	for _, id := range s.sortedPortIDs() {
		rp := s.Ports[id]
		ps := PortSnapshot{
			ID:           rp.ID,
			X:            rp.Pos.X,
			Y:            rp.Pos.Y,
			Range:        rp.Range,
			RechargeRate: rp.RechargeRate,
		}
		for _, cid := range s.sortedChestIDs() {
			if rp.Covers(s.Chests[cid].Pos) {
				ps.CoveredIDs = append(ps.CoveredIDs, cid)
			}
		}
		snap.Ports = append(snap.Ports, ps)
	}

	for _, o := range s.Orders {
		snap.Orders = append(snap.Orders, OrderSnapshot{
			ID:       o.ID,
			Item:     o.Item,
			Quantity: o.Quantity,
			OriginID: o.OriginID,
			DestID:   o.DestID,
			Priority: o.Priority.String(),
			Status:   o.Status.String(),
		})
	}
	return snap
}
