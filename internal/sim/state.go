// Package sim runs the logistics fleet simulation: per-cycle dispatch,
// robot step execution and stability evaluation over a shared state
// aggregate.
package sim

import (
	"fmt"
	"sort"

	"github.com/elektrokombinacija/logibots/internal/core"
)

// State is the simulation aggregate. All entities live in flat id-keyed
// collections; relations are stored as ids and resolved here, never as
// direct back-references.
type State struct {
	Grid   core.Grid
	Chests map[core.ChestID]*core.Chest
	Robots map[core.RobotID]*core.Robot
	Ports  map[core.PortID]*core.RoboPort

	// Orders preserves insertion order; priority sorting in the dispatcher
	// must be stable with respect to it.
	Orders []*core.Order

	Cycle int
}

// NewState creates an empty simulation over the given grid.
func NewState(grid core.Grid) *State {
	return &State{
		Grid:   grid,
		Chests: make(map[core.ChestID]*core.Chest),
		Robots: make(map[core.RobotID]*core.Robot),
		Ports:  make(map[core.PortID]*core.RoboPort),
	}
}

// AddChest registers a chest. The cell must be in-grid and unoccupied.
func (s *State) AddChest(c *core.Chest) error {
	if !s.Grid.Contains(c.Pos) {
		return fmt.Errorf("chest %s at %v: outside grid", c.ID, c.Pos)
	}
	if _, ok := s.Chests[c.ID]; ok {
		return fmt.Errorf("chest %s: duplicate id", c.ID)
	}
	s.Chests[c.ID] = c
	return nil
}

// AddRobot registers a robot.
func (s *State) AddRobot(r *core.Robot) error {
	if !s.Grid.Contains(r.Pos) {
		return fmt.Errorf("robot %s at %v: outside grid", r.ID, r.Pos)
	}
	if _, ok := s.Robots[r.ID]; ok {
		return fmt.Errorf("robot %s: duplicate id", r.ID)
	}
	s.Robots[r.ID] = r
	return nil
}

// AddRoboPort registers a port.
func (s *State) AddRoboPort(rp *core.RoboPort) error {
	if !s.Grid.Contains(rp.Pos) {
		return fmt.Errorf("port %s at %v: outside grid", rp.ID, rp.Pos)
	}
	if _, ok := s.Ports[rp.ID]; ok {
		return fmt.Errorf("port %s: duplicate id", rp.ID)
	}
	s.Ports[rp.ID] = rp
	return nil
}

// AddOrder appends an order. The id must be unique and origin and
// destination must resolve.
func (s *State) AddOrder(o *core.Order) error {
	for _, existing := range s.Orders {
		if existing.ID == o.ID {
			return fmt.Errorf("order %s: duplicate id", o.ID)
		}
	}
	if _, ok := s.Chests[o.OriginID]; o.OriginID != "" && !ok {
		return fmt.Errorf("order %s: unknown origin chest %s", o.ID, o.OriginID)
	}
	if _, ok := s.Chests[o.DestID]; !ok {
		return fmt.Errorf("order %s: unknown destination chest %s", o.ID, o.DestID)
	}
	if o.Quantity <= 0 {
		return fmt.Errorf("order %s: quantity must be positive, got %d", o.ID, o.Quantity)
	}
	s.Orders = append(s.Orders, o)
	return nil
}

// RemoveOrder deletes a non-bound order by id. Orders already in progress
// stay with their robot.
func (s *State) RemoveOrder(id core.OrderID) bool {
	for i, o := range s.Orders {
		if o.ID == id && o.Status == core.OrderNew {
			s.Orders = append(s.Orders[:i], s.Orders[i+1:]...)
			return true
		}
	}
	return false
}

// IsEmpty reports whether no entities are registered.
func (s *State) IsEmpty() bool {
	return len(s.Chests) == 0 && len(s.Robots) == 0 && len(s.Ports) == 0 && len(s.Orders) == 0
}

// IsReachable reports whether a chest lies inside the grid and within at
// least one port's coverage.
func (s *State) IsReachable(id core.ChestID) bool {
	c, ok := s.Chests[id]
	if !ok || !s.Grid.Contains(c.Pos) {
		return false
	}
	for _, rp := range s.Ports {
		if rp.Covers(c.Pos) {
			return true
		}
	}
	return false
}

// InCoverage reports whether any port covers p.
func (s *State) InCoverage(p core.Point) bool {
	for _, rp := range s.Ports {
		if rp.Covers(p) {
			return true
		}
	}
	return false
}

// RobotAt returns the robot standing on p, or nil.
func (s *State) RobotAt(p core.Point) *core.Robot {
	for _, r := range s.Robots {
		if r.Pos == p {
			return r
		}
	}
	return nil
}

// ChestAt returns the chest occupying p, or nil.
func (s *State) ChestAt(p core.Point) *core.Chest {
	for _, c := range s.Chests {
		if c.Pos == p {
			return c
		}
	}
	return nil
}

// PortAt returns the port on p, or nil.
func (s *State) PortAt(p core.Point) *core.RoboPort {
	for _, rp := range s.Ports {
		if rp.Pos == p {
			return rp
		}
	}
	return nil
}

// PortPositions returns every port cell.
func (s *State) PortPositions() []core.Point {
	out := make([]core.Point, 0, len(s.Ports))
	for _, id := range s.sortedPortIDs() {
		out = append(out, s.Ports[id].Pos)
	}
	return out
}

// PendingOrders returns orders still awaiting dispatch, in insertion order.
func (s *State) PendingOrders() []*core.Order {
	var out []*core.Order
	for _, o := range s.Orders {
		if o.Pending() {
			out = append(out, o)
		}
	}
	return out
}

// OpenOrders reports whether any order is pending or in progress.
func (s *State) OpenOrders() bool {
	for _, o := range s.Orders {
		if !o.Terminal() {
			return true
		}
	}
	return false
}

// sortedRobotIDs returns robot ids in stable order. Step order is part of
// the collision-avoidance contract.
func (s *State) sortedRobotIDs() []core.RobotID {
	ids := make([]core.RobotID, 0, len(s.Robots))
	for id := range s.Robots {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s *State) sortedChestIDs() []core.ChestID {
	ids := make([]core.ChestID, 0, len(s.Chests))
	for id := range s.Chests {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s *State) sortedPortIDs() []core.PortID {
	ids := make([]core.PortID, 0, len(s.Ports))
	for id := range s.Ports {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// AdjacentFreeCells returns the in-grid orthogonal neighbors of p that are
// traversable in graph g.
func AdjacentFreeCells(g TraversabilityView, grid core.Grid, p core.Point) []core.Point {
	var out []core.Point
	for _, q := range p.OrthogonalNeighbors() {
		if grid.Contains(q) && g.Traversable(q) {
			out = append(out, q)
		}
	}
	return out
}

// TraversabilityView is the slice of the nav graph the state helpers need.
type TraversabilityView interface {
	Traversable(p core.Point) bool
}
