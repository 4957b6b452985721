package sim

import (
	"fmt"
	"log"
	"math"

	"github.com/elektrokombinacija/logibots/internal/core"
	"github.com/elektrokombinacija/logibots/internal/nav"
	"github.com/elektrokombinacija/logibots/internal/sim/tuning"
)

// Dispatcher binds pending orders to robots once per cycle. All planning
// is proactive: routes are reserved before any robot moves, so two robots
// never commit to crossing the same cell in one cycle.
type Dispatcher struct {
	state  *State
	params tuning.Params
	logger *log.Logger
	rec    Recorder

	// retried de-duplicates retry clones across the simulation's lifetime.
	retried  map[string]bool
	cloneSeq int
}

// NewDispatcher creates a dispatcher over the shared state. A nil recorder
// disables audit events.
func NewDispatcher(state *State, params tuning.Params, logger *log.Logger, rec Recorder) *Dispatcher {
	if rec == nil {
		rec = NopRecorder{}
	}
	return &Dispatcher{
		state:   state,
		params:  params,
		logger:  logger,
		rec:     rec,
		retried: make(map[string]bool),
	}
}

// mission is one planned assignment candidate.
type mission struct {
	robot *core.Robot
	route []core.Point
	dist  float64
	score float64
}

// RunCycle performs the dispatch pass plus bounded retry passes. Returns
// true iff no order's latest attempt remains FAILED.
func (d *Dispatcher) RunCycle() bool {
	reserved := make(map[core.Point]core.RobotID)
	d.pass(reserved)

	for i := 0; i < d.params.MaxRetryPasses; i++ {
		cloned := d.cloneFailed()
		if cloned == 0 {
			break
		}
		if d.pass(reserved) == 0 {
			break
		}
	}
	return d.allSatisfied()
}

// pass runs dispatch steps over the current pending orders and returns the
// number of orders bound to a robot.
func (d *Dispatcher) pass(reserved map[core.Point]core.RobotID) int {
	bound := 0
	for _, o := range sortByPriority(d.state.PendingOrders()) {
		if d.dispatchOrder(o, reserved) {
			bound++
		}
	}
	return bound
}

func (d *Dispatcher) dispatchOrder(o *core.Order, reserved map[core.Point]core.RobotID) bool {
	dest, ok := d.state.Chests[o.DestID]
	if !ok || !d.state.IsReachable(o.DestID) {
		d.fail(o, "destination unreachable")
		return false
	}
	// Reject before any stock moves; a delivery the destination cannot
	// absorb must never deplete the source.
	if !dest.CanRequest(o.Item, o.Quantity) {
		d.fail(o, "destination cannot accept the delivery")
		return false
	}

	source := d.selectSource(o)
	if source == nil {
		d.fail(o, "no chest offers the item")
		return false
	}
	// The robot delivers from wherever the item actually is this cycle.
	o.OriginID = source.ID

	var best *mission
	for _, r := range d.candidateRobots(source) {
		m := d.planMission(r, source, dest, reserved)
		if m == nil {
			continue
		}
		if best == nil || m.score < best.score {
			best = m
		}
	}
	if best == nil {
		d.fail(o, "no feasible robot")
		return false
	}

	for _, p := range best.route {
		reserved[p] = best.robot.ID
	}
	best.robot.Route = best.route
	best.robot.EnqueueOrder(o)
	o.MarkInProgress()
	if d.logger != nil {
		d.logger.Printf("cycle %d: order %s (%d %s %s->%s) bound to robot %s, route %d cells",
			d.state.Cycle, o.ID, o.Quantity, o.Item, source.ID, dest.ID, best.robot.ID, len(best.route))
	}
	return true
}

// selectSource picks the chest the item should come from, preferring
// ActiveSupply over Buffer over PassiveSupply, then the order's configured
// origin, then the first offerer in stable id order.
func (d *Dispatcher) selectSource(o *core.Order) *core.Chest {
	var offerers []*core.Chest
	for _, id := range d.state.sortedChestIDs() {
		c := d.state.Chests[id]
		if c.ID != o.DestID && c.CanOffer(o.Item, o.Quantity) {
			offerers = append(offerers, c)
		}
	}
	if len(offerers) == 0 {
		return nil
	}
	for _, kind := range []core.BehaviorKind{core.BehaviorActiveSupply, core.BehaviorBuffer, core.BehaviorPassiveSupply} {
		for _, c := range offerers {
			if c.BehaviorFor(o.Item).Kind == kind {
				return c
			}
		}
	}
	for _, c := range offerers {
		if c.ID == o.OriginID {
			return c
		}
	}
	return offerers[0]
}

// candidateRobots returns idle robots in a reactivatable state, restricted
// to robots parked at a port covering the source chest when any exist.
func (d *Dispatcher) candidateRobots(source *core.Chest) []*core.Robot {
	var all, local []*core.Robot
	for _, id := range d.state.sortedRobotIDs() {
		r := d.state.Robots[id]
		switch r.State {
		case core.StateActive, core.StatePassive, core.StateCharging:
		default:
			continue
		}
		if r.HasWork() {
			continue
		}
		all = append(all, r)
		if rp := d.state.PortAt(r.Pos); rp != nil && rp.Covers(source.Pos) {
			local = append(local, r)
		}
	}
	if len(local) > 0 {
		return local
	}
	return all
}

// planMission plans robot -> source-adjacent -> destination-adjacent and
// verifies collision freedom and battery feasibility. Returns nil when the
// robot cannot serve the order this cycle.
func (d *Dispatcher) planMission(r *core.Robot, source, dest *core.Chest, reserved map[core.Point]core.RobotID) *mission {
	g := nav.Build(d.state.Grid, d.state.Chests, d.state.Robots, d.state.Ports, r.ID, d.params.ConsumptionFactor)

	pickup, dist1, err := d.bestAdjacent(g, r.Pos, source.Pos)
	if err != nil {
		return nil
	}
	leg1, _, err := nav.Route(g, r.Pos, pickup)
	if err != nil {
		return nil
	}
	dropoff, dist2, err := d.bestAdjacent(g, pickup, dest.Pos)
	if err != nil {
		return nil
	}
	leg2, _, err := nav.Route(g, pickup, dropoff)
	if err != nil {
		return nil
	}

	route := append(append([]core.Point{}, leg1...), leg2[1:]...)
	for _, p := range route {
		if owner, taken := reserved[p]; taken && owner != r.ID {
			return nil
		}
	}

	need := d.missionCost(dist1, dist2)
	reserve := d.minReserve(r)
	if r.Battery < need+reserve && !d.rechargeFeasible(g, r, pickup, dist2, reserve) {
		return nil
	}

	frac := r.BatteryFraction()
	if frac <= 0 {
		return nil
	}
	total := dist1 + dist2
	return &mission{robot: r, route: route, dist: total, score: total / frac}
}

// bestAdjacent finds the cheapest traversable cell orthogonally adjacent to
// target, reachable from start.
func (d *Dispatcher) bestAdjacent(g *nav.Graph, start, target core.Point) (core.Point, float64, error) {
	cells := AdjacentFreeCells(g, d.state.Grid, target)
	if len(cells) == 0 {
		return core.Point{}, 0, nav.ErrNoRoute
	}
	return nav.NearestReachable(g, start, cells)
}

// missionCost converts weighted leg distances into integer battery units.
// The second leg carries cargo and drains faster; each transfer costs a
// flat amount.
func (d *Dispatcher) missionCost(dist1, dist2 float64) int {
	return int(math.Ceil(dist1)) +
		int(math.Ceil(dist2*d.params.LoadedMultiplier)) +
		2*d.params.TransferCost
}

// minReserve is the battery a robot must still hold after completing a
// mission; below this level the step executor aborts, so dispatching
// without the margin would strand the robot mid-corridor.
func (d *Dispatcher) minReserve(r *core.Robot) int {
	return int(math.Ceil(d.params.MinContinueFraction * float64(r.MaxBattery)))
}

// rechargeFeasible reports whether the robot can top up at some port it can
// still reach and then complete the mission, reserve included, on a full
// battery.
func (d *Dispatcher) rechargeFeasible(g *nav.Graph, r *core.Robot, pickup core.Point, dist2 float64, reserve int) bool {
	dist, _ := nav.ShortestPaths(g, r.Pos)
	for _, portPos := range d.state.PortPositions() {
		toPort, ok := dist[portPos]
		if !ok || int(math.Ceil(toPort)) > r.Battery {
			continue
		}
		portDist, _ := nav.ShortestPaths(g, portPos)
		fromPort, ok := portDist[pickup]
		if !ok {
			continue
		}
		if r.MaxBattery >= d.missionCost(fromPort, dist2)+reserve {
			return true
		}
	}
	return false
}

func (d *Dispatcher) fail(o *core.Order, reason string) {
	o.MarkFailed()
	d.rec.OrderFailed(d.state.Cycle, o.ID, reason)
	if d.logger != nil {
		d.logger.Printf("cycle %d: order %s failed: %s", d.state.Cycle, o.ID, reason)
	}
}

// cloneFailed re-issues each uniquely-keyed failed order that has not been
// retried before. Returns the number of clones created.
func (d *Dispatcher) cloneFailed() int {
	cloned := 0
	for _, o := range d.state.Orders {
		if o.Status != core.OrderFailed {
			continue
		}
		key := o.RetryKey()
		if d.retried[key] {
			continue
		}
		d.retried[key] = true
		d.cloneSeq++
		clone := o.Clone(core.OrderID(fmt.Sprintf("%s-retry%d", o.ID, d.cloneSeq)))
		d.state.Orders = append(d.state.Orders, clone)
		cloned++
	}
	return cloned
}

// allSatisfied reports whether every retry key's latest attempt ended in a
// non-failed status.
func (d *Dispatcher) allSatisfied() bool {
	latest := make(map[string]core.OrderStatus)
	for _, o := range d.state.Orders {
		latest[o.RetryKey()] = o.Status
	}
	for _, st := range latest {
		if st == core.OrderFailed {
			return false
		}
	}
	return true
}

// sortByPriority orders by priority descending, preserving insertion order
// among equals.
func sortByPriority(orders []*core.Order) []*core.Order {
	out := append([]*core.Order{}, orders...)
	// Insertion sort keeps the tie order stable without allocating keys.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Priority > out[j-1].Priority; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
