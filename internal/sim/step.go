package sim

import (
	"math"

	"github.com/elektrokombinacija/logibots/internal/core"
)

// stepRobot advances one robot by one tick: order bookkeeping, one
// orthogonal movement step, or a transfer transaction. Movement is greedy
// and local; the dispatcher already proved a feasible route exists when it
// bound the order.
func (e *Engine) stepRobot(r *core.Robot) {
	if r.State == core.StateInactive {
		return
	}

	if r.CurrentOrder() == nil {
		next := r.DequeueOrder()
		if next == nil {
			if r.State == core.StateEnMission {
				e.returnToPort(r)
			}
			return
		}
		r.SetCurrentOrder(next)
		e.changeState(r, core.StateEnMission)
	}

	o := r.CurrentOrder()

	if r.BatteryFraction() < e.params.MinContinueFraction {
		// Abort while there is still charge to get home. The robot stays
		// EN_MISSION and walks back to a port on the following ticks.
		e.failCurrentOrder(r, o, "battery below continue threshold")
		return
	}

	origin, okO := e.state.Chests[o.OriginID]
	dest, okD := e.state.Chests[o.DestID]
	if !okO || !okD {
		e.failCurrentOrder(r, o, "chest removed mid-mission")
		return
	}

	switch {
	case r.CargoQuantity(o.Item) < o.Quantity:
		if r.Pos.AdjacentTo(origin.Pos) {
			e.withdraw(r, o, origin)
		} else {
			e.moveToward(r, o, origin.Pos, false)
		}
	case !r.Pos.AdjacentTo(dest.Pos):
		e.moveToward(r, o, dest.Pos, true)
	default:
		e.deliver(r, o, dest)
	}
}

// withdraw pulls the ordered quantity out of the origin chest into cargo.
func (e *Engine) withdraw(r *core.Robot, o *core.Order, origin *core.Chest) {
	if !origin.Withdraw(o.Item, o.Quantity) {
		e.failCurrentOrder(r, o, "insufficient stock at origin")
		return
	}
	if err := r.LoadCargo(o.Item, o.Quantity); err != nil {
		// Put the stock back; cargo capacity was not checked at dispatch.
		_ = origin.Deposit(o.Item, o.Quantity)
		e.failCurrentOrder(r, o, "cargo capacity exceeded")
		return
	}
	if err := r.Consume(e.params.TransferCost); err != nil {
		e.failCurrentOrder(r, o, "battery exhausted during load")
		return
	}
	e.rec.Load(e.state.Cycle, r.ID, origin.ID, o.Item, o.Quantity)
}

// deliver deposits cargo into the destination chest and finalizes the
// order.
func (e *Engine) deliver(r *core.Robot, o *core.Order, dest *core.Chest) {
	if err := dest.Deposit(o.Item, o.Quantity); err != nil {
		e.failCurrentOrder(r, o, "destination full")
		return
	}
	r.UnloadCargo(o.Item, o.Quantity)
	if err := r.Consume(e.params.TransferCost); err != nil && e.logger != nil {
		e.logger.Printf("cycle %d: robot %s: %v", e.state.Cycle, r.ID, err)
	}
	e.rec.Unload(e.state.Cycle, r.ID, dest.ID, o.Item, o.Quantity)
	o.MarkCompleted()
	r.FinishCurrentOrder()
	r.Route = nil
	if e.logger != nil {
		e.logger.Printf("cycle %d: robot %s completed order %s", e.state.Cycle, r.ID, o.ID)
	}
}

// moveToward takes one greedy orthogonal step toward a cell adjacent to
// goal. A tick with no valid candidate is a transient blockage; the order
// fails and the dispatcher's retry pass re-attempts it.
func (e *Engine) moveToward(r *core.Robot, o *core.Order, goal core.Point, loaded bool) {
	next, ok := e.pickStep(r, goal, loaded)
	if !ok {
		e.failCurrentOrder(r, o, "no passable step toward goal")
		return
	}
	if err := r.Consume(e.stepCost(loaded)); err != nil {
		e.failCurrentOrder(r, o, "battery exhausted en route")
		return
	}
	from := r.Pos
	r.Pos = next
	e.rec.Movement(e.state.Cycle, r.ID, from, next, r.Battery)
}

// returnToPort walks an idle EN_MISSION robot home one step per tick.
// Arrival keeps the state EN_MISSION; parkReturnedRobots demotes it after
// the movement phase.
func (e *Engine) returnToPort(r *core.Robot) {
	if e.state.PortAt(r.Pos) != nil {
		return
	}
	target, ok := e.nearestPort(r.Pos)
	if !ok {
		return
	}
	next, ok := e.pickStepOnto(r, target, r.Carrying())
	if !ok {
		return
	}
	if err := r.Consume(e.stepCost(r.Carrying())); err != nil {
		e.changeState(r, core.StatePassive)
		return
	}
	from := r.Pos
	r.Pos = next
	e.rec.Movement(e.state.Cycle, r.ID, from, next, r.Battery)
}

// pickStep evaluates the four orthogonal candidates and returns the one
// closest to goal. The goal cell itself is a chest and never entered.
func (e *Engine) pickStep(r *core.Robot, goal core.Point, loaded bool) (core.Point, bool) {
	return e.pickCandidate(r, goal, loaded, false)
}

// pickStepOnto allows stepping onto the goal cell itself (port arrival).
func (e *Engine) pickStepOnto(r *core.Robot, goal core.Point, loaded bool) (core.Point, bool) {
	return e.pickCandidate(r, goal, loaded, true)
}

func (e *Engine) pickCandidate(r *core.Robot, goal core.Point, loaded, enterGoal bool) (core.Point, bool) {
	best := core.Point{}
	bestDist := 0.0
	found := false
	for _, cand := range r.Pos.OrthogonalNeighbors() {
		if !e.state.Grid.Contains(cand) {
			continue
		}
		if c := e.state.ChestAt(cand); c != nil {
			continue
		}
		if other := e.state.RobotAt(cand); other != nil && other.ID != r.ID {
			continue
		}
		if !e.state.InCoverage(cand) {
			continue
		}
		if e.wouldStrand(r, cand, loaded) {
			continue
		}
		if cand == goal && !enterGoal {
			continue
		}
		d := cand.DistanceTo(goal)
		if !found || d < bestDist {
			best, bestDist, found = cand, d, true
		}
	}
	return best, found
}

// wouldStrand rejects a step after which the robot could no longer reach
// any port. Euclidean distance is a lower bound on route cost, so this
// check never rejects a genuinely safe step.
func (e *Engine) wouldStrand(r *core.Robot, cand core.Point, loaded bool) bool {
	remaining := r.Battery - e.stepCost(loaded)
	if remaining < 0 {
		return true
	}
	for _, portPos := range e.state.PortPositions() {
		lower := int(math.Ceil(cand.DistanceTo(portPos) * e.params.ConsumptionFactor))
		if lower <= remaining {
			return false
		}
	}
	return true
}

// stepCost is the battery drain of one orthogonal step.
func (e *Engine) stepCost(loaded bool) int {
	factor := e.params.ConsumptionFactor
	if loaded {
		factor *= e.params.LoadedMultiplier
	}
	return int(math.Ceil(factor))
}

// nearestPort returns the Euclidean-closest port cell.
func (e *Engine) nearestPort(from core.Point) (core.Point, bool) {
	best := core.Point{}
	bestDist := 0.0
	found := false
	for _, p := range e.state.PortPositions() {
		d := from.DistanceTo(p)
		if !found || d < bestDist {
			best, bestDist, found = p, d, true
		}
	}
	return best, found
}

// failCurrentOrder finalizes the robot's current order as FAILED and sends
// it home. Expected failures never abort the tick.
func (e *Engine) failCurrentOrder(r *core.Robot, o *core.Order, reason string) {
	o.MarkFailed()
	e.rec.OrderFailed(e.state.Cycle, o.ID, reason)
	if e.logger != nil {
		e.logger.Printf("cycle %d: robot %s: order %s failed: %s", e.state.Cycle, r.ID, o.ID, reason)
	}
	r.FinishCurrentOrder()
	r.Route = nil
}
