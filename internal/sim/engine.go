package sim

import (
	"log"
	"sync"

	"github.com/elektrokombinacija/logibots/internal/core"
	"github.com/elektrokombinacija/logibots/internal/sim/tuning"
)

// StabilityStatus is the outcome of one tick.
type StabilityStatus struct {
	Stable bool
	Cycle  int
}

// Engine advances the simulation one tick at a time. The whole tick runs
// under a single mutex; overlapping ticks from timer and manual callers
// serialize here.
type Engine struct {
	mu         sync.Mutex
	state      *State
	params     tuning.Params
	dispatcher *Dispatcher
	logger     *log.Logger
	rec        Recorder
}

// NewEngine wires the engine over a state aggregate. A nil recorder
// disables audit events; a nil logger disables diagnostics.
func NewEngine(state *State, params tuning.Params, logger *log.Logger, rec Recorder) *Engine {
	if rec == nil {
		rec = NopRecorder{}
	}
	return &Engine{
		state:      state,
		params:     params,
		dispatcher: NewDispatcher(state, params, logger, rec),
		logger:     logger,
		rec:        rec,
	}
}

// Tick advances one simulation step: dispatch, robot steps in stable id
// order, park and recharge, then stability evaluation. No partial-tick
// rollback; each sub-step enforces its own invariants before mutating.
func (e *Engine) Tick() StabilityStatus {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.state.Cycle++
	e.dispatcher.RunCycle()

	for _, id := range e.state.sortedRobotIDs() {
		e.stepRobot(e.state.Robots[id])
	}
	e.parkReturnedRobots()
	e.rechargeParked()

	return StabilityStatus{Stable: e.stableLocked(), Cycle: e.state.Cycle}
}

// AddOrder registers a new order for the next dispatch pass.
func (e *Engine) AddOrder(o *core.Order) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.AddOrder(o)
}

// RemoveOrder withdraws a not-yet-dispatched order.
func (e *Engine) RemoveOrder(id core.OrderID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.RemoveOrder(id)
}

// AddRobot registers a robot.
func (e *Engine) AddRobot(r *core.Robot) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.AddRobot(r)
}

// AddChest registers a chest.
func (e *Engine) AddChest(c *core.Chest) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.AddChest(c)
}

// AddRoboPort registers a port.
func (e *Engine) AddRoboPort(rp *core.RoboPort) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.AddRoboPort(rp)
}

// IsEmpty reports whether no entities are registered.
func (e *Engine) IsEmpty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.IsEmpty()
}

// IsReachable reports whether a chest is inside the grid and covered by at
// least one port.
func (e *Engine) IsReachable(id core.ChestID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.IsReachable(id)
}

// Cycle returns the number of completed ticks.
func (e *Engine) Cycle() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Cycle
}

// Stable evaluates stability without advancing the simulation.
func (e *Engine) Stable() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stableLocked()
}

// stableLocked: no open orders and every robot parked at a port in a
// non-mission state.
func (e *Engine) stableLocked() bool {
	if e.state.OpenOrders() {
		return false
	}
	for _, r := range e.state.Robots {
		if r.State == core.StateEnMission {
			return false
		}
		if e.state.PortAt(r.Pos) == nil {
			return false
		}
	}
	return true
}

// parkReturnedRobots hands robots that finished their missions back to the
// parked pool. Leaving EN_MISSION is deferred to here so mid-corridor
// robots never corrupt the collision bookkeeping.
func (e *Engine) parkReturnedRobots() {
	for _, id := range e.state.sortedRobotIDs() {
		r := e.state.Robots[id]
		if r.State != core.StateEnMission || r.HasWork() {
			continue
		}
		if e.state.PortAt(r.Pos) == nil {
			continue
		}
		r.Route = nil
		e.changeState(r, core.StatePassive)
	}
}

// rechargeParked tops up robots standing on a port cell and reactivates
// them once full.
func (e *Engine) rechargeParked() {
	for _, pid := range e.state.sortedPortIDs() {
		rp := e.state.Ports[pid]
		r := e.state.RobotAt(rp.Pos)
		if r == nil {
			continue
		}
		if r.State == core.StatePassive && !r.FullyCharged() {
			e.changeState(r, core.StateCharging)
		}
		if r.State == core.StateCharging {
			if qty := rp.RechargeRobot(r); qty > 0 {
				e.rec.Recharge(e.state.Cycle, r.ID, rp.ID, qty)
			}
			if r.FullyCharged() {
				e.changeState(r, core.StateActive)
			}
		}
	}
}

// changeState performs an FSM transition the orchestrator believes legal.
// A rejected edge here is a defect, not an environmental condition.
func (e *Engine) changeState(r *core.Robot, to core.RobotState) {
	from := r.State
	if err := r.ChangeState(to); err != nil {
		if e.logger != nil {
			e.logger.Printf("cycle %d: BUG: %v", e.state.Cycle, err)
		}
		return
	}
	if from != to {
		e.rec.StateChange(e.state.Cycle, r.ID, from, to)
	}
}
