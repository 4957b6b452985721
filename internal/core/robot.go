package core

import "fmt"

// RobotID is a unique robot identifier.
type RobotID string

// RobotState is the robot's position in its execution state machine.
type RobotState int

const (
	StateActive    RobotState = iota // Parked, ready for assignment
	StatePassive                     // Parked, low battery or idle, chargeable
	StateEnMission                   // Executing or returning from an order
	StateCharging                    // Receiving charge at a port
	StateInactive                    // Administratively disabled
)

func (s RobotState) String() string {
	return [...]string{"ACTIVE", "PASSIVE", "EN_MISSION", "CHARGING", "INACTIVE"}[s]
}

// allowedTransitions is the closed edge set of the robot state machine.
// Self-transitions are always permitted and not listed.
var allowedTransitions = map[RobotState][]RobotState{
	StateActive:    {StatePassive, StateEnMission, StateInactive},
	StatePassive:   {StateActive, StateCharging, StateInactive},
	StateEnMission: {StateActive, StatePassive, StateCharging, StateInactive},
	StateCharging:  {StateActive, StatePassive, StateInactive},
	StateInactive:  {StateActive},
}

// Robot is a mobile carrier with a battery, a cargo hold and a FIFO queue
// of assigned orders. The home port is an id resolved through the
// simulation state, used only as a fallback destination.
type Robot struct {
	ID         RobotID
	Pos        Point
	MaxBattery int
	Battery    int
	Capacity   int
	State      RobotState
	HomePortID PortID

	cargo   map[Item]int
	queue   []*Order
	current *Order
	history []*Order

	// Route is the waypoint list reserved for the robot's current mission.
	// It is planning bookkeeping, not a movement script; stepping is local.
	Route []Point
}

// NewRobot creates a fully charged, active robot.
func NewRobot(id RobotID, pos Point, maxBattery, capacity int) *Robot {
	return &Robot{
		ID:         id,
		Pos:        pos,
		MaxBattery: maxBattery,
		Battery:    maxBattery,
		Capacity:   capacity,
		State:      StateActive,
		cargo:      make(map[Item]int),
	}
}

// ChangeState moves the robot along an edge of the state machine. An edge
// outside the table is an orchestrator defect and returns
// ErrInvalidTransition.
func (r *Robot) ChangeState(to RobotState) error {
	if r.State == to {
		return nil
	}
	for _, s := range allowedTransitions[r.State] {
		if s == to {
			r.State = to
			return nil
		}
	}
	return fmt.Errorf("robot %s: %s -> %s: %w", r.ID, r.State, to, ErrInvalidTransition)
}

// Consume drains battery. Fails before mutation when qty exceeds the
// current charge or the robot is inactive.
func (r *Robot) Consume(qty int) error {
	if r.State == StateInactive {
		return fmt.Errorf("robot %s: %w", r.ID, ErrRobotInactive)
	}
	if qty > r.Battery {
		return fmt.Errorf("robot %s: need %d, have %d: %w", r.ID, qty, r.Battery, ErrInsufficientBattery)
	}
	r.Battery -= qty
	return nil
}

// Recharge adds charge. Fails before mutation when qty would exceed max.
func (r *Robot) Recharge(qty int) error {
	if r.Battery+qty > r.MaxBattery {
		return fmt.Errorf("robot %s: %d + %d exceeds max %d: %w", r.ID, r.Battery, qty, r.MaxBattery, ErrBatteryFull)
	}
	r.Battery += qty
	return nil
}

// BatteryFraction returns current charge as a fraction of max.
func (r *Robot) BatteryFraction() float64 {
	if r.MaxBattery <= 0 {
		return 0
	}
	return float64(r.Battery) / float64(r.MaxBattery)
}

// FullyCharged reports whether the battery is at max.
func (r *Robot) FullyCharged() bool {
	return r.Battery >= r.MaxBattery
}

// CargoTotal returns the total units carried.
func (r *Robot) CargoTotal() int {
	total := 0
	for _, qty := range r.cargo {
		total += qty
	}
	return total
}

// CargoQuantity returns the carried quantity of one item.
func (r *Robot) CargoQuantity(item Item) int {
	return r.cargo[item]
}

// Carrying reports whether any cargo is aboard.
func (r *Robot) Carrying() bool {
	return len(r.cargo) > 0
}

// LoadCargo adds qty units of item to the hold, rejecting overflow.
func (r *Robot) LoadCargo(item Item, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("robot %s: load quantity must be positive, got %d", r.ID, qty)
	}
	if r.CargoTotal()+qty > r.Capacity {
		return fmt.Errorf("robot %s: load %d %q: %w", r.ID, qty, item, ErrCapacityExceeded)
	}
	r.cargo[item] += qty
	return nil
}

// UnloadCargo removes qty units of item from the hold. Returns false
// without mutating when less than qty is aboard.
func (r *Robot) UnloadCargo(item Item, qty int) bool {
	have := r.cargo[item]
	if qty <= 0 || have < qty {
		return false
	}
	if have == qty {
		delete(r.cargo, item)
	} else {
		r.cargo[item] = have - qty
	}
	return true
}

// Cargo returns a copy of the hold contents.
func (r *Robot) Cargo() map[Item]int {
	out := make(map[Item]int, len(r.cargo))
	for item, qty := range r.cargo {
		out[item] = qty
	}
	return out
}

// EnqueueOrder appends an order to the robot's pending queue.
func (r *Robot) EnqueueOrder(o *Order) {
	r.queue = append(r.queue, o)
}

// DequeueOrder pops the next pending order, or nil when the queue is empty.
func (r *Robot) DequeueOrder() *Order {
	if len(r.queue) == 0 {
		return nil
	}
	o := r.queue[0]
	r.queue = r.queue[1:]
	return o
}

// CurrentOrder returns the order being executed, or nil.
func (r *Robot) CurrentOrder() *Order {
	return r.current
}

// SetCurrentOrder installs the order being executed.
func (r *Robot) SetCurrentOrder(o *Order) {
	r.current = o
}

// PendingOrders returns the number of queued orders.
func (r *Robot) PendingOrders() int {
	return len(r.queue)
}

// HasWork reports whether a current or queued order exists.
func (r *Robot) HasWork() bool {
	return r.current != nil || len(r.queue) > 0
}

// FinishCurrentOrder retires the current order into history.
func (r *Robot) FinishCurrentOrder() {
	if r.current != nil {
		r.history = append(r.history, r.current)
		r.current = nil
	}
}

// History returns the completed and failed orders this robot executed.
func (r *Robot) History() []*Order {
	return r.history
}

// ClearWork drops the current order, queue and route. Used on reset.
func (r *Robot) ClearWork() {
	r.current = nil
	r.queue = nil
	r.Route = nil
}
