package core

import "fmt"

// OrderID is a unique order identifier.
type OrderID string

// Priority orders dispatch urgency. None sorts last.
type Priority int

const (
	PriorityNone   Priority = 0
	PriorityLow    Priority = 1
	PriorityMedium Priority = 2
	PriorityHigh   Priority = 3
)

func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "HIGH"
	case PriorityMedium:
		return "MEDIUM"
	case PriorityLow:
		return "LOW"
	default:
		return "NONE"
	}
}

// OrderStatus tracks an order's lifecycle. Transitions are monotonic; an
// order never returns to New.
type OrderStatus int

const (
	OrderNew OrderStatus = iota
	OrderInProgress
	OrderCompleted
	OrderFailed
)

func (s OrderStatus) String() string {
	return [...]string{"NEW", "IN_PROGRESS", "COMPLETED", "FAILED"}[s]
}

// Order is a request to move a quantity of one item from one chest to
// another. Origin and destination are ids resolved through the simulation
// state, never direct references.
type Order struct {
	ID       OrderID
	Item     Item
	Quantity int
	OriginID ChestID
	DestID   ChestID
	Priority Priority
	Status   OrderStatus
}

// NewOrder creates a pending order.
func NewOrder(id OrderID, item Item, qty int, origin, dest ChestID, prio Priority) *Order {
	return &Order{
		ID:       id,
		Item:     item,
		Quantity: qty,
		OriginID: origin,
		DestID:   dest,
		Priority: prio,
		Status:   OrderNew,
	}
}

// Pending reports whether the order still needs dispatching.
func (o *Order) Pending() bool {
	return o.Status == OrderNew
}

// Terminal reports whether the order has finished, successfully or not.
func (o *Order) Terminal() bool {
	return o.Status == OrderCompleted || o.Status == OrderFailed
}

// MarkInProgress binds the order to a robot.
func (o *Order) MarkInProgress() {
	if o.Status == OrderNew {
		o.Status = OrderInProgress
	}
}

// MarkCompleted finalizes the order as delivered.
func (o *Order) MarkCompleted() {
	if !o.Terminal() {
		o.Status = OrderCompleted
	}
}

// MarkFailed finalizes the order as infeasible this cycle.
func (o *Order) MarkFailed() {
	if !o.Terminal() {
		o.Status = OrderFailed
	}
}

// RetryKey identifies equivalent orders for retry de-duplication.
func (o *Order) RetryKey() string {
	return fmt.Sprintf("%s|%d|%s|%s", o.Item, o.Quantity, o.OriginID, o.DestID)
}

// Clone returns a fresh pending copy under a new id, used by the retry pass.
func (o *Order) Clone(id OrderID) *Order {
	return NewOrder(id, o.Item, o.Quantity, o.OriginID, o.DestID, o.Priority)
}
