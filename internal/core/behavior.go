package core

// BehaviorKind classifies chest exchange policies. The set is closed:
// dispatch goes through an enum-indexed table so a missing entry is a
// compile-time-visible gap rather than a silently ignored subtype.
type BehaviorKind int

const (
	BehaviorStorage BehaviorKind = iota
	BehaviorActiveSupply
	BehaviorPassiveSupply
	BehaviorBuffer
	BehaviorRequest
)

func (k BehaviorKind) String() string {
	return [...]string{"Storage", "ActiveSupply", "PassiveSupply", "Buffer", "Request"}[k]
}

// Behavior binds a kind to its numeric parameters. Behaviors are stateless
// values; all live quantities are read from the chest at call time.
type Behavior struct {
	Kind BehaviorKind

	// Buffer parameters: offer while the per-item quantity is above
	// LowThreshold, request while it is below HighThreshold.
	LowThreshold  int
	HighThreshold int

	// Request parameter: stop requesting once the per-item quantity
	// reaches RequestCap.
	RequestCap int
}

type behaviorFuncs struct {
	canOffer        func(b Behavior, item Item, qty int, c *Chest) bool
	canRequest      func(b Behavior, item Item, qty int, c *Chest) bool
	requestPriority func(b Behavior, item Item, c *Chest) int
}

var behaviorTable = [...]behaviorFuncs{
	BehaviorStorage: {
		canOffer: func(_ Behavior, item Item, qty int, c *Chest) bool {
			return c.Inventory.Has(item, qty)
		},
		canRequest: func(_ Behavior, _ Item, qty int, c *Chest) bool {
			return c.Inventory.Total()+qty <= c.Capacity
		},
		requestPriority: func(_ Behavior, _ Item, _ *Chest) int { return 1 },
	},
	BehaviorActiveSupply: {
		canOffer: func(_ Behavior, item Item, qty int, c *Chest) bool {
			return c.Inventory.Has(item, qty)
		},
		canRequest:      func(_ Behavior, _ Item, _ int, _ *Chest) bool { return false },
		requestPriority: func(_ Behavior, _ Item, _ *Chest) int { return 0 },
	},
	BehaviorPassiveSupply: {
		canOffer: func(_ Behavior, item Item, qty int, c *Chest) bool {
			return c.Inventory.Has(item, qty)
		},
		canRequest:      func(_ Behavior, _ Item, _ int, _ *Chest) bool { return false },
		requestPriority: func(_ Behavior, _ Item, _ *Chest) int { return 1 },
	},
	BehaviorBuffer: {
		canOffer: func(b Behavior, item Item, qty int, c *Chest) bool {
			have := c.Inventory.Quantity(item)
			return have > b.LowThreshold && have >= qty
		},
		canRequest: func(b Behavior, item Item, qty int, c *Chest) bool {
			return c.Inventory.Quantity(item) < b.HighThreshold &&
				c.Inventory.Total()+qty <= c.Capacity
		},
		requestPriority: func(_ Behavior, _ Item, _ *Chest) int { return 2 },
	},
	BehaviorRequest: {
		canOffer: func(_ Behavior, _ Item, _ int, _ *Chest) bool { return false },
		canRequest: func(b Behavior, item Item, qty int, c *Chest) bool {
			return c.Inventory.Quantity(item) < b.RequestCap &&
				c.Inventory.Total()+qty <= c.Capacity
		},
		requestPriority: func(_ Behavior, _ Item, _ *Chest) int { return 3 },
	},
}

// CanOffer reports whether a chest governed by this behavior may hand out
// qty units of item.
func (b Behavior) CanOffer(item Item, qty int, c *Chest) bool {
	return behaviorTable[b.Kind].canOffer(b, item, qty, c)
}

// CanRequest reports whether a chest governed by this behavior may accept
// qty units of item.
func (b Behavior) CanRequest(item Item, qty int, c *Chest) bool {
	return behaviorTable[b.Kind].canRequest(b, item, qty, c)
}

// RequestPriority returns the behavior's request urgency (higher is more
// urgent).
func (b Behavior) RequestPriority(item Item, c *Chest) int {
	return behaviorTable[b.Kind].requestPriority(b, item, c)
}

// StorageBehavior accepts and offers anything within capacity.
func StorageBehavior() Behavior { return Behavior{Kind: BehaviorStorage} }

// ActiveSupplyBehavior offers only and never requests.
func ActiveSupplyBehavior() Behavior { return Behavior{Kind: BehaviorActiveSupply} }

// PassiveSupplyBehavior offers only, at the lowest supplier urgency.
func PassiveSupplyBehavior() Behavior { return Behavior{Kind: BehaviorPassiveSupply} }

// BufferBehavior offers above low and requests below high.
func BufferBehavior(low, high int) Behavior {
	return Behavior{Kind: BehaviorBuffer, LowThreshold: low, HighThreshold: high}
}

// RequestBehavior requests up to cap units per item and never offers.
func RequestBehavior(cap int) Behavior {
	return Behavior{Kind: BehaviorRequest, RequestCap: cap}
}
