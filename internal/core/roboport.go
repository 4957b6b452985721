package core

// PortID is a unique robo-port identifier.
type PortID string

// RoboPort is a fixed station providing a circular coverage area and
// battery recharge for robots parked on its cell.
type RoboPort struct {
	ID           PortID
	Pos          Point
	Range        float64
	RechargeRate int
}

// NewRoboPort creates a port at pos with the given coverage radius and
// per-tick recharge rate.
func NewRoboPort(id PortID, pos Point, coverage float64, rechargeRate int) *RoboPort {
	return &RoboPort{ID: id, Pos: pos, Range: coverage, RechargeRate: rechargeRate}
}

// Covers reports whether p lies within the port's coverage radius.
func (rp *RoboPort) Covers(p Point) bool {
	return rp.Pos.DistanceTo(p) <= rp.Range
}

// RechargeRobot transfers up to one tick's worth of charge into a robot
// parked on the port's cell. Returns the units actually transferred; 0 when
// the robot is elsewhere, in a state that forbids charging, or already full.
func (rp *RoboPort) RechargeRobot(r *Robot) int {
	if r.Pos != rp.Pos {
		return 0
	}
	if r.State != StatePassive && r.State != StateCharging {
		return 0
	}
	deficit := r.MaxBattery - r.Battery
	if deficit <= 0 {
		return 0
	}
	qty := rp.RechargeRate
	if qty > deficit {
		qty = deficit
	}
	if err := r.Recharge(qty); err != nil {
		return 0
	}
	return qty
}
