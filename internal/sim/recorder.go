package sim

import "github.com/elektrokombinacija/logibots/internal/core"

// Recorder receives per-step audit events. Implementations must never
// block or fail the tick; the engine fires and forgets.
type Recorder interface {
	Movement(cycle int, robot core.RobotID, from, to core.Point, battery int)
	Load(cycle int, robot core.RobotID, chest core.ChestID, item core.Item, qty int)
	Unload(cycle int, robot core.RobotID, chest core.ChestID, item core.Item, qty int)
	StateChange(cycle int, robot core.RobotID, from, to core.RobotState)
	OrderFailed(cycle int, order core.OrderID, reason string)
	Recharge(cycle int, robot core.RobotID, port core.PortID, qty int)
}

// NopRecorder discards all events. Used when no audit collaborator is
// attached.
type NopRecorder struct{}

func (NopRecorder) Movement(int, core.RobotID, core.Point, core.Point, int)         {}
func (NopRecorder) Load(int, core.RobotID, core.ChestID, core.Item, int)            {}
func (NopRecorder) Unload(int, core.RobotID, core.ChestID, core.Item, int)          {}
func (NopRecorder) StateChange(int, core.RobotID, core.RobotState, core.RobotState) {}
func (NopRecorder) OrderFailed(int, core.OrderID, string)                           {}
func (NopRecorder) Recharge(int, core.RobotID, core.PortID, int)                    {}
