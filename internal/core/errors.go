package core

import "errors"

// Expected-failure sentinels. Capacity and battery conditions are normal
// planning outcomes; ErrInvalidTransition indicates an orchestrator defect.
var (
	ErrCapacityExceeded    = errors.New("capacity exceeded")
	ErrInsufficientBattery = errors.New("insufficient battery")
	ErrInvalidTransition   = errors.New("invalid state transition")
	ErrRobotInactive       = errors.New("robot is inactive")
	ErrBatteryFull         = errors.New("battery already full")
)
