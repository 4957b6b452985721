// Package config loads scenario files: JSON documents validated against
// the scenario schema and materialized into a simulation state.
package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/elektrokombinacija/logibots/internal/core"
	"github.com/elektrokombinacija/logibots/internal/sim"
)

// Scenario mirrors the scenario file layout.
type Scenario struct {
	Grid      GridDef    `json:"grid"`
	SpeedMS   int        `json:"speed_ms"`
	RoboPorts []PortDef  `json:"roboports"`
	Chests    []ChestDef `json:"chests"`
	Robots    []RobotDef `json:"robots"`
	Orders    []OrderDef `json:"orders"`
}

type GridDef struct {
	OriginX int `json:"origin_x"`
	OriginY int `json:"origin_y"`
	Width   int `json:"width"`
	Height  int `json:"height"`
}

type PortDef struct {
	ID           string  `json:"id"`
	X            int     `json:"x"`
	Y            int     `json:"y"`
	Range        float64 `json:"range"`
	RechargeRate int     `json:"recharge_rate"`
}

type BehaviorDef struct {
	Kind          string `json:"kind"`
	LowThreshold  int    `json:"low_threshold"`
	HighThreshold int    `json:"high_threshold"`
	RequestCap    int    `json:"request_cap"`
}

type ChestDef struct {
	ID            string                 `json:"id"`
	X             int                    `json:"x"`
	Y             int                    `json:"y"`
	Capacity      int                    `json:"capacity"`
	Behavior      BehaviorDef            `json:"behavior"`
	ItemBehaviors map[string]BehaviorDef `json:"item_behaviors"`
	Inventory     map[string]int         `json:"inventory"`
}

type RobotDef struct {
	ID         string `json:"id"`
	X          int    `json:"x"`
	Y          int    `json:"y"`
	MaxBattery int    `json:"max_battery"`
	Battery    *int   `json:"battery"`
	Capacity   int    `json:"capacity"`
	HomePort   string `json:"home_port"`
}

type OrderDef struct {
	ID          string `json:"id"`
	Item        string `json:"item"`
	Quantity    int    `json:"quantity"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Priority    string `json:"priority"`
}

// Load reads, validates and decodes a scenario file. schemaPath points at
// the scenario JSON schema; validation failures name the offending field.
func Load(path, schemaPath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	schema, err := jsonschema.Compile(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("compile scenario schema: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}

	var sc Scenario
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("decode scenario %s: %w", path, err)
	}
	return &sc, nil
}

// BuildState materializes the scenario into a fresh simulation state.
// Orders whose destination cannot request the item are skipped with a
// warning rather than rejected.
func (sc *Scenario) BuildState(logger *log.Logger) (*sim.State, error) {
	grid := core.NewGrid(core.Point{X: sc.Grid.OriginX, Y: sc.Grid.OriginY}, sc.Grid.Width, sc.Grid.Height)
	state := sim.NewState(grid)

	for _, pd := range sc.RoboPorts {
		rp := core.NewRoboPort(core.PortID(pd.ID), core.Point{X: pd.X, Y: pd.Y}, pd.Range, pd.RechargeRate)
		if err := state.AddRoboPort(rp); err != nil {
			return nil, err
		}
	}

	for _, cd := range sc.Chests {
		behavior, err := parseBehavior(cd.Behavior)
		if err != nil {
			return nil, fmt.Errorf("chest %s: %w", cd.ID, err)
		}
		chest := core.NewChest(core.ChestID(cd.ID), core.Point{X: cd.X, Y: cd.Y}, cd.Capacity, behavior)
		for item, bd := range cd.ItemBehaviors {
			b, err := parseBehavior(bd)
			if err != nil {
				return nil, fmt.Errorf("chest %s item %s: %w", cd.ID, item, err)
			}
			chest.SetItemBehavior(core.Item(item), b)
		}
		for item, qty := range cd.Inventory {
			if err := chest.Deposit(core.Item(item), qty); err != nil {
				return nil, fmt.Errorf("chest %s initial inventory: %w", cd.ID, err)
			}
		}
		if err := state.AddChest(chest); err != nil {
			return nil, err
		}
	}

	for _, rd := range sc.Robots {
		robot := core.NewRobot(core.RobotID(rd.ID), core.Point{X: rd.X, Y: rd.Y}, rd.MaxBattery, rd.Capacity)
		if rd.Battery != nil {
			robot.Battery = *rd.Battery
			if robot.Battery > robot.MaxBattery {
				return nil, fmt.Errorf("robot %s: battery %d exceeds max %d", rd.ID, robot.Battery, robot.MaxBattery)
			}
		}
		if rd.HomePort != "" {
			if _, ok := state.Ports[core.PortID(rd.HomePort)]; !ok {
				return nil, fmt.Errorf("robot %s: unknown home port %s", rd.ID, rd.HomePort)
			}
			robot.HomePortID = core.PortID(rd.HomePort)
		}
		if err := state.AddRobot(robot); err != nil {
			return nil, err
		}
	}

	for i, od := range sc.Orders {
		id := od.ID
		if id == "" {
			id = fmt.Sprintf("order-%d", i+1)
		}
		dest, ok := state.Chests[core.ChestID(od.Destination)]
		if !ok {
			return nil, fmt.Errorf("order %s: unknown destination chest %s", id, od.Destination)
		}
		if !dest.CanRequest(core.Item(od.Item), od.Quantity) {
			if logger != nil {
				logger.Printf("scenario: skipping order %s: chest %s does not request %d %s",
					id, od.Destination, od.Quantity, od.Item)
			}
			continue
		}
		order := core.NewOrder(core.OrderID(id), core.Item(od.Item), od.Quantity,
			core.ChestID(od.Origin), core.ChestID(od.Destination), parsePriority(od.Priority))
		if err := state.AddOrder(order); err != nil {
			return nil, err
		}
	}
	return state, nil
}

func parseBehavior(bd BehaviorDef) (core.Behavior, error) {
	switch bd.Kind {
	case "storage":
		return core.StorageBehavior(), nil
	case "active_supply":
		return core.ActiveSupplyBehavior(), nil
	case "passive_supply":
		return core.PassiveSupplyBehavior(), nil
	case "buffer":
		if bd.HighThreshold < bd.LowThreshold {
			return core.Behavior{}, fmt.Errorf("buffer thresholds inverted: low %d > high %d", bd.LowThreshold, bd.HighThreshold)
		}
		return core.BufferBehavior(bd.LowThreshold, bd.HighThreshold), nil
	case "request":
		return core.RequestBehavior(bd.RequestCap), nil
	default:
		return core.Behavior{}, fmt.Errorf("unknown behavior kind %q", bd.Kind)
	}
}

func parsePriority(s string) core.Priority {
	switch s {
	case "HIGH":
		return core.PriorityHigh
	case "MEDIUM":
		return core.PriorityMedium
	case "LOW":
		return core.PriorityLow
	default:
		return core.PriorityNone
	}
}
