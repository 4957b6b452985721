package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elektrokombinacija/logibots/internal/core"
)

const schemaPath = "../../schemas/scenario.schema.json"

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

const validScenario = `{
  "grid": {"width": 10, "height": 10},
  "speed_ms": 100,
  "roboports": [
    {"id": "port-1", "x": 0, "y": 0, "range": 15, "recharge_rate": 10}
  ],
  "chests": [
    {
      "id": "supply", "x": 3, "y": 3, "capacity": 50,
      "behavior": {"kind": "passive_supply"},
      "inventory": {"bolt": 10}
    },
    {
      "id": "sink", "x": 7, "y": 7, "capacity": 20,
      "behavior": {"kind": "request", "request_cap": 20},
      "item_behaviors": {
        "gear": {"kind": "buffer", "low_threshold": 2, "high_threshold": 10}
      }
    }
  ],
  "robots": [
    {"id": "robot-1", "x": 0, "y": 0, "max_battery": 100, "battery": 80, "capacity": 10, "home_port": "port-1"}
  ],
  "orders": [
    {"id": "o1", "item": "bolt", "quantity": 4, "origin": "supply", "destination": "sink", "priority": "HIGH"},
    {"item": "bolt", "quantity": 2, "destination": "sink"}
  ]
}`

func TestLoad_ValidScenario(t *testing.T) {
	sc, err := Load(writeScenario(t, validScenario), schemaPath)
	require.NoError(t, err)

	assert.Equal(t, 10, sc.Grid.Width)
	assert.Len(t, sc.RoboPorts, 1)
	assert.Len(t, sc.Chests, 2)
	assert.Len(t, sc.Robots, 1)
	assert.Len(t, sc.Orders, 2)
	require.NotNil(t, sc.Robots[0].Battery)
	assert.Equal(t, 80, *sc.Robots[0].Battery)
}

func TestLoad_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing roboports", `{"grid": {"width": 5, "height": 5}, "chests": [], "robots": []}`},
		{"empty roboports", `{"grid": {"width": 5, "height": 5}, "roboports": [], "chests": [], "robots": []}`},
		{"unknown field", `{"grid": {"width": 5, "height": 5, "depth": 2},
			"roboports": [{"id": "p", "x": 0, "y": 0, "range": 5, "recharge_rate": 1}],
			"chests": [], "robots": []}`},
		{"bad behavior kind", `{"grid": {"width": 5, "height": 5},
			"roboports": [{"id": "p", "x": 0, "y": 0, "range": 5, "recharge_rate": 1}],
			"chests": [{"id": "c", "x": 1, "y": 1, "capacity": 5, "behavior": {"kind": "magnet"}}],
			"robots": []}`},
		{"bad priority", `{"grid": {"width": 5, "height": 5},
			"roboports": [{"id": "p", "x": 0, "y": 0, "range": 5, "recharge_rate": 1}],
			"chests": [{"id": "c", "x": 1, "y": 1, "capacity": 5, "behavior": {"kind": "request", "request_cap": 5}}],
			"robots": [],
			"orders": [{"item": "bolt", "quantity": 1, "destination": "c", "priority": "URGENT"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeScenario(t, tt.body), schemaPath)
			assert.Error(t, err)
		})
	}
}

func TestBuildState_Materializes(t *testing.T) {
	sc, err := Load(writeScenario(t, validScenario), schemaPath)
	require.NoError(t, err)

	state, err := sc.BuildState(nil)
	require.NoError(t, err)

	require.Contains(t, state.Ports, core.PortID("port-1"))
	require.Contains(t, state.Chests, core.ChestID("supply"))
	require.Contains(t, state.Chests, core.ChestID("sink"))

	supply := state.Chests["supply"]
	assert.Equal(t, 10, supply.Inventory.Quantity("bolt"))

	sink := state.Chests["sink"]
	assert.Equal(t, core.BehaviorRequest, sink.DefaultBehavior().Kind)
	assert.Equal(t, core.BehaviorBuffer, sink.BehaviorFor("gear").Kind)

	robot := state.Robots["robot-1"]
	require.NotNil(t, robot)
	assert.Equal(t, 80, robot.Battery)
	assert.Equal(t, core.PortID("port-1"), robot.HomePortID)

	require.Len(t, state.Orders, 2)
	assert.Equal(t, core.OrderID("o1"), state.Orders[0].ID)
	assert.Equal(t, core.PriorityHigh, state.Orders[0].Priority)
	// Id-less orders are auto-named by position.
	assert.Equal(t, core.OrderID("order-2"), state.Orders[1].ID)
	assert.Equal(t, core.PriorityNone, state.Orders[1].Priority)
}

func TestBuildState_SkipsNonRequestingDestination(t *testing.T) {
	body := `{
	  "grid": {"width": 5, "height": 5},
	  "roboports": [{"id": "p", "x": 0, "y": 0, "range": 10, "recharge_rate": 1}],
	  "chests": [
	    {"id": "a", "x": 1, "y": 1, "capacity": 5, "behavior": {"kind": "passive_supply"}},
	    {"id": "b", "x": 3, "y": 3, "capacity": 5, "behavior": {"kind": "request", "request_cap": 5}}
	  ],
	  "robots": [],
	  "orders": [
	    {"item": "bolt", "quantity": 1, "destination": "a"},
	    {"item": "bolt", "quantity": 1, "destination": "b"}
	  ]
	}`
	sc, err := Load(writeScenario(t, body), schemaPath)
	require.NoError(t, err)

	state, err := sc.BuildState(nil)
	require.NoError(t, err)
	// The supply chest never requests; that order is dropped, not fatal.
	require.Len(t, state.Orders, 1)
	assert.Equal(t, core.ChestID("b"), state.Orders[0].DestID)
}

func TestBuildState_Rejections(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"battery above max", `{
		  "grid": {"width": 5, "height": 5},
		  "roboports": [{"id": "p", "x": 0, "y": 0, "range": 10, "recharge_rate": 1}],
		  "chests": [],
		  "robots": [{"id": "r", "x": 0, "y": 0, "max_battery": 10, "battery": 20, "capacity": 5}]
		}`},
		{"unknown home port", `{
		  "grid": {"width": 5, "height": 5},
		  "roboports": [{"id": "p", "x": 0, "y": 0, "range": 10, "recharge_rate": 1}],
		  "chests": [],
		  "robots": [{"id": "r", "x": 0, "y": 0, "max_battery": 10, "capacity": 5, "home_port": "nope"}]
		}`},
		{"inverted buffer thresholds", `{
		  "grid": {"width": 5, "height": 5},
		  "roboports": [{"id": "p", "x": 0, "y": 0, "range": 10, "recharge_rate": 1}],
		  "chests": [{"id": "c", "x": 1, "y": 1, "capacity": 5,
		    "behavior": {"kind": "buffer", "low_threshold": 8, "high_threshold": 2}}],
		  "robots": []
		}`},
		{"entity outside grid", `{
		  "grid": {"width": 5, "height": 5},
		  "roboports": [{"id": "p", "x": 9, "y": 9, "range": 10, "recharge_rate": 1}],
		  "chests": [],
		  "robots": []
		}`},
		{"unknown order destination", `{
		  "grid": {"width": 5, "height": 5},
		  "roboports": [{"id": "p", "x": 0, "y": 0, "range": 10, "recharge_rate": 1}],
		  "chests": [],
		  "robots": [],
		  "orders": [{"item": "bolt", "quantity": 1, "destination": "ghost"}]
		}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, err := Load(writeScenario(t, tt.body), schemaPath)
			require.NoError(t, err)
			_, err = sc.BuildState(nil)
			assert.Error(t, err)
		})
	}
}
