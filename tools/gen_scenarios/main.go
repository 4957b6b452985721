// Package main generates deterministic logibots scenarios. Output files
// are loader-compatible JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/elektrokombinacija/logibots/internal/config"
)

// ScenarioParams defines parameters for scenario generation.
type ScenarioParams struct {
	Seed       int64 `json:"seed"`
	GridWidth  int   `json:"grid_width"`
	GridHeight int   `json:"grid_height"`
	PortCount  int   `json:"port_count"`
	ChestCount int   `json:"chest_count"`
	RobotCount int   `json:"robot_count"`
	OrderCount int   `json:"order_count"`
}

var items = []string{"bolt", "gear", "plate", "circuit", "pipe"}
var priorities = []string{"HIGH", "MEDIUM", "LOW", "NONE"}

// generateScenario builds one scenario from parameters.
func generateScenario(params ScenarioParams) *config.Scenario {
	rng := rand.New(rand.NewSource(params.Seed))

	sc := &config.Scenario{
		Grid: config.GridDef{
			Width:  params.GridWidth,
			Height: params.GridHeight,
		},
		SpeedMS: 200,
	}

	used := make(map[[2]int]bool)
	freeCell := func() (int, int) {
		for {
			x := rng.Intn(params.GridWidth)
			y := rng.Intn(params.GridHeight)
			if !used[[2]int{x, y}] {
				used[[2]int{x, y}] = true
				return x, y
			}
		}
	}

	// Ports first; coverage must blanket most of the grid so generated
	// scenarios are solvable.
	coverage := float64(params.GridWidth+params.GridHeight) / 2
	for i := 0; i < params.PortCount; i++ {
		x, y := freeCell()
		sc.RoboPorts = append(sc.RoboPorts, config.PortDef{
			ID:           fmt.Sprintf("port-%d", i+1),
			X:            x,
			Y:            y,
			Range:        coverage,
			RechargeRate: 5 + rng.Intn(10),
		})
	}

	// Half the chests supply, half request.
	for i := 0; i < params.ChestCount; i++ {
		x, y := freeCell()
		cd := config.ChestDef{
			ID:       fmt.Sprintf("chest-%d", i+1),
			X:        x,
			Y:        y,
			Capacity: 20 + rng.Intn(30),
		}
		if i%2 == 0 {
			cd.Behavior = config.BehaviorDef{Kind: "passive_supply"}
			if rng.Float64() < 0.3 {
				cd.Behavior.Kind = "active_supply"
			}
			cd.Inventory = map[string]int{
				items[rng.Intn(len(items))]: 5 + rng.Intn(10),
			}
		} else {
			cd.Behavior = config.BehaviorDef{Kind: "request", RequestCap: cd.Capacity}
			if rng.Float64() < 0.3 {
				cd.Behavior = config.BehaviorDef{
					Kind:          "buffer",
					LowThreshold:  2,
					HighThreshold: cd.Capacity / 2,
				}
			}
		}
		sc.Chests = append(sc.Chests, cd)
	}

	// Robots start on port cells when possible.
	for i := 0; i < params.RobotCount; i++ {
		rd := config.RobotDef{
			ID:         fmt.Sprintf("robot-%d", i+1),
			MaxBattery: 80 + rng.Intn(60),
			Capacity:   10 + rng.Intn(10),
		}
		if i < len(sc.RoboPorts) {
			rd.X = sc.RoboPorts[i].X
			rd.Y = sc.RoboPorts[i].Y
			rd.HomePort = sc.RoboPorts[i].ID
		} else {
			rd.X, rd.Y = freeCell()
		}
		sc.Robots = append(sc.Robots, rd)
	}

	// Orders move stocked items toward requesting chests.
	var suppliers, requesters []config.ChestDef
	for _, cd := range sc.Chests {
		switch cd.Behavior.Kind {
		case "request", "buffer":
			requesters = append(requesters, cd)
		default:
			suppliers = append(suppliers, cd)
		}
	}
	for i := 0; i < params.OrderCount && len(suppliers) > 0 && len(requesters) > 0; i++ {
		src := suppliers[rng.Intn(len(suppliers))]
		dst := requesters[rng.Intn(len(requesters))]
		var item string
		var stock int
		for it, qty := range src.Inventory {
			item, stock = it, qty
			break
		}
		if item == "" {
			continue
		}
		qty := 1 + rng.Intn(stock)
		sc.Orders = append(sc.Orders, config.OrderDef{
			ID:          fmt.Sprintf("order-%d", i+1),
			Item:        item,
			Quantity:    qty,
			Origin:      src.ID,
			Destination: dst.ID,
			Priority:    priorities[rng.Intn(len(priorities))],
		})
	}
	return sc
}

func main() {
	seed := flag.Int64("seed", 42, "Random seed for deterministic generation")
	width := flag.Int("width", 15, "Grid width")
	height := flag.Int("height", 15, "Grid height")
	ports := flag.Int("ports", 2, "Number of robo-ports")
	chests := flag.Int("chests", 6, "Number of chests")
	robots := flag.Int("robots", 3, "Number of robots")
	orders := flag.Int("orders", 5, "Number of orders")
	count := flag.Int("count", 1, "Number of scenarios (seed increments per file)")
	outputDir := flag.String("output", "testdata", "Output directory")
	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	for i := 0; i < *count; i++ {
		params := ScenarioParams{
			Seed:       *seed + int64(i),
			GridWidth:  *width,
			GridHeight: *height,
			PortCount:  *ports,
			ChestCount: *chests,
			RobotCount: *robots,
			OrderCount: *orders,
		}
		sc := generateScenario(params)

		name := fmt.Sprintf("scenario_%dx%d_%d.json", params.GridWidth, params.GridHeight, params.Seed)
		filename := filepath.Join(*outputDir, name)
		data, err := json.MarshalIndent(sc, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error marshaling %s: %v\n", name, err)
			continue
		}
		if err := os.WriteFile(filename, data, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", filename, err)
			continue
		}
		fmt.Printf("Generated: %s (%d chests, %d robots, %d orders)\n",
			filename, len(sc.Chests), len(sc.Robots), len(sc.Orders))
	}
}
