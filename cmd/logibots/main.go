// Command logibots runs a scenario headless until stable or a cycle limit.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/elektrokombinacija/logibots/internal/audit"
	"github.com/elektrokombinacija/logibots/internal/config"
	"github.com/elektrokombinacija/logibots/internal/sim"
	"github.com/elektrokombinacija/logibots/internal/sim/tuning"
	"github.com/elektrokombinacija/logibots/internal/transport/observer"
)

func main() {
	scenarioPath := flag.String("scenario", "scenario.json", "scenario file")
	schemaPath := flag.String("schema", "schemas/scenario.schema.json", "scenario JSON schema")
	tuningPath := flag.String("tuning", "", "optional YAML tuning overrides")
	auditDir := flag.String("audit", "", "directory for the movement audit log (empty disables)")
	listen := flag.String("listen", "", "address for the observer WebSocket (empty disables)")
	maxCycles := flag.Int("max-cycles", 10000, "stop after this many cycles")
	flag.Parse()

	logger := log.New(os.Stderr, "logibots ", log.LstdFlags)

	params := tuning.Defaults()
	if *tuningPath != "" {
		var err error
		params, err = tuning.Load(*tuningPath)
		if err != nil {
			logger.Fatalf("load tuning: %v", err)
		}
	}

	scenario, err := config.Load(*scenarioPath, *schemaPath)
	if err != nil {
		logger.Fatalf("load scenario: %v", err)
	}
	state, err := scenario.BuildState(logger)
	if err != nil {
		logger.Fatalf("build state: %v", err)
	}

	var rec sim.Recorder
	if *auditDir != "" {
		recorder := audit.NewRecorder(*auditDir, logger)
		defer func() {
			if err := recorder.Close(); err != nil {
				logger.Printf("close audit log: %v", err)
			}
		}()
		rec = recorder
	}

	engine := sim.NewEngine(state, params, logger, rec)

	var obs *observer.Server
	if *listen != "" {
		obs = observer.NewServer(logger)
		mux := http.NewServeMux()
		mux.HandleFunc("/ws", obs.WSHandler())
		go func() {
			if err := http.ListenAndServe(*listen, mux); err != nil {
				logger.Printf("observer server: %v", err)
			}
		}()
		logger.Printf("observer stream on ws://%s/ws", *listen)
	}

	for cycle := 1; cycle <= *maxCycles; cycle++ {
		st := engine.Tick()
		if obs != nil {
			obs.SimulationUpdated(engine.Snapshot())
		}
		if st.Stable {
			logger.Printf("stable after %d cycles", st.Cycle)
			printSummary(engine)
			return
		}
	}
	logger.Printf("cycle limit %d reached without stability", *maxCycles)
	printSummary(engine)
	os.Exit(1)
}

func printSummary(engine *sim.Engine) {
	snap := engine.Snapshot()
	fmt.Printf("cycle %d, stable=%v\n", snap.Cycle, snap.Stable)
	for _, o := range snap.Orders {
		fmt.Printf("  order %-16s %3d %-12s %s -> %s  %s\n",
			o.ID, o.Quantity, o.Item, o.OriginID, o.DestID, o.Status)
	}
	for _, r := range snap.Robots {
		fmt.Printf("  robot %-8s (%d,%d) battery %d/%d  %s\n",
			r.ID, r.X, r.Y, r.Battery, r.MaxBattery, r.State)
	}
}
