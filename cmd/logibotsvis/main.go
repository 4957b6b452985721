// Command logibotsvis runs the fleet simulation with a GUI viewer.
package main

import (
	"flag"
	"log"
	"os"
	"time"

	"gioui.org/app"
	"gioui.org/unit"

	"github.com/elektrokombinacija/logibots/internal/config"
	"github.com/elektrokombinacija/logibots/internal/service"
	"github.com/elektrokombinacija/logibots/internal/sim"
	"github.com/elektrokombinacija/logibots/internal/sim/tuning"
	"github.com/elektrokombinacija/logibots/internal/vis"
)

func main() {
	scenarioPath := flag.String("scenario", "scenario.json", "scenario file")
	schemaPath := flag.String("schema", "schemas/scenario.schema.json", "scenario JSON schema")
	tuningPath := flag.String("tuning", "", "optional YAML tuning overrides")
	flag.Parse()

	logger := log.New(os.Stderr, "logibotsvis ", log.LstdFlags)

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

	factory := func() (*sim.Engine, error) {
		state, err := scenario.BuildState(logger)
		if err != nil {
			return nil, err
		}
		return sim.NewEngine(state, params, logger, nil), nil
	}

	interval := 200 * time.Millisecond
	if scenario.SpeedMS > 0 {
		interval = time.Duration(scenario.SpeedMS) * time.Millisecond
	}
	svc, err := service.New(factory, interval, logger)
	if err != nil {
		logger.Fatalf("create service: %v", err)
	}

	go func() {
		window := new(app.Window)
		window.Option(
			app.Title("Logibots"),
			app.Size(unit.Dp(1200), unit.Dp(800)),
		)

		application := vis.NewApp(svc)
		if err := application.Run(window); err != nil {
			log.Fatal(err)
		}
		os.Exit(0)
	}()
	app.Main()
}
