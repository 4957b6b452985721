// Package main runs scenario files headless and collects per-run metrics:
// cycles to stability, wall time and order outcomes.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/elektrokombinacija/logibots/internal/config"
	"github.com/elektrokombinacija/logibots/internal/core"
	"github.com/elektrokombinacija/logibots/internal/sim"
	"github.com/elektrokombinacija/logibots/internal/sim/tuning"
)

// RunResult stores the outcome of one scenario run.
type RunResult struct {
	Timestamp       string
	CommitHash      string
	GoVersion       string
	OS              string
	Arch            string
	Scenario        string
	GridSize        string
	Robots          int
	Chests          int
	Orders          int
	Stable          bool
	Cycles          int
	RuntimeMs       float64
	OrdersCompleted int
	OrdersFailed    int
}

func getGitCommit() string {
	cmd := exec.Command("git", "rev-parse", "--short", "HEAD")
	output, err := cmd.Output()
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(string(output))
}

// runScenario ticks a scenario to stability or the cycle limit.
func runScenario(path, schemaPath string, params tuning.Params, maxCycles int) (*RunResult, error) {
	sc, err := config.Load(path, schemaPath)
	if err != nil {
		return nil, err
	}
	state, err := sc.BuildState(nil)
	if err != nil {
		return nil, err
	}
	engine := sim.NewEngine(state, params, nil, nil)

	result := &RunResult{
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		CommitHash: getGitCommit(),
		GoVersion:  runtime.Version(),
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
		Scenario:   filepath.Base(path),
		GridSize:   fmt.Sprintf("%dx%d", sc.Grid.Width, sc.Grid.Height),
		Robots:     len(sc.Robots),
		Chests:     len(sc.Chests),
		Orders:     len(state.Orders),
	}

	start := time.Now()
	for i := 0; i < maxCycles; i++ {
		st := engine.Tick()
		if st.Stable {
			result.Stable = true
			result.Cycles = st.Cycle
			break
		}
		result.Cycles = st.Cycle
	}
	result.RuntimeMs = float64(time.Since(start).Microseconds()) / 1000.0

	for _, o := range state.Orders {
		switch o.Status {
		case core.OrderCompleted:
			result.OrdersCompleted++
		case core.OrderFailed:
			result.OrdersFailed++
		}
	}
	return result, nil
}

func writeCSV(results []*RunResult, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"timestamp", "commit_hash", "go_version", "os", "arch",
		"scenario", "grid_size", "robots", "chests", "orders",
		"stable", "cycles", "runtime_ms", "orders_completed", "orders_failed",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, r := range results {
		row := []string{
			r.Timestamp, r.CommitHash, r.GoVersion, r.OS, r.Arch,
			r.Scenario, r.GridSize, fmt.Sprintf("%d", r.Robots),
			fmt.Sprintf("%d", r.Chests), fmt.Sprintf("%d", r.Orders),
			fmt.Sprintf("%t", r.Stable), fmt.Sprintf("%d", r.Cycles),
			fmt.Sprintf("%.3f", r.RuntimeMs),
			fmt.Sprintf("%d", r.OrdersCompleted), fmt.Sprintf("%d", r.OrdersFailed),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func printSummary(results []*RunResult) {
	fmt.Println("\n=== SCENARIO SUMMARY ===")
	fmt.Printf("%-32s %8s %8s %8s %12s %10s %8s\n",
		"Scenario", "Robots", "Stable", "Cycles", "Time(ms)", "Completed", "Failed")
	fmt.Println(strings.Repeat("-", 92))

	stableRuns := 0
	totalCycles := 0
	for _, r := range results {
		fmt.Printf("%-32s %8d %8t %8d %12.2f %10d %8d\n",
			r.Scenario, r.Robots, r.Stable, r.Cycles, r.RuntimeMs,
			r.OrdersCompleted, r.OrdersFailed)
		if r.Stable {
			stableRuns++
			totalCycles += r.Cycles
		}
	}

	fmt.Println(strings.Repeat("-", 92))
	avgCycles := 0.0
	if stableRuns > 0 {
		avgCycles = float64(totalCycles) / float64(stableRuns)
	}
	fmt.Printf("%d/%d runs reached stability, avg %.1f cycles\n",
		stableRuns, len(results), avgCycles)
}

func main() {
	inputDir := flag.String("input", "testdata", "Directory containing scenario JSON files")
	schemaPath := flag.String("schema", "schemas/scenario.schema.json", "Scenario schema path")
	tuningPath := flag.String("tuning", "", "Optional tuning YAML override")
	outputFile := flag.String("output", "evidence/benchmark_results.csv", "Output CSV file")
	maxCycles := flag.Int("max-cycles", 10000, "Cycle limit per run")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	params := tuning.Defaults()
	if *tuningPath != "" {
		p, err := tuning.Load(*tuningPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading tuning: %v\n", err)
			os.Exit(1)
		}
		params = p
	}

	if err := os.MkdirAll(filepath.Dir(*outputFile), 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	files, err := filepath.Glob(filepath.Join(*inputDir, "*.json"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error finding scenario files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Fprintf(os.Stderr, "No scenario files found in %s\n", *inputDir)
		fmt.Fprintf(os.Stderr, "Run gen_scenarios first: go run ./tools/gen_scenarios -output %s\n", *inputDir)
		os.Exit(1)
	}

	var results []*RunResult
	for i, file := range files {
		if *verbose {
			fmt.Printf("[%d/%d] %s ... ", i+1, len(files), filepath.Base(file))
		} else {
			fmt.Printf("\r[%d/%d] Running...", i+1, len(files))
		}

		result, err := runScenario(file, *schemaPath, params, *maxCycles)
		if err != nil {
			fmt.Fprintf(os.Stderr, "\nError running %s: %v\n", file, err)
			continue
		}
		results = append(results, result)

		if *verbose {
			if result.Stable {
				fmt.Printf("stable after %d cycles (%.2fms)\n", result.Cycles, result.RuntimeMs)
			} else {
				fmt.Printf("cycle limit reached\n")
			}
		}
	}
	fmt.Println()

	if err := writeCSV(results, *outputFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing results: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Results written to: %s\n", *outputFile)

	printSummary(results)
}
