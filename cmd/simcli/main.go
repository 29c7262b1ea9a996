// Command simcli runs eVTOL fleet simulations from the terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"evtolsim/internal/config"
	"evtolsim/internal/fleetdriver"
	"evtolsim/internal/model"
	"evtolsim/internal/simresult"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "run":
		cmdRun(os.Args[2:])
	case "sweep":
		cmdSweep(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  simcli run --config config.yaml --out results/summary.csv")
	fmt.Println("  simcli sweep --config config.yaml --runs 20")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - run executes a single simulation and writes a per-class CSV summary")
	fmt.Println("  - sweep runs N independent simulations concurrently and averages them")
}

func cmdRun(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	outPath := fs.String("out", "results/summary.csv", "Output CSV path")
	verbose := fs.Bool("verbose", false, "Log a summary line at the start and end of the run")
	_ = fs.Parse(args)

	if *cfgPath == "" {
		fmt.Println("--config is required")
		os.Exit(2)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		panic(err)
	}

	s, err := cfg.ToSimulation()
	if err != nil {
		panic(err)
	}
	s.SetVerbose(*verbose)

	results, err := s.Run(context.Background())
	if err != nil {
		panic(err)
	}

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		panic(err)
	}
	if err := simresult.WriteSummaryCSV(*outPath, results); err != nil {
		panic(err)
	}

	fmt.Printf("Wrote summary for %d classes to %s\n", model.ClassCount, *outPath)
	for _, r := range results {
		fmt.Printf("%-8s flights=%-4d charges=%-4d faults=%-4d passenger-miles=%.1f\n",
			r.Class.Name, r.TotalFlights, r.TotalCharges, r.TotalFaults, r.TotalPassengerMiles)
	}
}

func cmdSweep(args []string) {
	fs := flag.NewFlagSet("sweep", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	runs := fs.Int("runs", 10, "Number of independent runs to average")
	concurrency := fs.Int("concurrency", 0, "Max concurrent runs (0 = runs)")
	_ = fs.Parse(args)

	if *cfgPath == "" {
		fmt.Println("--config is required")
		os.Exit(2)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		panic(err)
	}

	results, err := fleetdriver.RunBatch(context.Background(), cfg.ToSettings(), *runs, *concurrency)
	if err != nil {
		panic(err)
	}

	fmt.Printf("%-8s %-12s %-12s %-12s %-12s %-10s %-16s\n", "class", "mean-fli", "mean-chg", "mean-ftime", "mean-faults", "p05-miles", "p95-miles")
	for _, r := range results {
		fmt.Printf(
			"%-8s %-12.2f %-12.2f %-12.2f %-12.2f %-10.1f %-16.1f\n",
			r.Class.Name, r.MeanTotalFlights, r.MeanTotalCharges, r.MeanAvgFlightTime, r.MeanTotalFaults, r.P05PassengerMiles, r.P95PassengerMiles,
		)
	}
}
