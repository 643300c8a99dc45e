// Package main provides the entry point for ArbSim.
// ArbSim is a conformance harness for a weighted round-robin bus arbiter
// with an atomic lock extension.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/sarchlab/arbsim/conformance"
	"github.com/sarchlab/arbsim/rtl"
)

var (
	clients       = flag.Int("clients", 4, "Number of arbiter clients")
	width         = flag.Int("width", 4, "Per-client weight width in bits")
	cycles        = flag.Uint64("cycles", 5000, "Stress run cycle budget")
	seed          = flag.Int64("seed", 1, "Stress run random seed")
	configPath    = flag.String("config", "", "Path to stress configuration JSON file")
	scenariosOnly = flag.Bool("scenarios-only", false, "Run directed scenarios without the stress run")
	verbose       = flag.Bool("v", false, "Verbose output")
)

func main() {
	flag.Parse()

	cfg := rtl.Config{NumClients: *clients, WeightWidth: uint(*width)}
	if err := cfg.Validate(); err != nil {
		fatal(err)
	}

	stress, err := stressConfig()
	if err != nil {
		fatal(err)
	}

	bench := conformance.NewBench(rtl.New(cfg))

	for _, s := range conformance.Scenarios() {
		if err := conformance.RunScenario(bench, s); err != nil {
			fatal(err)
		}
		if *verbose {
			fmt.Printf("scenario %-36s ok\n", s.Name)
		}
	}

	if !*scenariosOnly {
		if err := conformance.RunStress(bench, stress); err != nil {
			fatal(errors.Wrap(err, "stress run"))
		}
		if *verbose {
			fmt.Printf("stress   %-36s ok\n",
				fmt.Sprintf("%d cycles (seed %d)", stress.Cycles, stress.Seed))
		}
	}

	stats := bench.Stats()
	fmt.Printf("Clients: %d, weight width: %d bits\n", *clients, *width)
	fmt.Printf("Cycles compared: %d\n", stats.Cycles)
	fmt.Printf("Granted cycles: %d (%.1f%% utilization)\n",
		stats.Grants, stats.Utilization()*100)
	fmt.Printf("Grant changes: %d\n", stats.GrantChanges)
	fmt.Println("All conformance checks passed")
}

// stressConfig builds the stress configuration from the config file or from
// the individual flags.
func stressConfig() (*conformance.StressConfig, error) {
	if *configPath != "" {
		return conformance.LoadStressConfig(*configPath)
	}

	cfg := conformance.DefaultStressConfig()
	cfg.Cycles = *cycles
	cfg.Seed = *seed
	return cfg, nil
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
