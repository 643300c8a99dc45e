// Package main provides the entry point for ArbSim.
// ArbSim is a cycle-accurate conformance harness for a weighted round-robin
// bus arbiter with an atomic lock extension.
//
// For the full CLI, use: go run ./cmd/arbsim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("ArbSim - Weighted Round-Robin Arbiter Conformance Harness")
	fmt.Println("")
	fmt.Println("Usage: arbsim [options]")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -clients         Number of arbiter clients")
	fmt.Println("  -width           Per-client weight width in bits")
	fmt.Println("  -cycles          Stress run cycle budget")
	fmt.Println("  -seed            Stress run random seed")
	fmt.Println("  -config          Path to stress configuration JSON file")
	fmt.Println("  -scenarios-only  Skip the randomized stress run")
	fmt.Println("  -v               Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/arbsim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/arbsim' instead.")
	}
}
