package conformance

import (
	"encoding/json"
	"fmt"
	"os"
)

// StressConfig holds the knobs of the randomized equivalence run.
type StressConfig struct {
	// Cycles is the fixed cycle budget. The run terminates after this many
	// compared cycles or on the first failure, whichever comes first.
	// Default: 5000.
	Cycles uint64 `json:"cycles"`

	// ReqProb is the per-cycle, per-client probability of asserting the
	// request bit. Kept high so most clients contend most of the time.
	// Default: 0.85.
	ReqProb float64 `json:"req_prob"`

	// LockProb is the per-cycle, per-client probability of asserting the
	// lock bit. Kept low so locking exercises the legal and illegal lock
	// paths without dominating. Default: 0.05.
	LockProb float64 `json:"lock_prob"`

	// ReweightEvery is the period, in cycles, of weight table
	// re-randomization. Weights change between arbitration decisions, not
	// every cycle. Default: 64.
	ReweightEvery uint64 `json:"reweight_every"`

	// Seed seeds the stimulus generator for reproducible runs. Default: 1.
	Seed int64 `json:"seed"`
}

// DefaultStressConfig returns a StressConfig with the documented defaults.
func DefaultStressConfig() *StressConfig {
	return &StressConfig{
		Cycles:        5000,
		ReqProb:       0.85,
		LockProb:      0.05,
		ReweightEvery: 64,
		Seed:          1,
	}
}

// LoadStressConfig loads a StressConfig from a JSON file. Missing fields
// keep their defaults.
func LoadStressConfig(path string) (*StressConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read stress config file: %w", err)
	}

	config := DefaultStressConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse stress config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a StressConfig to a JSON file.
func (c *StressConfig) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize stress config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write stress config file: %w", err)
	}

	return nil
}

// Validate checks that the configuration describes a runnable stress run.
func (c *StressConfig) Validate() error {
	if c.Cycles == 0 {
		return fmt.Errorf("cycles must be > 0")
	}
	if c.ReqProb < 0 || c.ReqProb > 1 {
		return fmt.Errorf("req_prob must be in [0, 1]")
	}
	if c.LockProb < 0 || c.LockProb > 1 {
		return fmt.Errorf("lock_prob must be in [0, 1]")
	}
	if c.ReweightEvery == 0 {
		return fmt.Errorf("reweight_every must be > 0")
	}
	return nil
}

// Clone returns a copy of the StressConfig.
func (c *StressConfig) Clone() *StressConfig {
	clone := *c
	return &clone
}
