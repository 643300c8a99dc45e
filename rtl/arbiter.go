// Package rtl carries a register-transfer-level rendition of the weighted
// round-robin lock arbiter: packed input buses, a one-hot grant register,
// and combinational keep/switch logic latched on the rising clock edge.
//
// This is the device under test for the conformance harness. It is written
// independently of the reference model in package arb; the two share no
// arbitration code.
package rtl

import "fmt"

// Config holds the instantiation parameters of the arbiter.
type Config struct {
	// NumClients is the number of request/grant lanes.
	NumClients int
	// WeightWidth is the per-client weight field width in bits.
	WeightWidth uint
}

// DefaultConfig returns the default instantiation: 4 clients, 4-bit weights.
func DefaultConfig() Config {
	return Config{NumClients: 4, WeightWidth: 4}
}

// Validate checks that the parameters fit the 64-bit signal buses.
func (c Config) Validate() error {
	if c.NumClients < 1 || c.NumClients > 64 {
		return fmt.Errorf("num clients must be in 1..64, got %d", c.NumClients)
	}
	if c.WeightWidth < 1 || c.WeightWidth > 16 {
		return fmt.Errorf("weight width must be in 1..16, got %d", c.WeightWidth)
	}
	if uint(c.NumClients)*c.WeightWidth > 64 {
		return fmt.Errorf("weight bus %d*%d bits exceeds 64", c.NumClients, c.WeightWidth)
	}
	return nil
}

// Inputs is the input signal bundle sampled at each clock edge.
type Inputs struct {
	// RstN is the active-low reset.
	RstN bool
	// Req carries one request bit per client.
	Req uint64
	// Lock carries one lock bit per client. Only the current grantee's bit
	// has any effect.
	Lock uint64
	// Weights is the packed N x W weight bus, client i at bits
	// [i*W, i*W+W).
	Weights uint64
}

// Arbiter is the synthesizable-style arbiter. Apply sets the combinational
// inputs for the cycle; Tick models the rising clock edge, after which
// Grant returns the newly registered one-hot output.
type Arbiter struct {
	cfg Config
	in  Inputs

	// Registers.
	gnt     uint64 // one-hot grant output
	gntIdx  int    // decoded mirror of gnt, -1 while idle
	rrPtr   int
	counter uint64
}

// New creates an arbiter in the reset state. cfg should be validated by the
// caller.
func New(cfg Config) *Arbiter {
	a := &Arbiter{cfg: cfg}
	a.Reset()
	return a
}

// NumClients returns the instantiation client count.
func (a *Arbiter) NumClients() int {
	return a.cfg.NumClients
}

// WeightWidth returns the instantiation weight field width.
func (a *Arbiter) WeightWidth() uint {
	return a.cfg.WeightWidth
}

// Apply latches the combinational inputs that the next clock edge samples.
func (a *Arbiter) Apply(in Inputs) {
	a.in = in
}

// Drive applies one cycle of stimulus with reset deasserted.
func (a *Arbiter) Drive(req, lock, weights uint64) {
	a.Apply(Inputs{RstN: true, Req: req, Lock: lock, Weights: weights})
}

// Grant returns the registered one-hot grant output.
func (a *Arbiter) Grant() uint64 {
	return a.gnt
}

// Reset holds the active-low reset through one clock edge with all inputs
// deasserted.
func (a *Arbiter) Reset() {
	a.Apply(Inputs{})
	a.Tick()
}

// Tick models the rising clock edge: the combinational keep/switch decision
// is evaluated against the applied inputs and the next register values are
// latched.
func (a *Arbiter) Tick() {
	if !a.in.RstN {
		a.gnt = 0
		a.gntIdx = -1
		a.rrPtr = 0
		a.counter = 0
		return
	}

	nextGnt, nextIdx := a.gnt, a.gntIdx
	nextPtr, nextCnt := a.rrPtr, a.counter

	// keep_current: the owner holds the bus while it keeps requesting and
	// is either locked or has entitlement left.
	keep := false
	if a.gntIdx >= 0 {
		owned := a.in.Req>>uint(a.gntIdx)&1 == 1
		locked := a.in.Lock>>uint(a.gntIdx)&1 == 1
		keep = owned && (locked || a.counter > 0)
		if keep && a.counter > 0 {
			nextCnt = a.counter - 1
		}
	}

	if !keep {
		if a.gntIdx >= 0 {
			nextPtr = (a.gntIdx + 1) % a.cfg.NumClients
		}
		nextGnt, nextIdx = 0, -1
		for i := 0; i < a.cfg.NumClients; i++ {
			c := (nextPtr + i) % a.cfg.NumClients
			if a.in.Req>>uint(c)&1 == 1 {
				nextGnt = uint64(1) << uint(c)
				nextIdx = c
				nextCnt = a.weightOf(c)
				break
			}
		}
	}

	a.gnt, a.gntIdx = nextGnt, nextIdx
	a.rrPtr, a.counter = nextPtr, nextCnt
}

// weightOf extracts client i's field from the packed weight bus.
func (a *Arbiter) weightOf(i int) uint64 {
	mask := uint64(1)<<a.cfg.WeightWidth - 1
	return a.in.Weights >> (uint(i) * a.cfg.WeightWidth) & mask
}
