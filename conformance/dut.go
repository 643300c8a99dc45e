// Package conformance drives identical stimulus into an arbiter device under
// test and the reference model, cycle by cycle, and fails on the first
// divergence. It carries a library of directed boundary scenarios and a
// randomized stress run.
package conformance

// Default instantiation parameters assumed when the DUT cannot be
// introspected.
const (
	defaultNumClients  = 4
	defaultWeightWidth = 4
)

// DUT is the signal-level surface of the arbiter under test. The driver
// observes the strict per-cycle ordering: Drive (inputs settle), Tick (clock
// edge, registers update), Grant (sample after settling).
type DUT interface {
	// Reset forces the post-reset state: idle, round-robin pointer at 0.
	Reset()
	// Drive applies one cycle of stimulus: per-client request and lock
	// vectors plus the packed weight bus.
	Drive(req, lock, weights uint64)
	// Tick advances one clock edge.
	Tick()
	// Grant returns the registered one-hot (or all-zero) grant output.
	Grant() uint64
}

// Parameterized is implemented by DUTs that expose their instantiation
// parameters. A DUT that does not is assumed to be the documented default
// of 4 clients with 4-bit weights.
type Parameterized interface {
	NumClients() int
	WeightWidth() uint
}

// Stimulus is one cycle of unpacked inputs.
type Stimulus struct {
	// Req carries one request bit per client.
	Req uint64
	// Lock carries one lock bit per client.
	Lock uint64
	// Weights holds one weight per client; entries are truncated to the
	// bench's weight width, as the packed bus would truncate them.
	Weights []uint64
}
