package conformance

import (
	"github.com/sarchlab/arbsim/arb"
)

// Statistics accumulates observation counts across bench runs.
type Statistics struct {
	// Cycles is the total number of compared cycles.
	Cycles uint64
	// Grants is the number of cycles some client held the bus.
	Grants uint64
	// IdleCycles is the number of cycles no client held the bus.
	IdleCycles uint64
	// GrantChanges is the number of cycles the decoded grant differed from
	// the previous cycle.
	GrantChanges uint64
}

// Utilization returns the fraction of compared cycles with an active grant.
func (s Statistics) Utilization() float64 {
	if s.Cycles == 0 {
		return 0
	}
	return float64(s.Grants) / float64(s.Cycles)
}

// Bench locksteps one DUT with a fresh reference model and compares the
// decoded grant after every clock edge. The first divergence is fatal for
// the run; there is no retry.
type Bench struct {
	dut   DUT
	model *arb.Model

	numClients  int
	weightWidth uint

	cycle     uint64
	lastGrant int
	stats     Statistics
}

// NewBench wires a DUT to its oracle. Instantiation parameters are read
// from the DUT when it implements Parameterized, otherwise the documented
// defaults (4 clients, 4-bit weights) apply.
func NewBench(dut DUT) *Bench {
	n, w := defaultNumClients, uint(defaultWeightWidth)
	if p, ok := dut.(Parameterized); ok {
		n, w = p.NumClients(), p.WeightWidth()
	}

	b := &Bench{
		dut:         dut,
		model:       arb.NewModel(n),
		numClients:  n,
		weightWidth: w,
		lastGrant:   arb.NoGrant,
	}
	b.Reset()
	return b
}

// NumClients returns the client count the bench arbitrates over.
func (b *Bench) NumClients() int {
	return b.numClients
}

// WeightWidth returns the weight field width in bits.
func (b *Bench) WeightWidth() uint {
	return b.weightWidth
}

// Cycle returns the 1-based cycle count of the current run.
func (b *Bench) Cycle() uint64 {
	return b.cycle
}

// LastGrant returns the decoded grant of the most recent cycle, or
// arb.NoGrant.
func (b *Bench) LastGrant() int {
	return b.lastGrant
}

// Stats returns the accumulated statistics. Stats survive Reset so a full
// CLI invocation reports over all runs.
func (b *Bench) Stats() Statistics {
	return b.stats
}

// Reset resets DUT and model together and restarts the cycle count.
func (b *Bench) Reset() {
	b.dut.Reset()
	b.model.Reset()
	b.cycle = 0
	b.lastGrant = arb.NoGrant
}

// Step runs one clock cycle: inputs settle, clock edge, registered outputs
// update, outputs sampled and compared. It returns *MultiGrantError for an
// illegal one-hot violation (checked before any model comparison) or
// *MismatchError when DUT and model disagree.
func (b *Bench) Step(s Stimulus) error {
	// The model must see exactly what the packed bus carries, including
	// width truncation.
	packed := arb.PackWeights(s.Weights, b.weightWidth)
	weights := arb.UnpackWeights(packed, b.numClients, b.weightWidth)

	b.dut.Drive(s.Req, s.Lock, packed)
	b.dut.Tick()
	b.cycle++
	b.stats.Cycles++

	gnt := b.dut.Grant()
	got, err := arb.DecodeGrant(gnt, b.numClients)
	if err != nil {
		return &MultiGrantError{Cycle: b.cycle, Grant: gnt, Err: err}
	}

	want := b.model.Predict(s.Req, s.Lock, weights)
	if got != want {
		return &MismatchError{
			Cycle:   b.cycle,
			DUT:     got,
			Model:   want,
			Req:     s.Req,
			Lock:    s.Lock,
			RRPtr:   b.model.RRPtr(),
			Counter: b.model.Counter(),
		}
	}

	if got == arb.NoGrant {
		b.stats.IdleCycles++
	} else {
		b.stats.Grants++
	}
	if got != b.lastGrant {
		b.stats.GrantChanges++
	}
	b.lastGrant = got
	return nil
}
