package conformance

import (
	"math/rand"

	"github.com/sarchlab/akita/v4/sim"
)

// stressFreq is the nominal clock of the stress run. Only the event spacing
// matters; the arbitration policy is frequency-independent.
const stressFreq = 1 * sim.GHz

// cycleEvent marks one clock cycle of the stress run.
type cycleEvent struct {
	*sim.EventBase
}

func newCycleEvent(t sim.VTimeInSec, h sim.Handler) *cycleEvent {
	return &cycleEvent{sim.NewEventBase(t, h)}
}

// stressRunner advances the bench by one cycle per scheduled clock event:
// randomize stimulus, let inputs settle, clock edge, sample, compare, then
// schedule the next cycle. Scheduling stops on the first failure or when
// the budget is spent.
type stressRunner struct {
	engine sim.Engine
	bench  *Bench
	cfg    *StressConfig
	rng    *rand.Rand

	weights       []uint64
	sinceReweight uint64
	remaining     uint64
	err           error
}

// Handle runs one clock cycle of the stress run.
func (r *stressRunner) Handle(e sim.Event) error {
	if r.err != nil || r.remaining == 0 {
		return nil
	}
	r.remaining--

	if r.sinceReweight == 0 {
		r.randomizeWeights()
		r.sinceReweight = r.cfg.ReweightEvery
	}
	r.sinceReweight--

	st := Stimulus{
		Req:     r.randomBits(r.cfg.ReqProb),
		Lock:    r.randomBits(r.cfg.LockProb),
		Weights: r.weights,
	}
	if err := r.bench.Step(st); err != nil {
		r.err = err
		return nil
	}

	if r.remaining > 0 {
		r.engine.Schedule(newCycleEvent(stressFreq.NextTick(e.Time()), r))
	}
	return nil
}

// randomBits draws an independent Bernoulli bit per client.
func (r *stressRunner) randomBits(p float64) uint64 {
	var v uint64
	for i := 0; i < r.bench.NumClients(); i++ {
		if r.rng.Float64() < p {
			v |= uint64(1) << uint(i)
		}
	}
	return v
}

// randomizeWeights redraws the whole weight table within the bus width.
func (r *stressRunner) randomizeWeights() {
	maxWeight := uint64(1)<<r.bench.WeightWidth() - 1
	for i := range r.weights {
		r.weights[i] = uint64(r.rng.Int63n(int64(maxWeight) + 1))
	}
}

// RunStress resets the bench and runs the randomized equivalence check for
// the configured cycle budget, one clock event per cycle on a serial event
// engine. It returns the first *MultiGrantError or *MismatchError, or nil
// when every compared cycle agreed.
func RunStress(b *Bench, cfg *StressConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	b.Reset()

	engine := sim.NewSerialEngine()
	runner := &stressRunner{
		engine:    engine,
		bench:     b,
		cfg:       cfg,
		rng:       rand.New(rand.NewSource(cfg.Seed)),
		weights:   make([]uint64, b.NumClients()),
		remaining: cfg.Cycles,
	}

	engine.Schedule(newCycleEvent(stressFreq.NextTick(engine.CurrentTime()), runner))
	if err := engine.Run(); err != nil {
		return err
	}
	return runner.err
}
