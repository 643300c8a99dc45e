package conformance

import (
	"github.com/pkg/errors"

	"github.com/sarchlab/arbsim/arb"
)

// Scenario is a directed stimulus sequence targeting one arbitration rule
// interaction. Run drives the bench and returns the first violation.
type Scenario struct {
	Name string
	Run  func(b *Bench) error
}

// RunScenario resets the bench and executes one scenario, tagging any
// failure with the scenario name.
func RunScenario(b *Bench, s Scenario) error {
	b.Reset()
	if err := s.Run(b); err != nil {
		return errors.Wrap(err, s.Name)
	}
	return nil
}

// Scenarios returns the directed scenario library. Every scenario assumes at
// least 4 clients; the model comparison inside each Step applies on top of
// the explicit grant expectations.
func Scenarios() []Scenario {
	return []Scenario{
		{Name: "basic rotation", Run: rotationScenario},
		{Name: "weighted hold duration", Run: weightedHoldScenario},
		{Name: "work conservation early drop", Run: earlyDropScenario},
		{Name: "lock hold and release", Run: lockHoldScenario},
		{Name: "illegal lock rejection", Run: illegalLockScenario},
		{Name: "lock release without counter reload", Run: lockToSwitchScenario},
		{Name: "release under lock", Run: releaseUnderLockScenario},
		{Name: "weight change at handoff", Run: weightHandoffScenario},
		{Name: "idle rescan", Run: idleRescanScenario},
	}
}

// stepExpect drives one cycle and checks the decoded DUT grant against the
// expected index, on top of the bench's model comparison.
func stepExpect(b *Bench, s Stimulus, want int) error {
	if err := b.Step(s); err != nil {
		return err
	}
	if got := b.LastGrant(); got != want {
		return errors.Errorf("cycle %d: granted %d, want %d",
			b.Cycle(), got, want)
	}
	return nil
}

// allRequest returns the request vector with every client asserted.
func allRequest(b *Bench) uint64 {
	return uint64(1)<<uint(b.NumClients()) - 1
}

// rotationScenario: all clients requesting with weight 0 must be visited in
// increasing cyclic order from 0, one cycle each, repeating.
func rotationScenario(b *Bench) error {
	n := b.NumClients()
	weights := make([]uint64, n)
	req := allRequest(b)

	for turn := 0; turn < 2*n+1; turn++ {
		want := turn % n
		if err := stepExpect(b, Stimulus{Req: req, Weights: weights}, want); err != nil {
			return err
		}
	}
	return nil
}

// weightedHoldScenario: weights [1,3,0,0] with everyone requesting yield the
// grant sequence 0,0,1,1,1,1,2,3 (weight k means k+1 cycles).
func weightedHoldScenario(b *Bench) error {
	weights := make([]uint64, b.NumClients())
	weights[0], weights[1] = 1, 3
	req := allRequest(b)

	expected := []int{0, 0, 1, 1, 1, 1, 2, 3}
	for _, want := range expected {
		if err := stepExpect(b, Stimulus{Req: req, Weights: weights}, want); err != nil {
			return err
		}
	}
	return nil
}

// earlyDropScenario: a grantee with a large remaining entitlement that stops
// requesting must lose the grant on the very next cycle.
func earlyDropScenario(b *Bench) error {
	weights := make([]uint64, b.NumClients())
	weights[0] = 15

	if err := stepExpect(b, Stimulus{Req: 0b11, Weights: weights}, 0); err != nil {
		return err
	}
	// Client 0 drops its request with 15 entitled cycles left.
	if err := stepExpect(b, Stimulus{Req: 0b10, Weights: weights}, 1); err != nil {
		return err
	}
	// Client 1 keeps winning re-arbitration as the sole requester.
	return stepExpect(b, Stimulus{Req: 0b10, Weights: weights}, 1)
}

// lockHoldScenario: the grantee's lock extends occupancy far past a weight
// of 0; releasing the lock hands the bus over on the next cycle.
func lockHoldScenario(b *Bench) error {
	weights := make([]uint64, b.NumClients())

	if err := stepExpect(b, Stimulus{Req: 0b11, Weights: weights}, 0); err != nil {
		return err
	}
	for i := 0; i < 10; i++ {
		if err := stepExpect(b, Stimulus{Req: 0b11, Lock: 0b01, Weights: weights}, 0); err != nil {
			return err
		}
	}
	return stepExpect(b, Stimulus{Req: 0b11, Weights: weights}, 1)
}

// illegalLockScenario: client 1 asserting lock while client 0 holds the
// grant has no effect; client 0 runs out its 6 entitled cycles, then hands
// over even though client 1 still asserts lock (it only binds once granted).
func illegalLockScenario(b *Bench) error {
	weights := make([]uint64, b.NumClients())
	weights[0] = 5

	if err := stepExpect(b, Stimulus{Req: 0b11, Weights: weights}, 0); err != nil {
		return err
	}
	for i := 0; i < 5; i++ {
		if err := stepExpect(b, Stimulus{Req: 0b11, Lock: 0b10, Weights: weights}, 0); err != nil {
			return err
		}
	}
	return stepExpect(b, Stimulus{Req: 0b11, Lock: 0b10, Weights: weights}, 1)
}

// lockToSwitchScenario: weight 1 entitles 2 cycles; locking for 5 cycles and
// releasing must switch immediately. A DUT that reloads the counter on
// unlock keeps the grant and fails here.
func lockToSwitchScenario(b *Bench) error {
	weights := make([]uint64, b.NumClients())
	weights[0] = 1

	if err := stepExpect(b, Stimulus{Req: 0b11, Weights: weights}, 0); err != nil {
		return err
	}
	for i := 0; i < 5; i++ {
		if err := stepExpect(b, Stimulus{Req: 0b11, Lock: 0b01, Weights: weights}, 0); err != nil {
			return err
		}
	}
	return stepExpect(b, Stimulus{Req: 0b11, Weights: weights}, 1)
}

// releaseUnderLockScenario: work conservation outranks lock. A locked
// grantee that stops requesting loses the bus on the next cycle.
func releaseUnderLockScenario(b *Bench) error {
	weights := make([]uint64, b.NumClients())
	weights[0] = 3

	if err := stepExpect(b, Stimulus{Req: 0b11, Lock: 0b01, Weights: weights}, 0); err != nil {
		return err
	}
	return stepExpect(b, Stimulus{Req: 0b10, Lock: 0b01, Weights: weights}, 1)
}

// weightHandoffScenario: a weight table change in the exact cycle of a grant
// transition applies to the incoming grant only, and an in-flight grant
// never re-samples the table.
func weightHandoffScenario(b *Bench) error {
	zeros := make([]uint64, b.NumClients())
	bumped := make([]uint64, b.NumClients())
	bumped[1] = 2
	req := allRequest(b)

	// Client 0 holds one cycle on weight 0.
	if err := stepExpect(b, Stimulus{Req: req, Weights: zeros}, 0); err != nil {
		return err
	}
	// The table changes in the same cycle client 1 is granted: client 1
	// must snapshot the new weight 2.
	if err := stepExpect(b, Stimulus{Req: req, Weights: bumped}, 1); err != nil {
		return err
	}
	// Reverting the table mid-grant must not touch the loaded counter.
	if err := stepExpect(b, Stimulus{Req: req, Weights: zeros}, 1); err != nil {
		return err
	}
	if err := stepExpect(b, Stimulus{Req: req, Weights: zeros}, 1); err != nil {
		return err
	}
	return stepExpect(b, Stimulus{Req: req, Weights: zeros}, 2)
}

// idleRescanScenario: with nobody requesting the grant output stays all-zero
// and the round-robin pointer holds, so the first requester after the idle
// gap is picked from the pointer position.
func idleRescanScenario(b *Bench) error {
	weights := make([]uint64, b.NumClients())

	// One full grant to client 0 moves the pointer to 1.
	if err := stepExpect(b, Stimulus{Req: 0b01, Weights: weights}, 0); err != nil {
		return err
	}
	for i := 0; i < 3; i++ {
		if err := stepExpect(b, Stimulus{Weights: weights}, arb.NoGrant); err != nil {
			return err
		}
	}
	// Client 2 is the first requester at or after the pointer.
	return stepExpect(b, Stimulus{Req: 0b100, Weights: weights}, 2)
}
