package conformance_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/arbsim/conformance"
	"github.com/sarchlab/arbsim/rtl"
)

// reloadingArbiter reproduces a classic arbiter defect: it reloads the
// weight counter when the grantee releases its lock, handing out a fresh
// entitlement that the policy does not allow.
type reloadingArbiter struct {
	req, lock, weights uint64

	gnt       uint64
	gntIdx    int
	rrPtr     int
	counter   uint64
	wasLocked bool
}

func (d *reloadingArbiter) Reset() {
	d.gnt, d.gntIdx, d.rrPtr, d.counter = 0, -1, 0, 0
	d.wasLocked = false
}

func (d *reloadingArbiter) Drive(req, lock, weights uint64) {
	d.req, d.lock, d.weights = req, lock, weights
}

func (d *reloadingArbiter) Grant() uint64 { return d.gnt }

func (d *reloadingArbiter) Tick() {
	keep := false
	if d.gntIdx >= 0 {
		owned := d.req>>uint(d.gntIdx)&1 == 1
		locked := d.lock>>uint(d.gntIdx)&1 == 1
		if owned && d.wasLocked && !locked {
			// The defect under test: unlock grants a fresh entitlement.
			d.counter = d.weights >> (uint(d.gntIdx) * 4) & 0xF
		}
		keep = owned && (locked || d.counter > 0)
		if keep && d.counter > 0 {
			d.counter--
		}
		d.wasLocked = keep && locked
	}
	if !keep {
		if d.gntIdx >= 0 {
			d.rrPtr = (d.gntIdx + 1) % 4
		}
		d.gnt, d.gntIdx = 0, -1
		for i := 0; i < 4; i++ {
			c := (d.rrPtr + i) % 4
			if d.req>>uint(c)&1 == 1 {
				d.gnt, d.gntIdx = uint64(1)<<uint(c), c
				d.counter = d.weights >> (uint(c) * 4) & 0xF
				break
			}
		}
	}
}

var _ = Describe("Scenarios", func() {
	It("should all pass against the RTL arbiter", func() {
		bench := conformance.NewBench(rtl.New(rtl.DefaultConfig()))
		for _, s := range conformance.Scenarios() {
			Expect(conformance.RunScenario(bench, s)).To(Succeed(),
				"scenario %q", s.Name)
		}
	})

	It("should all pass on a wider instantiation", func() {
		bench := conformance.NewBench(rtl.New(rtl.Config{NumClients: 8, WeightWidth: 5}))
		for _, s := range conformance.Scenarios() {
			Expect(conformance.RunScenario(bench, s)).To(Succeed(),
				"scenario %q", s.Name)
		}
	})

	It("should catch a DUT that reloads the counter on unlock", func() {
		bench := conformance.NewBench(&reloadingArbiter{})

		var target conformance.Scenario
		for _, s := range conformance.Scenarios() {
			if s.Name == "lock release without counter reload" {
				target = s
			}
		}
		Expect(target.Run).NotTo(BeNil())

		err := conformance.RunScenario(bench, target)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("lock release without counter reload"))
	})

	It("should leave healthy scenarios passing on the defective DUT", func() {
		// The reload defect only fires on the unlock path; rotation is
		// unaffected.
		bench := conformance.NewBench(&reloadingArbiter{})
		for _, s := range conformance.Scenarios() {
			if s.Name == "basic rotation" {
				Expect(conformance.RunScenario(bench, s)).To(Succeed())
			}
		}
	})
})
