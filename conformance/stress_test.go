package conformance_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/arbsim/conformance"
	"github.com/sarchlab/arbsim/rtl"
)

var _ = Describe("RunStress", func() {
	var bench *conformance.Bench

	BeforeEach(func() {
		bench = conformance.NewBench(rtl.New(rtl.DefaultConfig()))
	})

	It("should match the model over the default budget", func() {
		Expect(conformance.RunStress(bench, conformance.DefaultStressConfig())).To(Succeed())
		Expect(bench.Stats().Cycles).To(Equal(uint64(5000)))
	})

	It("should match the model across seeds", func() {
		for seed := int64(2); seed <= 6; seed++ {
			cfg := conformance.DefaultStressConfig()
			cfg.Cycles = 2000
			cfg.Seed = seed
			Expect(conformance.RunStress(bench, cfg)).To(Succeed(), "seed %d", seed)
		}
	})

	It("should match the model on a wider instantiation", func() {
		b := conformance.NewBench(rtl.New(rtl.Config{NumClients: 12, WeightWidth: 3}))
		cfg := conformance.DefaultStressConfig()
		cfg.Cycles = 3000
		Expect(conformance.RunStress(b, cfg)).To(Succeed())
	})

	It("should match the model under heavy locking", func() {
		cfg := conformance.DefaultStressConfig()
		cfg.Cycles = 2000
		cfg.LockProb = 0.4
		Expect(conformance.RunStress(bench, cfg)).To(Succeed())
	})

	It("should match the model under sparse requests", func() {
		// Exercises idle cycles and weight changes while idle.
		cfg := conformance.DefaultStressConfig()
		cfg.Cycles = 2000
		cfg.ReqProb = 0.2
		cfg.ReweightEvery = 16
		Expect(conformance.RunStress(bench, cfg)).To(Succeed())
	})

	It("should be reproducible for a fixed seed", func() {
		cfg := conformance.DefaultStressConfig()
		cfg.Cycles = 1000

		Expect(conformance.RunStress(bench, cfg)).To(Succeed())
		first := bench.Stats()

		other := conformance.NewBench(rtl.New(rtl.DefaultConfig()))
		Expect(conformance.RunStress(other, cfg)).To(Succeed())
		Expect(other.Stats()).To(Equal(first))
	})

	It("should reject an invalid configuration", func() {
		cfg := conformance.DefaultStressConfig()
		cfg.Cycles = 0
		Expect(conformance.RunStress(bench, cfg)).NotTo(Succeed())
	})

	It("should stop on the first divergence", func() {
		b := conformance.NewBench(&priorityDUT{})
		cfg := conformance.DefaultStressConfig()
		cfg.Cycles = 2000

		err := conformance.RunStress(b, cfg)
		Expect(err).To(HaveOccurred())
		// Terminated at the failing cycle, not the full budget.
		Expect(b.Cycle()).To(BeNumerically("<", cfg.Cycles))
	})
})
