package conformance_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/arbsim/conformance"
)

var _ = Describe("StressConfig", func() {
	It("should carry the documented defaults", func() {
		cfg := conformance.DefaultStressConfig()
		Expect(cfg.Cycles).To(Equal(uint64(5000)))
		Expect(cfg.ReqProb).To(Equal(0.85))
		Expect(cfg.LockProb).To(Equal(0.05))
		Expect(cfg.ReweightEvery).To(Equal(uint64(64)))
		Expect(cfg.Seed).To(Equal(int64(1)))
		Expect(cfg.Validate()).To(Succeed())
	})

	It("should reject a zero cycle budget", func() {
		cfg := conformance.DefaultStressConfig()
		cfg.Cycles = 0
		Expect(cfg.Validate()).NotTo(Succeed())
	})

	It("should reject probabilities outside [0, 1]", func() {
		cfg := conformance.DefaultStressConfig()
		cfg.ReqProb = 1.5
		Expect(cfg.Validate()).NotTo(Succeed())

		cfg = conformance.DefaultStressConfig()
		cfg.LockProb = -0.1
		Expect(cfg.Validate()).NotTo(Succeed())
	})

	It("should reject a zero reweight period", func() {
		cfg := conformance.DefaultStressConfig()
		cfg.ReweightEvery = 0
		Expect(cfg.Validate()).NotTo(Succeed())
	})

	It("should survive a save and load round trip", func() {
		path := filepath.Join(GinkgoT().TempDir(), "stress.json")

		cfg := conformance.DefaultStressConfig()
		cfg.Cycles = 1234
		cfg.Seed = 42
		Expect(cfg.SaveConfig(path)).To(Succeed())

		loaded, err := conformance.LoadStressConfig(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded).To(Equal(cfg))
	})

	It("should keep defaults for fields missing from the file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "partial.json")
		Expect(os.WriteFile(path, []byte(`{"cycles": 99}`), 0644)).To(Succeed())

		loaded, err := conformance.LoadStressConfig(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.Cycles).To(Equal(uint64(99)))
		Expect(loaded.ReqProb).To(Equal(0.85))
		Expect(loaded.ReweightEvery).To(Equal(uint64(64)))
	})

	It("should report a missing file", func() {
		_, err := conformance.LoadStressConfig(
			filepath.Join(GinkgoT().TempDir(), "absent.json"))
		Expect(err).To(HaveOccurred())
	})

	It("should report malformed JSON", func() {
		path := filepath.Join(GinkgoT().TempDir(), "broken.json")
		Expect(os.WriteFile(path, []byte("{"), 0644)).To(Succeed())

		_, err := conformance.LoadStressConfig(path)
		Expect(err).To(HaveOccurred())
	})

	It("should clone into an independent copy", func() {
		cfg := conformance.DefaultStressConfig()
		clone := cfg.Clone()
		clone.Cycles = 7

		Expect(cfg.Cycles).To(Equal(uint64(5000)))
		Expect(clone.Cycles).To(Equal(uint64(7)))
	})
})
