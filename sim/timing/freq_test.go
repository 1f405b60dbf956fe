package timing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Freq", func() {
	freq := 1 * GHz

	It("should get period", func() {
		Expect(freq.Period()).To(BeNumerically("~", 1e-9, 1e-18))
	})

	It("should convert time to cycles", func() {
		Expect(freq.Cycle(10.2e-9)).To(Equal(uint64(10)))
	})

	It("should place edges without drift", func() {
		Expect(freq.NthTick(1_000_000)).To(BeNumerically("~", 1e-3, 1e-15))
		Expect(freq.NthHalfTick(3)).To(BeNumerically("~", 3.5e-9, 1e-18))
		Expect(freq.NthHalfTick(3)).To(BeNumerically(">", freq.NthTick(3)))
		Expect(freq.NthHalfTick(3)).To(BeNumerically("<", freq.NthTick(4)))
	})

	It("should get this tick and next tick", func() {
		Expect(freq.ThisTick(10.2e-9)).To(BeNumerically("~", 11e-9, 1e-18))
		Expect(freq.ThisTick(10e-9)).To(BeNumerically("~", 10e-9, 1e-18))
		Expect(freq.NextTick(10e-9)).To(BeNumerically("~", 11e-9, 1e-18))
	})

	It("should panic on zero frequency", func() {
		Expect(func() { Freq(0).Period() }).To(Panic())
	})
})
