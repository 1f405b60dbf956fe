package stream

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Randomizer", func() {
	It("should give constant bits at the extreme biases", func() {
		always := MakeRandomizerBuilder().WithFixedBias(1).Build()
		never := MakeRandomizerBuilder().WithFixedBias(0).Build()

		for i := 0; i < 500; i++ {
			Expect(always.Bool()).To(BeTrue())
			Expect(never.Bool()).To(BeFalse())
		}
	})

	It("should be reproducible from the seed", func() {
		a := MakeRandomizerBuilder().WithSeed(42).Build()
		b := MakeRandomizerBuilder().WithSeed(42).Build()

		for i := 0; i < 1000; i++ {
			Expect(a.Bool()).To(Equal(b.Bool()))
			Expect(a.Bits(8)).To(Equal(b.Bits(8)))
		}
	})

	It("should keep the drifting bias in range", func() {
		r := MakeRandomizerBuilder().WithSeed(7).WithDrift(10, 0.2, 0.4).Build()

		biases := map[float64]bool{}
		for i := 0; i < 1000; i++ {
			r.Bool()
			Expect(r.Bias()).To(BeNumerically(">=", 0.2))
			Expect(r.Bias()).To(BeNumerically("<=", 0.4))
			biases[r.Bias()] = true
		}

		Expect(len(biases)).To(BeNumerically(">", 50))
	})

	It("should produce both long busy and long idle stretches", func() {
		r := MakeRandomizerBuilder().WithSeed(3).Build()

		ones := 0
		for i := 0; i < 10000; i++ {
			if r.Bool() {
				ones++
			}
		}

		Expect(ones).To(BeNumerically(">", 2000))
		Expect(ones).To(BeNumerically("<", 8000))
	})

	It("should mask bits to the width", func() {
		r := MakeRandomizerBuilder().Build()

		for i := 0; i < 100; i++ {
			Expect(r.Bits(1)).To(BeNumerically("<=", 1))
			Expect(r.Bits(8)).To(BeNumerically("<", 256))
		}
	})

	It("should reject invalid settings", func() {
		Expect(func() {
			MakeRandomizerBuilder().WithFixedBias(1.5).Build()
		}).To(Panic())
		Expect(func() {
			MakeRandomizerBuilder().WithDrift(0, 0.1, 0.9).Build()
		}).To(Panic())
		Expect(func() {
			MakeRandomizerBuilder().WithDrift(10, 0.9, 0.1).Build()
		}).To(Panic())
	})

	It("should derive distinct seeds per name", func() {
		Expect(DeriveSeed(1, "fifo.valid")).
			NotTo(Equal(DeriveSeed(1, "fifo.ready")))
		Expect(DeriveSeed(1, "fifo.valid")).
			To(Equal(DeriveSeed(1, "fifo.valid")))
		Expect(DeriveSeed(1, "fifo.valid")).
			NotTo(Equal(DeriveSeed(2, "fifo.valid")))
	})
})

var _ = Describe("Generators", func() {
	It("should send a sequence and stop", func() {
		g := NewSequenceGenerator(NewPayload(1), NewPayload(2))

		p, ok := g.Next()
		Expect(ok).To(BeTrue())
		Expect(p.Field(0)).To(Equal(uint64(1)))

		p, _ = g.Next()
		Expect(p.Field(0)).To(Equal(uint64(2)))

		_, ok = g.Next()
		Expect(ok).To(BeFalse())
	})

	It("should count and wrap", func() {
		g := NewCountingGenerator(2)

		var values []uint64
		for i := 0; i < 6; i++ {
			p, _ := g.Next()
			values = append(values, p.Field(0))
		}

		Expect(values).To(Equal([]uint64{0, 1, 2, 3, 0, 1}))
	})

	It("should fit random payloads to the layout", func() {
		r := MakeRandomizerBuilder().Build()
		g := NewRandomGenerator(r, FragmentLayout(4))

		for i := 0; i < 100; i++ {
			p, ok := g.Next()
			Expect(ok).To(BeTrue())
			Expect(p.Len()).To(Equal(2))
			Expect(p.Fragment()).To(BeNumerically("<", 16))
			Expect(p.Field(1)).To(BeNumerically("<=", 1))
		}
	})
})
