package stream

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/streamcheck/sim/clock"
	"github.com/sarchlab/streamcheck/sim/signal"
)

type transfer struct {
	payload Payload
	port    int
}

var _ = Describe("Driver", func() {
	var (
		bus      *signal.Bus
		port     signal.StreamPort
		accepted []transfer
		record   Callback
		edge     clock.Edge
	)

	BeforeEach(func() {
		bus = signal.NewBus()
		bus.Add("in_valid", 1)
		bus.Add("in_ready", 1)
		bus.Add("in_payload", 8)

		var err error
		port, err = signal.ResolveStream(bus, "in", []string{""})
		Expect(err).NotTo(HaveOccurred())

		accepted = nil
		record = func(p Payload, id int) error {
			accepted = append(accepted, transfer{p, id})
			return nil
		}
		edge = clock.Edge{Kind: clock.Rising}
	})

	step := func(d *Driver, ready uint64) {
		bus.Signal("in_ready").Force(ready)
		Expect(d.OnEdge(edge)).To(Succeed())
		bus.Commit()
	}

	It("should hold the payload until it is accepted", func() {
		d := NewDriver(port, 2,
			MakeRandomizerBuilder().WithFixedBias(1).Build(),
			NewSequenceGenerator(NewPayload(10), NewPayload(11)),
			record)

		step(d, 0)
		Expect(port.Valid.Read()).To(Equal(uint64(1)))
		Expect(port.Payload[0].Read()).To(Equal(uint64(10)))

		step(d, 0)
		step(d, 0)
		Expect(port.Payload[0].Read()).To(Equal(uint64(10)))
		Expect(accepted).To(BeEmpty())

		bus.Signal("in_ready").Force(1)
		step(d, 1)
		Expect(accepted).To(Equal([]transfer{{NewPayload(10), 2}}))
		Expect(port.Payload[0].Read()).To(Equal(uint64(11)))

		step(d, 1)
		Expect(accepted).To(HaveLen(2))
		Expect(d.Accepted()).To(Equal(uint64(2)))
	})

	It("should drop valid when the generator is exhausted", func() {
		d := NewDriver(port, 0,
			MakeRandomizerBuilder().WithFixedBias(1).Build(),
			NewSequenceGenerator(NewPayload(1)),
			record)

		step(d, 1)
		step(d, 1)
		Expect(port.Valid.Read()).To(Equal(uint64(0)))
		Expect(d.Exhausted()).To(BeTrue())

		step(d, 1)
		Expect(accepted).To(HaveLen(1))
	})

	It("should never assert valid at bias 0", func() {
		calls := 0
		gen := GeneratorFunc(func() (Payload, bool) {
			calls++
			return NewPayload(0), true
		})
		d := NewDriver(port, 0,
			MakeRandomizerBuilder().WithFixedBias(0).Build(), gen, record)

		for i := 0; i < 20; i++ {
			step(d, 1)
			Expect(port.Valid.Read()).To(Equal(uint64(0)))
		}

		Expect(calls).To(Equal(0))
	})

	It("should return the callback error", func() {
		failure := errors.New("mismatch")
		d := NewDriver(port, 0,
			MakeRandomizerBuilder().WithFixedBias(1).Build(),
			NewCountingGenerator(8),
			func(p Payload, id int) error { return failure })

		step(d, 1)

		bus.Signal("in_ready").Force(1)
		Expect(d.OnEdge(edge)).To(MatchError(failure))
	})

	It("should ignore falling edges", func() {
		d := NewDriver(port, 0,
			MakeRandomizerBuilder().WithFixedBias(1).Build(),
			NewCountingGenerator(8), record)

		Expect(d.OnEdge(clock.Edge{Kind: clock.Falling})).To(Succeed())
		bus.Commit()
		Expect(port.Valid.Read()).To(Equal(uint64(0)))
	})
})

var _ = Describe("FlowDriver", func() {
	It("should report every valid payload", func() {
		bus := signal.NewBus()
		bus.Add("f_valid", 1)
		bus.Add("f_payload", 8)
		port, err := signal.ResolveFlow(bus, "f", []string{""})
		Expect(err).NotTo(HaveOccurred())

		var sent []uint64
		d := NewFlowDriver(port, 1,
			MakeRandomizerBuilder().WithFixedBias(1).Build(),
			NewCountingGenerator(8),
			func(p Payload, id int) error {
				Expect(id).To(Equal(1))
				sent = append(sent, p.Field(0))
				return nil
			})

		for i := 0; i < 4; i++ {
			Expect(d.OnEdge(clock.Edge{Kind: clock.Rising})).To(Succeed())
			bus.Commit()
		}

		Expect(sent).To(Equal([]uint64{0, 1, 2}))
		Expect(d.Accepted()).To(Equal(uint64(3)))
	})
})
