package signal

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Bus", func() {
	var bus *Bus

	BeforeEach(func() {
		bus = NewBus()
	})

	It("should defer writes until commit", func() {
		s := bus.Add("a_valid", 1)

		s.Write(1)
		Expect(s.Read()).To(Equal(uint64(0)))

		Expect(bus.Commit()).To(Equal(1))
		Expect(s.Read()).To(Equal(uint64(1)))
	})

	It("should keep the last write of an edge", func() {
		s := bus.Add("a_payload", 8)

		s.Write(3)
		s.Write(7)
		bus.Commit()

		Expect(s.Read()).To(Equal(uint64(7)))
	})

	It("should mask values to the signal width", func() {
		s := bus.Add("a_payload", 4)

		s.Write(0x1f)
		bus.Commit()
		Expect(s.Read()).To(Equal(uint64(0xf)))

		s.Force(0x12)
		Expect(s.Read()).To(Equal(uint64(0x2)))
	})

	It("should support 64-bit signals", func() {
		s := bus.Add("wide", 64)

		s.Force(^uint64(0))

		Expect(s.Read()).To(Equal(^uint64(0)))
	})

	It("should not count unchanged values", func() {
		s := bus.Add("a_valid", 1)
		s.Write(0)

		Expect(bus.Commit()).To(Equal(0))
	})

	It("should reject duplicated names and bad widths", func() {
		bus.Add("x", 1)

		Expect(func() { bus.Add("x", 1) }).To(Panic())
		Expect(func() { bus.Add("y", 0) }).To(Panic())
		Expect(func() { bus.Add("z", 65) }).To(Panic())
	})

	It("should report unknown signals", func() {
		_, err := bus.Lookup("nothing")

		var unknown *UnknownSignalError
		Expect(errors.As(err, &unknown)).To(BeTrue())
		Expect(unknown.Name).To(Equal("nothing"))
	})

	It("should list names and snapshot values", func() {
		bus.Add("b", 1).Force(1)
		bus.Add("a", 1)

		Expect(bus.Names()).To(Equal([]string{"a", "b"}))
		Expect(bus.Snapshot()).To(Equal(map[string]uint64{"a": 0, "b": 1}))
	})
})

var _ = Describe("Port resolution", func() {
	var bus *Bus

	BeforeEach(func() {
		bus = NewBus()
		bus.Add("in_valid", 1)
		bus.Add("in_ready", 1)
		bus.Add("in_payload_a", 8)
		bus.Add("in_payload_b", 1)
		bus.Add("out_valid", 1)
		bus.Add("out_payload", 8)
	})

	It("should resolve a stream port", func() {
		p, err := ResolveStream(bus, "in", []string{"a", "b"})

		Expect(err).NotTo(HaveOccurred())
		Expect(p.Valid.Name()).To(Equal("in_valid"))
		Expect(p.Ready.Name()).To(Equal("in_ready"))
		Expect(p.Payload).To(HaveLen(2))
		Expect(p.Payload[1].Width()).To(Equal(1))
	})

	It("should resolve a flow port with a single payload", func() {
		p, err := ResolveFlow(bus, "out", []string{""})

		Expect(err).NotTo(HaveOccurred())
		Expect(p.Payload[0].Name()).To(Equal("out_payload"))
	})

	It("should fail on a missing ready", func() {
		_, err := ResolveStream(bus, "out", []string{""})

		Expect(err).To(MatchError(ContainSubstring("out_ready")))
	})

	It("should tell when a stream port fires", func() {
		p, _ := ResolveStream(bus, "in", []string{"a", "b"})

		p.Valid.Write(1)
		bus.Commit()
		Expect(p.Fire()).To(BeFalse())

		p.Ready.Write(1)
		bus.Commit()
		Expect(p.Fire()).To(BeTrue())
	})

	It("should read and write payloads", func() {
		p, _ := ResolveStream(bus, "in", []string{"a", "b"})

		WriteAll(p.Payload, []uint64{0x42, 1})
		bus.Commit()

		Expect(ReadAll(p.Payload)).To(Equal([]uint64{0x42, 1}))
		Expect(func() { WriteAll(p.Payload, []uint64{1}) }).To(Panic())
	})
})
