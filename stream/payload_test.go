package stream

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Payload", func() {
	It("should compare field by field", func() {
		Expect(NewPayload(1, 2).Equal(NewPayload(1, 2))).To(BeTrue())
		Expect(NewPayload(1, 2).Equal(NewPayload(1, 3))).To(BeFalse())
		Expect(NewPayload(1).Equal(NewPayload(1, 0))).To(BeFalse())
	})

	It("should not alias the values it was created from", func() {
		values := []uint64{4, 5}
		p := NewPayload(values...)

		values[0] = 9
		p.Values()[1] = 9

		Expect(p.Field(0)).To(Equal(uint64(4)))
		Expect(p.Field(1)).To(Equal(uint64(5)))
	})

	It("should expose fragment fields", func() {
		p := NewPayload(0xab, 1)

		Expect(p.Fragment()).To(Equal(uint64(0xab)))
		Expect(p.IsLast()).To(BeTrue())
		Expect(NewPayload(0xab, 0).IsLast()).To(BeFalse())
	})

	It("should format as a tuple", func() {
		Expect(NewPayload(0x1f, 1).String()).To(Equal("(0x1f, 0x1)"))
		Expect(NewPayload().String()).To(Equal("()"))
	})

	It("should list layout names", func() {
		Expect(FragmentLayout(8).Names()).To(Equal([]string{"fragment", "last"}))
		Expect(SingleField(8).Names()).To(Equal([]string{""}))
	})
})
