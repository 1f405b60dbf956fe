package stream

// A Generator supplies the payloads a driver sends. It returns false once it
// has no more payloads.
type Generator interface {
	Next() (Payload, bool)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func() (Payload, bool)

// Next calls f().
func (f GeneratorFunc) Next() (Payload, bool) {
	return f()
}

// NewRandomGenerator returns an endless generator of random payloads that
// fit the layout.
func NewRandomGenerator(r *Randomizer, layout Layout) Generator {
	return GeneratorFunc(func() (Payload, bool) {
		values := make([]uint64, len(layout))
		for i, f := range layout {
			values[i] = r.Bits(f.Width)
		}

		return Payload{fields: values}, true
	})
}

// NewSequenceGenerator returns a generator that sends the payloads in order
// and then stops.
func NewSequenceGenerator(payloads ...Payload) Generator {
	next := 0

	return GeneratorFunc(func() (Payload, bool) {
		if next >= len(payloads) {
			return Payload{}, false
		}

		p := payloads[next]
		next++

		return p, true
	})
}

// NewCountingGenerator returns an endless generator of single-field payloads
// 0, 1, 2, ... wrapping at the field width.
func NewCountingGenerator(width int) Generator {
	var next uint64

	mask := ^uint64(0)
	if width < 64 {
		mask = (uint64(1) << uint(width)) - 1
	}

	return GeneratorFunc(func() (Payload, bool) {
		p := NewPayload(next & mask)
		next++

		return p, true
	})
}
