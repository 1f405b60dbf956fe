package devices

import (
	"github.com/sarchlab/streamcheck/sim/signal"
	"github.com/sarchlab/streamcheck/stream"
)

// Fork copies its input to all its outputs. Each output transfers the copy
// on its own; a register per output remembers that it has, and the input is
// consumed in the cycle the last copy goes out.
type Fork struct {
	in    streamIO
	outs  []streamIO
	fired []bool
}

// NewFork adds the signals of a fork to the bus.
func NewFork(
	bus *signal.Bus,
	input string,
	outputs []string,
	layout stream.Layout,
) *Fork {
	f := &Fork{in: addStream(bus, input, layout)}

	for _, o := range outputs {
		f.outs = append(f.outs, addStream(bus, o, layout))
	}

	f.fired = make([]bool, len(outputs))

	return f
}

// Reset clears the fired registers.
func (f *Fork) Reset() {
	clear(f.fired)
}

// Tick clears the fired registers when the input is consumed and sets the
// register of every output that transferred otherwise.
func (f *Fork) Tick() {
	if f.in.fire() {
		clear(f.fired)
		return
	}

	for i, o := range f.outs {
		if o.fire() {
			f.fired[i] = true
		}
	}
}

// Settle presents the input on the outputs that have not transferred it yet.
// The input is ready once every output has transferred or is ready.
func (f *Fork) Settle() {
	payload := f.in.read()
	allDone := true

	for i, o := range f.outs {
		o.drive(f.in.isValid() && !f.fired[i], payload)
		allDone = allDone && (f.fired[i] || o.isReady())
	}

	f.in.setReady(allDone)
}
