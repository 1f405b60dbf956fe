package devices

import (
	"github.com/sarchlab/streamcheck/sim/signal"
	"github.com/sarchlab/streamcheck/stream"
)

// Dispatcher sends its inputs to its outputs in turn.
type Dispatcher struct {
	in      streamIO
	outs    []streamIO
	counter int
}

// NewDispatcher adds the signals of an in-order dispatcher to the bus.
func NewDispatcher(
	bus *signal.Bus,
	input string,
	outputs []string,
	layout stream.Layout,
) *Dispatcher {
	d := &Dispatcher{in: addStream(bus, input, layout)}

	for _, o := range outputs {
		d.outs = append(d.outs, addStream(bus, o, layout))
	}

	return d
}

// Reset points the dispatcher to output 0.
func (d *Dispatcher) Reset() {
	d.counter = 0
}

// Tick moves to the next output after a transfer.
func (d *Dispatcher) Tick() {
	if d.in.fire() {
		d.counter = (d.counter + 1) % len(d.outs)
	}
}

// Settle routes the input to the current output.
func (d *Dispatcher) Settle() {
	payload := d.in.read()
	for i, o := range d.outs {
		o.drive(d.in.isValid() && i == d.counter, payload)
	}

	d.in.setReady(d.outs[d.counter].isReady())
}
