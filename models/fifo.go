package models

import (
	"github.com/sarchlab/streamcheck/sim/signal"
	"github.com/sarchlab/streamcheck/stream"
)

// Fifo models a FIFO: every output equals the oldest unmatched input.
type Fifo struct {
	base

	queue *stream.RefQueue
}

// NewFifo creates the model of a FIFO between an input and an output port.
func NewFifo(
	name string,
	bag signal.Bag,
	input, output string,
	layout stream.Layout,
	stim Stimulus,
) (*Fifo, error) {
	m := &Fifo{
		base:  base{name: name},
		queue: stream.NewRefQueue(name),
	}

	d, _, err := stim.newDriver(bag, input, 0, layout, m.OnInput)
	if err != nil {
		return nil, err
	}

	mon, err := stim.newMonitor(bag, output, 0, layout, m.OnOutput)
	if err != nil {
		return nil, err
	}

	m.drivers = append(m.drivers, d)
	m.monitors = append(m.monitors, mon)

	return m, nil
}

// Queue returns the reference queue of the output.
func (m *Fifo) Queue() *stream.RefQueue {
	return m.queue
}

// OnInput records an accepted input.
func (m *Fifo) OnInput(p stream.Payload, port int) error {
	m.recordInput(p, port)
	m.queue.Push(p)

	return nil
}

// OnOutput checks an output against the oldest input.
func (m *Fifo) OnOutput(p stream.Payload, port int) error {
	m.recordOutput(p, port)

	return m.queue.PopAndCompare(port, p)
}
