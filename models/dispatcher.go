package models

import (
	"fmt"

	"github.com/sarchlab/streamcheck/sim/signal"
	"github.com/sarchlab/streamcheck/stream"
)

// Dispatcher models an in-order dispatcher: inputs leave through the outputs
// in turn, starting from output 0.
type Dispatcher struct {
	base

	queue *stream.RefQueue
	n     int
	slot  int
}

// NewDispatcher creates the model of an in-order dispatcher.
func NewDispatcher(
	name string,
	bag signal.Bag,
	input string,
	outputs []string,
	layout stream.Layout,
	stim Stimulus,
) (*Dispatcher, error) {
	m := &Dispatcher{
		base:  base{name: name},
		queue: stream.NewRefQueue(name),
		n:     len(outputs),
	}

	d, _, err := stim.newDriver(bag, input, 0, layout, m.OnInput)
	if err != nil {
		return nil, err
	}

	m.drivers = append(m.drivers, d)

	for i, out := range outputs {
		mon, err := stim.newMonitor(bag, out, i, layout, m.OnOutput)
		if err != nil {
			return nil, err
		}

		m.monitors = append(m.monitors, mon)
	}

	return m, nil
}

// Slot returns the output the next input is expected on.
func (m *Dispatcher) Slot() int {
	return m.slot
}

// OnInput records an accepted input.
func (m *Dispatcher) OnInput(p stream.Payload, port int) error {
	m.recordInput(p, port)
	m.queue.Push(p)

	return nil
}

// OnOutput checks that the output comes from the expected slot and carries
// the oldest input.
func (m *Dispatcher) OnOutput(p stream.Payload, port int) error {
	m.recordOutput(p, port)

	if port != m.slot {
		return &stream.ViolationError{
			Kind:     stream.KindMismatch,
			Model:    m.name,
			Port:     port,
			Expected: fmt.Sprintf("port %d", m.slot),
			Actual:   fmt.Sprintf("port %d", port),
			Detail:   "out-of-order dispatch",
		}
	}

	m.slot = (m.slot + 1) % m.n

	return m.queue.PopAndCompare(port, p)
}
