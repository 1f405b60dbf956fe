package models

import (
	"github.com/sarchlab/streamcheck/sim/signal"
	"github.com/sarchlab/streamcheck/stream"
)

// Fork models a fork: every input is seen once on every output, in order.
//
// An output may transfer a copy before the fork has consumed the input. Such
// an output is checked against the payload the input is holding, and the
// copy is not queued for it once the input is accepted.
type Fork struct {
	base

	input  signal.StreamPort
	queues []*stream.RefQueue
	early  []bool
}

// NewFork creates the model of a fork with one input and several outputs.
func NewFork(
	name string,
	bag signal.Bag,
	input string,
	outputs []string,
	layout stream.Layout,
	stim Stimulus,
) (*Fork, error) {
	m := &Fork{
		base: base{name: name},
	}

	d, port, err := stim.newDriver(bag, input, 0, layout, m.OnInput)
	if err != nil {
		return nil, err
	}

	m.input = port
	m.drivers = append(m.drivers, d)

	for i, out := range outputs {
		mon, err := stim.newMonitor(bag, out, i, layout, m.OnOutput)
		if err != nil {
			return nil, err
		}

		m.monitors = append(m.monitors, mon)
		m.queues = append(m.queues, stream.NewRefQueue(name))
	}

	m.early = make([]bool, len(outputs))

	return m, nil
}

// OnInput duplicates an accepted input into the queue of every output that
// has not transferred it yet.
func (m *Fork) OnInput(p stream.Payload, port int) error {
	m.recordInput(p, port)

	for i, q := range m.queues {
		if m.early[i] {
			m.early[i] = false
			continue
		}

		q.Push(p)
	}

	return nil
}

// OnOutput checks an output against the queue of its port, or against the
// payload held on the input if the queue is empty.
func (m *Fork) OnOutput(p stream.Payload, port int) error {
	m.recordOutput(p, port)

	if m.queues[port].Size() > 0 || m.early[port] ||
		m.input.Valid.Read() == 0 {
		return m.queues[port].PopAndCompare(port, p)
	}

	m.early[port] = true

	held := stream.NewPayload(signal.ReadAll(m.input.Payload)...)
	if !held.Equal(p) {
		return stream.Mismatch(m.name, port, held, p)
	}

	return nil
}
