package models

import (
	"github.com/sarchlab/streamcheck/sim/signal"
	"github.com/sarchlab/streamcheck/stream"
)

// Input ids of the flow/stream arbiter.
const (
	FlowArbiterStream = 0
	FlowArbiterFlow   = 1
)

// FlowArbiter models an arbiter between a stream and a flow that feeds a
// flow output. The flow always wins and the stream is blocked while the flow
// is valid.
type FlowArbiter struct {
	base

	streamPort signal.StreamPort
	flowPort   signal.FlowPort
	queues     [2]*stream.RefQueue
	served     [2]uint64
	target     uint64
}

// NewFlowArbiter creates the model of a flow/stream arbiter.
func NewFlowArbiter(
	name string,
	bag signal.Bag,
	streamInput, flowInput, output string,
	layout stream.Layout,
	stim Stimulus,
) (*FlowArbiter, error) {
	m := &FlowArbiter{
		base:   base{name: name},
		target: stim.Target,
	}
	m.queues[FlowArbiterStream] = stream.NewRefQueue(name)
	m.queues[FlowArbiterFlow] = stream.NewRefQueue(name)

	sd, sp, err := stim.newDriver(
		bag, streamInput, FlowArbiterStream, layout, m.OnInput)
	if err != nil {
		return nil, err
	}

	fd, fp, err := stim.newFlowDriver(
		bag, flowInput, FlowArbiterFlow, layout, m.OnInput)
	if err != nil {
		return nil, err
	}

	mon, err := stim.newFlowMonitor(bag, output, 0, layout, m.OnOutput)
	if err != nil {
		return nil, err
	}

	m.streamPort = sp
	m.flowPort = fp
	m.drivers = append(m.drivers, sd, fd)
	m.monitors = append(m.monitors, mon)

	return m, nil
}

// Served returns how many outputs came from the stream and from the flow.
func (m *FlowArbiter) Served() (fromStream, fromFlow uint64) {
	return m.served[FlowArbiterStream], m.served[FlowArbiterFlow]
}

// Done tells if the output has carried target payloads, whichever source
// they came from. A stream starved by a busy flow does not hold the model
// back.
func (m *FlowArbiter) Done() bool {
	return m.outputs >= m.target
}

// Progress returns the transfer counts of the model, with the outputs split
// by source.
func (m *FlowArbiter) Progress() Progress {
	p := m.base.Progress()
	p.Target = m.target
	p.Done = m.Done()
	p.Sources = []uint64{
		m.served[FlowArbiterStream],
		m.served[FlowArbiterFlow],
	}

	return p
}

// OnInput records an accepted input of either source.
func (m *FlowArbiter) OnInput(p stream.Payload, port int) error {
	m.recordInput(p, port)
	m.queues[port].Push(p)

	return nil
}

// OnOutput checks that the output comes from the flow whenever the flow is
// valid, and from the stream otherwise.
func (m *FlowArbiter) OnOutput(p stream.Payload, port int) error {
	m.recordOutput(p, port)

	source := FlowArbiterStream
	if m.flowPort.Valid.Read() == 1 {
		source = FlowArbiterFlow

		if m.streamPort.Ready.Read() != 0 {
			return &stream.ViolationError{
				Kind:   stream.KindArbitration,
				Model:  m.name,
				Port:   FlowArbiterStream,
				Detail: "stream ready while the flow is valid",
			}
		}
	}

	m.served[source]++

	return m.queues[source].PopAndCompare(source, p)
}
