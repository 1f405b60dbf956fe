package stream

import (
	"github.com/sarchlab/streamcheck/sim/clock"
	"github.com/sarchlab/streamcheck/sim/signal"
)

// DefaultTarget is the number of output transfers a monitor waits for.
const DefaultTarget = 1000

// Monitor drives the ready of a stream output of the device with random bits
// and reports every transfer it observes.
type Monitor struct {
	port     signal.StreamPort
	id       int
	ready    *Randomizer
	onOutput Callback
	target   uint64
	count    uint64
}

// NewMonitor creates a monitor that is done after target transfers.
func NewMonitor(
	port signal.StreamPort,
	id int,
	ready *Randomizer,
	target uint64,
	onOutput Callback,
) *Monitor {
	return &Monitor{
		port:     port,
		id:       id,
		ready:    ready,
		onOutput: onOutput,
		target:   target,
	}
}

// Launch subscribes the monitor to the rising edges of the clock.
func (m *Monitor) Launch(k *clock.Clock) {
	m.port.Ready.Write(0)
	k.Subscribe(clock.Rising, m)
}

// Count returns the number of transfers observed.
func (m *Monitor) Count() uint64 {
	return m.count
}

// Target returns the number of transfers the monitor waits for.
func (m *Monitor) Target() uint64 {
	return m.target
}

// Done tells if the target has been reached. The monitor keeps checking
// transfers after that.
func (m *Monitor) Done() bool {
	return m.count >= m.target
}

// OnEdge checks the transfer of the edge and draws a new ready.
func (m *Monitor) OnEdge(e clock.Edge) error {
	if e.Kind != clock.Rising {
		return nil
	}

	if m.port.Fire() {
		m.count++

		p := NewPayload(signal.ReadAll(m.port.Payload)...)
		if err := m.onOutput(p, m.id); err != nil {
			return err
		}
	}

	m.port.Ready.Write(m.ready.Bit())

	return nil
}

// FlowMonitor observes a flow output of the device.
type FlowMonitor struct {
	port     signal.FlowPort
	id       int
	onOutput Callback
	target   uint64
	count    uint64
}

// NewFlowMonitor creates a flow monitor that is done after target
// transfers.
func NewFlowMonitor(
	port signal.FlowPort,
	id int,
	target uint64,
	onOutput Callback,
) *FlowMonitor {
	return &FlowMonitor{
		port:     port,
		id:       id,
		onOutput: onOutput,
		target:   target,
	}
}

// Launch subscribes the monitor to the rising edges of the clock.
func (m *FlowMonitor) Launch(k *clock.Clock) {
	k.Subscribe(clock.Rising, m)
}

// Count returns the number of transfers observed.
func (m *FlowMonitor) Count() uint64 {
	return m.count
}

// Target returns the number of transfers the monitor waits for.
func (m *FlowMonitor) Target() uint64 {
	return m.target
}

// Done tells if the target has been reached.
func (m *FlowMonitor) Done() bool {
	return m.count >= m.target
}

// OnEdge checks the transfer of the edge.
func (m *FlowMonitor) OnEdge(e clock.Edge) error {
	if e.Kind != clock.Rising {
		return nil
	}

	if !m.port.Fire() {
		return nil
	}

	m.count++

	p := NewPayload(signal.ReadAll(m.port.Payload)...)

	return m.onOutput(p, m.id)
}
