package devices

import (
	"github.com/sarchlab/streamcheck/sim/signal"
	"github.com/sarchlab/streamcheck/stream"
)

// FlowArbiter merges a stream and a flow into a flow. The flow has the
// priority and the stream is stalled while the flow is valid.
type FlowArbiter struct {
	stream streamIO
	flow   streamIO
	out    streamIO
}

// NewFlowArbiter adds the signals of a flow/stream arbiter to the bus.
func NewFlowArbiter(
	bus *signal.Bus,
	streamInput, flowInput, output string,
	layout stream.Layout,
) *FlowArbiter {
	return &FlowArbiter{
		stream: addStream(bus, streamInput, layout),
		flow:   addFlow(bus, flowInput, layout),
		out:    addFlow(bus, output, layout),
	}
}

// Reset does nothing. The arbiter has no register.
func (a *FlowArbiter) Reset() {}

// Tick does nothing. The arbiter has no register.
func (a *FlowArbiter) Tick() {}

// Settle selects the flow if it is valid and the stream otherwise.
func (a *FlowArbiter) Settle() {
	if a.flow.isValid() {
		a.out.drive(true, a.flow.read())
	} else {
		a.out.drive(a.stream.isValid(), a.stream.read())
	}

	a.stream.setReady(!a.flow.isValid())
}
