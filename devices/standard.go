package devices

import (
	"github.com/sarchlab/streamcheck/models"
)

// StandardOptions configures the standard top level.
type StandardOptions struct {
	Ports     int
	FifoDepth int
	FifoFault FifoFault

	// Policies overrides the policy of arbiters by name.
	Policies map[string]models.Policy
}

// DefaultStandardOptions returns 3 ports and 16-entry FIFOs.
func DefaultStandardOptions() StandardOptions {
	return StandardOptions{
		Ports:     3,
		FifoDepth: 16,
	}
}

// NewStandardTop builds the stream tester top level: a FIFO, a fork, an
// in-order dispatcher, a flow/stream arbiter, and the standard arbiters.
func NewStandardTop(opts StandardOptions) *Top {
	t := NewTop()

	t.Add(NewFifo(t.Bus, models.FifoInput, models.FifoOutput,
		models.BundleLayout, opts.FifoDepth, opts.FifoFault))

	t.Add(NewFork(t.Bus, models.ForkInput,
		models.IndexedPorts(models.ForkOutputs, opts.Ports),
		models.DataLayout))

	t.Add(NewDispatcher(t.Bus, models.DispatcherInput,
		models.IndexedPorts(models.DispatcherOutputs, opts.Ports),
		models.DataLayout))

	t.Add(NewFlowArbiter(t.Bus,
		models.FlowArbiterStreamInput, models.FlowArbiterFlowInput,
		models.FlowArbiterOutput, models.DataLayout))

	for _, a := range models.StandardArbiters() {
		policy := a.Policy
		if p, found := opts.Policies[a.Name]; found {
			policy = p
		}

		t.Add(NewArbiter(t.Bus, a.Inputs(opts.Ports), a.Output(),
			a.Layout, policy))
	}

	return t
}

// NewFifoTop builds the FIFO tester top level with two FIFOs carrying the
// bundle payload.
func NewFifoTop(depth int, fault FifoFault) *Top {
	t := NewTop()

	for _, pair := range models.StandardFifoPairs() {
		t.Add(NewFifo(t.Bus, pair.Push, pair.Pop,
			models.BundleLayout, depth, fault))
	}

	return t
}
