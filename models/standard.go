package models

import "github.com/sarchlab/streamcheck/stream"

// Port names of the standard stream tester top level.
const (
	FifoInput  = "io_slave0"
	FifoOutput = "io_master0"

	ForkInput   = "forkInput"
	ForkOutputs = "forkOutputs"

	DispatcherInput   = "dispatcherInOrderInput"
	DispatcherOutputs = "dispatcherInOrderOutputs"

	FlowArbiterStreamInput = "streamFlowArbiterInputStream"
	FlowArbiterFlowInput   = "streamFlowArbiterInputFlow"
	FlowArbiterOutput      = "streamFlowArbiterOutput"
)

// Payload layouts of the standard top level.
var (
	// BundleLayout is the payload of the FIFO ports.
	BundleLayout = stream.Layout{{Name: "a", Width: 8}, {Name: "b", Width: 1}}

	// DataLayout is the payload of the fork, dispatcher, and arbiter ports.
	DataLayout = stream.SingleField(8)

	// FragmentDataLayout is the payload of the fragment-locked arbiter.
	FragmentDataLayout = stream.FragmentLayout(8)
)

// StandardArbiter describes one arbiter of the standard top level.
type StandardArbiter struct {
	// Name is the port prefix. The inputs are <Name>Inputs_<i> and the
	// output is <Name>Output.
	Name   string
	Policy Policy
	Layout stream.Layout
}

// Inputs returns the input port names of the arbiter.
func (a StandardArbiter) Inputs(n int) []string {
	return IndexedPorts(a.Name+"Inputs", n)
}

// Output returns the output port name of the arbiter.
func (a StandardArbiter) Output() string {
	return a.Name + "Output"
}

// StandardArbiters lists the arbiters of the standard top level.
func StandardArbiters() []StandardArbiter {
	return []StandardArbiter{
		{"arbiterInOrder", SequentialOrder, DataLayout},
		{"arbiterLowIdPortFirst", LowIDFirstLocked, DataLayout},
		{"arbiterRoundRobin", RoundRobinLocked, DataLayout},
		{"arbiterLowIdPortFirstNoLock", LowIDFirstNoLock, DataLayout},
		{"arbiterLowIdPortFirstFragmentLock", LowIDFirstFragmentLock,
			FragmentDataLayout},
	}
}

// FifoPair names the push and pop ports of one FIFO of the FIFO top level.
type FifoPair struct {
	Name string
	Push string
	Pop  string
}

// StandardFifoPairs lists the FIFOs of the FIFO top level.
func StandardFifoPairs() []FifoPair {
	return []FifoPair{
		{"fifoA", "fifoAPush", "fifoAPop"},
		{"fifoB", "fifoBPush", "fifoBPop"},
	}
}
