package devices

import (
	"github.com/sarchlab/streamcheck/sim/signal"
	"github.com/sarchlab/streamcheck/stream"
)

// FifoFault makes a FIFO misbehave on purpose.
type FifoFault struct {
	// DropEvery drops every n-th accepted payload when positive.
	DropEvery int

	// CorruptEvery flips the lowest bit of the first field of every n-th
	// accepted payload when positive.
	CorruptEvery int
}

// Fifo is a registered FIFO with a fixed depth.
type Fifo struct {
	in, out  streamIO
	depth    int
	fault    FifoFault
	entries  [][]uint64
	accepted int
}

// NewFifo adds the signals of a FIFO to the bus.
func NewFifo(
	bus *signal.Bus,
	input, output string,
	layout stream.Layout,
	depth int,
	fault FifoFault,
) *Fifo {
	if depth <= 0 {
		panic("fifo depth must be positive")
	}

	return &Fifo{
		in:    addStream(bus, input, layout),
		out:   addStream(bus, output, layout),
		depth: depth,
		fault: fault,
	}
}

// Occupancy returns the number of stored payloads.
func (f *Fifo) Occupancy() int {
	return len(f.entries)
}

// Reset empties the FIFO.
func (f *Fifo) Reset() {
	f.entries = nil
	f.accepted = 0
}

// Tick pops the head if the output fires and stores the input if it fires.
func (f *Fifo) Tick() {
	if f.out.fire() {
		f.entries = f.entries[1:]
	}

	if f.in.fire() {
		f.store(f.in.read())
	}
}

func (f *Fifo) store(payload []uint64) {
	f.accepted++

	if f.fault.DropEvery > 0 && f.accepted%f.fault.DropEvery == 0 {
		return
	}

	if f.fault.CorruptEvery > 0 && f.accepted%f.fault.CorruptEvery == 0 {
		payload[0] ^= 1
	}

	f.entries = append(f.entries, payload)
}

// Settle presents the head and tells if there is space.
func (f *Fifo) Settle() {
	if len(f.entries) == 0 {
		f.out.drive(false, nil)
	} else {
		f.out.drive(true, f.entries[0])
	}

	f.in.setReady(len(f.entries) < f.depth)
}
