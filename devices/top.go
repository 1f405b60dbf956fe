// Package devices provides behavioral models of stream hardware blocks that
// can stand in for a device under test.
//
// A block reads and writes signals of a shared bus. Its outputs are forced
// when it settles, so they are visible to the edge listeners of the next
// edge without a commit.
package devices

import (
	"github.com/sarchlab/streamcheck/sim/signal"
	"github.com/sarchlab/streamcheck/stream"
)

// Block is one hardware block.
type Block interface {
	Reset()
	Tick()
	Settle()
}

// Top is a device made of independent blocks that share a bus.
type Top struct {
	Bus    *signal.Bus
	blocks []Block
}

// NewTop creates an empty device.
func NewTop() *Top {
	return &Top{Bus: signal.NewBus()}
}

// Add plugs a block into the device.
func (t *Top) Add(b Block) {
	t.blocks = append(t.blocks, b)
}

// Lookup resolves a signal of the device.
func (t *Top) Lookup(name string) (signal.Wire, error) {
	return t.Bus.Lookup(name)
}

// Commit applies the pending writes of the bus.
func (t *Top) Commit() int {
	return t.Bus.Commit()
}

// Reset resets every block.
func (t *Top) Reset() {
	for _, b := range t.blocks {
		b.Reset()
	}
}

// Tick updates the registers of every block.
func (t *Top) Tick() {
	for _, b := range t.blocks {
		b.Tick()
	}
}

// Settle computes the outputs of every block.
func (t *Top) Settle() {
	for _, b := range t.blocks {
		b.Settle()
	}
}

type streamIO struct {
	valid   *signal.Signal
	ready   *signal.Signal
	payload []*signal.Signal
}

func addStream(bus *signal.Bus, prefix string, layout stream.Layout) streamIO {
	io := streamIO{
		valid: bus.Add(signal.ValidName(prefix), 1),
		ready: bus.Add(signal.ReadyName(prefix), 1),
	}

	for _, f := range layout {
		io.payload = append(io.payload,
			bus.Add(signal.PayloadName(prefix, f.Name), f.Width))
	}

	return io
}

func addFlow(bus *signal.Bus, prefix string, layout stream.Layout) streamIO {
	io := streamIO{
		valid: bus.Add(signal.ValidName(prefix), 1),
	}

	for _, f := range layout {
		io.payload = append(io.payload,
			bus.Add(signal.PayloadName(prefix, f.Name), f.Width))
	}

	return io
}

func (io streamIO) isValid() bool {
	return io.valid.Read() == 1
}

func (io streamIO) isReady() bool {
	return io.ready.Read() == 1
}

func (io streamIO) fire() bool {
	return io.isValid() && io.isReady()
}

func (io streamIO) read() []uint64 {
	values := make([]uint64, len(io.payload))
	for i, s := range io.payload {
		values[i] = s.Read()
	}

	return values
}

func (io streamIO) drive(valid bool, payload []uint64) {
	io.valid.Force(bit(valid))

	for i, s := range io.payload {
		if payload == nil {
			s.Force(0)
			continue
		}

		s.Force(payload[i])
	}
}

func (io streamIO) setReady(ready bool) {
	io.ready.Force(bit(ready))
}

func bit(b bool) uint64 {
	if b {
		return 1
	}

	return 0
}
