package clock

import (
	"log"

	"github.com/sarchlab/streamcheck/sim/timing"
)

// Builder creates clocks.
type Builder struct {
	engine      timing.EventScheduler
	freq        timing.Freq
	resetCycles uint64
}

// MakeBuilder creates a Builder with a 1 GHz clock and 4 reset cycles.
func MakeBuilder() Builder {
	return Builder{
		freq:        1 * timing.GHz,
		resetCycles: 4,
	}
}

// WithEngine sets the engine that the clock schedules its edges on.
func (b Builder) WithEngine(e timing.EventScheduler) Builder {
	b.engine = e
	return b
}

// WithFreq sets the clock frequency.
func (b Builder) WithFreq(f timing.Freq) Builder {
	b.freq = f
	return b
}

// WithResetCycles sets the number of rising edges the device is held in
// reset before the listeners are resumed.
func (b Builder) WithResetCycles(n uint64) Builder {
	b.resetCycles = n
	return b
}

// Build creates a clock that evaluates the device and commits the writes
// through the committer.
func (b Builder) Build(name string, device Device, committer Committer) *Clock {
	if b.engine == nil {
		log.Panic("clock " + name + " has no engine")
	}

	if b.freq <= 0 {
		log.Panicf("clock %s: invalid frequency %f", name, b.freq)
	}

	return &Clock{
		name:        name,
		engine:      b.engine,
		freq:        b.freq,
		device:      device,
		committer:   committer,
		resetCycles: b.resetCycles,
	}
}
