package devices

import (
	"github.com/sarchlab/streamcheck/models"
	"github.com/sarchlab/streamcheck/sim/signal"
	"github.com/sarchlab/streamcheck/stream"
)

// Arbiter merges several streams into one under an arbitration policy.
//
// When not locked, the routed input is the proposal of the priority rule.
// Once the output is valid, the routed input is remembered and, with a lock,
// kept until the lock is released.
type Arbiter struct {
	ins    []streamIO
	out    streamIO
	policy models.Policy

	locked     bool
	maskLocked int
	counter    int
}

// NewArbiter adds the signals of an arbiter to the bus.
func NewArbiter(
	bus *signal.Bus,
	inputs []string,
	output string,
	layout stream.Layout,
	policy models.Policy,
) *Arbiter {
	a := &Arbiter{
		out:    addStream(bus, output, layout),
		policy: policy,
	}

	for _, in := range inputs {
		a.ins = append(a.ins, addStream(bus, in, layout))
	}

	return a
}

// Reset releases the lock and restarts the priority from input 0.
func (a *Arbiter) Reset() {
	a.locked = false
	a.maskLocked = len(a.ins) - 1
	a.counter = 0
}

func (a *Arbiter) proposal() int {
	n := len(a.ins)

	switch a.policy.Priority {
	case models.LowIDFirst:
		for i := 0; i < n; i++ {
			if a.ins[i].isValid() {
				return i
			}
		}
	case models.RoundRobin:
		for j := 1; j <= n; j++ {
			i := (a.maskLocked + j) % n
			if a.ins[i].isValid() {
				return i
			}
		}
	case models.Sequential:
		return a.counter
	}

	return -1
}

func (a *Arbiter) routed() int {
	if a.locked {
		return a.maskLocked
	}

	return a.proposal()
}

// Tick updates the lock, the remembered input, and the sequence counter.
func (a *Arbiter) Tick() {
	r := a.routed()
	valid := a.out.isValid()
	fire := a.out.fire()

	if valid && r >= 0 {
		a.maskLocked = r
	}

	switch a.policy.Lock {
	case models.TransactionLock:
		if valid {
			a.locked = true
		}

		if fire {
			a.locked = false
		}
	case models.FragmentLock:
		if valid {
			a.locked = true
		}

		if fire && a.isLast() {
			a.locked = false
		}
	}

	if fire && a.policy.Priority == models.Sequential {
		a.counter = (a.counter + 1) % len(a.ins)
	}
}

func (a *Arbiter) isLast() bool {
	last := a.out.payload[len(a.out.payload)-1]
	return last.Read() == 1
}

// Settle routes one input to the output.
func (a *Arbiter) Settle() {
	r := a.routed()

	if r < 0 {
		a.out.drive(false, nil)
	} else {
		a.out.drive(a.ins[r].isValid(), a.ins[r].read())
	}

	for i, in := range a.ins {
		in.setReady(i == r && a.out.isReady())
	}
}
