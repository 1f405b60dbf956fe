package models

import (
	"fmt"

	"github.com/sarchlab/streamcheck/sim/clock"
	"github.com/sarchlab/streamcheck/sim/hooking"
	"github.com/sarchlab/streamcheck/sim/signal"
	"github.com/sarchlab/streamcheck/stream"
)

// Grant is the input an arbiter has granted, or NoGrant.
type Grant int

// NoGrant means no input is granted.
const NoGrant Grant = -1

// GrantInfo describes one grant decision.
type GrantInfo struct {
	Model string
	Cycle uint64
	Port  int
}

// HookPosGrant is triggered when an arbiter model grants an input. The item
// is a GrantInfo.
var HookPosGrant = &hooking.HookPos{Name: "Grant"}

// Arbiter models an N-to-1 arbiter. The grant for the transfer at a rising
// edge is decided at the falling edge before it.
type Arbiter struct {
	base

	policy Policy
	inputs []signal.StreamPort
	queues []*stream.RefQueue

	grant  Grant
	cursor int
	next   int
	served bool
	grants uint64
}

// NewArbiter creates the model of an arbiter with several inputs and one
// output.
func NewArbiter(
	name string,
	bag signal.Bag,
	inputs []string,
	output string,
	layout stream.Layout,
	policy Policy,
	stim Stimulus,
) (*Arbiter, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("arbiter %s has no input", name)
	}

	if policy.Lock == FragmentLock && len(layout) < 2 {
		return nil, fmt.Errorf(
			"arbiter %s: fragment lock needs a fragment layout", name)
	}

	m := &Arbiter{
		base:   base{name: name},
		policy: policy,
		grant:  NoGrant,
		cursor: len(inputs) - 1,
	}

	for i, in := range inputs {
		d, port, err := stim.newDriver(bag, in, i, layout, m.OnInput)
		if err != nil {
			return nil, err
		}

		m.drivers = append(m.drivers, d)
		m.inputs = append(m.inputs, port)
		m.queues = append(m.queues, stream.NewRefQueue(name))
	}

	mon, err := stim.newMonitor(bag, output, 0, layout, m.OnOutput)
	if err != nil {
		return nil, err
	}

	m.monitors = append(m.monitors, mon)

	return m, nil
}

// Policy returns the arbitration policy.
func (m *Arbiter) Policy() Policy {
	return m.policy
}

// Grant returns the current grant.
func (m *Arbiter) Grant() Grant {
	return m.grant
}

// Grants returns the number of grants decided so far.
func (m *Arbiter) Grants() uint64 {
	return m.grants
}

// Launch registers the drivers, the monitor, and the arbitration task.
func (m *Arbiter) Launch(k *clock.Clock) {
	m.base.Launch(k)
	k.Subscribe(clock.Falling, m)
}

// OnEdge decides the grant at a falling edge from the settled valids.
func (m *Arbiter) OnEdge(e clock.Edge) error {
	if e.Kind != clock.Falling {
		return nil
	}

	m.Arbitrate(e.Cycle)

	return nil
}

// Arbitrate updates the grant from the current valids.
func (m *Arbiter) Arbitrate(cycle uint64) {
	prev := m.grant

	if m.policy.Lock == NoLock || m.grant == NoGrant {
		m.grant = m.propose()
	}

	if m.grant == NoGrant {
		return
	}

	if m.policy.Lock == NoLock {
		m.cursor = int(m.grant)
	}

	if m.grant != prev || m.served {
		m.served = false
		m.grants++
		m.publishGrant(cycle)
	}
}

func (m *Arbiter) propose() Grant {
	n := len(m.inputs)

	switch m.policy.Priority {
	case LowIDFirst:
		for i := 0; i < n; i++ {
			if m.inputs[i].Valid.Read() == 1 {
				return Grant(i)
			}
		}
	case RoundRobin:
		for j := 1; j <= n; j++ {
			i := (m.cursor + j) % n
			if m.inputs[i].Valid.Read() == 1 {
				return Grant(i)
			}
		}
	case Sequential:
		return Grant(m.next)
	}

	return NoGrant
}

func (m *Arbiter) publishGrant(cycle uint64) {
	if m.NumHooks() == 0 {
		return
	}

	m.InvokeHook(hooking.HookCtx{
		Domain: m,
		Pos:    HookPosGrant,
		Item: GrantInfo{
			Model: m.name,
			Cycle: cycle,
			Port:  int(m.grant),
		},
	})
}

// OnInput records an accepted input. Only the granted input may transfer.
func (m *Arbiter) OnInput(p stream.Payload, port int) error {
	m.recordInput(p, port)

	if m.grant != NoGrant && Grant(port) != m.grant {
		return &stream.ViolationError{
			Kind:     stream.KindArbitration,
			Model:    m.name,
			Port:     port,
			Expected: fmt.Sprintf("port %d", m.grant),
			Actual:   fmt.Sprintf("port %d", port),
			Detail:   "input accepted without grant",
		}
	}

	m.queues[port].Push(m.checked(p))

	return nil
}

// OnOutput checks an output against the oldest input of the granted port
// and releases the grant according to the lock.
func (m *Arbiter) OnOutput(p stream.Payload, port int) error {
	m.recordOutput(p, port)

	if m.grant == NoGrant {
		return &stream.ViolationError{
			Kind:   stream.KindNoGrant,
			Model:  m.name,
			Port:   port,
			Actual: p.String(),
			Detail: "output transfer while no input is granted",
		}
	}

	granted := int(m.grant)
	err := m.queues[granted].PopAndCompare(granted, m.checked(p))
	if err != nil {
		return err
	}

	m.complete(p)

	return nil
}

// checked returns the part of a payload the output is compared on. A fragment
// arbiter only carries the fragment through its queues; last drives the lock.
func (m *Arbiter) checked(p stream.Payload) stream.Payload {
	if m.policy.Lock == FragmentLock {
		return stream.NewPayload(p.Fragment())
	}

	return p
}

func (m *Arbiter) complete(p stream.Payload) {
	if m.policy.Priority == Sequential {
		m.next = (m.next + 1) % len(m.inputs)
	}

	if m.policy.Lock == FragmentLock && !p.IsLast() {
		return
	}

	m.cursor = int(m.grant)
	m.grant = NoGrant
	m.served = true
}
