// Package clock generates the clock and reset of a device under test and
// resumes the tasks that wait for clock edges.
//
// Every rising edge is processed in four steps. First, the rising-edge
// listeners run in the order they subscribed. They all observe the values
// that settled before the edge and their writes stay pending. Second, the
// device updates its registers from the same pre-edge values. Third, the
// pending writes are committed. Last, the device settles its combinational
// outputs. Half a period later, the falling-edge listeners run on the
// settled values.
package clock

import (
	"log"

	"github.com/sarchlab/streamcheck/sim/hooking"
	"github.com/sarchlab/streamcheck/sim/timing"
)

// EdgeKind tells a rising edge from a falling edge.
type EdgeKind int

// The two kinds of edges.
const (
	Rising EdgeKind = iota
	Falling
)

func (k EdgeKind) String() string {
	if k == Rising {
		return "rising"
	}

	return "falling"
}

// Edge describes one clock edge.
type Edge struct {
	Kind EdgeKind

	// Cycle counts the rising edges after reset, starting from 0. A falling
	// edge shares the cycle number of the rising edge before it.
	Cycle uint64

	Time timing.VTimeInSec
}

// An EdgeListener is a task that is resumed at clock edges.
type EdgeListener interface {
	OnEdge(e Edge) error
}

// EdgeListenerFunc adapts a function to the EdgeListener interface.
type EdgeListenerFunc func(e Edge) error

// OnEdge calls f(e).
func (f EdgeListenerFunc) OnEdge(e Edge) error {
	return f(e)
}

// Device is the evaluation hook of the device under test.
type Device interface {
	// Reset puts the registers in their reset state.
	Reset()

	// Tick updates the registers from the current signal values.
	Tick()

	// Settle computes the combinational outputs from the registers and the
	// current signal values.
	Settle()
}

// A Committer applies the pending signal writes.
type Committer interface {
	Commit() int
}

// HookPosEdge is triggered after an edge has been fully processed. The hook
// item is the Edge.
var HookPosEdge = &hooking.HookPos{Name: "Edge"}

type edgeEvent struct {
	*timing.EventBase
	kind EdgeKind
	tick uint64
}

// Clock is the only event handler of a test. It schedules its own edges on
// the engine.
type Clock struct {
	hooking.HookableBase

	name        string
	engine      timing.EventScheduler
	freq        timing.Freq
	device      Device
	committer   Committer
	resetCycles uint64

	rising  []EdgeListener
	falling []EdgeListener

	started bool
	stopped bool
	cycles  uint64
}

// Name returns the name of the clock.
func (c *Clock) Name() string {
	return c.name
}

// Freq returns the clock frequency.
func (c *Clock) Freq() timing.Freq {
	return c.freq
}

// Cycles returns the number of rising edges processed after reset.
func (c *Clock) Cycles() uint64 {
	return c.cycles
}

// Subscribe registers a listener for one kind of edge. Listeners of the same
// kind are resumed in subscription order.
func (c *Clock) Subscribe(kind EdgeKind, l EdgeListener) {
	switch kind {
	case Rising:
		c.rising = append(c.rising, l)
	case Falling:
		c.falling = append(c.falling, l)
	default:
		log.Panicf("unknown edge kind %d", kind)
	}
}

// Start schedules the first rising edge at time 0.
func (c *Clock) Start() {
	if c.started {
		log.Panic("clock " + c.name + " already started")
	}

	c.started = true
	c.schedule(Rising, 0)
}

// Stop prevents the clock from scheduling further edges. The edge being
// processed completes.
func (c *Clock) Stop() {
	c.stopped = true
}

// Stopped tells if Stop has been called.
func (c *Clock) Stopped() bool {
	return c.stopped
}

// Handle processes an edge event.
func (c *Clock) Handle(e timing.Event) error {
	evt, ok := e.(*edgeEvent)
	if !ok {
		log.Panicf("clock %s cannot handle event %T", c.name, e)
	}

	if evt.kind == Falling {
		return c.fall(evt)
	}

	if evt.tick < c.resetCycles {
		c.reset(evt)
		return nil
	}

	return c.rise(evt)
}

func (c *Clock) reset(evt *edgeEvent) {
	c.device.Reset()
	c.committer.Commit()
	c.device.Settle()

	if !c.stopped {
		c.schedule(Rising, evt.tick+1)
	}
}

func (c *Clock) rise(evt *edgeEvent) error {
	edge := Edge{
		Kind:  Rising,
		Cycle: evt.tick - c.resetCycles,
		Time:  evt.Time(),
	}

	for _, l := range c.rising {
		if err := l.OnEdge(edge); err != nil {
			return err
		}
	}

	c.device.Tick()
	c.committer.Commit()
	c.device.Settle()
	c.cycles++

	c.invokeEdgeHook(edge)

	if !c.stopped {
		c.schedule(Falling, evt.tick)
	}

	return nil
}

func (c *Clock) fall(evt *edgeEvent) error {
	edge := Edge{
		Kind:  Falling,
		Cycle: evt.tick - c.resetCycles,
		Time:  evt.Time(),
	}

	for _, l := range c.falling {
		if err := l.OnEdge(edge); err != nil {
			return err
		}
	}

	c.invokeEdgeHook(edge)

	if !c.stopped {
		c.schedule(Rising, evt.tick+1)
	}

	return nil
}

func (c *Clock) invokeEdgeHook(edge Edge) {
	if c.NumHooks() == 0 {
		return
	}

	c.InvokeHook(hooking.HookCtx{
		Domain: c,
		Pos:    HookPosEdge,
		Item:   edge,
	})
}

func (c *Clock) schedule(kind EdgeKind, tick uint64) {
	t := c.freq.NthTick(tick)
	if kind == Falling {
		t = c.freq.NthHalfTick(tick)
	}

	c.engine.Schedule(&edgeEvent{
		EventBase: timing.NewEventBase(t, c),
		kind:      kind,
		tick:      tick,
	})
}
