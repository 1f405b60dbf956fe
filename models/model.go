// Package models provides the behavioral reference models of the stream
// primitives. A model drives the inputs of a primitive, observes its
// outputs, and fails at the first transfer it did not predict.
package models

import (
	"github.com/sarchlab/streamcheck/sim/clock"
	"github.com/sarchlab/streamcheck/sim/hooking"
	"github.com/sarchlab/streamcheck/stream"
)

// Model is the reference model of one primitive of the device under test.
type Model interface {
	hooking.Hookable

	Name() string

	// OnInput is called when the device accepts a payload on an input port.
	OnInput(p stream.Payload, port int) error

	// OnOutput is called when the device emits a payload on an output port.
	OnOutput(p stream.Payload, port int) error

	// Launch registers the drivers, monitors, and arbitration tasks of the
	// model on the clock.
	Launch(k *clock.Clock)

	// Done tells if every output has reached its target.
	Done() bool

	Progress() Progress
}

// Progress summarizes how far a model has come.
type Progress struct {
	Name    string `json:"name"`
	Inputs  uint64 `json:"inputs"`
	Outputs uint64 `json:"outputs"`
	Target  uint64 `json:"target"`
	Done    bool   `json:"done"`

	// Sources splits the outputs by input for models that merge inputs.
	Sources []uint64 `json:"sources,omitempty"`
}

// Direction tells inputs from outputs.
type Direction string

// The directions of a transfer.
const (
	DirInput  Direction = "in"
	DirOutput Direction = "out"
)

// Transfer is one accepted transfer as seen by a model.
type Transfer struct {
	Model     string
	Direction Direction
	Port      int
	Cycle     uint64
	Payload   stream.Payload
}

// HookPosTransfer is triggered for every transfer a model checks. The item
// is a Transfer.
var HookPosTransfer = &hooking.HookPos{Name: "Transfer"}

type launcher interface {
	Launch(k *clock.Clock)
}

type monitor interface {
	launcher
	Done() bool
	Target() uint64
}

// base holds what every model shares.
type base struct {
	hooking.HookableBase

	name     string
	clock    *clock.Clock
	drivers  []launcher
	monitors []monitor
	inputs   uint64
	outputs  uint64
}

// Name returns the name of the model.
func (b *base) Name() string {
	return b.name
}

// Launch starts the drivers before the monitors so that a transfer that
// passes through the device within one cycle is pushed before it is popped.
func (b *base) Launch(k *clock.Clock) {
	b.clock = k

	for _, d := range b.drivers {
		d.Launch(k)
	}

	for _, m := range b.monitors {
		m.Launch(k)
	}
}

// Done tells if every monitor has reached its target.
func (b *base) Done() bool {
	for _, m := range b.monitors {
		if !m.Done() {
			return false
		}
	}

	return true
}

// Progress returns the transfer counts of the model.
func (b *base) Progress() Progress {
	var target uint64
	for _, m := range b.monitors {
		target += m.Target()
	}

	return Progress{
		Name:    b.name,
		Inputs:  b.inputs,
		Outputs: b.outputs,
		Target:  target,
		Done:    b.Done(),
	}
}

func (b *base) cycle() uint64 {
	if b.clock == nil {
		return 0
	}

	return b.clock.Cycles()
}

func (b *base) recordInput(p stream.Payload, port int) {
	b.inputs++
	b.publish(DirInput, p, port)
}

func (b *base) recordOutput(p stream.Payload, port int) {
	b.outputs++
	b.publish(DirOutput, p, port)
}

func (b *base) publish(dir Direction, p stream.Payload, port int) {
	if b.NumHooks() == 0 {
		return
	}

	b.InvokeHook(hooking.HookCtx{
		Domain: b,
		Pos:    HookPosTransfer,
		Item: Transfer{
			Model:     b.name,
			Direction: dir,
			Port:      port,
			Cycle:     b.cycle(),
			Payload:   p,
		},
	})
}
