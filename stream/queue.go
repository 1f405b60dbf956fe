package stream

import (
	"github.com/sarchlab/streamcheck/sim/hooking"
)

// HookPosQueuePush marks when a payload is pushed into a reference queue.
var HookPosQueuePush = &hooking.HookPos{Name: "Queue Push"}

// HookPosQueuePop marks when a payload is popped from a reference queue.
var HookPosQueuePop = &hooking.HookPos{Name: "Queue Pop"}

// RefQueue holds the payloads a model expects to see on an output port, in
// order.
type RefQueue struct {
	hooking.HookableBase

	model    string
	elements []Payload
}

// NewRefQueue creates an empty queue owned by a model.
func NewRefQueue(model string) *RefQueue {
	return &RefQueue{
		model: model,
	}
}

// Push appends an expected payload.
func (q *RefQueue) Push(p Payload) {
	q.elements = append(q.elements, p)

	if q.NumHooks() > 0 {
		q.InvokeHook(hooking.HookCtx{
			Domain: q,
			Pos:    HookPosQueuePush,
			Item:   p,
		})
	}
}

// Pop removes the oldest payload on behalf of a transfer observed on a port.
// Popping an empty queue returns an underflow violation.
func (q *RefQueue) Pop(port int) (Payload, error) {
	if len(q.elements) == 0 {
		return Payload{}, &ViolationError{
			Kind:   KindUnderflow,
			Model:  q.model,
			Port:   port,
			Detail: "output transfer without a pending input",
		}
	}

	p := q.elements[0]
	q.elements = q.elements[1:]

	if q.NumHooks() > 0 {
		q.InvokeHook(hooking.HookCtx{
			Domain: q,
			Pos:    HookPosQueuePop,
			Item:   p,
			Detail: port,
		})
	}

	return p, nil
}

// Peek returns the oldest payload without removing it.
func (q *RefQueue) Peek() (Payload, bool) {
	if len(q.elements) == 0 {
		return Payload{}, false
	}

	return q.elements[0], true
}

// PopAndCompare pops the oldest payload and checks that it equals the
// payload observed on a port.
func (q *RefQueue) PopAndCompare(port int, observed Payload) error {
	expected, err := q.Pop(port)
	if err != nil {
		return err
	}

	if !expected.Equal(observed) {
		return Mismatch(q.model, port, expected, observed)
	}

	return nil
}

// Size returns the number of payloads in the queue.
func (q *RefQueue) Size() int {
	return len(q.elements)
}
