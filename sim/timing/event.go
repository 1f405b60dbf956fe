package timing

import (
	"github.com/sarchlab/streamcheck/sim/hooking"
	"github.com/sarchlab/streamcheck/sim/id"
)

// VTimeInSec is a point of simulated time, in seconds.
type VTimeInSec = float64

// An Event is a scheduled action, such as a clock edge.
type Event interface {
	Time() VTimeInSec
	Handler() Handler

	// IsSecondary marks events that run after every primary event of the
	// same time.
	IsSecondary() bool
}

// HookPosBeforeEvent fires with the event as item before it is handled.
var HookPosBeforeEvent = &hooking.HookPos{Name: "BeforeEvent"}

// HookPosAfterEvent fires with the event as item once it is handled.
var HookPosAfterEvent = &hooking.HookPos{Name: "AfterEvent"}

// EventBase implements Event. Concrete events embed it.
type EventBase struct {
	ID        string
	time      VTimeInSec
	handler   Handler
	secondary bool
}

// NewEventBase creates a primary event at time t.
func NewEventBase(t VTimeInSec, handler Handler) *EventBase {
	return &EventBase{
		ID:      id.Generate(),
		time:    t,
		handler: handler,
	}
}

// Time returns when the event is handled.
func (e EventBase) Time() VTimeInSec {
	return e.time
}

// Handler returns the handler of the event.
func (e EventBase) Handler() Handler {
	return e.handler
}

// IsSecondary tells if the event waits for the primary events of its time.
func (e EventBase) IsSecondary() bool {
	return e.secondary
}

// A Handler handles the events it scheduled. An error stops the engine and
// is returned by Run.
type Handler interface {
	Handle(e Event) error
}
