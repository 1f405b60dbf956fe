// Package timing provides the discrete event engine that advances simulated
// time.
package timing

import (
	"github.com/sarchlab/streamcheck/sim/hooking"
)

// TimeTeller reports the current simulated time.
type TimeTeller interface {
	Now() VTimeInSec
}

// EventScheduler queues events. The clock only needs this part of an
// engine.
type EventScheduler interface {
	TimeTeller

	Schedule(e Event)
}

// An Engine runs events in time order.
type Engine interface {
	hooking.Hookable
	EventScheduler

	// Run handles events until none is left or a handler fails. It returns
	// the first handler error.
	Run() error

	// Pause blocks Run before its next event. It may be called from another
	// goroutine.
	Pause()

	// Continue releases a paused Run.
	Continue()
}
