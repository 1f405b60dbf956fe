package timing

import (
	"log"
	"reflect"

	"github.com/sarchlab/streamcheck/sim/hooking"
)

// EventLogger is an engine hook that prints one line per handled event: the
// time, the event type, and the handler.
type EventLogger struct {
	logger *log.Logger
}

// NewEventLogger creates an EventLogger that prints to logger.
func NewEventLogger(logger *log.Logger) *EventLogger {
	return &EventLogger{logger: logger}
}

type named interface {
	Name() string
}

// Func prints the event before it is handled. Other positions are ignored.
func (h *EventLogger) Func(ctx hooking.HookCtx) {
	if ctx.Pos != HookPosBeforeEvent {
		return
	}

	evt, ok := ctx.Item.(Event)
	if !ok {
		return
	}

	h.logger.Printf("%.10f, %s -> %s",
		evt.Time(), reflect.TypeOf(evt), handlerName(evt.Handler()))
}

func handlerName(h Handler) string {
	if n, ok := h.(named); ok {
		return n.Name()
	}

	return reflect.TypeOf(h).String()
}
