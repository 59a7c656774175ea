package timing

import (
	"fmt"
	"log"

	"github.com/sarchlab/epinet/sim/hooking"
)

// EventLogger is an hook that prints the event information.
type EventLogger struct {
	logger *log.Logger
}

// NewEventLogger returns a new EventLogger which will write in to the logger.
func NewEventLogger(logger *log.Logger) *EventLogger {
	h := new(EventLogger)

	h.logger = logger

	return h
}

// Func writes the event information into the logger.
func (h *EventLogger) Func(ctx hooking.HookCtx) {
	if ctx.Pos != HookPosBeforeEvent {
		return
	}

	evt, ok := ctx.Item.(Event)
	if !ok {
		return
	}

	h.logger.Printf("%.10f, %s", evt.Time(), describe(evt))
}

func describe(evt Event) string {
	if s, ok := evt.(fmt.Stringer); ok {
		return s.String()
	}

	return fmt.Sprintf("%T", evt)
}
