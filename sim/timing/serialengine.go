package timing

import (
	"fmt"
	"log"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/sarchlab/epinet/sim/hooking"
)

// HandlerError reports an event whose handler failed. A SerialEngine stops at
// the first HandlerError and returns it from Run.
type HandlerError struct {
	Event Event
	Err   error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("handling %s @ %.10f: %v",
		reflect.TypeOf(e.Event), e.Event.Time(), e.Err)
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}

// A SerialEngine is an Engine that always run events one after another.
type SerialEngine struct {
	hooking.HookableBase

	timeLock sync.RWMutex
	time     VTimeInSec
	horizon  VTimeInSec
	queue    *EventQueueImpl

	isPaused     bool
	isPausedLock sync.Mutex
	pauseLock    sync.Mutex

	singleRunLock sync.Mutex

	numDispatched atomic.Uint64
	numDropped    atomic.Uint64
}

// NewSerialEngine creates a SerialEngine without a horizon.
func NewSerialEngine() *SerialEngine {
	e := new(SerialEngine)

	e.queue = NewEventQueue()

	return e
}

// WithHorizon sets the time at and after which events are no longer
// scheduled. A horizon that is not positive means no limit.
func (e *SerialEngine) WithHorizon(t VTimeInSec) *SerialEngine {
	e.horizon = t
	return e
}

// Horizon returns the configured horizon, or 0 if unbounded.
func (e *SerialEngine) Horizon() VTimeInSec {
	return e.horizon
}

// Schedule register an event to be happen in the future. Events at or beyond
// the horizon are dropped and Schedule returns false.
func (e *SerialEngine) Schedule(evt Event) bool {
	now := e.readNow()
	if evt.Time() < now {
		log.Panicf("scheduling an event earlier than current time, "+
			"evt %s @ %.10f, now %.10f", reflect.TypeOf(evt), evt.Time(), now)
	}

	if e.horizon > 0 && evt.Time() >= e.horizon {
		e.numDropped.Add(1)
		return false
	}

	e.queue.Push(evt)

	return true
}

func (e *SerialEngine) readNow() VTimeInSec {
	e.timeLock.RLock()
	t := e.time
	e.timeLock.RUnlock()

	return t
}

func (e *SerialEngine) writeNow(t VTimeInSec) {
	e.timeLock.Lock()
	e.time = t
	e.timeLock.Unlock()
}

// Run processes all the events scheduled in the SerialEngine. It returns nil
// once the queue is empty, or the first error produced by a handler, wrapped
// in a *HandlerError. Events still queued after an error stay queued.
func (e *SerialEngine) Run() error {
	e.singleRunLock.Lock()
	defer e.singleRunLock.Unlock()

	for {
		if e.queue.Len() == 0 {
			return nil
		}

		if err := e.runNext(); err != nil {
			return err
		}
	}
}

func (e *SerialEngine) runNext() error {
	e.pauseLock.Lock()
	defer e.pauseLock.Unlock()

	evt := e.queue.Pop()
	now := e.readNow()

	if evt.Time() < now {
		log.Panicf(
			"cannot run event in the past, evt %s @ %.10f, now %.10f",
			reflect.TypeOf(evt), evt.Time(), now,
		)
	}

	e.writeNow(evt.Time())
	e.numDispatched.Add(1)

	hookCtx := hooking.HookCtx{
		Domain: e,
		Pos:    HookPosBeforeEvent,
		Item:   evt,
	}
	e.InvokeHook(hookCtx)

	err := evt.Handler().Handle(evt)

	hookCtx.Pos = HookPosAfterEvent
	hookCtx.Detail = err
	e.InvokeHook(hookCtx)

	if err != nil {
		return &HandlerError{Event: evt, Err: err}
	}

	return nil
}

// Pause prevents the SerialEngine to trigger more events.
func (e *SerialEngine) Pause() {
	e.isPausedLock.Lock()
	defer e.isPausedLock.Unlock()

	if e.isPaused {
		return
	}

	e.pauseLock.Lock()
	e.isPaused = true
}

// Continue allows the SerialEngine to trigger more events.
func (e *SerialEngine) Continue() {
	e.isPausedLock.Lock()
	defer e.isPausedLock.Unlock()

	if !e.isPaused {
		return
	}

	e.pauseLock.Unlock()
	e.isPaused = false
}

// Now returns the current time at which the engine is at.
// Specifically, the run time of the current event.
func (e *SerialEngine) Now() VTimeInSec {
	return e.readNow()
}

// Pending returns the number of events waiting in the queue.
func (e *SerialEngine) Pending() int {
	return e.queue.Len()
}

// NumDispatched returns the number of events handled since the last Reset.
func (e *SerialEngine) NumDispatched() uint64 {
	return e.numDispatched.Load()
}

// NumDropped returns the number of events rejected by the horizon since the
// last Reset.
func (e *SerialEngine) NumDropped() uint64 {
	return e.numDropped.Load()
}

// Reset empties the queue and rewinds the time to zero so that the engine can
// be reused. Hooks and the horizon are kept. Reset must not be called while
// Run is in progress.
func (e *SerialEngine) Reset() {
	e.singleRunLock.Lock()
	defer e.singleRunLock.Unlock()

	e.queue.Clear()
	e.writeNow(0)
	e.numDispatched.Store(0)
	e.numDropped.Store(0)
}
