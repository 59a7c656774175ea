package hooking

import (
	"sync"
)

// KeyFunc extracts the counting key from a hook invocation. Invocations for
// which the second return value is false are ignored.
type KeyFunc func(ctx HookCtx) (string, bool)

// CountHook counts hook invocations grouped by a key. Keys are reported in the
// order they are first seen.
type CountHook struct {
	lock   sync.Mutex
	key    KeyFunc
	names  []string
	counts map[string]uint64
}

// NewCountHook creates a CountHook that groups invocations with key.
func NewCountHook(key KeyFunc) *CountHook {
	return &CountHook{
		key:    key,
		counts: make(map[string]uint64),
	}
}

// Func counts the invocation if the key function accepts it.
func (h *CountHook) Func(ctx HookCtx) {
	name, ok := h.key(ctx)
	if !ok {
		return
	}

	h.lock.Lock()
	defer h.lock.Unlock()

	if _, seen := h.counts[name]; !seen {
		h.names = append(h.names, name)
	}

	h.counts[name]++
}

// Names returns all the keys collected so far.
func (h *CountHook) Names() []string {
	h.lock.Lock()
	defer h.lock.Unlock()

	names := make([]string, len(h.names))
	copy(names, h.names)

	return names
}

// Count returns the number of invocations recorded under name.
func (h *CountHook) Count(name string) uint64 {
	h.lock.Lock()
	defer h.lock.Unlock()

	return h.counts[name]
}

// Reset forgets everything counted so far.
func (h *CountHook) Reset() {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.names = nil
	h.counts = make(map[string]uint64)
}
