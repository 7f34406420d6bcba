package handle

import (
	"errors"
	"sync"

	"go.uber.org/atomic"
)

// DefaultReservedIDs is the size of the low id range kept for objects the host
// manages itself, such as the default framebuffer.
const DefaultReservedIDs = 10

// ErrContextIDsExhausted is returned when all 255 context ids are live.
var ErrContextIDsExhausted = errors.New("handle: all context ids are in use")

// Allocator hands out process-unique ids. It is owned by the context registry
// and injected into every context; nothing here is package-global.
type Allocator struct {
	reserved  uint32
	counters  [kindCount]atomic.Uint32
	sessions  atomic.Uint32
	messages  atomic.Uint32
	callbacks atomic.Uint32

	mu          sync.Mutex
	lastContext uint8
	liveContext [256]bool
}

func NewAllocator(reserved uint32) *Allocator {
	a := &Allocator{reserved: reserved}
	for i := range a.counters {
		a.counters[i].Store(reserved)
	}
	return a
}

func (a *Allocator) Reserved() uint32 {
	return a.reserved
}

// Next returns the next id for kind. Ids are monotonic per kind and always
// above the reserved range.
func (a *Allocator) Next(kind Kind) uint32 {
	return a.counters[kind].Inc()
}

// NewHandle allocates an id and wraps it.
func (a *Allocator) NewHandle(kind Kind) Handle {
	return New(kind, a.Next(kind))
}

// NextContextID returns a free non-zero 8-bit context id. The wire format
// carries context ids in one byte, so the sequence wraps, skipping 0 and ids
// that are still live.
func (a *Allocator) NextContextID() (uint8, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	id := a.lastContext
	for i := 0; i < 255; i++ {
		id++
		if id == 0 {
			id = 1
		}
		if !a.liveContext[id] {
			a.liveContext[id] = true
			a.lastContext = id
			return id, nil
		}
	}
	return 0, ErrContextIDsExhausted
}

// ReleaseContextID makes id available again once its context is gone.
func (a *Allocator) ReleaseContextID(id uint8) {
	a.mu.Lock()
	a.liveContext[id] = false
	a.mu.Unlock()
}

// NextSessionID never returns 0; frames tagged with session 0 are unbound.
func (a *Allocator) NextSessionID() uint32 {
	return a.sessions.Inc()
}

func (a *Allocator) NextMessageID() uint32 {
	return a.messages.Inc()
}

func (a *Allocator) NextCallbackID() uint32 {
	return a.callbacks.Inc()
}
