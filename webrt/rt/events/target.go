package events

import (
	"context"
	"sync"
)

// Listener handles one event type.
type Listener[E any] func(ctx context.Context, ev E)

// GlobalListener sees every event together with its type.
type GlobalListener[E any] func(ctx context.Context, typ string, ev E)

type entry[E any] struct {
	id     uint64
	fn     Listener[E]
	global GlobalListener[E]
}

// Target keeps listeners for events of type E and calls them on the loop's
// goroutine.
type Target[E any] struct {
	loop *Loop

	mu     sync.Mutex
	nextID uint64
	byType map[string][]entry[E]
	global []entry[E]
}

// NewTarget binds a target to loop. A nil loop dispatches inline.
func NewTarget[E any](loop *Loop) *Target[E] {
	return &Target[E]{loop: loop, byType: make(map[string][]entry[E])}
}

// On registers fn for typ and returns a function that removes it.
func (t *Target[E]) On(typ string, fn Listener[E]) func() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextID++
	id := t.nextID
	t.byType[typ] = append(t.byType[typ], entry[E]{id: id, fn: fn})
	return func() { t.remove(typ, id) }
}

// OnAny registers fn for every event type.
func (t *Target[E]) OnAny(fn GlobalListener[E]) func() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextID++
	id := t.nextID
	t.global = append(t.global, entry[E]{id: id, global: fn})
	return func() { t.remove("", id) }
}

func (t *Target[E]) remove(typ string, id uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if typ == "" {
		t.global = without(t.global, id)
		return
	}
	t.byType[typ] = without(t.byType[typ], id)
	if len(t.byType[typ]) == 0 {
		delete(t.byType, typ)
	}
}

func without[E any](list []entry[E], id uint64) []entry[E] {
	out := list[:0:0]
	for _, e := range list {
		if e.id != id {
			out = append(out, e)
		}
	}
	return out
}

// HasListeners reports whether anything would receive typ.
func (t *Target[E]) HasListeners(typ string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.byType[typ]) > 0 || len(t.global) > 0
}

// Dispatch delivers ev to the listeners of typ and then to the global
// listeners. When ctx is not owned by the loop the delivery is posted to the
// loop instead; the result is false only if that post was dropped.
func (t *Target[E]) Dispatch(ctx context.Context, typ string, ev E) bool {
	if t.loop != nil && !t.loop.Owns(ctx) {
		return t.loop.Post(func(owned context.Context) {
			t.deliver(owned, typ, ev)
		})
	}
	t.deliver(ctx, typ, ev)
	return true
}

func (t *Target[E]) deliver(ctx context.Context, typ string, ev E) {
	t.mu.Lock()
	typed := append([]entry[E](nil), t.byType[typ]...)
	global := append([]entry[E](nil), t.global...)
	t.mu.Unlock()

	for _, e := range typed {
		e.fn(ctx, ev)
	}
	for _, e := range global {
		e.global(ctx, typ, ev)
	}
}
