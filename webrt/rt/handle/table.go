package handle

import "sort"

// Table is a per-context arena of live objects keyed by id.
// It is not safe for concurrent use; contexts are driven from one goroutine.
type Table[T Object] struct {
	kind    Kind
	entries map[uint32]T
}

func NewTable[T Object](kind Kind) *Table[T] {
	return &Table[T]{
		kind:    kind,
		entries: make(map[uint32]T),
	}
}

func (t *Table[T]) Kind() Kind {
	return t.kind
}

func (t *Table[T]) Insert(obj T) {
	t.entries[obj.Ref().ID()] = obj
}

// Get returns the live object with the given id.
func (t *Table[T]) Get(id uint32) (T, bool) {
	obj, ok := t.entries[id]
	if !ok || obj.Ref().IsDeleted() {
		var zero T
		return zero, false
	}
	return obj, true
}

// Contains reports whether obj is a live member of this table.
func (t *Table[T]) Contains(obj T) bool {
	h := obj.Ref()
	if !h.Alive() {
		return false
	}
	cur, ok := t.entries[h.ID()]
	return ok && cur.Ref() == h
}

func (t *Table[T]) Remove(id uint32) {
	delete(t.entries, id)
}

func (t *Table[T]) Len() int {
	return len(t.entries)
}

// Each visits objects in ascending id order.
func (t *Table[T]) Each(fn func(T)) {
	ids := make([]uint32, 0, len(t.entries))
	for id := range t.entries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		fn(t.entries[id])
	}
}

// Release marks every object deleted and empties the table. Used on context
// loss, when the host side is already gone.
func (t *Table[T]) Release() int {
	n := 0
	for id, obj := range t.entries {
		if obj.Ref().MarkDeleted() {
			n++
		}
		delete(t.entries, id)
	}
	return n
}
