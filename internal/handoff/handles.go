package handoff

import (
	"errors"
	"sync"
	"sync/atomic"
)

var ErrUnknownHandle = errors.New("handoff: handle is not registered")

// Handle is an opaque, copyable reference to a value held in a Table.
// The zero Handle is never issued.
type Handle uint64

// Table maps handles to values. It never owns the values: the registrant
// decides when a handle stops resolving by calling Release.
type Table[T any] struct {
	entries sync.Map // Handle -> T
	next    atomic.Uint64
}

// Register stores v and returns a fresh handle for it.
func (t *Table[T]) Register(v T) Handle {
	h := Handle(t.next.Add(1))
	t.entries.Store(h, v)
	return h
}

// Resolve returns the value behind h.
func (t *Table[T]) Resolve(h Handle) (T, error) {
	v, ok := t.entries.Load(h)
	if !ok {
		var zero T
		return zero, ErrUnknownHandle
	}
	return v.(T), nil
}

// Release drops h. Releasing an unknown handle is a no-op.
func (t *Table[T]) Release(h Handle) {
	t.entries.Delete(h)
}

// Len returns the number of live handles.
func (t *Table[T]) Len() int {
	n := 0
	t.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
