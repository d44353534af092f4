package handoff

import (
	"errors"
	"sync"
	"sync/atomic"
)

var (
	ErrZeroCapacity = errors.New("handoff: capacity must be greater than zero")
	ErrFull         = errors.New("handoff: channel is full")
	ErrDisconnected = errors.New("handoff: channel is empty and disconnected")
)

// channel is the state shared by the two ends.
type channel[T any] struct {
	items    chan T
	mu       sync.RWMutex
	closed   bool
	sent     atomic.Int64
	received atomic.Int64
	waiting  atomic.Int64
}

// Sender is the producing end of a bounded channel.
type Sender[T any] struct {
	ch *channel[T]
}

// Receiver is the consuming end. It may be shared by reference between any
// number of goroutines; every item is delivered to exactly one of them.
type Receiver[T any] struct {
	ch *channel[T]
}

// New creates a bounded channel with the given capacity.
func New[T any](capacity int) (*Sender[T], *Receiver[T], error) {
	if capacity <= 0 {
		return nil, nil, ErrZeroCapacity
	}

	ch := &channel[T]{items: make(chan T, capacity)}
	return &Sender[T]{ch: ch}, &Receiver[T]{ch: ch}, nil
}

// Send enqueues v without blocking. It fails with ErrDisconnected after Close
// and with ErrFull when the buffer has no room left.
func (s *Sender[T]) Send(v T) error {
	s.ch.mu.RLock()
	defer s.ch.mu.RUnlock()

	if s.ch.closed {
		return ErrDisconnected
	}

	select {
	case s.ch.items <- v:
		s.ch.sent.Add(1)
		return nil
	default:
		return ErrFull
	}
}

// Close disconnects the sender. Items already buffered remain receivable.
// Calling Close more than once is a no-op.
func (s *Sender[T]) Close() {
	s.ch.mu.Lock()
	defer s.ch.mu.Unlock()

	if s.ch.closed {
		return
	}
	s.ch.closed = true
	close(s.ch.items)
}

// Cap returns the fixed capacity.
func (s *Sender[T]) Cap() int { return cap(s.ch.items) }

// Sent returns the number of items successfully sent so far.
func (s *Sender[T]) Sent() int64 { return s.ch.sent.Load() }

// Recv blocks until an item is available. Once the sender is closed and the
// buffer is drained it returns ErrDisconnected.
func (r *Receiver[T]) Recv() (T, error) {
	r.ch.waiting.Add(1)
	defer r.ch.waiting.Add(-1)

	v, ok := <-r.ch.items
	if !ok {
		return v, ErrDisconnected
	}
	r.ch.received.Add(1)
	return v, nil
}

// Len returns the number of buffered items.
func (r *Receiver[T]) Len() int { return len(r.ch.items) }

// Received returns the number of items taken off the channel so far.
func (r *Receiver[T]) Received() int64 { return r.ch.received.Load() }

// Waiting returns the number of goroutines currently blocked in Recv.
func (r *Receiver[T]) Waiting() int { return int(r.ch.waiting.Load()) }
