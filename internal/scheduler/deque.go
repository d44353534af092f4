package scheduler

import (
	"sync/atomic"
)

const defaultLocalQueueCapacity = 256

// dequeBuffer is one generation of the deque's ring. It is replaced as a
// whole on growth so a thief never pairs a ring with the wrong mask.
type dequeBuffer struct {
	ring []atomic.Pointer[job]
	mask int64
}

// wsDeque is a Chase-Lev work-stealing deque.
//
// Concurrency model:
//   - PushBack and PopBack are called only by the owning worker
//   - PopFront may be called concurrently by any number of thieves
//   - The last element is arbitrated between owner and thieves with a CAS on head
type wsDeque struct {
	buffer atomic.Pointer[dequeBuffer]

	_    [cacheLinePadding]byte
	head atomic.Int64
	_    [cacheLinePadding - 8]byte

	tail atomic.Int64
}

func newWSDeque(capacity int) *wsDeque {
	if capacity <= 0 {
		capacity = defaultLocalQueueCapacity
	}
	capacity = nextPowerOfTwo(capacity)

	dq := &wsDeque{}
	dq.buffer.Store(&dequeBuffer{
		ring: make([]atomic.Pointer[job], capacity),
		mask: int64(capacity - 1),
	})
	return dq
}

// PushBack adds j at the owner's end, growing the ring when full.
func (w *wsDeque) PushBack(j *job) {
	tail := w.tail.Load()
	head := w.head.Load()
	buf := w.buffer.Load()

	if tail-head >= int64(len(buf.ring)) {
		buf = w.grow(buf, head, tail)
	}

	buf.ring[tail&buf.mask].Store(j)
	w.tail.Store(tail + 1)
}

// grow doubles the ring. Owner only.
func (w *wsDeque) grow(old *dequeBuffer, head, tail int64) *dequeBuffer {
	newCap := len(old.ring) << 1
	buf := &dequeBuffer{
		ring: make([]atomic.Pointer[job], newCap),
		mask: int64(newCap - 1),
	}

	for i := head; i < tail; i++ {
		buf.ring[i&buf.mask].Store(old.ring[i&old.mask].Load())
	}

	w.buffer.Store(buf)
	return buf
}

// PopBack removes the most recently pushed job (LIFO). Owner only.
func (w *wsDeque) PopBack() *job {
	tail := w.tail.Load() - 1
	w.tail.Store(tail)

	head := w.head.Load()
	if head > tail {
		w.tail.Store(head)
		return nil
	}

	buf := w.buffer.Load()
	j := buf.ring[tail&buf.mask].Load()

	if head == tail {
		if !w.head.CompareAndSwap(head, head+1) {
			j = nil
		}
		w.tail.Store(head + 1)
	}

	return j
}

// PopFront removes the oldest job (FIFO). Safe for concurrent thieves; a lost
// race returns nil.
func (w *wsDeque) PopFront() *job {
	head := w.head.Load()
	tail := w.tail.Load()

	if head >= tail {
		return nil
	}

	buf := w.buffer.Load()
	j := buf.ring[head&buf.mask].Load()

	if !w.head.CompareAndSwap(head, head+1) {
		return nil
	}

	return j
}

// Len returns the approximate number of queued jobs.
func (w *wsDeque) Len() int {
	n := w.tail.Load() - w.head.Load()
	if n < 0 {
		return 0
	}
	return int(n)
}
