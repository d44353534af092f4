package scheduler

import (
	"sync"
	"sync/atomic"

	"github.com/eapache/queue"
)

// injector is the shared FIFO through which work enters the pool from
// goroutines that are not pool threads.
type injector struct {
	mu   sync.Mutex
	q    *queue.Queue
	size atomic.Int64
}

func newInjector() *injector {
	return &injector{q: queue.New()}
}

func (in *injector) Push(j *job) {
	in.mu.Lock()
	in.q.Add(j)
	in.size.Add(1)
	in.mu.Unlock()
}

// Pop returns the oldest job or nil. The size check keeps idle workers off
// the mutex.
func (in *injector) Pop() *job {
	if in.size.Load() == 0 {
		return nil
	}

	in.mu.Lock()
	defer in.mu.Unlock()

	if in.q.Length() == 0 {
		return nil
	}
	in.size.Add(-1)
	return in.q.Remove().(*job)
}

func (in *injector) Len() int {
	return int(in.size.Load())
}
