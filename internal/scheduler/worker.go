package scheduler

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"
	"time"
)

const (
	spinRounds     = 20
	yieldRounds    = 30
	minIdleSleep   = 50 * time.Microsecond
	maxIdleSleep   = 5 * time.Millisecond
	maxStealProbes = 8
)

type workerKey struct{}

// workerThread is one pool thread: its local deque plus counters.
type workerThread struct {
	index    int
	registry *registry
	deque    *wsDeque
	seed     atomic.Uint64

	executed atomic.Int64
	stolen   atomic.Int64
	panics   atomic.Int64
}

// mainLoop is the scheduler's event loop. It returns once the pool is
// terminated and no work is left for this thread to find.
func (w *workerThread) mainLoop() {
	r := w.registry
	ctx := context.WithValue(context.Background(), workerKey{}, w)

	debugLog("pool %d: thread %d entering main loop", r.generation, w.index)
	if r.startHandler != nil {
		r.startHandler(w.index)
	}
	r.threadEntered()

	defer func() {
		if r.exitHandler != nil {
			r.exitHandler(w.index)
		}
		debugLog("pool %d: thread %d exiting", r.generation, w.index)
		r.threadExited()
	}()

	missCount := 0
	for {
		if j := w.findWork(); j != nil {
			w.execute(ctx, j)
			missCount = 0
			continue
		}

		if r.terminating() {
			return
		}

		missCount++
		w.idle(missCount)
	}
}

// findWork follows local LIFO, then the injector, then stealing.
func (w *workerThread) findWork() *job {
	if j := w.deque.PopBack(); j != nil {
		return j
	}
	if j := w.registry.injector.Pop(); j != nil {
		return j
	}
	return w.steal()
}

// steal probes a bounded number of victims starting at a rotating offset,
// taking from the front of their deques.
func (w *workerThread) steal() *job {
	threads := w.registry.threads
	n := len(threads)
	if n <= 1 {
		return nil
	}

	probes := min(n-1, maxStealProbes)
	start := int(w.seed.Add(1) % uint64(n)) // #nosec G115 -- n is positive
	for i := range probes + 1 {
		victim := threads[(start+i)%n]
		if victim == w {
			continue
		}
		if j := victim.deque.PopFront(); j != nil {
			w.stolen.Add(1)
			return j
		}
	}
	return nil
}

func (w *workerThread) execute(ctx context.Context, j *job) {
	panicked, recovered := j.execute(ctx)
	w.executed.Add(1)

	if panicked {
		w.panics.Add(1)
		if j.done == nil && w.registry.panicHandler != nil {
			w.registry.panicHandler(recovered)
		}
	}
}

// idle backs off progressively:
//   - missCount 1-20: spin
//   - missCount 21-30: yield to the Go scheduler
//   - missCount 31+: sleep, doubling from 50µs up to 5ms, cut short by a wake-up
func (w *workerThread) idle(missCount int) {
	switch {
	case missCount <= spinRounds:
		return

	case missCount <= yieldRounds:
		runtime.Gosched()

	default:
		sleep := minIdleSleep
		for i := yieldRounds; i < missCount && sleep < maxIdleSleep; i++ {
			sleep *= 2
		}
		sleep = min(sleep, maxIdleSleep)

		timer := time.NewTimer(sleep)
		defer timer.Stop()

		select {
		case <-w.registry.wake.Wait():
		case <-w.registry.quit:
		case <-timer.C:
		}
	}
}

// join runs a on this thread while b is offered to thieves, then helps with
// other work until b has completed.
func (w *workerThread) join(ctx context.Context, a, b func(ctx context.Context) error) error {
	r := w.registry
	jb := newJob(r.nextJobID(), b, true)
	w.deque.PushBack(jb)
	r.wake.Signal()

	ja := newJob(r.nextJobID(), a, true)
	w.execute(ctx, ja)

	missCount := 0
	for !jb.finished() {
		if j := w.findWork(); j != nil {
			w.execute(ctx, j)
			missCount = 0
			continue
		}

		missCount++
		if missCount <= spinRounds {
			continue
		}

		timer := time.NewTimer(minIdleSleep)
		select {
		case <-jb.done:
		case <-timer.C:
		}
		timer.Stop()
	}

	return errors.Join(ja.err, jb.err)
}
