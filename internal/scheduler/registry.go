package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
)

var generations atomic.Int64

// registry is the state shared by every thread of one pool.
type registry struct {
	generation int64
	threads    []*workerThread
	injector   *injector
	wake       *wakeSignal
	jobIDs     atomic.Int64

	quit     chan struct{}
	quitOnce sync.Once

	entered atomic.Int64
	started chan struct{}
	exited  atomic.Int64
	done    chan struct{}

	startHandler func(index int)
	exitHandler  func(index int)
	panicHandler func(recovered any)
}

func newRegistry(b *Builder, n int) *registry {
	r := &registry{
		generation:   generations.Add(1),
		threads:      make([]*workerThread, n),
		injector:     newInjector(),
		wake:         newWakeSignal(n),
		quit:         make(chan struct{}),
		started:      make(chan struct{}),
		done:         make(chan struct{}),
		startHandler: b.startHandler,
		exitHandler:  b.exitHandler,
		panicHandler: b.panicHandler,
	}

	for i := range n {
		r.threads[i] = &workerThread{
			index:    i,
			registry: r,
			deque:    newWSDeque(defaultLocalQueueCapacity),
		}
	}
	return r
}

func (r *registry) numThreads() int { return len(r.threads) }

func (r *registry) nextJobID() int64 { return r.jobIDs.Add(1) }

// inject queues work from outside the pool and wakes a sleeper.
func (r *registry) inject(j *job) {
	r.injector.Push(j)
	r.wake.Signal()
}

func (r *registry) terminate() {
	r.quitOnce.Do(func() {
		debugLog("pool %d: terminate requested", r.generation)
		close(r.quit)
		r.wake.Close()
	})
}

func (r *registry) terminating() bool {
	select {
	case <-r.quit:
		return true
	default:
		return false
	}
}

func (r *registry) threadEntered() {
	if r.entered.Add(1) == int64(len(r.threads)) {
		close(r.started)
	}
}

func (r *registry) threadExited() {
	if r.exited.Add(1) == int64(len(r.threads)) {
		close(r.done)
	}
}

// workerFrom returns the thread of this registry executing under ctx, if any.
func (r *registry) workerFrom(ctx context.Context) *workerThread {
	w, ok := ctx.Value(workerKey{}).(*workerThread)
	if !ok || w.registry != r {
		return nil
	}
	return w
}

// wakeSignal wakes idle workers. Signals are dropped rather than blocking
// when every slot is already pending.
type wakeSignal struct {
	mu     sync.RWMutex
	sig    chan struct{}
	closed bool
}

func newWakeSignal(size int) *wakeSignal {
	return &wakeSignal{sig: make(chan struct{}, max(size, 1))}
}

func (ws *wakeSignal) Signal() {
	ws.mu.RLock()
	defer ws.mu.RUnlock()

	if ws.closed {
		return
	}
	select {
	case ws.sig <- struct{}{}:
	default:
	}
}

// Close wakes every waiter permanently. Safe to call more than once.
func (ws *wakeSignal) Close() {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if !ws.closed {
		ws.closed = true
		close(ws.sig)
	}
}

func (ws *wakeSignal) Wait() <-chan struct{} {
	return ws.sig
}
