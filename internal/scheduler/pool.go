package scheduler

import (
	"context"
	"time"

	"github.com/utkarsh5026/poolboot/internal/types"
)

// ThreadPool is a running work-stealing pool.
type ThreadPool struct {
	registry *registry
}

// ThreadStats is a snapshot of one thread's counters.
type ThreadStats struct {
	Index    int
	Executed int64
	Stolen   int64
	Panics   int64
	Queued   int
}

// NumThreads returns the number of threads the pool was built with.
func (p *ThreadPool) NumThreads() int {
	return p.registry.numThreads()
}

// Generation is a process-unique identifier for this pool.
func (p *ThreadPool) Generation() int64 {
	return p.registry.generation
}

// Started returns a channel closed once every thread has entered its main
// loop. It stays open forever if some startup task is never run.
func (p *ThreadPool) Started() <-chan struct{} {
	return p.registry.started
}

// Running returns the number of threads that have entered the main loop.
func (p *ThreadPool) Running() int {
	return int(p.registry.entered.Load())
}

// Done returns a channel closed once every thread has left its main loop.
func (p *ThreadPool) Done() <-chan struct{} {
	return p.registry.done
}

// CurrentThreadIndex reports the index of the pool thread executing under ctx.
func (p *ThreadPool) CurrentThreadIndex(ctx context.Context) (int, bool) {
	w := p.registry.workerFrom(ctx)
	if w == nil {
		return 0, false
	}
	return w.index, true
}

// Spawn queues fn for asynchronous execution. Called from a pool thread the
// job lands on that thread's deque; otherwise it goes through the injector.
func (p *ThreadPool) Spawn(ctx context.Context, fn types.Job) error {
	r := p.registry
	if r.terminating() {
		return ErrSchedulerClosed
	}

	j := newJob(r.nextJobID(), func(ctx context.Context) error {
		fn(ctx)
		return nil
	}, false)

	if w := r.workerFrom(ctx); w != nil {
		w.deque.PushBack(j)
		r.wake.Signal()
		return nil
	}

	r.inject(j)
	return nil
}

// Join runs a and b, potentially in parallel, and returns once both have
// finished. Errors and recovered panics from either side are joined.
func (p *ThreadPool) Join(ctx context.Context, a, b func(ctx context.Context) error) error {
	if w := p.registry.workerFrom(ctx); w != nil {
		return w.join(ctx, a, b)
	}

	_, err := Install(ctx, p, func(ctx context.Context) (struct{}, error) {
		w := p.registry.workerFrom(ctx)
		return struct{}{}, w.join(ctx, a, b)
	})
	return err
}

// Install runs fn on the pool and waits for its result. From a pool thread
// fn runs inline. The wait honours ctx; fn itself keeps running if ctx is
// cancelled first.
func Install[R any](ctx context.Context, p *ThreadPool, fn func(ctx context.Context) (R, error)) (R, error) {
	r := p.registry
	if r.workerFrom(ctx) != nil {
		return fn(ctx)
	}

	var zero R
	if r.terminating() {
		return zero, ErrSchedulerClosed
	}

	future := types.NewFuture[R, int64]()
	id := r.nextJobID()
	j := newJob(id, func(ctx context.Context) error {
		value, err := fn(ctx)
		future.Resolve(value, id, err)
		return err
	}, true)

	r.inject(j)

	select {
	case <-j.done:
		if j.err != nil && !future.IsReady() {
			// fn panicked before resolving
			return zero, j.err
		}
		value, _, err := future.Get()
		return value, err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Stats returns per-thread counters.
func (p *ThreadPool) Stats() []ThreadStats {
	stats := make([]ThreadStats, len(p.registry.threads))
	for i, w := range p.registry.threads {
		stats[i] = ThreadStats{
			Index:    w.index,
			Executed: w.executed.Load(),
			Stolen:   w.stolen.Load(),
			Panics:   w.panics.Load(),
			Queued:   w.deque.Len(),
		}
	}
	return stats
}

// Terminate asks every thread to finish its remaining work and exit.
// It does not wait.
func (p *ThreadPool) Terminate() {
	p.registry.terminate()
}

// Shutdown terminates the pool and waits for its threads to exit.
//
// Parameters:
//   - timeout: Maximum duration to wait (0 = wait forever)
//
// Returns:
//   - error: ErrShutdownTimeout if threads are still running after timeout
func (p *ThreadPool) Shutdown(timeout time.Duration) error {
	p.registry.terminate()
	return waitUntil(p.registry.done, timeout)
}
