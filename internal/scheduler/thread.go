package scheduler

import (
	"fmt"
	"sync/atomic"
)

// ThreadBuilder is the startup task for one pool thread. The pool produces
// exactly one per thread and hands it to the spawn handler; whoever receives
// it becomes that thread by calling Run.
type ThreadBuilder struct {
	index    int
	name     string
	thread   *workerThread
	consumed atomic.Bool
}

// Index returns the thread's position in the pool, in [0, NumThreads).
func (t *ThreadBuilder) Index() int { return t.index }

// Name returns the name assigned by the builder's ThreadName function, or "".
func (t *ThreadBuilder) Name() string { return t.name }

// Generation identifies the pool this task belongs to.
func (t *ThreadBuilder) Generation() int64 { return t.thread.registry.generation }

// Run enters the pool's main loop on the calling goroutine. It returns only
// after the pool has been shut down. Running the same task twice panics.
func (t *ThreadBuilder) Run() {
	if !t.consumed.CompareAndSwap(false, true) {
		panic(fmt.Errorf("%w: thread %d of pool %d", ErrStartupTaskConsumed, t.index, t.Generation()))
	}
	t.thread.mainLoop()
}

func (t *ThreadBuilder) String() string {
	if t.name != "" {
		return fmt.Sprintf("%s (#%d)", t.name, t.index)
	}
	return fmt.Sprintf("thread #%d", t.index)
}
