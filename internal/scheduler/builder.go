package scheduler

import (
	"fmt"
	"runtime"
)

// SpawnHandler receives each startup task produced while a pool is built.
// It is responsible for arranging that the task's Run is eventually called
// on its own goroutine. A returned error aborts the build.
type SpawnHandler func(t *ThreadBuilder) error

// Builder configures and constructs a ThreadPool.
//
// Example:
//
//	pool, err := scheduler.NewBuilder().
//	    NumThreads(4).
//	    ThreadName(func(i int) string { return fmt.Sprintf("worker-%d", i) }).
//	    Build()
type Builder struct {
	numThreads   int
	threadName   func(index int) string
	spawnHandler SpawnHandler
	startHandler func(index int)
	exitHandler  func(index int)
	panicHandler func(recovered any)
}

// NewBuilder returns a Builder with default settings: GOMAXPROCS threads,
// each started on a fresh goroutine.
func NewBuilder() *Builder {
	return &Builder{}
}

// NumThreads sets the number of pool threads. Zero or less selects
// runtime.GOMAXPROCS(0).
func (b *Builder) NumThreads(n int) *Builder {
	b.numThreads = n
	return b
}

// ThreadName sets the naming function for pool threads.
func (b *Builder) ThreadName(fn func(index int) string) *Builder {
	b.threadName = fn
	return b
}

// SpawnHandler replaces the default of running each startup task on a new
// goroutine.
func (b *Builder) SpawnHandler(fn SpawnHandler) *Builder {
	b.spawnHandler = fn
	return b
}

// StartHandler is called on each thread when it enters the main loop.
func (b *Builder) StartHandler(fn func(index int)) *Builder {
	b.startHandler = fn
	return b
}

// ExitHandler is called on each thread as it leaves the main loop.
func (b *Builder) ExitHandler(fn func(index int)) *Builder {
	b.exitHandler = fn
	return b
}

// PanicHandler receives values recovered from panicking spawned jobs.
// Jobs whose result is awaited (Join, Install) report panics as errors instead.
func (b *Builder) PanicHandler(fn func(recovered any)) *Builder {
	b.panicHandler = fn
	return b
}

// Build creates the pool and passes one startup task per thread to the spawn
// handler, in index order. If the handler fails the partially built pool is
// terminated and the error returned.
func (b *Builder) Build() (*ThreadPool, error) {
	n := b.numThreads
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}

	spawn := b.spawnHandler
	if spawn == nil {
		spawn = func(t *ThreadBuilder) error {
			go t.Run()
			return nil
		}
	}

	reg := newRegistry(b, n)
	for i, thread := range reg.threads {
		t := &ThreadBuilder{index: i, thread: thread}
		if b.threadName != nil {
			t.name = b.threadName(i)
		}

		if err := spawn(t); err != nil {
			reg.terminate()
			return nil, fmt.Errorf("spawning %s: %w", t, err)
		}
	}

	return &ThreadPool{registry: reg}, nil
}

// BuildGlobal builds the pool and installs it as the process-wide pool.
// It fails with ErrGlobalPoolAlreadyInitialized, without invoking the spawn
// handler, if a global pool already exists.
func (b *Builder) BuildGlobal() error {
	return b.BuildInto(Global())
}

// BuildInto is BuildGlobal for an arbitrary slot.
func (b *Builder) BuildInto(slot *Slot) error {
	slot.mu.Lock()
	defer slot.mu.Unlock()

	if slot.pool != nil {
		return ErrGlobalPoolAlreadyInitialized
	}

	p, err := b.Build()
	if err != nil {
		return err
	}
	slot.pool = p
	return nil
}
