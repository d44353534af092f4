package pool

import (
	"context"

	"github.com/utkarsh5026/poolboot/internal/scheduler"
	"github.com/utkarsh5026/poolboot/internal/types"
)

type (
	// ThreadPool is a running work-stealing pool.
	ThreadPool = scheduler.ThreadPool
	// ThreadStats is a snapshot of one pool thread's counters.
	ThreadStats = scheduler.ThreadStats
	// Slot holds at most one pool; the process-wide slot backs the helpers below.
	Slot = scheduler.Slot
)

// NewSlot returns an empty slot for use with WithSlot.
func NewSlot() *Slot {
	return scheduler.NewSlot()
}

// Current returns the process-wide pool, or nil before initialization.
func Current() *ThreadPool {
	return scheduler.Current()
}

func current() (*ThreadPool, error) {
	p := scheduler.Current()
	if p == nil {
		return nil, ErrNoGlobalPool
	}
	return p, nil
}

// Spawn queues fn on the process-wide pool.
func Spawn(ctx context.Context, fn types.Job) error {
	p, err := current()
	if err != nil {
		return err
	}
	return p.Spawn(ctx, fn)
}

// Join runs a and b on the process-wide pool, potentially in parallel.
func Join(ctx context.Context, a, b func(ctx context.Context) error) error {
	p, err := current()
	if err != nil {
		return err
	}
	return p.Join(ctx, a, b)
}

// Install runs fn on the process-wide pool and returns its result.
func Install[R any](ctx context.Context, fn func(ctx context.Context) (R, error)) (R, error) {
	p, err := current()
	if err != nil {
		var zero R
		return zero, err
	}
	return InstallOn(ctx, p, fn)
}

// InstallOn runs fn on p and returns its result. From a thread of p, fn runs
// inline.
func InstallOn[R any](ctx context.Context, p *ThreadPool, fn func(ctx context.Context) (R, error)) (R, error) {
	return scheduler.Install(ctx, p, fn)
}
