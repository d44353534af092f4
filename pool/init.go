package pool

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/utkarsh5026/poolboot/internal/types"
)

// Spawner is the host collaborator that creates worker contexts.
type Spawner interface {
	// SpawnWorker creates one worker context loaded with image and arranges
	// for it to call StartWorker(h). It returns once the context has resolved
	// h and is ready to receive its startup task.
	SpawnWorker(ctx context.Context, image ModuleImage, h Handle) error
}

// SpawnerFunc adapts a function to the Spawner interface.
type SpawnerFunc func(ctx context.Context, image ModuleImage, h Handle) error

func (f SpawnerFunc) SpawnWorker(ctx context.Context, image ModuleImage, h Handle) error {
	return f(ctx, image, h)
}

// InitFuture completes when InitThreadPool finishes. Its value is the number
// of threads and its key is the pool's generation.
type InitFuture = types.Future[int, int64]

// InitThreadPool initializes a pool of numThreads workers whose contexts are
// created by spawner. It returns immediately; the future resolves after the
// pool has been constructed, or with the first error.
//
// ctx bounds the spawning phase only. If any spawn fails the builder is
// aborted and contexts that were already waiting terminate with ErrNoTask.
//
// Example:
//
//	future := pool.InitThreadPool(ctx, host.New(), runtime.NumCPU())
//	if _, _, err := future.Get(); err != nil {
//	    log.Fatal(err)
//	}
//	sum, err := pool.Install(ctx, func(ctx context.Context) (int, error) { ... })
func InitThreadPool(ctx context.Context, spawner Spawner, numThreads int, opts ...Option) *InitFuture {
	future := types.NewFuture[int, int64]()

	b, err := NewPoolBuilder(numThreads, opts...)
	if err != nil {
		future.Resolve(0, 0, err)
		return future
	}

	go func() {
		generation, err := b.start(ctx, spawner)
		if err != nil {
			future.Resolve(0, 0, err)
			return
		}
		future.Resolve(numThreads, generation, nil)
	}()

	return future
}

// start asks the host for every worker, then finishes construction.
func (b *PoolBuilder) start(ctx context.Context, spawner Spawner) (int64, error) {
	g, gctx := errgroup.WithContext(ctx)
	image, handle := b.MainModule(), b.Receiver()

	for i := range b.numThreads {
		g.Go(func() error {
			if err := spawner.SpawnWorker(gctx, image, handle); err != nil {
				return fmt.Errorf("spawning worker %d: %w", i, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		b.Abort()
		return 0, err
	}

	if err := b.Build(); err != nil {
		b.Abort()
		return 0, err
	}
	b.Release()

	return b.Pool().Generation(), nil
}
