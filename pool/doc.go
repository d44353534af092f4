// Package pool boots a work-stealing thread pool whose threads are execution
// contexts created by a host, for programs that cannot start their own.
//
// The initiator creates a PoolBuilder, asks the host for one worker context
// per thread and passes each of them the builder's Handle. Every worker calls
// StartWorker with that handle and blocks. Once all of them are waiting the
// initiator calls Build, which constructs the pool and hands exactly one
// startup task to each worker through a channel bounded to the thread count.
// Running the task turns the worker into a pool thread.
//
// # Basic Usage
//
// InitThreadPool performs the whole sequence given a Spawner:
//
//	future := pool.InitThreadPool(ctx, host.New(), 4)
//	threads, generation, err := future.Get()
//	if err != nil {
//	    return err
//	}
//
//	sum, err := pool.Install(ctx, func(ctx context.Context) (int, error) {
//	    var left, right int
//	    err := pool.Join(ctx,
//	        func(ctx context.Context) error { left = work(0, n/2); return nil },
//	        func(ctx context.Context) error { right = work(n/2, n); return nil },
//	    )
//	    return left + right, err
//	})
//
// # Manual Bootstrap
//
// Hosts with their own lifecycle drive the builder directly:
//
//	b, err := pool.NewPoolBuilder(n, pool.WithLogger(logger))
//	for range n {
//	    spawnContext(b.MainModule(), func() { pool.MustStartWorker(b.Receiver()) })
//	}
//	// ...wait until every context is blocked in StartWorker...
//	if err := b.Build(); err != nil {
//	    b.Abort()
//	    return err
//	}
//	b.Release()
//
// Build before every worker is waiting is still safe: startup tasks stay in
// the channel buffer until a worker takes them.
//
// # Errors
//
// Configuration problems are reported as *ConfigError. A worker whose handle
// is no longer registered fails with ErrStaleHandle; one that finds the
// channel closed and empty fails with ErrNoTask. A startup task that cannot be
// delivered during Build panics with ErrHandoffFailed.
package pool
