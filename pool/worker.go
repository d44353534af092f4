package pool

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/utkarsh5026/poolboot/internal/handoff"
)

// WorkerOption configures a StartWorker call.
type WorkerOption func(*workerConfig)

type workerConfig struct {
	onReady func()
}

// OnReady registers fn to run once the handle has been resolved, right
// before the worker blocks for its startup task. Hosts use it to report the
// context as spawned.
func OnReady(fn func()) WorkerOption {
	return func(cfg *workerConfig) {
		cfg.onReady = fn
	}
}

// StartWorker is the entry procedure of a host-spawned worker context. It
// resolves h, blocks until exactly one startup task arrives and runs it,
// which enters the pool's main loop on the calling goroutine.
//
// It returns nil only after the pool has shut down. It fails with
// ErrStaleHandle if h does not refer to a live builder and with ErrNoTask if
// the builder's channel closes with no task left for this worker. Either way
// the worker has no role to play and its context should terminate.
func StartWorker(h Handle, opts ...WorkerOption) error {
	var cfg workerConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	ep, err := endpoints.Resolve(h)
	if err != nil {
		return fmt.Errorf("%w: handle %d", ErrStaleHandle, h)
	}

	if cfg.onReady != nil {
		cfg.onReady()
	}

	ep.logger.Debug("worker waiting for startup task", zap.Uint64("handle", uint64(h)))
	ep.metrics.WorkerWaiting(1)
	task, err := ep.receiver.Recv()
	ep.metrics.WorkerWaiting(-1)

	if err != nil {
		ep.metrics.WorkerFailed("no_task")
		ep.logger.Error("worker terminating without a startup task",
			zap.Uint64("handle", uint64(h)), zap.Error(err))
		if errors.Is(err, handoff.ErrDisconnected) {
			return fmt.Errorf("%w: %w", ErrNoTask, err)
		}
		return err
	}

	ep.metrics.TaskReceived()
	ep.logger.Debug("worker entering pool main loop",
		zap.Int("thread", task.Index()),
		zap.Int64("generation", task.Generation()),
	)
	task.Run()
	return nil
}

// MustStartWorker is StartWorker for contexts that cannot report an error:
// any failure panics.
func MustStartWorker(h Handle, opts ...WorkerOption) {
	if err := StartWorker(h, opts...); err != nil {
		panic(err)
	}
}
