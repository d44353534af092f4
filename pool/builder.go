package pool

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/utkarsh5026/poolboot/internal/handoff"
	"github.com/utkarsh5026/poolboot/internal/scheduler"
	"github.com/utkarsh5026/poolboot/metrics"
)

// Handle is an opaque reference to a builder's receiving end that can be
// passed to another execution context as a plain integer.
type Handle = handoff.Handle

// endpoint is what a Handle resolves to.
type endpoint struct {
	receiver *handoff.Receiver[*scheduler.ThreadBuilder]
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

// endpoints is the process-wide handle table. Entries are registered by
// NewPoolBuilder and dropped by Release or Abort.
var endpoints handoff.Table[*endpoint]

// PoolBuilder coordinates one pool initialization: it owns the delivery
// channel, knows how many workers to expect and, once they are all waiting,
// constructs the pool so that each of them receives one startup task.
//
// A PoolBuilder is used by a single initiator. Its handle may be resolved
// concurrently by any number of workers until Release.
type PoolBuilder struct {
	mu         sync.Mutex
	numThreads int
	sender     *handoff.Sender[*scheduler.ThreadBuilder]
	receiver   *handoff.Receiver[*scheduler.ThreadBuilder]
	handle     Handle
	conf       *config
	pool       *ThreadPool
	built      bool
	aborted    bool
}

// NewPoolBuilder creates a builder for numThreads workers. The delivery
// channel is allocated with exactly numThreads slots.
//
// Returns:
//   - *PoolBuilder: The builder, with its handle already resolvable
//   - error: A *ConfigError wrapping ErrZeroThreads when numThreads <= 0
func NewPoolBuilder(numThreads int, opts ...Option) (*PoolBuilder, error) {
	if numThreads <= 0 {
		return nil, &ConfigError{Op: "new pool builder", Err: ErrZeroThreads}
	}

	cfg := newConfig(opts...)
	sender, receiver, err := handoff.New[*scheduler.ThreadBuilder](numThreads)
	if err != nil {
		return nil, &ConfigError{Op: "new pool builder", Err: err}
	}

	b := &PoolBuilder{
		numThreads: numThreads,
		sender:     sender,
		receiver:   receiver,
		conf:       cfg,
	}
	b.handle = endpoints.Register(&endpoint{
		receiver: receiver,
		logger:   cfg.logger,
		metrics:  cfg.metrics,
	})

	cfg.metrics.BuilderCreated()
	cfg.logger.Debug("pool builder created",
		zap.Int("threads", numThreads),
		zap.Uint64("handle", uint64(b.handle)),
		zap.String("image", cfg.image.Name),
	)
	return b, nil
}

// NumThreads returns the number of workers the builder expects.
func (b *PoolBuilder) NumThreads() int {
	return b.numThreads
}

// Receiver returns the handle workers pass to StartWorker. It resolves until
// Release or Abort is called.
func (b *PoolBuilder) Receiver() Handle {
	return b.handle
}

// MainModule returns the image reference the host loads into each worker.
func (b *PoolBuilder) MainModule() ModuleImage {
	return b.conf.image
}

// Pool returns the constructed pool, or nil before a successful Build.
func (b *PoolBuilder) Pool() *ThreadPool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pool
}

// Build finishes construction. It builds the thread pool into the configured
// slot with a spawn handler that sends each startup task on the delivery
// channel, then closes the sending end.
//
// All NumThreads workers must already be spawned and waiting on the handle;
// that ordering is the caller's contract. A send that cannot be delivered
// means the contract was broken and panics with ErrHandoffFailed.
//
// Returns:
//   - error: ErrAlreadyBuilt, ErrBuilderAborted, or a *ConfigError wrapping
//     ErrGlobalPoolAlreadyInitialized
func (b *PoolBuilder) Build() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case b.built:
		return ErrAlreadyBuilt
	case b.aborted:
		return ErrBuilderAborted
	}

	m, logger := b.conf.metrics, b.conf.logger
	sb := scheduler.NewBuilder().
		NumThreads(b.numThreads).
		ThreadName(b.conf.threadName).
		PanicHandler(b.conf.panicHandler).
		StartHandler(b.conf.startHandler).
		ExitHandler(b.conf.exitHandler).
		SpawnHandler(func(t *scheduler.ThreadBuilder) error {
			if err := b.sender.Send(t); err != nil {
				panic(fmt.Errorf("%w: %s: %w", ErrHandoffFailed, t, err))
			}
			m.TaskSent()
			return nil
		})

	if err := sb.BuildInto(b.conf.slot); err != nil {
		m.BuildFinished(metrics.OutcomeFailure)
		logger.Error("thread pool construction failed", zap.Error(err))
		if errors.Is(err, scheduler.ErrGlobalPoolAlreadyInitialized) {
			return &ConfigError{Op: "build thread pool", Err: err}
		}
		return err
	}

	b.built = true
	b.pool = b.conf.slot.Pool()
	b.sender.Close()

	m.BuildFinished(metrics.OutcomeSuccess)
	logger.Info("thread pool constructed",
		zap.Int("threads", b.numThreads),
		zap.Int64("generation", b.pool.Generation()),
		zap.Int64("tasks_sent", b.sender.Sent()),
	)
	return nil
}

// Release drops the handle. Call it once every worker has resolved its
// handle; later StartWorker calls with it fail with ErrStaleHandle. Tasks
// still buffered when the handle is released can no longer be received and
// their threads never start.
func (b *PoolBuilder) Release() {
	endpoints.Release(b.handle)
}

// Abort abandons construction: the sending end is closed so waiting workers
// fail with ErrNoTask, and the handle is released. Abort after a successful
// Build only releases the handle.
func (b *PoolBuilder) Abort() {
	b.mu.Lock()
	if !b.built && !b.aborted {
		b.aborted = true
		b.sender.Close()
		b.conf.metrics.BuildFinished(metrics.OutcomeAborted)
		b.conf.logger.Warn("pool builder aborted", zap.Uint64("handle", uint64(b.handle)))
	}
	b.mu.Unlock()

	b.Release()
}

// Pending returns the number of startup tasks sent but not yet taken by a
// worker.
func (b *PoolBuilder) Pending() int {
	return b.receiver.Len()
}

// Waiting returns the number of workers currently blocked on the handle.
func (b *PoolBuilder) Waiting() int {
	return b.receiver.Waiting()
}
