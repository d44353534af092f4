package pool

import (
	"go.uber.org/zap"

	"github.com/utkarsh5026/poolboot/internal/scheduler"
	"github.com/utkarsh5026/poolboot/metrics"
)

// Option is a functional option for configuring a PoolBuilder.
type Option func(*config)

type config struct {
	logger       *zap.Logger
	metrics      *metrics.Metrics
	image        ModuleImage
	imageSet     bool
	slot         *Slot
	threadName   func(index int) string
	panicHandler func(recovered any)
	startHandler func(index int)
	exitHandler  func(index int)
}

func newConfig(opts ...Option) *config {
	cfg := &config{
		logger: zap.NewNop(),
		slot:   scheduler.Global(),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if !cfg.imageSet {
		cfg.image = DefaultModuleImage()
	}
	return cfg
}

// WithLogger sets the logger used by the builder and by every worker
// bootstrapped through its handle. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithMetrics records handoff activity into m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(cfg *config) {
		cfg.metrics = m
	}
}

// WithModuleImage sets the image reference handed to the host for each worker.
// If not specified, DefaultModuleImage is used.
func WithModuleImage(image ModuleImage) Option {
	return func(cfg *config) {
		cfg.image = image
		cfg.imageSet = true
	}
}

// WithSlot installs the built pool into slot instead of the process-wide one.
func WithSlot(slot *Slot) Option {
	return func(cfg *config) {
		if slot != nil {
			cfg.slot = slot
		}
	}
}

// WithThreadName names pool threads.
//
// Example:
//
//	WithThreadName(func(i int) string { return fmt.Sprintf("pool-%d", i) })
func WithThreadName(fn func(index int) string) Option {
	return func(cfg *config) {
		cfg.threadName = fn
	}
}

// WithPanicHandler receives panics recovered from spawned jobs.
func WithPanicHandler(fn func(recovered any)) Option {
	return func(cfg *config) {
		cfg.panicHandler = fn
	}
}

// WithStartHandler is called on each pool thread, with its index, as the
// thread enters the main loop.
func WithStartHandler(fn func(index int)) Option {
	return func(cfg *config) {
		cfg.startHandler = fn
	}
}

// WithExitHandler is called on each pool thread as it leaves the main loop.
func WithExitHandler(fn func(index int)) Option {
	return func(cfg *config) {
		cfg.exitHandler = fn
	}
}
