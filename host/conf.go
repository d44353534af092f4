package host

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/utkarsh5026/poolboot/internal/backoff"
	"github.com/utkarsh5026/poolboot/pool"
)

// Loader prepares a new context to run image before it joins the pool.
type Loader func(ctx context.Context, index int, image pool.ModuleImage) error

// Option is a functional option for configuring Goroutines.
type Option func(*config)

type config struct {
	logger   *zap.Logger
	limiter  *rate.Limiter
	pin      bool
	loader   Loader
	attempts int
	backoff  backoff.Strategy
	onSpawn  func(index int, image pool.ModuleImage)
}

func newConfig(opts ...Option) *config {
	cfg := &config{
		logger:   zap.NewNop(),
		attempts: 1,
		backoff:  backoff.New(backoff.Exponential, 10*time.Millisecond, time.Second, 0),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithLogger sets the logger for context lifecycle events.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithPinning binds each context's OS thread to core index mod NumCPU.
// Pinning failures are logged and the context runs unbound.
func WithPinning(enabled bool) Option {
	return func(cfg *config) {
		cfg.pin = enabled
	}
}

// WithSpawnRate limits how fast contexts are created.
// If not specified, no rate limiting is applied.
//
// Example:
//
//	WithSpawnRate(100, 8) // 100 contexts/sec with burst of 8
func WithSpawnRate(perSecond float64, burst int) Option {
	return func(cfg *config) {
		if perSecond > 0 && burst > 0 {
			cfg.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
		}
	}
}

// WithLoader runs fn inside each new context before it resolves its handle.
func WithLoader(fn Loader) Option {
	return func(cfg *config) {
		cfg.loader = fn
	}
}

// WithLoadRetry retries a failing loader up to attempts times, waiting
// according to kind between attempts.
func WithLoadRetry(attempts int, kind backoff.Kind, initial, maxDelay time.Duration) Option {
	return func(cfg *config) {
		if attempts > 0 {
			cfg.attempts = attempts
			cfg.backoff = backoff.New(kind, initial, maxDelay, 0.2)
		}
	}
}

// WithOnSpawn is called once a context is ready to receive its startup task.
func WithOnSpawn(fn func(index int, image pool.ModuleImage)) Option {
	return func(cfg *config) {
		cfg.onSpawn = fn
	}
}
