// Package host creates worker contexts for pool.InitThreadPool inside the
// current process. Each context is a goroutine locked to its own OS thread.
package host

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/utkarsh5026/poolboot/internal/backoff"
	"github.com/utkarsh5026/poolboot/internal/cpu"
	"github.com/utkarsh5026/poolboot/pool"
)

// Failure describes a context that terminated without serving the pool.
type Failure struct {
	Index int
	Err   error
}

func (f Failure) Error() string {
	return fmt.Sprintf("worker context %d: %v", f.Index, f.Err)
}

func (f Failure) Unwrap() error { return f.Err }

// Goroutines implements pool.Spawner.
type Goroutines struct {
	cfg *config

	wg      sync.WaitGroup
	next    atomic.Int64
	running atomic.Int64

	mu       sync.Mutex
	failures []Failure
}

var _ pool.Spawner = (*Goroutines)(nil)

// New creates a host with the given options.
func New(opts ...Option) *Goroutines {
	return &Goroutines{cfg: newConfig(opts...)}
}

// SpawnWorker starts a context that loads image and bootstraps through h.
// It returns once the context is waiting for its startup task, or with the
// error that stopped it from getting there.
func (g *Goroutines) SpawnWorker(ctx context.Context, image pool.ModuleImage, h pool.Handle) error {
	if g.cfg.limiter != nil {
		if err := g.cfg.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("host: waiting to spawn: %w", err)
		}
	}

	index := int(g.next.Add(1) - 1)
	ready := make(chan error, 1)

	g.wg.Add(1)
	go g.run(ctx, index, image, h, ready)

	select {
	case err := <-ready:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the body of one context. ctx is only used while loading.
func (g *Goroutines) run(ctx context.Context, index int, image pool.ModuleImage, h pool.Handle, ready chan<- error) {
	defer g.wg.Done()

	logger := g.cfg.logger.With(zap.Int("context", index))
	report := func(err error) {
		select {
		case ready <- err:
		default:
		}
	}

	pinned := g.bind(index, logger)
	defer pinned.Release()

	g.running.Add(1)
	defer g.running.Add(-1)

	if g.cfg.loader != nil {
		err := backoff.Retry(ctx, g.cfg.attempts, g.cfg.backoff, func(attempt int) error {
			err := g.cfg.loader(ctx, index, image)
			if err != nil {
				logger.Warn("module load failed", zap.Int("attempt", attempt), zap.Error(err))
			}
			return err
		})
		if err != nil {
			err = fmt.Errorf("host: loading %s: %w", image.Name, err)
			g.fail(index, err)
			report(err)
			return
		}
	}

	onReady := func() {
		logger.Debug("worker context ready", zap.Int("core", pinned.Core()))
		if g.cfg.onSpawn != nil {
			g.cfg.onSpawn(index, image)
		}
		report(nil)
	}

	if err := pool.StartWorker(h, pool.OnReady(onReady)); err != nil {
		logger.Error("worker context terminated", zap.Error(err))
		g.fail(index, err)
		report(err)
		return
	}
	logger.Debug("worker context exited")
}

func (g *Goroutines) bind(index int, logger *zap.Logger) *cpu.Pinned {
	if !g.cfg.pin {
		return cpu.Lock()
	}

	pinned, err := cpu.Pin(index)
	switch {
	case errors.Is(err, cpu.ErrUnsupported):
		logger.Debug("thread pinning unavailable")
	case err != nil:
		logger.Warn("thread pinning failed", zap.Error(err))
	}
	return pinned
}

func (g *Goroutines) fail(index int, err error) {
	g.mu.Lock()
	g.failures = append(g.failures, Failure{Index: index, Err: err})
	g.mu.Unlock()
}

// Spawned returns the number of contexts created so far.
func (g *Goroutines) Spawned() int {
	return int(g.next.Load())
}

// Running returns the number of contexts that have not exited.
func (g *Goroutines) Running() int {
	return int(g.running.Load())
}

// Wait blocks until every context has exited.
func (g *Goroutines) Wait() {
	g.wg.Wait()
}

// Failures returns the contexts that terminated with an error, in the order
// they failed.
func (g *Goroutines) Failures() []Failure {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Failure(nil), g.failures...)
}
