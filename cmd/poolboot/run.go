package main

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/utkarsh5026/poolboot/host"
	"github.com/utkarsh5026/poolboot/internal/config"
	"github.com/utkarsh5026/poolboot/internal/logging"
	"github.com/utkarsh5026/poolboot/metrics"
	"github.com/utkarsh5026/poolboot/pool"
)

// sequentialCutoff is the range size below which sum stops splitting.
const sequentialCutoff = 1024

type report struct {
	threads    int
	generation int64
	bootTime   time.Duration
	runTime    time.Duration
	sum        int64
	spawned    int64
	stats      []pool.ThreadStats
	failures   []host.Failure
}

func run(cfg config.Config, opts cliOptions) error {
	logger, err := logging.New(cfg.LogLevel, cfg.LogJSON, os.Stderr)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	reg := prometheus.NewRegistry()
	var m *metrics.Metrics
	if cfg.Metrics {
		if m, err = metrics.New(reg); err != nil {
			return fmt.Errorf("registering metrics: %w", err)
		}
	}

	var bar *progressbar.ProgressBar
	if !opts.ci {
		bar = progressbar.NewOptions(cfg.Workers,
			progressbar.OptionSetDescription("Spawning workers"),
			progressbar.OptionSetWidth(50),
			progressbar.OptionShowCount(),
			progressbar.OptionEnableColorCodes(!opts.plain),
			progressbar.OptionSetWriter(os.Stderr),
		)
	}

	hostOpts := []host.Option{
		host.WithLogger(logger.Named("host")),
		host.WithPinning(cfg.PinThreads),
		host.WithOnSpawn(func(index int, image pool.ModuleImage) {
			if bar != nil {
				_ = bar.Add(1)
			}
		}),
	}
	if cfg.SpawnRate > 0 {
		hostOpts = append(hostOpts, host.WithSpawnRate(cfg.SpawnRate, cfg.SpawnBurst))
	}
	h := host.New(hostOpts...)

	colorPrintLn(bold, "Booting thread pool...")
	start := time.Now()
	threads, generation, err := pool.InitThreadPool(context.Background(), h, cfg.Workers,
		pool.WithLogger(logger.Named("pool")),
		pool.WithMetrics(m),
		pool.WithThreadName(func(i int) string { return fmt.Sprintf("poolboot-%d", i) }),
		pool.WithPanicHandler(func(r any) {
			logger.Error("job panicked", zap.Any("recovered", r))
		}),
	).Get()
	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(os.Stderr)
	}
	if err != nil {
		h.Wait()
		return fmt.Errorf("initializing pool: %w", err)
	}

	p := pool.Current()
	select {
	case <-p.Started():
	case <-time.After(cfg.ShutdownTimeout):
		return fmt.Errorf("only %d of %d threads started", p.Running(), threads)
	}

	rep := report{threads: threads, generation: generation, bootTime: time.Since(start)}
	logger.Info("pool ready", zap.Int("threads", threads), zap.Duration("boot", rep.bootTime))

	start = time.Now()
	if rep.sum, rep.spawned, err = workload(p, cfg.Jobs); err != nil {
		return err
	}
	rep.runTime = time.Since(start)
	rep.stats = p.Stats()

	if err := p.Shutdown(cfg.ShutdownTimeout); err != nil {
		logger.Warn("pool shutdown incomplete", zap.Error(err))
	}
	h.Wait()
	rep.failures = h.Failures()

	renderReport(rep, int64(cfg.Jobs))
	if cfg.Metrics {
		return renderMetrics(reg)
	}
	return nil
}

// workload sums [0, n) with recursive Join and fans one Spawn out per
// thread.
func workload(p *pool.ThreadPool, n int) (sum, spawned int64, err error) {
	ctx := context.Background()

	sum, err = pool.InstallOn(ctx, p, func(ctx context.Context) (int64, error) {
		return parallelSum(ctx, p, 0, int64(n))
	})
	if err != nil {
		return 0, 0, fmt.Errorf("running workload: %w", err)
	}

	var count atomic.Int64
	done := make(chan struct{}, p.NumThreads())
	for range p.NumThreads() {
		if err := p.Spawn(ctx, func(ctx context.Context) {
			count.Add(1)
			done <- struct{}{}
		}); err != nil {
			return sum, count.Load(), err
		}
	}
	for range p.NumThreads() {
		<-done
	}
	return sum, count.Load(), nil
}

func parallelSum(ctx context.Context, p *pool.ThreadPool, lo, hi int64) (int64, error) {
	if hi-lo <= sequentialCutoff {
		var s int64
		for i := lo; i < hi; i++ {
			s += i
		}
		return s, nil
	}

	mid := lo + (hi-lo)/2
	var left, right int64
	err := p.Join(ctx,
		func(ctx context.Context) (err error) {
			left, err = parallelSum(ctx, p, lo, mid)
			return err
		},
		func(ctx context.Context) (err error) {
			right, err = parallelSum(ctx, p, mid, hi)
			return err
		},
	)
	return left + right, err
}
