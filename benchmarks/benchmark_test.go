package benchmarks

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/utkarsh5026/poolboot/host"
	"github.com/utkarsh5026/poolboot/pool"
)

// =============================================================================
// Bootstrap
// =============================================================================

func BenchmarkBootstrap_WorkerScaling(b *testing.B) {
	for _, workers := range []int{1, 2, 4, 8, 16} {
		b.Run(fmt.Sprintf("workers_%d", workers), func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				h := host.New()
				slot := pool.NewSlot()
				if _, _, err := pool.InitThreadPool(context.Background(), h, workers, pool.WithSlot(slot)).Get(); err != nil {
					b.Fatal(err)
				}

				b.StopTimer()
				if err := slot.Pool().Shutdown(10 * time.Second); err != nil {
					b.Fatal(err)
				}
				h.Wait()
				b.StartTimer()
			}

			nsPerOp := float64(b.Elapsed().Nanoseconds()) / float64(b.N)
			b.ReportMetric(nsPerOp/float64(workers), "ns/worker")
		})
	}
}

func BenchmarkBootstrap_Pinned(b *testing.B) {
	const workers = 4
	for b.Loop() {
		h := host.New(host.WithPinning(true))
		slot := pool.NewSlot()
		if _, _, err := pool.InitThreadPool(context.Background(), h, workers, pool.WithSlot(slot)).Get(); err != nil {
			b.Fatal(err)
		}

		b.StopTimer()
		_ = slot.Pool().Shutdown(10 * time.Second)
		h.Wait()
		b.StartTimer()
	}
}

// =============================================================================
// Workloads on a booted pool
// =============================================================================

func bootPool(b *testing.B, workers int) *pool.ThreadPool {
	b.Helper()
	h := host.New()
	slot := pool.NewSlot()
	if _, _, err := pool.InitThreadPool(context.Background(), h, workers, pool.WithSlot(slot)).Get(); err != nil {
		b.Fatal(err)
	}
	p := slot.Pool()
	b.Cleanup(func() {
		_ = p.Shutdown(10 * time.Second)
		h.Wait()
	})
	<-p.Started()
	return p
}

func fib(ctx context.Context, p *pool.ThreadPool, n int) (int, error) {
	if n < 16 {
		return fibSeq(n), nil
	}
	var a, c int
	err := p.Join(ctx,
		func(ctx context.Context) (err error) { a, err = fib(ctx, p, n-1); return err },
		func(ctx context.Context) (err error) { c, err = fib(ctx, p, n-2); return err },
	)
	return a + c, err
}

func fibSeq(n int) int {
	if n < 2 {
		return n
	}
	return fibSeq(n-1) + fibSeq(n-2)
}

func BenchmarkJoin_Fib(b *testing.B) {
	for _, workers := range []int{1, 4, 8} {
		b.Run(fmt.Sprintf("workers_%d", workers), func(b *testing.B) {
			p := bootPool(b, workers)
			ctx := context.Background()

			for b.Loop() {
				got, err := pool.Install(ctx, func(ctx context.Context) (int, error) {
					return fib(ctx, p, 27)
				})
				if err != nil {
					b.Fatal(err)
				}
				if got != 196418 {
					b.Fatalf("fib(27) = %d", got)
				}
			}
		})
	}
}

func BenchmarkSpawn_Throughput(b *testing.B) {
	const taskCount = 10000
	p := bootPool(b, 8)
	ctx := context.Background()

	for b.Loop() {
		var done atomic.Int64
		finished := make(chan struct{})
		for range taskCount {
			err := p.Spawn(ctx, func(ctx context.Context) {
				if done.Add(1) == taskCount {
					close(finished)
				}
			})
			if err != nil {
				b.Fatal(err)
			}
		}
		<-finished
	}

	nsPerOp := float64(b.Elapsed().Nanoseconds()) / float64(b.N)
	b.ReportMetric(float64(taskCount)/nsPerOp*1e9, "tasks/sec")
}
