package pool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestInitThreadPool_EndToEnd(t *testing.T) {
	const n = 4
	slot := NewSlot()
	spawner := &goroutineSpawner{}

	var entered atomic.Int64
	future := InitThreadPool(context.Background(), spawner, n,
		WithSlot(slot),
		WithModuleImage(ModuleImage{Name: "test-image"}),
	)

	threads, generation, err := future.GetWithTimeout(testTimeout)
	if err != nil {
		t.Fatalf("InitThreadPool: %v", err)
	}
	if threads != n {
		t.Errorf("threads = %d, want %d", threads, n)
	}

	p := slot.Pool()
	if p == nil {
		t.Fatal("slot is empty after initialization")
	}
	if p.Generation() != generation {
		t.Errorf("generation = %d, want %d", generation, p.Generation())
	}
	waitClosed(t, "all four workers to enter their loops", p.Started())

	for _, image := range spawner.images {
		if image.Name != "test-image" {
			t.Errorf("spawner received image %q", image.Name)
		}
	}

	err = p.Join(context.Background(),
		func(ctx context.Context) error { entered.Add(1); return nil },
		func(ctx context.Context) error { entered.Add(1); return nil },
	)
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if entered.Load() != 2 {
		t.Errorf("join ran %d closures, want 2", entered.Load())
	}

	if err := p.Shutdown(testTimeout); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	spawner.wg.Wait()
	if errs := spawner.failures(); len(errs) != 0 {
		t.Errorf("workers failed: %v", errs)
	}
}

func TestInitThreadPool_ZeroThreads(t *testing.T) {
	var calls atomic.Int64
	spawner := SpawnerFunc(func(ctx context.Context, image ModuleImage, h Handle) error {
		calls.Add(1)
		return nil
	})

	future := InitThreadPool(context.Background(), spawner, 0, WithSlot(NewSlot()))
	if !future.IsReady() {
		t.Fatal("future should resolve immediately on a configuration error")
	}

	_, _, err := future.Get()
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) || !errors.Is(err, ErrZeroThreads) {
		t.Errorf("expected ConfigError(ErrZeroThreads), got %v", err)
	}
	if calls.Load() != 0 {
		t.Errorf("spawner called %d times", calls.Load())
	}
}

func TestInitThreadPool_SpawnFailureAborts(t *testing.T) {
	const n = 4
	slot := NewSlot()
	inner := &goroutineSpawner{}
	errHostFull := errors.New("host refused context")

	var spawned atomic.Int64
	spawner := SpawnerFunc(func(ctx context.Context, image ModuleImage, h Handle) error {
		if spawned.Add(1) == n {
			return errHostFull
		}
		return inner.SpawnWorker(ctx, image, h)
	})

	_, _, err := InitThreadPool(context.Background(), spawner, n, WithSlot(slot)).GetWithTimeout(testTimeout)
	if !errors.Is(err, errHostFull) {
		t.Fatalf("expected host error, got %v", err)
	}
	if slot.Initialized() {
		t.Error("pool was built despite a failed spawn")
	}

	inner.wg.Wait()
	errs := inner.failures()
	if len(errs) != n-1 {
		t.Fatalf("%d workers failed, want %d", len(errs), n-1)
	}
	for _, err := range errs {
		if !errors.Is(err, ErrNoTask) && !errors.Is(err, ErrStaleHandle) {
			t.Errorf("unexpected worker error %v", err)
		}
	}
}

func TestInitThreadPool_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	spawner := SpawnerFunc(func(ctx context.Context, image ModuleImage, h Handle) error {
		<-ctx.Done()
		return ctx.Err()
	})

	_, _, err := InitThreadPool(ctx, spawner, 2, WithSlot(NewSlot())).GetWithTimeout(time.Second)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestInitThreadPool_LifecycleHandlers(t *testing.T) {
	const n = 3
	slot := NewSlot()
	spawner := &goroutineSpawner{}

	var mu sync.Mutex
	started := make(map[int]int)
	exited := make(map[int]int)

	_, _, err := InitThreadPool(context.Background(), spawner, n,
		WithSlot(slot),
		WithStartHandler(func(index int) {
			mu.Lock()
			started[index]++
			mu.Unlock()
		}),
		WithExitHandler(func(index int) {
			mu.Lock()
			exited[index]++
			mu.Unlock()
		}),
	).GetWithTimeout(testTimeout)
	if err != nil {
		t.Fatalf("InitThreadPool: %v", err)
	}

	p := slot.Pool()
	waitClosed(t, "pool start", p.Started())
	if err := p.Shutdown(testTimeout); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	spawner.wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	for i := range n {
		if started[i] != 1 || exited[i] != 1 {
			t.Errorf("thread %d: started %d times, exited %d times, want once each", i, started[i], exited[i])
		}
	}
}
