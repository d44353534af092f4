package pool

import (
	"context"
	"sync"
	"testing"
	"time"
)

const testTimeout = 5 * time.Second

// goroutineSpawner starts each worker on a goroutine and returns once the
// worker has resolved its handle.
type goroutineSpawner struct {
	wg     sync.WaitGroup
	mu     sync.Mutex
	errs   []error
	images []ModuleImage
}

func (s *goroutineSpawner) SpawnWorker(ctx context.Context, image ModuleImage, h Handle) error {
	ready := make(chan struct{})
	var once sync.Once
	signal := func() { once.Do(func() { close(ready) }) }

	s.mu.Lock()
	s.images = append(s.images, image)
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := StartWorker(h, OnReady(signal)); err != nil {
			s.mu.Lock()
			s.errs = append(s.errs, err)
			s.mu.Unlock()
			signal()
		}
	}()

	select {
	case <-ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *goroutineSpawner) failures() []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]error(nil), s.errs...)
}

// startWorkers runs n bootstraps against h and returns a channel that
// receives each one's result.
func startWorkers(n int, h Handle) <-chan error {
	results := make(chan error, n)
	for range n {
		go func() {
			results <- StartWorker(h)
		}()
	}
	return results
}

// waitFor polls cond until it holds or the test timeout elapses.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(testTimeout)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func waitClosed(t *testing.T, what string, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(testTimeout):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func collect(t *testing.T, results <-chan error, n int) []error {
	t.Helper()
	errs := make([]error, 0, n)
	for range n {
		select {
		case err := <-results:
			errs = append(errs, err)
		case <-time.After(testTimeout):
			t.Fatalf("only %d of %d workers returned", len(errs), n)
		}
	}
	return errs
}
