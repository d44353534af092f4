package types

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestFuture_Get(t *testing.T) {
	t.Run("resolved from another goroutine", func(t *testing.T) {
		future := NewFuture[string, int]()

		go func() {
			time.Sleep(20 * time.Millisecond)
			future.Resolve("success", 42, nil)
		}()

		value, key, err := future.Get()
		if err != nil {
			t.Errorf("expected no error, got %v", err)
		}
		if value != "success" {
			t.Errorf("expected value 'success', got %v", value)
		}
		if key != 42 {
			t.Errorf("expected key 42, got %v", key)
		}
	})

	t.Run("error result", func(t *testing.T) {
		future := NewFuture[string, int]()
		expectedErr := errors.New("task failed")
		future.Resolve("", 10, expectedErr)

		_, key, err := future.Get()
		if !errors.Is(err, expectedErr) {
			t.Errorf("expected error %v, got %v", expectedErr, err)
		}
		if key != 10 {
			t.Errorf("expected key 10, got %v", key)
		}
	})

	t.Run("only the first resolve counts", func(t *testing.T) {
		future := NewFuture[int, int]()
		future.Resolve(1, 1, nil)
		future.Resolve(2, 2, errors.New("late"))

		value, key, err := future.Get()
		if value != 1 || key != 1 || err != nil {
			t.Errorf("expected first resolution, got value=%v key=%v err=%v", value, key, err)
		}
	})
}

func TestFuture_GetWithContext(t *testing.T) {
	t.Run("context cancelled before result", func(t *testing.T) {
		future := NewFuture[string, int]()
		ctx, cancel := context.WithCancel(context.Background())

		go func() {
			time.Sleep(20 * time.Millisecond)
			cancel()
		}()

		value, key, err := future.GetWithContext(ctx)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if value != "" || key != 0 {
			t.Errorf("expected zero values, got value=%q key=%d", value, key)
		}

		future.Resolve("too late", 99, nil)
		value, key, err = future.Get()
		if err != nil || value != "too late" || key != 99 {
			t.Errorf("late result lost: value=%q key=%d err=%v", value, key, err)
		}
	})

	t.Run("timeout", func(t *testing.T) {
		future := NewFuture[int, int]()
		_, _, err := future.GetWithTimeout(20 * time.Millisecond)
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected deadline exceeded, got %v", err)
		}
	})
}

func TestFuture_TryGet(t *testing.T) {
	future := NewFuture[string, int]()

	if _, _, _, ready := future.TryGet(); ready {
		t.Fatal("expected ready to be false")
	}

	future.Resolve("ready", 100, nil)

	for range 2 {
		value, key, err, ready := future.TryGet()
		if !ready {
			t.Fatal("expected ready to be true")
		}
		if value != "ready" || key != 100 || err != nil {
			t.Errorf("unexpected result: value=%v key=%v err=%v", value, key, err)
		}
	}
}

func TestFuture_Done(t *testing.T) {
	future := NewFuture[string, int]()

	select {
	case <-future.Done():
		t.Fatal("Done channel should not be closed yet")
	case <-time.After(20 * time.Millisecond):
	}
	if future.IsReady() {
		t.Fatal("expected IsReady to be false")
	}

	future.Resolve("done", 1, nil)

	select {
	case <-future.Done():
	case <-time.After(200 * time.Millisecond):
		t.Fatal("Done channel should be closed after Resolve")
	}
	if !future.IsReady() {
		t.Error("expected IsReady to be true")
	}
}

func TestFuture_ConcurrentAccess(t *testing.T) {
	future := NewFuture[int, string]()

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			value, key, err := future.Get()
			if err != nil || value != 999 || key != "concurrent" {
				t.Errorf("unexpected result: value=%v, key=%v, err=%v", value, key, err)
			}
		}()
	}

	time.Sleep(20 * time.Millisecond)
	future.Resolve(999, "concurrent", nil)

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for concurrent Get calls")
	}
}
