package types

import (
	"context"
	"sync"
	"time"
)

// Future is a single-assignment container for a value produced asynchronously.
// Any number of goroutines may wait on it; all of them observe the same result.
type Future[R any, K comparable] struct {
	done  chan struct{}
	once  sync.Once
	value Result[R, K]
}

// NewFuture creates an unresolved Future.
func NewFuture[R any, K comparable]() *Future[R, K] {
	return &Future[R, K]{done: make(chan struct{})}
}

// Resolve settles the future. Only the first call has an effect.
func (f *Future[R, K]) Resolve(value R, key K, err error) {
	f.once.Do(func() {
		f.value = Result[R, K]{Value: value, Key: key, Error: err}
		close(f.done)
	})
}

// Get blocks until the result is available.
func (f *Future[R, K]) Get() (R, K, error) {
	<-f.done
	return f.value.Value, f.value.Key, f.value.Error
}

// GetWithContext is like Get but gives up when ctx is done. A result that
// arrives later is still kept for subsequent calls.
func (f *Future[R, K]) GetWithContext(ctx context.Context) (R, K, error) {
	select {
	case <-f.done:
	case <-ctx.Done():
		var zeroR R
		var zeroK K
		return zeroR, zeroK, ctx.Err()
	}
	return f.value.Value, f.value.Key, f.value.Error
}

// GetWithTimeout waits at most timeout for the result.
func (f *Future[R, K]) GetWithTimeout(timeout time.Duration) (R, K, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return f.GetWithContext(ctx)
}

// TryGet returns the result without blocking. ready reports whether it was available.
func (f *Future[R, K]) TryGet() (value R, key K, err error, ready bool) {
	select {
	case <-f.done:
	default:
		return value, key, nil, false
	}
	return f.value.Value, f.value.Key, f.value.Error, true
}

// Done returns a channel closed once the future is settled.
func (f *Future[R, K]) Done() <-chan struct{} {
	return f.done
}

// IsReady reports whether the future is settled.
func (f *Future[R, K]) IsReady() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}
