package scheduler

import (
	"errors"
	"time"
)

const cacheLinePadding = 64

var (
	ErrSchedulerClosed              = errors.New("scheduler is closed")
	ErrShutdownTimeout              = errors.New("error in shutting down: timeout reached")
	ErrGlobalPoolAlreadyInitialized = errors.New("the global thread pool has already been initialized")
	ErrStartupTaskConsumed          = errors.New("startup task has already been run")
)

// nextPowerOfTwo returns the next power of 2 >= n
func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}

	if n&(n-1) == 0 {
		return n
	}

	power := 1
	for power < n {
		power *= 2
	}
	return power
}

// waitUntil blocks until either the done channel is closed or the timeout is reached.
func waitUntil(d <-chan struct{}, timeout time.Duration) error {
	if timeout <= 0 {
		<-d
		return nil
	}

	select {
	case <-d:
		return nil
	case <-time.After(timeout):
		return ErrShutdownTimeout
	}
}
