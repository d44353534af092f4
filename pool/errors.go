package pool

import (
	"errors"
	"fmt"

	"github.com/utkarsh5026/poolboot/internal/scheduler"
)

var (
	ErrZeroThreads                  = errors.New("number of threads must be greater than zero")
	ErrAlreadyBuilt                 = errors.New("pool builder has already finished construction")
	ErrBuilderAborted               = errors.New("pool builder was aborted")
	ErrHandoffFailed                = errors.New("startup task could not be handed to a worker")
	ErrStaleHandle                  = errors.New("receiver handle does not refer to a live pool builder")
	ErrNoTask                       = errors.New("worker received no startup task")
	ErrNoGlobalPool                 = errors.New("global thread pool has not been initialized")
	ErrGlobalPoolAlreadyInitialized = scheduler.ErrGlobalPoolAlreadyInitialized
	ErrShutdownTimeout              = scheduler.ErrShutdownTimeout
)

// ConfigError reports an invalid pool configuration. It is returned to the
// initiator and is not retryable without changing the input.
type ConfigError struct {
	Op  string
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
