package types

import "context"

// Job is a unit of work executed by a pool thread. The context carries the
// executing thread so nested work can be pushed onto its local queue.
type Job func(ctx context.Context)

// Result represents the outcome of a computation delivered through a Future.
//
// Fields:
//   - Value: The produced value (only valid if Error is nil)
//   - Key: Identifier attached by the producer (job id, pool generation, ...)
//   - Error: Any error that occurred (nil if successful)
type Result[R any, K comparable] struct {
	Value R
	Key   K
	Error error
}
