package scheduler

import (
	"context"
	"fmt"
	"runtime"
)

// job is the scheduler's unit of work. Jobs with a done channel are awaited
// by someone (Join, Install); the rest are fire-and-forget.
type job struct {
	id   int64
	run  func(ctx context.Context) error
	done chan struct{}
	err  error
}

func newJob(id int64, run func(ctx context.Context) error, awaited bool) *job {
	j := &job{id: id, run: run}
	if awaited {
		j.done = make(chan struct{})
	}
	return j
}

// execute runs the job, converting a panic into an error. It reports whether
// the job panicked along with the recovered value.
func (j *job) execute(ctx context.Context) (panicked bool, recovered any) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			j.err = fmt.Errorf("worker panic: %v\nstack trace:\n%s", r, buf[:n])
			panicked, recovered = true, r
		}
		if j.done != nil {
			close(j.done)
		}
	}()

	j.err = j.run(ctx)
	return false, nil
}

func (j *job) finished() bool {
	if j.done == nil {
		return false
	}
	select {
	case <-j.done:
		return true
	default:
		return false
	}
}
