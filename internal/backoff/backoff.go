// Package backoff computes delays between attempts of a failing operation.
package backoff

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// Kind selects a delay algorithm.
type Kind int

const (
	// Exponential doubles the delay on every attempt (default).
	Exponential Kind = iota
	// Jittered randomizes the exponential delay by a factor.
	Jittered
	// Decorrelated picks each delay between the initial delay and three
	// times the previous one.
	Decorrelated
)

// maxShift keeps 1<<attempt from overflowing.
const maxShift = 62

// Strategy yields the delay before the next attempt.
type Strategy interface {
	// NextDelay returns the wait before retry attempt (0-indexed).
	NextDelay(attempt int) time.Duration
	// Reset clears per-operation state.
	Reset()
}

// New returns the strategy for kind. jitter is only read by Jittered and is
// clamped to [0, 1].
func New(kind Kind, initial, max time.Duration, jitter float64) Strategy {
	switch kind {
	case Jittered:
		return &jittered{initial: initial, max: max, factor: clamp(jitter, 0, 1), rng: newRand()}
	case Decorrelated:
		return &decorrelated{initial: initial, max: max, prev: initial, rng: newRand()}
	default:
		return &exponential{initial: initial, max: max}
	}
}

// Retry calls fn until it succeeds, attempts calls have been made, or ctx is
// done. It returns the last error from fn or the context's error.
func Retry(ctx context.Context, attempts int, s Strategy, fn func(attempt int) error) error {
	s.Reset()

	n := max(attempts, 1)
	var err error
	for attempt := range n {
		if err = fn(attempt); err == nil {
			return nil
		}
		if attempt == n-1 {
			break
		}

		timer := time.NewTimer(s.NextDelay(attempt))
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
	return err
}

type exponential struct {
	initial, max time.Duration
}

func (e *exponential) NextDelay(attempt int) time.Duration {
	return exponentialDelay(attempt, e.initial, e.max)
}

func (e *exponential) Reset() {}

type jittered struct {
	initial, max time.Duration
	factor       float64

	mu  sync.Mutex
	rng *rand.Rand
}

func (j *jittered) NextDelay(attempt int) time.Duration {
	if attempt < 0 {
		return 0
	}
	base := exponentialDelay(attempt, j.initial, j.max)

	j.mu.Lock()
	scale := 1.0 + (j.rng.Float64()*2-1)*j.factor
	j.mu.Unlock()

	return clamp(time.Duration(float64(base)*scale), 0, j.max)
}

func (j *jittered) Reset() {}

type decorrelated struct {
	initial, max time.Duration

	mu   sync.Mutex
	prev time.Duration
	rng  *rand.Rand
}

// NextDelay returns random(initial, prev*3) capped at max.
func (d *decorrelated) NextDelay(attempt int) time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()

	if attempt == 0 {
		d.prev = d.initial
		return d.initial
	}

	upper := min(time.Duration(float64(d.prev)*3), d.max)
	span := upper - d.initial
	if span <= 0 {
		d.prev = d.initial
		return d.initial
	}

	d.prev = d.initial + time.Duration(d.rng.Int63n(int64(span)))
	return d.prev
}

func (d *decorrelated) Reset() {
	d.mu.Lock()
	d.prev = d.initial
	d.mu.Unlock()
}

func exponentialDelay(attempt int, initial, max time.Duration) time.Duration {
	switch {
	case attempt < 0:
		return 0
	case attempt >= maxShift:
		return max
	}

	delay := time.Duration(int64(1)<<uint(attempt)) * initial
	if delay > max || delay < 0 {
		return max
	}
	return delay
}

func newRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano())) // #nosec G404 -- jitter only
}

func clamp[T int | int64 | float64 | time.Duration](v, lo, hi T) T {
	return min(max(v, lo), hi)
}
