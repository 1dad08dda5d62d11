package jobs

import (
	"context"
)

// Future is the shared completion handle of a job. Every caller whose
// submission was coalesced into the same job receives the same Future, so a
// single resolution is observed by all of them.
type Future[R any] struct {
	done chan struct{}
	val  R
	err  error
}

func newFuture[R any]() *Future[R] {
	return &Future[R]{done: make(chan struct{})}
}

// Resolved reports whether the job has finished without blocking.
func (f *Future[R]) Resolved() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the job finishes or ctx is done. Giving up on the wait
// does not affect the job.
func (f *Future[R]) Wait(ctx context.Context) (R, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero R
		return zero, ctx.Err()
	}
}

// resolve must be called exactly once.
func (f *Future[R]) resolve(val R, err error) {
	f.val = val
	f.err = err
	close(f.done)
}
