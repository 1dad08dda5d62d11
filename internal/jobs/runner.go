// Package jobs provides a serialized, priority-aware job runner with
// per-identifier deduplication.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"
)

// ErrRunnerStopped is returned for jobs that were still pending when the
// runner stopped, and for jobs submitted after that.
var ErrRunnerStopped = errors.New("job runner stopped")

// Priority selects the queue a job is placed in.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityHigh
)

func (p Priority) String() string {
	if p == PriorityHigh {
		return "high"
	}
	return "low"
}

// Func is the function a Runner is bound to.
type Func[A, R any] func(ctx context.Context, args A) (R, error)

// PanicError wraps a panic raised by the bound function.
type PanicError struct {
	ID    string
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("job %q panicked: %v", e.ID, e.Value)
}

// job is a pending unit of work. Its args may be replaced until it is dequeued.
type job[A, R any] struct {
	id       string
	args     A
	priority Priority
	future   *Future[R]
}

// Runner executes jobs one at a time on a single worker goroutine.
//
// Jobs are identified by a string id. While a job is pending, submitting the
// same id again replaces its arguments and attaches the caller to the same
// Future instead of queueing a second job. Once a job has been dequeued, a new
// submission with its id creates a fresh job that runs after the current one.
//
// High-priority jobs are always dequeued before low-priority ones; within a
// priority class jobs run in submission order.
type Runner[A, R any] struct {
	fn     Func[A, R]
	logger *slog.Logger

	mu      sync.Mutex
	pending map[string]*job[A, R] // Jobs queued but not yet dequeued.
	high    []string              // FIFO of high-priority ids.
	low     []string              // FIFO of low-priority ids.
	busy    bool
	started bool
	stopped bool

	wake     chan struct{}
	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewRunner creates a runner bound to fn. The runner does not execute
// anything until Start is called; submissions made before that are queued.
func NewRunner[A, R any](fn Func[A, R], logger *slog.Logger) *Runner[A, R] {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner[A, R]{
		fn:      fn,
		logger:  logger,
		pending: make(map[string]*job[A, R]),
		wake:    make(chan struct{}, 1),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start launches the worker goroutine. The context is passed to every job;
// cancelling it stops the runner as if Stop had been called.
func (r *Runner[A, R]) Start(ctx context.Context) {
	r.mu.Lock()
	if r.started || r.stopped {
		r.mu.Unlock()
		return
	}
	r.started = true
	r.mu.Unlock()

	go r.loop(ctx)
}

// Submit schedules a job for id and returns its Future.
//
// If a job for id is already pending, its arguments are replaced by args and
// the existing Future is returned. The priority of the first submission stays
// in effect.
func (r *Runner[A, R]) Submit(id string, args A, priority Priority) *Future[R] {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		f := newFuture[R]()
		f.resolve(*new(R), ErrRunnerStopped)
		return f
	}

	if j, ok := r.pending[id]; ok {
		j.args = args
		kept := j.priority
		r.mu.Unlock()

		if kept != priority {
			r.logger.Debug("ignoring priority of coalesced submission",
				"id", id,
				"requested", priority,
				"kept", kept,
			)
		}
		return j.future
	}

	j := &job[A, R]{
		id:       id,
		args:     args,
		priority: priority,
		future:   newFuture[R](),
	}
	r.pending[id] = j
	if priority == PriorityHigh {
		r.high = append(r.high, id)
	} else {
		r.low = append(r.low, id)
	}
	r.mu.Unlock()

	r.logger.Debug("job queued", "id", id, "priority", priority)
	r.signal()
	return j.future
}

// Pending returns the number of jobs waiting to be dequeued.
func (r *Runner[A, R]) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

// Running reports whether a job is currently executing.
func (r *Runner[A, R]) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.busy
}

// Stop prevents further jobs from starting, waits for the executing job to
// finish and rejects every pending job with ErrRunnerStopped.
func (r *Runner[A, R]) Stop() {
	r.mu.Lock()
	r.stopped = true
	started := r.started
	r.mu.Unlock()

	r.stopOnce.Do(func() { close(r.quit) })
	if started {
		<-r.done
	}
	r.rejectPending()
}

func (r *Runner[A, R]) signal() {
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

func (r *Runner[A, R]) loop(ctx context.Context) {
	defer close(r.done)
	r.logger.Debug("job runner started")

	for {
		j, ok := r.next()
		if ok {
			r.execute(ctx, j)
			continue
		}

		select {
		case <-r.wake:
		case <-r.quit:
			r.logger.Debug("job runner stopped")
			return
		case <-ctx.Done():
			r.mu.Lock()
			r.stopped = true
			r.mu.Unlock()
			r.rejectPending()
			r.logger.Debug("job runner context cancelled", "error", ctx.Err())
			return
		}
	}
}

// next dequeues the next job, high priority first. The job is removed from the
// pending map at the moment it is picked, so later submissions of the same id
// start a new job.
func (r *Runner[A, R]) next() (*job[A, R], bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return nil, false
	}

	var id string
	switch {
	case len(r.high) > 0:
		id, r.high = r.high[0], r.high[1:]
	case len(r.low) > 0:
		id, r.low = r.low[0], r.low[1:]
	default:
		return nil, false
	}

	j := r.pending[id]
	delete(r.pending, id)
	r.busy = true
	return j, true
}

func (r *Runner[A, R]) execute(ctx context.Context, j *job[A, R]) {
	start := time.Now()
	val, err := r.invoke(ctx, j)

	r.mu.Lock()
	r.busy = false
	r.mu.Unlock()

	if err != nil {
		r.logger.Error("job failed", "id", j.id, "error", err)
	} else {
		r.logger.Debug("job finished", "id", j.id, "elapsed", time.Since(start))
	}
	j.future.resolve(val, err)
}

func (r *Runner[A, R]) invoke(ctx context.Context, j *job[A, R]) (val R, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &PanicError{ID: j.id, Value: p, Stack: debug.Stack()}
		}
	}()
	return r.fn(ctx, j.args)
}

func (r *Runner[A, R]) rejectPending() {
	r.mu.Lock()
	jobs := make([]*job[A, R], 0, len(r.pending))
	for _, id := range append(r.high, r.low...) {
		if j, ok := r.pending[id]; ok {
			jobs = append(jobs, j)
		}
	}
	r.pending = make(map[string]*job[A, R])
	r.high, r.low = nil, nil
	r.mu.Unlock()

	for _, j := range jobs {
		var zero R
		j.future.resolve(zero, ErrRunnerStopped)
	}
	if len(jobs) > 0 {
		r.logger.Info("rejected pending jobs", "count", len(jobs))
	}
}
