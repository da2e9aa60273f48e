// Package pace holds the small timing primitives the trainer is built on: a
// context-aware delay and a cancellable background task.
package pace

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Sleep waits for d or until ctx is done, whichever comes first. The timer
// is always stopped before Sleep returns. If ctx is done when the wait
// resumes, ctx.Err() is returned even when the timer also fired.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}
	return ctx.Err()
}

// Task is a function running in its own goroutine under a context that
// Cancel can end at any time.
type Task struct {
	cancel context.CancelFunc
	done   chan struct{}

	mu  sync.Mutex
	err error
}

// Go starts fn in a new goroutine with a child context of ctx.
//
// Example:
//
//	task := pace.Go(ctx, func(ctx context.Context) error {
//		return pace.Sleep(ctx, time.Second)
//	})
//	task.Cancel()
//	err := task.Wait() // nil: cancellation is not an error
func Go(ctx context.Context, fn func(ctx context.Context) error) *Task {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(t.done)
		defer cancel()
		err := fn(ctx)
		t.mu.Lock()
		t.err = err
		t.mu.Unlock()
	}()
	return t
}

// Cancel asks the task to stop. It does not wait; use Wait for that.
func (t *Task) Cancel() {
	t.cancel()
}

// Done is closed once the task function has returned.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task function returns and reports its error.
// context.Canceled is reported as nil.
func (t *Task) Wait() error {
	<-t.done
	return t.Err()
}

// Err returns the task error once it has finished, nil before that.
// context.Canceled is reported as nil.
func (t *Task) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if errors.Is(t.err, context.Canceled) {
		return nil
	}
	return t.err
}
