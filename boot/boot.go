// Package boot provides eagerly started initialization tasks with named
// readiness points.
//
// Subsystems that take time to come up (storage, type registries,
// credential overwrites, lifecycle hooks) are started at process entry
// via Go and awaited individually at the point each is first needed.
// A task that fails propagates its error to the first Await; nothing
// proceeds past a readiness point until the corresponding task resolves.
package boot

import (
	"context"
	"fmt"
	"runtime/debug"
)

// Task is the readiness point for one asynchronous initialization
// operation. The operation starts running as soon as Go returns; Await
// suspends until it resolves and yields its value or error. A Task may
// be awaited any number of times and always yields the same outcome.
type Task[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Go starts fn in its own goroutine immediately and returns its
// readiness point. Panics inside fn are converted to errors so a broken
// subsystem surfaces at Await instead of crashing the process.
func Go[T any](ctx context.Context, fn func(context.Context) (T, error)) *Task[T] {
	t := &Task[T]{done: make(chan struct{})}

	go func() {
		defer close(t.done)
		defer func() {
			if r := recover(); r != nil {
				t.err = fmt.Errorf("boot: init panicked: %v\n%s", r, debug.Stack())
			}
		}()
		t.val, t.err = fn(ctx)
	}()

	return t
}

// Await blocks until the task resolves or ctx is done, whichever comes
// first, and returns the task's value and error.
func (t *Task[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-t.done:
		return t.val, t.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Ready reports whether the task has resolved without blocking.
func (t *Task[T]) Ready() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}
