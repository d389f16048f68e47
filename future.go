// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import "context"

// Future represents a value that will be available asynchronously.
// Create one with [Go] and lift it into an effect with [FromFuture].
type Future[A any] struct {
	done chan struct{}
	v    A
	err  error
}

// Go starts fn on its own goroutine immediately and returns a Future for
// its result. The Future settles exactly once.
func Go[A any](fn func() (A, error)) *Future[A] {
	f := &Future[A]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.v, f.err = fn()
	}()
	return f
}

// Settled returns an already-completed Future. Useful in tests and as the
// degenerate case of an asynchronous source.
func Settled[A any](v A, err error) *Future[A] {
	f := &Future[A]{done: make(chan struct{}), v: v, err: err}
	close(f.done)
	return f
}

// Await blocks until the Future settles or ctx is cancelled. Safe to call
// any number of times; every caller observes the same outcome.
// Cancellation abandons the wait — the underlying goroutine is not
// interruptible and runs to completion.
func (f *Future[A]) Await(ctx context.Context) (A, error) {
	select {
	case <-f.done:
		return f.v, f.err
	case <-ctx.Done():
		var zero A
		return zero, ctx.Err()
	}
}

// FromFuture lifts a pending asynchronous computation into an effect.
// Evaluation suspends until the Future settles; a failed Future fails the
// effect on the error channel. Cancelling the run abandons the wait.
func FromFuture[A any](f *Future[A]) Effect[A] {
	return fromNode[A](&futureNode{
		wait: func(ctx context.Context) (Erased, error) {
			v, err := f.Await(ctx)
			if err != nil {
				return nil, err
			}
			return v, nil
		},
	})
}
