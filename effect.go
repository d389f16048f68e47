// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import (
	"context"
	"fmt"
	"reflect"
)

// Effect represents a deferred computation that needs an environment to
// run, may fail with an error, and may produce a value of type A.
//
// An Effect is pure data: constructing one performs no side effects.
// Combinators build new descriptions without evaluating anything; the
// whole graph is interpreted by [Run].
type Effect[A any] struct {
	n node
}

// fromNode wraps a graph node in a typed facade.
func fromNode[A any](n node) Effect[A] {
	return Effect[A]{n: n}
}

// Success creates an effect that always yields v.
func Success[A any](v A) Effect[A] {
	return fromNode[A](&successNode{v: v})
}

// Throw creates an effect that always fails with err on the error channel.
// The failure is recoverable via [Effect.Recover] and observable via
// [ToEither]; if it reaches the top of a run unhandled, [Run] returns it.
func Throw[A any](err error) Effect[A] {
	return fromNode[A](&throwNode{err: err})
}

// Depend creates an effect that yields the environment, typed as the
// requested capability R. An explicitly provided instance (see [Provide])
// takes precedence over the ambient environment. If nothing in scope
// satisfies R, evaluation panics with a [*CapabilityError]: requesting an
// unsatisfiable capability is a defect, not a recoverable failure.
func Depend[R any]() Effect[R] {
	t := reflect.TypeOf((*R)(nil)).Elem()
	return fromNode[R](&dependNode{
		capability: t.String(),
		match: func(v Erased) (Erased, bool) {
			r, ok := v.(R)
			if !ok {
				return nil, false
			}
			return r, true
		},
	})
}

// FromCallable lifts a function of the environment into an effect.
// The environment supplied to [Run] must be assignable to E.
func FromCallable[E, A any](f func(env E) (A, error)) Effect[A] {
	return fromNode[A](liftCallable(dispatchInline, f))
}

// FromIOCallable is [FromCallable] with the call dispatched to the run's
// bounded I/O pool. Use it for functions that block on I/O.
func FromIOCallable[E, A any](f func(env E) (A, error)) Effect[A] {
	return fromNode[A](liftCallable(dispatchIO, f))
}

// FromCPUCallable is [FromCallable] with the call dispatched to the run's
// bounded CPU pool. Use it for computationally heavy functions.
func FromCPUCallable[E, A any](f func(env E) (A, error)) Effect[A] {
	return fromNode[A](liftCallable(dispatchCPU, f))
}

// liftCallable builds a callableNode that narrows the environment to E.
// A mismatched environment is a defect, consistent with Depend.
func liftCallable[E, A any](class dispatchClass, f func(env E) (A, error)) node {
	t := reflect.TypeOf((*E)(nil)).Elem()
	return &callableNode{
		class: class,
		f: func(_ context.Context, env Erased) (Erased, error) {
			e, ok := env.(E)
			if !ok {
				panic(&CapabilityError{Capability: t.String(), Have: fmt.Sprintf("%T", env)})
			}
			return f(e)
		},
	}
}

// Suspend lifts a thunk into a cooperative effect. The thunk runs on the
// evaluator goroutine each time the effect is evaluated; it must not block.
func Suspend[A any](f func() (A, error)) Effect[A] {
	return fromNode[A](&callableNode{
		class: dispatchInline,
		f: func(context.Context, Erased) (Erased, error) {
			return f()
		},
	})
}

// BlockingIO lifts a blocking thunk into an effect dispatched to the run's
// bounded I/O pool. The context is cancelled when the surrounding run or
// race branch is cancelled; well-behaved thunks observe it.
func BlockingIO[A any](f func(ctx context.Context) (A, error)) Effect[A] {
	return fromNode[A](&callableNode{
		class: dispatchIO,
		f: func(ctx context.Context, _ Erased) (Erased, error) {
			return f(ctx)
		},
	})
}

// BlockingCPU lifts a heavy thunk into an effect dispatched to the run's
// bounded CPU pool.
func BlockingCPU[A any](f func(ctx context.Context) (A, error)) Effect[A] {
	return fromNode[A](&callableNode{
		class: dispatchCPU,
		f: func(ctx context.Context, _ Erased) (Erased, error) {
			return f(ctx)
		},
	})
}

// Recover hands a failure of e to f, which returns a replacement effect.
// Successes pass through unchanged.
func (e Effect[A]) Recover(f func(error) Effect[A]) Effect[A] {
	return fromNode[A](&recoverNode{
		src: e.n,
		f: func(err error) node {
			return f(err).n
		},
	})
}

// ToEither converts e into an effect that never fails: a failure becomes a
// successful Left, a success becomes a Right.
func ToEither[A any](e Effect[A]) Effect[Either[error, A]] {
	return fromNode[Either[error, A]](&eitherNode{
		src: e.n,
		wrap: func(err error, v Erased) Erased {
			if err != nil {
				return Left[error, A](err)
			}
			return Right[error, A](v.(A))
		},
	})
}

// Absolve is the inverse of [ToEither]: an effect whose success value
// is an Either fails when that Either is Left.
func Absolve[A any](e Effect[Either[error, A]]) Effect[A] {
	return AndThen(e, func(r Either[error, A]) Effect[A] {
		if err, ok := r.GetLeft(); ok {
			return Throw[A](err)
		}
		v, _ := r.GetRight()
		return Success(v)
	})
}

// Ensure runs finalizer after e settles, on both the success and failure
// paths, and propagates e's original outcome. A finalizer failure does not
// mask the original outcome.
func (e Effect[A]) Ensure(finalizer Effect[struct{}]) Effect[A] {
	return fromNode[A](&ensureNode{src: e.n, fin: finalizer.n})
}

// Memoize wraps e so the underlying computation executes at most once for
// the lifetime of the returned value, including across multiple [Run] calls
// on the same value and under concurrent evaluation. Subsequent evaluations
// yield the cached outcome without re-executing side effects. Independently
// constructed copies of e memoize independently.
func (e Effect[A]) Memoize() Effect[A] {
	return fromNode[A](&memoNode{src: e.n, cell: &memoCell{}})
}

// Provide fixes a capability requirement of e to the supplied instance.
// Downstream [Depend] requests satisfied by instance no longer consult the
// ambient environment; when both satisfy a capability, the explicitly
// provided instance wins. Inner Provide calls shadow outer ones.
func Provide[R, A any](e Effect[A], instance R) Effect[A] {
	return fromNode[A](&provideNode{src: e.n, instance: instance})
}

// PanicMatcher reports whether a recovered panic value should be
// reclassified into the error channel, and as which error.
type PanicMatcher func(recovered any) (error, bool)

// As matches panics whose recovered value is of type T. When T is an error
// type the value itself becomes the channel error; otherwise it is wrapped.
func As[T any]() PanicMatcher {
	return func(r any) (error, bool) {
		v, ok := r.(T)
		if !ok {
			return nil, false
		}
		if err, ok := any(v).(error); ok {
			return err, true
		}
		return fmt.Errorf("effect: caught panic: %v", v), true
	}
}

// AnyPanic matches every panic, wrapping non-error values.
func AnyPanic() PanicMatcher {
	return func(r any) (error, bool) {
		if err, ok := r.(error); ok {
			return err, true
		}
		return fmt.Errorf("effect: caught panic: %v", r), true
	}
}

// Catch wraps a plain, possibly panicking function. Panics matched by m are
// captured into the error channel; unmatched panics remain terminal
// failures and abort the run.
func Catch[A, B any](m PanicMatcher, f func(A) B) func(A) Effect[B] {
	return func(a A) Effect[B] {
		return Suspend(guarded(m, f, a))
	}
}

// CatchIO is [Catch] with the call dispatched to the run's I/O pool.
func CatchIO[A, B any](m PanicMatcher, f func(A) B) func(A) Effect[B] {
	return func(a A) Effect[B] {
		g := guarded(m, f, a)
		return BlockingIO(func(context.Context) (B, error) { return g() })
	}
}

// CatchCPU is [Catch] with the call dispatched to the run's CPU pool.
func CatchCPU[A, B any](m PanicMatcher, f func(A) B) func(A) Effect[B] {
	return func(a A) Effect[B] {
		g := guarded(m, f, a)
		return BlockingCPU(func(context.Context) (B, error) { return g() })
	}
}

// guarded wraps f(a) with panic reclassification through m.
func guarded[A, B any](m PanicMatcher, f func(A) B, a A) func() (B, error) {
	return func() (b B, err error) {
		defer func() {
			if r := recover(); r != nil {
				if e, ok := m(r); ok {
					err = e
					return
				}
				panic(r)
			}
		}()
		return f(a), nil
	}
}

// Purify lifts a pure function into an effect-returning function.
func Purify[A, B any](f func(A) B) func(A) Effect[B] {
	return func(a A) Effect[B] {
		return Suspend(func() (B, error) { return f(a), nil })
	}
}

// PurifyIO lifts a blocking function into an I/O-dispatched
// effect-returning function.
func PurifyIO[A, B any](f func(A) B) func(A) Effect[B] {
	return func(a A) Effect[B] {
		return BlockingIO(func(context.Context) (B, error) { return f(a), nil })
	}
}

// PurifyCPU lifts a heavy function into a CPU-dispatched effect-returning
// function.
func PurifyCPU[A, B any](f func(A) B) func(A) Effect[B] {
	return func(a A) Effect[B] {
		return BlockingCPU(func(context.Context) (B, error) { return f(a), nil })
	}
}
