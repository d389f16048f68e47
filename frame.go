// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import "context"

// Erased represents a type-erased value in the effect node graph.
// Node types carry Erased payloads so that heterogeneous value types flow
// through a homogeneous evaluation pipeline. Concrete types are recovered
// via type assertions inside the typed closures built by the public
// constructors and combinators.
type Erased = any

// node is the interface for effect graph nodes.
// An Effect is an inert description: each node variant holds exactly the
// data needed to later interpret it. Dispatch uses type switches, not tags —
// node is a pure marker interface.
type node interface {
	node() // unexported marker method
}

// successNode is the terminal success leaf. Evaluation yields v.
type successNode struct {
	v Erased
}

func (*successNode) node() {}

// throwNode is the terminal failure leaf. Evaluation fails with err
// on the typed error channel.
type throwNode struct {
	err error
}

func (*throwNode) node() {}

// dependNode yields the environment, narrowed to a requested capability.
// match reports whether a candidate value satisfies the capability and
// returns the narrowed value. capability names the requested type for
// the defect raised when nothing in scope satisfies it.
type dependNode struct {
	capability string
	match      func(Erased) (Erased, bool)
}

func (*dependNode) node() {}

// callableNode lifts a function of the environment into the graph.
// class selects cooperative, I/O-bound, or CPU-bound dispatch. The context
// is the run's cancellation context; cooperative callables may ignore it.
type callableNode struct {
	class dispatchClass
	f     func(ctx context.Context, env Erased) (Erased, error)
}

func (*callableNode) node() {}

// futureNode lifts a pending asynchronous computation. wait blocks until
// the computation settles or the context is cancelled.
type futureNode struct {
	wait func(ctx context.Context) (Erased, error)
}

func (*futureNode) node() {}

// bindNode represents monadic sequencing: AndThen(src, f).
// On success of src, f produces the continuation graph.
type bindNode struct {
	src node
	f   func(Erased) node
}

func (*bindNode) node() {}

// mapNode represents functor mapping: Map(src, f).
type mapNode struct {
	src node
	f   func(Erased) Erased
}

func (*mapNode) node() {}

// thenNode sequences src before next, discarding src's value.
type thenNode struct {
	src  node
	next node
}

func (*thenNode) node() {}

// recoverNode hands a failure of src to f for replacement.
// Successes pass through unchanged.
type recoverNode struct {
	src node
	f   func(error) node
}

func (*recoverNode) node() {}

// eitherNode reifies src's outcome into an Either success value.
// wrap is built by the typed combinator and produces Left on failure,
// Right on success. An eitherNode never fails.
type eitherNode struct {
	src  node
	wrap func(err error, v Erased) Erased
}

func (*eitherNode) node() {}

// ensureNode runs fin after src settles, propagating src's outcome.
type ensureNode struct {
	src node
	fin node
}

func (*ensureNode) node() {}

// memoNode evaluates src at most once per cell, caching the outcome.
type memoNode struct {
	src  node
	cell *memoCell
}

func (*memoNode) node() {}

// provideNode evaluates src under a scope extended with instance.
// The instance shadows the ambient environment for matching capabilities.
type provideNode struct {
	src      node
	instance Erased
}

func (*provideNode) node() {}

// opNode is the escape hatch for operations that need the live runtime:
// concurrency combinators, resource acquisition, and the repeat/retry
// engine. f may evaluate sub-graphs through the runtime. name identifies
// the constructing combinator for textual reconstruction; the sub-graphs
// themselves are closure-captured and opaque.
type opNode struct {
	name string
	f    func(rt *runEnv, sc *scope) (Erased, error)
}

func (*opNode) node() {}

// frame is the interface for heap-resident continuation frames.
// The trampoline in eval pushes one frame per composite node it
// decomposes and unwinds them iteratively, never by native recursion.
type frame interface {
	frame() // unexported marker method
}

// bindFrame resumes a bindNode: applies f to the settled value.
// Skipped when the outcome is a failure.
type bindFrame struct {
	f func(Erased) node
}

func (*bindFrame) frame() {}

// mapFrame resumes a mapNode. Skipped on failure.
type mapFrame struct {
	f func(Erased) Erased
}

func (*mapFrame) frame() {}

// thenFrame resumes a thenNode: discards the value, evaluates next.
// Skipped on failure.
type thenFrame struct {
	next node
}

func (*thenFrame) frame() {}

// recoverFrame resumes a recoverNode: applies f to the failure.
// Skipped on success.
type recoverFrame struct {
	f func(error) node
}

func (*recoverFrame) frame() {}

// eitherFrame resumes an eitherNode: folds the outcome into an Either
// success value, clearing the error channel.
type eitherFrame struct {
	wrap func(err error, v Erased) Erased
}

func (*eitherFrame) frame() {}

// ensureFrame runs the finalizer with the settled outcome held aside.
// The original outcome propagates; finalizer failures do not mask it.
type ensureFrame struct {
	fin node
}

func (*ensureFrame) frame() {}

// scopeFrame restores the enclosing scope when a provideNode's subtree
// settles, on both the success and failure paths.
type scopeFrame struct {
	prev *scope
}

func (*scopeFrame) frame() {}
