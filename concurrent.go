// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import (
	"context"
	"iter"
	"time"

	"golang.org/x/sync/errgroup"
)

// Sequential combinators preserve strict left-to-right evaluation and
// fail fast on the first error. Concurrent combinators preserve result
// ordering matching input ordering regardless of completion order; the
// first error observed wins, but siblings still pending run to completion —
// only Race and Timeout cancel.

// gatherNodes evaluates nodes left to right, failing fast.
func (rt *runEnv) gatherNodes(sc *scope, nodes []node) ([]Erased, error) {
	out := make([]Erased, 0, len(nodes))
	for _, n := range nodes {
		v, err := rt.eval(n, sc)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// gatherNodesAsync evaluates nodes concurrently, one goroutine per node,
// writing each result into its input slot. Panics in a branch are terminal
// and re-raised by Wait.
func (rt *runEnv) gatherNodesAsync(sc *scope, nodes []node) ([]Erased, error) {
	out := make([]Erased, len(nodes))
	var g errgroup.Group
	for i, n := range nodes {
		g.Go(func() error {
			v, err := rt.eval(n, sc)
			if err != nil {
				return err
			}
			out[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func nodesOf[A any](effects []Effect[A]) []node {
	nodes := make([]node, len(effects))
	for i, e := range effects {
		nodes[i] = e.n
	}
	return nodes
}

func typedSlice[A any](vs []Erased) []A {
	out := make([]A, len(vs))
	for i, v := range vs {
		out[i] = v.(A)
	}
	return out
}

// Gather evaluates effects sequentially, yielding their values in input
// order. The first failure short-circuits the remainder.
func Gather[A any](effects []Effect[A]) Effect[[]A] {
	nodes := nodesOf(effects)
	return fromNode[[]A](&opNode{
		name: "Gather",
		f: func(rt *runEnv, sc *scope) (Erased, error) {
			vs, err := rt.gatherNodes(sc, nodes)
			if err != nil {
				return nil, err
			}
			return typedSlice[A](vs), nil
		},
	})
}

// GatherAsync evaluates effects concurrently. Result ordering always
// matches input ordering regardless of completion order. The first error
// observed becomes the outcome, but pending siblings are not cancelled.
func GatherAsync[A any](effects []Effect[A]) Effect[[]A] {
	nodes := nodesOf(effects)
	return fromNode[[]A](&opNode{
		name: "GatherAsync",
		f: func(rt *runEnv, sc *scope) (Erased, error) {
			vs, err := rt.gatherNodesAsync(sc, nodes)
			if err != nil {
				return nil, err
			}
			return typedSlice[A](vs), nil
		},
	})
}

// GatherSeq is [Gather] over a lazy sequence. The sequence is consumed
// afresh on every evaluation, so re-running the effect re-runs a
// restartable source; a one-shot source supports a single run.
func GatherSeq[A any](effects iter.Seq[Effect[A]]) Effect[[]A] {
	return fromNode[[]A](&opNode{
		name: "GatherSeq",
		f: func(rt *runEnv, sc *scope) (Erased, error) {
			out := make([]A, 0)
			for e := range effects {
				v, err := rt.eval(e.n, sc)
				if err != nil {
					return nil, err
				}
				out = append(out, v.(A))
			}
			return out, nil
		},
	})
}

// GatherAsyncSeq is [GatherAsync] over a lazy sequence, materialized
// afresh on every evaluation.
func GatherAsyncSeq[A any](effects iter.Seq[Effect[A]]) Effect[[]A] {
	return fromNode[[]A](&opNode{
		name: "GatherAsyncSeq",
		f: func(rt *runEnv, sc *scope) (Erased, error) {
			var nodes []node
			for e := range effects {
				nodes = append(nodes, e.n)
			}
			vs, err := rt.gatherNodesAsync(sc, nodes)
			if err != nil {
				return nil, err
			}
			return typedSlice[A](vs), nil
		},
	})
}

// ForEach maps each input through an effect-returning function,
// sequentially, collecting values in input order.
func ForEach[A, B any](items []A, f func(A) Effect[B]) Effect[[]B] {
	return fromNode[[]B](&opNode{
		name: "ForEach",
		f: func(rt *runEnv, sc *scope) (Erased, error) {
			out := make([]B, 0, len(items))
			for _, item := range items {
				v, err := rt.eval(f(item).n, sc)
				if err != nil {
					return nil, err
				}
				out = append(out, v.(B))
			}
			return out, nil
		},
	})
}

// ForEachAsync is [ForEach] with concurrent evaluation; ordering of the
// collected values still matches input ordering.
func ForEachAsync[A, B any](items []A, f func(A) Effect[B]) Effect[[]B] {
	return fromNode[[]B](&opNode{
		name: "ForEachAsync",
		f: func(rt *runEnv, sc *scope) (Erased, error) {
			nodes := make([]node, len(items))
			for i, item := range items {
				nodes[i] = f(item).n
			}
			vs, err := rt.gatherNodesAsync(sc, nodes)
			if err != nil {
				return nil, err
			}
			return typedSlice[B](vs), nil
		},
	})
}

// ForEachSeq is [ForEach] over a lazy sequence, consumed afresh per
// evaluation.
func ForEachSeq[A, B any](items iter.Seq[A], f func(A) Effect[B]) Effect[[]B] {
	return fromNode[[]B](&opNode{
		name: "ForEachSeq",
		f: func(rt *runEnv, sc *scope) (Erased, error) {
			out := make([]B, 0)
			for item := range items {
				v, err := rt.eval(f(item).n, sc)
				if err != nil {
					return nil, err
				}
				out = append(out, v.(B))
			}
			return out, nil
		},
	})
}

// Filter keeps the inputs whose predicate effect yields true, evaluating
// predicates sequentially and preserving input order.
func Filter[A any](items []A, pred func(A) Effect[bool]) Effect[[]A] {
	return fromNode[[]A](&opNode{
		name: "Filter",
		f: func(rt *runEnv, sc *scope) (Erased, error) {
			out := make([]A, 0, len(items))
			for _, item := range items {
				v, err := rt.eval(pred(item).n, sc)
				if err != nil {
					return nil, err
				}
				if v.(bool) {
					out = append(out, item)
				}
			}
			return out, nil
		},
	})
}

// FilterAsync is [Filter] with concurrent predicate evaluation; input
// order is preserved in the result.
func FilterAsync[A any](items []A, pred func(A) Effect[bool]) Effect[[]A] {
	return fromNode[[]A](&opNode{
		name: "FilterAsync",
		f: func(rt *runEnv, sc *scope) (Erased, error) {
			nodes := make([]node, len(items))
			for i, item := range items {
				nodes[i] = pred(item).n
			}
			vs, err := rt.gatherNodesAsync(sc, nodes)
			if err != nil {
				return nil, err
			}
			out := make([]A, 0, len(items))
			for i, v := range vs {
				if v.(bool) {
					out = append(out, items[i])
				}
			}
			return out, nil
		},
	})
}

// FilterSeq is [Filter] over a lazy sequence, consumed afresh per
// evaluation.
func FilterSeq[A any](items iter.Seq[A], pred func(A) Effect[bool]) Effect[[]A] {
	return fromNode[[]A](&opNode{
		name: "FilterSeq",
		f: func(rt *runEnv, sc *scope) (Erased, error) {
			out := make([]A, 0)
			for item := range items {
				v, err := rt.eval(pred(item).n, sc)
				if err != nil {
					return nil, err
				}
				if v.(bool) {
					out = append(out, item)
				}
			}
			return out, nil
		},
	})
}

// Lift2 applies a binary function to the values of two effects, evaluated
// sequentially.
func Lift2[A, B, C any](f func(A, B) C) func(Effect[A], Effect[B]) Effect[C] {
	return func(ea Effect[A], eb Effect[B]) Effect[C] {
		return AndThen(ea, func(a A) Effect[C] {
			return Map(eb, func(b B) C {
				return f(a, b)
			})
		})
	}
}

// Lift3 applies a ternary function to the values of three effects,
// evaluated sequentially.
func Lift3[A, B, C, D any](f func(A, B, C) D) func(Effect[A], Effect[B], Effect[C]) Effect[D] {
	return func(ea Effect[A], eb Effect[B], ec Effect[C]) Effect[D] {
		return AndThen(ea, func(a A) Effect[D] {
			return AndThen(eb, func(b B) Effect[D] {
				return Map(ec, func(c C) D {
					return f(a, b, c)
				})
			})
		})
	}
}

// Lift2Async is [Lift2] with the two effects evaluated concurrently.
func Lift2Async[A, B, C any](f func(A, B) C) func(Effect[A], Effect[B]) Effect[C] {
	return func(ea Effect[A], eb Effect[B]) Effect[C] {
		nodes := []node{ea.n, eb.n}
		return fromNode[C](&opNode{
			name: "Lift2Async",
			f: func(rt *runEnv, sc *scope) (Erased, error) {
				vs, err := rt.gatherNodesAsync(sc, nodes)
				if err != nil {
					return nil, err
				}
				return f(vs[0].(A), vs[1].(B)), nil
			},
		})
	}
}

// Lift2IO is [Lift2] with the function itself dispatched to the I/O pool.
func Lift2IO[A, B, C any](f func(A, B) C) func(Effect[A], Effect[B]) Effect[C] {
	return func(ea Effect[A], eb Effect[B]) Effect[C] {
		return AndThen(ea, func(a A) Effect[C] {
			return AndThen(eb, func(b B) Effect[C] {
				return BlockingIO(func(context.Context) (C, error) {
					return f(a, b), nil
				})
			})
		})
	}
}

// Lift2CPU is [Lift2] with the function itself dispatched to the CPU pool.
func Lift2CPU[A, B, C any](f func(A, B) C) func(Effect[A], Effect[B]) Effect[C] {
	return func(ea Effect[A], eb Effect[B]) Effect[C] {
		return AndThen(ea, func(a A) Effect[C] {
			return AndThen(eb, func(b B) Effect[C] {
				return BlockingCPU(func(context.Context) (C, error) {
					return f(a, b), nil
				})
			})
		})
	}
}

// Lift3Async is [Lift3] with the three effects evaluated concurrently.
func Lift3Async[A, B, C, D any](f func(A, B, C) D) func(Effect[A], Effect[B], Effect[C]) Effect[D] {
	return func(ea Effect[A], eb Effect[B], ec Effect[C]) Effect[D] {
		nodes := []node{ea.n, eb.n, ec.n}
		return fromNode[D](&opNode{
			name: "Lift3Async",
			f: func(rt *runEnv, sc *scope) (Erased, error) {
				vs, err := rt.gatherNodesAsync(sc, nodes)
				if err != nil {
					return nil, err
				}
				return f(vs[0].(A), vs[1].(B), vs[2].(C)), nil
			},
		})
	}
}

// Lift3IO is [Lift3] with the function itself dispatched to the I/O pool.
func Lift3IO[A, B, C, D any](f func(A, B, C) D) func(Effect[A], Effect[B], Effect[C]) Effect[D] {
	return func(ea Effect[A], eb Effect[B], ec Effect[C]) Effect[D] {
		return AndThen(ea, func(a A) Effect[D] {
			return AndThen(eb, func(b B) Effect[D] {
				return AndThen(ec, func(c C) Effect[D] {
					return BlockingIO(func(context.Context) (D, error) {
						return f(a, b, c), nil
					})
				})
			})
		})
	}
}

// Lift3CPU is [Lift3] with the function itself dispatched to the CPU pool.
func Lift3CPU[A, B, C, D any](f func(A, B, C) D) func(Effect[A], Effect[B], Effect[C]) Effect[D] {
	return func(ea Effect[A], eb Effect[B], ec Effect[C]) Effect[D] {
		return AndThen(ea, func(a A) Effect[D] {
			return AndThen(eb, func(b B) Effect[D] {
				return AndThen(ec, func(c C) Effect[D] {
					return BlockingCPU(func(context.Context) (D, error) {
						return f(a, b, c), nil
					})
				})
			})
		})
	}
}

// Combine2 is [Lift2] with the arguments flipped for call-site ergonomics:
// the effects come first, the combining function last.
func Combine2[A, B, C any](ea Effect[A], eb Effect[B]) func(func(A, B) C) Effect[C] {
	return func(f func(A, B) C) Effect[C] {
		return Lift2(f)(ea, eb)
	}
}

// Combine3 is [Lift3] with the arguments flipped.
func Combine3[A, B, C, D any](ea Effect[A], eb Effect[B], ec Effect[C]) func(func(A, B, C) D) Effect[D] {
	return func(f func(A, B, C) D) Effect[D] {
		return Lift3(f)(ea, eb, ec)
	}
}

// Combine2Async is [Lift2Async] with the arguments flipped.
func Combine2Async[A, B, C any](ea Effect[A], eb Effect[B]) func(func(A, B) C) Effect[C] {
	return func(f func(A, B) C) Effect[C] {
		return Lift2Async(f)(ea, eb)
	}
}

// Combine2IO is [Lift2IO] with the arguments flipped.
func Combine2IO[A, B, C any](ea Effect[A], eb Effect[B]) func(func(A, B) C) Effect[C] {
	return func(f func(A, B) C) Effect[C] {
		return Lift2IO(f)(ea, eb)
	}
}

// Combine2CPU is [Lift2CPU] with the arguments flipped.
func Combine2CPU[A, B, C any](ea Effect[A], eb Effect[B]) func(func(A, B) C) Effect[C] {
	return func(f func(A, B) C) Effect[C] {
		return Lift2CPU(f)(ea, eb)
	}
}

// Combine3Async is [Lift3Async] with the arguments flipped.
func Combine3Async[A, B, C, D any](ea Effect[A], eb Effect[B], ec Effect[C]) func(func(A, B, C) D) Effect[D] {
	return func(f func(A, B, C) D) Effect[D] {
		return Lift3Async(f)(ea, eb, ec)
	}
}

// Combine3IO is [Lift3IO] with the arguments flipped.
func Combine3IO[A, B, C, D any](ea Effect[A], eb Effect[B], ec Effect[C]) func(func(A, B, C) D) Effect[D] {
	return func(f func(A, B, C) D) Effect[D] {
		return Lift3IO(f)(ea, eb, ec)
	}
}

// Combine3CPU is [Lift3CPU] with the arguments flipped.
func Combine3CPU[A, B, C, D any](ea Effect[A], eb Effect[B], ec Effect[C]) func(func(A, B, C) D) Effect[D] {
	return func(f func(A, B, C) D) Effect[D] {
		return Lift3CPU(f)(ea, eb, ec)
	}
}

// branchOutcome carries one race/timeout branch's settlement back to the
// coordinating goroutine, including any terminal panic to re-raise.
type branchOutcome struct {
	v     Erased
	err   error
	pan   any
	first bool
	child *runEnv
}

// launchBranch evaluates n on a forked child runEnv. settled decides which
// branch claimed first settlement.
func launchBranch(rt *runEnv, sc *scope, n node, settled *settleGuard, out chan<- branchOutcome) *runEnv {
	child := rt.fork()
	go func() {
		o := branchOutcome{child: child}
		func() {
			defer func() {
				if r := recover(); r != nil {
					o.pan = r
				}
			}()
			o.v, o.err = child.eval(n, sc)
		}()
		o.first = settled.claim()
		out <- o
	}()
	return child
}

// Race runs e and other concurrently. Whichever settles first, with
// success or failure, determines the outcome. The loser's branch is
// cancelled and its pending resource releases run before the race settles;
// the winner's releases are adopted by the enclosing run. A terminal panic
// in the winning branch is re-raised; the losing branch's panic is
// discarded with the rest of its outcome, since cancellation routinely
// makes a discarded branch fail in ways the winner must not inherit.
func (e Effect[A]) Race(other Effect[A]) Effect[A] {
	n1, n2 := e.n, other.n
	return fromNode[A](&opNode{
		name: "Race",
		f: func(rt *runEnv, sc *scope) (Erased, error) {
			var settled settleGuard
			out := make(chan branchOutcome, 2)
			c1 := launchBranch(rt, sc, n1, &settled, out)
			c2 := launchBranch(rt, sc, n2, &settled, out)

			a := <-out
			c1.cancel()
			c2.cancel()
			b := <-out

			win, lose := a, b
			if b.first {
				win, lose = b, a
			}
			lose.child.cleanups.drain()
			rt.adopt(win.child)
			if win.pan != nil {
				panic(win.pan)
			}
			return win.v, win.err
		},
	})
}

// Timeout fails with [ErrTimeout] if e has not settled after d. On
// timeout the effect's branch is cancelled and its pending releases run
// before the failure is reported; its outcome, panics included, is
// discarded like a race loser's.
func (e Effect[A]) Timeout(d time.Duration) Effect[A] {
	src := e.n
	return fromNode[A](&opNode{
		name: "Timeout",
		f: func(rt *runEnv, sc *scope) (Erased, error) {
			var settled settleGuard
			out := make(chan branchOutcome, 1)
			child := launchBranch(rt, sc, src, &settled, out)

			timer := time.NewTimer(d)
			defer timer.Stop()
			select {
			case o := <-out:
				child.cancel()
				rt.adopt(child)
				if o.pan != nil {
					panic(o.pan)
				}
				return o.v, o.err
			case <-timer.C:
				child.cancel()
				<-out
				child.cleanups.drain()
				return nil, ErrTimeout
			case <-rt.ctx.Done():
				child.cancel()
				<-out
				child.cleanups.drain()
				return nil, rt.ctx.Err()
			}
		},
	})
}
