// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import (
	"errors"
	"fmt"
	"sync"
)

// eval is the trampolined interpreter. It reduces the outermost node into
// simpler nodes plus explicit, heap-allocated continuation frames, then
// unwinds the frames iteratively against the settled outcome. Evaluating a
// chain of N sequencing nodes grows the frame slice, never the native call
// stack: eval recurses natively only where an operation is semantically a
// fresh sub-evaluation (finalizers, memo cells, runtime ops), each of which
// adds constant depth.
//
// eval is re-entrant: concurrent branches of one run evaluate on separate
// goroutines with separate frame stacks, sharing only the runtime and the
// immutable scope chain.
func (rt *runEnv) eval(n node, sc *scope) (Erased, error) {
	stackp := acquireStack()
	defer releaseStack(stackp)

	cur := n
	var val Erased
	var err error

reduce:
	for {
		// Decompose composite nodes, pushing one continuation frame per
		// layer, until a leaf settles into an outcome.
	decompose:
		for {
			switch t := cur.(type) {
			case *successNode:
				val, err = t.v, nil
				break decompose
			case *throwNode:
				val, err = nil, t.err
				break decompose
			case *dependNode:
				v, ok := sc.resolve(t.match)
				if !ok {
					panic(&CapabilityError{
						Capability: t.capability,
						Have:       fmt.Sprintf("%T", sc.env),
						RunID:      rt.id,
					})
				}
				val, err = v, nil
				break decompose
			case *callableNode:
				val, err = rt.dispatch(t.class, t.f, sc.env)
				break decompose
			case *futureNode:
				val, err = t.wait(rt.ctx)
				break decompose
			case *memoNode:
				val, err = t.cell.eval(rt, sc, t.src)
				break decompose
			case *opNode:
				val, err = t.f(rt, sc)
				break decompose
			case *bindNode:
				*stackp = append(*stackp, &bindFrame{f: t.f})
				cur = t.src
			case *mapNode:
				*stackp = append(*stackp, &mapFrame{f: t.f})
				cur = t.src
			case *thenNode:
				*stackp = append(*stackp, &thenFrame{next: t.next})
				cur = t.src
			case *recoverNode:
				*stackp = append(*stackp, &recoverFrame{f: t.f})
				cur = t.src
			case *eitherNode:
				*stackp = append(*stackp, &eitherFrame{wrap: t.wrap})
				cur = t.src
			case *ensureNode:
				*stackp = append(*stackp, &ensureFrame{fin: t.fin})
				cur = t.src
			case *provideNode:
				*stackp = append(*stackp, &scopeFrame{prev: sc})
				sc = sc.child(t.instance)
				cur = t.src
			case nil:
				panic("effect: evaluating zero-value Effect")
			default:
				panic("effect: unknown node type")
			}
		}

		// Unwind: pop continuation frames against the settled outcome.
		// Value frames are skipped on failure, failure frames on success;
		// either, ensure, and scope frames see both channels.
		for {
			s := *stackp
			if len(s) == 0 {
				return val, err
			}
			f := s[len(s)-1]
			s[len(s)-1] = nil
			*stackp = s[:len(s)-1]

			switch t := f.(type) {
			case *bindFrame:
				if err != nil {
					continue
				}
				cur = t.f(val)
				continue reduce
			case *mapFrame:
				if err != nil {
					continue
				}
				val = t.f(val)
			case *thenFrame:
				if err != nil {
					continue
				}
				cur = t.next
				continue reduce
			case *recoverFrame:
				if err == nil {
					continue
				}
				cur = t.f(err)
				err = nil
				continue reduce
			case *eitherFrame:
				val, err = t.wrap(err, val), nil
			case *ensureFrame:
				// The finalizer is a fresh sub-evaluation; its outcome
				// never masks the one being propagated.
				_, _ = rt.eval(t.fin, sc)
			case *scopeFrame:
				sc = t.prev
			default:
				panic("effect: unknown frame type")
			}
		}
	}
}

// memoCell caches the first outcome of a memoized subtree. The mutex is
// held across the underlying evaluation so a concurrent second caller
// blocks until the first completes and then observes the cached outcome —
// exactly-once execution under concurrency within and across runs.
type memoCell struct {
	mu   sync.Mutex
	done bool
	v    Erased
	err  error
}

func (c *memoCell) eval(rt *runEnv, sc *scope, src node) (Erased, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done {
		return c.v, c.err
	}
	v, err := rt.eval(src, sc)
	if err != nil && rt.ctx.Err() != nil && errors.Is(err, rt.ctx.Err()) {
		// The failure is this run's cancellation, not an outcome of the
		// computation. Leave the cell empty so a later run executes.
		return v, err
	}
	c.v, c.err = v, err
	c.done = true
	return v, err
}
