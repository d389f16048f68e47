// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import (
	"sync"

	"github.com/google/uuid"
)

// cleanupStack is the LIFO resource-release stack of one runEnv. Pushes
// may come from concurrent branches of the same run.
type cleanupStack struct {
	mu  sync.Mutex
	fns []func() error
}

func (c *cleanupStack) push(f func() error) {
	c.mu.Lock()
	c.fns = append(c.fns, f)
	c.mu.Unlock()
}

// adopt appends another stack's pending releases, preserving their order,
// and empties the source.
func (c *cleanupStack) adopt(other *cleanupStack) {
	other.mu.Lock()
	fns := other.fns
	other.fns = nil
	other.mu.Unlock()
	if len(fns) == 0 {
		return
	}
	c.mu.Lock()
	c.fns = append(c.fns, fns...)
	c.mu.Unlock()
}

// drain runs pending releases in LIFO order. Release failures do not stop
// the drain; releases settle resources, they do not report outcomes.
func (c *cleanupStack) drain() {
	c.mu.Lock()
	fns := c.fns
	c.fns = nil
	c.mu.Unlock()
	for i := len(fns) - 1; i >= 0; i-- {
		_ = fns[i]()
	}
}

// Resource wraps an acquisition function into a scoped, lazily-acquired,
// shareable handle with guaranteed release.
//
// At most one live handle exists per Resource value per top-level run, even
// when Get is requested concurrently by multiple branches: the first caller
// acquires, every concurrent caller observes the same handle, and the
// release runs exactly once when the acquiring scope is torn down. Handle
// slots are keyed by the owning run, so concurrent runs sharing one
// Resource value each acquire their own handle, and a run never observes a
// handle another run is about to release. A slot is cleared on release, so
// a later run re-acquires.
type Resource[A any] struct {
	acquire func() (A, func() error, error)

	mu      sync.Mutex
	handles map[uuid.UUID]A
}

// NewResource creates a Resource from an acquisition function returning
// the handle and its release procedure. An acquisition failure surfaces on
// the error channel of the effect returned by Get, not as a defect.
func NewResource[A any](acquire func() (A, func() error, error)) *Resource[A] {
	return &Resource[A]{acquire: acquire}
}

// Get returns an effect that yields the resource handle, acquiring it on
// first use within a run. The release is scheduled on the evaluating
// branch's release stack: for a plain run it fires when Run settles, for a
// cancelled race branch it fires when the branch is discarded.
func (r *Resource[A]) Get() Effect[A] {
	return fromNode[A](&opNode{
		name: "Resource.Get",
		f: func(rt *runEnv, _ *scope) (Erased, error) {
			r.mu.Lock()
			defer r.mu.Unlock()
			if h, ok := r.handles[rt.id]; ok {
				return h, nil
			}
			h, release, err := r.acquire()
			if err != nil {
				return nil, err
			}
			if r.handles == nil {
				r.handles = make(map[uuid.UUID]A)
			}
			r.handles[rt.id] = h
			owner := rt.id
			rt.cleanups.push(func() error {
				r.mu.Lock()
				delete(r.handles, owner)
				r.mu.Unlock()
				if release == nil {
					return nil
				}
				return release()
			})
			return h, nil
		},
	})
}

// Bracket provides exception-safe resource handling: acquire, use,
// release, where release runs however use settles. A release failure does
// not mask use's outcome.
func Bracket[R, A any](
	acquire Effect[R],
	release func(R) Effect[struct{}],
	use func(R) Effect[A],
) Effect[A] {
	return AndThen(acquire, func(r R) Effect[A] {
		return use(r).Ensure(release(r))
	})
}

// OnError runs cleanup only if body fails, then re-throws the original
// failure. Successes pass through untouched.
func OnError[A any](body Effect[A], cleanup func(error) Effect[struct{}]) Effect[A] {
	return body.Recover(func(err error) Effect[A] {
		return DiscardAndThen(cleanup(err), Throw[A](err))
	})
}
