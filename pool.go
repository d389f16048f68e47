// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Continuation stacks are pooled across evaluations. A stack is released
// zeroed so pooled slices never pin settled values.

var stackPool = sync.Pool{
	New: func() any {
		s := make([]frame, 0, 32)
		return &s
	},
}

func acquireStack() *[]frame {
	return stackPool.Get().(*[]frame)
}

func releaseStack(s *[]frame) {
	clear(*s)
	*s = (*s)[:0]
	stackPool.Put(s)
}

// workerPool bounds concurrent pool-dispatched tasks with a weighted
// semaphore. Workers are not kept idle: each admitted task runs on its own
// goroutine, so an unused pool costs one semaphore allocation and nothing
// more.
type workerPool struct {
	sem *semaphore.Weighted
	max int64
}

func newWorkerPool(max int) *workerPool {
	return &workerPool{sem: semaphore.NewWeighted(int64(max)), max: int64(max)}
}

type poolOutcome struct {
	v   Erased
	err error
	pan any
}

// exec admits f under the pool bound and blocks until it settles or ctx is
// cancelled. A cancelled wait abandons the task: the task keeps its permit
// until it returns, preserving the bound. Panics inside f are carried back
// and re-raised on the calling goroutine, keeping terminal failure
// semantics intact across the dispatch boundary.
func (p *workerPool) exec(ctx context.Context, f func(ctx context.Context) (Erased, error)) (Erased, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	done := make(chan poolOutcome, 1)
	go func() {
		defer p.sem.Release(1)
		out := poolOutcome{}
		func() {
			defer func() {
				if r := recover(); r != nil {
					out.pan = r
				}
			}()
			out.v, out.err = f(ctx)
		}()
		done <- out
	}()
	select {
	case out := <-done:
		if out.pan != nil {
			panic(out.pan)
		}
		return out.v, out.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// drain waits for every in-flight task by acquiring the full pool weight.
func (p *workerPool) drain() {
	if err := p.sem.Acquire(context.Background(), p.max); err == nil {
		p.sem.Release(p.max)
	}
}

// poolSet owns the two dispatch pools of one top-level run. Both remain
// uninitialized until an operation requires one; a run whose graph never
// dispatches pays nothing.
type poolSet struct {
	maxIO  int
	maxCPU int

	ioOnce  sync.Once
	cpuOnce sync.Once
	ioPool  *workerPool
	cpuPool *workerPool
}

func (p *poolSet) io() *workerPool {
	p.ioOnce.Do(func() {
		p.ioPool = newWorkerPool(p.maxIO)
	})
	return p.ioPool
}

func (p *poolSet) cpu() *workerPool {
	p.cpuOnce.Do(func() {
		p.cpuPool = newWorkerPool(p.maxCPU)
	})
	return p.cpuPool
}

// close waits out any straggler tasks on pools that were actually built.
func (p *poolSet) close() {
	if p.ioPool != nil {
		p.ioPool.drain()
	}
	if p.cpuPool != nil {
		p.cpuPool.drain()
	}
}
