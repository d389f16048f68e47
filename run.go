// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import (
	"context"
	"runtime"
	"time"

	"github.com/google/uuid"
)

// defaultIOWorkers bounds the lazily-created I/O pool when no option
// overrides it. The CPU pool defaults to GOMAXPROCS.
const defaultIOWorkers = 64

// runEnv is the execution-scoped state of one top-level Run: cancellation
// context, lazily-created dispatch pools, and the LIFO resource-release
// stack. Created fresh per Run, discarded when the run settles. Race and
// timeout fork child runEnvs that share the pools but carry their own
// cancellation and release stack.
type runEnv struct {
	id     uuid.UUID
	ctx    context.Context
	cancel context.CancelFunc
	pools  *poolSet

	cleanups cleanupStack
	closed   settleGuard
}

type runConfig struct {
	base   context.Context
	maxIO  int
	maxCPU int
}

// RunOption configures one top-level evaluation.
type RunOption func(*runConfig)

// WithMaxIOWorkers bounds the I/O-bound dispatch pool.
func WithMaxIOWorkers(n int) RunOption {
	return func(c *runConfig) {
		if n > 0 {
			c.maxIO = n
		}
	}
}

// WithMaxCPUWorkers bounds the CPU-bound dispatch pool.
func WithMaxCPUWorkers(n int) RunOption {
	return func(c *runConfig) {
		if n > 0 {
			c.maxCPU = n
		}
	}
}

// WithContext roots the run's cancellation context. Cancelling it aborts
// pending suspensions; plain sequencing chains are unaffected.
func WithContext(ctx context.Context) RunOption {
	return func(c *runConfig) {
		if ctx != nil {
			c.base = ctx
		}
	}
}

func newRunEnv(opts ...RunOption) *runEnv {
	cfg := runConfig{
		base:   context.Background(),
		maxIO:  defaultIOWorkers,
		maxCPU: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	ctx, cancel := context.WithCancel(cfg.base)
	return &runEnv{
		id:     uuid.New(),
		ctx:    ctx,
		cancel: cancel,
		pools:  &poolSet{maxIO: cfg.maxIO, maxCPU: cfg.maxCPU},
	}
}

// fork creates a child runEnv for one branch of a race or timeout. The
// child shares the run's pools and identity but owns its cancellation and
// release stack, so the branch can be cancelled and drained independently.
func (rt *runEnv) fork() *runEnv {
	ctx, cancel := context.WithCancel(rt.ctx)
	return &runEnv{
		id:     rt.id,
		ctx:    ctx,
		cancel: cancel,
		pools:  rt.pools,
	}
}

// adopt transfers a settled child's pending releases to rt, preserving
// LIFO order, so a race winner's resources release when the enclosing
// scope exits rather than at the branch boundary.
func (rt *runEnv) adopt(child *runEnv) {
	rt.cleanups.adopt(&child.cleanups)
}

// shutdown runs pending releases in LIFO order, cancels the context, and
// waits out the dispatch pools. Idempotent; safe to call on panicking
// unwinds.
func (rt *runEnv) shutdown() {
	if !rt.closed.claim() {
		return
	}
	rt.cleanups.drain()
	rt.cancel()
	rt.pools.close()
}

// Sleeper is the clock capability consumed by the repeat/retry engine and
// by [Sleep]. When a provided instance or the ambient environment
// implements it, scheduled delays go through it; otherwise delays wait on
// a real timer. Test environments supply a Sleeper to make schedules
// instantaneous and observable.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

var matchSleeper = func(v Erased) (Erased, bool) {
	s, ok := v.(Sleeper)
	if !ok {
		return nil, false
	}
	return s, true
}

// sleep waits d through the scope's Sleeper capability, falling back to a
// real timer bound to the run's cancellation context.
func (rt *runEnv) sleep(sc *scope, d time.Duration) error {
	if v, ok := sc.resolve(matchSleeper); ok {
		return v.(Sleeper).Sleep(rt.ctx, d)
	}
	if d <= 0 {
		return rt.ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-rt.ctx.Done():
		return rt.ctx.Err()
	}
}

// Sleep creates an effect that waits d through the scope's clock
// capability, or a real timer when none is in scope.
func Sleep(d time.Duration) Effect[struct{}] {
	return fromNode[struct{}](&opNode{
		name: "Sleep",
		f: func(rt *runEnv, sc *scope) (Erased, error) {
			if err := rt.sleep(sc, d); err != nil {
				return nil, err
			}
			return struct{}{}, nil
		},
	})
}

// Run evaluates an effect against an environment and blocks until the
// whole graph settles. It is the single entry point of the evaluator.
//
// The environment must satisfy every capability the graph requests
// transitively via [Depend]; an unsatisfied capability is a defect and
// panics with [*CapabilityError]. An unrecovered error-channel failure is
// returned as the error result. Terminal failures — panics escaping every
// Catch — propagate to the caller after resources are released and pools
// are closed.
func Run[E, A any](e Effect[A], env E, opts ...RunOption) (A, error) {
	rt := newRunEnv(opts...)
	defer rt.shutdown()

	v, err := rt.eval(e.n, rootScope(env))
	if err != nil {
		var zero A
		return zero, err
	}
	if v == nil {
		var zero A
		return zero, nil
	}
	return v.(A), nil
}
