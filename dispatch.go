// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import "context"

// Three dispatch classes exist for lifted calls. Cooperative callables run
// directly on the evaluator goroutine and are assumed non-blocking.
// I/O-bound and CPU-bound callables are handed to the run's bounded pools,
// both created lazily on first use.

type dispatchClass uint8

const (
	dispatchInline dispatchClass = iota
	dispatchIO
	dispatchCPU
)

// dispatch runs f under the given class. Pool dispatch blocks the
// evaluator until the task settles or the run context is cancelled;
// cancellation surfaces on the error channel so race and timeout can
// discard the branch.
func (rt *runEnv) dispatch(class dispatchClass, f func(ctx context.Context, env Erased) (Erased, error), env Erased) (Erased, error) {
	switch class {
	case dispatchInline:
		return f(rt.ctx, env)
	case dispatchIO:
		return rt.pools.io().exec(rt.ctx, func(ctx context.Context) (Erased, error) {
			return f(ctx, env)
		})
	case dispatchCPU:
		return rt.pools.cpu().exec(rt.ctx, func(ctx context.Context) (Erased, error) {
			return f(ctx, env)
		})
	default:
		panic("effect: unknown dispatch class")
	}
}
