// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect_test

import (
	"errors"
	"testing"

	"code.hybscloud.com/effect"
)

// Deep chains must evaluate in constant goroutine stack space: the
// evaluator trampolines instead of recursing per combinator.

const chainDepth = 500

func TestDeepAndThenChain(t *testing.T) {
	e := effect.Success(0)
	for range chainDepth {
		e = effect.AndThen(e, func(x int) effect.Effect[int] {
			return effect.Success(x + 1)
		})
	}
	if got := run(t, e); got != chainDepth {
		t.Fatalf("got %d, want %d", got, chainDepth)
	}
}

func TestDeepMapChain(t *testing.T) {
	e := effect.Success(0)
	for range chainDepth {
		e = effect.Map(e, func(x int) int { return x + 1 })
	}
	if got := run(t, e); got != chainDepth {
		t.Fatalf("got %d, want %d", got, chainDepth)
	}
}

func TestDeepRecoverChain(t *testing.T) {
	e := effect.Throw[int](errors.New("start"))
	for range chainDepth {
		e = e.Recover(func(error) effect.Effect[int] {
			return effect.Throw[int](errors.New("again"))
		})
	}
	e = e.Recover(func(error) effect.Effect[int] {
		return effect.Success(-1)
	})
	if got := run(t, e); got != -1 {
		t.Fatalf("got %d, want -1", got)
	}
}

func TestDeepEitherChain(t *testing.T) {
	e := effect.Success[any](0)
	for range chainDepth {
		e = effect.Map(effect.ToEither(e), func(r effect.Either[error, any]) any {
			v, ok := r.GetRight()
			if !ok {
				err, _ := r.GetLeft()
				return err
			}
			return v
		})
	}
	if got := run(t, e); got != any(0) {
		t.Fatalf("got %v, want 0", got)
	}
}

func TestDeepDiscardAndThenChain(t *testing.T) {
	n := 0
	step := effect.Suspend(func() (struct{}, error) {
		n++
		return struct{}{}, nil
	})
	e := effect.Success(struct{}{})
	for range chainDepth {
		e = effect.DiscardAndThen(e, step)
	}
	run(t, e)
	if n != chainDepth {
		t.Fatalf("ran %d steps, want %d", n, chainDepth)
	}
}

func TestDeepEnsureChain(t *testing.T) {
	n := 0
	fin := effect.Suspend(func() (struct{}, error) {
		n++
		return struct{}{}, nil
	})
	e := effect.Success(1)
	for range chainDepth {
		e = e.Ensure(fin)
	}
	if got := run(t, e); got != 1 {
		t.Fatalf("got %d, want 1", got)
	}
	if n != chainDepth {
		t.Fatalf("ran %d finalizers, want %d", n, chainDepth)
	}
}

func TestDeepRecursiveConstruction(t *testing.T) {
	// countdown builds its continuation lazily through Suspend, so the
	// graph itself is constructed during evaluation, one layer at a time.
	var countdown func(n int) effect.Effect[int]
	countdown = func(n int) effect.Effect[int] {
		if n == 0 {
			return effect.Success(0)
		}
		return effect.AndThen(
			effect.Suspend(func() (int, error) { return n, nil }),
			func(x int) effect.Effect[int] { return countdown(x - 1) },
		)
	}
	if got := run(t, countdown(chainDepth)); got != 0 {
		t.Fatalf("got %d, want 0", got)
	}
}

func TestDeepGatherAsync(t *testing.T) {
	effects := make([]effect.Effect[int], chainDepth)
	for i := range effects {
		effects[i] = effect.Success(i)
	}
	got := run(t, effect.GatherAsync(effects))
	if len(got) != chainDepth {
		t.Fatalf("got %d results, want %d", len(got), chainDepth)
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("index %d holds %d", i, v)
		}
	}
}
