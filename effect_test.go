// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect_test

import (
	"context"
	"errors"
	"iter"
	"sync/atomic"
	"testing"

	"code.hybscloud.com/effect"
)

var errBoom = errors.New("boom")

func run[A any](t *testing.T, e effect.Effect[A]) A {
	t.Helper()
	v, err := effect.Run(e, struct{}{})
	if err != nil {
		t.Fatalf("unexpected failure: %v", err)
	}
	return v
}

func TestSuccess(t *testing.T) {
	if got := run(t, effect.Success(42)); got != 42 {
		t.Fatalf("got %d, want 42", got)
	}
}

func TestThrow(t *testing.T) {
	_, err := effect.Run(effect.Throw[int](errBoom), struct{}{})
	if !errors.Is(err, errBoom) {
		t.Fatalf("got %v, want %v", err, errBoom)
	}
}

func TestConstructionIsInert(t *testing.T) {
	ran := false
	e := effect.Suspend(func() (int, error) {
		ran = true
		return 1, nil
	})
	chained := effect.AndThen(e, func(x int) effect.Effect[int] {
		return effect.Success(x + 1)
	})
	if ran {
		t.Fatal("thunk ran before Run")
	}
	if got := run(t, chained); got != 2 {
		t.Fatalf("got %d, want 2", got)
	}
	if !ran {
		t.Fatal("thunk did not run")
	}
}

func TestRerunRepeatsSideEffects(t *testing.T) {
	n := 0
	e := effect.Suspend(func() (int, error) {
		n++
		return n, nil
	})
	if got := run(t, e); got != 1 {
		t.Fatalf("first run: got %d, want 1", got)
	}
	if got := run(t, e); got != 2 {
		t.Fatalf("second run: got %d, want 2", got)
	}
}

func TestAndThenShortCircuits(t *testing.T) {
	called := false
	e := effect.AndThen(effect.Throw[int](errBoom), func(int) effect.Effect[int] {
		called = true
		return effect.Success(0)
	})
	_, err := effect.Run(e, struct{}{})
	if !errors.Is(err, errBoom) {
		t.Fatalf("got %v, want %v", err, errBoom)
	}
	if called {
		t.Fatal("continuation ran after failure")
	}
}

func TestDiscardAndThen(t *testing.T) {
	order := []string{}
	first := effect.Suspend(func() (int, error) {
		order = append(order, "first")
		return 1, nil
	})
	second := effect.Suspend(func() (string, error) {
		order = append(order, "second")
		return "done", nil
	})
	got := run(t, effect.DiscardAndThen(first, second))
	if got != "done" {
		t.Fatalf("got %q, want %q", got, "done")
	}
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("evaluation order %v", order)
	}
}

func TestRecover(t *testing.T) {
	e := effect.Throw[int](errBoom).Recover(func(err error) effect.Effect[int] {
		if !errors.Is(err, errBoom) {
			t.Fatalf("recover saw %v", err)
		}
		return effect.Success(7)
	})
	if got := run(t, e); got != 7 {
		t.Fatalf("got %d, want 7", got)
	}
}

func TestRecoverSkipsSuccess(t *testing.T) {
	called := false
	e := effect.Success(1).Recover(func(error) effect.Effect[int] {
		called = true
		return effect.Success(0)
	})
	if got := run(t, e); got != 1 {
		t.Fatalf("got %d, want 1", got)
	}
	if called {
		t.Fatal("recover ran on success")
	}
}

func TestEitherAndAbsolve(t *testing.T) {
	t.Run("failure becomes left", func(t *testing.T) {
		r := run(t, effect.ToEither(effect.Throw[int](errBoom)))
		err, ok := r.GetLeft()
		if !ok || !errors.Is(err, errBoom) {
			t.Fatalf("got %v, want Left(%v)", r, errBoom)
		}
	})
	t.Run("success becomes right", func(t *testing.T) {
		r := run(t, effect.ToEither(effect.Success(3)))
		v, ok := r.GetRight()
		if !ok || v != 3 {
			t.Fatalf("got %v, want Right(3)", r)
		}
	})
	t.Run("absolve restores failure", func(t *testing.T) {
		e := effect.Absolve(effect.ToEither(effect.Throw[int](errBoom)))
		_, err := effect.Run(e, struct{}{})
		if !errors.Is(err, errBoom) {
			t.Fatalf("got %v, want %v", err, errBoom)
		}
	})
}

func TestEnsure(t *testing.T) {
	t.Run("runs on success", func(t *testing.T) {
		ran := false
		fin := effect.Suspend(func() (struct{}, error) {
			ran = true
			return struct{}{}, nil
		})
		if got := run(t, effect.Success(5).Ensure(fin)); got != 5 {
			t.Fatalf("got %d, want 5", got)
		}
		if !ran {
			t.Fatal("finalizer skipped")
		}
	})
	t.Run("runs on failure and keeps original error", func(t *testing.T) {
		ran := false
		fin := effect.Suspend(func() (struct{}, error) {
			ran = true
			return struct{}{}, nil
		})
		_, err := effect.Run(effect.Throw[int](errBoom).Ensure(fin), struct{}{})
		if !errors.Is(err, errBoom) {
			t.Fatalf("got %v, want %v", err, errBoom)
		}
		if !ran {
			t.Fatal("finalizer skipped on failure")
		}
	})
	t.Run("finalizer failure does not mask outcome", func(t *testing.T) {
		fin := effect.Throw[struct{}](errors.New("finalizer failed"))
		got, err := effect.Run(effect.Success(5).Ensure(fin), struct{}{})
		if err != nil {
			t.Fatalf("unexpected failure: %v", err)
		}
		if got != 5 {
			t.Fatalf("got %d, want 5", got)
		}
	})
}

type greeter interface {
	Greet() string
}

type english struct{}

func (english) Greet() string { return "hello" }

type french struct{}

func (french) Greet() string { return "bonjour" }

func TestDepend(t *testing.T) {
	e := effect.Map(effect.Depend[greeter](), func(g greeter) string {
		return g.Greet()
	})
	got, err := effect.Run(e, english{})
	if err != nil {
		t.Fatalf("unexpected failure: %v", err)
	}
	if got != "hello" {
		t.Fatalf("got %q, want %q", got, "hello")
	}
}

func TestProvideOverridesEnvironment(t *testing.T) {
	e := effect.Map(effect.Depend[greeter](), func(g greeter) string {
		return g.Greet()
	})
	got, err := effect.Run(effect.Provide[greeter](e, french{}), english{})
	if err != nil {
		t.Fatalf("unexpected failure: %v", err)
	}
	if got != "bonjour" {
		t.Fatalf("got %q, want %q", got, "bonjour")
	}
}

func TestProvideInnermostWins(t *testing.T) {
	e := effect.Map(effect.Depend[greeter](), func(g greeter) string {
		return g.Greet()
	})
	wrapped := effect.Provide[greeter](effect.Provide[greeter](e, french{}), english{})
	got := run(t, wrapped)
	if got != "bonjour" {
		t.Fatalf("got %q, want %q", got, "bonjour")
	}
}

func TestProvideScopesDoNotLeak(t *testing.T) {
	ask := effect.Map(effect.Depend[greeter](), func(g greeter) string {
		return g.Greet()
	})
	// The override applies inside the provided subgraph only; the sibling
	// after it sees the ambient environment again.
	e := effect.AndThen(effect.Provide[greeter](ask, french{}), func(inner string) effect.Effect[[2]string] {
		return effect.Map(ask, func(outer string) [2]string {
			return [2]string{inner, outer}
		})
	})
	got, err := effect.Run(e, english{})
	if err != nil {
		t.Fatalf("unexpected failure: %v", err)
	}
	if got != [2]string{"bonjour", "hello"} {
		t.Fatalf("got %v", got)
	}
}

func TestUnsatisfiedCapabilityPanics(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic")
		}
		ce, ok := r.(*effect.CapabilityError)
		if !ok {
			t.Fatalf("panic value %T, want *CapabilityError", r)
		}
		if ce.Capability == "" {
			t.Fatal("capability name missing")
		}
	}()
	_, _ = effect.Run(effect.Depend[greeter](), struct{}{})
}

func TestCatchReclassifiesMatchedPanic(t *testing.T) {
	div := effect.Catch(effect.As[error](), func(d int) int {
		if d == 0 {
			panic(errBoom)
		}
		return 10 / d
	})
	if got := run(t, div(2)); got != 5 {
		t.Fatalf("got %d, want 5", got)
	}
	_, err := effect.Run(div(0), struct{}{})
	if !errors.Is(err, errBoom) {
		t.Fatalf("got %v, want %v", err, errBoom)
	}
}

func TestUnmatchedPanicIsTerminal(t *testing.T) {
	type custom struct{ msg string }
	boom := effect.Catch(effect.As[error](), func(int) int {
		panic(custom{msg: "not an error"})
	})
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic to escape Run")
		}
		if c, ok := r.(custom); !ok || c.msg != "not an error" {
			t.Fatalf("panic value %v", r)
		}
	}()
	_, _ = effect.Run(boom(1), struct{}{})
}

func TestCatchRecoveredPanicIsRecoverable(t *testing.T) {
	boom := effect.Catch(effect.AnyPanic(), func(int) int {
		panic("raw string")
	})
	e := boom(0).Recover(func(error) effect.Effect[int] {
		return effect.Success(-1)
	})
	if got := run(t, e); got != -1 {
		t.Fatalf("got %d, want -1", got)
	}
}

func TestMemoize(t *testing.T) {
	t.Run("sequenced with itself runs once", func(t *testing.T) {
		n := 0
		memo := effect.Suspend(func() (int, error) {
			n++
			return n, nil
		}).Memoize()
		pair := effect.AndThen(memo, func(a int) effect.Effect[[2]int] {
			return effect.Map(memo, func(b int) [2]int {
				return [2]int{a, b}
			})
		})
		if got := run(t, pair); got != [2]int{1, 1} {
			t.Fatalf("got %v", got)
		}
		if n != 1 {
			t.Fatalf("ran %d times, want 1", n)
		}
	})
	t.Run("cached across runs of the same value", func(t *testing.T) {
		n := 0
		memo := effect.Suspend(func() (int, error) {
			n++
			return n, nil
		}).Memoize()
		run(t, memo)
		run(t, memo)
		if n != 1 {
			t.Fatalf("ran %d times, want 1", n)
		}
	})
	t.Run("failures cached too", func(t *testing.T) {
		n := 0
		memo := effect.Suspend(func() (int, error) {
			n++
			return 0, errBoom
		}).Memoize()
		_, err1 := effect.Run(memo, struct{}{})
		_, err2 := effect.Run(memo, struct{}{})
		if !errors.Is(err1, errBoom) || !errors.Is(err2, errBoom) {
			t.Fatalf("got %v / %v", err1, err2)
		}
		if n != 1 {
			t.Fatalf("ran %d times, want 1", n)
		}
	})
	t.Run("a run's cancellation is not cached", func(t *testing.T) {
		var runs atomic.Int32
		memo := effect.BlockingIO(func(ctx context.Context) (int32, error) {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
			return runs.Add(1), nil
		}).Memoize()

		cancelled, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := effect.Run(memo, struct{}{}, effect.WithContext(cancelled)); !errors.Is(err, context.Canceled) {
			t.Fatalf("got %v, want %v", err, context.Canceled)
		}
		if got := run(t, memo); got != 1 {
			t.Fatalf("got %d, want the computation to run after the cancelled attempt", got)
		}
		run(t, memo)
		if runs.Load() != 1 {
			t.Fatalf("ran %d times, want 1", runs.Load())
		}
	})
	t.Run("independent copies memoize independently", func(t *testing.T) {
		n := 0
		base := effect.Suspend(func() (int, error) {
			n++
			return n, nil
		})
		a := base.Memoize()
		b := base.Memoize()
		pair := effect.AndThen(a, func(x int) effect.Effect[[2]int] {
			return effect.Map(b, func(y int) [2]int {
				return [2]int{x, y}
			})
		})
		if got := run(t, pair); got != [2]int{1, 2} {
			t.Fatalf("got %v", got)
		}
	})
}

func TestPurify(t *testing.T) {
	double := effect.Purify(func(x int) int { return x * 2 })
	if got := run(t, double(21)); got != 42 {
		t.Fatalf("got %d, want 42", got)
	}
}

func TestMapSeq(t *testing.T) {
	e := effect.MapSeq(effect.Success(3), func(n int) iter.Seq[int] {
		return func(yield func(int) bool) {
			for i := range n {
				if !yield(i) {
					return
				}
			}
		}
	})
	seq := run(t, e)
	var got []int
	for v := range seq {
		got = append(got, v)
	}
	if len(got) != 3 || got[0] != 0 || got[2] != 2 {
		t.Fatalf("got %v", got)
	}
}

func TestFromFuture(t *testing.T) {
	f := effect.Go(func() (int, error) { return 99, nil })
	if got := run(t, effect.FromFuture(f)); got != 99 {
		t.Fatalf("got %d, want 99", got)
	}
}

func TestFromCallable(t *testing.T) {
	e := effect.FromCallable(func(g greeter) (string, error) {
		return g.Greet() + "!", nil
	})
	got, err := effect.Run(e, english{})
	if err != nil {
		t.Fatalf("unexpected failure: %v", err)
	}
	if got != "hello!" {
		t.Fatalf("got %q", got)
	}
}

func TestComposeK(t *testing.T) {
	inc := func(x int) effect.Effect[int] { return effect.Success(x + 1) }
	double := func(x int) effect.Effect[int] { return effect.Success(x * 2) }
	if got := run(t, effect.ComposeK(inc, double)(5)); got != 12 {
		t.Fatalf("got %d, want 12", got)
	}
	if got := run(t, effect.Identity(7)); got != 7 {
		t.Fatalf("got %d, want 7", got)
	}
}
