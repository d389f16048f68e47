// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestPoolsAreLazy(t *testing.T) {
	rt := newRunEnv()
	defer rt.shutdown()

	if _, err := rt.eval(Success(1).n, rootScope(struct{}{})); err != nil {
		t.Fatalf("unexpected failure: %v", err)
	}
	if rt.pools.ioPool != nil || rt.pools.cpuPool != nil {
		t.Fatal("pools built for a run that never dispatches")
	}

	e := BlockingIO(func(context.Context) (int, error) { return 1, nil })
	if _, err := rt.eval(e.n, rootScope(struct{}{})); err != nil {
		t.Fatalf("unexpected failure: %v", err)
	}
	if rt.pools.ioPool == nil {
		t.Fatal("I/O dispatch did not build the I/O pool")
	}
	if rt.pools.cpuPool != nil {
		t.Fatal("I/O dispatch built the CPU pool")
	}
}

func TestWorkerPoolBound(t *testing.T) {
	p := newWorkerPool(2)
	var inFlight, peak atomic.Int32
	task := func(ctx context.Context) (Erased, error) {
		n := inFlight.Add(1)
		for {
			old := peak.Load()
			if n <= old || peak.CompareAndSwap(old, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		inFlight.Add(-1)
		return nil, nil
	}
	done := make(chan struct{})
	for range 8 {
		go func() {
			_, _ = p.exec(context.Background(), task)
			done <- struct{}{}
		}()
	}
	for range 8 {
		<-done
	}
	if got := peak.Load(); got > 2 {
		t.Fatalf("observed %d concurrent tasks, bound is 2", got)
	}
}

func TestWorkerPoolExecHonorsCancellation(t *testing.T) {
	p := newWorkerPool(1)
	ctx, cancel := context.WithCancel(context.Background())
	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_, _ = p.exec(context.Background(), func(context.Context) (Erased, error) {
			close(started)
			<-release
			return nil, nil
		})
	}()
	<-started
	cancel()
	// The permit is held by the running task, so the second exec blocks in
	// Acquire until the cancelled context rejects it.
	_, err := p.exec(ctx, func(context.Context) (Erased, error) { return 1, nil })
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	close(release)
	p.drain()
}

func TestWorkerPoolPanicCrossesBoundary(t *testing.T) {
	p := newWorkerPool(1)
	defer func() {
		if recover() == nil {
			t.Fatal("panic did not cross the dispatch boundary")
		}
		p.drain()
	}()
	_, _ = p.exec(context.Background(), func(context.Context) (Erased, error) {
		panic("task defect")
	})
}

func TestSettleGuardClaimsOnce(t *testing.T) {
	var g settleGuard
	if !g.claim() {
		t.Fatal("first claim rejected")
	}
	for range 10 {
		if g.claim() {
			t.Fatal("claim granted twice")
		}
	}
}

func TestRunEnvShutdownIdempotent(t *testing.T) {
	rt := newRunEnv()
	n := 0
	rt.cleanups.push(func() error {
		n++
		return nil
	})
	rt.shutdown()
	rt.shutdown()
	if n != 1 {
		t.Fatalf("cleanups ran %d times, want 1", n)
	}
}

func TestScopeResolveOrder(t *testing.T) {
	match := func(v Erased) (Erased, bool) {
		s, ok := v.(string)
		return s, ok
	}
	sc := rootScope("ambient").child(42).child("inner").child(3.14)
	v, ok := sc.resolve(match)
	if !ok || v != "inner" {
		t.Fatalf("resolved %v, want innermost matching instance", v)
	}

	v, ok = rootScope("ambient").child(42).resolve(match)
	if !ok || v != "ambient" {
		t.Fatalf("resolved %v, want ambient fallback", v)
	}

	if _, ok := rootScope(42).resolve(match); ok {
		t.Fatal("resolved a capability nothing satisfies")
	}
}
