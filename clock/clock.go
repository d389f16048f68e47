// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package clock provides the time capability: reading the current time and
// sleeping as effects, with real and fake implementations. A fake clock
// also satisfies the runtime's Sleeper capability, so schedule-driven
// repeat and retry loops become instantaneous and observable under test.
package clock

import (
	"context"
	"sync"
	"time"

	"github.com/rickb777/date/v2/timespan"

	"code.hybscloud.com/effect"
)

// TimeSpan is a closed interval between two instants.
type TimeSpan = timespan.TimeSpan

// Clock is the capability interface.
type Clock interface {
	Now(ctx context.Context) (time.Time, error)
	Sleep(ctx context.Context, d time.Duration) error
}

// HasClock is satisfied by environments that carry a Clock.
type HasClock interface {
	Clock() Clock
}

// Now reads the environment clock's current time.
func Now() effect.Effect[time.Time] {
	return effect.AndThen(effect.Depend[HasClock](), func(env HasClock) effect.Effect[time.Time] {
		return effect.Suspend(func() (time.Time, error) {
			return env.Clock().Now(context.Background())
		})
	})
}

// Sleep waits d on the environment clock.
func Sleep(d time.Duration) effect.Effect[struct{}] {
	return effect.AndThen(effect.Depend[HasClock](), func(env HasClock) effect.Effect[struct{}] {
		return effect.BlockingIO(func(ctx context.Context) (struct{}, error) {
			return struct{}{}, env.Clock().Sleep(ctx, d)
		})
	})
}

// Measured pairs an effect's value with the interval its evaluation
// covered on the environment clock.
type Measured[A any] struct {
	Value A
	Span  TimeSpan
}

// Measure times the evaluation of e between two clock reads.
func Measure[A any](e effect.Effect[A]) effect.Effect[Measured[A]] {
	return effect.AndThen(Now(), func(from time.Time) effect.Effect[Measured[A]] {
		return effect.AndThen(e, func(v A) effect.Effect[Measured[A]] {
			return effect.Map(Now(), func(to time.Time) Measured[A] {
				return Measured[A]{Value: v, Span: timespan.BetweenTimes(from, to)}
			})
		})
	})
}

// System is the Clock over real time.
type System struct{}

// Now implements Clock.
func (System) Now(context.Context) (time.Time, error) {
	return time.Now(), nil
}

// Sleep implements Clock and [effect.Sleeper].
func (System) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Fake is a deterministic Clock for tests. Sleep returns immediately,
// advancing the fake time by the requested duration and recording it.
type Fake struct {
	mu    sync.Mutex
	now   time.Time
	slept []time.Duration
}

// NewFake creates a fake clock starting at now.
func NewFake(now time.Time) *Fake {
	return &Fake{now: now}
}

// Now implements Clock.
func (f *Fake) Now(context.Context) (time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now, nil
}

// Sleep implements Clock and [effect.Sleeper].
func (f *Fake) Sleep(_ context.Context, d time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
	f.slept = append(f.slept, d)
	return nil
}

// Advance moves the fake time forward without recording a sleep.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

// Slept returns the recorded sleep durations in request order.
func (f *Fake) Slept() []time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]time.Duration, len(f.slept))
	copy(out, f.slept)
	return out
}

var (
	_ effect.Sleeper = System{}
	_ effect.Sleeper = (*Fake)(nil)
)
