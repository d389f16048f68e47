// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package clock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code.hybscloud.com/effect"
	"code.hybscloud.com/effect/clock"
)

type env struct {
	c clock.Clock
}

func (e env) Clock() clock.Clock { return e.c }

func TestFakeNowAndSleep(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	fake := clock.NewFake(start)

	e := effect.DiscardAndThen(clock.Sleep(time.Hour), clock.Now())
	got, err := effect.Run(e, env{c: fake})
	require.NoError(t, err)
	assert.Equal(t, start.Add(time.Hour), got)
	assert.Equal(t, []time.Duration{time.Hour}, fake.Slept())
}

func TestFakeAdvance(t *testing.T) {
	start := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	fake := clock.NewFake(start)
	fake.Advance(30 * time.Minute)

	got, err := effect.Run(clock.Now(), env{c: fake})
	require.NoError(t, err)
	assert.Equal(t, start.Add(30*time.Minute), got)
	assert.Empty(t, fake.Slept())
}

func TestMeasure(t *testing.T) {
	start := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	fake := clock.NewFake(start)

	timed := clock.Measure(effect.DiscardAndThen(
		clock.Sleep(2*time.Second), effect.Success("done")))
	got, err := effect.Run(timed, env{c: fake})
	require.NoError(t, err)
	assert.Equal(t, "done", got.Value)
	assert.Equal(t, 2*time.Second, got.Span.Duration())
	assert.Equal(t, start, got.Span.Start())
}

func TestSystemNow(t *testing.T) {
	before := time.Now()
	got, err := effect.Run(clock.Now(), env{c: clock.System{}})
	require.NoError(t, err)
	assert.False(t, got.Before(before))
	assert.False(t, got.After(time.Now()))
}

// A fake clock provided as the runtime's sleeper makes schedule-driven
// loops instantaneous.
func TestFakeDrivesRetryDelays(t *testing.T) {
	fake := clock.NewFake(time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))
	failing := effect.Throw[int](assert.AnError)

	e := failing.Retry(effect.Recurs(3, effect.Spaced(time.Minute)))
	_, err := effect.Run(effect.Provide[effect.Sleeper](e, fake), struct{}{})
	require.Error(t, err)

	var re *effect.RetryError
	require.ErrorAs(t, err, &re)
	assert.Len(t, re.Errs, 3)
	assert.Equal(t, []time.Duration{time.Minute, time.Minute}, fake.Slept())
}
