// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import (
	"math/rand/v2"
	"time"
)

// History describes the runs a schedule has already driven. Count is the
// number of completed runs, Elapsed the wall time since the first run
// started, and Err the most recent failure (nil when driving a repeat of
// successes).
type History struct {
	Count   int
	Elapsed time.Duration
	Err     error
}

// Decision is a schedule's verdict after a run: halt, or continue after a
// delay.
type Decision struct {
	Delay time.Duration
	Halt  bool
}

// A Schedule decides, purely from the history of previous runs, whether to
// drive another run and how long to wait first. Schedules hold no state, so
// one value can drive any number of independent run loops.
type Schedule func(History) Decision

func halt() Decision {
	return Decision{Halt: true}
}

func after(d time.Duration) Decision {
	return Decision{Delay: d}
}

// Spaced continues forever with a fixed delay between runs.
func Spaced(d time.Duration) Schedule {
	return func(History) Decision {
		return after(d)
	}
}

// Recurs bounds inner to at most n additional runs.
func Recurs(n int, inner Schedule) Schedule {
	return func(h History) Decision {
		if h.Count >= n {
			return halt()
		}
		return inner(h)
	}
}

// Exponential continues forever with delays base, base*factor,
// base*factor^2 and so on. A factor below 1 is treated as 2.
func Exponential(base time.Duration, factor float64) Schedule {
	if factor < 1 {
		factor = 2
	}
	return func(h History) Decision {
		d := float64(base)
		for i := 1; i < h.Count; i++ {
			d *= factor
		}
		return after(time.Duration(d))
	}
}

// Jittered scales inner's delays by a random factor in [0.0, 1.0) drawn
// from src, spreading out retry storms. A nil src uses the process-wide
// generator.
func Jittered(inner Schedule, src *rand.Rand) Schedule {
	f := rand.Float64
	if src != nil {
		f = src.Float64
	}
	return func(h History) Decision {
		d := inner(h)
		if d.Halt {
			return d
		}
		return after(time.Duration(float64(d.Delay) * f()))
	}
}
