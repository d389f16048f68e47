// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import "time"

// Repeat re-runs e as long as s continues, collecting the success values
// in run order. The collected slice holds at least one value: the first
// run happens before s is ever consulted. A failure on any run is returned
// unmodified and ends the loop without further runs.
func Repeat[A any](e Effect[A], s Schedule) Effect[[]A] {
	src := e.n
	return fromNode[[]A](&opNode{
		name: "Repeat",
		f: func(rt *runEnv, sc *scope) (Erased, error) {
			start := time.Now()
			var out []A
			for {
				v, err := rt.eval(src, sc)
				if err != nil {
					return nil, err
				}
				out = append(out, v.(A))
				d := s(History{Count: len(out), Elapsed: time.Since(start)})
				if d.Halt {
					return out, nil
				}
				if err := rt.sleep(sc, d.Delay); err != nil {
					return nil, err
				}
			}
		},
	})
}

// Retry re-runs e after each failure as long as s continues. The first
// success wins. When s halts, the failure history is returned as a
// *RetryError holding every error in run order; a single-attempt halt
// still wraps, so callers match uniformly with errors.As.
func (e Effect[A]) Retry(s Schedule) Effect[A] {
	src := e.n
	return fromNode[A](&opNode{
		name: "Retry",
		f: func(rt *runEnv, sc *scope) (Erased, error) {
			start := time.Now()
			var errs []error
			for {
				v, err := rt.eval(src, sc)
				if err == nil {
					return v, nil
				}
				errs = append(errs, err)
				d := s(History{Count: len(errs), Elapsed: time.Since(start), Err: err})
				if d.Halt {
					return nil, &RetryError{Errs: errs}
				}
				if serr := rt.sleep(sc, d.Delay); serr != nil {
					return nil, serr
				}
			}
		},
	})
}
