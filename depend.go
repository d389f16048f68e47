// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

// scope is the capability resolution chain for one branch of evaluation.
// The root scope holds the environment passed to Run; each Provide adds a
// link whose instance shadows everything further out. Scopes are immutable
// and safe to share across concurrent branches.
type scope struct {
	env    Erased
	inst   Erased
	parent *scope
}

// rootScope wraps the run environment.
func rootScope(env Erased) *scope {
	return &scope{env: env}
}

// child extends the scope with a provided instance.
func (sc *scope) child(instance Erased) *scope {
	return &scope{env: sc.env, inst: instance, parent: sc}
}

// resolve walks provided instances innermost-first, then falls back to the
// ambient environment. match narrows a candidate to the requested
// capability.
func (sc *scope) resolve(match func(Erased) (Erased, bool)) (Erased, bool) {
	for s := sc; s != nil; s = s.parent {
		if s.inst == nil {
			continue
		}
		if v, ok := match(s.inst); ok {
			return v, true
		}
	}
	if sc.env == nil {
		return nil, false
	}
	return match(sc.env)
}
