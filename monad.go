// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import "iter"

// Monad operations for effects.
//
// These live as top-level generic functions because they change the value
// type parameter, which Go methods cannot introduce. Combinators that keep
// the value type are methods on [Effect].

// AndThen sequences two effects (monadic bind). It evaluates e, then passes
// the value to f to obtain the next effect. A failure of e short-circuits
// and skips f.
func AndThen[A, B any](e Effect[A], f func(A) Effect[B]) Effect[B] {
	return fromNode[B](&bindNode{
		src: e.n,
		f: func(v Erased) node {
			return f(v.(A)).n
		},
	})
}

// DiscardAndThen sequences two effects, discarding the first value.
// A failure of e short-circuits and skips next.
func DiscardAndThen[A, B any](e Effect[A], next Effect[B]) Effect[B] {
	return fromNode[B](&thenNode{src: e.n, next: next.n})
}

// Map applies a pure function to the value of an effect. Failures pass
// through unchanged.
func Map[A, B any](e Effect[A], f func(A) B) Effect[B] {
	return fromNode[B](&mapNode{
		src: e.n,
		f: func(v Erased) Erased {
			return f(v.(A))
		},
	})
}

// MapSeq applies a sequence-producing function to the value of an effect.
// The resulting effect yields the sequence unevaluated: consumers drive it
// explicitly, and a one-shot source supports a single pass. This is the
// explicit generator-flattening escape hatch; prefer [Map] for scalar
// transformations.
func MapSeq[A, B any](e Effect[A], f func(A) iter.Seq[B]) Effect[iter.Seq[B]] {
	return Map(e, f)
}
