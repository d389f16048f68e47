// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

// Function composition helpers for building effectful pipelines without
// nesting AndThen calls at every step.

// Compose is plain right-to-left function composition: Compose(g, f)(a) is
// g(f(a)).
func Compose[A, B, C any](g func(B) C, f func(A) B) func(A) C {
	return func(a A) C {
		return g(f(a))
	}
}

// Identity lifts a value into a pure effect. It is the unit of [ComposeK].
func Identity[A any](a A) Effect[A] {
	return Success(a)
}

// ComposeK composes two effectful functions left to right: the effect of f
// feeds the input of g. It is associative, and [Identity] is its unit on
// both sides.
func ComposeK[A, B, C any](f func(A) Effect[B], g func(B) Effect[C]) func(A) Effect[C] {
	return func(a A) Effect[C] {
		return AndThen(f(a), g)
	}
}
