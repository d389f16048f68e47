// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import "sync"

// State[A] is a mutable cell whose reads and writes are effects. The cell
// itself is safe for concurrent use; sequencing of competing writers is up
// to the effect graph that performs them.
type State[A any] struct {
	mu sync.Mutex
	v  A
}

// NewState creates a cell holding initial.
func NewState[A any](initial A) *State[A] {
	return &State[A]{v: initial}
}

// Value reads the cell outside the effect system, for inspecting final
// state after a run.
func (s *State[A]) Value() A {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v
}

// Get is the effect of reading the current state.
func (s *State[A]) Get() Effect[A] {
	return Suspend(func() (A, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.v, nil
	})
}

// Put is the effect of replacing the current state.
func (s *State[A]) Put(v A) Effect[struct{}] {
	return Suspend(func() (struct{}, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.v = v
		return struct{}{}, nil
	})
}

// Modify is the effect of applying f to the state, yielding the new value.
// f runs under the cell's lock and must not perform effects of its own.
func (s *State[A]) Modify(f func(A) A) Effect[A] {
	return Suspend(func() (A, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.v = f(s.v)
		return s.v, nil
	})
}

// TryModify applies f to the state and writes the result only when f's
// second return is true. It yields whether the write happened.
func (s *State[A]) TryModify(f func(A) (A, bool)) Effect[bool] {
	return Suspend(func() (bool, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		v, ok := f(s.v)
		if ok {
			s.v = v
		}
		return ok, nil
	})
}
