// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package random provides the randomness capability: draws from a random
// source as effects, with a system source and a seeded deterministic one.
package random

import (
	"encoding/binary"
	"math/rand/v2"
	"sync"

	"github.com/google/uuid"

	"code.hybscloud.com/effect"
)

// Random is the capability interface.
type Random interface {
	IntN(n int) int
	Float64() float64
	UUID() uuid.UUID
}

// HasRandom is satisfied by environments that carry a Random.
type HasRandom interface {
	Random() Random
}

// IntN draws a uniform int in [0, n) from the environment's source.
func IntN(n int) effect.Effect[int] {
	return effect.AndThen(effect.Depend[HasRandom](), func(env HasRandom) effect.Effect[int] {
		return effect.Suspend(func() (int, error) {
			return env.Random().IntN(n), nil
		})
	})
}

// Float64 draws a uniform float in [0.0, 1.0).
func Float64() effect.Effect[float64] {
	return effect.AndThen(effect.Depend[HasRandom](), func(env HasRandom) effect.Effect[float64] {
		return effect.Suspend(func() (float64, error) {
			return env.Random().Float64(), nil
		})
	})
}

// UUID draws a fresh identifier.
func UUID() effect.Effect[uuid.UUID] {
	return effect.AndThen(effect.Depend[HasRandom](), func(env HasRandom) effect.Effect[uuid.UUID] {
		return effect.Suspend(func() (uuid.UUID, error) {
			return env.Random().UUID(), nil
		})
	})
}

// System draws from the process-wide generator; identifiers are random
// version-4 UUIDs.
type System struct{}

// IntN implements Random.
func (System) IntN(n int) int { return rand.IntN(n) }

// Float64 implements Random.
func (System) Float64() float64 { return rand.Float64() }

// UUID implements Random.
func (System) UUID() uuid.UUID { return uuid.New() }

// Seeded is a deterministic Random for tests: all draws, identifiers
// included, come from one seeded generator.
type Seeded struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeeded creates a deterministic source from a seed.
func NewSeeded(seed uint64) *Seeded {
	return &Seeded{rng: rand.New(rand.NewPCG(seed, 0))}
}

// IntN implements Random.
func (s *Seeded) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

// Float64 implements Random.
func (s *Seeded) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// UUID implements Random. The identifier is built from generator output
// and stamped as version 4, so equal seeds yield equal sequences.
func (s *Seeded) UUID() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	var b [16]byte
	binary.BigEndian.PutUint64(b[:8], s.rng.Uint64())
	binary.BigEndian.PutUint64(b[8:], s.rng.Uint64())
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	return uuid.UUID(b)
}
