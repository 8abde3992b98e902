// Package rng provides the seeded stream every soul draws its randomness from.
//
// An identity string is folded into a 32-bit accumulator (xmur3), which then
// seeds a four-word small-fast-counter generator (sfc32). Equal identities
// always produce equal streams. The generator is not cryptographically secure.
package rng

import "math"

// Seed yields the words used to initialize a Stream.
type Seed struct {
	h uint32
}

// Derive folds identity into a Seed.
func Derive(identity string) Seed {
	h := uint32(1779033703) ^ uint32(len(identity))
	for i := 0; i < len(identity); i++ {
		h = (h ^ uint32(identity[i])) * 3432918353
		h = h<<13 | h>>19
	}
	return Seed{h: h}
}

// Next returns the next avalanche-mixed seed word.
func (s *Seed) Next() uint32 {
	h := s.h
	h = (h ^ h>>16) * 2246822507
	h = (h ^ h>>13) * 3266489909
	h ^= h >> 16
	s.h = h
	return h
}

// Hash returns the first seed word for identity.
func Hash(identity string) uint32 {
	s := Derive(identity)
	return s.Next()
}

// State is the full internal state of a Stream.
type State [4]uint32

// Stream is an sfc32 generator. Not safe for concurrent use.
type Stream struct {
	a, b, c, d uint32
}

// New returns the stream for identity.
func New(identity string) *Stream {
	seed := Derive(identity)
	return FromState(State{seed.Next(), seed.Next(), seed.Next(), seed.Next()})
}

// FromState returns a stream starting at st.
func FromState(st State) *Stream {
	return &Stream{a: st[0], b: st[1], c: st[2], d: st[3]}
}

// State returns the current internal state.
func (s *Stream) State() State {
	return State{s.a, s.b, s.c, s.d}
}

// Uint32 advances the stream and returns the raw output word.
func (s *Stream) Uint32() uint32 {
	t := s.a + s.b
	s.a = s.b ^ s.b>>9
	s.b = s.c + s.c<<3
	s.c = s.c<<21 | s.c>>11
	s.d++
	t += s.d
	s.c += t
	return t
}

// Next returns a uniform value in [0, 1).
func (s *Stream) Next() float64 {
	return float64(s.Uint32()) / (math.MaxUint32 + 1)
}

// Range returns a uniform value in [min, max).
func (s *Stream) Range(min, max float64) float64 {
	return min + s.Next()*(max-min)
}

// Intn returns a uniform int in [0, n). n must be positive.
func (s *Stream) Intn(n int) int {
	i := int(s.Next() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}
