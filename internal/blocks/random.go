package blocks

import "math/rand/v2"

// Source supplies the uniform draws used to generate shapes.
type Source interface {
	// Next returns an integer in [min, max).
	Next(min, max int) int
	// Float64 returns a real in [0, 1).
	Float64() float64
}

type randSource struct {
	rng *rand.Rand
}

// NewRandom returns a Source seeded with seed. Equal seeds produce equal sequences.
func NewRandom(seed uint64) Source {
	return &randSource{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NewSource returns a Source seeded from the runtime's random state.
func NewSource() Source {
	return NewRandom(rand.Uint64())
}

func (r *randSource) Next(min, max int) int {
	if max <= min {
		return min
	}
	return r.rng.IntN(max-min) + min
}

func (r *randSource) Float64() float64 {
	return r.rng.Float64()
}

// Repeat draws n from [min, max) and calls fn n times.
func Repeat(src Source, min, max int, fn func()) {
	n := src.Next(min, max)
	for i := 0; i < n; i++ {
		fn()
	}
}

// Scripted replays fixed values, cycling when exhausted. Values returned by
// Next are clamped into the requested range.
type Scripted struct {
	Ints   []int
	Floats []float64

	i, f int
}

func (s *Scripted) Next(min, max int) int {
	if len(s.Ints) == 0 || max <= min {
		return min
	}
	v := s.Ints[s.i%len(s.Ints)]
	s.i++
	if v < min {
		return min
	}
	if v >= max {
		return max - 1
	}
	return v
}

func (s *Scripted) Float64() float64 {
	if len(s.Floats) == 0 {
		return 0.99
	}
	v := s.Floats[s.f%len(s.Floats)]
	s.f++
	return v
}
