package util

import "math/rand"

// Source is the part of *rand.Rand the combat code rolls against.
type Source interface {
	Float64() float64
	Intn(n int) int
}

func New(seed int64) *rand.Rand {
	if seed == 0 {
		seed = 1
	}
	src := rand.NewSource(seed)
	return rand.New(src)
}

// Fixed replays a scripted list of rolls in order, wrapping around at the end.
// Intn scales the next roll into [0, n).
type Fixed struct {
	Rolls []float64
	i     int
}

func NewFixed(rolls ...float64) *Fixed {
	return &Fixed{Rolls: rolls}
}

func (f *Fixed) Float64() float64 {
	if len(f.Rolls) == 0 {
		return 0
	}
	v := f.Rolls[f.i%len(f.Rolls)]
	f.i++
	return v
}

func (f *Fixed) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	v := int(f.Float64() * float64(n))
	if v >= n {
		v = n - 1
	}
	if v < 0 {
		v = 0
	}
	return v
}
