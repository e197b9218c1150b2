package util

import "testing"

func TestFixed(t *testing.T) {
	t.Parallel()

	f := NewFixed(0.1, 0.5, 0.99)
	for i, want := range []float64{0.1, 0.5, 0.99, 0.1} {
		if got := f.Float64(); got != want {
			t.Errorf("roll %d = %v; want %v", i, got, want)
		}
	}

	cases := []struct {
		roll float64
		n    int
		want int
	}{
		{0, 4, 0},
		{0.26, 4, 1},
		{0.99, 4, 3},
		{1, 4, 3},
		{-0.5, 4, 0},
		{0.5, 0, 0},
	}
	for _, tc := range cases {
		if got := NewFixed(tc.roll).Intn(tc.n); got != tc.want {
			t.Errorf("Intn(%d) with roll %v = %d; want %d", tc.n, tc.roll, got, tc.want)
		}
	}
	if got := NewFixed().Float64(); got != 0 {
		t.Errorf("empty Fixed rolled %v; want 0", got)
	}
}

func TestNewIsSeeded(t *testing.T) {
	t.Parallel()

	a, b := New(99), New(99)
	for i := 0; i < 10; i++ {
		if x, y := a.Float64(), b.Float64(); x != y {
			t.Fatalf("draw %d differs: %v vs %v", i, x, y)
		}
	}
	if New(0).Int63() != New(1).Int63() {
		t.Error("seed 0 should behave like seed 1")
	}
}
