package particles

import (
	"math"
	"testing"

	"golang.org/x/exp/rand"
)

func newRand() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func inCube(t *testing.T, b *Buffer, i int, bound float32) {
	t.Helper()
	for k, v := range b.Positions[i] {
		if v < -bound || v > bound {
			t.Fatalf("particle %d component %d = %v outside [-%v, %v]", i, k, v, bound, bound)
		}
	}
}

func TestInitialize(t *testing.T) {
	b := Initialize(newRand(), 4, 10)
	if b.Len() != 4 || len(b.Alpha) != 4 {
		t.Fatalf("expected 4 particles, got %d positions and %d alphas", b.Len(), len(b.Alpha))
	}
	for i := 0; i < b.Len(); i++ {
		inCube(t, b, i, 10)
		if b.Alpha[i] != 0 {
			t.Fatalf("particle %d has alpha %v, expected 0", i, b.Alpha[i])
		}
	}
}

func TestVerticesSharesMemory(t *testing.T) {
	b := Initialize(newRand(), 3, 1)
	v := b.Vertices()
	if len(v) != 9 {
		t.Fatalf("expected 9 components, got %d", len(v))
	}
	b.Positions[2][1] = 42
	if v[7] != 42 {
		t.Fatal("vertices do not alias positions:", v)
	}
	if (&Buffer{}).Vertices() != nil {
		t.Fatal("expected nil vertices for an empty buffer")
	}
}

func TestLoudness(t *testing.T) {
	cases := []struct {
		name  string
		frame []float64
		exp   float64
	}{
		{"empty", nil, 0},
		{"silence", []float64{0, 0, 0}, 0},
		{"mixed sign", []float64{0.5, -0.5, 1, -1}, 0.75},
		{"unbounded", []float64{-3, 5}, 4},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Loudness(c.frame)
			if got < 0 {
				t.Fatal("negative loudness", got)
			}
			if math.Abs(got-c.exp) > 1e-12 {
				t.Fatalf("expected %v, got %v", c.exp, got)
			}
		})
	}
}
