package particles

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Buffer is a fixed size set of particles. A particle is identified by its slot index and is
// only ever mutated in place.
type Buffer struct {
	// Positions holds one vertex per slot. The backing array is laid out as x,y,z triples
	// so it can be handed to a vertex buffer without copying.
	Positions []mgl32.Vec3
	// Alpha holds the opacity of each slot, always within [0,1].
	Alpha []float32
}

// Initialize allocates a buffer of count particles placed uniformly at random in the cube
// [-bound, bound]^3 with zero opacity.
func Initialize(src rand.Source, count int, bound float64) *Buffer {
	b := &Buffer{
		Positions: make([]mgl32.Vec3, count),
		Alpha:     make([]float32, count),
	}
	cube := distuv.Uniform{Min: -bound, Max: bound, Src: src}
	for i := range b.Positions {
		b.Positions[i] = randomPosition(cube)
	}
	return b
}

// Len is the number of slots.
func (b *Buffer) Len() int {
	return len(b.Positions)
}

// Vertices returns the positions as a flat slice of x,y,z components sharing memory with
// the buffer.
func (b *Buffer) Vertices() []float32 {
	if len(b.Positions) == 0 {
		return nil
	}
	return unsafe.Slice(&b.Positions[0][0], 3*len(b.Positions))
}

func randomPosition(cube distuv.Uniform) mgl32.Vec3 {
	return mgl32.Vec3{
		float32(cube.Rand()),
		float32(cube.Rand()),
		float32(cube.Rand()),
	}
}
