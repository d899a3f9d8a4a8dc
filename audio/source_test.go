package audio

import "testing"

func TestMixdown(t *testing.T) {
	in := []float32{1, 0, 0.5, 0.5, -1, 1}
	out := make([]float32, 3)
	mixdown(out, in, 2)
	exp := []float32{0.5, 0.5, 0}
	for i := range exp {
		if out[i] != exp[i] {
			t.Fatal(exp, out)
		}
	}

	mono := make([]float32, 2)
	mixdown(mono, []float32{0.25, -0.25}, 1)
	if mono[0] != 0.25 || mono[1] != -0.25 {
		t.Fatal(mono)
	}
}
