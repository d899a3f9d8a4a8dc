package particles

import "gonum.org/v1/gonum/floats"

// Loudness is the mean absolute sample value of a frame. An empty frame is silence.
func Loudness(frame []float64) float64 {
	if len(frame) == 0 {
		return 0
	}
	return floats.Norm(frame, 1) / float64(len(frame))
}
