package particles

import (
	math "github.com/chewxy/math32"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// spawnStride is the step between particles visited by the spawn pass.
const spawnStride = 3

// UpdateThresholdSpawn respawns or jitters every third particle when the loudness of frame
// exceeds cfg.LoudnessThreshold. A visited particle is moved to a random point in the
// configured cube with probability cfg.SpawnProbability, otherwise its y coordinate is
// nudged by up to half of cfg.OscillationAmplitude. Alpha is left alone.
// It reports whether the frame was loud enough to trigger the pass.
func UpdateThresholdSpawn(b *Buffer, frame []float64, rnd *rand.Rand, cfg *Config) bool {
	if Loudness(frame) <= cfg.LoudnessThreshold {
		return false
	}
	spawn(b, rnd, cfg)
	return true
}

// UpdateFadingAlpha runs the spawn pass and raises every alpha by cfg.AlphaRiseRate while
// the frame is loud. Otherwise every alpha decays geometrically by cfg.AlphaDecayRate.
// Alpha stays within [0,1] whatever it was before the call.
func UpdateFadingAlpha(b *Buffer, frame []float64, rnd *rand.Rand, cfg *Config) bool {
	loud := UpdateThresholdSpawn(b, frame, rnd, cfg)
	if loud {
		rise := float32(cfg.AlphaRiseRate)
		for i, a := range b.Alpha {
			b.Alpha[i] = clampUnit(a + rise)
		}
	} else {
		keep := float32(1 - cfg.AlphaDecayRate)
		for i, a := range b.Alpha {
			b.Alpha[i] = clampUnit(a * keep)
		}
	}
	return loud
}

// UpdateDirectMapping overwrites the y coordinate of particle i with frame[i] scaled by
// amplification. Particles without a matching sample keep their position.
func UpdateDirectMapping(b *Buffer, frame []float64, amplification float64) {
	n := len(frame)
	if n > b.Len() {
		n = b.Len()
	}
	for i := 0; i < n; i++ {
		b.Positions[i][1] = float32(frame[i] * amplification)
	}
}

func spawn(b *Buffer, rnd *rand.Rand, cfg *Config) {
	cube := distuv.Uniform{Min: -cfg.SpatialBound, Max: cfg.SpatialBound, Src: rnd}
	osc := float32(cfg.OscillationAmplitude)
	for i := 0; i < b.Len(); i += spawnStride {
		if rnd.Float64() < cfg.SpawnProbability {
			b.Positions[i] = randomPosition(cube)
		} else {
			b.Positions[i][1] += (rnd.Float32() - 0.5) * osc
		}
	}
}

func clampUnit(a float32) float32 {
	if math.IsNaN(a) {
		return 0
	}
	return math.Max(0, math.Min(1, a))
}
