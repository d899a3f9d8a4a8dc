package particles

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Config is the full set of parameters of a Field.
type Config struct {
	ParticleCount int     `json:"count"`
	SpatialBound  float64 `json:"bound"`

	LoudnessThreshold    float64 `json:"threshold"`
	SpawnProbability     float64 `json:"spawn"`
	OscillationAmplitude float64 `json:"oscillation"`

	AlphaRiseRate  float64 `json:"rise"`
	AlphaDecayRate float64 `json:"decay"`

	AmplificationFactor float64 `json:"amp"`

	Strategy Strategy `json:"strategy"`

	// Seed for the random source. Zero picks a seed from the clock.
	Seed uint64 `json:"seed"`
}

// DefaultConfig returns a config tuned for a 1024 sample waveform from a microphone.
func DefaultConfig() *Config {
	return &Config{
		ParticleCount:        1000,
		SpatialBound:         100,
		LoudnessThreshold:    0.01,
		SpawnProbability:     0.1,
		OscillationAmplitude: 10,
		AlphaRiseRate:        0.05,
		AlphaDecayRate:       0.05,
		AmplificationFactor:  100,
		Strategy:             ThresholdSpawn,
	}
}

// Validate checks that every parameter is in range.
func (c *Config) Validate() error {
	if c.ParticleCount < 1 {
		return fmt.Errorf("particle count must be positive, got %d", c.ParticleCount)
	}
	if !(c.SpatialBound > 0) {
		return fmt.Errorf("spatial bound must be positive, got %v", c.SpatialBound)
	}
	for _, r := range []struct {
		name string
		val  float64
	}{
		{"spawn probability", c.SpawnProbability},
		{"alpha rise rate", c.AlphaRiseRate},
		{"alpha decay rate", c.AlphaDecayRate},
	} {
		if r.val < 0 || r.val > 1 {
			return fmt.Errorf("%s must be within [0,1], got %v", r.name, r.val)
		}
	}
	if c.OscillationAmplitude < 0 {
		return fmt.Errorf("oscillation amplitude must not be negative, got %v", c.OscillationAmplitude)
	}
	if _, ok := strategyNames[c.Strategy]; !ok {
		return fmt.Errorf("unknown strategy %d", int(c.Strategy))
	}
	return nil
}

// LoadConfig reads a config saved by SaveConfig into c. Fields missing from the file keep
// their current value. A missing file is not an error.
func LoadConfig(path string, c *Config) error {
	fp, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	defer fp.Close()
	if err := json.NewDecoder(fp).Decode(c); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return c.Validate()
}

// SaveConfig writes c to the given file.
func SaveConfig(path string, c *Config) error {
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fp.Close()
	enc := json.NewEncoder(fp)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
