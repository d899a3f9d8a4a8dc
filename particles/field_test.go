package particles

import (
	"encoding/json"
	"path/filepath"
	"testing"
)

func TestFieldIgnoresTicksWhileIdle(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Strategy = DirectMapping
	cfg.Seed = 7
	f, err := NewField(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if f.State() != Idle {
		t.Fatal("new field is not idle")
	}

	f.Tick([]float64{1})
	f.View(func(b *Buffer, _ *Config) {
		if b.Positions[0][1] == float32(cfg.AmplificationFactor) {
			t.Fatal("idle field applied a frame")
		}
	})
	if f.Ticks() != 0 {
		t.Fatal("idle field counted a tick")
	}

	f.Start()
	f.Start()
	if f.State() != Running {
		t.Fatal("field did not start")
	}
	f.Tick([]float64{1})
	f.View(func(b *Buffer, _ *Config) {
		if b.Positions[0][1] != float32(cfg.AmplificationFactor) {
			t.Fatal("running field did not apply the frame", b.Positions[0])
		}
	})
	if f.Ticks() != 1 {
		t.Fatal("expected one tick, got", f.Ticks())
	}
}

func TestFieldStrategies(t *testing.T) {
	for _, s := range []Strategy{ThresholdSpawn, FadingAlpha, DirectMapping} {
		t.Run(s.String(), func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.ParticleCount = 12
			cfg.Strategy = s
			cfg.Seed = 1
			f, err := NewField(cfg)
			if err != nil {
				t.Fatal(err)
			}
			f.Start()
			for i := 0; i < 10; i++ {
				f.Tick(loudFrame)
			}
			f.View(func(b *Buffer, c *Config) {
				var lit bool
				for _, a := range b.Alpha {
					lit = lit || a > 0
				}
				if lit != s.UsesAlpha() {
					t.Fatalf("strategy %s: alpha driven = %v", s, lit)
				}
			})
		})
	}
}

func TestFieldDeterministic(t *testing.T) {
	run := func() []float32 {
		cfg := DefaultConfig()
		cfg.ParticleCount = 30
		cfg.Strategy = FadingAlpha
		cfg.Seed = 99
		f, err := NewField(cfg)
		if err != nil {
			t.Fatal(err)
		}
		f.Start()
		for i := 0; i < 20; i++ {
			f.Tick(loudFrame)
		}
		var out []float32
		f.View(func(b *Buffer, _ *Config) {
			out = append(out, b.Vertices()...)
		})
		return out
	}
	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("component %d differs between seeded runs: %v != %v", i, a[i], b[i])
		}
	}
}

func TestFieldReconfigure(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ParticleCount = 10
	f, err := NewField(cfg)
	if err != nil {
		t.Fatal(err)
	}

	next := f.Config()
	next.LoudnessThreshold = 0.2
	if err := f.Reconfigure(&next); err != nil {
		t.Fatal(err)
	}
	if f.Config().LoudnessThreshold != 0.2 {
		t.Fatal("threshold not updated")
	}

	next.ParticleCount = 20
	if err := f.Reconfigure(&next); err != nil {
		t.Fatal(err)
	}
	f.View(func(b *Buffer, _ *Config) {
		if b.Len() != 20 {
			t.Fatal("buffer not reallocated, len", b.Len())
		}
	})

	next.SpawnProbability = 2
	if err := f.Reconfigure(&next); err == nil {
		t.Fatal("expected an error for an invalid config")
	}
	if f.Config().SpawnProbability != cfg.SpawnProbability {
		t.Fatal("invalid config was applied")
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name string
		mod  func(*Config)
	}{
		{"count", func(c *Config) { c.ParticleCount = 0 }},
		{"bound", func(c *Config) { c.SpatialBound = 0 }},
		{"spawn", func(c *Config) { c.SpawnProbability = -0.1 }},
		{"rise", func(c *Config) { c.AlphaRiseRate = 1.5 }},
		{"decay", func(c *Config) { c.AlphaDecayRate = -1 }},
		{"oscillation", func(c *Config) { c.OscillationAmplitude = -1 }},
		{"strategy", func(c *Config) { c.Strategy = Strategy(12) }},
	}
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatal("default config is invalid:", err)
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := DefaultConfig()
			c.mod(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected a validation error")
			}
		})
	}
}

func TestSaveLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "field.json")

	cfg := DefaultConfig()
	if err := LoadConfig(path, cfg); err != nil {
		t.Fatal("missing file should not be an error:", err)
	}

	cfg.Strategy = FadingAlpha
	cfg.AlphaDecayRate = 0.1
	if err := SaveConfig(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded := DefaultConfig()
	if err := LoadConfig(path, loaded); err != nil {
		t.Fatal(err)
	}
	if *loaded != *cfg {
		t.Fatalf("loaded %+v, saved %+v", loaded, cfg)
	}
}

func TestStrategyText(t *testing.T) {
	bs, err := json.Marshal(struct {
		S Strategy `json:"s"`
	}{DirectMapping})
	if err != nil {
		t.Fatal(err)
	}
	if string(bs) != `{"s":"direct"}` {
		t.Fatal("unexpected encoding", string(bs))
	}
	s, err := ParseStrategy(" Fade ")
	if err != nil || s != FadingAlpha {
		t.Fatal("could not parse fade:", s, err)
	}
	if _, err := ParseStrategy("sparkle"); err == nil {
		t.Fatal("expected an error for an unknown strategy")
	}
	if _, err := Strategy(-1).MarshalText(); err == nil {
		t.Fatal("expected an error marshalling an unknown strategy")
	}
}
