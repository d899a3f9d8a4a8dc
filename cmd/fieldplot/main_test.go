package main

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/wav"

	"github.com/peragwin/particlefield/particles"
)

func TestSimulateFadeFollowsBursts(t *testing.T) {
	frames, err := signal("")
	if err != nil {
		t.Fatal(err)
	}
	cfg := particles.DefaultConfig()
	cfg.Strategy = particles.FadingAlpha
	cfg.ParticleCount = 90
	cfg.Seed = 5

	tr, err := simulate(cfg, frames, 2**period)
	if err != nil {
		t.Fatal(err)
	}

	half := *period / 2
	// end of the first loud half cycle, fully faded in after 20 ticks of rise
	if a := tr.alpha[half-1].Y; math.Abs(a-1) > 1e-6 {
		t.Fatal("alpha after a loud burst is", a)
	}
	// end of the quiet half cycle
	exp := math.Pow(1-cfg.AlphaDecayRate, float64(half))
	if a := tr.alpha[2*half-1].Y; math.Abs(a-exp) > 1e-4 {
		t.Fatalf("alpha after silence is %v, expected %v", a, exp)
	}
	for _, xy := range tr.alpha {
		if xy.Y < 0 || xy.Y > 1 {
			t.Fatal("mean alpha out of range", xy)
		}
	}

	out := filepath.Join(t.TempDir(), "field.png")
	if err := tr.save(out, "fade"); err != nil {
		t.Fatal(err)
	}
	if st, err := os.Stat(out); err != nil || st.Size() == 0 {
		t.Fatal("plot not written", err)
	}
}

// writeBurst writes a WAV file holding a tone for the given number of samples followed by
// as many samples of silence.
func writeBurst(t *testing.T, samples int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "burst.wav")
	fp, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer fp.Close()

	sr := beep.SampleRate(8000)
	tone, err := generators.SineTone(sr, 440)
	if err != nil {
		t.Fatal(err)
	}
	format := beep.Format{SampleRate: sr, NumChannels: 1, Precision: 2}
	burst := beep.Seq(beep.Take(samples, tone), beep.Silence(samples))
	if err := wav.Encode(fp, burst, format); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSimulateWavDrivesEveryTick(t *testing.T) {
	const (
		block      = frameSize / 4
		toneBlocks = 32
	)
	frames, err := signal(writeBurst(t, toneBlocks*block))
	if err != nil {
		t.Fatal(err)
	}
	cfg := particles.DefaultConfig()
	cfg.Strategy = particles.FadingAlpha
	cfg.ParticleCount = 90
	cfg.Seed = 5

	// the file holds 64 blocks, the remaining ticks read past its end
	tr, err := simulate(cfg, frames, 3*toneBlocks)
	if err != nil {
		t.Fatal(err)
	}

	// a frame overlaps the tone until its oldest block is past the last tone block
	lastLoud := toneBlocks + frameSize/block - 2
	for tick, xy := range tr.loudness {
		loud := xy.Y > cfg.LoudnessThreshold
		if tick <= lastLoud && !loud {
			t.Fatalf("tick %d: tone frame read as quiet (loudness %v)", tick, xy.Y)
		}
		if tick > lastLoud && xy.Y != 0 {
			t.Fatalf("tick %d: expected silence, loudness %v", tick, xy.Y)
		}
	}
	if a := tr.alpha[lastLoud].Y; math.Abs(a-1) > 1e-6 {
		t.Fatal("alpha after the tone is", a)
	}
	if a := tr.alpha[len(tr.alpha)-1].Y; a > 0.1 {
		t.Fatal("alpha did not fade after the file ended:", a)
	}
}
