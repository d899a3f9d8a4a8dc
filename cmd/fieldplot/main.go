// Fieldplot runs a particle field offline against a synthetic burst signal or a WAV file
// and plots how loudness, opacity and particle height evolve over the ticks.
package main

import (
	"context"
	"flag"
	"math"

	"github.com/golang/glog"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/peragwin/particlefield/audio"
	"github.com/peragwin/particlefield/particles"
)

const frameSize = 1024

var (
	strategy = flag.String("strategy", "fade", "update strategy: threshold, fade or direct")
	ticks    = flag.Int("ticks", 600, "number of ticks to simulate")
	period   = flag.Int("period", 120, "ticks per loud/quiet cycle of the synthetic signal")
	wavFile  = flag.String("wav", "", "drive the field from this WAV file instead")
	out      = flag.String("out", "field.png", "file to write the plot to")
	seed     = flag.Uint64("seed", 1, "random seed")
)

// trace records per tick statistics of a field.
type trace struct {
	loudness plotter.XYs
	alpha    plotter.XYs
	height   plotter.XYs
}

func main() {
	flag.Parse()
	defer glog.Flush()

	cfg := particles.DefaultConfig()
	s, err := particles.ParseStrategy(*strategy)
	if err != nil {
		glog.Fatal(err)
	}
	cfg.Strategy = s
	cfg.Seed = *seed

	frames, err := signal(*wavFile)
	if err != nil {
		glog.Fatal(err)
	}

	tr, err := simulate(cfg, frames, *ticks)
	if err != nil {
		glog.Fatal(err)
	}
	if err := tr.save(*out, cfg.Strategy.String()); err != nil {
		glog.Fatal(err)
	}
	glog.Infof("wrote %d ticks to %s", len(tr.loudness), *out)
}

// signal returns a frame generator. Without a file it alternates bursts of noise with
// near silence.
func signal(path string) (func(tick int) []float64, error) {
	if path == "" {
		rnd := rand.New(rand.NewSource(*seed))
		return func(tick int) []float64 {
			amp := 0.001
			if (tick/(*period/2))%2 == 0 {
				amp = 0.2
			}
			frame := make([]float64, frameSize)
			for i := range frame {
				frame[i] = amp * (2*rnd.Float64() - 1)
			}
			return frame
		}, nil
	}

	// one tick per block of the file, as fast as the simulation consumes them
	src, err := audio.NewWavSource(context.Background(), path, frameSize/4, false)
	if err != nil {
		return nil, err
	}
	done := make(chan struct{})
	buffered := audio.BlockingBuffer(done, src.Frames(), frameSize)
	return func(int) []float64 {
		// an exhausted file reads as silence
		return <-buffered
	}, nil
}

func simulate(cfg *particles.Config, next func(tick int) []float64, n int) (*trace, error) {
	field, err := particles.NewField(cfg)
	if err != nil {
		return nil, err
	}
	field.Start()

	tr := &trace{
		loudness: make(plotter.XYs, n),
		alpha:    make(plotter.XYs, n),
		height:   make(plotter.XYs, n),
	}
	heights := make([]float64, 0, cfg.ParticleCount)
	alphas := make([]float64, 0, cfg.ParticleCount)
	for tick := 0; tick < n; tick++ {
		frame := next(tick)
		field.Tick(frame)

		heights, alphas = heights[:0], alphas[:0]
		field.View(func(b *particles.Buffer, _ *particles.Config) {
			for i, pos := range b.Positions {
				heights = append(heights, math.Abs(float64(pos[1])))
				alphas = append(alphas, float64(b.Alpha[i]))
			}
		})

		x := float64(tick)
		tr.loudness[tick] = plotter.XY{X: x, Y: particles.Loudness(frame)}
		tr.alpha[tick] = plotter.XY{X: x, Y: floats.Sum(alphas) / float64(len(alphas))}
		tr.height[tick] = plotter.XY{X: x, Y: floats.Sum(heights) / float64(len(heights))}
	}
	return tr, nil
}

func (tr *trace) save(path, title string) error {
	// heights are in world units, scale them next to the unit range traces
	height := make(plotter.XYs, len(tr.height))
	peak := 0.0
	for _, xy := range tr.height {
		peak = math.Max(peak, xy.Y)
	}
	for i, xy := range tr.height {
		height[i] = plotter.XY{X: xy.X}
		if peak > 0 {
			height[i].Y = xy.Y / peak
		}
	}

	p := plot.New()
	p.Title.Text = "particle field: " + title
	p.X.Label.Text = "tick"

	if err := plotutil.AddLines(p,
		"Loudness", tr.loudness,
		"Mean alpha", tr.alpha,
		"Mean |y| (normalized)", height,
	); err != nil {
		return err
	}
	return p.Save(12*vg.Inch, 6*vg.Inch, path)
}
