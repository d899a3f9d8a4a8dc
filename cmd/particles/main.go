// Particles opens a microphone (or replays a WAV file) and animates a particle field that
// reacts to it, in an OpenGL window, in the terminal, or on a remote LED grid.
package main

import (
	"context"
	"errors"
	"flag"
	"image"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/golang/glog"
	"github.com/gordonklaus/portaudio"

	"github.com/peragwin/particlefield/audio"
	"github.com/peragwin/particlefield/audio/fft"
	"github.com/peragwin/particlefield/audio/util"
	"github.com/peragwin/particlefield/gfx/points"
	"github.com/peragwin/particlefield/gfx/raster"
	"github.com/peragwin/particlefield/gfx/skgrid"
	"github.com/peragwin/particlefield/gfx/term"
	"github.com/peragwin/particlefield/particles"
)

const (
	blockSize  = 256
	frameSize  = 1024
	sampleRate = 48000
)

var (
	configFile = flag.String("config", "", "load field parameters from this json file")
	saveConfig = flag.Bool("save", false, "write the field parameters back to -config on exit")
	strategy   = flag.String("strategy", "", "update strategy: threshold, fade or direct")
	count      = flag.Int("count", 0, "number of particles")
	threshold  = flag.Float64("threshold", 0, "loudness threshold")
	seed       = flag.Uint64("seed", 0, "random seed, 0 for a random one")

	wavFile  = flag.String("wav", "", "replay this WAV file instead of opening the microphone")
	realtime = flag.Bool("realtime", true, "pace WAV replay at its sample rate")
	mode     = flag.String("mode", "waveform", "frame mode: waveform or spectrum")
	buckets  = flag.Int("buckets", 64, "number of frequency buckets in spectrum mode")
	scale    = flag.String("scale", "log2", "frequency scale of the buckets in spectrum mode: log2 or mel")
	pregain  = flag.Bool("pregain", false, "normalize input level before analysis")
	devices  = flag.Bool("list-devices", false, "list audio input devices and exit")

	renderer  = flag.String("renderer", "gl", "gl, term or headless")
	width     = flag.Int("width", 1200, "width of window")
	height    = flag.Int("height", 800, "height of window")
	cameraZ   = flag.Float64("camera-z", 5, "distance of the camera from the origin")
	pointSize = flag.Float64("point-size", 1, "size of a particle in pixels")
	colors    = flag.String("colormap", "white", "particle colors: white, spectral or hue")
	frameRate = flag.Int("frame-rate", 60,
		"frame rate to target when rendering to something other than opengl")

	remote     = flag.String("remote", "", "ip:port of remote skgrid controller")
	gridWidth  = flag.Int("grid-width", 16, "columns of the remote grid")
	gridHeight = flag.Int("grid-height", 60, "rows of the remote grid")
	httpAddr   = flag.String("http", ":8080", "address to serve the graphql api on, empty to disable")
)

func init() {
	// glfw calls must happen on the main thread
	runtime.LockOSThread()
}

func main() {
	flag.Parse()
	defer glog.Flush()

	if *devices {
		listDevices()
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		glog.Fatal(err)
	}
	cmap, ok := util.ParseColorMap(*colors)
	if !ok {
		glog.Fatalf("unknown colormap %q", *colors)
	}

	field, err := particles.NewField(cfg)
	if err != nil {
		glog.Fatal("error creating particle field: ", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	go func() {
		<-sig
		cancel()
	}()

	src, err := openSource(ctx)
	if err != nil {
		if errors.Is(err, audio.ErrSourceUnavailable) {
			glog.Fatalf("%v; restart to try again", err)
		}
		glog.Fatal(err)
	}
	field.Start()

	// a read error ends the session; a replay that runs out leaves the field to fade on silence
	go func() {
		if err := <-src.Err(); err != nil {
			glog.Errorf("audio source failed: %v", err)
			cancel()
			return
		}
		glog.Info("audio source finished")
	}()

	latest := audio.NewLatest(ctx.Done(), analyse(ctx.Done(), src))

	if *httpAddr != "" {
		go serveAPI(*httpAddr, field)
	}
	if *remote != "" {
		go streamToRemote(ctx, field, cmap)
	}

	switch *renderer {
	case "gl":
		runGL(ctx, field, latest, cmap)
	case "term":
		runTerminal(ctx, cancel, field, latest, cmap)
	case "headless":
		runHeadless(ctx, field, latest)
	default:
		glog.Fatalf("unknown renderer %q", *renderer)
	}

	if *saveConfig && *configFile != "" {
		c := field.Config()
		if err := particles.SaveConfig(*configFile, &c); err != nil {
			glog.Errorf("saving config: %v", err)
		}
	}
}

func loadConfig() (*particles.Config, error) {
	cfg := particles.DefaultConfig()
	if *configFile != "" {
		if err := particles.LoadConfig(*configFile, cfg); err != nil {
			return nil, err
		}
	}
	var err error
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "strategy":
			cfg.Strategy, err = particles.ParseStrategy(*strategy)
		case "count":
			cfg.ParticleCount = *count
		case "threshold":
			cfg.LoudnessThreshold = *threshold
		case "seed":
			cfg.Seed = *seed
		}
	})
	if err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func listDevices() {
	if err := portaudio.Initialize(); err != nil {
		glog.Fatal(err)
	}
	defer portaudio.Terminate()
	desc, err := audio.DescribeDevices()
	if err != nil {
		glog.Fatal(err)
	}
	os.Stdout.WriteString(desc)
}

func openSource(ctx context.Context) (audio.Source, error) {
	if *wavFile != "" {
		return audio.NewWavSource(ctx, *wavFile, blockSize, *realtime)
	}
	return audio.NewSource(ctx, &audio.Config{
		BlockSize:  blockSize,
		SampleRate: sampleRate,
		Channels:   1,
	})
}

// analyse builds the chain from raw blocks to the frames the field consumes.
func analyse(done <-chan struct{}, src audio.Source) <-chan []float64 {
	frames := audio.Buffer(done, src.Frames(), frameSize)

	if *pregain {
		pg := util.NewPreGain(util.DefaultPreGainParams)
		frames = audio.NewNodeF64F64(done, frames, pg.Apply)
	}

	switch *mode {
	case "waveform":
	case "spectrum":
		sc, ok := util.ParseScale(*scale)
		if !ok {
			glog.Fatalf("unknown frequency scale %q", *scale)
		}
		sp := fft.NewSpectrum(sampleRate, frameSize, *buckets, sc)
		frames = audio.NewNodeF64F64(done, frames, sp.Transform)
	default:
		glog.Fatalf("unknown frame mode %q", *mode)
	}
	return frames
}

func runGL(ctx context.Context, field *particles.Field, latest *audio.Latest, cmap util.ColorMap) {
	d, err := points.NewDisplay(ctx, &points.Config{
		Width: *width, Height: *height,
		Title:       "Particles",
		FieldOfView: 75,
		CameraZ:     float32(*cameraZ),
		PointSize:   float32(*pointSize),
	})
	if err != nil {
		glog.Fatal("error creating display: ", err)
	}
	d.SetRenderFunc(func(fr *points.Frame) {
		field.Tick(latest.Frame())
		field.View(func(b *particles.Buffer, cfg *particles.Config) {
			fillFrame(fr, b, cfg, cmap)
		})
	})
	d.Start()
}

func runTerminal(ctx context.Context, cancel context.CancelFunc,
	field *particles.Field, latest *audio.Latest, cmap util.ColorMap) {
	screen, err := tcell.NewScreen()
	if err != nil {
		glog.Fatal(err)
	}
	if err := screen.Init(); err != nil {
		glog.Fatal(err)
	}
	defer screen.Fini()

	d := term.NewDisplay(screen, cmap, 0.6)
	go d.Events(cancel)

	drive(ctx, func() {
		field.Tick(latest.Frame())
		field.View(func(b *particles.Buffer, cfg *particles.Config) {
			d.Draw(b, cfg.SpatialBound, !cfg.Strategy.UsesAlpha())
		})
	})
}

func runHeadless(ctx context.Context, field *particles.Field, latest *audio.Latest) {
	drive(ctx, func() {
		field.Tick(latest.Frame())
	})
}

// drive calls tick at the target frame rate until ctx is done.
func drive(ctx context.Context, tick func()) {
	ticker := time.NewTicker(time.Second / time.Duration(*frameRate))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tick()
		}
	}
}

// streamToRemote mirrors the field onto a remote LED grid. If the connection is lost it
// tries again after 10 seconds.
func streamToRemote(ctx context.Context, field *particles.Field, cmap util.ColorMap) {
	delay := time.NewTicker(10 * time.Second)
	defer delay.Stop()
	for {
		rem, err := skgrid.NewRemote(*remote)
		if err != nil {
			glog.Warningf("could not connect to remote skgrid controller: %v. "+
				"Retrying in 10 seconds...", err)
		} else {
			grid, err := skgrid.NewGrid(*gridWidth, *gridHeight, rem, false)
			if err != nil {
				glog.Fatal(err)
			}
			err = gridRender(ctx, field, grid, cmap)
			grid.Close()
			if ctx.Err() != nil {
				return
			}
			glog.Warningf("lost remote skgrid controller: %v", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-delay.C:
		}
	}
}

func gridRender(ctx context.Context, field *particles.Field, grid skgrid.Grid, cmap util.ColorMap) error {
	proj := raster.NewProjector(grid.Rect(), cmap, 0.8)
	ticker := time.NewTicker(time.Second / time.Duration(*frameRate))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		var img *image.RGBA
		field.View(func(b *particles.Buffer, cfg *particles.Config) {
			img = proj.Project(b, cfg.SpatialBound, !cfg.Strategy.UsesAlpha())
		})
		if err := skgrid.Draw(grid, img); err != nil {
			return err
		}
	}
}

func serveAPI(addr string, field *particles.Field) {
	http.Handle("/api/v1/graphql", newGraphqlHandler(field))
	glog.Infof("serving graphql api on %s", addr)
	if err := http.ListenAndServe(addr, nil); err != nil {
		glog.Errorf("graphql api stopped: %v", err)
	}
}
