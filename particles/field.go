package particles

import (
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/graphql-go/graphql"
	"golang.org/x/exp/rand"
)

// State of a Field.
type State int

// Field states. A field starts Idle and becomes Running once its audio source is attached.
// There is no way back to Idle.
const (
	Idle State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// Field is a particle buffer driven by audio frames. It is the session object that owns
// all of the particle state; nothing is kept in package variables.
//
// Ticks are expected to come from a single render loop. The lock only orders ticks against
// reconfiguration and readers on other goroutines.
type Field struct {
	mu     sync.RWMutex
	cfg    Config
	buf    *Buffer
	rnd    *rand.Rand
	state  State
	ticks  int
	loud   int
	schema graphql.Schema
}

// NewField creates an idle field from cfg.
func NewField(cfg *Config) (*Field, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	f := &Field{
		cfg: *cfg,
		rnd: rand.New(rand.NewSource(seed)),
	}
	f.buf = Initialize(f.rnd, cfg.ParticleCount, cfg.SpatialBound)
	if err := f.initGraphql(); err != nil {
		return nil, err
	}
	return f, nil
}

// Start marks the audio source as attached. Calling it again has no effect.
func (f *Field) Start() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == Running {
		return
	}
	f.state = Running
	glog.Infof("particle field running: %d particles, strategy %s",
		f.cfg.ParticleCount, f.cfg.Strategy)
}

// State returns the current state.
func (f *Field) State() State {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state
}

// Tick applies one audio frame to the particles using the configured strategy. Ticks on an
// idle field are ignored.
func (f *Field) Tick(frame []float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != Running {
		return
	}

	var loud bool
	switch f.cfg.Strategy {
	case ThresholdSpawn:
		loud = UpdateThresholdSpawn(f.buf, frame, f.rnd, &f.cfg)
	case FadingAlpha:
		loud = UpdateFadingAlpha(f.buf, frame, f.rnd, &f.cfg)
	case DirectMapping:
		UpdateDirectMapping(f.buf, frame, f.cfg.AmplificationFactor)
	}
	if loud {
		f.loud++
	}
	f.ticks++

	if f.ticks%100 == 0 {
		if glog.V(2) {
			glog.Infof("tick %d: loudness = %.04f, %d of the last 100 ticks loud",
				f.ticks, Loudness(frame), f.loud)
		}
		f.loud = 0
	}
}

// Ticks is the number of frames applied since the field started.
func (f *Field) Ticks() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.ticks
}

// Config returns a copy of the current configuration.
func (f *Field) Config() Config {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.cfg
}

// Reconfigure replaces the configuration. The particles are reinitialized when the count or
// the bound changes; otherwise they carry over.
func (f *Field) Reconfigure(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	realloc := cfg.ParticleCount != f.cfg.ParticleCount || cfg.SpatialBound != f.cfg.SpatialBound
	if cfg.Seed != 0 && cfg.Seed != f.cfg.Seed {
		f.rnd.Seed(cfg.Seed)
	}
	f.cfg = *cfg
	if realloc {
		f.buf = Initialize(f.rnd, cfg.ParticleCount, cfg.SpatialBound)
	}
	glog.V(1).Infof("field reconfigured: %+v", f.cfg)
	return nil
}

// View calls fn with the particle buffer while holding a read lock. fn must not keep a
// reference to the buffer after it returns.
func (f *Field) View(fn func(b *Buffer, cfg *Config)) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	fn(f.buf, &f.cfg)
}
