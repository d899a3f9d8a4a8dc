package util

import (
	"math"

	"github.com/golang/glog"
)

// PreGainParams tune the automatic gain. RMS is smoothed as a*rms + b*previous, and the
// gain follows a PD controller with gains kp and kd on the log distance of the smoothed
// RMS from Target.
type PreGainParams struct {
	A, B   float64
	Kp, Kd float64
	Target float64
}

// DefaultPreGainParams settle a speaking voice near full scale within a couple of seconds
// of 1024 sample frames.
var DefaultPreGainParams = PreGainParams{
	A: 0.05, B: 0.95,
	Kp: 0.01, Kd: 0.05,
	Target: 0.25,
}

// PreGain scales frames so that their RMS energy hovers around a target level. It keeps
// quiet microphones usable for loudness thresholds and direct waveform mapping.
type PreGain struct {
	params PreGainParams
	rms    float64
	gain   float64
	err    float64
	frames int
}

// NewPreGain returns a new PreGain stage.
func NewPreGain(params PreGainParams) *PreGain {
	return &PreGain{
		params: params,
		gain:   1.0,
		rms:    params.Target,
	}
}

// Gain is the gain that will be applied to the next frame.
func (p *PreGain) Gain() float64 {
	return p.gain
}

// Apply pre-gain to the frame in place and return it.
func (p *PreGain) Apply(frame []float64) []float64 {
	if len(frame) == 0 {
		return frame
	}
	sum := 0.0
	for i := range frame {
		frame[i] *= p.gain
		sum += frame[i] * frame[i]
	}

	rms := math.Sqrt(sum / float64(len(frame)))
	p.rms = p.params.A*rms + p.params.B*p.rms

	e := math.Log2(p.params.Target / (1e-7 + p.rms))
	u := p.params.Kp*e + p.params.Kd*(e-p.err)
	p.gain *= math.Exp2(u)
	if p.gain > 1e6 {
		p.gain = 1e6
	} else if p.gain < 1e-6 {
		p.gain = 1e-6
	}
	p.err = e
	p.frames++

	if glog.V(3) && p.frames%50 == 0 {
		glog.Infof("rms = %.04f\tpregain = %.02f", p.rms, p.gain)
	}
	return frame
}
