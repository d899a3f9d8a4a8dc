package fft

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"

	"github.com/peragwin/particlefield/audio/util"
)

// Spectrum turns waveform frames into log power spectra bucketed onto a perceptual
// frequency axis. Its output is unbounded and non negative, unlike a waveform.
type Spectrum struct {
	SampleRate float64
	Size       int

	window   []float64
	bucketer *util.Bucketer
	scratch  []float64
}

// NewSpectrum creates a transform for frames of size samples producing the given number
// of buckets spaced evenly on scale between 32 Hz and 16 kHz (or Nyquist, if lower).
func NewSpectrum(sampleRate float64, size, buckets int, scale util.Scale) *Spectrum {
	nyquist := sampleRate / 2
	fMax := math.Min(16000, nyquist)
	return &Spectrum{
		SampleRate: sampleRate,
		Size:       size,
		window:     window.Hamming(size),
		bucketer:   util.NewBucketer(scale, buckets, size/2, 32, fMax, nyquist),
		scratch:    make([]float64, size),
	}
}

// Transform returns the bucketed spectrum of frame. Frames that are not Size samples long
// are zero padded or truncated.
func (s *Spectrum) Transform(frame []float64) []float64 {
	for i := range s.scratch {
		var v float64
		if i < len(frame) {
			v = frame[i]
		}
		s.scratch[i] = v * s.window[i]
	}

	fx := fft.FFTReal(s.scratch)
	px := make([]float64, s.Size/2)
	n := float64(s.Size)
	for i := range px {
		px[i] = math.Log(1 + real(cmplx.Conj(fx[i])*fx[i])/n)
	}

	buckets, err := s.bucketer.Bucket(px)
	if err != nil {
		// the bucketer is built for Size/2 bins
		panic(err)
	}
	return buckets
}
