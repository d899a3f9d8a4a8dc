package util

import (
	"fmt"
	"math"
)

// Scale maps frequencies onto a perceptual axis and back.
type Scale interface {
	To(float64) float64
	From(float64) float64
}

type melScale struct{}

// MelScale is the mel frequency scale.
var MelScale Scale = melScale{}

func (melScale) To(val float64) float64 {
	return 1127 * math.Log(1+val/700)
}

func (melScale) From(val float64) float64 {
	return 700 * (math.Exp(val/1127.0) - 1)
}

type logScale struct {
	base float64
}

// LogScale2 is a base 2 logarithmic frequency scale, so every octave gets the same
// number of buckets.
var LogScale2 Scale = logScale{2}

func (s logScale) To(val float64) float64 {
	return math.Log(val) / math.Log(s.base)
}

func (s logScale) From(val float64) float64 {
	return math.Pow(s.base, val)
}

// ParseScale returns the frequency scale registered under name: "mel" or "log2".
func ParseScale(name string) (Scale, bool) {
	switch name {
	case "mel":
		return MelScale, true
	case "log2":
		return LogScale2, true
	}
	return nil, false
}

// Bucketer sums the bins of a spectrum into N buckets spaced evenly on a Scale between
// fMin and fMax.
type Bucketer struct {
	Buckets int
	Size    int
	Scale   Scale

	// N+1 bin boundaries, bucket i covers bins [edges[i], edges[i+1])
	edges []int
}

// NewBucketer creates a bucketer for spectra of frameSize bins spanning 0 to nyquist Hz.
func NewBucketer(scale Scale, buckets, frameSize int, fMin, fMax, nyquist float64) *Bucketer {
	sMin := scale.To(fMin)
	sMax := scale.To(fMax)
	space := (sMax - sMin) / float64(buckets)
	binWidth := nyquist / float64(frameSize)

	edges := make([]int, buckets+1)
	for i := range edges {
		f := scale.From(sMin + float64(i)*space)
		idx := int(math.Round(f / binWidth))
		if idx > frameSize {
			idx = frameSize
		}
		// every bucket covers at least one bin
		if i > 0 && idx <= edges[i-1] {
			idx = edges[i-1] + 1
		}
		edges[i] = idx
	}
	if edges[buckets] > frameSize {
		// too many buckets for the resolution; clamp the tail to the last bin
		for i := range edges {
			if edges[i] > frameSize {
				edges[i] = frameSize
			}
		}
	}
	return &Bucketer{
		Buckets: buckets,
		Size:    frameSize,
		Scale:   scale,
		edges:   edges,
	}
}

// Bucket returns the summed energy of each bucket of frame.
func (b *Bucketer) Bucket(frame []float64) ([]float64, error) {
	if len(frame) != b.Size {
		return nil, fmt.Errorf("frame size %d does not match bucketer size %d", len(frame), b.Size)
	}
	buckets := make([]float64, b.Buckets)
	for i := range buckets {
		var sum float64
		for j := b.edges[i]; j < b.edges[i+1]; j++ {
			sum += frame[j]
		}
		buckets[i] = sum
	}
	return buckets, nil
}
