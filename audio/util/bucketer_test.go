package util

import (
	"testing"
)

func TestBucketer(t *testing.T) {
	size := 512
	frame := make([]float64, size)
	for i := range frame {
		frame[i] = 1
	}

	for _, c := range []struct {
		name    string
		scale   Scale
		buckets int
	}{
		{"mel", MelScale, 64},
		{"log2", LogScale2, 60},
		{"log2 coarse", LogScale2, 8},
	} {
		t.Run(c.name, func(t *testing.T) {
			b := NewBucketer(c.scale, c.buckets, size, 32, 16000, 24000)
			buckets, err := b.Bucket(frame)
			if err != nil {
				t.Fatal(err)
			}
			if len(buckets) != c.buckets {
				t.Fatal("expected", c.buckets, "buckets, got", len(buckets))
			}
			for i := 1; i < len(b.edges); i++ {
				if b.edges[i] < b.edges[i-1] || b.edges[i] > size {
					t.Fatal("edges out of order:", b.edges)
				}
			}
			t.Log(b.edges)
		})
	}
}

func TestBucketerSizeMismatch(t *testing.T) {
	b := NewBucketer(LogScale2, 8, 64, 32, 16000, 24000)
	if _, err := b.Bucket(make([]float64, 32)); err == nil {
		t.Fatal("expected an error for a short frame")
	}
}

func TestScalesRoundTrip(t *testing.T) {
	for _, s := range []Scale{MelScale, LogScale2} {
		for _, f := range []float64{32, 440, 16000} {
			if g := s.From(s.To(f)); g < f-1e-6 || g > f+1e-6 {
				t.Fatal(f, g)
			}
		}
	}
}

func TestParseScale(t *testing.T) {
	if s, ok := ParseScale("mel"); !ok || s != MelScale {
		t.Fatal("mel not registered")
	}
	if s, ok := ParseScale("log2"); !ok || s != LogScale2 {
		t.Fatal("log2 not registered")
	}
	if _, ok := ParseScale("bark"); ok {
		t.Fatal("expected unknown scale to be rejected")
	}
}
