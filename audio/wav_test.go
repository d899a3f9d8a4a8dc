package audio

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/wav"
)

func writeTone(t *testing.T, samples int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tone.wav")
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
	if err := wav.Encode(fp, beep.Take(samples, tone), format); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestWavSource(t *testing.T) {
	const blockSize = 256
	path := writeTone(t, 4*blockSize)

	src, err := NewWavSource(context.Background(), path, blockSize, false)
	if err != nil {
		t.Fatal(err)
	}

	n := 0
	var peak float64
	for frame := range src.Frames() {
		if len(frame) != blockSize {
			t.Fatal("unexpected block size", len(frame))
		}
		for _, v := range frame {
			peak = math.Max(peak, math.Abs(float64(v)))
		}
		n++
	}
	if n != 4 {
		t.Fatal("expected 4 blocks, got", n)
	}
	if peak < 0.5 {
		t.Fatal("tone was not decoded, peak", peak)
	}
	if err, ok := <-src.Err(); ok {
		t.Fatal("expected Err to be closed after a clean replay, got", err)
	}
}

func TestWavReplayEndsInSilence(t *testing.T) {
	const blockSize = 256
	path := writeTone(t, 8*blockSize)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	src, err := NewWavSource(ctx, path, blockSize, false)
	if err != nil {
		t.Fatal(err)
	}
	latest := NewLatest(ctx.Done(), Buffer(ctx.Done(), src.Frames(), 4*blockSize))

	if err := <-src.Err(); err != nil {
		t.Fatal(err)
	}
	deadline := time.After(time.Second)
	for latest.Frame() != nil {
		select {
		case <-deadline:
			t.Fatal("the last frame of the file is still replayed after it ended")
		case <-time.After(time.Millisecond):
		}
	}
	if latest.Count() == 0 {
		t.Fatal("no frames were received from the file")
	}
}

func TestWavSourceMissing(t *testing.T) {
	_, err := NewWavSource(context.Background(), filepath.Join(t.TempDir(), "nope.wav"), 256, false)
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatal("expected ErrSourceUnavailable, got", err)
	}
}
