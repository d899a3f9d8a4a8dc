package audio

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/golang/glog"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
)

// WavSource is a Source replaying a WAV file. Stereo input is mixed down to mono.
type WavSource struct {
	Format beep.Format

	out  chan []float32
	errc chan error
}

// NewWavSource decodes the file at path and streams it in blocks of blockSize samples. With
// realtime set, blocks are paced at the file's sample rate; otherwise they are emitted as
// fast as they are consumed. A file that can not be opened or decoded returns an error
// wrapping ErrSourceUnavailable.
func NewWavSource(ctx context.Context, path string, blockSize int, realtime bool) (*WavSource, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	streamer, format, err := wav.Decode(fp)
	if err != nil {
		fp.Close()
		return nil, fmt.Errorf("%w: decoding %s: %v", ErrSourceUnavailable, path, err)
	}
	glog.Infof("replaying %s: %d Hz, %d channels, %v",
		path, format.SampleRate, format.NumChannels, format.SampleRate.D(streamer.Len()))

	s := &WavSource{
		Format: format,
		out:    make(chan []float32),
		errc:   make(chan error, 1),
	}

	go func() {
		defer close(s.errc)
		defer close(s.out)
		defer streamer.Close()

		var pace <-chan time.Time
		if realtime {
			ticker := time.NewTicker(format.SampleRate.D(blockSize))
			defer ticker.Stop()
			pace = ticker.C
		}

		samples := make([][2]float64, blockSize)
		for {
			n, ok := streamer.Stream(samples)
			if !ok {
				if err := streamer.Err(); err != nil {
					s.errc <- fmt.Errorf("reading %s: %w", path, err)
				}
				return
			}

			frame := make([]float32, blockSize)
			for i := 0; i < n; i++ {
				frame[i] = float32((samples[i][0] + samples[i][1]) / 2)
			}

			if pace != nil {
				select {
				case <-pace:
				case <-ctx.Done():
					return
				}
			}
			select {
			case s.out <- frame:
			case <-ctx.Done():
				return
			}
		}
	}()

	return s, nil
}

// Frames returns the channel of sample blocks.
func (s *WavSource) Frames() <-chan []float32 { return s.out }

// Err returns the channel on which a decoding error is reported. It is closed once the
// file has been replayed.
func (s *WavSource) Err() <-chan error { return s.errc }
