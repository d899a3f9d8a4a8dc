package audio

import (
	"context"
	"errors"
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// ErrSourceUnavailable is returned when an audio source can not be opened, for instance
// because there is no input device or access to it was denied. It is terminal: the source
// is not retried.
var ErrSourceUnavailable = errors.New("audio source unavailable")

// Config represents a config that is used to open a new Stream.
type Config struct {
	// BlockSize refers to the buffer size for each block
	BlockSize int
	// Channels is the number of input channeles
	Channels int
	// SampleRate is the sample rate (Fs).
	SampleRate float64
}

// Source produces blocks of raw samples. Frames is closed when the source stops; a read
// error is delivered on Err before that happens. Err is closed after Frames, so a receive
// on Err returning nil means the source ended cleanly.
type Source interface {
	Frames() <-chan []float32
	Err() <-chan error
}

// Stream is a Source reading from the default portaudio input device.
type Stream struct {
	out  chan []float32
	errc chan error
}

// NewSource opens the default input device and starts streaming blocks of cfg.BlockSize
// samples until ctx is cancelled. Failing to open the device returns an error wrapping
// ErrSourceUnavailable.
func NewSource(ctx context.Context, cfg *Config) (*Stream, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("%w: initializing portaudio: %v", ErrSourceUnavailable, err)
	}

	in := make([]float32, cfg.BlockSize*cfg.Channels)
	stream, err := portaudio.OpenDefaultStream(
		cfg.Channels, 0, cfg.SampleRate, cfg.BlockSize, in)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("%w: opening stream: %v", ErrSourceUnavailable, err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("%w: starting stream: %v", ErrSourceUnavailable, err)
	}

	s := &Stream{
		out:  make(chan []float32),
		errc: make(chan error, 1),
	}
	done := ctx.Done()

	go func() {
		defer close(s.errc)
		defer close(s.out)
		defer portaudio.Terminate()
		defer stream.Close()

		for {
			select {
			case <-done:
				return
			default:
			}

			if err := stream.Read(); err != nil {
				s.errc <- fmt.Errorf("reading from stream: %w", err)
				return
			}

			frame := make([]float32, cfg.BlockSize)
			mixdown(frame, in, cfg.Channels)

			select {
			case s.out <- frame:
			case <-done:
				return
			}
		}
	}()

	return s, nil
}

// Frames returns the channel of sample blocks.
func (s *Stream) Frames() <-chan []float32 { return s.out }

// Err returns the channel on which a read error is reported. It is closed when the
// stream stops.
func (s *Stream) Err() <-chan error { return s.errc }

// mixdown averages interleaved channels of in into out.
func mixdown(out, in []float32, channels int) {
	if channels <= 1 {
		copy(out, in)
		return
	}
	scale := 1 / float32(channels)
	for i := range out {
		var sum float32
		for c := 0; c < channels; c++ {
			sum += in[i*channels+c]
		}
		out[i] = sum * scale
	}
}
