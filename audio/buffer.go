package audio

import (
	"github.com/golang/glog"

	"github.com/peragwin/particlefield/audio/util"
)

// Buffer turns every incoming block into an analysis frame holding the most recent size
// samples, so consecutive frames overlap when blocks are smaller than size. Samples are
// converted to float64 on the way through. Frames are dropped, not queued, when the
// consumer falls behind.
func Buffer(done <-chan struct{}, in <-chan []float32, size int) <-chan []float64 {
	return buffer(done, in, size, false)
}

// BlockingBuffer is like Buffer but waits for the consumer instead of dropping frames, so
// every block yields exactly one frame. It suits offline sources that are not paced in
// real time.
func BlockingBuffer(done <-chan struct{}, in <-chan []float32, size int) <-chan []float64 {
	return buffer(done, in, size, true)
}

func buffer(done <-chan struct{}, in <-chan []float32, size int, block bool) <-chan []float64 {
	out := make(chan []float64, 4)

	go func() {
		defer close(out)
		var (
			y      []float64
			buffer = util.NewRingBuffer(size)
			drops  int
		)

		for {
			select {
			case <-done:
				return
			case x, ok := <-in:
				if !ok {
					return
				}
				if len(y) != len(x) {
					y = make([]float64, len(x))
				}
				for i := range x {
					y[i] = float64(x[i])
				}
				buffer.Push(y)

				if block {
					select {
					case out <- buffer.Get(size):
					case <-done:
						return
					}
					continue
				}
				select {
				case out <- buffer.Get(size):
				default:
					drops++
					if drops%100 == 1 {
						glog.Warningf("analysis frame dropped, consumer is behind (%d drops)", drops)
					}
				}
			}
		}
	}()

	return out
}
