package audio

import "sync"

// Latest keeps the most recent frame of a stream so a render loop running at its own rate
// can sample it once per tick.
type Latest struct {
	mu     sync.Mutex
	frame  []float64
	frames int
}

// NewLatest drains in until it is closed or done is closed. Once in is closed the frame is
// cleared, so a stream that has ended reads as silence rather than repeating its last frame.
func NewLatest(done <-chan struct{}, in <-chan []float64) *Latest {
	l := &Latest{}
	go func() {
		for {
			select {
			case <-done:
				return
			case frame, ok := <-in:
				if !ok {
					l.mu.Lock()
					l.frame = nil
					l.mu.Unlock()
					return
				}
				l.mu.Lock()
				l.frame = frame
				l.frames++
				l.mu.Unlock()
			}
		}
	}()
	return l
}

// Frame returns the most recent frame, or nil if none has arrived yet or the stream has
// ended. Frames are never written after they are handed out, so the result may be read
// without copying.
func (l *Latest) Frame() []float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frame
}

// Count is the number of frames received so far.
func (l *Latest) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frames
}
