package audio

// NewNodeF64F64 creates a processing stage applying nodeFunc to every frame of in.
func NewNodeF64F64(done <-chan struct{}, in <-chan []float64, nodeFunc func([]float64) []float64) <-chan []float64 {
	out := make(chan []float64)

	go func() {
		defer close(out)
		for {
			select {
			case <-done:
				return
			case frame, ok := <-in:
				if !ok {
					return
				}
				select {
				case out <- nodeFunc(frame):
				case <-done:
					return
				}
			}
		}
	}()

	return out
}
