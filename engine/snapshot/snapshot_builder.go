package snapshot

// WriterBuilderOption is a functional option for configuring a Writer.
type WriterBuilderOption func(*writer)

// WithWorkers sets the number of encoder goroutines. Non-positive values keep the default,
// one per CPU.
//
// Parameters:
//   - n: the number of workers
//
// Returns:
//   - WriterBuilderOption: option function to apply
func WithWorkers(n int) WriterBuilderOption {
	return func(w *writer) {
		if n > 0 {
			w.workers = n
		}
	}
}

// WithFilePattern sets the fmt pattern used to name frames. It receives the frame index.
//
// Parameters:
//   - pattern: a pattern with one integer verb, e.g. "cube_%04d.webp"
//
// Returns:
//   - WriterBuilderOption: option function to apply
func WithFilePattern(pattern string) WriterBuilderOption {
	return func(w *writer) {
		if pattern != "" {
			w.pattern = pattern
		}
	}
}
