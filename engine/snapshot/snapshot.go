// Package snapshot writes rendered frames to disk as lossless WebP images.
//
// Frames are read back and submitted from the render goroutine. Encoding and file writes run
// on a worker pool, so the GPU never waits on the encoder.
package snapshot

import (
	"cmp"
	"errors"
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-cube/common"
	"github.com/HugoSmits86/nativewebp"
)

// DefaultFilePattern names frame i of an export.
const DefaultFilePattern = "frame_%03d.webp"

// frameError records the failure of a single frame.
type frameError struct {
	index int
	err   error
}

// writer implements the Writer interface.
type writer struct {
	dir     string
	pattern string
	workers int

	pool worker.DynamicWorkerPool
	wg   sync.WaitGroup

	mu      sync.Mutex
	errs    []frameError
	written []string
	closed  bool
}

// Writer encodes frames on a worker pool.
type Writer interface {
	// Submit queues frame index for encoding. The image must not be modified afterwards.
	// Submit blocks only when the pool's queue is full.
	//
	// Parameters:
	//   - index: the frame number, used in the file name
	//   - img: the frame to encode
	Submit(index int, img *image.RGBA)

	// Close waits for every submitted frame and stops the pool.
	//
	// Returns:
	//   - error: every per-frame failure joined in frame order, or nil
	Close() error

	// Written returns the paths written so far, sorted.
	Written() []string

	// Path returns the file path frame index is written to.
	Path(index int) string
}

var _ Writer = &writer{}

// NewWriter creates a Writer that places its frames in dir, creating the directory if needed.
//
// Parameters:
//   - dir: the output directory
//   - options: functional options for writer configuration
//
// Returns:
//   - Writer: the newly created writer
//   - error: an error if the directory could not be created
func NewWriter(dir string, options ...WriterBuilderOption) (Writer, error) {
	w := &writer{
		dir:     dir,
		pattern: DefaultFilePattern,
		workers: runtime.NumCPU(),
	}
	for _, opt := range options {
		opt(w)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory %q: %w: %w", dir, common.ErrConfiguration, err)
	}

	w.pool = worker.NewDynamicWorkerPool(w.workers, 256, time.Second)
	return w, nil
}

func (w *writer) Submit(index int, img *image.RGBA) {
	path := w.Path(index)
	w.wg.Add(1)
	w.pool.SubmitTask(worker.Task{
		ID:      index,
		Payload: path,
		Do: func() (any, error) {
			defer w.wg.Done()

			err := writeWebP(path, img)

			w.mu.Lock()
			defer w.mu.Unlock()
			if err != nil {
				w.errs = append(w.errs, frameError{index: index, err: err})
				common.Logger().Warn("frame export failed", "frame", index, "error", err)
				return nil, err
			}
			w.written = append(w.written, path)
			common.Logger().Debug("frame exported", "frame", index, "path", path)
			return path, nil
		},
	})
}

func (w *writer) Close() error {
	// pool.Wait() returns only once workers idle-exit; the WaitGroup is the per-export barrier.
	w.wg.Wait()

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.closed {
		w.closed = true
		w.pool.Stop()
	}

	slices.SortFunc(w.errs, func(a, b frameError) int { return cmp.Compare(a.index, b.index) })
	errs := make([]error, 0, len(w.errs))
	for _, fe := range w.errs {
		errs = append(errs, fmt.Errorf("frame %d: %w", fe.index, fe.err))
	}
	return errors.Join(errs...)
}

func (w *writer) Written() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := slices.Clone(w.written)
	slices.Sort(out)
	return out
}

func (w *writer) Path(index int) string {
	return filepath.Join(w.dir, fmt.Sprintf(w.pattern, index))
}

// writeWebP encodes img losslessly to path.
func writeWebP(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if err := nativewebp.Encode(f, img, nil); err != nil {
		return fmt.Errorf("webp encode: %w", err)
	}
	return nil
}

// FrameFunc renders frame index of a turntable with the camera at the given azimuth in radians.
type FrameFunc func(index int, azimuth float32) (*image.RGBA, error)

// Turntable renders frames evenly spaced around a full orbit and submits each to w.
// Frames are rendered in order on the calling goroutine. A render error stops the export
// after the frames already submitted are flushed.
//
// Parameters:
//   - frames: the number of frames in the orbit
//   - render: renders one frame
//   - w: the writer receiving the frames; it is closed before Turntable returns
//
// Returns:
//   - error: the render error and any per-frame export errors, joined
func Turntable(frames int, render FrameFunc, w Writer) error {
	if frames <= 0 {
		return errors.Join(
			fmt.Errorf("turntable needs at least one frame, got %d: %w", frames, common.ErrConfiguration),
			w.Close(),
		)
	}

	var renderErr error
	for i := range frames {
		azimuth := float32(2 * math.Pi * float64(i) / float64(frames))
		img, err := render(i, azimuth)
		if err != nil {
			renderErr = fmt.Errorf("render frame %d: %w", i, err)
			break
		}
		w.Submit(i, img)
	}
	return errors.Join(renderErr, w.Close())
}
