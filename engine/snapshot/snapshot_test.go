package snapshot

import (
	"errors"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-cube/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := range 8 {
		for x := range 8 {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func assertWebP(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(data), 12)
	assert.Equal(t, "RIFF", string(data[0:4]))
	assert.Equal(t, "WEBP", string(data[8:12]))
}

func TestWriterEncodesFrames(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	w, err := NewWriter(dir, WithWorkers(2))
	require.NoError(t, err)

	w.Submit(0, solid(color.RGBA{255, 0, 0, 255}))
	w.Submit(1, solid(color.RGBA{0, 255, 0, 255}))
	w.Submit(2, solid(color.RGBA{0, 0, 255, 255}))
	require.NoError(t, w.Close())

	expected := []string{
		filepath.Join(dir, "frame_000.webp"),
		filepath.Join(dir, "frame_001.webp"),
		filepath.Join(dir, "frame_002.webp"),
	}
	assert.Equal(t, expected, w.Written())
	for _, p := range expected {
		assertWebP(t, p)
	}
}

func TestWriterFilePattern(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, WithFilePattern("cube_%04d.webp"), WithWorkers(-3))
	require.NoError(t, err)
	defer w.Close()

	assert.Equal(t, filepath.Join(dir, "cube_0007.webp"), w.Path(7))
}

func TestNewWriterBadDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, err := NewWriter(filepath.Join(file, "sub"))
	assert.ErrorIs(t, err, common.ErrConfiguration)
}

func TestWriterJoinsFrameErrors(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	w, err := NewWriter(dir, WithWorkers(1))
	require.NoError(t, err)

	// Replace the directory with a file so every create fails.
	require.NoError(t, os.RemoveAll(dir))
	require.NoError(t, os.WriteFile(dir, []byte("x"), 0o644))

	w.Submit(3, solid(color.RGBA{A: 255}))
	w.Submit(1, solid(color.RGBA{A: 255}))
	err = w.Close()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "frame 1:")
	assert.Contains(t, err.Error(), "frame 3:")
	assert.Less(t, strings.Index(err.Error(), "frame 1:"), strings.Index(err.Error(), "frame 3:"))
	assert.Empty(t, w.Written())
}

func TestTurntableAzimuths(t *testing.T) {
	w, err := NewWriter(t.TempDir(), WithWorkers(2))
	require.NoError(t, err)

	var azimuths []float32
	err = Turntable(4, func(index int, azimuth float32) (*image.RGBA, error) {
		assert.Equal(t, len(azimuths), index)
		azimuths = append(azimuths, azimuth)
		return solid(color.RGBA{uint8(index * 60), 0, 0, 255}), nil
	}, w)
	require.NoError(t, err)

	require.Len(t, azimuths, 4)
	for i, want := range []float64{0, math.Pi / 2, math.Pi, 3 * math.Pi / 2} {
		assert.InDelta(t, want, azimuths[i], 1e-6)
	}
	assert.Len(t, w.Written(), 4)
}

func TestTurntableStopsOnRenderError(t *testing.T) {
	w, err := NewWriter(t.TempDir(), WithWorkers(1))
	require.NoError(t, err)

	boom := errors.New("device lost")
	err = Turntable(5, func(index int, _ float32) (*image.RGBA, error) {
		if index == 2 {
			return nil, boom
		}
		return solid(color.RGBA{A: 255}), nil
	}, w)

	assert.ErrorIs(t, err, boom)
	assert.Len(t, w.Written(), 2, "frames rendered before the failure are still written")
}

func TestTurntableNoFrames(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	require.NoError(t, err)

	err = Turntable(0, func(int, float32) (*image.RGBA, error) {
		t.Fatal("render must not be called")
		return nil, nil
	}, w)
	assert.ErrorIs(t, err, common.ErrConfiguration)
}
