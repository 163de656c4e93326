package profiler

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-cube/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickReportsOncePerInterval(t *testing.T) {
	var out bytes.Buffer
	prev := common.Logger()
	common.SetLogger(slog.New(slog.NewTextHandler(&out, nil)))
	t.Cleanup(func() { common.SetLogger(prev) })

	start := time.Unix(1000, 0)
	clock := start
	p := NewProfiler(time.Second)
	p.now = func() time.Time { return clock }
	p.lastTime = start

	for range 59 {
		clock = clock.Add(10 * time.Millisecond)
		assert.False(t, p.Tick())
	}
	clock = start.Add(2 * time.Second)
	require.True(t, p.Tick())

	assert.InDelta(t, 30.0, p.Last().FPS, 1e-9)
	assert.Contains(t, out.String(), "frame stats")
	assert.Contains(t, out.String(), "fps=30")

	clock = clock.Add(500 * time.Millisecond)
	assert.False(t, p.Tick(), "a new interval starts after each report")
}

func TestNewProfilerDefaultInterval(t *testing.T) {
	p := NewProfiler(0)
	assert.Equal(t, time.Second, p.updateInterval)
	assert.Equal(t, Stats{}, p.Last())
}
