// Package profiler reports frame rate and memory statistics through the common logger.
package profiler

import (
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-cube/common"
)

// Stats is one reporting interval's measurements.
type Stats struct {
	FPS         float64
	HeapMB      float64
	AllocRateMB float64 // MB allocated per second over the interval
	GCCount     uint32
	LastPauseUs uint64
	MaxPauseUs  uint64 // longest GC pause since the previous report
	SysMB       float64
}

// Profiler tracks frame rate and memory statistics for performance monitoring.
// It reports at a fixed interval and is driven by the host loop, so it is not synchronized.
type Profiler struct {
	now            func() time.Time
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Stats
}

// NewProfiler creates a new Profiler reporting once per interval.
// A non-positive interval defaults to 1 second.
//
// Parameters:
//   - interval: the reporting interval
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(interval time.Duration) *Profiler {
	if interval <= 0 {
		interval = time.Second
	}
	return &Profiler{
		now:            time.Now,
		lastTime:       time.Now(),
		updateInterval: interval,
	}
}

// Tick should be called once per frame. When the interval has elapsed it measures FPS, heap,
// allocation rate and GC pauses, logs them at Info level and starts a new interval.
//
// Returns:
//   - bool: true if stats were reported this tick
func (p *Profiler) Tick() bool {
	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	s := Stats{
		FPS:         float64(p.frameCount) / elapsed.Seconds(),
		HeapMB:      float64(p.memStats.Alloc) / 1024 / 1024,
		AllocRateMB: float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds(),
		GCCount:     p.memStats.NumGC,
		SysMB:       float64(p.memStats.Sys) / 1024 / 1024,
	}
	if s.GCCount > 0 {
		// PauseNs is a ring of the last 256 pauses.
		s.LastPauseUs = p.memStats.PauseNs[(s.GCCount-1)%256] / 1000
		start := p.lastGCCount
		if s.GCCount-start > 256 {
			start = s.GCCount - 256
		}
		for i := start; i < s.GCCount; i++ {
			s.MaxPauseUs = max(s.MaxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	common.Logger().Info("frame stats",
		"fps", s.FPS,
		"heap_mb", s.HeapMB,
		"alloc_rate_mb_s", s.AllocRateMB,
		"gc", s.GCCount,
		"gc_last_pause_us", s.LastPauseUs,
		"gc_max_pause_us", s.MaxPauseUs,
		"sys_mb", s.SysMB,
	)

	p.last = s
	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = s.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Last returns the most recently reported Stats.
//
// Returns:
//   - Stats: the last report, zero before the first one
func (p *Profiler) Last() Stats {
	return p.last
}
