package profiler

import (
	"log"
	"runtime"
	"time"
)

// Stats summarises the frames of one reporting interval.
type Stats struct {
	Frames   int
	FPS      float64
	MinFrame time.Duration
	MaxFrame time.Duration
	HeapMB   float64
	// AllocRateMB is the heap allocation rate in MB per second.
	AllocRateMB float64
	GCCount     uint32
	// LastPause and MaxPause are GC pauses; MaxPause covers the interval only.
	LastPause time.Duration
	MaxPause  time.Duration
	SysMB     float64
}

// Profiler tracks frame rate, frame times and memory statistics for performance monitoring.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	now            func() time.Time
	readMem        func(*runtime.MemStats)
	logf           func(format string, args ...any)
	frameCount     int
	lastTime       time.Time
	lastFrame      time.Time
	minFrame       time.Duration
	maxFrame       time.Duration
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Stats
}

// NewProfiler creates a new Profiler.
// Update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		now:            time.Now,
		readMem:        runtime.ReadMemStats,
		logf:           log.Printf,
		updateInterval: time.Second,
	}
	for _, option := range options {
		option(p)
	}
	p.lastTime = p.now()
	p.lastFrame = p.lastTime
	return p
}

// Tick should be called once per frame to track frame timing.
// Logs performance statistics when the update interval has elapsed.
// Statistics include: FPS, frame time range, heap usage, allocation rate, GC count/pause times, total memory.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	currentTime := p.now()
	frame := currentTime.Sub(p.lastFrame)
	p.lastFrame = currentTime
	if p.frameCount == 0 || frame < p.minFrame {
		p.minFrame = frame
	}
	p.maxFrame = max(p.maxFrame, frame)
	p.frameCount++

	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	p.readMem(&p.memStats)
	// Alloc: Bytes of allocated heap objects (live memory)
	// TotalAlloc: Cumulative bytes allocated for heap objects (increases forever, tracks churn)
	// Sys: Total bytes of memory obtained from the OS (actual process footprint)
	s := Stats{
		Frames:   p.frameCount,
		FPS:      float64(p.frameCount) / elapsed.Seconds(),
		MinFrame: p.minFrame,
		MaxFrame: p.maxFrame,
		HeapMB:   float64(p.memStats.Alloc) / 1024 / 1024,
		SysMB:    float64(p.memStats.Sys) / 1024 / 1024,
		GCCount:  p.memStats.NumGC,
	}
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	s.AllocRateMB = float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	if gcCount := p.memStats.NumGC; gcCount > 0 {
		// PauseNs is a circular buffer of last 256 GC pauses
		s.LastPause = time.Duration(p.memStats.PauseNs[(gcCount-1)%256])

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			s.MaxPause = max(s.MaxPause, time.Duration(p.memStats.PauseNs[i%256]))
		}
	}

	p.logf("[Profiler] FPS: %.2f | Frame: %s..%s | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB",
		s.FPS, s.MinFrame.Round(time.Microsecond), s.MaxFrame.Round(time.Microsecond), s.HeapMB, s.AllocRateMB,
		s.GCCount, s.LastPause.Microseconds(), s.MaxPause.Microseconds(), s.SysMB)

	p.last = s
	p.frameCount = 0
	p.maxFrame = 0
	p.lastTime = currentTime
	p.lastGCCount = p.memStats.NumGC
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Last returns the statistics of the most recent report, or the zero Stats before the first.
func (p *Profiler) Last() Stats {
	return p.last
}
