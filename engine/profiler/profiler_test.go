package profiler

import (
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestTickReportsOncePerInterval(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	var lines []string
	p := NewProfiler(
		WithInterval(time.Second),
		WithClock(clock.now),
		WithMemStatsReader(func(m *runtime.MemStats) {
			m.Alloc = 2 * 1024 * 1024
			m.TotalAlloc = 4 * 1024 * 1024
			m.NumGC = 2
			m.PauseNs[0] = 3000
			m.PauseNs[1] = 1000
		}),
		WithLogger(func(format string, args ...any) { lines = append(lines, format) }),
	)

	frames := []time.Duration{10 * time.Millisecond, 30 * time.Millisecond, 20 * time.Millisecond}
	reported := false
	for i := 0; !reported; i++ {
		clock.advance(frames[i%len(frames)])
		reported = p.Tick()
	}

	require.Len(t, lines, 1)
	s := p.Last()
	assert.Equal(t, 10*time.Millisecond, s.MinFrame)
	assert.Equal(t, 30*time.Millisecond, s.MaxFrame)
	assert.InDelta(t, float64(s.Frames), s.FPS, 1)
	assert.InDelta(t, 2.0, s.HeapMB, 1e-9)
	assert.Equal(t, time.Microsecond, s.LastPause)
	assert.Equal(t, 3*time.Microsecond, s.MaxPause)

	clock.advance(10 * time.Millisecond)
	assert.False(t, p.Tick())
}

func TestLastIsZeroBeforeFirstReport(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := NewProfiler(WithClock(clock.now), WithLogger(func(string, ...any) {}))
	clock.advance(time.Millisecond)
	assert.False(t, p.Tick())
	assert.Equal(t, Stats{}, p.Last())
}
