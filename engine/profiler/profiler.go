package profiler

import (
	"log"
	"runtime"
	"time"
)

// Stats is one reporting window of frame and head-tracking timing.
type Stats struct {
	FPS float64

	// OrientationAvg and OrientationMax cover the orientation reads observed in the window.
	OrientationAvg time.Duration
	OrientationMax time.Duration
	Samples        int

	HeapMB      float64
	AllocRateMB float64
	GCCount     uint32
	SysMB       float64
}

// Profiler tracks frame rate, orientation read latency and memory statistics.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	now            func() time.Time
	logger         *log.Logger
	memStats       runtime.MemStats
	lastTotalAlloc uint64

	orientTotal time.Duration
	orientMax   time.Duration
	orientCount int

	last Stats
}

// ProfilerOption configures a Profiler.
type ProfilerOption func(p *Profiler)

// WithInterval sets how often stats are reported.
func WithInterval(d time.Duration) ProfilerOption {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ProfilerOption {
	return func(p *Profiler) {
		if now != nil {
			p.now = now
		}
	}
}

// WithLogger routes reports to logger instead of the standard logger.
func WithLogger(logger *log.Logger) ProfilerOption {
	return func(p *Profiler) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewProfiler creates a new Profiler. The update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		now:            time.Now,
		logger:         log.Default(),
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// ObserveOrientation records how long one head orientation read took.
//
// Parameters:
//   - d: duration of the read
func (p *Profiler) ObserveOrientation(d time.Duration) {
	p.orientTotal += d
	p.orientCount++
	if d > p.orientMax {
		p.orientMax = d
	}
}

// TimeOrientation runs read and records its duration.
//
// Parameters:
//   - read: the orientation read, typically a camera update
func (p *Profiler) TimeOrientation(read func()) {
	start := p.now()
	read()
	p.ObserveOrientation(p.now().Sub(start))
}

// Tick should be called once per frame.
// Logs statistics when the update interval has elapsed.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	s := Stats{
		FPS:            float64(p.frameCount) / elapsed.Seconds(),
		OrientationMax: p.orientMax,
		Samples:        p.orientCount,
	}
	if p.orientCount > 0 {
		s.OrientationAvg = p.orientTotal / time.Duration(p.orientCount)
	}

	runtime.ReadMemStats(&p.memStats)
	s.HeapMB = float64(p.memStats.Alloc) / 1024 / 1024
	s.SysMB = float64(p.memStats.Sys) / 1024 / 1024
	s.AllocRateMB = float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds()
	s.GCCount = p.memStats.NumGC

	p.logger.Printf("[Profiler] FPS: %.2f | Orientation: avg %s, max %s (%d reads) | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d | Sys: %.2f MB",
		s.FPS, s.OrientationAvg, s.OrientationMax, s.Samples, s.HeapMB, s.AllocRateMB, s.GCCount, s.SysMB)

	p.last = s
	p.frameCount = 0
	p.lastTime = currentTime
	p.lastTotalAlloc = p.memStats.TotalAlloc
	p.orientTotal, p.orientMax, p.orientCount = 0, 0, 0
	return true
}

// Last returns the most recently reported window.
func (p *Profiler) Last() Stats {
	return p.last
}
