package profiler

import (
	"log"
	"runtime"
	"time"
)

// Stats is the snapshot logged at the end of each profiling interval.
type Stats struct {
	FPS float64
	// AverageQuads is the mean number of quads submitted per frame over the interval.
	AverageQuads float64
	// PeakQuads is the largest single-frame quad count over the interval.
	PeakQuads int
	HeapMB    float64
	// AllocRateMB is the heap allocation rate in MB per second.
	AllocRateMB float64
	GCCount     uint32
	SysMB       float64
}

// Profiler tracks frame rate, batch occupancy and memory statistics for performance monitoring.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	frameCount     int
	quadCount      int
	peakQuads      int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Stats
}

// ProfilerOption is a functional option used to configure a Profiler during construction.
type ProfilerOption func(*Profiler)

// WithUpdateInterval sets how often statistics are computed and logged.
//
// Parameters:
//   - interval: the logging interval, values < 0 are treated as 0 (log every tick)
//
// Returns:
//   - ProfilerOption: option function to apply
func WithUpdateInterval(interval time.Duration) ProfilerOption {
	return func(p *Profiler) {
		p.updateInterval = max(interval, 0)
	}
}

// NewProfiler creates a new Profiler with default settings.
// Update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options for profiler configuration
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		lastTime:       time.Now(),
		updateInterval: time.Second,
		memStats:       runtime.MemStats{},
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Tick should be called once per frame with the number of quads flushed that frame.
// Logs performance statistics when the update interval has elapsed.
// Statistics include: FPS, quads per frame, heap usage, allocation rate, GC count/pause times, total memory.
//
// Parameters:
//   - quads: the number of quads drawn this frame
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick(quads int) bool {
	p.frameCount++
	p.quadCount += quads
	p.peakQuads = max(p.peakQuads, quads)

	currentTime := time.Now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	seconds := elapsed.Seconds()
	if seconds <= 0 {
		// coarse clocks can report a zero interval
		seconds = time.Microsecond.Seconds()
	}

	runtime.ReadMemStats(&p.memStats)
	// Alloc: Bytes of allocated heap objects (live memory)
	// TotalAlloc: Cumulative bytes allocated for heap objects (increases forever, tracks churn)
	// Sys: Total bytes of memory obtained from the OS (actual process footprint)
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc

	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		// PauseNs is a circular buffer of last 256 GC pauses
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			maxPauseUs = max(maxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	p.last = Stats{
		FPS:          float64(p.frameCount) / seconds,
		AverageQuads: float64(p.quadCount) / float64(p.frameCount),
		PeakQuads:    p.peakQuads,
		HeapMB:       float64(p.memStats.Alloc) / 1024 / 1024,
		AllocRateMB:  float64(allocDelta) / 1024 / 1024 / seconds,
		GCCount:      gcCount,
		SysMB:        float64(p.memStats.Sys) / 1024 / 1024,
	}

	log.Printf("[Profiler] FPS: %.2f | Quads/frame: %.1f (peak %d) | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB",
		p.last.FPS, p.last.AverageQuads, p.last.PeakQuads, p.last.HeapMB, p.last.AllocRateMB, gcCount, lastPauseUs, maxPauseUs, p.last.SysMB)

	p.frameCount = 0
	p.quadCount = 0
	p.peakQuads = 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Last returns the statistics computed at the most recent logging tick.
//
// Returns:
//   - Stats: the last snapshot, zero before the first interval elapses
func (p *Profiler) Last() Stats {
	return p.last
}
