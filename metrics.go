package fitingtree

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like
// Prometheus.
type MetricsCollector interface {
	// RecordBuild is called after an index is constructed from a non-empty
	// key set; building over empty input records nothing.
	// keys is the number of indexed keys, segments the emitted segment
	// count, duration the build time.
	RecordBuild(keys, segments int, duration time.Duration)

	// RecordFind is called after each point lookup.
	// hit reports whether the key was present.
	RecordFind(duration time.Duration, hit bool)

	// RecordInsert is called after each insert operation.
	// resegmented reports whether the insert overflowed a segment buffer
	// and triggered a re-segmentation.
	RecordInsert(duration time.Duration, resegmented bool)

	// RecordErase is called after each erase operation.
	// hit reports whether the key was present.
	RecordErase(duration time.Duration, hit bool)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordBuild(int, int, time.Duration)    {}
func (NoopMetricsCollector) RecordFind(time.Duration, bool)         {}
func (NoopMetricsCollector) RecordInsert(time.Duration, bool)       {}
func (NoopMetricsCollector) RecordErase(time.Duration, bool)        {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	BuildCount       atomic.Int64
	FindCount        atomic.Int64
	FindHits         atomic.Int64
	FindTotalNanos   atomic.Int64
	InsertCount      atomic.Int64
	InsertTotalNanos atomic.Int64
	Resegmentations  atomic.Int64
	EraseCount       atomic.Int64
	EraseHits        atomic.Int64
}

// RecordBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBuild(keys, segments int, duration time.Duration) {
	b.BuildCount.Add(1)
}

// RecordFind implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFind(duration time.Duration, hit bool) {
	b.FindCount.Add(1)
	b.FindTotalNanos.Add(duration.Nanoseconds())
	if hit {
		b.FindHits.Add(1)
	}
}

// RecordInsert implements MetricsCollector.
func (b *BasicMetricsCollector) RecordInsert(duration time.Duration, resegmented bool) {
	b.InsertCount.Add(1)
	b.InsertTotalNanos.Add(duration.Nanoseconds())
	if resegmented {
		b.Resegmentations.Add(1)
	}
}

// RecordErase implements MetricsCollector.
func (b *BasicMetricsCollector) RecordErase(duration time.Duration, hit bool) {
	b.EraseCount.Add(1)
	if hit {
		b.EraseHits.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		BuildCount:      b.BuildCount.Load(),
		FindCount:       b.FindCount.Load(),
		FindHits:        b.FindHits.Load(),
		FindAvgNanos:    b.getAvgFindNanos(),
		InsertCount:     b.InsertCount.Load(),
		InsertAvgNanos:  b.getAvgInsertNanos(),
		Resegmentations: b.Resegmentations.Load(),
		EraseCount:      b.EraseCount.Load(),
		EraseHits:       b.EraseHits.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgFindNanos() int64 {
	count := b.FindCount.Load()
	if count == 0 {
		return 0
	}
	return b.FindTotalNanos.Load() / count
}

func (b *BasicMetricsCollector) getAvgInsertNanos() int64 {
	count := b.InsertCount.Load()
	if count == 0 {
		return 0
	}
	return b.InsertTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	BuildCount      int64
	FindCount       int64
	FindHits        int64
	FindAvgNanos    int64
	InsertCount     int64
	InsertAvgNanos  int64
	Resegmentations int64
	EraseCount      int64
	EraseHits       int64
}
