package fitingtree

import (
	"context"
	"iter"
	"time"

	"github.com/hupe1980/fitingtree/cone"
	"github.com/hupe1980/fitingtree/directory"
	"github.com/hupe1980/fitingtree/segment"
)

// BufferedFitingTree is the updatable variant of the index: every segment
// carries a bounded insertion buffer and deletion tombstones, so the index
// supports point inserts and erases while preserving the error guarantee.
//
// The total error budget MaxError is split into a segmentation budget
// MaxError-BufferSize and the buffer allowance BufferSize: segments are fit
// with the smaller budget and a segment buffer never holds more than
// BufferSize extra items, so the worst-case positional distance from the
// learned line stays within MaxError. When a buffer overflows, the
// segment's live items and buffer are merged and re-fit, and the
// replacement segments are spliced into the directory.
//
// Keys form a set: inserting a present key is a no-op, as is erasing an
// absent one. The index is not internally synchronized, and iterators are
// invalidated by any mutating operation.
type BufferedFitingTree[K Key, P Pos] struct {
	n         uint64
	firstKey  K
	maxError  uint64
	segError  uint64
	bufferCap int
	dir       *directory.Directory[K, *segment.Buffered[K, P]]
	logger    *Logger
	metrics   MetricsCollector
}

// NewBuffered constructs the updatable index on the given sorted keys,
// using each key's index as its initial position payload. Keys should be
// distinct; consecutive duplicates are collapsed onto the first
// occurrence during segmentation.
func NewBuffered[K Key, P Pos](data []K, optFns ...func(o *Options)) (*BufferedFitingTree[K, P], error) {
	opts := applyOptions(optFns)
	if err := opts.validateBuffered(); err != nil {
		return nil, err
	}
	if err := validateSorted(data); err != nil {
		return nil, err
	}

	start := time.Now()

	t := &BufferedFitingTree[K, P]{
		n:         uint64(len(data)),
		maxError:  opts.MaxError,
		segError:  opts.MaxError - opts.BufferSize,
		bufferCap: int(opts.BufferSize),
		dir:       directory.New[K, *segment.Buffered[K, P]](),
		logger:    opts.Logger,
		metrics:   opts.Metrics,
	}

	if len(data) == 0 {
		return t, nil
	}

	t.firstKey = data[0]

	segments := cone.Build(len(data), t.segError, func(i int) (K, uint64) {
		return data[i], uint64(i)
	}, func(seg segment.Segment[K], first, last int) {
		items := make([]segment.DataItem[K, P], last-first)
		for j := range items {
			items[j] = segment.NewDataItem(data[first+j], P(first+j))
		}
		t.dir.ReplaceOrInsert(seg.StartKey(), segment.NewBuffered(seg, items, t.bufferCap, t.maxError))
	})

	t.logger.LogBuild(context.Background(), len(data), segments)
	t.metrics.RecordBuild(len(data), segments, time.Since(start))

	return t, nil
}

// covering returns the segment responsible for key: the one with the
// largest start key <= key, or the smallest segment when key lies below
// every start key.
func (t *BufferedFitingTree[K, P]) covering(key K) (*segment.Buffered[K, P], bool) {
	if seg, ok := t.dir.Predecessor(key); ok {
		return seg, true
	}
	return t.dir.Min()
}

// Find returns an iterator positioned at key, or an invalid iterator when
// the key is absent or tombstoned.
func (t *BufferedFitingTree[K, P]) Find(key K) *Iterator[K, P] {
	start := time.Now()
	it := t.find(key)
	t.metrics.RecordFind(time.Since(start), it.Valid())
	return it
}

func (t *BufferedFitingTree[K, P]) find(key K) *Iterator[K, P] {
	if t.n == 0 {
		return t.End()
	}

	seg, ok := t.covering(key)
	if !ok {
		return t.End()
	}

	if _, ok := seg.FindItem(key); !ok {
		if _, ok := seg.FindBuffer(key); !ok {
			return t.End()
		}
	}

	return &Iterator[K, P]{tree: t, seg: seg, si: seg.IterFrom(key)}
}

// LowerBound returns an iterator positioned at the smallest present key
// >= key, or an invalid iterator when no such key exists.
func (t *BufferedFitingTree[K, P]) LowerBound(key K) *Iterator[K, P] {
	if t.n == 0 {
		return t.End()
	}

	seg, ok := t.covering(key)
	if !ok {
		return t.End()
	}

	it := &Iterator[K, P]{tree: t, seg: seg, si: seg.IterFrom(key)}
	if !it.si.Valid() {
		it.nextSegment()
	}

	return it
}

// Insert adds (key, pos) to the index. Inserting a key that is already
// present is a no-op.
func (t *BufferedFitingTree[K, P]) Insert(key K, pos P) {
	start := time.Now()
	resegmented := t.insert(key, pos)
	t.metrics.RecordInsert(time.Since(start), resegmented)
}

func (t *BufferedFitingTree[K, P]) insert(key K, pos P) bool {
	if t.find(key).Valid() {
		return false
	}

	seg, ok := t.covering(key)
	if !ok {
		// Empty directory: seed a degenerate single-item segment.
		items := []segment.DataItem[K, P]{segment.NewDataItem(key, pos)}
		t.dir.ReplaceOrInsert(key, segment.NewBuffered(segment.New(key, 0, key, 1), items, t.bufferCap, t.maxError))
		t.firstKey = key
		t.n++
		t.logger.LogInsert(context.Background(), false)
		return false
	}

	if key < t.firstKey {
		t.firstKey = key
	}

	if seg.InsertBuffer(key, pos) {
		t.n++
		t.logger.LogInsert(context.Background(), true)
		return false
	}

	// Buffer overflow: merge the segment and re-fit.
	merged := seg.MergeBuffer(key, pos)
	replacements := t.resegment(seg, merged)
	t.n++
	t.logger.LogResegment(context.Background(), len(merged), replacements)

	return true
}

// resegment replaces seg in the directory with segments re-fit over merged
// at the segmentation error budget. merged must be sorted and non-empty.
func (t *BufferedFitingTree[K, P]) resegment(seg *segment.Buffered[K, P], merged []segment.DataItem[K, P]) int {
	t.dir.Delete(seg.StartKey())

	return cone.Build(len(merged), t.segError, func(i int) (K, uint64) {
		return merged[i].Key(), uint64(i)
	}, func(s segment.Segment[K], first, last int) {
		items := make([]segment.DataItem[K, P], last-first)
		copy(items, merged[first:last])
		t.dir.ReplaceOrInsert(s.StartKey(), segment.NewBuffered(s, items, t.bufferCap, t.maxError))
	})
}

// Erase removes key from the index by tombstoning it. Erasing an absent
// key is a no-op. Tombstones are reclaimed on the next re-segmentation of
// their segment, or by Compact.
func (t *BufferedFitingTree[K, P]) Erase(key K) {
	start := time.Now()
	hit := t.erase(key)
	t.logger.LogErase(context.Background(), hit)
	t.metrics.RecordErase(time.Since(start), hit)
}

func (t *BufferedFitingTree[K, P]) erase(key K) bool {
	if t.n == 0 {
		return false
	}

	seg, ok := t.covering(key)
	if !ok {
		return false
	}

	if i, ok := seg.FindItem(key); ok {
		seg.DeleteAt(i)
		t.n--
		return true
	}
	if _, ok := seg.FindBuffer(key); ok {
		seg.DeleteBuffer(key)
		t.n--
		return true
	}

	return false
}

// Begin returns an iterator positioned at the smallest present key.
func (t *BufferedFitingTree[K, P]) Begin() *Iterator[K, P] {
	seg, ok := t.dir.Min()
	if !ok {
		return t.End()
	}

	it := &Iterator[K, P]{tree: t, seg: seg, si: seg.Iter()}
	if !it.si.Valid() {
		it.nextSegment()
	}

	return it
}

// End returns the invalid post-last iterator.
func (t *BufferedFitingTree[K, P]) End() *Iterator[K, P] {
	return &Iterator[K, P]{tree: t}
}

// All returns an iterator over all present (key, pos) pairs in ascending
// key order, for use with range-over-func.
func (t *BufferedFitingTree[K, P]) All() iter.Seq2[K, P] {
	return func(yield func(K, P) bool) {
		for it := t.Begin(); it.Valid(); it.Next() {
			if !yield(it.Key(), it.Pos()) {
				return
			}
		}
	}
}

// Len returns the number of present keys.
func (t *BufferedFitingTree[K, P]) Len() int {
	return int(t.n)
}

// Compact re-materializes every segment whose tombstone count exceeds its
// buffer capacity, reclaiming the tombstones. Segments left without any
// live item are removed.
func (t *BufferedFitingTree[K, P]) Compact() {
	var victims []*segment.Buffered[K, P]
	t.dir.Ascend(func(_ K, seg *segment.Buffered[K, P]) bool {
		if seg.TombstoneCount() > t.bufferCap {
			victims = append(victims, seg)
		}
		return true
	})

	if len(victims) == 0 {
		return
	}

	reclaimed := 0
	for _, seg := range victims {
		reclaimed += seg.TombstoneCount()
		merged := seg.Materialize()
		if len(merged) == 0 {
			t.dir.Delete(seg.StartKey())
			continue
		}
		t.resegment(seg, merged)
	}

	t.logger.LogCompact(context.Background(), len(victims), reclaimed)
}

// BufferedStats is a snapshot of the buffered index composition.
type BufferedStats struct {
	Keys          uint64 // Present keys
	Segments      int    // Segment count
	BufferedItems int    // Occupied buffer slots across all segments
	Tombstones    int    // Tombstoned materialized items awaiting reclamation
}

// Stats returns a snapshot of the index composition.
func (t *BufferedFitingTree[K, P]) Stats() BufferedStats {
	stats := BufferedStats{
		Keys:     t.n,
		Segments: t.dir.Len(),
	}
	t.dir.Ascend(func(_ K, seg *segment.Buffered[K, P]) bool {
		stats.BufferedItems += seg.BufferLen()
		stats.Tombstones += seg.TombstoneCount()
		return true
	})
	return stats
}
