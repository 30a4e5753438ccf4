package fitingtree

import (
	"context"
	"time"

	"github.com/hupe1980/fitingtree/cone"
	"github.com/hupe1980/fitingtree/directory"
	"github.com/hupe1980/fitingtree/segment"
)

// Key is the set of key types the index can be built over.
type Key = segment.Key

// Pos is the set of position payload types of the buffered index.
type Pos = segment.Pos

// ApproxPos is the result of a query: a range [Lo, Hi] centered around the
// approximate position Pos of the sought key. The true position of a
// present key is guaranteed to lie within the range; a binary search over
// it resolves the exact position.
type ApproxPos struct {
	Pos uint64 // The approximate position of the key
	Lo  uint64 // The lower bound of the range where the key can be found
	Hi  uint64 // The upper bound of the range where the key can be found
}

// FitingTree is a learned index over a sorted sequence of keys. It reduces
// index size by fitting linear segments to the key-to-position mapping: a
// query extrapolates along the covering segment and returns a position
// range of at most 2*MaxError+1 whose midpoint is the prediction. In the
// case of repeated keys, the index finds the position of the first
// occurrence.
//
// The index is read-only after construction and not internally
// synchronized; wrap it in an external lock if readers and writers of the
// underlying data overlap.
type FitingTree[K Key] struct {
	n        uint64
	firstKey K
	maxError uint64
	segments []segment.Segment[K]
	dir      *directory.Directory[K, segment.Segment[K]]
	logger   *Logger
	metrics  MetricsCollector
}

// New constructs the index on the given sorted keys. It returns
// ErrUnsortedInput when the keys are not in non-decreasing order and a
// configuration error when the options are invalid.
func New[K Key](data []K, optFns ...func(o *Options)) (*FitingTree[K], error) {
	opts := applyOptions(optFns)
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if err := validateSorted(data); err != nil {
		return nil, err
	}

	start := time.Now()

	t := &FitingTree[K]{
		n:        uint64(len(data)),
		maxError: opts.MaxError,
		dir:      directory.New[K, segment.Segment[K]](),
		logger:   opts.Logger,
		metrics:  opts.Metrics,
	}

	if len(data) == 0 {
		return t, nil
	}

	t.firstKey = data[0]

	cone.Build(len(data), opts.MaxError, func(i int) (K, uint64) {
		return data[i], uint64(i)
	}, func(seg segment.Segment[K], _, _ int) {
		t.segments = append(t.segments, seg)
	})

	entries := make([]directory.Entry[K, segment.Segment[K]], len(t.segments))
	for i, seg := range t.segments {
		entries[i] = directory.Entry[K, segment.Segment[K]]{Key: seg.StartKey(), Value: seg}
	}
	t.dir.BulkLoad(entries)

	t.logger.LogBuild(context.Background(), len(data), len(t.segments))
	t.metrics.RecordBuild(len(data), len(t.segments), time.Since(start))

	return t, nil
}

// GetApproxPos returns the approximate position of key and the range that
// is guaranteed to contain its true position if the key is present.
func (t *FitingTree[K]) GetApproxPos(key K) ApproxPos {
	if t.n == 0 {
		return ApproxPos{}
	}

	seg, ok := t.dir.Predecessor(key)
	if !ok {
		// Below the smallest indexed key: the first MaxError positions.
		hi := t.maxError
		if hi > t.n {
			hi = t.n
		}
		return ApproxPos{Pos: 0, Lo: 0, Hi: hi}
	}

	predicted := seg.Predict(key)
	if predicted > float64(t.n)+float64(t.maxError) {
		// Beyond the indexed region.
		return ApproxPos{Pos: t.n - 1, Lo: t.n - 1, Hi: t.n}
	}

	// Predictions can undershoot by up to MaxError near a segment start;
	// clamp before the unsigned conversion.
	pos := uint64(0)
	if predicted > 0 {
		pos = uint64(predicted)
	}
	lo := uint64(0)
	if pos > t.maxError {
		lo = pos - t.maxError
	}
	hi := pos + t.maxError
	if hi > t.n {
		hi = t.n
	}

	return ApproxPos{Pos: pos, Lo: lo, Hi: hi}
}

// SegmentCount returns the number of segments composing the index.
func (t *FitingTree[K]) SegmentCount() int {
	return len(t.segments)
}

// Segments returns the segments composing the index in ascending start-key
// order. The returned slice is owned by the index and must not be
// modified.
func (t *FitingTree[K]) Segments() []segment.Segment[K] {
	return t.segments
}

// Len returns the number of indexed keys.
func (t *FitingTree[K]) Len() int {
	return int(t.n)
}

// MinKey returns the smallest indexed key. The second return value is
// false for an empty index.
func (t *FitingTree[K]) MinKey() (K, bool) {
	return t.firstKey, t.n > 0
}
