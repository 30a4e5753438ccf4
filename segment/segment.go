package segment

import (
	"golang.org/x/exp/constraints"
)

// Key is the set of key types the index can be built over. Keys must be
// totally ordered and numerically subtractable.
type Key interface {
	constraints.Integer | constraints.Float
}

// Pos is the set of position types the buffered index can carry as payload.
type Pos interface {
	constraints.Unsigned
}

// Segment is an immutable descriptor of one linear piece of the
// key-to-position mapping: it covers the key range [StartKey, EndKey] and
// predicts positions along the line anchored at (StartKey, StartPos) with
// the given slope.
//
// Invariant: for every indexed key k in [StartKey, EndKey], the true
// position of k differs from Predict(k) by at most the error bound the
// segment was built with.
type Segment[K Key] struct {
	startKey K
	startPos uint64
	endKey   K
	slope    float64
}

// New creates a new segment.
func New[K Key](startKey K, startPos uint64, endKey K, slope float64) Segment[K] {
	return Segment[K]{
		startKey: startKey,
		startPos: startPos,
		endKey:   endKey,
		slope:    slope,
	}
}

// StartKey returns the smallest key covered by the segment.
func (s Segment[K]) StartKey() K {
	return s.startKey
}

// EndKey returns the largest key covered by the segment.
func (s Segment[K]) EndKey() K {
	return s.endKey
}

// SlopeIntercept returns the slope of the segment and its intercept, the
// position of the smallest key.
func (s Segment[K]) SlopeIntercept() (slope float64, intercept uint64) {
	return s.slope, s.startPos
}

// Predict returns the predicted position of k as an unclamped floating
// value. Callers truncate and clamp against the index size.
func (s Segment[K]) Predict(k K) float64 {
	return float64(s.startPos) + s.offset(k)
}

// offset is the predicted distance of k from the segment start. It is the
// prediction used inside a segment's own item slice, where positions are
// relative to the segment. Integer key differences are taken as uint64
// magnitudes, so keys of a signed type that lie further apart than the
// type's maximum do not wrap.
func (s Segment[K]) offset(k K) float64 {
	if K(1)/2 != 0 {
		// Floating keys.
		return float64(k-s.startKey) * s.slope
	}
	if k >= s.startKey {
		return float64(uint64(k)-uint64(s.startKey)) * s.slope
	}
	return -float64(uint64(s.startKey)-uint64(k)) * s.slope
}
