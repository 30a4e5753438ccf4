package cone

import (
	"reflect"

	"github.com/hupe1980/fitingtree/segment"
)

// point is a consumed input point with the position widened to a signed
// domain so the +-error band cannot underflow.
type point[K segment.Key] struct {
	x K
	y int64
}

// Cone is the streaming state of one active segment: the set of lines
// through the segment's first point whose slope lies in [lower, upper].
// Each added point narrows the cone by its +-maxError band; the segment
// closes when a point's required slope falls outside the cone.
type Cone[K segment.Key] struct {
	maxError int64
	floating bool
	first    point[K]
	last     point[K]
	lower    slope
	upper    slope
	count    int
}

// New creates a segmenter cone for the given error bound. maxError must be
// positive; the index constructors validate it before building.
func New[K segment.Key](maxError uint64) *Cone[K] {
	return &Cone[K]{
		maxError: int64(maxError),
		floating: isFloating[K](),
	}
}

// Add offers the next point to the active segment. Points must arrive in
// strictly increasing key order. Add returns false when the point cannot be
// admitted without violating the error bound; the cone is then reset and
// the caller must emit the closed segment and re-offer the same point as
// the anchor of the next one.
func (c *Cone[K]) Add(x K, y uint64) bool {
	p := point[K]{x: x, y: int64(y)}
	p1 := point[K]{x: x, y: int64(y) + c.maxError}
	p2 := point[K]{x: x, y: int64(y) - c.maxError}

	if c.count == 0 {
		c.first = p
		c.last = p
		c.lower = slopeMin
		c.upper = slopeMax
		c.count = 1
		return true
	}

	if c.count == 1 {
		c.lower = c.sub(p2, c.first)
		c.upper = c.sub(p1, c.first)
		c.last = p
		c.count = 2
		return true
	}

	s := c.sub(p, c.first)
	if c.less(s, c.lower) || c.less(c.upper, s) {
		c.count = 0
		return false
	}

	if upper := c.sub(p1, c.first); c.less(upper, c.upper) {
		c.upper = upper
	}
	if lower := c.sub(p2, c.first); c.less(c.lower, lower) {
		c.lower = lower
	}

	c.last = p
	c.count++

	return true
}

// Segment emits the closed segment. A single-point segment is degenerate;
// any slope satisfies the error bound and 1 is used for determinism.
// Otherwise the finalized slope is the midpoint of the remaining cone,
// the sole floating step of the segmentation.
func (c *Cone[K]) Segment() segment.Segment[K] {
	if c.count == 1 {
		return segment.New(c.first.x, uint64(c.first.y), c.first.x, 1)
	}

	slope := (c.toFloat(c.lower) + c.toFloat(c.upper)) / 2

	return segment.New(c.first.x, uint64(c.first.y), c.last.x, slope)
}

// sub computes the slope of the line from q to p. Integer key differences
// are exact uint64 magnitudes: keys arrive in increasing order, so the
// difference is non-negative and fits even when the signed key domain
// would overflow.
func (c *Cone[K]) sub(p, q point[K]) slope {
	if c.floating {
		return slope{
			fdx: float64(p.x) - float64(q.x),
			fdy: float64(p.y - q.y),
		}
	}
	return slope{
		dx: uint64(p.x) - uint64(q.x),
		dy: p.y - q.y,
	}
}

func (c *Cone[K]) less(a, b slope) bool {
	if c.floating {
		return lessFloat(a, b)
	}
	return lessExact(a, b)
}

func (c *Cone[K]) toFloat(s slope) float64 {
	if c.floating {
		return s.fdy / s.fdx
	}
	return float64(s.dy) / float64(s.dx)
}

// Build runs the segmentation over n points supplied in key order by in,
// calling out for every emitted segment together with the half-open index
// range [first, last) it covers. Consecutive points with equal keys are
// collapsed onto the first occurrence. Build returns the number of
// segments emitted; it is 0 only for n == 0.
func Build[K segment.Key](n int, maxError uint64, in func(i int) (K, uint64), out func(seg segment.Segment[K], first, last int)) int {
	if n == 0 {
		return 0
	}

	c := New[K](maxError)

	x, y := in(0)
	c.Add(x, y)
	prev := x

	segments := 0
	start := 0

	for i := 1; i < n; i++ {
		x, y := in(i)
		if i != start && x == prev {
			continue
		}
		prev = x

		if !c.Add(x, y) {
			out(c.Segment(), start, i)
			segments++
			start = i
			i-- // re-offer: the rejected point anchors the next segment
		}
	}

	out(c.Segment(), start, n)

	return segments + 1
}

// Segments segments a sorted key slice, using each key's index as its
// position.
func Segments[K segment.Key](keys []K, maxError uint64) []segment.Segment[K] {
	out := make([]segment.Segment[K], 0)

	Build(len(keys), maxError, func(i int) (K, uint64) {
		return keys[i], uint64(i)
	}, func(seg segment.Segment[K], _, _ int) {
		out = append(out, seg)
	})

	return out
}

func isFloating[K segment.Key]() bool {
	var zero K
	switch reflect.ValueOf(zero).Kind() {
	case reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
