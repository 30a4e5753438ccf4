package fitingtree

import (
	"github.com/hupe1980/fitingtree/segment"
)

// Iterator is a forward cursor over the present items of a
// BufferedFitingTree, yielding them in strictly ascending key order with
// tombstones skipped. It merges each segment's materialized items and
// buffer, then advances across segments.
//
// Iterators borrow from the index: any mutating operation (Insert, Erase,
// Compact) invalidates them.
type Iterator[K Key, P Pos] struct {
	tree *BufferedFitingTree[K, P]
	seg  *segment.Buffered[K, P]
	si   *segment.Iter[K, P]
}

// Valid reports whether the iterator references a present item.
func (it *Iterator[K, P]) Valid() bool {
	return it != nil && it.si != nil && it.si.Valid()
}

// Key returns the referenced item's key. It must only be called when
// Valid.
func (it *Iterator[K, P]) Key() K {
	return it.si.Item().Key()
}

// Pos returns the referenced item's position payload. It must only be
// called when Valid.
func (it *Iterator[K, P]) Pos() P {
	return it.si.Item().Pos()
}

// Deleted reports whether the referenced item is a tombstone. Iteration
// skips tombstones, so this is false for every valid iterator.
func (it *Iterator[K, P]) Deleted() bool {
	return it.si.Item().Deleted()
}

// Next advances to the next present item in key order.
func (it *Iterator[K, P]) Next() {
	if !it.Valid() {
		return
	}

	it.si.Next()
	if !it.si.Valid() {
		it.nextSegment()
	}
}

// nextSegment moves the cursor to the first live item of the next
// non-empty segment in ascending start-key order, or invalidates it when
// the segments are exhausted.
func (it *Iterator[K, P]) nextSegment() {
	for {
		seg, ok := it.tree.dir.Next(it.seg.StartKey())
		if !ok {
			it.seg = nil
			it.si = nil
			return
		}

		it.seg = seg
		it.si = seg.Iter()
		if it.si.Valid() {
			return
		}
	}
}
