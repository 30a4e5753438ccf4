package segment

import (
	"sort"
)

// Iter is a forward cursor over the live items of a buffered segment. It
// performs a two-way merge of the materialized items and the buffer,
// skipping tombstones on both sides, and yields items in strictly
// ascending key order.
//
// The cursor borrows from the segment and is invalidated by any mutation
// of it.
type Iter[K Key, P Pos] struct {
	seg *Buffered[K, P]
	buf []DataItem[K, P]
	ii  int
	bi  int
}

// Iter returns a cursor positioned at the segment's first live item. The
// buffer of the smallest segment may hold keys below the segment start,
// so the cursor starts ahead of both sub-sequences rather than at the
// start key.
func (s *Buffered[K, P]) Iter() *Iter[K, P] {
	it := &Iter[K, P]{
		seg: s,
		buf: s.bufferSnapshot(),
	}
	it.skipTombstones()

	return it
}

// IterFrom returns a cursor positioned at the first live item whose key is
// >= key. Keys below the segment start (possible in the buffer of the
// smallest segment) are handled.
func (s *Buffered[K, P]) IterFrom(key K) *Iter[K, P] {
	buf := s.bufferSnapshot()

	it := &Iter[K, P]{
		seg: s,
		buf: buf,
		ii: sort.Search(len(s.items), func(i int) bool {
			return s.items[i].key >= key
		}),
		bi: sort.Search(len(buf), func(i int) bool {
			return buf[i].key >= key
		}),
	}
	it.skipTombstones()

	return it
}

// bufferSnapshot copies the buffer entries, tombstones included, in key
// order.
func (s *Buffered[K, P]) bufferSnapshot() []DataItem[K, P] {
	buf := make([]DataItem[K, P], 0, s.buffer.Len())
	s.buffer.Ascend(func(item DataItem[K, P]) bool {
		buf = append(buf, item)
		return true
	})
	return buf
}

// skipTombstones advances both sub-cursors past tombstoned entries so the
// head of each side is live.
func (it *Iter[K, P]) skipTombstones() {
	for it.ii < len(it.seg.items) && it.seg.tombstones.Contains(uint32(it.ii)) {
		it.ii++
	}
	for it.bi < len(it.buf) && it.buf[it.bi].deleted {
		it.bi++
	}
}

// Valid reports whether the cursor references a live item.
func (it *Iter[K, P]) Valid() bool {
	return it.ii < len(it.seg.items) || it.bi < len(it.buf)
}

// Item returns the referenced item. It must only be called when Valid.
func (it *Iter[K, P]) Item() DataItem[K, P] {
	if it.bi >= len(it.buf) {
		return it.seg.items[it.ii]
	}
	if it.ii >= len(it.seg.items) {
		return it.buf[it.bi]
	}
	if it.seg.items[it.ii].key <= it.buf[it.bi].key {
		return it.seg.items[it.ii]
	}
	return it.buf[it.bi]
}

// Next advances the cursor to the next live item in key order.
func (it *Iter[K, P]) Next() {
	if !it.Valid() {
		return
	}

	switch {
	case it.bi >= len(it.buf):
		it.ii++
	case it.ii >= len(it.seg.items):
		it.bi++
	case it.seg.items[it.ii].key <= it.buf[it.bi].key:
		it.ii++
	default:
		it.bi++
	}
	it.skipTombstones()
}
