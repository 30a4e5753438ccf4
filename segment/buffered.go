package segment

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/google/btree"
)

// DataItem is a single indexed entry: a key, its position payload and a
// tombstone flag. Items held in the materialized slice of a Buffered
// segment keep their tombstone state in the segment's bitmap instead; the
// flag on the struct is used for buffer-resident items.
type DataItem[K Key, P Pos] struct {
	key     K
	pos     P
	deleted bool
}

// NewDataItem creates a live data item.
func NewDataItem[K Key, P Pos](key K, pos P) DataItem[K, P] {
	return DataItem[K, P]{key: key, pos: pos}
}

// Key returns the item key.
func (d DataItem[K, P]) Key() K { return d.key }

// Pos returns the item position payload.
func (d DataItem[K, P]) Pos() P { return d.pos }

// Deleted reports whether the item is a tombstone.
func (d DataItem[K, P]) Deleted() bool { return d.deleted }

// Buffered is a Segment grafted with a bounded per-segment insertion buffer
// and deletion tombstones. It holds the items the segment covered at its
// last (re)segmentation in key order, plus a sorted buffer of items that
// arrived afterwards.
//
// Invariants:
//   - no key is live in both the materialized items and the buffer
//   - the buffer never holds more than its capacity
//   - every live materialized item satisfies the segment error bound
//     against the position it was materialized with
//
// Tombstones of materialized items are tracked as a bitmap over item
// indices; buffer tombstones keep the flag on the item itself. Tombstones
// are reclaimed only when the segment is re-materialized.
type Buffered[K Key, P Pos] struct {
	Segment[K]

	items      []DataItem[K, P]
	tombstones *roaring.Bitmap
	buffer     *btree.BTreeG[DataItem[K, P]]
	bufferLen  int
	bufferCap  int
	maxError   uint64
}

// NewBuffered creates a buffered segment from its linear descriptor, the
// materialized items it covers and the buffer capacity. maxError is the
// full error budget of the index and bounds the search window over the
// materialized items.
func NewBuffered[K Key, P Pos](seg Segment[K], items []DataItem[K, P], bufferCap int, maxError uint64) *Buffered[K, P] {
	return &Buffered[K, P]{
		Segment:    seg,
		items:      items,
		tombstones: roaring.New(),
		buffer: btree.NewG(2, func(a, b DataItem[K, P]) bool {
			return a.key < b.key
		}),
		bufferCap: bufferCap,
		maxError:  maxError,
	}
}

// InsertBuffer inserts (key, pos) into the segment buffer. It returns false
// when the buffer is full, signalling that the caller must re-segment; the
// capacity is checked first, so a full buffer reports false even for a key
// that is already live. Otherwise the insert is idempotent: if the key is
// already live in the materialized items or the buffer, nothing changes
// and the call succeeds.
func (s *Buffered[K, P]) InsertBuffer(key K, pos P) bool {
	if s.bufferLen >= s.bufferCap {
		return false
	}

	if item, ok := s.buffer.Get(DataItem[K, P]{key: key}); ok {
		if item.deleted {
			// Revive the slot in place; the tombstone already counts
			// against the buffer length.
			s.buffer.ReplaceOrInsert(DataItem[K, P]{key: key, pos: pos})
		}
		return true
	}

	if _, ok := s.FindItem(key); ok {
		return true
	}

	s.buffer.ReplaceOrInsert(DataItem[K, P]{key: key, pos: pos})
	s.bufferLen++

	return true
}

// FindItem binary-searches the materialized items for key within the
// predicted error window. It returns the item index and whether the key
// was found live; a tombstoned hit reports false so callers fall through
// to the buffer.
func (s *Buffered[K, P]) FindItem(key K) (int, bool) {
	n := len(s.items)
	if n == 0 {
		return 0, false
	}

	// The window is computed in the floating domain and only converted
	// once clamped inside [0, n], so far-off keys cannot overflow the
	// integer conversion.
	off := s.offset(key)
	winLo := off - float64(s.maxError)
	winHi := off + float64(s.maxError) + 1
	if winLo >= float64(n) || winHi <= 0 {
		return n, false
	}
	lo := 0
	if winLo > 0 {
		lo = int(winLo)
	}
	hi := n
	if winHi < float64(n) {
		hi = int(winHi)
	}

	idx := lo + sort.Search(hi-lo, func(i int) bool {
		return s.items[lo+i].key >= key
	})
	if idx >= hi || s.items[idx].key != key {
		return idx, false
	}

	return idx, !s.tombstones.Contains(uint32(idx))
}

// FindBuffer looks up key in the segment buffer. It returns the item and
// whether a live entry was found.
func (s *Buffered[K, P]) FindBuffer(key K) (DataItem[K, P], bool) {
	item, ok := s.buffer.Get(DataItem[K, P]{key: key})
	if !ok || item.deleted {
		return DataItem[K, P]{}, false
	}
	return item, true
}

// DeleteAt tombstones the materialized item at index i.
func (s *Buffered[K, P]) DeleteAt(i int) {
	s.tombstones.Add(uint32(i))
}

// DeleteBuffer tombstones the buffer entry for key. The slot keeps counting
// against the buffer capacity until the next re-materialization.
func (s *Buffered[K, P]) DeleteBuffer(key K) {
	if item, ok := s.buffer.Get(DataItem[K, P]{key: key}); ok && !item.deleted {
		item.deleted = true
		s.buffer.ReplaceOrInsert(item)
	}
}

// Materialize flushes the segment into a fresh sorted list of live items,
// merging the materialized items and the buffer and skipping tombstones on
// both sides.
func (s *Buffered[K, P]) Materialize() []DataItem[K, P] {
	out := make([]DataItem[K, P], 0, s.Size())
	for it := s.Iter(); it.Valid(); it.Next() {
		out = append(out, it.Item())
	}
	return out
}

// MergeBuffer produces the re-segmentation input: the materialized live
// items with (key, pos) spliced in at its sorted position. The caller
// guarantees key is not already live in the segment.
func (s *Buffered[K, P]) MergeBuffer(key K, pos P) []DataItem[K, P] {
	merged := s.Materialize()

	i := sort.Search(len(merged), func(i int) bool {
		return merged[i].key >= key
	})

	merged = append(merged, DataItem[K, P]{})
	copy(merged[i+1:], merged[i:])
	merged[i] = DataItem[K, P]{key: key, pos: pos}

	return merged
}

// Size returns the number of live materialized items plus the buffer
// length. Buffer tombstones still occupy their slot and are counted.
func (s *Buffered[K, P]) Size() int {
	return len(s.items) - int(s.tombstones.GetCardinality()) + s.bufferLen
}

// BufferLen returns the number of occupied buffer slots.
func (s *Buffered[K, P]) BufferLen() int {
	return s.bufferLen
}

// TombstoneCount returns the number of tombstoned materialized items.
func (s *Buffered[K, P]) TombstoneCount() int {
	return int(s.tombstones.GetCardinality())
}
