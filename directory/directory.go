// Package directory provides the ordered segment directory: an ordered map
// from segment start keys to segments, with predecessor search, bulk load
// and the point splice operations the buffered index needs.
//
// The directory is backed by a google/btree B-Tree ordered ascending by
// start key; predecessor search walks it descending from the probe, which
// is equivalent to the descending-ordered layout with an inverted
// comparator.
package directory

import (
	"github.com/google/btree"

	"github.com/hupe1980/fitingtree/segment"
)

// Entry pairs a segment start key with the stored segment value.
type Entry[K segment.Key, V any] struct {
	Key   K
	Value V
}

// Directory is an ordered map from start keys to segments. It is not safe
// for concurrent use; the owning index serializes access.
type Directory[K segment.Key, V any] struct {
	tree *btree.BTreeG[Entry[K, V]]
}

// New creates an empty directory.
func New[K segment.Key, V any]() *Directory[K, V] {
	return &Directory[K, V]{
		tree: btree.NewG(16, func(a, b Entry[K, V]) bool {
			return a.Key < b.Key
		}),
	}
}

// BulkLoad inserts all entries. Entries must carry distinct keys.
func (d *Directory[K, V]) BulkLoad(entries []Entry[K, V]) {
	for _, e := range entries {
		d.tree.ReplaceOrInsert(e)
	}
}

// Predecessor returns the entry with the largest key <= k, i.e. the
// segment covering k. It reports false when every key is greater than k.
func (d *Directory[K, V]) Predecessor(k K) (V, bool) {
	var (
		value V
		found bool
	)
	d.tree.DescendLessOrEqual(Entry[K, V]{Key: k}, func(e Entry[K, V]) bool {
		value = e.Value
		found = true
		return false
	})
	return value, found
}

// Next returns the entry with the smallest key strictly greater than k.
func (d *Directory[K, V]) Next(k K) (V, bool) {
	var (
		value V
		found bool
	)
	d.tree.AscendGreaterOrEqual(Entry[K, V]{Key: k}, func(e Entry[K, V]) bool {
		if e.Key == k {
			return true
		}
		value = e.Value
		found = true
		return false
	})
	return value, found
}

// Min returns the entry with the smallest key.
func (d *Directory[K, V]) Min() (V, bool) {
	e, ok := d.tree.Min()
	return e.Value, ok
}

// Max returns the entry with the largest key.
func (d *Directory[K, V]) Max() (V, bool) {
	e, ok := d.tree.Max()
	return e.Value, ok
}

// ReplaceOrInsert stores value under key, replacing any existing entry.
func (d *Directory[K, V]) ReplaceOrInsert(key K, value V) {
	d.tree.ReplaceOrInsert(Entry[K, V]{Key: key, Value: value})
}

// Delete removes the entry stored under key, if any.
func (d *Directory[K, V]) Delete(key K) {
	d.tree.Delete(Entry[K, V]{Key: key})
}

// Len returns the number of entries.
func (d *Directory[K, V]) Len() int {
	return d.tree.Len()
}

// Ascend calls fn for every entry in ascending key order until fn returns
// false.
func (d *Directory[K, V]) Ascend(fn func(key K, value V) bool) {
	d.tree.Ascend(func(e Entry[K, V]) bool {
		return fn(e.Key, e.Value)
	})
}

// Descend calls fn for every entry in descending key order until fn
// returns false.
func (d *Directory[K, V]) Descend(fn func(key K, value V) bool) {
	d.tree.Descend(func(e Entry[K, V]) bool {
		return fn(e.Key, e.Value)
	})
}
