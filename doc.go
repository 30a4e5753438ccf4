// Package fitingtree provides a learned, updatable, bounded-error index
// over sorted keys for Go.
//
// A FITing-Tree fits piecewise-linear segments to the key-to-position
// mapping of a sorted key set. A query extrapolates along the segment
// covering the key and returns a narrow position range — at most
// 2*MaxError+1 wide — guaranteed to contain the key's true position if it
// is present; a binary search over the range resolves the exact position.
// The MaxError option sets the space-time trade-off: a smaller error makes
// ranges tighter at the cost of more segments.
//
// # Quick Start
//
// Read-only index:
//
//	tree, _ := fitingtree.New(sortedKeys, func(o *fitingtree.Options) {
//	    o.MaxError = 64
//	})
//	ap := tree.GetApproxPos(key)
//	// binary-search sortedKeys from ap.Lo through ap.Hi (both inclusive,
//	// clamped to len(sortedKeys)) for key
//
// Updatable index:
//
//	tree, _ := fitingtree.NewBuffered[uint64, uint64](sortedKeys)
//	tree.Insert(key, pos)
//	if it := tree.Find(key); it.Valid() {
//	    fmt.Println(it.Key(), it.Pos())
//	}
//	tree.Erase(key)
//
// # Key Features
//
//   - Shrinking-cone segmentation with exact integer slope arithmetic
//     (128-bit cross products, no floating round-off)
//   - Minimal greedy segment count, one pass, deterministic
//   - Bounded per-segment insertion buffers with tombstone deletes;
//     overflow triggers a local re-fit of just the affected segment
//   - Ordered segment directory with logarithmic predecessor search
//   - Merged in-order iteration across materialized items and buffers
//
// The index is not internally synchronized. Callers that mix readers and
// writers must wrap it in an external reader-writer lock; iterators are
// invalidated by any mutating operation.
package fitingtree
