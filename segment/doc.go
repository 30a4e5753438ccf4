// Package segment provides the linear segment types produced by the
// shrinking-cone segmentation and consumed by the index directory.
//
// A Segment describes one linear piece of the key-to-position mapping with a
// bounded vertical error. Buffered extends it with a per-segment insertion
// buffer and deletion tombstones so the index can absorb updates between
// re-segmentations.
package segment
