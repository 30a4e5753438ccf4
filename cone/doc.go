// Package cone implements the shrinking-cone piecewise-linear segmentation.
//
// The segmenter consumes (key, position) pairs in key order and emits a
// minimal greedy sequence of linear segments whose predictions stay within
// a configured vertical error bound of every consumed point. Slopes are
// kept as exact rationals during segmentation; for integer keys the
// feasibility comparisons use 128-bit cross products so no precision is
// lost, and only the finalized slope of an emitted segment is rounded to a
// float.
package cone
