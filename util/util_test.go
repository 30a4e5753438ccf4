package util

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortedUniformInts(t *testing.T) {
	rng := NewRNG(4711)

	keys := rng.SortedUniformInts(1000, 100)

	assert.Equal(t, 1000, len(keys))
	assert.True(t, sort.SliceIsSorted(keys, func(i, j int) bool { return keys[i] < keys[j] }))
	assert.LessOrEqual(t, keys[len(keys)-1], uint64(100))
}

func TestSortedDistinctInts(t *testing.T) {
	rng := NewRNG(4711)

	keys := rng.SortedDistinctInts(1000, 10)

	assert.Equal(t, 1000, len(keys))
	for i := 1; i < len(keys); i++ {
		assert.Less(t, keys[i-1], keys[i])
	}
}

func TestSortedLognormalFloats(t *testing.T) {
	rng := NewRNG(4711)

	keys := rng.SortedLognormalFloats(1000, 0, 0.5)

	assert.Equal(t, 1000, len(keys))
	assert.True(t, sort.Float64sAreSorted(keys))
	assert.Greater(t, keys[0], 0.0)
}
