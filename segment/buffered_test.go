package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testSegment returns a buffered segment over keys 0, 10, ..., 90 with an
// exact slope, so predicted offsets hit their item indices.
func testSegment(t *testing.T) *Buffered[uint64, uint64] {
	t.Helper()

	items := make([]DataItem[uint64, uint64], 10)
	for i := range items {
		items[i] = NewDataItem(uint64(i)*10, uint64(i))
	}

	return NewBuffered(New(uint64(0), 0, 90, 0.1), items, 4, 8)
}

func TestBufferedInsertBuffer(t *testing.T) {
	t.Run("CapacityBound", func(t *testing.T) {
		s := testSegment(t)

		assert.True(t, s.InsertBuffer(11, 100))
		assert.True(t, s.InsertBuffer(12, 101))
		assert.True(t, s.InsertBuffer(13, 102))
		assert.True(t, s.InsertBuffer(14, 103))
		assert.Equal(t, 4, s.BufferLen())

		// Full: the caller must re-segment.
		assert.False(t, s.InsertBuffer(15, 104))
	})

	t.Run("Idempotent", func(t *testing.T) {
		s := testSegment(t)

		require.True(t, s.InsertBuffer(11, 100))
		require.True(t, s.InsertBuffer(11, 999))
		assert.Equal(t, 1, s.BufferLen())

		item, ok := s.FindBuffer(11)
		require.True(t, ok)
		assert.Equal(t, uint64(100), item.Pos())

		// Materialized keys are not buffered again.
		require.True(t, s.InsertBuffer(20, 999))
		assert.Equal(t, 1, s.BufferLen())
	})

	t.Run("ReviveTombstone", func(t *testing.T) {
		s := testSegment(t)

		require.True(t, s.InsertBuffer(11, 100))
		s.DeleteBuffer(11)

		_, ok := s.FindBuffer(11)
		require.False(t, ok)

		// The tombstoned slot is revived in place.
		require.True(t, s.InsertBuffer(11, 200))
		assert.Equal(t, 1, s.BufferLen())

		item, ok := s.FindBuffer(11)
		require.True(t, ok)
		assert.Equal(t, uint64(200), item.Pos())
	})
}

func TestBufferedFindItem(t *testing.T) {
	s := testSegment(t)

	i, ok := s.FindItem(30)
	require.True(t, ok)
	assert.Equal(t, 3, i)

	_, ok = s.FindItem(35)
	assert.False(t, ok)

	// Far outside the segment range.
	_, ok = s.FindItem(100_000)
	assert.False(t, ok)

	s.DeleteAt(3)
	_, ok = s.FindItem(30)
	assert.False(t, ok)
}

func TestBufferedMergeBuffer(t *testing.T) {
	s := testSegment(t)

	require.True(t, s.InsertBuffer(35, 100))
	require.True(t, s.InsertBuffer(5, 101))
	s.DeleteAt(2) // tombstone key 20

	merged := s.MergeBuffer(55, 102)

	keys := make([]uint64, len(merged))
	for i, item := range merged {
		keys[i] = item.Key()
	}
	assert.Equal(t, []uint64{0, 5, 10, 30, 35, 40, 50, 55, 60, 70, 80, 90}, keys)

	for _, item := range merged {
		assert.False(t, item.Deleted())
	}

	// Payloads survive the merge.
	assert.Equal(t, uint64(102), merged[7].Pos())
}

func TestBufferedSize(t *testing.T) {
	s := testSegment(t)
	assert.Equal(t, 10, s.Size())

	s.InsertBuffer(11, 100)
	assert.Equal(t, 11, s.Size())

	s.DeleteAt(0)
	assert.Equal(t, 10, s.Size())
	assert.Equal(t, 1, s.TombstoneCount())

	// A buffer tombstone keeps occupying its slot.
	s.DeleteBuffer(11)
	assert.Equal(t, 10, s.Size())
}

func TestBufferedIter(t *testing.T) {
	t.Run("MergeOrder", func(t *testing.T) {
		s := testSegment(t)

		require.True(t, s.InsertBuffer(35, 100))
		require.True(t, s.InsertBuffer(5, 101))
		s.DeleteAt(2)

		var keys []uint64
		for it := s.Iter(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().Key())
		}
		assert.Equal(t, []uint64{0, 5, 10, 30, 35, 40, 50, 60, 70, 80, 90}, keys)
	})

	t.Run("From", func(t *testing.T) {
		s := testSegment(t)
		require.True(t, s.InsertBuffer(35, 100))

		it := s.IterFrom(31)
		require.True(t, it.Valid())
		assert.Equal(t, uint64(35), it.Item().Key())

		it.Next()
		require.True(t, it.Valid())
		assert.Equal(t, uint64(40), it.Item().Key())

		assert.False(t, s.IterFrom(91).Valid())
	})

	t.Run("AllTombstoned", func(t *testing.T) {
		s := testSegment(t)
		for i := 0; i < 10; i++ {
			s.DeleteAt(i)
		}

		assert.False(t, s.Iter().Valid())
		assert.Empty(t, s.Materialize())
	})
}
