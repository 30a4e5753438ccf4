package fitingtree

import (
	"testing"

	"github.com/hupe1980/fitingtree/util"
)

func BenchmarkGetApproxPos(b *testing.B) {
	rng := util.NewRNG(42)
	keys := rng.SortedUniformInts(1_000_000, 10_000_000)

	tree, err := New(keys)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = tree.GetApproxPos(keys[i%len(keys)])
	}
}

func BenchmarkBufferedFind(b *testing.B) {
	rng := util.NewRNG(42)
	keys := rng.SortedDistinctInts(1_000_000, 20)

	tree, err := NewBuffered[uint64, uint64](keys)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = tree.Find(keys[i%len(keys)])
	}
}

func BenchmarkBufferedInsert(b *testing.B) {
	rng := util.NewRNG(42)
	keys := rng.SortedDistinctInts(1_000_000, 20)

	tree, err := NewBuffered[uint64, uint64](keys)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// Offset keys are mostly absent, exercising the buffer and, on
		// overflow, the re-segmentation path.
		tree.Insert(keys[i%len(keys)]+1, uint64(i))
	}
}
