package util

import (
	"math"
	"math/rand"
	"sort"
)

// RNG struct encapsulates the random number generator and seed.
type RNG struct {
	rand *rand.Rand
	seed int64
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), // nolint gosec
		seed: seed,
	}
}

// SortedUniformInts generates num sorted keys drawn uniformly from
// [0, max]. Duplicates are likely when max is small relative to num.
func (r *RNG) SortedUniformInts(num int, max uint64) []uint64 {
	keys := make([]uint64, num)
	for i := range keys {
		keys[i] = uint64(r.rand.Int63n(int64(max + 1)))
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	return keys
}

// SortedDistinctInts generates num sorted distinct keys by accumulating
// positive random gaps.
func (r *RNG) SortedDistinctInts(num int, maxGap uint64) []uint64 {
	keys := make([]uint64, num)
	var k uint64
	for i := range keys {
		k += 1 + uint64(r.rand.Int63n(int64(maxGap)))
		keys[i] = k
	}

	return keys
}

// SortedLognormalFloats generates num sorted keys drawn from
// Lognormal(mu, sigma).
func (r *RNG) SortedLognormalFloats(num int, mu, sigma float64) []float64 {
	keys := make([]float64, num)
	for i := range keys {
		keys[i] = math.Exp(mu + sigma*r.rand.NormFloat64())
	}
	sort.Float64s(keys)

	return keys
}

// SortedExponentialFloats generates num sorted keys drawn from an
// exponential distribution with the given rate.
func (r *RNG) SortedExponentialFloats(num int, rate float64) []float64 {
	keys := make([]float64, num)
	for i := range keys {
		keys[i] = r.rand.ExpFloat64() / rate
	}
	sort.Float64s(keys)

	return keys
}
