// Package rngstream derives independent math/rand streams from a single
// master seed so that bagging and split search are deterministic and
// reproducible across thread counts: the same (seed, tree index[, thread
// index]) always yields the same sequence of draws, and no *rand.Rand is
// ever shared between goroutines.
package rngstream

import "math/rand"

// splitmix64 is the SplitMix64 generator, used here only to mix a master
// seed with integer stream indices into a well-distributed 64-bit value to
// seed a fresh math/rand source. It is not used as the tree/forest RNG
// itself.
func splitmix64(x uint64) uint64 {
	x += 0x9E3779B97F4A7C15
	z := x
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

func mix(seed int64, streams ...int) uint64 {
	h := uint64(seed)
	h = splitmix64(h)
	for _, s := range streams {
		h ^= splitmix64(uint64(int64(s)) + 0x9E3779B97F4A7C15 + (h << 6) + (h >> 2))
	}
	return h
}

// ForTree returns the RNG stream for the tree at treeIndex within a bagging
// ensemble seeded with masterSeed. Two ensembles built with the same
// masterSeed and the same number of trees produce byte-identical bootstrap
// samples regardless of worker-pool scheduling order.
func ForTree(masterSeed int64, treeIndex int) *rand.Rand {
	return rand.New(rand.NewSource(int64(mix(masterSeed, treeIndex))))
}

// ForThread returns the RNG stream for goroutine threadIndex working within
// tree treeIndex, derived from the same masterSeed. Used by split finders
// (e.g. Random) that need per-goroutine draws inside a single tree's growth.
func ForThread(masterSeed int64, treeIndex, threadIndex int) *rand.Rand {
	return rand.New(rand.NewSource(int64(mix(masterSeed, treeIndex, threadIndex))))
}
