package finder

import (
	"math/rand"

	"github.com/wlattner/regtree/criterion"
	"github.com/wlattner/regtree/rngstream"
)

// Random draws K uniformly-random thresholds per feature in [min, max],
// partitions the index subset, and scores each with the criterion. Each
// feature's draws come from its own stream derived from the immutable Seed
// via rngstream.ForThread(Seed, 0, feature), so concurrent goroutines never
// touch a shared *rand.Rand -- every stream is independent and keyed only
// on the feature index, not on evaluation order.
type Random struct {
	K    int
	Seed int64
}

// NewRandom builds a Random finder with its own RNG seed.
func NewRandom(k int, seed int64) Random {
	return Random{K: k, Seed: seed}
}

func (r Random) FindBestSplit(x []float64, rowLength int, y []float64, idx []int, parentMetric float64, crit criterion.Criterion) Split {
	n := len(idx)
	if n < 2 || r.K < 1 {
		return noSplit
	}

	best := &bestOf{}
	forEachFeature(rowLength, func(feature int) {
		stream := rngstream.ForThread(r.Seed, 0, feature)
		best.offer(randomFeature(x, rowLength, y, idx, feature, r.K, parentMetric, crit, stream))
	})
	return best.result()
}

func randomFeature(x []float64, rowLength int, y []float64, idx []int, feature, k int, parentMetric float64, crit criterion.Criterion, rng *rand.Rand) Split {
	n := len(idx)
	lo, hi := math64MinMax(x, rowLength, idx, feature)
	if hi-lo < 1e-12 {
		return noSplit
	}

	left := make([]int, 0, n)
	right := make([]int, 0, n)

	result := noSplit
	for t := 0; t < k; t++ {
		threshold := lo + rng.Float64()*(hi-lo)

		left = left[:0]
		right = right[:0]
		for _, row := range idx {
			if x[row*rowLength+feature] <= threshold {
				left = append(left, row)
			} else {
				right = append(right, row)
			}
		}
		if len(left) == 0 || len(right) == 0 {
			continue
		}

		mL := crit.NodeMetric(y, left)
		mR := crit.NodeMetric(y, right)
		g := gain(parentMetric, mL, mR, len(left), len(right))
		if g > 0 && (result.Feature < 0 || g > result.Gain || (g == result.Gain && threshold < result.Threshold)) {
			result = Split{Feature: feature, Threshold: threshold, Gain: g}
		}
	}
	return result
}
