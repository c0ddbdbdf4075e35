package finder

import (
	"gonum.org/v1/gonum/stat"

	"github.com/wlattner/regtree/criterion"
)

// Quartile evaluates Q1, Q2 (median), and Q3 of each feature as candidate
// thresholds, deduplicating values within 1e-12. Requires n >= 4.
type Quartile struct{}

func (Quartile) FindBestSplit(x []float64, rowLength int, y []float64, idx []int, parentMetric float64, crit criterion.Criterion) Split {
	n := len(idx)
	if n < 4 {
		return noSplit
	}

	best := &bestOf{}
	forEachFeature(rowLength, func(feature int) {
		values := featureValues(x, rowLength, idx, feature, nil)
		sorted := append([]float64(nil), values...)
		sortFloats(sorted)

		candidates := dedupThresholds([]float64{
			stat.Quantile(0.25, stat.Empirical, sorted, nil),
			stat.Quantile(0.50, stat.Empirical, sorted, nil),
			stat.Quantile(0.75, stat.Empirical, sorted, nil),
		})

		result := noSplit
		for _, threshold := range candidates {
			left := make([]int, 0, n)
			right := make([]int, 0, n)
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
			if g > 0 && (result.Feature < 0 || g > result.Gain) {
				result = Split{Feature: feature, Threshold: threshold, Gain: g}
			}
		}
		best.offer(result)
	})
	return best.result()
}

func dedupThresholds(v []float64) []float64 {
	out := v[:0:0]
	for _, x := range v {
		dup := false
		for _, y := range out {
			if abs(x-y) < 1e-12 {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, x)
		}
	}
	return out
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
