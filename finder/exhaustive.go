package finder

import "github.com/wlattner/regtree/criterion"

// Exhaustive considers every distinct boundary between adjacent sorted
// feature values for every feature. For MSE it follows the teacher's
// tree/regressor.go bestSplit technique directly: a single pass over the
// sorted values maintains running left-side sum/sum-of-squares so that
// left/right MSE is evaluated in O(1) per boundary, without calling back
// into the criterion. Any other criterion falls back to a generic path that
// materializes left/right index buffers and calls NodeMetric twice per
// boundary.
type Exhaustive struct{}

func (Exhaustive) FindBestSplit(x []float64, rowLength int, y []float64, idx []int, parentMetric float64, crit criterion.Criterion) Split {
	n := len(idx)
	if n < 2 {
		return noSplit
	}
	nFeatures := rowLength

	best := &bestOf{}
	_, isMSE := crit.(criterion.MSE)

	forEachFeature(nFeatures, func(feature int) {
		xt := featureValues(x, rowLength, idx, feature, nil)
		sortedIdx := make([]int, n)
		copy(sortedIdx, idx)
		bSort(xt, sortedIdx)

		if xt[n-1] <= xt[0]+1e-12 {
			return // constant feature
		}

		if isMSE {
			best.offer(exhaustiveMSE(xt, y, sortedIdx, feature, parentMetric))
		} else {
			best.offer(exhaustiveGeneric(xt, y, sortedIdx, feature, parentMetric, crit))
		}
	})

	return best.result()
}

// exhaustiveMSE scans sorted (feature value, row index) pairs maintaining
// running sum/sum-of-squares for the left side; the right side's statistics
// are total-minus-left, so each boundary's MSE is O(1).
func exhaustiveMSE(xt []float64, y []float64, sortedIdx []int, feature int, parentMetric float64) Split {
	n := len(sortedIdx)

	var totalS, totalSS float64
	for _, i := range sortedIdx {
		totalS += y[i]
		totalSS += y[i] * y[i]
	}

	var sL, ssL float64
	result := noSplit

	for i := 1; i < n; i++ {
		v := y[sortedIdx[i-1]]
		sL += v
		ssL += v * v

		if xt[i] <= xt[i-1]+1e-12 {
			continue // equal adjacent values: split would be empty on one side
		}

		nLeft := i
		nRight := n - i
		sR := totalS - sL
		ssR := totalSS - ssL

		meanL := sL / float64(nLeft)
		meanR := sR / float64(nRight)
		mL := ssL/float64(nLeft) - meanL*meanL
		mR := ssR/float64(nRight) - meanR*meanR
		if mL < 0 {
			mL = 0
		}
		if mR < 0 {
			mR = 0
		}

		g := gain(parentMetric, mL, mR, nLeft, nRight)
		if g > 0 && (result.Feature < 0 || g > result.Gain) {
			threshold := (xt[i-1] + xt[i]) / 2.0
			result = Split{Feature: feature, Threshold: threshold, Gain: g}
		}
	}
	return result
}

// exhaustiveGeneric handles any criterion by materializing left/right index
// slices at each candidate boundary and calling NodeMetric twice.
func exhaustiveGeneric(xt []float64, y []float64, sortedIdx []int, feature int, parentMetric float64, crit criterion.Criterion) Split {
	n := len(sortedIdx)
	result := noSplit

	for i := 1; i < n; i++ {
		if xt[i] <= xt[i-1]+1e-12 {
			continue
		}
		left := sortedIdx[:i]
		right := sortedIdx[i:]

		mL := crit.NodeMetric(y, left)
		mR := crit.NodeMetric(y, right)
		g := gain(parentMetric, mL, mR, len(left), len(right))

		if g > result.Gain && g > 0 {
			threshold := (xt[i-1] + xt[i]) / 2.0
			result = Split{Feature: feature, Threshold: threshold, Gain: g}
		}
	}
	return result
}
