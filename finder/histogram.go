package finder

import "github.com/wlattner/regtree/criterion"

// HistogramEW bins each feature into Bins equal-width buckets and evaluates
// the closed-form MSE gain at each bucket boundary, trading split quality
// for O(n + B) work per feature instead of exhaustive's O(n log n).
type HistogramEW struct {
	Bins int
}

func (h HistogramEW) FindBestSplit(x []float64, rowLength int, y []float64, idx []int, parentMetric float64, crit criterion.Criterion) Split {
	n := len(idx)
	bins := h.Bins
	if bins < 2 || n < 2 {
		return noSplit
	}

	best := &bestOf{}
	forEachFeature(rowLength, func(feature int) {
		s := histogramEWFeature(x, rowLength, y, idx, feature, bins, parentMetric)
		best.offer(s)
	})
	return best.result()
}

func histogramEWFeature(x []float64, rowLength int, y []float64, idx []int, feature, bins int, parentMetric float64) Split {
	n := len(idx)
	lo, hi := math64MinMax(x, rowLength, idx, feature)
	rng := hi - lo
	if rng < 1e-12 {
		return noSplit // constant feature
	}
	width := rng / float64(bins)

	count := make([]int, bins)
	sum := make([]float64, bins)
	sumSq := make([]float64, bins)

	for _, row := range idx {
		v := x[row*rowLength+feature]
		b := int((v - lo) / width)
		if b >= bins {
			b = bins - 1
		}
		if b < 0 {
			b = 0
		}
		count[b]++
		sum[b] += y[row]
		sumSq[b] += y[row] * y[row]
	}

	totalS := sumAll(sum)
	totalSS := sumAll(sumSq)

	result := noSplit
	var leftN int
	var leftS, leftSS float64
	for b := 0; b < bins-1; b++ {
		leftN += count[b]
		leftS += sum[b]
		leftSS += sumSq[b]

		if leftN == 0 || leftN == n {
			continue
		}

		rightN := n - leftN
		rS := totalS - leftS
		rSS := totalSS - leftSS

		mL := variance(leftN, leftS, leftSS)
		mR := variance(rightN, rS, rSS)

		g := gain(parentMetric, mL, mR, leftN, rightN)
		if g > 0 && (result.Feature < 0 || g > result.Gain) {
			threshold := lo + (float64(b)+0.5)*width
			result = Split{Feature: feature, Threshold: threshold, Gain: g}
		}
	}
	return result
}

func sumAll(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x
	}
	return s
}

func variance(n int, s, ss float64) float64 {
	if n == 0 {
		return 0
	}
	m := s / float64(n)
	v := ss/float64(n) - m*m
	if v < 0 {
		v = 0
	}
	return v
}

func math64MinMax(x []float64, rowLength int, idx []int, feature int) (lo, hi float64) {
	lo = x[idx[0]*rowLength+feature]
	hi = lo
	for _, row := range idx[1:] {
		v := x[row*rowLength+feature]
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// HistogramEQ sorts each feature and proposes a split every per = max(1,
// n/Bins) positions, materializing left/right buffers and scoring via the
// criterion (it does not assume MSE the way HistogramEW's closed form does).
type HistogramEQ struct {
	Bins int
}

func (h HistogramEQ) FindBestSplit(x []float64, rowLength int, y []float64, idx []int, parentMetric float64, crit criterion.Criterion) Split {
	n := len(idx)
	if n < 2 || h.Bins < 2 {
		return noSplit
	}

	per := n / h.Bins
	if per < 1 {
		per = 1
	}

	best := &bestOf{}
	forEachFeature(rowLength, func(feature int) {
		best.offer(histogramEQFeature(x, rowLength, y, idx, feature, per, parentMetric, crit))
	})
	return best.result()
}
