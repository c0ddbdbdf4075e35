package finder

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/wlattner/regtree/criterion"
)

// BinRule selects how many equal-width bins a feature gets in AdaptiveEW.
type BinRule int

const (
	RuleSturges BinRule = iota
	RuleRice
	RuleSqrt
	RuleFreedmanDiaconis
)

func parseBinRule(s string) (BinRule, error) {
	switch strings.ToLower(s) {
	case "sturges":
		return RuleSturges, nil
	case "rice":
		return RuleRice, nil
	case "sqrt":
		return RuleSqrt, nil
	case "freedman_diaconis", "fd":
		return RuleFreedmanDiaconis, nil
	default:
		return 0, fmt.Errorf("finder: unknown adaptive_ew rule %q", s)
	}
}

func clampBins(b, lo, hi int) int {
	if b < lo {
		return lo
	}
	if b > hi {
		return hi
	}
	return b
}

// binCount picks B for a feature's values according to rule, clamped to
// [minBins, maxBins]. Freedman-Diaconis needs the IQR of the feature's own
// values; the others depend only on n.
func binCount(values []float64, rule BinRule, minBins, maxBins int) int {
	n := len(values)
	var b int
	switch rule {
	case RuleSturges:
		b = int(math.Ceil(math.Log2(float64(n)) + 1))
	case RuleRice:
		b = int(math.Ceil(2 * math.Cbrt(float64(n))))
	case RuleSqrt:
		b = int(math.Ceil(math.Sqrt(float64(n))))
	case RuleFreedmanDiaconis:
		sorted := append([]float64(nil), values...)
		sortFloats(sorted)
		q1 := stat.Quantile(0.25, stat.Empirical, sorted, nil)
		q3 := stat.Quantile(0.75, stat.Empirical, sorted, nil)
		iqr := q3 - q1
		if iqr < 1e-12 {
			b = minBins
			break
		}
		width := 2 * iqr / math.Cbrt(float64(n))
		rng := sorted[n-1] - sorted[0]
		if width < 1e-12 {
			b = maxBins
			break
		}
		b = int(math.Ceil(rng / width))
	default:
		b = minBins
	}
	return clampBins(b, minBins, maxBins)
}

func sortFloats(v []float64) {
	// insertion sort, O(n^2) in the length of v; callers pass one value per
	// row of the node being split.
	for i := 1; i < len(v); i++ {
		for j := i; j > 0 && v[j] < v[j-1]; j-- {
			v[j], v[j-1] = v[j-1], v[j]
		}
	}
}

// AdaptiveEW picks a per-feature bin count from Rule (clamped to
// [MinBins, MaxBins]) and otherwise behaves exactly like HistogramEW.
type AdaptiveEW struct {
	Rule    BinRule
	MinBins int
	MaxBins int
}

func (a AdaptiveEW) FindBestSplit(x []float64, rowLength int, y []float64, idx []int, parentMetric float64, crit criterion.Criterion) Split {
	n := len(idx)
	if n < 2 {
		return noSplit
	}
	minBins, maxBins := a.bounds()

	best := &bestOf{}
	forEachFeature(rowLength, func(feature int) {
		values := featureValues(x, rowLength, idx, feature, nil)
		bins := binCount(values, a.Rule, minBins, maxBins)
		best.offer(histogramEWFeature(x, rowLength, y, idx, feature, bins, parentMetric))
	})
	return best.result()
}

func (a AdaptiveEW) bounds() (int, int) {
	minBins, maxBins := a.MinBins, a.MaxBins
	if minBins < 2 {
		minBins = 2
	}
	if maxBins < minBins {
		maxBins = minBins
	}
	return minBins, maxBins
}

// AdaptiveEQ picks both the bin count and the samples-per-bin from the
// coefficient of variation of each feature's values: low-variability
// features get fewer, wider bins; high-variability features get up to
// MaxBins. Requires n >= 2*MinSamplesPerBin.
type AdaptiveEQ struct {
	MinSamplesPerBin int
	MaxBins          int
}

func (a AdaptiveEQ) FindBestSplit(x []float64, rowLength int, y []float64, idx []int, parentMetric float64, crit criterion.Criterion) Split {
	n := len(idx)
	minSamples := a.MinSamplesPerBin
	if minSamples < 1 {
		minSamples = 1
	}
	if n < 2*minSamples {
		return noSplit
	}
	maxBins := a.MaxBins
	if maxBins < 2 {
		maxBins = 256
	}

	best := &bestOf{}
	forEachFeature(rowLength, func(feature int) {
		values := featureValues(x, rowLength, idx, feature, nil)
		mean, std := stat.MeanStdDev(values, nil)

		cv := 0.0
		if mean != 0 {
			cv = math.Abs(std / mean)
		}

		maxB := n / minSamples
		bins := clampBins(int(math.Round(2+cv*float64(maxBins))), 2, maxB)
		if bins > maxBins {
			bins = maxBins
		}
		per := n / bins
		if per < minSamples {
			per = minSamples
		}

		best.offer(histogramEQFeature(x, rowLength, y, idx, feature, per, parentMetric, crit))
	})
	return best.result()
}

// histogramEQFeature is the shared per-feature equal-frequency search used
// by both HistogramEQ (fixed per) and AdaptiveEQ (derived per).
func histogramEQFeature(x []float64, rowLength int, y []float64, idx []int, feature, per int, parentMetric float64, crit criterion.Criterion) Split {
	n := len(idx)
	xt := featureValues(x, rowLength, idx, feature, nil)
	sortedIdx := make([]int, n)
	copy(sortedIdx, idx)
	bSort(xt, sortedIdx)

	if xt[n-1] <= xt[0]+1e-12 {
		return noSplit
	}
	if per < 1 {
		per = 1
	}

	result := noSplit
	for pivot := per; pivot < n; pivot += per {
		if xt[pivot] <= xt[pivot-1]+1e-12 {
			continue
		}
		left := sortedIdx[:pivot]
		right := sortedIdx[pivot:]
		mL := crit.NodeMetric(y, left)
		mR := crit.NodeMetric(y, right)
		g := gain(parentMetric, mL, mR, len(left), len(right))
		if g > 0 && (result.Feature < 0 || g > result.Gain) {
			threshold := (xt[pivot-1] + xt[pivot]) / 2.0
			result = Split{Feature: feature, Threshold: threshold, Gain: g}
		}
	}
	return result
}
