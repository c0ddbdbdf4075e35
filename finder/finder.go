// Package finder implements the SplitFinder family: given a criterion, the
// parent node's metric, and an index subset, each Finder searches for the
// best (feature, threshold) split. Search is parallelised over features,
// each goroutine keeping a thread-local best-so-far that is reduced into a
// single winner under a mutex once every feature has been visited.
package finder

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/wlattner/regtree/criterion"
)

// Split is the result of a best-split search. Feature == -1 means no split
// was found (the sentinel the trainer checks to fall back to a leaf).
type Split struct {
	Feature   int
	Threshold float64
	Gain      float64
}

// noSplit is the sentinel returned when no candidate improves on the parent.
var noSplit = Split{Feature: -1}

// Finder searches an index subset for the best candidate split.
type Finder interface {
	FindBestSplit(x []float64, rowLength int, y []float64, idx []int, parentMetric float64, crit criterion.Criterion) Split
}

// New builds a Finder from a config string: "exhaustive", "histogram_ew[:B]",
// "histogram_eq[:B]", "adaptive_ew[:rule]", "adaptive_eq", "random[:k]", or
// "quartile". Unrecognised names/parameters are configuration errors.
func New(name string, seed int64) (Finder, error) {
	head, arg, hasArg := strings.Cut(name, ":")
	switch strings.ToLower(head) {
	case "exhaustive":
		return Exhaustive{}, nil
	case "histogram_ew":
		bins := 32
		if hasArg {
			b, err := strconv.Atoi(arg)
			if err != nil {
				return nil, fmt.Errorf("finder: invalid histogram_ew bin count %q: %w", arg, err)
			}
			bins = b
		}
		if bins < 2 {
			return nil, fmt.Errorf("finder: histogram_ew requires at least 2 bins, got %d", bins)
		}
		return HistogramEW{Bins: bins}, nil
	case "histogram_eq":
		bins := 32
		if hasArg {
			b, err := strconv.Atoi(arg)
			if err != nil {
				return nil, fmt.Errorf("finder: invalid histogram_eq bin count %q: %w", arg, err)
			}
			bins = b
		}
		if bins < 2 {
			return nil, fmt.Errorf("finder: histogram_eq requires at least 2 bins, got %d", bins)
		}
		return HistogramEQ{Bins: bins}, nil
	case "adaptive_ew":
		rule := RuleSturges
		if hasArg {
			r, err := parseBinRule(arg)
			if err != nil {
				return nil, err
			}
			rule = r
		}
		return AdaptiveEW{Rule: rule, MinBins: 2, MaxBins: 256}, nil
	case "adaptive_eq":
		return AdaptiveEQ{MinSamplesPerBin: 10, MaxBins: 256}, nil
	case "random":
		k := 8
		if hasArg {
			kk, err := strconv.Atoi(arg)
			if err != nil {
				return nil, fmt.Errorf("finder: invalid random k %q: %w", arg, err)
			}
			k = kk
		}
		if k < 1 {
			return nil, fmt.Errorf("finder: random requires k >= 1, got %d", k)
		}
		return NewRandom(k, seed), nil
	case "quartile":
		return Quartile{}, nil
	default:
		return nil, fmt.Errorf("finder: unknown split method %q", name)
	}
}

// gain computes the impurity improvement of a candidate split: larger is
// better, non-positive means no improvement.
func gain(parentMetric, lMetric, rMetric float64, nLeft, nRight int) float64 {
	n := float64(nLeft + nRight)
	return parentMetric - (float64(nLeft)*lMetric+float64(nRight)*rMetric)/n
}

// featureValues copies x[idx[i], feature] into buf[:len(idx)], reusing buf's
// backing array when it's large enough.
func featureValues(x []float64, rowLength int, idx []int, feature int, buf []float64) []float64 {
	if cap(buf) < len(idx) {
		buf = make([]float64, len(idx))
	}
	buf = buf[:len(idx)]
	for i, row := range idx {
		buf[i] = x[row*rowLength+feature]
	}
	return buf
}

// bestOf reduces per-feature candidate splits into the overall best, with
// ties broken by the first-visited feature (lowest feature index), then by
// smallest threshold.
type bestOf struct {
	mu   sync.Mutex
	best Split
	set  bool
}

func (b *bestOf) offer(s Split) {
	if s.Feature < 0 || s.Gain <= 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.set {
		b.best, b.set = s, true
		return
	}
	if s.Gain > b.best.Gain ||
		(s.Gain == b.best.Gain && s.Feature < b.best.Feature) ||
		(s.Gain == b.best.Gain && s.Feature == b.best.Feature && s.Threshold < b.best.Threshold) {
		b.best = s
	}
}

func (b *bestOf) result() Split {
	if !b.set {
		return noSplit
	}
	return b.best
}

// forEachFeature runs fn(feature) for every feature in [0, nFeatures),
// fanning out across goroutines bounded by GOMAXPROCS, and waits for all of
// them to finish before returning (the join point spec.md's concurrency
// model requires at the end of a parallel-for).
func forEachFeature(nFeatures int, fn func(feature int)) {
	workers := runtime.GOMAXPROCS(0)
	if workers > nFeatures {
		workers = nFeatures
	}
	if workers <= 1 {
		for f := 0; f < nFeatures; f++ {
			fn(f)
		}
		return
	}

	var g errgroup.Group
	sem := make(chan struct{}, workers)
	for f := 0; f < nFeatures; f++ {
		f := f
		sem <- struct{}{}
		g.Go(func() error {
			defer func() { <-sem }()
			fn(f)
			return nil
		})
	}
	_ = g.Wait()
}
