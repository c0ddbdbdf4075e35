package tree

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/wlattner/regtree/criterion"
	"github.com/wlattner/regtree/finder"
	"github.com/wlattner/regtree/pruner"
)

// parallelRecursionDepth/Size/Child gate when growth recurses into a
// worker instead of the calling goroutine: shallow enough that fan-out
// doesn't outrun GOMAXPROCS, and only when the node is large and at least
// one child is worth the cost of a new goroutine.
const (
	parallelRecursionDepth = 3
	parallelRecursionSize  = 2000
	parallelRecursionChild = 500
)

// SingleTreeTrainer grows one regression tree by recursive binary
// partitioning, then runs its configured Pruner once over the grown root.
type SingleTreeTrainer struct {
	MaxDepth       int
	MinSamplesLeaf int
	Finder         finder.Finder
	Criterion      criterion.Criterion
	Pruner         pruner.Pruner

	Root      *Node
	rowLength int
}

// NewSingleTreeTrainer validates its arguments and returns a trainer ready
// to Train. MaxDepth < 0 means unbounded.
func NewSingleTreeTrainer(f finder.Finder, c criterion.Criterion, p pruner.Pruner, maxDepth, minSamplesLeaf int) (*SingleTreeTrainer, error) {
	if f == nil || c == nil {
		return nil, fmt.Errorf("tree: finder and criterion are required")
	}
	if minSamplesLeaf < 1 {
		return nil, fmt.Errorf("tree: minSamplesLeaf must be >= 1, got %d", minSamplesLeaf)
	}
	if p == nil {
		p = pruner.NoPruner{}
	}
	return &SingleTreeTrainer{
		MaxDepth:       maxDepth,
		MinSamplesLeaf: minSamplesLeaf,
		Finder:         f,
		Criterion:      c,
		Pruner:         p,
	}, nil
}

// Train grows a tree from X (row-major, rowLength columns per sample) and
// targets y, then applies the configured pruner.
func (t *SingleTreeTrainer) Train(X []float64, rowLength int, y []float64) error {
	if rowLength <= 0 {
		return fmt.Errorf("tree: rowLength must be positive, got %d", rowLength)
	}
	if len(y) == 0 {
		return fmt.Errorf("tree: cannot train on zero samples")
	}
	if len(X) != len(y)*rowLength {
		return fmt.Errorf("tree: len(X)=%d inconsistent with len(y)*rowLength=%d", len(X), len(y)*rowLength)
	}

	t.rowLength = rowLength
	idx := make([]int, len(y))
	for i := range idx {
		idx[i] = i
	}

	root := &Node{}
	if err := t.growParallel(root, X, rowLength, y, idx, 0); err != nil {
		return err
	}
	t.Pruner.Prune(root)
	t.Root = root
	return nil
}

// growParallel grows the subtree rooted at n over idx in place, choosing
// between serial and goroutine-based recursion for the two children based
// on depth and subtree size.
func (t *SingleTreeTrainer) growParallel(n *Node, X []float64, rowLength int, y []float64, idx []int, depth int) error {
	if len(idx) == 0 {
		n.IsLeaf = true
		return nil
	}

	n.Metric = t.Criterion.NodeMetric(y, idx)
	n.Samples = len(idx)

	var sum float64
	for _, i := range idx {
		sum += y[i]
	}
	nodePrediction := sum / float64(len(idx))
	n.NodePrediction = nodePrediction

	if (t.MaxDepth >= 0 && depth >= t.MaxDepth) || len(idx) < 2*t.MinSamplesLeaf || len(idx) < 2 {
		n.IsLeaf = true
		n.Prediction = nodePrediction
		return nil
	}

	split := t.Finder.FindBestSplit(X, rowLength, y, idx, n.Metric, t.Criterion)
	if split.Feature < 0 || split.Gain <= 0 {
		n.IsLeaf = true
		n.Prediction = nodePrediction
		return nil
	}

	if pp, ok := t.Pruner.(pruner.PrePruner); ok {
		if split.Gain < pp.MinGain() {
			n.IsLeaf = true
			n.Prediction = nodePrediction
			return nil
		}
	}

	i, j := 0, len(idx)
	for i < j {
		if X[idx[i]*rowLength+split.Feature] <= split.Threshold {
			i++
		} else {
			j--
			idx[i], idx[j] = idx[j], idx[i]
		}
	}
	left, right := idx[:i], idx[i:]

	if len(left) < t.MinSamplesLeaf || len(right) < t.MinSamplesLeaf {
		n.IsLeaf = true
		n.Prediction = nodePrediction
		return nil
	}

	n.FeatureIndex = split.Feature
	n.Threshold = split.Threshold
	n.Left = &Node{}
	n.Right = &Node{}

	useParallel := depth <= parallelRecursionDepth &&
		len(idx) > parallelRecursionSize &&
		(len(left) > parallelRecursionChild || len(right) > parallelRecursionChild) &&
		runtime.GOMAXPROCS(0) > 1

	if !useParallel {
		if err := t.growParallel(n.Left, X, rowLength, y, left, depth+1); err != nil {
			return err
		}
		return t.growParallel(n.Right, X, rowLength, y, right, depth+1)
	}

	var g errgroup.Group
	g.Go(func() error { return t.growParallel(n.Left, X, rowLength, y, left, depth+1) })
	g.Go(func() error { return t.growParallel(n.Right, X, rowLength, y, right, depth+1) })
	return g.Wait()
}

// Predict returns the prediction for a single row of t.rowLength features.
func (t *SingleTreeTrainer) Predict(row []float64) float64 {
	return t.Root.Predict(row)
}

// Evaluate returns mean squared error and mean absolute error of the tree
// over X, y.
func (t *SingleTreeTrainer) Evaluate(X []float64, rowLength int, y []float64) (mse, mae float64) {
	n := len(y)
	for i := 0; i < n; i++ {
		row := X[i*rowLength : (i+1)*rowLength]
		diff := y[i] - t.Root.Predict(row)
		mse += diff * diff
		if diff < 0 {
			mae -= diff
		} else {
			mae += diff
		}
	}
	mse /= float64(n)
	mae /= float64(n)
	return mse, mae
}
