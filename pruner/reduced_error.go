package pruner

import "github.com/wlattner/regtree/tree"

// ReducedError prunes against a held-out validation set: post-order DFS,
// at each internal node compare the validation MSE of the subtree against
// the validation MSE of collapsing it to a leaf (predicting
// NodePrediction), keep whichever is no worse.
type ReducedError struct {
	XVal      []float64
	YVal      []float64
	RowLength int
}

func (r ReducedError) Prune(root *tree.Node) {
	if root == nil {
		return
	}
	r.pruneRec(root)
}

func (r ReducedError) pruneRec(n *tree.Node) {
	if n.IsLeaf {
		return
	}
	r.pruneRec(n.Left)
	r.pruneRec(n.Right)

	mseSubtree := r.validate(n)

	// save state, collapse, measure, and restore exactly: the collapse
	// is provisional until we decide it doesn't hurt validation error.
	left, right := n.Left, n.Right
	feature, threshold := n.FeatureIndex, n.Threshold
	prediction := n.Prediction

	n.Collapse()
	mseLeaf := r.validate(n)

	if mseLeaf <= mseSubtree {
		return // keep the collapse
	}

	// restore the subtree
	n.IsLeaf = false
	n.Left, n.Right = left, right
	n.FeatureIndex, n.Threshold = feature, threshold
	n.Prediction = prediction
}

// validate computes the MSE of the subtree rooted at n over the validation
// set, routing each row through n exactly as Predict would.
func (r ReducedError) validate(n *tree.Node) float64 {
	if len(r.YVal) == 0 {
		return 0
	}
	var sse float64
	for i, target := range r.YVal {
		row := r.XVal[i*r.RowLength : (i+1)*r.RowLength]
		pred := n.Predict(row)
		diff := target - pred
		sse += diff * diff
	}
	return sse / float64(len(r.YVal))
}
