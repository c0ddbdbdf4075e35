package pruner

import "github.com/wlattner/regtree/tree"

// CostComplexity is CART's alpha-pruning: post-order DFS comparing the cost
// of collapsing a subtree to a single leaf (its total error plus Alpha)
// against keeping it (the subtree's total error plus Alpha * leaf count).
type CostComplexity struct {
	Alpha float64
}

func (c CostComplexity) Prune(root *tree.Node) {
	if root == nil {
		return
	}
	c.pruneRec(root)
}

// pruneRec returns the total error (metric * samples, summed over leaves)
// of the subtree rooted at n, after any pruning performed within it.
func (c CostComplexity) pruneRec(n *tree.Node) float64 {
	if n.IsLeaf {
		return n.Metric * float64(n.Samples)
	}

	errLeft := c.pruneRec(n.Left)
	errRight := c.pruneRec(n.Right)
	subtreeError := errLeft + errRight
	subtreeLeaves := n.Left.Leaves() + n.Right.Leaves()

	leafCost := n.Metric*float64(n.Samples) + c.Alpha
	subtreeCost := subtreeError + c.Alpha*float64(subtreeLeaves)

	if leafCost <= subtreeCost {
		n.Collapse()
		return n.Metric * float64(n.Samples)
	}
	return subtreeError
}
