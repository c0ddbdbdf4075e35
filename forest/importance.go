package forest

import "github.com/wlattner/regtree/tree"

// FeatureImportance counts how many internal nodes split on each of the
// nFeatures columns across all trees, normalized to sum to 1.
func (f *BaggingEnsemble) FeatureImportance(nFeatures int) []float64 {
	imp := make([]float64, nFeatures)
	if len(f.Trees) == 0 {
		return imp
	}

	for _, t := range f.Trees {
		accumulateImportance(t.Root, imp)
	}

	var total float64
	for _, v := range imp {
		total += v
	}
	if total > 0 {
		for i := range imp {
			imp[i] /= total
		}
	}
	return imp
}

func accumulateImportance(n *tree.Node, imp []float64) {
	if n == nil || n.IsLeaf {
		return
	}
	imp[n.FeatureIndex]++
	accumulateImportance(n.Left, imp)
	accumulateImportance(n.Right, imp)
}
