// Package pruner implements the post-pruning strategies that rewrite a
// grown tree in place: they may collapse subtrees to leaves but never add
// nodes. A separate PrePruner interface lets the trainer query a minimum
// gain threshold during growth, before a candidate split is committed.
package pruner

import (
	"fmt"

	"github.com/wlattner/regtree/tree"
)

// Pruner rewrites root in place, possibly collapsing subtrees to leaves.
type Pruner interface {
	Prune(root *tree.Node)
}

// PrePruner is implemented by pruners that also gate splits during growth,
// before the trainer partitions indices and commits to an internal node.
type PrePruner interface {
	MinGain() float64
}

// NoPruner leaves the tree exactly as grown.
type NoPruner struct{}

func (NoPruner) Prune(*tree.Node) {}

// MinGainPruner is the pre-pruner: its Prune is a no-op, since all of its
// work happens during growth via MinGain(), which the trainer consults
// before committing each candidate split.
type MinGainPruner struct {
	Gain float64
}

func (MinGainPruner) Prune(*tree.Node)   {}
func (m MinGainPruner) MinGain() float64 { return m.Gain }

// New builds a Pruner (and, where relevant, the validation set a
// reduced-error pruner needs) from a (type, param) pair, matching the
// pruner_type/pruner_param options in the ensemble config. xVal/yVal are
// only consulted for "reduced_error", and must be non-empty.
func New(kind string, param float64, rowLength int, xVal, yVal []float64) (Pruner, error) {
	switch kind {
	case "", "none":
		return NoPruner{}, nil
	case "mingain":
		return MinGainPruner{Gain: param}, nil
	case "cost_complexity":
		if param < 0 {
			return nil, fmt.Errorf("pruner: cost_complexity alpha must be >= 0, got %v", param)
		}
		return CostComplexity{Alpha: param}, nil
	case "reduced_error":
		if len(yVal) == 0 {
			return nil, fmt.Errorf("pruner: reduced_error requires a non-empty validation set")
		}
		if len(xVal) != len(yVal)*rowLength {
			return nil, fmt.Errorf("pruner: reduced_error validation set dimension mismatch: len(xVal)=%d, len(yVal)*rowLength=%d", len(xVal), len(yVal)*rowLength)
		}
		return ReducedError{XVal: xVal, YVal: yVal, RowLength: rowLength}, nil
	default:
		return nil, fmt.Errorf("pruner: unknown pruner_type %q", kind)
	}
}
