// Package serialize flattens a tree into a parent-indexed array of
// records and back. It exists as the wire format a distributed
// orchestration layer would ship between workers and a coordinator; this
// module implements only that flatten/rebuild/gob-round-trip step, not
// the scheduling, retry, or broadcast logic such a layer would add.
package serialize

import (
	"encoding/gob"
	"io"

	"github.com/google/uuid"

	"github.com/wlattner/regtree/tree"
)

// NodeRecord is one flattened tree.Node. Left/Right are indices into the
// enclosing []NodeRecord, or -1 for a leaf's absent children.
type NodeRecord struct {
	IsLeaf         bool
	FeatureIndex   int
	Threshold      float64
	Prediction     float64
	NodePrediction float64
	Metric         float64
	Samples        int
	Left           int
	Right          int
}

// Flatten walks root in pre-order and returns its NodeRecord array.
func Flatten(root *tree.Node) []NodeRecord {
	var records []NodeRecord
	flattenRec(root, &records)
	return records
}

func flattenRec(n *tree.Node, records *[]NodeRecord) int {
	if n == nil {
		return -1
	}
	self := len(*records)
	*records = append(*records, NodeRecord{
		IsLeaf:         n.IsLeaf,
		FeatureIndex:   n.FeatureIndex,
		Threshold:      n.Threshold,
		Prediction:     n.Prediction,
		NodePrediction: n.NodePrediction,
		Metric:         n.Metric,
		Samples:        n.Samples,
		Left:           -1,
		Right:          -1,
	})

	left := flattenRec(n.Left, records)
	right := flattenRec(n.Right, records)
	(*records)[self].Left = left
	(*records)[self].Right = right
	return self
}

// Rebuild reconstructs the tree.Node graph a Flatten call produced.
// The root is records[0]; empty records yield nil.
func Rebuild(records []NodeRecord) *tree.Node {
	if len(records) == 0 {
		return nil
	}
	nodes := make([]*tree.Node, len(records))
	for i, r := range records {
		nodes[i] = &tree.Node{
			IsLeaf:         r.IsLeaf,
			FeatureIndex:   r.FeatureIndex,
			Threshold:      r.Threshold,
			Prediction:     r.Prediction,
			NodePrediction: r.NodePrediction,
			Metric:         r.Metric,
			Samples:        r.Samples,
		}
	}
	for i, r := range records {
		if r.Left >= 0 {
			nodes[i].Left = nodes[r.Left]
		}
		if r.Right >= 0 {
			nodes[i].Right = nodes[r.Right]
		}
	}
	return nodes[0]
}

// Snapshot pairs a flattened tree with a job identifier, the unit a
// distributed trainer would ship to or from a coordinator.
type Snapshot struct {
	JobID uuid.UUID
	Nodes []NodeRecord
}

// NewSnapshot flattens root under a freshly generated job id.
func NewSnapshot(root *tree.Node) Snapshot {
	return Snapshot{JobID: uuid.New(), Nodes: Flatten(root)}
}

// Save gob-encodes s to w.
func (s Snapshot) Save(w io.Writer) error {
	return gob.NewEncoder(w).Encode(s)
}

// LoadSnapshot gob-decodes a Snapshot from r.
func LoadSnapshot(r io.Reader) (Snapshot, error) {
	var s Snapshot
	err := gob.NewDecoder(r).Decode(&s)
	return s, err
}
