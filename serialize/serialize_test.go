package serialize

import (
	"bytes"
	"testing"

	"github.com/wlattner/regtree/tree"
)

func sampleTree() *tree.Node {
	return &tree.Node{
		FeatureIndex: 0, Threshold: 5, Samples: 4, NodePrediction: 2.5,
		Left:  &tree.Node{IsLeaf: true, Prediction: 1.0, NodePrediction: 1.0, Samples: 2},
		Right: &tree.Node{IsLeaf: true, Prediction: 4.0, NodePrediction: 4.0, Samples: 2},
	}
}

func TestFlattenRebuildRoundTrip(t *testing.T) {
	root := sampleTree()
	records := Flatten(root)
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	rebuilt := Rebuild(records)
	for _, row := range [][]float64{{1}, {9}} {
		want := root.Predict(row)
		got := rebuilt.Predict(row)
		if want != got {
			t.Errorf("row %v: want %v got %v", row, want, got)
		}
	}
}

func TestRebuildEmptyRecords(t *testing.T) {
	if n := Rebuild(nil); n != nil {
		t.Error("expected nil for empty records")
	}
}

func TestSnapshotGobRoundTrip(t *testing.T) {
	root := sampleTree()
	snap := NewSnapshot(root)

	var buf bytes.Buffer
	if err := snap.Save(&buf); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := LoadSnapshot(&buf)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if loaded.JobID != snap.JobID {
		t.Error("expected JobID to round-trip")
	}
	rebuilt := Rebuild(loaded.Nodes)
	if rebuilt.Predict([]float64{1}) != root.Predict([]float64{1}) {
		t.Error("expected prediction to round-trip through a Snapshot")
	}
}
