package tree

import (
	"bytes"
	"math"
	"testing"

	"github.com/wlattner/regtree/criterion"
	"github.com/wlattner/regtree/finder"
	"github.com/wlattner/regtree/pruner"
)

func mustTrainer(t *testing.T, maxDepth, minLeaf int) *SingleTreeTrainer {
	t.Helper()
	trainer, err := NewSingleTreeTrainer(finder.Exhaustive{}, criterion.MSE{}, pruner.NoPruner{}, maxDepth, minLeaf)
	if err != nil {
		t.Fatalf("NewSingleTreeTrainer: %v", err)
	}
	return trainer
}

func TestMaxDepthZeroProducesSingleLeaf(t *testing.T) {
	X := []float64{0, 1, 2, 3, 4}
	y := []float64{0, 1, 2, 3, 4}
	trainer := mustTrainer(t, 0, 1)
	if err := trainer.Train(X, 1, y); err != nil {
		t.Fatal(err)
	}
	if !trainer.Root.IsLeaf {
		t.Error("expected a single leaf at max_depth=0")
	}
}

func TestPerfectSeparationZeroMSE(t *testing.T) {
	X := []float64{0, 1, 2, 3, 10, 11, 12, 13}
	y := []float64{0, 0, 0, 0, 10, 10, 10, 10}
	trainer := mustTrainer(t, -1, 1)
	if err := trainer.Train(X, 1, y); err != nil {
		t.Fatal(err)
	}
	mse, _ := trainer.Evaluate(X, 1, y)
	if mse > 1e-9 {
		t.Error("expected near-zero MSE on a perfectly separable dataset, got", mse)
	}
}

func TestMinSamplesLeafRespected(t *testing.T) {
	X := []float64{0, 1, 2, 3, 4, 5}
	y := []float64{0, 0, 0, 10, 10, 10}
	trainer := mustTrainer(t, -1, 3)
	if err := trainer.Train(X, 1, y); err != nil {
		t.Fatal(err)
	}
	var walk func(n *Node)
	walk = func(n *Node) {
		if n.IsLeaf {
			if n.Samples < 3 {
				t.Error("leaf has fewer than MinSamplesLeaf samples:", n.Samples)
			}
			return
		}
		walk(n.Left)
		walk(n.Right)
	}
	walk(trainer.Root)
}

func TestPredictMatchesTrainingMean(t *testing.T) {
	X := []float64{0, 0, 0}
	y := []float64{1, 2, 3}
	trainer := mustTrainer(t, -1, 1)
	if err := trainer.Train(X, 1, y); err != nil {
		t.Fatal(err)
	}
	pred := trainer.Predict([]float64{0})
	if math.Abs(pred-2.0) > 1e-9 {
		t.Error("expected prediction 2.0 for a constant feature, got", pred)
	}
}

func TestGobRoundTrip(t *testing.T) {
	X := []float64{0, 1, 2, 3, 10, 11, 12, 13}
	y := []float64{0, 0, 0, 0, 10, 10, 10, 10}
	trainer := mustTrainer(t, -1, 1)
	if err := trainer.Train(X, 1, y); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := trainer.Root.Save(&buf); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded := &Node{}
	if err := loaded.Load(&buf); err != nil {
		t.Fatalf("Load: %v", err)
	}

	for _, row := range [][]float64{{0}, {3}, {10}, {13}} {
		want := trainer.Root.Predict(row)
		got := loaded.Predict(row)
		if want != got {
			t.Errorf("row %v: want %v got %v", row, want, got)
		}
	}
}

func TestTrainRejectsDimensionMismatch(t *testing.T) {
	trainer := mustTrainer(t, -1, 1)
	err := trainer.Train([]float64{1, 2, 3}, 2, []float64{1, 2})
	if err == nil {
		t.Error("expected an error for mismatched X/y dimensions")
	}
}

func TestTrainRejectsZeroSamples(t *testing.T) {
	trainer := mustTrainer(t, -1, 1)
	if err := trainer.Train(nil, 1, nil); err == nil {
		t.Error("expected an error for zero samples")
	}
}
