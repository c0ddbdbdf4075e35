package forest

import (
	"math"
	"testing"
)

func genData(n int) (X, y []float64) {
	X = make([]float64, n)
	y = make([]float64, n)
	for i := 0; i < n; i++ {
		X[i] = float64(i)
		if i < n/2 {
			y[i] = 0
		} else {
			y[i] = 10
		}
	}
	return X, y
}

func TestBaggingEnsembleTrainPredict(t *testing.T) {
	X, y := genData(200)
	f, err := NewBaggingEnsemble(Config{
		NumTrees:       10,
		SampleRatio:    1.0,
		MaxDepth:       4,
		MinSamplesLeaf: 1,
		CriterionName:  "mse",
		SplitMethod:    "exhaustive",
		PrunerType:     "none",
		Seed:           7,
		NumWorkers:     4,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Train(X, 1, y); err != nil {
		t.Fatal(err)
	}
	if len(f.Trees) != 10 {
		t.Errorf("expected 10 trees, got %d", len(f.Trees))
	}

	pred := f.Predict([]float64{0})
	if pred > 2.0 {
		t.Error("expected prediction near 0 for a low-index row, got", pred)
	}
	pred = f.Predict([]float64{199})
	if pred < 8.0 {
		t.Error("expected prediction near 10 for a high-index row, got", pred)
	}
}

func TestBaggingEnsembleIsDeterministic(t *testing.T) {
	X, y := genData(100)
	cfg := Config{
		NumTrees: 5, SampleRatio: 1.0, MaxDepth: 3, MinSamplesLeaf: 1,
		CriterionName: "mse", SplitMethod: "random:4", PrunerType: "none",
		Seed: 42, NumWorkers: 3,
	}

	f1, _ := NewBaggingEnsemble(cfg)
	if err := f1.Train(X, 1, y); err != nil {
		t.Fatal(err)
	}
	f2, _ := NewBaggingEnsemble(cfg)
	if err := f2.Train(X, 1, y); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 100; i++ {
		row := []float64{float64(i)}
		p1, p2 := f1.Predict(row), f2.Predict(row)
		if p1 != p2 {
			t.Fatalf("non-deterministic prediction at row %d: %v vs %v", i, p1, p2)
		}
	}
}

func TestFeatureImportanceNormalizes(t *testing.T) {
	X, y := genData(200)
	f, _ := NewBaggingEnsemble(Config{
		NumTrees: 8, SampleRatio: 1.0, MaxDepth: 4, MinSamplesLeaf: 1,
		CriterionName: "mse", SplitMethod: "exhaustive", PrunerType: "none",
		Seed: 3, NumWorkers: 2,
	})
	if err := f.Train(X, 1, y); err != nil {
		t.Fatal(err)
	}
	imp := f.FeatureImportance(1)
	if math.Abs(imp[0]-1.0) > 1e-9 {
		t.Error("expected the only feature to carry all importance, got", imp[0])
	}
}

func TestOOBErrorRequiresTraining(t *testing.T) {
	f, _ := NewBaggingEnsemble(Config{NumTrees: 1, SampleRatio: 1.0, MinSamplesLeaf: 1, CriterionName: "mse", SplitMethod: "exhaustive", Seed: 1})
	if _, err := f.OOBError(nil, 1, nil); err == nil {
		t.Error("expected an error before training")
	}
}

func TestNewBaggingEnsembleRejectsZeroTrees(t *testing.T) {
	if _, err := NewBaggingEnsemble(Config{NumTrees: 0}); err == nil {
		t.Error("expected an error for NumTrees=0")
	}
}
