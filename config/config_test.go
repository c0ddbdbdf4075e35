package config

import "testing"

func TestBuildFillsDefaults(t *testing.T) {
	e := &Ensemble{}
	cfg, err := e.Build(nil, nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.NumTrees != 10 {
		t.Error("expected default NumTrees=10, got", cfg.NumTrees)
	}
	if cfg.SampleRatio != 1.0 {
		t.Error("expected default SampleRatio=1.0, got", cfg.SampleRatio)
	}
	if cfg.MaxDepth != -1 {
		t.Error("expected default MaxDepth=-1, got", cfg.MaxDepth)
	}
	if cfg.CriterionName != "mse" {
		t.Error("expected default criterion mse, got", cfg.CriterionName)
	}
	if cfg.SplitMethod != "exhaustive" {
		t.Error("expected default split_method exhaustive, got", cfg.SplitMethod)
	}
	if cfg.PrunerType != "none" {
		t.Error("expected default pruner_type none, got", cfg.PrunerType)
	}
}

func TestBuildPreservesExplicitValues(t *testing.T) {
	e := &Ensemble{NumTrees: 50, SampleRatio: 0.7, MaxDepth: 8, Criterion: "mae", SplitMethod: "random:4"}
	cfg, err := e.Build(nil, nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.NumTrees != 50 || cfg.SampleRatio != 0.7 || cfg.MaxDepth != 8 {
		t.Error("expected explicit values to be preserved, got", cfg)
	}
	if cfg.CriterionName != "mae" || cfg.SplitMethod != "random:4" {
		t.Error("expected explicit criterion/split_method to be preserved, got", cfg)
	}
}

func TestBuildRejectsReducedErrorWithoutValidationSet(t *testing.T) {
	e := &Ensemble{PrunerType: "reduced_error"}
	if _, err := e.Build(nil, nil, 0); err == nil {
		t.Error("expected an error for reduced_error without a validation set")
	}
}

func TestBuildAcceptsReducedErrorWithValidationSet(t *testing.T) {
	e := &Ensemble{PrunerType: "reduced_error"}
	xVal := []float64{1, 2, 3, 4}
	yVal := []float64{1, 2}
	if _, err := e.Build(xVal, yVal, 2); err != nil {
		t.Error("expected no error when a validation set is supplied, got", err)
	}
}

func TestReadFileMissingPath(t *testing.T) {
	if _, err := ReadFile("/nonexistent/path/to/config.yaml"); err == nil {
		t.Error("expected an error for a missing config file")
	}
}
