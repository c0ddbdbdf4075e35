// Package config loads an ensemble's hyperparameters from YAML and resolves
// them into the concrete criterion.Criterion, finder.Finder, and
// pruner.Pruner a forest.BaggingEnsemble needs to train.
package config

import (
	"fmt"
	"io/ioutil"

	yaml "gopkg.in/yaml.v2"

	"github.com/wlattner/regtree/forest"
)

// Ensemble is the YAML-decodable form of a bagging ensemble's
// configuration, mirroring forest.Config's fields with yaml tags.
type Ensemble struct {
	NumTrees       int     `yaml:"num_trees"`
	SampleRatio    float64 `yaml:"sample_ratio"`
	MaxDepth       int     `yaml:"max_depth"`
	MinSamplesLeaf int     `yaml:"min_samples_leaf"`
	Criterion      string  `yaml:"criterion"`
	SplitMethod    string  `yaml:"split_method"`
	PrunerType     string  `yaml:"pruner_type"`
	PrunerParam    float64 `yaml:"pruner_param"`
	Seed           int64   `yaml:"seed"`
	NumWorkers     int     `yaml:"num_workers"`

	// ValidationFile, if set, is a CSV path whose rows become the
	// reduced_error pruner's held-out validation set. Ignored for every
	// other pruner_type.
	ValidationFile string `yaml:"validation_file"`
}

// ReadFile loads and parses an Ensemble configuration from a YAML file.
func ReadFile(path string) (*Ensemble, error) {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %v", path, err)
	}
	var e Ensemble
	if err := yaml.Unmarshal(b, &e); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %v", path, err)
	}
	return &e, nil
}

// Build resolves e into a forest.Config, filling in the documented
// defaults for any zero-valued field. xVal/yVal/rowLength supply the
// validation set for a reduced_error pruner; pass nil/nil/0 otherwise.
func (e *Ensemble) Build(xVal, yVal []float64, rowLength int) (forest.Config, error) {
	cfg := forest.Config{
		NumTrees:       e.NumTrees,
		SampleRatio:    e.SampleRatio,
		MaxDepth:       e.MaxDepth,
		MinSamplesLeaf: e.MinSamplesLeaf,
		CriterionName:  e.Criterion,
		SplitMethod:    e.SplitMethod,
		PrunerType:     e.PrunerType,
		PrunerParam:    e.PrunerParam,
		Seed:           e.Seed,
		NumWorkers:     e.NumWorkers,
		XVal:           xVal,
		YVal:           yVal,
		RowLength:      rowLength,
	}

	if cfg.NumTrees == 0 {
		cfg.NumTrees = 10
	}
	if cfg.SampleRatio == 0 {
		cfg.SampleRatio = 1.0
	}
	if cfg.MaxDepth == 0 {
		cfg.MaxDepth = -1
	}
	if cfg.MinSamplesLeaf == 0 {
		cfg.MinSamplesLeaf = 1
	}
	if cfg.CriterionName == "" {
		cfg.CriterionName = "mse"
	}
	if cfg.SplitMethod == "" {
		cfg.SplitMethod = "exhaustive"
	}
	if cfg.PrunerType == "" {
		cfg.PrunerType = "none"
	}
	if cfg.NumWorkers == 0 {
		cfg.NumWorkers = 1
	}

	if cfg.PrunerType == "reduced_error" && len(yVal) == 0 {
		return forest.Config{}, fmt.Errorf("config: pruner_type reduced_error requires a validation_file")
	}

	return cfg, nil
}
