// Package forest implements bagging: many regression trees grown on
// bootstrap resamples of the training set, averaged at predict time.
package forest

import (
	"fmt"

	"github.com/wlattner/regtree/criterion"
	"github.com/wlattner/regtree/finder"
	"github.com/wlattner/regtree/pruner"
	"github.com/wlattner/regtree/rngstream"
	"github.com/wlattner/regtree/tree"
)

// Config describes how to grow every tree in the ensemble. XVal/YVal are
// only consulted when PrunerType is "reduced_error".
type Config struct {
	NumTrees       int
	SampleRatio    float64
	MaxDepth       int
	MinSamplesLeaf int
	CriterionName  string
	SplitMethod    string
	PrunerType     string
	PrunerParam    float64
	Seed           int64
	NumWorkers     int

	XVal      []float64
	YVal      []float64
	RowLength int
}

// BaggingEnsemble is a trained collection of trees plus the statistics
// gathered during training (OOB MSE and R-squared).
type BaggingEnsemble struct {
	Config
	Trees     []*tree.SingleTreeTrainer
	NFeatures int

	MSE      float64
	RSquared float64

	oob *oobCtr
}

type fitJob struct {
	treeIndex int
	idx       []int
	inBag     []bool
}

type fitResult struct {
	treeIndex int
	trainer   *tree.SingleTreeTrainer
	inBag     []bool
	err       error
}

// NewBaggingEnsemble validates cfg, including that CriterionName,
// SplitMethod, and PrunerType name real strategies, and returns an empty,
// untrained ensemble. Resolving the names here means a typo fails fast at
// construction instead of surfacing as an opaque per-tree training failure.
func NewBaggingEnsemble(cfg Config) (*BaggingEnsemble, error) {
	if cfg.NumTrees < 1 {
		return nil, fmt.Errorf("forest: NumTrees must be >= 1, got %d", cfg.NumTrees)
	}
	if cfg.SampleRatio <= 0 {
		cfg.SampleRatio = 1.0
	}
	if cfg.NumWorkers < 1 {
		cfg.NumWorkers = 1
	}
	if _, err := criterion.New(cfg.CriterionName); err != nil {
		return nil, err
	}
	if _, err := finder.New(cfg.SplitMethod, 0); err != nil {
		return nil, err
	}
	if _, err := pruner.New(cfg.PrunerType, cfg.PrunerParam, cfg.RowLength, cfg.XVal, cfg.YVal); err != nil {
		return nil, err
	}
	return &BaggingEnsemble{Config: cfg}, nil
}

// Train fits NumTrees trees, each on an independent bootstrap resample of
// X, y, using a worker pool bounded by NumWorkers. Every tree gets its own
// deterministic RNG stream derived from (Seed, treeIndex), so results do
// not depend on goroutine scheduling.
func (f *BaggingEnsemble) Train(X []float64, rowLength int, y []float64) error {
	n := len(y)
	if n == 0 {
		return fmt.Errorf("forest: cannot train on zero samples")
	}
	if len(X) != n*rowLength {
		return fmt.Errorf("forest: len(X)=%d inconsistent with len(y)*rowLength=%d", len(X), n*rowLength)
	}
	f.NFeatures = rowLength

	sampleSize := int(float64(n)*f.SampleRatio + 0.5)
	if sampleSize < 1 {
		sampleSize = 1
	}

	in := make(chan fitJob)
	out := make(chan fitResult)

	for w := 0; w < f.NumWorkers; w++ {
		go func() {
			for job := range in {
				finderSeed := int64(rngstream.ForThread(f.Seed, job.treeIndex, 0).Int63())

				c, err := criterion.New(f.CriterionName)
				if err != nil {
					out <- fitResult{treeIndex: job.treeIndex, err: err}
					continue
				}
				fdr, err := finder.New(f.SplitMethod, finderSeed)
				if err != nil {
					out <- fitResult{treeIndex: job.treeIndex, err: err}
					continue
				}
				p, err := pruner.New(f.PrunerType, f.PrunerParam, f.RowLength, f.XVal, f.YVal)
				if err != nil {
					out <- fitResult{treeIndex: job.treeIndex, err: err}
					continue
				}

				trainer, err := tree.NewSingleTreeTrainer(fdr, c, p, f.MaxDepth, f.MinSamplesLeaf)
				if err != nil {
					out <- fitResult{treeIndex: job.treeIndex, err: err}
					continue
				}

				subX, subY := extractSubset(X, rowLength, y, job.idx)
				if err := trainer.Train(subX, rowLength, subY); err != nil {
					out <- fitResult{treeIndex: job.treeIndex, err: err}
					continue
				}

				out <- fitResult{treeIndex: job.treeIndex, trainer: trainer, inBag: job.inBag}
			}
		}()
	}

	go func() {
		for i := 0; i < f.NumTrees; i++ {
			idx, inBag := bootstrapInx(rngstream.ForTree(f.Seed, i), n, sampleSize)
			in <- fitJob{treeIndex: i, idx: idx, inBag: inBag}
		}
		close(in)
	}()

	trees := make([]*tree.SingleTreeTrainer, f.NumTrees)
	oob := newOOBCtr(n)
	var trainErr error
	for i := 0; i < f.NumTrees; i++ {
		r := <-out
		if r.trainer == nil {
			trainErr = fmt.Errorf("forest: failed to train tree %d: %w", r.treeIndex, r.err)
			continue
		}
		trees[r.treeIndex] = r.trainer
		oob.update(X, rowLength, r.inBag, r.trainer)
	}
	if trainErr != nil {
		return trainErr
	}

	f.Trees = trees
	f.oob = oob
	f.MSE, f.RSquared = oob.compute(y)
	return nil
}

// Predict returns the unweighted mean prediction of every tree for a
// single row of rowLength features.
func (f *BaggingEnsemble) Predict(row []float64) float64 {
	var sum float64
	for _, t := range f.Trees {
		sum += t.Predict(row)
	}
	return sum / float64(len(f.Trees))
}

// Evaluate returns MSE and MAE of the ensemble's averaged prediction over
// X, y.
func (f *BaggingEnsemble) Evaluate(X []float64, rowLength int, y []float64) (mse, mae float64) {
	n := len(y)
	for i := 0; i < n; i++ {
		row := X[i*rowLength : (i+1)*rowLength]
		diff := y[i] - f.Predict(row)
		mse += diff * diff
		if diff < 0 {
			mae -= diff
		} else {
			mae += diff
		}
	}
	mse /= float64(n)
	mae /= float64(n)
	return mse, mae
}

// OOBError recomputes out-of-bag MSE against yTrain using the per-sample
// out-of-bag prediction sums recorded during Train. yTrain must be the
// same training labels (same order, same length) passed to Train; XTrain
// and rowLength are only used to validate that shape. Samples that were
// in-bag for every tree are skipped, matching Train's own OOB estimate.
func (f *BaggingEnsemble) OOBError(XTrain []float64, rowLength int, yTrain []float64) (float64, error) {
	if f.oob == nil {
		return 0, fmt.Errorf("forest: ensemble has not been trained")
	}
	if len(XTrain) != len(yTrain)*rowLength {
		return 0, fmt.Errorf("forest: len(XTrain)=%d inconsistent with len(yTrain)*rowLength=%d", len(XTrain), len(yTrain)*rowLength)
	}
	mse, _ := f.oob.compute(yTrain)
	return mse, nil
}

func extractSubset(X []float64, rowLength int, y []float64, idx []int) ([]float64, []float64) {
	subX := make([]float64, len(idx)*rowLength)
	subY := make([]float64, len(idx))
	for i, id := range idx {
		copy(subX[i*rowLength:(i+1)*rowLength], X[id*rowLength:(id+1)*rowLength])
		subY[i] = y[id]
	}
	return subX, subY
}
