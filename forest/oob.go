package forest

import (
	"math/rand"

	"github.com/wlattner/regtree/tree"
)

// bootstrapInx draws sampleSize indices with replacement from [0, n) using
// rng, and reports which of the n original rows ended up in-bag.
func bootstrapInx(rng *rand.Rand, n, sampleSize int) ([]int, []bool) {
	inBag := make([]bool, n)
	idx := make([]int, sampleSize)
	for i := range idx {
		id := rng.Intn(n)
		idx[i] = id
		inBag[id] = true
	}
	return idx, inBag
}

// oobCtr accumulates each row's out-of-bag predictions across trees.
type oobCtr struct {
	sum []float64
	ct  []int
}

func newOOBCtr(n int) *oobCtr {
	return &oobCtr{sum: make([]float64, n), ct: make([]int, n)}
}

func (o *oobCtr) update(X []float64, rowLength int, inBag []bool, t *tree.SingleTreeTrainer) {
	for i, in := range inBag {
		if in {
			continue
		}
		row := X[i*rowLength : (i+1)*rowLength]
		o.sum[i] += t.Predict(row)
		o.ct[i]++
	}
}

// compute returns MSE and R^2 over the rows that were out-of-bag for at
// least one tree.
func (o *oobCtr) compute(y []float64) (mse, rSquared float64) {
	var rss float64
	var n int
	var mean, tss float64

	for i := range y {
		if o.ct[i] < 1 {
			continue
		}
		pred := o.sum[i] / float64(o.ct[i])
		d := y[i] - pred
		rss += d * d

		n++
		delta := y[i] - mean
		mean += delta / float64(n)
		tss += delta * (y[i] - mean)
	}

	if n < 1 {
		return 0, 0
	}
	mse = rss / float64(n)
	if tss == 0 {
		rSquared = 0
	} else {
		rSquared = 1.0 - rss/tss
	}
	return mse, rSquared
}
