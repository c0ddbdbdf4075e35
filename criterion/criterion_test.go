package criterion

import (
	"math"
	"testing"
)

func idxRange(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

func TestMSEConstantIsZero(t *testing.T) {
	y := []float64{3, 3, 3, 3}
	if m := (MSE{}).NodeMetric(y, idxRange(4)); m != 0 {
		t.Error("expected 0 variance for constant labels, got", m)
	}
}

func TestMSEMatchesVariance(t *testing.T) {
	y := []float64{1, 2, 3, 4}
	m := (MSE{}).NodeMetric(y, idxRange(4))
	want := 1.25 // population variance of 1..4
	if math.Abs(m-want) > 1e-9 {
		t.Error("expected", want, "got", m)
	}
}

func TestMAEUsesMedian(t *testing.T) {
	y := []float64{1, 2, 3, 100}
	m := (MAE{}).NodeMetric(y, idxRange(4))
	// median = (2+3)/2 = 2.5; |1-2.5|+|2-2.5|+|3-2.5|+|100-2.5| = 1.5+.5+.5+97.5=100, /4=25
	want := 25.0
	if math.Abs(m-want) > 1e-9 {
		t.Error("expected", want, "got", m)
	}
}

func TestHuberFallsBackToSquaredErrorWithinDelta(t *testing.T) {
	y := []float64{0, 0.1, -0.1, 0}
	h := Huber{Delta: 10}
	m := h.NodeMetric(y, idxRange(4))
	if m <= 0 {
		t.Error("expected positive huber loss for non-constant labels")
	}
	// every residual is within Delta, so the loss is half the squared error
	if want := 0.5 * (MSE{}).NodeMetric(y, idxRange(4)); math.Abs(m-want) > 1e-12 {
		t.Error("expected", want, "got", m)
	}
}

func TestPoissonFloorsNearZero(t *testing.T) {
	y := []float64{0, 0, 0, 0}
	m := (Poisson{}).NodeMetric(y, idxRange(4))
	if math.IsNaN(m) || math.IsInf(m, 0) {
		t.Error("expected a finite value for all-zero labels, got", m)
	}
}

func TestQuantileMedianMatchesMAEShape(t *testing.T) {
	y := []float64{1, 2, 3, 4, 5}
	q := Quantile{Tau: 0.5}
	m := q.NodeMetric(y, idxRange(5))
	if m < 0 {
		t.Error("pinball loss should never be negative, got", m)
	}
	// at tau=0.5 the pinball loss is half the mean absolute deviation from
	// the median: 0.5 * (2+1+0+1+2)/5 = 0.6
	if want := 0.5 * (MAE{}).NodeMetric(y, idxRange(5)); math.Abs(m-want) > 1e-9 {
		t.Error("expected", want, "got", m)
	}
}

func TestNewParsesQuantileTau(t *testing.T) {
	c, err := New("quantile:0.9")
	if err != nil {
		t.Fatal(err)
	}
	q, ok := c.(Quantile)
	if !ok {
		t.Fatalf("expected Quantile, got %T", c)
	}
	if q.Tau != 0.9 {
		t.Error("expected tau=0.9, got", q.Tau)
	}
}

func TestNewRejectsOutOfRangeTau(t *testing.T) {
	if _, err := New("quantile:1.5"); err == nil {
		t.Error("expected an error for tau outside (0,1)")
	}
}

func TestNewRejectsUnknownCriterion(t *testing.T) {
	if _, err := New("bogus"); err == nil {
		t.Error("expected an error for an unknown criterion")
	}
}

func TestEmptySubsetIsZeroForAllCriteria(t *testing.T) {
	criteria := []Criterion{MSE{}, MAE{}, Huber{Delta: 1}, LogCosh{}, Poisson{}, Quantile{Tau: 0.5}}
	for _, c := range criteria {
		if m := c.NodeMetric(nil, nil); m != 0 {
			t.Errorf("%T: expected 0 for empty subset, got %v", c, m)
		}
	}
}
