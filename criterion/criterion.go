// Package criterion implements the SplitCriterion family: pure functions
// from a label vector and an index subset to a node-impurity metric, where
// lower is purer. Criteria are small, side-effect-free strategy objects so
// that any criterion can be paired with any finder.SplitFinder.
package criterion

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// Criterion computes the impurity of a node from the labels that reached it.
type Criterion interface {
	// NodeMetric returns the impurity of y[idx[i]] for all i. Defined for
	// non-empty idx; returns 0 for an empty subset.
	NodeMetric(y []float64, idx []int) float64
}

// New builds a Criterion from a config string: "mse", "mae", "huber",
// "quantile:tau", "logcosh", or "poisson". Unrecognised names are a
// configuration error, surfaced to the caller at construction time.
func New(name string) (Criterion, error) {
	head, arg, hasArg := strings.Cut(name, ":")
	switch strings.ToLower(head) {
	case "mse":
		return MSE{}, nil
	case "mae":
		return MAE{}, nil
	case "huber":
		return Huber{Delta: 1.0}, nil
	case "logcosh":
		return LogCosh{}, nil
	case "poisson":
		return Poisson{}, nil
	case "quantile":
		tau := 0.5
		if hasArg {
			v, err := strconv.ParseFloat(arg, 64)
			if err != nil {
				return nil, fmt.Errorf("criterion: invalid quantile tau %q: %w", arg, err)
			}
			tau = v
		}
		if tau <= 0 || tau >= 1 {
			return nil, fmt.Errorf("criterion: quantile tau must be in (0, 1), got %v", tau)
		}
		return Quantile{Tau: tau}, nil
	default:
		return nil, fmt.Errorf("criterion: unknown criterion %q", name)
	}
}

// mean returns the arithmetic mean of y[idx[i]].
func mean(y []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	var s float64
	for _, i := range idx {
		s += y[i]
	}
	return s / float64(len(idx))
}

// sortedValues returns a sorted copy of y[idx[i]], for the order-statistic
// based criteria (MAE's median, Quantile's pinball loss).
func sortedValues(y []float64, idx []int) []float64 {
	v := make([]float64, len(idx))
	for i, j := range idx {
		v[i] = y[j]
	}
	sort.Float64s(v)
	return v
}

// MSE is the squared-error criterion: Var(y) = E[y^2] - E[y]^2, clamped at 0
// to absorb floating-point drift from the subtraction of two large sums.
type MSE struct{}

func (MSE) NodeMetric(y []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	var s, ss float64
	for _, i := range idx {
		v := y[i]
		s += v
		ss += v * v
	}
	n := float64(len(idx))
	m := ss/n - (s/n)*(s/n)
	if m < 0 {
		m = 0
	}
	return m
}

// MAE is the absolute-error criterion: mean absolute deviation from the
// median. The median of an even-length subset is the average of the two
// middle sorted values.
type MAE struct{}

func (MAE) NodeMetric(y []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	v := sortedValues(y, idx)
	med := medianOfSorted(v)
	var s float64
	for _, x := range v {
		s += math.Abs(x - med)
	}
	return s / float64(len(v))
}

func medianOfSorted(v []float64) float64 {
	n := len(v)
	if n%2 == 1 {
		return v[n/2]
	}
	return (v[n/2-1] + v[n/2]) / 2.0
}

// Huber is the Huber-loss criterion: quadratic for residuals within Delta of
// the mean, linear beyond it, so a handful of outlying labels contribute
// less than they would under MSE.
type Huber struct {
	Delta float64
}

func (h Huber) NodeMetric(y []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	delta := h.Delta
	if delta <= 0 {
		delta = 1.0
	}
	mu := mean(y, idx)
	var s float64
	for _, i := range idx {
		r := y[i] - mu
		ar := math.Abs(r)
		if ar <= delta {
			s += 0.5 * r * r
		} else {
			s += delta * (ar - 0.5*delta)
		}
	}
	return s / float64(len(idx))
}

// LogCosh averages log(cosh(y - mean(y))), a smooth approximation to MAE
// that stays twice differentiable everywhere.
type LogCosh struct{}

func (LogCosh) NodeMetric(y []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	mu := mean(y, idx)
	var s float64
	for _, i := range idx {
		s += logCosh(y[i] - mu)
	}
	return s / float64(len(idx))
}

// logCosh computes log(cosh(x)) without overflowing for large |x|, using
// the identity log(cosh(x)) = |x| + log((1 + e^-2|x|)/2).
func logCosh(x float64) float64 {
	ax := math.Abs(x)
	return ax + math.Log1p(math.Exp(-2*ax)) - math.Ln2
}

// Poisson is the deviance-style Poisson criterion, floored at 1e-12 so that
// near-zero means or labels never feed log(0) into the loss.
type Poisson struct{}

const poissonFloor = 1e-12

func (Poisson) NodeMetric(y []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	mu := mean(y, idx)
	if mu < poissonFloor {
		mu = poissonFloor
	}
	logMu := math.Log(mu)
	var s float64
	for _, i := range idx {
		v := y[i]
		if v < poissonFloor {
			v = poissonFloor
		}
		s += mu - v*logMu
	}
	return s / float64(len(idx))
}

// Quantile is the pinball-loss criterion at quantile Tau, used to grow
// trees that target a quantile of y rather than its mean.
type Quantile struct {
	Tau float64
}

func (q Quantile) NodeMetric(y []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	v := sortedValues(y, idx)
	qv := stat.Quantile(q.Tau, stat.Empirical, v, nil)
	var s float64
	for _, x := range v {
		d := x - qv
		if d < 0 {
			s += d * (q.Tau - 1)
		} else {
			s += d * q.Tau
		}
	}
	return s / float64(len(v))
}
