// Package stats isolates the significance-testing routines behind a small
// interface, so the analysis layer's contracts don't depend on the numeric
// backend.
package stats

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrInconclusive marks degenerate statistical input: too few groups, too
// few observations, or zero variance everywhere. Callers report the result
// as inconclusive instead of failing.
var ErrInconclusive = errors.New("insufficient or degenerate data for significance test")

type TTestResult struct {
	TStat  float64
	PValue float64
	DF     float64
	MeanA  float64
	MeanB  float64
	Welch  bool
}

type ANOVAResult struct {
	FStat     float64
	PValue    float64
	DFBetween int
	DFWithin  int
}

type Backend interface {
	// TwoSampleTTest tests whether two samples have equal means. Equal
	// variances are assumed by default; Welch's correction is applied when
	// the sample variances differ materially.
	TwoSampleTTest(a, b []float64) (TTestResult, error)

	// OneWayANOVA tests whether the group means differ. Groups with fewer
	// than two observations are ignored; fewer than two usable groups is
	// inconclusive.
	OneWayANOVA(groups ...[]float64) (ANOVAResult, error)
}

// Gonum computes the tests directly, with p-values from gonum's Student's t
// and F distributions.
type Gonum struct{}

var _ Backend = Gonum{}

// welchVarianceRatio is the variance ratio past which the equal-variance
// assumption is considered violated.
const welchVarianceRatio = 2.0

func (Gonum) TwoSampleTTest(a, b []float64) (TTestResult, error) {
	na, nb := float64(len(a)), float64(len(b))
	if len(a) < 2 || len(b) < 2 {
		return TTestResult{}, ErrInconclusive
	}

	meanA, varA := stat.MeanVariance(a, nil)
	meanB, varB := stat.MeanVariance(b, nil)
	if varA == 0 && varB == 0 {
		return TTestResult{}, ErrInconclusive
	}

	result := TTestResult{MeanA: meanA, MeanB: meanB}

	lo, hi := varA, varB
	if lo > hi {
		lo, hi = hi, lo
	}
	result.Welch = lo == 0 || hi/lo > welchVarianceRatio

	var se float64
	if result.Welch {
		// Welch-Satterthwaite degrees of freedom.
		sa, sb := varA/na, varB/nb
		se = math.Sqrt(sa + sb)
		result.DF = (sa + sb) * (sa + sb) /
			(sa*sa/(na-1) + sb*sb/(nb-1))
	} else {
		pooled := ((na-1)*varA + (nb-1)*varB) / (na + nb - 2)
		se = math.Sqrt(pooled * (1/na + 1/nb))
		result.DF = na + nb - 2
	}

	if se == 0 {
		return TTestResult{}, ErrInconclusive
	}

	result.TStat = (meanA - meanB) / se
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: result.DF}
	result.PValue = 2 * dist.CDF(-math.Abs(result.TStat))
	return result, nil
}

func (Gonum) OneWayANOVA(groups ...[]float64) (ANOVAResult, error) {
	var usable [][]float64
	for _, g := range groups {
		if len(g) >= 2 {
			usable = append(usable, g)
		}
	}
	if len(usable) < 2 {
		return ANOVAResult{}, ErrInconclusive
	}

	var total float64
	var n int
	for _, g := range usable {
		for _, v := range g {
			total += v
		}
		n += len(g)
	}
	grand := total / float64(n)

	var ssBetween, ssWithin float64
	for _, g := range usable {
		mean := stat.Mean(g, nil)
		ssBetween += float64(len(g)) * (mean - grand) * (mean - grand)
		for _, v := range g {
			ssWithin += (v - mean) * (v - mean)
		}
	}

	dfBetween := len(usable) - 1
	dfWithin := n - len(usable)
	if ssWithin == 0 || dfWithin <= 0 {
		return ANOVAResult{}, ErrInconclusive
	}

	result := ANOVAResult{
		DFBetween: dfBetween,
		DFWithin:  dfWithin,
	}
	result.FStat = (ssBetween / float64(dfBetween)) / (ssWithin / float64(dfWithin))

	dist := distuv.F{D1: float64(dfBetween), D2: float64(dfWithin)}
	result.PValue = 1 - dist.CDF(result.FStat)
	return result, nil
}
