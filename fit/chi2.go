package fit

import (
	"fmt"

	"gonum.org/v1/gonum/stat/distuv"
)

// DegreesOfFreedom returns the fit's degrees of freedom: the number of
// equality constraints minus the three unmeasured neutrino parameters.
//
// This is deliberately not the naive parameters-minus-constraints
// count. All fourteen parameters are adjusted, but only the eleven
// measured ones contribute chi-square terms; the free neutrino
// components each absorb one constraint without adding information, so
// the chi-square statistic follows a distribution with
// #equalities − 3 degrees of freedom (4 under PinBothMasses, 2 under
// PositiveXMass). Inequalities do not constrain the count.
func (c *CostFunction) DegreesOfFreedom() int {
	n := 0
	for _, con := range c.Constraints() {
		if con.Kind == Equality {
			n++
		}
	}

	return n - 3
}

// ChiSquareProbability returns the survival function of the chi-square
// distribution with ndf degrees of freedom at each supplied chi-square
// value: the p-value of observing a worse fit by chance. The output is
// monotonically non-increasing in the chi-square value.
//
// Returns ErrBadDegreesOfFreedom if ndf < 1.
func ChiSquareProbability(chi2 []float64, ndf int) ([]float64, error) {
	if ndf < 1 {
		return nil, fmt.Errorf("ndf %d: %w", ndf, ErrBadDegreesOfFreedom)
	}

	dist := distuv.ChiSquared{K: float64(ndf)}
	out := make([]float64, len(chi2))
	for i, v := range chi2 {
		out[i] = dist.Survival(v)
	}

	return out, nil
}
