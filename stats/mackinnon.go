package stats

import "gonum.org/v1/gonum/stat/distuv"

// MacKinnon (1994) approximate asymptotic p-value surface for the ADF tau
// statistic with a constant-only regression and a single variable. The
// p-value is Phi(poly(tau)) with separate polynomials for the small-p and
// large-p regions, clamped outside the tabulated range.
var (
	tauStarC = -1.61
	tauMinC  = -18.83
	tauMaxC  = 2.74

	tauSmallPC = [3]float64{2.1659, 1.4412, 3.8269e-2}
	tauLargePC = [4]float64{1.7339, 9.3202e-1, -1.2745e-1, -1.0368e-2}
)

func mackinnonP(tau float64) float64 {
	switch {
	case tau > tauMaxC:
		return 1.0
	case tau < tauMinC:
		return 0.0
	}

	var z float64
	if tau <= tauStarC {
		z = tauSmallPC[0] + tau*(tauSmallPC[1]+tau*tauSmallPC[2])
	} else {
		z = tauLargePC[0] + tau*(tauLargePC[1]+tau*(tauLargePC[2]+tau*tauLargePC[3]))
	}
	return distuv.UnitNormal.CDF(z)
}
