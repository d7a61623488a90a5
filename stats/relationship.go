package stats

import (
	"gonum.org/v1/gonum/stat"

	"pairscreen/models"
)

// RelationshipFit is the OLS hedge-ratio relationship between two aligned
// series: A = Intercept + HedgeRatio*B + residual. Residuals carry A's
// timestamps in order.
type RelationshipFit struct {
	HedgeRatio float64
	Intercept  float64
	Residuals  models.PriceSeries
}

func checkAligned(a, b models.PriceSeries) error {
	if len(a) != len(b) {
		return &models.UnalignedInputError{LenA: len(a), LenB: len(b)}
	}
	if !a.SameTimestamps(b) {
		return &models.UnalignedInputError{LenA: len(a), LenB: len(b)}
	}
	return nil
}

// Correlation computes the Pearson correlation coefficient of two aligned
// series. Inputs must be pre-aligned by the caller; either series having
// zero variance is a degenerate input.
func Correlation(a, b models.PriceSeries) (float64, error) {
	if err := checkAligned(a, b); err != nil {
		return 0, err
	}
	if len(a) < 2 {
		return 0, &models.InsufficientDataError{Need: 2, Got: len(a)}
	}

	x := a.Prices()
	y := b.Prices()
	if zeroVariance(x) {
		return 0, &models.DegenerateInputError{What: "first series"}
	}
	if zeroVariance(y) {
		return 0, &models.DegenerateInputError{What: "second series"}
	}
	return stat.Correlation(x, y, nil), nil
}

// EstimateRelationship fits the cointegrating regression with an intercept.
// The first series of a pair is always the dependent variable; reversing
// the direction rescales the hedge ratio, so the convention is fixed here
// and applied identically to every pair.
func EstimateRelationship(a, b models.PriceSeries) (RelationshipFit, error) {
	if err := checkAligned(a, b); err != nil {
		return RelationshipFit{}, err
	}
	if len(a) < 3 {
		return RelationshipFit{}, &models.InsufficientDataError{Need: 3, Got: len(a)}
	}

	x := b.Prices()
	y := a.Prices()
	if zeroVariance(x) {
		return RelationshipFit{}, &models.DegenerateInputError{What: "independent series"}
	}

	intercept, slope := stat.LinearRegression(x, y, nil, false)

	residuals := make([]float64, len(y))
	for i := range y {
		residuals[i] = y[i] - (intercept + slope*x[i])
	}
	return RelationshipFit{
		HedgeRatio: slope,
		Intercept:  intercept,
		Residuals:  a.WithPrices(residuals),
	}, nil
}
