package stats

import (
	"gonum.org/v1/gonum/stat"

	"pairscreen/models"
)

// Z-score thresholds consumed by the external plotting collaborator when it
// draws entry/exit bands. They do not influence any numeric result here.
const (
	ZScoreEntry   = 1.0
	ZScoreExtreme = 2.0
)

// SpreadAndZScore derives the spread series and its Z-score from the
// residuals of the cointegrating regression. The Z-score uses the whole
// series' mean and sample standard deviation, a single global normalization
// per analysis run, not a rolling window. A constant spread (zero standard
// deviation) is a degenerate input.
func SpreadAndZScore(residuals models.PriceSeries) (spread, zscore models.PriceSeries, err error) {
	if len(residuals) < 2 {
		return nil, nil, &models.InsufficientDataError{Need: 2, Got: len(residuals)}
	}

	values := residuals.Prices()
	if zeroVariance(values) {
		return nil, nil, &models.DegenerateInputError{What: "spread"}
	}

	mean := stat.Mean(values, nil)
	sd := stat.StdDev(values, nil)

	z := make([]float64, len(values))
	for i, v := range values {
		z[i] = (v - mean) / sd
	}
	return residuals.WithPrices(values), residuals.WithPrices(z), nil
}
