package stats

import (
	"pairscreen/models"
)

// CointegrationResult is the outcome of the Engle-Granger two-step test.
type CointegrationResult struct {
	Correlation    float64 `json:"correlation"`
	PValue         float64 `json:"p_value"`
	IsCointegrated bool    `json:"is_cointegrated"`
	HedgeRatio     float64 `json:"hedge_ratio"`
}

// TestCointegration runs the Engle-Granger two-step procedure on an aligned
// pair: fit the cointegrating regression, then ADF-test the residual spread.
// IsCointegrated holds exactly when the residual ADF p-value is at or below
// alpha.
//
// The reported PValue is that residual ADF p-value, not a value corrected
// against Engle-Granger critical-value tables. This is a documented
// simplification: the verdict is slightly permissive relative to the
// tabulated test, and downstream consumers should read it as such.
//
// Errors from the underlying steps (unaligned input, short series, zero
// variance) propagate unchanged; a near-constant spread is reported as
// DegenerateInputError rather than as a stationarity verdict.
func TestCointegration(a, b models.PriceSeries, alpha float64) (CointegrationResult, error) {
	var result CointegrationResult

	corr, err := Correlation(a, b)
	if err != nil {
		return result, err
	}

	fit, err := EstimateRelationship(a, b)
	if err != nil {
		return result, err
	}

	spread := fit.Residuals.Prices()
	if zeroVariance(spread) {
		return result, &models.DegenerateInputError{What: "spread"}
	}

	adf, err := TestStationarity(spread, alpha)
	if err != nil {
		return result, err
	}

	result = CointegrationResult{
		Correlation:    corr,
		PValue:         adf.PValue,
		IsCointegrated: adf.IsStationary,
		HedgeRatio:     fit.HedgeRatio,
	}
	return result, nil
}
