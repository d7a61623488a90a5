// Package stats implements the statistical test sequence of the screener:
// Augmented Dickey-Fuller stationarity testing, Pearson correlation, the
// OLS hedge-ratio fit, the Engle-Granger two-step cointegration test and
// the spread/Z-score derivation.
//
// Cointegration p-values are reported as the ADF p-value of the residual
// series, not a tabulated Engle-Granger critical value. This is a known,
// deliberate simplification; see TestCointegration.
package stats

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"pairscreen/models"
)

// StationarityResult is the outcome of an ADF test at a fixed significance
// threshold. IsStationary holds exactly when PValue <= alpha.
type StationarityResult struct {
	Statistic    float64 `json:"statistic"`
	PValue       float64 `json:"p_value"`
	Lag          int     `json:"lag"`
	Observations int     `json:"observations"`
	IsStationary bool    `json:"is_stationary"`
}

// TestStationarity runs the Augmented Dickey-Fuller test on a series with a
// constant-only regression. The lag order is selected automatically by AIC
// over 0..maxlag where maxlag = ceil(12*(nobs/100)^(1/4)), capped so the
// regression keeps positive degrees of freedom. The length requirement is
// checked up front and reported as InsufficientDataError rather than being
// caught as a regression failure.
func TestStationarity(values []float64, alpha float64) (StationarityResult, error) {
	var result StationarityResult

	n := len(values)
	if n < 5 {
		return result, &models.InsufficientDataError{Need: 5, Got: n}
	}
	if zeroVariance(values) {
		return result, &models.DegenerateInputError{What: "series"}
	}

	diffs := make([]float64, n-1)
	for i := 1; i < n; i++ {
		diffs[i-1] = values[i] - values[i-1]
	}
	m := len(diffs)

	maxLag := int(math.Ceil(12 * math.Pow(float64(m)/100, 0.25)))
	if limit := m/2 - 2; limit < maxLag {
		maxLag = limit
	}
	if maxLag < 0 {
		return result, &models.InsufficientDataError{Need: 5, Got: n}
	}

	// Lag selection runs every candidate on the same sample so AIC values
	// are comparable.
	bestLag, err := selectLagAIC(values, diffs, maxLag)
	if err != nil {
		return result, err
	}

	tau, nobs, err := adfStatistic(values, diffs, bestLag)
	if err != nil {
		return result, err
	}

	p := mackinnonP(tau)
	result = StationarityResult{
		Statistic:    tau,
		PValue:       p,
		Lag:          bestLag,
		Observations: nobs,
		IsStationary: p <= alpha,
	}
	return result, nil
}

// adfDesign builds the ADF regression for lag k starting at diff offset s:
// dep[t] = diffs[t], regressors = level values[t], diffs[t-1..t-k], const.
func adfDesign(values, diffs []float64, k, s int) (*mat.Dense, *mat.VecDense) {
	m := len(diffs)
	rows := m - s
	cols := k + 2

	x := mat.NewDense(rows, cols, nil)
	y := mat.NewVecDense(rows, nil)
	for r := 0; r < rows; r++ {
		t := s + r
		y.SetVec(r, diffs[t])
		x.Set(r, 0, values[t])
		for j := 1; j <= k; j++ {
			x.Set(r, j, diffs[t-j])
		}
		x.Set(r, cols-1, 1)
	}
	return x, y
}

func selectLagAIC(values, diffs []float64, maxLag int) (int, error) {
	bestLag := 0
	bestAIC := math.Inf(1)
	for k := 0; k <= maxLag; k++ {
		x, y := adfDesign(values, diffs, k, maxLag)
		fit, err := olsSolve(x, y)
		if err != nil {
			return 0, err
		}
		rows := float64(y.Len())
		llf := -rows / 2 * (math.Log(2*math.Pi) + math.Log(fit.ssr/rows) + 1)
		aic := 2*float64(k+2) - 2*llf
		if aic < bestAIC {
			bestAIC = aic
			bestLag = k
		}
	}
	return bestLag, nil
}

// adfStatistic refits the regression at the chosen lag over the full usable
// sample and returns the t statistic of the lagged level coefficient.
func adfStatistic(values, diffs []float64, k int) (float64, int, error) {
	x, y := adfDesign(values, diffs, k, k)
	fit, err := olsSolve(x, y)
	if err != nil {
		return 0, 0, err
	}

	rows, cols := x.Dims()
	df := rows - cols
	if df <= 0 {
		return 0, 0, &models.InsufficientDataError{Need: cols + 1, Got: rows}
	}
	sigma2 := fit.ssr / float64(df)
	se := math.Sqrt(sigma2 * fit.xtxInv.At(0, 0))
	if se == 0 || math.IsNaN(se) {
		return 0, 0, &models.DegenerateInputError{What: "series"}
	}
	return fit.beta.AtVec(0) / se, rows, nil
}

type olsResult struct {
	beta   *mat.VecDense
	ssr    float64
	xtxInv *mat.Dense
}

// olsSolve fits y = X b by least squares via the normal equations. Singular
// designs (constant or collinear series) are reported as degenerate input.
func olsSolve(x *mat.Dense, y *mat.VecDense) (olsResult, error) {
	rows, cols := x.Dims()

	var xtx mat.Dense
	xtx.Mul(x.T(), x)

	var inv mat.Dense
	if err := inv.Inverse(&xtx); err != nil {
		return olsResult{}, &models.DegenerateInputError{What: "series"}
	}

	var xty mat.VecDense
	xty.MulVec(x.T(), y)

	beta := mat.NewVecDense(cols, nil)
	beta.MulVec(&inv, &xty)

	ssr := 0.0
	for r := 0; r < rows; r++ {
		pred := 0.0
		for c := 0; c < cols; c++ {
			pred += x.At(r, c) * beta.AtVec(c)
		}
		resid := y.AtVec(r) - pred
		ssr += resid * resid
	}
	return olsResult{beta: beta, ssr: ssr, xtxInv: &inv}, nil
}

// zeroVariance reports whether a sample's spread is numerically
// indistinguishable from zero at the sample's own scale.
func zeroVariance(xs []float64) bool {
	if len(xs) < 2 {
		return true
	}
	sd := stat.StdDev(xs, nil)
	if math.IsNaN(sd) {
		return true
	}
	scale := 1.0
	for _, v := range xs {
		if a := math.Abs(v); a > scale {
			scale = a
		}
	}
	return sd <= 1e-12*scale
}
