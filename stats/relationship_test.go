package stats

import (
	"errors"
	"math"
	"testing"
	"time"

	"pairscreen/models"
)

func dailySeries(values []float64) models.PriceSeries {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := make(models.PriceSeries, len(values))
	for i, v := range values {
		s[i] = models.PricePoint{Timestamp: base.AddDate(0, 0, i), Price: v}
	}
	return s
}

func TestCorrelationSymmetryAndRange(t *testing.T) {
	a := dailySeries(randomWalk(3, 250))
	b := dailySeries(randomWalk(4, 250))

	ab, err := Correlation(a, b)
	if err != nil {
		t.Fatalf("Correlation(a,b): %v", err)
	}
	ba, err := Correlation(b, a)
	if err != nil {
		t.Fatalf("Correlation(b,a): %v", err)
	}
	if math.Abs(ab-ba) > 1e-12 {
		t.Fatalf("correlation not symmetric: %f vs %f", ab, ba)
	}
	if ab < -1 || ab > 1 {
		t.Fatalf("correlation out of range: %f", ab)
	}
}

func TestCorrelationZeroVariance(t *testing.T) {
	flat := dailySeries([]float64{2, 2, 2, 2, 2})
	moving := dailySeries([]float64{1, 2, 3, 4, 5})

	var degenerate *models.DegenerateInputError
	if _, err := Correlation(flat, moving); !errors.As(err, &degenerate) {
		t.Fatalf("expected DegenerateInputError for flat first series, got %v", err)
	}
	if _, err := Correlation(moving, flat); !errors.As(err, &degenerate) {
		t.Fatalf("expected DegenerateInputError for flat second series, got %v", err)
	}
}

func TestUnalignedInputs(t *testing.T) {
	a := dailySeries([]float64{1, 2, 3, 4})
	short := dailySeries([]float64{1, 2, 3})

	shifted := make(models.PriceSeries, len(a))
	copy(shifted, a)
	shifted[2].Timestamp = shifted[2].Timestamp.Add(time.Hour)

	var unaligned *models.UnalignedInputError
	if _, err := Correlation(a, short); !errors.As(err, &unaligned) {
		t.Fatalf("expected UnalignedInputError for length mismatch, got %v", err)
	}
	if _, err := EstimateRelationship(a, shifted); !errors.As(err, &unaligned) {
		t.Fatalf("expected UnalignedInputError for timestamp mismatch, got %v", err)
	}
}

func TestEstimateRelationshipExactLine(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = 2*v + 1
	}
	a := dailySeries(y)
	b := dailySeries(x)

	fit, err := EstimateRelationship(a, b)
	if err != nil {
		t.Fatalf("EstimateRelationship: %v", err)
	}
	if math.Abs(fit.HedgeRatio-2) > 1e-9 {
		t.Fatalf("hedge ratio = %f, want 2", fit.HedgeRatio)
	}
	if math.Abs(fit.Intercept-1) > 1e-9 {
		t.Fatalf("intercept = %f, want 1", fit.Intercept)
	}
	for i, p := range fit.Residuals {
		if math.Abs(p.Price) > 1e-9 {
			t.Fatalf("residual %d = %g, want ~0", i, p.Price)
		}
	}
	if !fit.Residuals.SameTimestamps(a) {
		t.Fatal("residuals lost the dependent series' timestamps")
	}
}
