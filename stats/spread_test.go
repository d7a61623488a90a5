package stats

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/stat"

	"pairscreen/models"
)

func TestSpreadAndZScoreMoments(t *testing.T) {
	residuals := dailySeries(noise(9, 200, 2.5))

	spread, zscore, err := SpreadAndZScore(residuals)
	if err != nil {
		t.Fatalf("SpreadAndZScore: %v", err)
	}
	if len(spread) != len(residuals) || len(zscore) != len(residuals) {
		t.Fatalf("derived series length mismatch: %d/%d vs %d", len(spread), len(zscore), len(residuals))
	}
	if !zscore.SameTimestamps(residuals) {
		t.Fatal("zscore lost residual timestamps")
	}

	z := zscore.Prices()
	if mean := stat.Mean(z, nil); math.Abs(mean) > 1e-10 {
		t.Fatalf("zscore mean = %g, want 0", mean)
	}
	if sd := stat.StdDev(z, nil); math.Abs(sd-1) > 1e-10 {
		t.Fatalf("zscore stddev = %g, want 1", sd)
	}
}

func TestSpreadAndZScoreConstant(t *testing.T) {
	residuals := dailySeries([]float64{4, 4, 4, 4, 4, 4})
	var degenerate *models.DegenerateInputError
	if _, _, err := SpreadAndZScore(residuals); !errors.As(err, &degenerate) {
		t.Fatalf("expected DegenerateInputError, got %v", err)
	}
}

func TestSpreadAndZScoreTooShort(t *testing.T) {
	var insufficient *models.InsufficientDataError
	if _, _, err := SpreadAndZScore(dailySeries([]float64{1})); !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientDataError, got %v", err)
	}
}

func TestZScoreThresholdConstants(t *testing.T) {
	if ZScoreEntry != 1 || ZScoreExtreme != 2 {
		t.Fatalf("plot thresholds changed: %f / %f", ZScoreEntry, ZScoreExtreme)
	}
}
