package models

import (
	"errors"
	"testing"
	"time"
)

func series(start time.Time, step time.Duration, prices ...float64) PriceSeries {
	s := make(PriceSeries, 0, len(prices))
	for i, p := range prices {
		s = append(s, PricePoint{Timestamp: start.Add(time.Duration(i) * step), Price: p})
	}
	return s
}

func TestAlignIntersection(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a := series(base, 24*time.Hour, 1, 2, 3, 4, 5)
	// b skips day 2 and extends one day past a
	b := PriceSeries{
		{Timestamp: base, Price: 10},
		{Timestamp: base.Add(48 * time.Hour), Price: 30},
		{Timestamp: base.Add(72 * time.Hour), Price: 40},
		{Timestamp: base.Add(96 * time.Hour), Price: 50},
		{Timestamp: base.Add(120 * time.Hour), Price: 60},
	}

	pair := Align(a, b)
	if pair.Len() != 4 {
		t.Fatalf("aligned length = %d, want 4", pair.Len())
	}
	if !pair.A.SameTimestamps(pair.B) {
		t.Fatal("aligned series have different timestamps")
	}
	for i := 1; i < pair.Len(); i++ {
		if !pair.A[i].Timestamp.After(pair.A[i-1].Timestamp) {
			t.Fatalf("timestamps not strictly increasing at %d", i)
		}
	}
	if pair.A[1].Price != 3 || pair.B[1].Price != 30 {
		t.Fatalf("unexpected joined values: %v / %v", pair.A[1], pair.B[1])
	}
}

func TestAlignEmptyIntersection(t *testing.T) {
	a := series(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 24*time.Hour, 1, 2, 3)
	b := series(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 24*time.Hour, 1, 2, 3)
	pair := Align(a, b)
	if pair.Len() != 0 {
		t.Fatalf("expected empty intersection, got %d", pair.Len())
	}
}

func TestWithPrices(t *testing.T) {
	a := series(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Hour, 1, 2, 3)
	d := a.WithPrices([]float64{9, 8, 7})
	if !d.SameTimestamps(a) {
		t.Fatal("derived series lost timestamps")
	}
	if a[0].Price != 1 || d[0].Price != 9 {
		t.Fatal("derivation mutated the source series")
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on length mismatch")
		}
	}()
	a.WithPrices([]float64{1})
}

func TestErrorKinds(t *testing.T) {
	var (
		noData       *NoDataError
		insufficient *InsufficientDataError
		unaligned    *UnalignedInputError
		degenerate   *DegenerateInputError
	)
	if !errors.As(error(&NoDataError{Symbol: "AAPL"}), &noData) {
		t.Fatal("NoDataError does not match errors.As")
	}
	if !errors.As(error(&InsufficientDataError{Need: 20, Got: 5}), &insufficient) {
		t.Fatal("InsufficientDataError does not match errors.As")
	}
	if !errors.As(error(&UnalignedInputError{LenA: 3, LenB: 4}), &unaligned) {
		t.Fatal("UnalignedInputError does not match errors.As")
	}
	if !errors.As(error(&DegenerateInputError{What: "spread"}), &degenerate) {
		t.Fatal("DegenerateInputError does not match errors.As")
	}
}
