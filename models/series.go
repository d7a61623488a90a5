package models

import (
	"time"
)

// PricePoint is a single observation in a price series.
type PricePoint struct {
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
}

// PriceSeries is an ordered sequence of price observations with strictly
// increasing timestamps and no duplicates. Series are never mutated after
// creation; derived steps build new series.
type PriceSeries []PricePoint

// Len returns the number of observations.
func (s PriceSeries) Len() int { return len(s) }

// Prices returns the price values in timestamp order.
func (s PriceSeries) Prices() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Price
	}
	return out
}

// Timestamps returns the observation timestamps in order.
func (s PriceSeries) Timestamps() []time.Time {
	out := make([]time.Time, len(s))
	for i, p := range s {
		out[i] = p.Timestamp
	}
	return out
}

// WithPrices builds a new series carrying this series' timestamps and the
// provided values. It panics if the lengths differ, since that is always a
// programming error in a derivation step.
func (s PriceSeries) WithPrices(values []float64) PriceSeries {
	if len(values) != len(s) {
		panic("models: WithPrices length mismatch")
	}
	out := make(PriceSeries, len(s))
	for i, p := range s {
		out[i] = PricePoint{Timestamp: p.Timestamp, Price: values[i]}
	}
	return out
}

// SameTimestamps reports whether two series are aligned observation by
// observation.
func (s PriceSeries) SameTimestamps(other PriceSeries) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if !s[i].Timestamp.Equal(other[i].Timestamp) {
			return false
		}
	}
	return true
}

// AlignedPair holds two price series reindexed to their common timestamp
// intersection. Both series have identical length and ordering. An empty
// intersection is a valid terminal state for an analysis.
type AlignedPair struct {
	A PriceSeries
	B PriceSeries
}

// Len returns the common length of the pair.
func (p AlignedPair) Len() int { return len(p.A) }

// Align inner-joins two series on timestamp, preserving ascending order.
func Align(a, b PriceSeries) AlignedPair {
	index := make(map[int64]float64, len(b))
	for _, p := range b {
		index[p.Timestamp.UnixNano()] = p.Price
	}

	outA := make(PriceSeries, 0, min(len(a), len(b)))
	outB := make(PriceSeries, 0, min(len(a), len(b)))
	for _, p := range a {
		price, ok := index[p.Timestamp.UnixNano()]
		if !ok {
			continue
		}
		outA = append(outA, p)
		outB = append(outB, PricePoint{Timestamp: p.Timestamp, Price: price})
	}
	return AlignedPair{A: outA, B: outB}
}
