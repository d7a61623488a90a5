// Package provider defines the contract with the external price-history
// collaborators. Implementations live in subpackages; the screener only
// depends on the PriceSeriesProvider interface.
package provider

import (
	"context"
	"fmt"
	"time"

	"pairscreen/models"
)

// Interval identifies the bar spacing of a requested price series.
type Interval string

const (
	Interval1m  Interval = "1m"
	Interval5m  Interval = "5m"
	Interval15m Interval = "15m"
	Interval30m Interval = "30m"
	Interval60m Interval = "60m"
	Interval90m Interval = "90m"
	Interval1d  Interval = "1d"
	Interval1wk Interval = "1wk"
	Interval1mo Interval = "1mo"
)

var validIntervals = map[Interval]bool{
	Interval1m:  true,
	Interval5m:  true,
	Interval15m: true,
	Interval30m: true,
	Interval60m: true,
	Interval90m: true,
	Interval1d:  true,
	Interval1wk: true,
	Interval1mo: true,
}

// ParseInterval validates an interval string. "1h" is accepted as an alias
// for "60m".
func ParseInterval(s string) (Interval, error) {
	if s == "1h" {
		return Interval60m, nil
	}
	iv := Interval(s)
	if !validIntervals[iv] {
		return "", fmt.Errorf("unsupported interval %q", s)
	}
	return iv, nil
}

func (i Interval) String() string { return string(i) }

// Intraday reports whether the interval is finer than one day. End dates are
// exclusive for intraday intervals and inclusive for daily and coarser ones;
// implementations widen the upper bound accordingly when their backing API
// is exclusive-end.
func (i Interval) Intraday() bool {
	switch i {
	case Interval1d, Interval1wk, Interval1mo:
		return false
	default:
		return true
	}
}

// MinuteDataWindow is the trailing window within which providers guarantee
// availability of 1m bars.
const MinuteDataWindow = 7 * 24 * time.Hour

// PriceSeriesProvider returns a historical price series for a resolved
// symbol, or fails with NoDataError when nothing is available. Returned
// series have strictly increasing timestamps. The fetch is the only I/O
// boundary of the pipeline; timeout, retry and rate limit come from
// configuration.
type PriceSeriesProvider interface {
	Name() string
	Fetch(ctx context.Context, symbol string, interval Interval, start, end time.Time) (models.PriceSeries, error)
}

// ValidateRange rejects ranges a provider cannot serve: reversed bounds, and
// 1m requests reaching further back than the trailing availability window.
func ValidateRange(symbol string, interval Interval, start, end, now time.Time) error {
	if end.Before(start) {
		return fmt.Errorf("invalid range for %s: end %s before start %s", symbol, end.Format(time.DateOnly), start.Format(time.DateOnly))
	}
	if interval == Interval1m && now.Sub(start) > MinuteDataWindow {
		return &models.NoDataError{Symbol: symbol, Reason: "1m data only available for the trailing 7 days"}
	}
	return nil
}
