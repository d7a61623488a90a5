package models

import (
	"time"
)

// PairStatus is the terminal state of one pair's analysis.
type PairStatus string

const (
	StatusOK               PairStatus = "ok"
	StatusInsufficientData PairStatus = "insufficient_data"
	StatusFetchFailed      PairStatus = "fetch_failed"
	StatusError            PairStatus = "error"
)

// PairSummary is the per-pair result record. One summary is produced for
// every requested pair, finalized exactly once, and never mutated after it
// is appended to the batch result. Numeric fields are NaN when the analysis
// did not reach them.
type PairSummary struct {
	Symbol1        string     `json:"symbol1"`
	Symbol2        string     `json:"symbol2"`
	AssetClass     string     `json:"asset_class"`
	Correlation    float64    `json:"correlation"`
	PValue         float64    `json:"p_value"`
	IsCointegrated bool       `json:"is_cointegrated"`
	HedgeRatio     float64    `json:"hedge_ratio"`
	Observations   int        `json:"observations"`
	Status         PairStatus `json:"status"`
	Detail         string     `json:"detail,omitempty"`
}

// BatchResult is the output of one screener run: exactly one summary per
// requested pair, in input order.
type BatchResult struct {
	BatchID    string        `json:"batch_id"`
	Interval   string        `json:"interval"`
	Start      time.Time     `json:"start"`
	End        time.Time     `json:"end"`
	Alpha      float64       `json:"alpha"`
	Summaries  []PairSummary `json:"summaries"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
}
