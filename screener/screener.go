// Package screener sequences the per-pair analysis: symbol resolution,
// price fetch, alignment, stationarity and cointegration testing, and
// spread derivation. It is the sole recovery boundary of the pipeline:
// every failure becomes a PairSummary status and the batch keeps going.
package screener

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	"pairscreen/config"
	"pairscreen/internal/symbols"
	"pairscreen/logger"
	"pairscreen/models"
	"pairscreen/provider"
	"pairscreen/stats"
)

// Plotter is the external visualization collaborator. It is only invoked
// when verbose plots are enabled and never influences numeric results.
type Plotter interface {
	PlotPair(summary models.PairSummary, pair models.AlignedPair, spread, zscore models.PriceSeries) error
}

type Screener struct {
	config   *config.Config
	provider provider.PriceSeriesProvider
	plotter  Plotter
	interval provider.Interval
	log      *logger.Log
}

type Option func(*Screener)

// WithPlotter attaches the plotting collaborator.
func WithPlotter(p Plotter) Option {
	return func(s *Screener) { s.plotter = p }
}

// New builds a screener for one batch configuration. The configuration is
// an explicit value owned by this screener; two screeners with different
// settings can run side by side.
func New(cfg *config.Config, p provider.PriceSeriesProvider, opts ...Option) (*Screener, error) {
	interval, err := provider.ParseInterval(cfg.Batch.Interval)
	if err != nil {
		return nil, err
	}
	s := &Screener{
		config:   cfg,
		provider: p,
		interval: interval,
		log:      logger.GetLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Run analyzes every configured pair sequentially and returns exactly one
// summary per pair, in input order. A failing pair never aborts the batch.
func (s *Screener) Run(ctx context.Context) *models.BatchResult {
	batch := &models.BatchResult{
		BatchID:   uuid.NewString(),
		Interval:  s.interval.String(),
		Start:     s.config.Batch.Start.Time,
		End:       s.config.Batch.End.Time,
		Alpha:     s.config.Batch.Alpha,
		StartedAt: time.Now().UTC(),
	}

	log := s.log.WithComponent("screener").WithFields(logger.Fields{"batch_id": batch.BatchID})
	log.WithFields(logger.Fields{
		"pairs":    len(s.config.Pairs),
		"interval": batch.Interval,
		"alpha":    batch.Alpha,
		"provider": s.provider.Name(),
	}).Info("starting batch")

	for _, pair := range s.config.Pairs {
		summary := s.AnalyzePair(ctx, pair)
		logger.IncrementPairStatus(string(summary.Status))
		batch.Summaries = append(batch.Summaries, summary)
	}

	batch.FinishedAt = time.Now().UTC()
	log.WithFields(logger.Fields{
		"pairs":    len(batch.Summaries),
		"duration": batch.FinishedAt.Sub(batch.StartedAt).String(),
	}).Info("batch finished")
	return batch
}

// AnalyzePair runs the full test sequence for one pair. It never returns an
// error: every failure mode is mapped onto the summary status here, at the
// orchestrator boundary.
func (s *Screener) AnalyzePair(ctx context.Context, pair config.PairConfig) models.PairSummary {
	class := symbols.ParseAssetClass(pair.AssetClass)
	summary := models.PairSummary{
		Symbol1:     pair.Symbol1,
		Symbol2:     pair.Symbol2,
		AssetClass:  class.String(),
		Correlation: math.NaN(),
		PValue:      math.NaN(),
		HedgeRatio:  math.NaN(),
	}

	log := s.log.WithComponent("screener").WithFields(logger.Fields{
		"symbol1": pair.Symbol1,
		"symbol2": pair.Symbol2,
	})

	sym1 := symbols.Resolve(pair.Symbol1, class)
	sym2 := symbols.Resolve(pair.Symbol2, class)

	series1, err := s.fetch(ctx, sym1)
	if err != nil {
		log.WithError(err).Error("failed to fetch first series")
		return s.finalize(summary, models.StatusFetchFailed, err)
	}
	series2, err := s.fetch(ctx, sym2)
	if err != nil {
		log.WithError(err).Error("failed to fetch second series")
		return s.finalize(summary, models.StatusFetchFailed, err)
	}

	aligned := models.Align(series1, series2)
	summary.Observations = aligned.Len()
	if aligned.Len() < s.config.Batch.MinObservations {
		log.WithFields(logger.Fields{
			"aligned": aligned.Len(),
			"minimum": s.config.Batch.MinObservations,
		}).Warn("not enough overlapping observations")
		return s.finalize(summary, models.StatusInsufficientData,
			&models.InsufficientDataError{Need: s.config.Batch.MinObservations, Got: aligned.Len()})
	}

	// Raw-series stationarity is informational: price levels are expected
	// to be non-stationary, the verdict is logged but never gates the
	// cointegration test.
	s.logRawStationarity(log, sym1, aligned.A)
	s.logRawStationarity(log, sym2, aligned.B)

	result, err := stats.TestCointegration(aligned.A, aligned.B, s.config.Batch.Alpha)
	if err != nil {
		log.WithError(err).Error("cointegration test failed")
		return s.finalize(summary, classify(err), err)
	}

	summary.Correlation = result.Correlation
	summary.PValue = result.PValue
	summary.IsCointegrated = result.IsCointegrated
	summary.HedgeRatio = result.HedgeRatio

	if result.IsCointegrated {
		if err := s.analyzeSpread(log, summary, aligned); err != nil {
			log.WithError(err).Error("spread analysis failed")
			return s.finalize(summary, classify(err), err)
		}
	}

	log.WithFields(logger.Fields{
		"correlation":  summary.Correlation,
		"p_value":      summary.PValue,
		"cointegrated": summary.IsCointegrated,
		"hedge_ratio":  summary.HedgeRatio,
	}).Info("pair analyzed")
	return s.finalize(summary, models.StatusOK, nil)
}

func (s *Screener) fetch(ctx context.Context, symbol string) (models.PriceSeries, error) {
	return s.provider.Fetch(ctx, symbol, s.interval, s.config.Batch.Start.Time, s.config.Batch.End.Time)
}

func (s *Screener) logRawStationarity(log *logger.Entry, symbol string, series models.PriceSeries) {
	result, err := stats.TestStationarity(series.Prices(), s.config.Batch.Alpha)
	if err != nil {
		log.WithError(err).WithFields(logger.Fields{"symbol": symbol}).Warn("raw series ADF test failed")
		return
	}
	log.WithFields(logger.Fields{
		"symbol":     symbol,
		"adf":        result.Statistic,
		"p_value":    result.PValue,
		"stationary": result.IsStationary,
	}).Debug("raw series stationarity")
}

// analyzeSpread derives the spread and Z-score for a cointegrated pair and
// hands them to the plotting collaborator when verbose plots are on.
func (s *Screener) analyzeSpread(log *logger.Entry, summary models.PairSummary, aligned models.AlignedPair) error {
	fit, err := stats.EstimateRelationship(aligned.A, aligned.B)
	if err != nil {
		return err
	}
	spread, zscore, err := stats.SpreadAndZScore(fit.Residuals)
	if err != nil {
		return err
	}

	if s.config.Batch.VerbosePlots && s.plotter != nil {
		if err := s.plotter.PlotPair(summary, aligned, spread, zscore); err != nil {
			// Plotting is cosmetic; a failed plot never fails the pair.
			log.WithError(err).Warn("plotting collaborator failed")
		}
	}
	return nil
}

func (s *Screener) finalize(summary models.PairSummary, status models.PairStatus, err error) models.PairSummary {
	summary.Status = status
	if err != nil {
		summary.Detail = err.Error()
	}
	s.log.WithComponent("screener").LogMetric("screener", "pair_finalized", 1, "counter", logger.Fields{
		"status": string(status),
		"pair":   summary.Symbol1 + "/" + summary.Symbol2,
	})
	return summary
}

// classify maps an analysis error onto the summary status vocabulary.
func classify(err error) models.PairStatus {
	var insufficient *models.InsufficientDataError
	if errors.As(err, &insufficient) {
		return models.StatusInsufficientData
	}
	var noData *models.NoDataError
	if errors.As(err, &noData) {
		return models.StatusFetchFailed
	}
	return models.StatusError
}
