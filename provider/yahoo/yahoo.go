// Package yahoo implements the price-series provider backed by the Yahoo
// Finance chart API. It understands the resolver's suffix grammar
// (EURUSD=X, GC=F) natively.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"pairscreen/config"
	"pairscreen/logger"
	"pairscreen/models"
	"pairscreen/provider"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

const userAgent = "pairscreen/1.0"

// Client fetches historical candles from the chart endpoint. Requests are
// rate limited and retried according to the provider configuration.
type Client struct {
	config     *config.Config
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	log        *logger.Log
}

// NewClient builds a chart API client with a pooled transport sized from
// the provider configuration.
func NewClient(cfg *config.Config) *Client {
	transport := &http.Transport{
		MaxIdleConns:        cfg.Provider.ConnectionPool.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.Provider.ConnectionPool.MaxIdleConns,
		MaxConnsPerHost:     cfg.Provider.ConnectionPool.MaxConnsPerHost,
		IdleConnTimeout:     cfg.Provider.ConnectionPool.IdleConnTimeout,
	}

	rl := cfg.Provider.RateLimit
	rps := rl.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	burst := rl.BurstSize
	if burst <= 0 {
		burst = 1
	}

	base := cfg.Provider.BaseURL
	if base == "" {
		base = defaultBaseURL
	}

	return &Client{
		config: cfg,
		httpClient: &http.Client{
			Transport: userAgentTransport{agent: userAgent, base: transport},
			Timeout:   cfg.Provider.Timeout,
		},
		baseURL: base,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		log:     logger.GetLogger(),
	}
}

func (c *Client) Name() string { return "yahoo" }

// Fetch retrieves the close-price series for a resolved symbol. The end
// bound is inclusive for daily and coarser intervals (one day is added
// before querying the exclusive-end chart API) and exclusive for intraday
// intervals.
func (c *Client) Fetch(ctx context.Context, symbol string, interval provider.Interval, start, end time.Time) (models.PriceSeries, error) {
	if err := provider.ValidateRange(symbol, interval, start, end, time.Now()); err != nil {
		return nil, err
	}

	period2 := end
	if !interval.Intraday() {
		period2 = end.AddDate(0, 0, 1)
	}

	log := c.log.WithComponent("yahoo_provider").WithFields(logger.Fields{
		"symbol":   symbol,
		"interval": interval.String(),
	})

	attempts := c.config.Provider.Retry.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	delay := c.config.Provider.Retry.BaseDelay
	multiplier := c.config.Provider.Retry.BackoffMultiplier
	if multiplier < 1 {
		multiplier = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		series, retryable, err := c.fetchOnce(ctx, symbol, interval, start, period2)
		if err == nil {
			logger.IncrementSeriesFetched(len(series))
			log.WithFields(logger.Fields{"points": len(series)}).Debug("fetched price series")
			return series, nil
		}
		if !retryable {
			return nil, err
		}

		lastErr = err
		if attempt < attempts {
			log.WithError(err).WithFields(logger.Fields{"attempt": attempt}).Warn("chart request failed, retrying")
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay *= time.Duration(multiplier)
		}
	}
	return nil, fmt.Errorf("chart request for %s failed after %d attempts: %w", symbol, attempts, lastErr)
}

// chart API payload; close values are pointers because the API reports
// missing bars as nulls.
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Close []*float64 `json:"close"`
		} `json:"quote"`
	} `json:"indicators"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

func (c *Client) fetchOnce(ctx context.Context, symbol string, interval provider.Interval, start, end time.Time) (models.PriceSeries, bool, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s", c.baseURL, url.PathEscape(symbol))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, false, err
	}
	q := req.URL.Query()
	q.Set("period1", strconv.FormatInt(start.Unix(), 10))
	q.Set("period2", strconv.FormatInt(end.Unix(), 10))
	q.Set("interval", interval.String())
	q.Set("events", "history")
	req.URL.RawQuery = q.Encode()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, true, err
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, false, &models.NoDataError{Symbol: symbol, Reason: "symbol not found"}
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("chart API status %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, false, fmt.Errorf("chart API status %d: %s", resp.StatusCode, string(body))
	}

	var payload chartResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, false, fmt.Errorf("decode chart response: %w", err)
	}
	if payload.Chart.Error != nil {
		return nil, false, &models.NoDataError{Symbol: symbol, Reason: payload.Chart.Error.Description}
	}
	if len(payload.Chart.Result) == 0 || len(payload.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, false, &models.NoDataError{Symbol: symbol, Reason: "empty chart result"}
	}

	result := payload.Chart.Result[0]
	closes := result.Indicators.Quote[0].Close
	series := make(models.PriceSeries, 0, len(result.Timestamp))
	var lastTS int64
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		if len(series) > 0 && ts <= lastTS {
			continue
		}
		series = append(series, models.PricePoint{
			Timestamp: time.Unix(ts, 0).UTC(),
			Price:     *closes[i],
		})
		lastTS = ts
	}
	if len(series) == 0 {
		return nil, false, &models.NoDataError{Symbol: symbol, Reason: "no usable close prices"}
	}
	return series, false, nil
}
