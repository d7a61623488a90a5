// Package binance implements the price-series provider backed by the
// Binance spot klines API, for screening crypto pairs.
package binance

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	binance "github.com/adshao/go-binance/v2"
	"golang.org/x/time/rate"

	"pairscreen/config"
	"pairscreen/logger"
	"pairscreen/models"
	"pairscreen/provider"
)

const maxKlinesPerRequest = 1000

// Client fetches historical klines through the go-binance SDK.
type Client struct {
	config  *config.Config
	client  *binance.Client
	limiter *rate.Limiter
	log     *logger.Log
}

// NewClient creates a klines provider using the shared provider settings.
// Credentials are optional: kline endpoints are public.
func NewClient(cfg *config.Config) *Client {
	transport := &http.Transport{
		MaxIdleConns:        cfg.Provider.ConnectionPool.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.Provider.ConnectionPool.MaxIdleConns,
		MaxConnsPerHost:     cfg.Provider.ConnectionPool.MaxConnsPerHost,
		IdleConnTimeout:     cfg.Provider.ConnectionPool.IdleConnTimeout,
	}

	client := binance.NewClient(cfg.Provider.APIKey, cfg.Provider.APISecret)
	client.HTTPClient = &http.Client{
		Transport: transport,
		Timeout:   cfg.Provider.Timeout,
	}
	if cfg.Provider.BaseURL != "" {
		client.BaseURL = cfg.Provider.BaseURL
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

	return &Client{
		config:  cfg,
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		log:     logger.GetLogger(),
	}
}

func (c *Client) Name() string { return "binance" }

// mapInterval translates the provider interval enum to Binance kline
// interval strings. 90m has no Binance equivalent.
func mapInterval(iv provider.Interval) (string, error) {
	switch iv {
	case provider.Interval1m:
		return "1m", nil
	case provider.Interval5m:
		return "5m", nil
	case provider.Interval15m:
		return "15m", nil
	case provider.Interval30m:
		return "30m", nil
	case provider.Interval60m:
		return "1h", nil
	case provider.Interval1d:
		return "1d", nil
	case provider.Interval1wk:
		return "1w", nil
	case provider.Interval1mo:
		return "1M", nil
	default:
		return "", fmt.Errorf("interval %s not supported by binance klines", iv)
	}
}

// Fetch retrieves close prices keyed by kline open time, paginating until
// the requested range is covered. The end bound is inclusive for daily and
// coarser intervals, exclusive for intraday.
func (c *Client) Fetch(ctx context.Context, symbol string, interval provider.Interval, start, end time.Time) (models.PriceSeries, error) {
	if err := provider.ValidateRange(symbol, interval, start, end, time.Now()); err != nil {
		return nil, err
	}
	binanceInterval, err := mapInterval(interval)
	if err != nil {
		return nil, err
	}

	upper := end
	if !interval.Intraday() {
		upper = end.AddDate(0, 0, 1)
	}

	log := c.log.WithComponent("binance_provider").WithFields(logger.Fields{
		"symbol":   symbol,
		"interval": binanceInterval,
	})

	startMs := start.UnixMilli()
	endMs := upper.UnixMilli() - 1

	series := make(models.PriceSeries, 0, maxKlinesPerRequest)
	for startMs <= endMs {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		klines, err := c.client.NewKlinesService().
			Symbol(symbol).
			Interval(binanceInterval).
			StartTime(startMs).
			EndTime(endMs).
			Limit(maxKlinesPerRequest).
			Do(ctx)
		if err != nil {
			return nil, fmt.Errorf("binance klines for %s: %w", symbol, err)
		}
		if len(klines) == 0 {
			break
		}

		for _, k := range klines {
			price, err := strconv.ParseFloat(k.Close, 64)
			if err != nil {
				log.WithFields(logger.Fields{"close": k.Close}).Warn("skipping unparseable close price")
				continue
			}
			series = append(series, models.PricePoint{
				Timestamp: time.UnixMilli(k.OpenTime).UTC(),
				Price:     price,
			})
		}

		if len(klines) < maxKlinesPerRequest {
			break
		}
		startMs = klines[len(klines)-1].OpenTime + 1
	}

	if len(series) == 0 {
		return nil, &models.NoDataError{Symbol: symbol, Reason: "no klines in range"}
	}

	logger.IncrementSeriesFetched(len(series))
	log.WithFields(logger.Fields{"points": len(series)}).Debug("fetched price series")
	return series, nil
}
