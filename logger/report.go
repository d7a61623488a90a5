package logger

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Batch pipeline counters, aggregated while a run is in flight and dumped
// periodically by the report loop when the "report" level is active.
var (
	errorsProvider int64
	errorsScreener int64
	warnsProvider  int64
	warnsScreener  int64
	seriesFetched  int64
	pointsFetched  int64
	pairStatuses   sync.Map // map[string]*int64
)

func recordWarn(component string) {
	if strings.Contains(component, "provider") {
		atomic.AddInt64(&warnsProvider, 1)
	} else {
		atomic.AddInt64(&warnsScreener, 1)
	}
}

func recordError(component string) {
	if strings.Contains(component, "provider") {
		atomic.AddInt64(&errorsProvider, 1)
	} else {
		atomic.AddInt64(&errorsScreener, 1)
	}
}

// IncrementSeriesFetched records one successful provider fetch of a series
// with the given number of observations.
func IncrementSeriesFetched(points int) {
	atomic.AddInt64(&seriesFetched, 1)
	atomic.AddInt64(&pointsFetched, int64(points))
}

// IncrementPairStatus records a finalized pair summary by status.
func IncrementPairStatus(status string) {
	v, _ := pairStatuses.LoadOrStore(status, new(int64))
	atomic.AddInt64(v.(*int64), 1)
}

func reportFields() Fields {
	fields := Fields{
		"series_fetched":  atomic.LoadInt64(&seriesFetched),
		"points_fetched":  atomic.LoadInt64(&pointsFetched),
		"provider_errors": atomic.LoadInt64(&errorsProvider),
		"provider_warns":  atomic.LoadInt64(&warnsProvider),
		"screener_errors": atomic.LoadInt64(&errorsScreener),
		"screener_warns":  atomic.LoadInt64(&warnsScreener),
	}
	pairStatuses.Range(func(k, v interface{}) bool {
		fields["pairs_"+k.(string)] = atomic.LoadInt64(v.(*int64))
		return true
	})
	return fields
}

// StartReport launches a goroutine that periodically logs the aggregated
// pipeline counters until the context is cancelled.
func StartReport(ctx context.Context, log *Log, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		for {
			select {
			case <-ctx.Done():
				ticker.Stop()
				log.WithComponent("report").WithFields(reportFields()).Info("final batch report")
				return
			case <-ticker.C:
				log.WithComponent("report").WithFields(reportFields()).Info("batch report")
			}
		}
	}()
}
