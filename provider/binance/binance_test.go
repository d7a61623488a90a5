package binance

import (
	"testing"
	"time"

	"pairscreen/config"
	"pairscreen/provider"
)

func minimalConfig() *config.Config {
	return &config.Config{
		Provider: config.ProviderConfig{
			Name:    "binance",
			Timeout: time.Second,
			ConnectionPool: config.ConnectionPoolConfig{
				MaxIdleConns:    1,
				MaxConnsPerHost: 1,
				IdleConnTimeout: time.Second,
			},
			RateLimit: config.RateLimitConfig{RequestsPerSecond: 10, BurstSize: 1},
		},
	}
}

func TestNewClient(t *testing.T) {
	c := NewClient(minimalConfig())
	if c == nil {
		t.Fatal("NewClient returned nil")
	}
	if c.Name() != "binance" {
		t.Fatalf("Name() = %s", c.Name())
	}
}

func TestMapInterval(t *testing.T) {
	tests := []struct {
		in      provider.Interval
		want    string
		wantErr bool
	}{
		{provider.Interval1m, "1m", false},
		{provider.Interval30m, "30m", false},
		{provider.Interval60m, "1h", false},
		{provider.Interval1d, "1d", false},
		{provider.Interval1wk, "1w", false},
		{provider.Interval1mo, "1M", false},
		{provider.Interval90m, "", true},
	}
	for _, tt := range tests {
		got, err := mapInterval(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("mapInterval(%s): expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("mapInterval(%s)=%s,%v want %s", tt.in, got, err, tt.want)
		}
	}
}
