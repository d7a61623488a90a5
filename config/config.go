package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Pairscreen PairscreenConfig `yaml:"pairscreen"`
	Batch      BatchConfig      `yaml:"batch"`
	Pairs      []PairConfig     `yaml:"pairs"`
	Provider   ProviderConfig   `yaml:"provider"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type PairscreenConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// BatchConfig carries the settings shared by every pair of one run. It is
// passed around as an explicit value, never process-global state, so batches
// with different settings can run side by side.
type BatchConfig struct {
	Alpha           float64 `yaml:"alpha"`
	Interval        string  `yaml:"interval"`
	Start           Date    `yaml:"start"`
	End             Date    `yaml:"end"`
	MinObservations int     `yaml:"min_observations"`
	VerbosePlots    bool    `yaml:"verbose_plots"`
}

type PairConfig struct {
	Symbol1    string `yaml:"symbol1"`
	Symbol2    string `yaml:"symbol2"`
	AssetClass string `yaml:"asset_class"`
}

type ProviderConfig struct {
	Name           string               `yaml:"name"`
	BaseURL        string               `yaml:"base_url"`
	Timeout        time.Duration        `yaml:"timeout"`
	ConnectionPool ConnectionPoolConfig `yaml:"connection_pool"`
	RateLimit      RateLimitConfig      `yaml:"rate_limit"`
	Retry          RetryConfig          `yaml:"retry"`
	APIKey         string               `yaml:"api_key"`
	APISecret      string               `yaml:"api_secret"`
}

type ConnectionPoolConfig struct {
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	MaxConnsPerHost int           `yaml:"max_conns_per_host"`
	IdleConnTimeout time.Duration `yaml:"idle_conn_timeout"`
}

type RateLimitConfig struct {
	RequestsPerSecond int `yaml:"requests_per_second"`
	BurstSize         int `yaml:"burst_size"`
}

type RetryConfig struct {
	MaxAttempts       int           `yaml:"max_attempts"`
	BaseDelay         time.Duration `yaml:"base_delay"`
	BackoffMultiplier int           `yaml:"backoff_multiplier"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
	MaxAge int    `yaml:"max_age"`
}

// Date is a calendar date in yaml, layout 2006-01-02, interpreted as UTC
// midnight.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		d.Time = time.Time{}
		return nil
	}
	parsed, err := time.Parse(dateLayout, raw)
	if err != nil {
		return fmt.Errorf("invalid date %q (want %s): %w", raw, dateLayout, err)
	}
	d.Time = parsed
	return nil
}

func (d Date) MarshalYAML() (interface{}, error) {
	if d.IsZero() {
		return "", nil
	}
	return d.Format(dateLayout), nil
}

const defaultConfigPath = "config/config.yml"

var envConfigPaths = map[string]string{
	environmentProduction: "config/config.production.yml",
	environmentStaging:    "config/config.staging.yml",
}

// LoadConfig reads the configuration file, applies defaults and environment
// overrides, and validates the result. When APP_ENV points at an environment
// with a dedicated config file and the caller asked for the default path,
// the environment specific file wins.
func LoadConfig(path string) (*Config, error) {
	path = resolveEnvSpecificPath(path, defaultConfigPath, envConfigPaths)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Config{
		Batch: BatchConfig{
			Alpha:           0.05,
			Interval:        "1d",
			MinObservations: 20,
		},
		Provider: ProviderConfig{
			Name:    "yahoo",
			Timeout: 10 * time.Second,
			ConnectionPool: ConnectionPoolConfig{
				MaxIdleConns:    4,
				MaxConnsPerHost: 4,
				IdleConnTimeout: 30 * time.Second,
			},
			RateLimit: RateLimitConfig{
				RequestsPerSecond: 5,
				BurstSize:         1,
			},
			Retry: RetryConfig{
				MaxAttempts:       1,
				BaseDelay:         500 * time.Millisecond,
				BackoffMultiplier: 2,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Provider credentials come from the environment when present so they
	// never have to live in the file.
	if v := os.Getenv("PROVIDER_API_KEY"); v != "" {
		config.Provider.APIKey = strings.TrimSpace(v)
	}
	if v := os.Getenv("PROVIDER_API_SECRET"); v != "" {
		config.Provider.APISecret = strings.TrimSpace(v)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks the invariants the screener relies on. A missing pair list
// is an error in production-like environments and tolerated elsewhere so a
// config skeleton can be loaded in tests.
func (c *Config) Validate() error {
	if c.Batch.Alpha <= 0 || c.Batch.Alpha >= 1 {
		return fmt.Errorf("batch.alpha must be in (0,1), got %g", c.Batch.Alpha)
	}
	if c.Batch.Interval == "" {
		return fmt.Errorf("batch.interval must be set")
	}
	if c.Batch.MinObservations < 5 {
		return fmt.Errorf("batch.min_observations must be at least 5, got %d", c.Batch.MinObservations)
	}
	if !c.Batch.Start.IsZero() && !c.Batch.End.IsZero() && c.Batch.End.Before(c.Batch.Start.Time) {
		return fmt.Errorf("batch.end %s is before batch.start %s",
			c.Batch.End.Format(dateLayout), c.Batch.Start.Format(dateLayout))
	}
	for i, p := range c.Pairs {
		if p.Symbol1 == "" || p.Symbol2 == "" {
			return fmt.Errorf("pairs[%d]: symbol1 and symbol2 must be set", i)
		}
	}
	if len(c.Pairs) == 0 && IsProductionLike(AppEnvironment()) {
		return fmt.Errorf("no candidate pairs configured")
	}
	return nil
}
