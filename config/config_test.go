package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

// writeTempConfig creates a configuration file for LoadConfig and returns
// its path.
func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp("", "cfg-*.yml")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close temp file: %v", err)
	}
	t.Cleanup(func() { os.Remove(f.Name()) })
	return f.Name()
}

const minimalYAML = `pairscreen:
  name: "TestScreen"
  version: "1.0"
batch:
  interval: 1d
  start: 2024-01-02
  end: 2024-06-28
pairs:
  - symbol1: EURUSD
    symbol2: GBPUSD
    asset_class: forex
`

func TestLoadConfig(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	path := writeTempConfig(t, minimalYAML)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Pairscreen.Name != "TestScreen" {
		t.Errorf("unexpected name: %s", cfg.Pairscreen.Name)
	}
	if cfg.Batch.Alpha != 0.05 {
		t.Errorf("alpha default not applied: %g", cfg.Batch.Alpha)
	}
	if cfg.Batch.MinObservations != 20 {
		t.Errorf("min_observations default not applied: %d", cfg.Batch.MinObservations)
	}
	if cfg.Provider.Name != "yahoo" || cfg.Provider.Timeout != 10*time.Second {
		t.Errorf("provider defaults not applied: %+v", cfg.Provider)
	}
	want := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	if !cfg.Batch.Start.Equal(want) {
		t.Errorf("start = %v, want %v", cfg.Batch.Start.Time, want)
	}
	if len(cfg.Pairs) != 1 || cfg.Pairs[0].AssetClass != "forex" {
		t.Errorf("pairs not parsed: %+v", cfg.Pairs)
	}
}

func TestLoadConfigInvalidAlpha(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	path := writeTempConfig(t, "batch:\n  alpha: 1.5\n  interval: 1d\n")
	if _, err := LoadConfig(path); err == nil || !strings.Contains(err.Error(), "alpha") {
		t.Fatalf("expected alpha validation error, got %v", err)
	}
}

func TestLoadConfigInvalidDate(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	path := writeTempConfig(t, "batch:\n  interval: 1d\n  start: 02/01/2024\n")
	if _, err := LoadConfig(path); err == nil || !strings.Contains(err.Error(), "invalid date") {
		t.Fatalf("expected date parse error, got %v", err)
	}
}

func TestLoadConfigReversedRange(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	path := writeTempConfig(t, "batch:\n  interval: 1d\n  start: 2024-06-28\n  end: 2024-01-02\n")
	if _, err := LoadConfig(path); err == nil || !strings.Contains(err.Error(), "before") {
		t.Fatalf("expected range validation error, got %v", err)
	}
}

func TestValidateEmptyPairsProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	cfg := Config{Batch: BatchConfig{Alpha: 0.05, Interval: "1d", MinObservations: 20}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty pairs in production")
	}
	t.Setenv("APP_ENV", "development")
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty pairs should be tolerated in development: %v", err)
	}
}

func TestProviderCredentialsFromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("PROVIDER_API_KEY", " key ")
	t.Setenv("PROVIDER_API_SECRET", "secret")
	path := writeTempConfig(t, minimalYAML)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Provider.APIKey != "key" || cfg.Provider.APISecret != "secret" {
		t.Errorf("credentials not taken from env: %q/%q", cfg.Provider.APIKey, cfg.Provider.APISecret)
	}
}

func TestAppEnvironmentAliases(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", environmentDevelopment},
		{"prod", environmentProduction},
		{"Production", environmentProduction},
		{"stag", environmentStaging},
		{"dev", environmentDevelopment},
	}
	for _, tt := range tests {
		t.Setenv("APP_ENV", tt.in)
		if got := AppEnvironment(); got != tt.want {
			t.Errorf("AppEnvironment(%q)=%s want %s", tt.in, got, tt.want)
		}
	}
}
