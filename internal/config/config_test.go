package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Detect.VINThreshold)
	assert.InDelta(t, 2.0, cfg.Detect.StdDevThreshold, 0.001)
	assert.Equal(t, 30, cfg.Detect.DaysThreshold)
	assert.Equal(t, 3, cfg.Detect.DealerCountThreshold)
	assert.InDelta(t, 1.5, cfg.Detect.DealerAmountMultiplier, 0.001)
	assert.Equal(t, DefaultLuxuryBrands, cfg.Detect.LuxuryBrands)
	assert.Equal(t, "token", cfg.Detect.BrandResolver)
	assert.Equal(t, 1, cfg.Detect.Concurrency)
	assert.Equal(t, "risk_detection_results", cfg.Output.Dir)
	assert.True(t, cfg.Output.HTML)
	assert.True(t, cfg.Output.CSV)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "claims-risk.db", cfg.Store.DatabaseURL)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 64, cfg.Server.MaxUploadMB)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
detect:
  vin_threshold: 4
  std_dev_threshold: 3.5
  luxury_brands:
    - PORSCHE
    - BMW
store:
  driver: none
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Detect.VINThreshold)
	assert.InDelta(t, 3.5, cfg.Detect.StdDevThreshold, 0.001)
	assert.Equal(t, []string{"PORSCHE", "BMW"}, cfg.Detect.LuxuryBrands)
	assert.Equal(t, "none", cfg.Store.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	// Defaults still apply for unset values
	assert.Equal(t, 30, cfg.Detect.DaysThreshold)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
detect:
  days_threshold: 10
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("CLAIMSRISK_DETECT_DAYS_THRESHOLD", "45")
	t.Setenv("CLAIMSRISK_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, 45, cfg.Detect.DaysThreshold)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	t.Setenv("CLAIMSRISK_SERVER_PORT", "3000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("detect: [unterminated"), 0644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{Detect: DefaultDetectConfig()}
	cfg.Output.Format = "text"
	cfg.Store.Driver = "sqlite"
	cfg.Server.Port = 8080
	return cfg
}

func TestValidateDetect_Defaults(t *testing.T) {
	assert.NoError(t, validDefaults().Validate("detect"))
}

func TestValidateDetect_BadFormat(t *testing.T) {
	cfg := validDefaults()
	cfg.Output.Format = "xml"

	err := cfg.Validate("detect")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "output.format")
}

func TestValidatePostgresNeedsURL(t *testing.T) {
	cfg := validDefaults()
	cfg.Store.Driver = "postgres"

	err := cfg.Validate("runs")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "store.database_url is required")

	cfg.Store.DatabaseURL = "postgres://localhost/claims"
	assert.NoError(t, cfg.Validate("runs"))
}

func TestValidateUnknownDriver(t *testing.T) {
	cfg := validDefaults()
	cfg.Store.Driver = "mongo"

	err := cfg.Validate("runs")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "store.driver")
}

func TestValidateServe_InvalidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 0

	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")
}

func TestValidateUnknownMode(t *testing.T) {
	cfg := validDefaults()
	err := cfg.Validate("unknown")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestValidateDetectConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*DetectConfig)
		wantErr string
	}{
		{"defaults", func(*DetectConfig) {}, ""},
		{"vin threshold zero", func(c *DetectConfig) { c.VINThreshold = 0 }, "vin_threshold"},
		{"negative std dev", func(c *DetectConfig) { c.StdDevThreshold = -1 }, "std_dev_threshold"},
		{"zero std dev allowed", func(c *DetectConfig) { c.StdDevThreshold = 0 }, ""},
		{"negative days", func(c *DetectConfig) { c.DaysThreshold = -3 }, "days_threshold"},
		{"dealer count zero", func(c *DetectConfig) { c.DealerCountThreshold = 0 }, "dealer_count_threshold"},
		{"zero multiplier", func(c *DetectConfig) { c.DealerAmountMultiplier = 0 }, "dealer_amount_multiplier"},
		{"bad resolver", func(c *DetectConfig) { c.BrandResolver = "regex" }, "brand_resolver"},
		{"negative concurrency", func(c *DetectConfig) { c.Concurrency = -1 }, "concurrency"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultDetectConfig()
			tt.mutate(&c)
			err := ValidateDetect(c)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDefaultDetectConfig_BrandsAreCopied(t *testing.T) {
	c := DefaultDetectConfig()
	c.LuxuryBrands[0] = "CHANGED"
	assert.Equal(t, "BENTLEY", DefaultLuxuryBrands[0])
}
