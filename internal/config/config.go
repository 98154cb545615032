package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Detect DetectConfig `yaml:"detect" mapstructure:"detect"`
	Input  InputConfig  `yaml:"input" mapstructure:"input"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// DetectConfig is the single threshold record handed to the detector set.
type DetectConfig struct {
	VINThreshold           int      `yaml:"vin_threshold" mapstructure:"vin_threshold"`
	StdDevThreshold        float64  `yaml:"std_dev_threshold" mapstructure:"std_dev_threshold"`
	DaysThreshold          int      `yaml:"days_threshold" mapstructure:"days_threshold"`
	DealerCountThreshold   int      `yaml:"dealer_count_threshold" mapstructure:"dealer_count_threshold"`
	DealerAmountMultiplier float64  `yaml:"dealer_amount_multiplier" mapstructure:"dealer_amount_multiplier"`
	LuxuryBrands           []string `yaml:"luxury_brands" mapstructure:"luxury_brands"`
	BrandResolver          string   `yaml:"brand_resolver" mapstructure:"brand_resolver"` // token | allowlist
	Concurrency            int      `yaml:"concurrency" mapstructure:"concurrency"`
}

// InputConfig configures spreadsheet ingestion.
type InputConfig struct {
	Sheet   string `yaml:"sheet" mapstructure:"sheet"`
	Charset string `yaml:"charset" mapstructure:"charset"` // CSV only; empty = utf-8
}

// OutputConfig configures report sinks.
type OutputConfig struct {
	Dir    string `yaml:"dir" mapstructure:"dir"`
	HTML   bool   `yaml:"html" mapstructure:"html"`
	CSV    bool   `yaml:"csv" mapstructure:"csv"`
	Format string `yaml:"format" mapstructure:"format"` // text | json | yaml
}

// StoreConfig configures the run audit log backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // sqlite | postgres | none
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	MaxUploadMB    int      `yaml:"max_upload_mb" mapstructure:"max_upload_mb"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// DefaultLuxuryBrands is the built-in luxury make allowlist.
var DefaultLuxuryBrands = []string{
	"BENTLEY", "FERRARI", "LAMBORGHINI", "MCLAREN", "ROLLS-ROYCE", "ASTON MARTIN",
	"PORSCHE", "MERCEDES-BENZ", "BMW", "AUDI", "MASERATI", "LAND ROVER", "TESLA",
}

// DefaultDetectConfig returns the detector thresholds used when nothing is configured.
func DefaultDetectConfig() DetectConfig {
	brands := make([]string, len(DefaultLuxuryBrands))
	copy(brands, DefaultLuxuryBrands)
	return DetectConfig{
		VINThreshold:           2,
		StdDevThreshold:        2.0,
		DaysThreshold:          30,
		DealerCountThreshold:   3,
		DealerAmountMultiplier: 1.5,
		LuxuryBrands:           brands,
		BrandResolver:          "token",
		Concurrency:            1,
	}
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CLAIMSRISK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	d := DefaultDetectConfig()
	v.SetDefault("detect.vin_threshold", d.VINThreshold)
	v.SetDefault("detect.std_dev_threshold", d.StdDevThreshold)
	v.SetDefault("detect.days_threshold", d.DaysThreshold)
	v.SetDefault("detect.dealer_count_threshold", d.DealerCountThreshold)
	v.SetDefault("detect.dealer_amount_multiplier", d.DealerAmountMultiplier)
	v.SetDefault("detect.luxury_brands", d.LuxuryBrands)
	v.SetDefault("detect.brand_resolver", d.BrandResolver)
	v.SetDefault("detect.concurrency", d.Concurrency)
	v.SetDefault("output.dir", "risk_detection_results")
	v.SetDefault("output.html", true)
	v.SetDefault("output.csv", true)
	v.SetDefault("output.format", "text")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "claims-risk.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.max_upload_mb", 64)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a given command depends on.
func (c *Config) Validate(command string) error {
	var errs []string

	switch command {
	case "detect", "serve":
		if err := ValidateDetect(c.Detect); err != nil {
			errs = append(errs, err.Error())
		}
	case "runs":
	default:
		return eris.Errorf("config: unknown mode %q", command)
	}

	switch command {
	case "detect":
		switch c.Output.Format {
		case "text", "json", "yaml":
		default:
			errs = append(errs, fmt.Sprintf("output.format must be text, json or yaml (got %q)", c.Output.Format))
		}
	case "serve":
		if c.Server.Port <= 0 {
			errs = append(errs, "server.port must be > 0")
		}
	}

	switch c.Store.Driver {
	case "sqlite", "postgres", "none", "":
	default:
		errs = append(errs, fmt.Sprintf("store.driver must be sqlite, postgres or none (got %q)", c.Store.Driver))
	}
	if c.Store.Driver == "postgres" && c.Store.DatabaseURL == "" {
		errs = append(errs, "store.database_url is required for postgres")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s: %s", command, strings.Join(errs, "; "))
	}
	return nil
}

// ValidateDetect checks that a DetectConfig is internally consistent.
func ValidateDetect(c DetectConfig) error {
	var errs []string

	if c.VINThreshold < 1 {
		errs = append(errs, "vin_threshold must be >= 1")
	}
	if c.StdDevThreshold < 0 {
		errs = append(errs, "std_dev_threshold must be >= 0")
	}
	if c.DaysThreshold < 0 {
		errs = append(errs, "days_threshold must be >= 0")
	}
	if c.DealerCountThreshold < 1 {
		errs = append(errs, "dealer_count_threshold must be >= 1")
	}
	if c.DealerAmountMultiplier <= 0 {
		errs = append(errs, "dealer_amount_multiplier must be > 0")
	}
	switch c.BrandResolver {
	case "token", "allowlist", "":
	default:
		errs = append(errs, fmt.Sprintf("brand_resolver must be token or allowlist (got %q)", c.BrandResolver))
	}
	if c.Concurrency < 0 {
		errs = append(errs, "concurrency must be >= 0")
	}

	if len(errs) > 0 {
		return eris.Errorf("detect: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
