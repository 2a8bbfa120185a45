// Package config loads the evaluation battery configuration from a YAML file
// layered over environment variables. Validation is eager: a config that
// would later be rejected by the core fails at load time with the same error
// taxonomy.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	apperrors "quantsig/internal/errors"
)

// Config is the complete application configuration.
type Config struct {
	App     AppConfig     `yaml:"app"`
	Data    DataConfig    `yaml:"data"`
	Battery BatteryConfig `yaml:"battery"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name     string `yaml:"name"`
	LogLevel string `yaml:"log_level"`
}

// DataConfig selects the input source: a data file with named columns, or the
// synthetic demo frame when File is empty.
type DataConfig struct {
	File         string   `yaml:"file"`
	TargetColumn string   `yaml:"target_column"`
	Indicators   []string `yaml:"indicators"`
	DemoRows     int      `yaml:"demo_rows"`
}

// BatteryConfig holds every knob of the evaluation battery.
type BatteryConfig struct {
	Seed           int64   `yaml:"seed"`
	Workers        int     `yaml:"workers"`
	Replications   int     `yaml:"replications"`
	MinKeptPercent float64 `yaml:"min_kept_percent"`
	UseLog         bool    `yaml:"use_log"`
	FlipSign       bool    `yaml:"flip_sign"`
	BinCount       int     `yaml:"bin_count"`
	NBinsFeature   int     `yaml:"nbins_feature"`
	NBinsTarget    int     `yaml:"nbins_target"`
	MinRecent      int     `yaml:"min_recent"`
	MaxRecent      int     `yaml:"max_recent"`
	Lag            int     `yaml:"lag"`
}

// Default returns the configuration used when no file and no environment
// overrides are present.
func Default() *Config {
	return &Config{
		App: AppConfig{Name: "quantsig", LogLevel: "info"},
		Data: DataConfig{
			TargetColumn: "fwd_return",
			DemoRows:     2000,
		},
		Battery: BatteryConfig{
			Seed:           42,
			Workers:        0, // 0 means one per CPU
			Replications:   100,
			MinKeptPercent: 5,
			BinCount:       13,
			NBinsFeature:   10,
			NBinsTarget:    10,
			MinRecent:      100,
			MaxRecent:      500,
			Lag:            1,
		},
	}
}

// Load reads the optional YAML file at path, applies environment overrides,
// and validates the result. An empty path means defaults plus environment.
func Load(path string) (*Config, error) {
	// .env is optional; absence is not an error.
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, apperrors.DataError("reading config file", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, apperrors.Wrap(err, "parsing config file")
		}
	}

	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("QUANTSIG_LOG_LEVEL"); v != "" {
		cfg.App.LogLevel = v
	}
	if v := os.Getenv("QUANTSIG_DATA_FILE"); v != "" {
		cfg.Data.File = v
	}
	if v := os.Getenv("QUANTSIG_SEED"); v != "" {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Battery.Seed = seed
		}
	}
	if v := os.Getenv("QUANTSIG_REPLICATIONS"); v != "" {
		if reps, err := strconv.Atoi(v); err == nil {
			cfg.Battery.Replications = reps
		}
	}
	if v := os.Getenv("QUANTSIG_WORKERS"); v != "" {
		if workers, err := strconv.Atoi(v); err == nil {
			cfg.Battery.Workers = workers
		}
	}
}

// Validate checks every battery knob against the core's input contracts.
func (c *Config) Validate() error {
	b := c.Battery
	if b.Replications < 0 {
		return apperrors.ConfigInvalid("battery.replications must be non-negative")
	}
	if b.MinKeptPercent < 0 || b.MinKeptPercent > 100 {
		return apperrors.ConfigInvalid("battery.min_kept_percent must be in [0, 100]")
	}
	if b.BinCount != 13 && b.BinCount != 27 {
		return apperrors.ConfigInvalid("battery.bin_count must be 13 or 27")
	}
	if b.NBinsFeature < 1 || b.NBinsTarget < 1 {
		return apperrors.ConfigInvalid("battery bin counts must be >= 1")
	}
	if b.Lag < 1 {
		return apperrors.ConfigInvalid("battery.lag must be >= 1")
	}
	if b.MinRecent < 1 || b.MinRecent > b.MaxRecent {
		return apperrors.ConfigInvalid("battery recent range is invalid")
	}
	if c.Data.File == "" && c.Data.DemoRows < 10 {
		return apperrors.ConfigInvalid("data.demo_rows must be >= 10 when no data file is set")
	}
	return nil
}
