package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/abhi24703/dynamicpricing/internal/estimator"
)

// Config holds all application configuration.
type Config struct {
	Dataset struct {
		CSVPath    string `yaml:"csv_path"`
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"dataset"`
	Model struct {
		Algorithm                 string  `yaml:"algorithm"` // gbt | linear
		TestFraction              float64 `yaml:"test_fraction"`
		estimator.Hyperparameters `yaml:",inline"`
	} `yaml:"model"`
	Pricing struct {
		BaselineCompetitorPrice float64 `yaml:"baseline_competitor_price"`
	} `yaml:"pricing"`
	Artifacts struct {
		Dir string `yaml:"dir"`
	} `yaml:"artifacts"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Schedule struct {
		DailyCron       string   `yaml:"daily_cron"`
		OccupancyRate   float64  `yaml:"occupancy_rate"`
		CompetitorPrice float64  `yaml:"competitor_price"`
		Holidays        []string `yaml:"holidays"` // "2006-01-02" dates
	} `yaml:"schedule"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("PRICER_DATA"); v != "" {
		cfg.Dataset.CSVPath = v
	}
	if v := os.Getenv("PRICER_ARTIFACTS"); v != "" {
		cfg.Artifacts.Dir = v
	}
	if v := os.Getenv("PRICER_SQLITE"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("PRICER_ALGORITHM"); v != "" {
		cfg.Model.Algorithm = v
	}
	if v := os.Getenv("PRICER_SEED"); v != "" {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Model.Seed = seed
		}
	}
	if v := os.Getenv("PRICER_BASELINE"); v != "" {
		if baseline, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Pricing.BaselineCompetitorPrice = baseline
		}
	}
	if v := os.Getenv("CRON_DAILY"); v != "" {
		cfg.Schedule.DailyCron = v
	}

	// Defaults
	if cfg.Dataset.CSVPath == "" {
		cfg.Dataset.CSVPath = "data/hotel_prices.csv"
	}
	if cfg.Model.Algorithm == "" {
		cfg.Model.Algorithm = estimator.AlgorithmGBT
	}
	if cfg.Model.TestFraction == 0 {
		cfg.Model.TestFraction = 0.2
	}
	if cfg.Model.Hyperparameters == (estimator.Hyperparameters{}) {
		cfg.Model.Hyperparameters = estimator.DefaultHyperparameters()
	} else {
		applyHyperparameterDefaults(&cfg.Model.Hyperparameters)
	}
	if cfg.Pricing.BaselineCompetitorPrice == 0 {
		cfg.Pricing.BaselineCompetitorPrice = 8000
	}
	if cfg.Artifacts.Dir == "" {
		cfg.Artifacts.Dir = "data/model"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/pricing_history.db"
	}
	if cfg.Schedule.DailyCron == "" {
		cfg.Schedule.DailyCron = "0 0 6 * * *"
	}

	return cfg, nil
}

// applyHyperparameterDefaults fills zero fields of a partially specified
// tuning. Seed stays as given: zero is a valid seed.
func applyHyperparameterDefaults(hp *estimator.Hyperparameters) {
	def := estimator.DefaultHyperparameters()
	if hp.LearningRate == 0 {
		hp.LearningRate = def.LearningRate
	}
	if hp.MaxDepth == 0 {
		hp.MaxDepth = def.MaxDepth
	}
	if hp.MinChildWeight == 0 {
		hp.MinChildWeight = def.MinChildWeight
	}
	if hp.Subsample == 0 {
		hp.Subsample = def.Subsample
	}
	if hp.ColsampleByTree == 0 {
		hp.ColsampleByTree = def.ColsampleByTree
	}
	if hp.NEstimators == 0 {
		hp.NEstimators = def.NEstimators
	}
}

// Validate checks that all required fields are set and consistent.
func (c *Config) Validate() error {
	if c.Model.Algorithm != estimator.AlgorithmGBT && c.Model.Algorithm != estimator.AlgorithmLinear {
		return fmt.Errorf("model.algorithm must be %q or %q, got %q",
			estimator.AlgorithmGBT, estimator.AlgorithmLinear, c.Model.Algorithm)
	}
	if c.Model.TestFraction <= 0 || c.Model.TestFraction >= 1 {
		return fmt.Errorf("model.test_fraction must be in (0, 1), got %g", c.Model.TestFraction)
	}
	if err := c.Model.Hyperparameters.Validate(); err != nil {
		return fmt.Errorf("model: %w", err)
	}
	if c.Pricing.BaselineCompetitorPrice <= 0 {
		return fmt.Errorf("pricing.baseline_competitor_price must be positive, got %g", c.Pricing.BaselineCompetitorPrice)
	}
	return nil
}
