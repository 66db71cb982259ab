package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"LedgerCast/internal/model"
)

// Duration lets YAML carry durations as strings like "30s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// Config holds all application configuration.
type Config struct {
	Input struct {
		Path           string `yaml:"path"`
		DateColumn     string `yaml:"date_column"`
		CategoryColumn string `yaml:"category_column"`
		AmountColumn   string `yaml:"amount_column"`
	} `yaml:"input"`
	Forecast struct {
		Horizon             int           `yaml:"horizon"`
		ConfidenceLevel     float64       `yaml:"confidence_level"`
		MinHistoryMonths    int           `yaml:"min_history_months"`
		MaxDifferencing     *int          `yaml:"max_differencing"` // 0 disables differencing
		SeasonalPeriod      int           `yaml:"seasonal_period"`
		FitTimeout          Duration      `yaml:"fit_timeout"`
		IncludeCurrentMonth bool          `yaml:"include_current_month"`
		Workers             int           `yaml:"workers"`
	} `yaml:"forecast"`
	Categories struct {
		Synonyms map[string]string `yaml:"synonyms"`
		Types    map[string]string `yaml:"types"` // label -> income|expense
	} `yaml:"categories"`
	Output struct {
		ExcelPath string `yaml:"excel_path"`
		CSVPath   string `yaml:"csv_path"`
	} `yaml:"output"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Schedule struct {
		Cron string `yaml:"cron"`
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
	if v := os.Getenv("LEDGER_INPUT"); v != "" {
		cfg.Input.Path = v
	}
	if v := os.Getenv("LEDGER_OUTPUT"); v != "" {
		cfg.Output.ExcelPath = v
	}
	if v := os.Getenv("LEDGER_CSV_OUTPUT"); v != "" {
		cfg.Output.CSVPath = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("CRON_SCHEDULE"); v != "" {
		cfg.Schedule.Cron = v
	}
	if v := os.Getenv("FORECAST_HORIZON"); v != "" {
		var horizon int
		if _, err := fmt.Sscanf(v, "%d", &horizon); err == nil {
			cfg.Forecast.Horizon = horizon
		}
	}
	if v := os.Getenv("CONFIDENCE_LEVEL"); v != "" {
		var level float64
		if _, err := fmt.Sscanf(v, "%f", &level); err == nil {
			cfg.Forecast.ConfidenceLevel = level
		}
	}
	if v := os.Getenv("MIN_HISTORY_MONTHS"); v != "" {
		var months int
		if _, err := fmt.Sscanf(v, "%d", &months); err == nil {
			cfg.Forecast.MinHistoryMonths = months
		}
	}

	// Defaults
	if cfg.Forecast.Horizon == 0 {
		cfg.Forecast.Horizon = 6
	}
	if cfg.Forecast.ConfidenceLevel == 0 {
		cfg.Forecast.ConfidenceLevel = 0.95
	}
	if cfg.Forecast.MinHistoryMonths == 0 {
		cfg.Forecast.MinHistoryMonths = 12
	}
	if cfg.Forecast.MaxDifferencing == nil {
		d := 2
		cfg.Forecast.MaxDifferencing = &d
	}
	if cfg.Forecast.SeasonalPeriod == 0 {
		cfg.Forecast.SeasonalPeriod = 12
	}
	if cfg.Forecast.FitTimeout == 0 {
		cfg.Forecast.FitTimeout = Duration(30 * time.Second)
	}
	if cfg.Output.ExcelPath == "" && cfg.Output.CSVPath == "" {
		cfg.Output.ExcelPath = "forecast.xlsx"
	}

	return cfg, nil
}

// Validate checks that all required fields are set and in range.
func (c *Config) Validate() error {
	if c.Input.Path == "" {
		return fmt.Errorf("input.path is required")
	}
	if c.Forecast.Horizon < 1 {
		return fmt.Errorf("forecast.horizon must be >= 1")
	}
	if c.Forecast.ConfidenceLevel <= 0 || c.Forecast.ConfidenceLevel >= 1 {
		return fmt.Errorf("forecast.confidence_level must be in (0, 1)")
	}
	if c.Forecast.MinHistoryMonths < 1 {
		return fmt.Errorf("forecast.min_history_months must be >= 1")
	}
	if d := c.Forecast.MaxDifferencing; d != nil && (*d < 0 || *d > 2) {
		return fmt.Errorf("forecast.max_differencing must be 0..2")
	}
	if _, err := c.CategoryTypes(); err != nil {
		return err
	}
	return nil
}

// CategoryTypes converts the configured sign lookup into model types.
func (c *Config) CategoryTypes() (map[string]model.CategoryType, error) {
	out := make(map[string]model.CategoryType, len(c.Categories.Types))
	for label, t := range c.Categories.Types {
		switch model.CategoryType(t) {
		case model.CategoryIncome, model.CategoryExpense:
			out[label] = model.CategoryType(t)
		default:
			return nil, fmt.Errorf("categories.types[%q]: unknown type %q (want income or expense)", label, t)
		}
	}
	return out, nil
}
