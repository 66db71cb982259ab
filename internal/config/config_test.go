package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"LedgerCast/internal/model"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "input:\n  path: ledger.csv\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Forecast.Horizon != 6 {
		t.Errorf("expected default horizon 6, got %d", cfg.Forecast.Horizon)
	}
	if cfg.Forecast.ConfidenceLevel != 0.95 {
		t.Errorf("expected default confidence 0.95, got %f", cfg.Forecast.ConfidenceLevel)
	}
	if cfg.Forecast.MinHistoryMonths != 12 {
		t.Errorf("expected default min history 12, got %d", cfg.Forecast.MinHistoryMonths)
	}
	if cfg.Forecast.MaxDifferencing == nil || *cfg.Forecast.MaxDifferencing != 2 {
		t.Errorf("expected default max differencing 2, got %v", cfg.Forecast.MaxDifferencing)
	}
	if time.Duration(cfg.Forecast.FitTimeout) != 30*time.Second {
		t.Errorf("expected default fit timeout 30s, got %v", cfg.Forecast.FitTimeout)
	}
	if cfg.Output.ExcelPath != "forecast.xlsx" {
		t.Errorf("expected default excel output, got %q", cfg.Output.ExcelPath)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_FullFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
input:
  path: export.csv
  date_column: Booked
forecast:
  horizon: 12
  confidence_level: 0.8
  fit_timeout: 5s
categories:
  synonyms:
    supermarket: groceries
  types:
    rent: expense
    salary: income
database:
  sqlite_path: runs.db
schedule:
  cron: "0 7 1 * *"
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Forecast.Horizon != 12 || cfg.Forecast.ConfidenceLevel != 0.8 {
		t.Errorf("forecast section not loaded: %+v", cfg.Forecast)
	}
	if time.Duration(cfg.Forecast.FitTimeout) != 5*time.Second {
		t.Errorf("expected 5s fit timeout, got %v", cfg.Forecast.FitTimeout)
	}
	if cfg.Input.DateColumn != "Booked" {
		t.Errorf("expected custom date column, got %q", cfg.Input.DateColumn)
	}
	types, err := cfg.CategoryTypes()
	if err != nil {
		t.Fatalf("category types: %v", err)
	}
	if types["rent"] != model.CategoryExpense || types["salary"] != model.CategoryIncome {
		t.Errorf("unexpected category types: %v", types)
	}
}

func TestLoad_ZeroDifferencingKept(t *testing.T) {
	// max_differencing: 0 means "never difference" and must not be replaced
	// by the default.
	cfg, err := Load(writeConfig(t, "input:\n  path: a.csv\nforecast:\n  max_differencing: 0\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Forecast.MaxDifferencing == nil || *cfg.Forecast.MaxDifferencing != 0 {
		t.Errorf("expected explicit 0 to survive, got %v", cfg.Forecast.MaxDifferencing)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("max_differencing 0 should validate: %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LEDGER_INPUT", "env.csv")
	t.Setenv("FORECAST_HORIZON", "3")
	cfg, err := Load(writeConfig(t, "input:\n  path: file.csv\nforecast:\n  horizon: 9\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Input.Path != "env.csv" {
		t.Errorf("expected env override for input path, got %q", cfg.Input.Path)
	}
	if cfg.Forecast.Horizon != 3 {
		t.Errorf("expected env override for horizon, got %d", cfg.Forecast.Horizon)
	}
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing input", "forecast:\n  horizon: 6\n"},
		{"bad confidence", "input:\n  path: a.csv\nforecast:\n  confidence_level: 1.5\n"},
		{"bad horizon", "input:\n  path: a.csv\nforecast:\n  horizon: -1\n"},
		{"bad category type", "input:\n  path: a.csv\ncategories:\n  types:\n    rent: debit\n"},
		{"bad differencing", "input:\n  path: a.csv\nforecast:\n  max_differencing: 5\n"},
	}
	for _, tt := range tests {
		cfg, err := Load(writeConfig(t, tt.yaml))
		if err != nil {
			t.Fatalf("%s: unexpected load error: %v", tt.name, err)
		}
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}
