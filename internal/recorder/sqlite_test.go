package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"LedgerCast/internal/model"
)

func testSet() *model.ForecastSet {
	jan, _ := model.ParseMonth("2024-01")
	feb := jan.Next()
	return &model.ForecastSet{
		RunID:       "run-1",
		GeneratedAt: time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC),
		Categories: map[string]*model.CategoryResult{
			"rent": {
				Category: "rent",
				Status:   model.StatusForecasted,
				Series: model.MonthlySeries{
					Category: "rent",
					Points:   []model.SeriesPoint{{Month: jan, Value: decimal.NewFromInt(-1000)}},
				},
				Forecast: &model.ForecastResult{
					Category: "rent",
					Model:    "constant",
					Points:   []model.ForecastPoint{{Month: feb, Point: -1000, Lower: -1000, Upper: -1000}},
				},
			},
		},
		Diagnostics: model.Diagnostics{RowsSkipped: 3},
	}
}

func TestSQLiteRecorder_RecordRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	rec, err := NewSQLiteRecorder(path)
	if err != nil {
		t.Fatalf("open recorder: %v", err)
	}
	defer rec.Close()

	if err := rec.RecordRun(testSet()); err != nil {
		t.Fatalf("record run: %v", err)
	}

	var skipped, forecasted int
	row := rec.db.QueryRow(`SELECT rows_skipped, forecasted FROM runs WHERE run_id = ?`, "run-1")
	if err := row.Scan(&skipped, &forecasted); err != nil {
		t.Fatalf("query run: %v", err)
	}
	if skipped != 3 || forecasted != 1 {
		t.Errorf("expected skipped=3 forecasted=1, got %d/%d", skipped, forecasted)
	}

	var rows int
	if err := rec.db.QueryRow(`SELECT COUNT(*) FROM report_rows WHERE run_id = ?`, "run-1").Scan(&rows); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if rows != 2 { // one actual + one forecast
		t.Errorf("expected 2 report rows, got %d", rows)
	}

	var isForecast int
	var lower float64
	err = rec.db.QueryRow(`SELECT is_forecast, lower_bound FROM report_rows WHERE month = ?`, "2024-02").
		Scan(&isForecast, &lower)
	if err != nil {
		t.Fatalf("query forecast row: %v", err)
	}
	if isForecast != 1 || lower != -1000 {
		t.Errorf("expected forecast row with lower=-1000, got %d/%f", isForecast, lower)
	}
}

func TestNoopRecorder(t *testing.T) {
	rec := NewNoopRecorder()
	if err := rec.RecordRun(testSet()); err != nil {
		t.Errorf("noop record: %v", err)
	}
	if err := rec.Close(); err != nil {
		t.Errorf("noop close: %v", err)
	}
}
