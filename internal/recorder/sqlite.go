package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sort"
	"sync"

	_ "modernc.org/sqlite"

	"LedgerCast/internal/model"
)

// SQLiteRecorder appends run history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance (dashboards read
	// while the tool writes).
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id        TEXT PRIMARY KEY,
			generated_at  INTEGER NOT NULL,
			categories    INTEGER,
			forecasted    INTEGER,
			rows_skipped  INTEGER,
			insufficient  INTEGER,
			unavailable   INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON runs(generated_at)`,

		`CREATE TABLE IF NOT EXISTS category_results (
			id       INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id   TEXT NOT NULL,
			category TEXT NOT NULL,
			status   TEXT NOT NULL,
			reason   TEXT,
			model    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_category_run ON category_results(run_id)`,

		`CREATE TABLE IF NOT EXISTS report_rows (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id      TEXT NOT NULL,
			category    TEXT NOT NULL,
			month       TEXT NOT NULL,
			value       REAL,
			is_forecast INTEGER NOT NULL,
			lower_bound REAL,
			upper_bound REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_report_run ON report_rows(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun writes one run's diagnostics and flattened result rows.
func (r *SQLiteRecorder) RecordRun(set *model.ForecastSet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	forecasted := 0
	for _, res := range set.Categories {
		if res.Status == model.StatusForecasted {
			forecasted++
		}
	}
	_, err = tx.Exec(`INSERT INTO runs
		(run_id, generated_at, categories, forecasted, rows_skipped, insufficient, unavailable)
		VALUES (?,?,?,?,?,?,?)`,
		set.RunID, set.GeneratedAt.Unix(), len(set.Categories), forecasted,
		set.Diagnostics.RowsSkipped, len(set.Diagnostics.InsufficientHistory),
		len(set.Diagnostics.ForecastUnavailable),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	names := set.CategoryNames()
	sort.Strings(names)
	for _, name := range names {
		res := set.Categories[name]
		modelLabel := ""
		if res.Forecast != nil {
			modelLabel = res.Forecast.Model
		}
		if _, err := tx.Exec(`INSERT INTO category_results (run_id, category, status, reason, model)
			VALUES (?,?,?,?,?)`,
			set.RunID, name, string(res.Status), res.Reason, modelLabel); err != nil {
			return fmt.Errorf("insert category result: %w", err)
		}

		for _, p := range res.Series.Points {
			v, _ := p.Value.Float64()
			if _, err := tx.Exec(`INSERT INTO report_rows
				(run_id, category, month, value, is_forecast, lower_bound, upper_bound)
				VALUES (?,?,?,?,0,NULL,NULL)`,
				set.RunID, name, p.Month.String(), v); err != nil {
				return fmt.Errorf("insert actual row: %w", err)
			}
		}
		if res.Forecast == nil {
			continue
		}
		for _, p := range res.Forecast.Points {
			if _, err := tx.Exec(`INSERT INTO report_rows
				(run_id, category, month, value, is_forecast, lower_bound, upper_bound)
				VALUES (?,?,?,?,1,?,?)`,
				set.RunID, name, p.Month.String(), p.Point, p.Lower, p.Upper); err != nil {
				return fmt.Errorf("insert forecast row: %w", err)
			}
		}
	}

	return tx.Commit()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
