// Package pipeline sequences the run: normalize the input stream,
// aggregate into monthly series, fit per-category forecasts, and assemble
// the terminal result set. Failures are isolated at category granularity;
// only unusable input aborts a run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"LedgerCast/internal/aggregate"
	"LedgerCast/internal/forecast"
	"LedgerCast/internal/ingest"
	"LedgerCast/internal/model"
)

// ErrNoInput is the fatal run error: the input stream was empty,
// unreadable, or yielded no parseable rows at all.
var ErrNoInput = errors.New("input produced no usable ledger rows")

// Options configures one coordinator.
type Options struct {
	MinHistoryMonths    int              // default 12
	Forecast            forecast.Options // per-series model options
	FitTimeout          time.Duration    // wall-clock cap per category fit, 0 = none
	IncludeCurrentMonth bool             // keep the partially elapsed month
	Workers             int              // parallel fits, default GOMAXPROCS
	Now                 func() time.Time // clock, default time.Now
}

func (o Options) withDefaults() Options {
	if o.MinHistoryMonths <= 0 {
		o.MinHistoryMonths = 12
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// fitFunc fits one series; swappable in tests.
type fitFunc func(context.Context, model.MonthlySeries, forecast.Options) (*model.ForecastResult, error)

// Coordinator runs the full pipeline over one input source.
type Coordinator struct {
	source ingest.RowSource
	norm   *ingest.Normalizer
	opts   Options
	fit    fitFunc
}

// New creates a Coordinator.
func New(source ingest.RowSource, norm *ingest.Normalizer, opts Options) *Coordinator {
	return &Coordinator{source: source, norm: norm, opts: opts.withDefaults(), fit: forecast.Forecast}
}

// Run executes one pipeline run end to end and returns the immutable
// result set. Per-category forecast failures degrade that category's
// status; they never fail the run.
func (c *Coordinator) Run(ctx context.Context) (*model.ForecastSet, error) {
	rows, err := c.source.Rows()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoInput, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s returned zero rows", ErrNoInput, c.source.Name())
	}
	log.Printf("[INFO] read %d raw rows from %s", len(rows), c.source.Name())

	records := make([]model.CanonicalRecord, 0, len(rows))
	for _, row := range rows {
		if rec, ok := c.norm.Normalize(row); ok {
			records = append(records, rec)
		}
	}
	skipped := c.norm.Skipped()

	if !c.opts.IncludeCurrentMonth {
		// The running month is partial; keep it out of the history.
		records = aggregate.Truncate(records, model.MonthOf(c.opts.Now()))
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: every row was rejected or in the current month", ErrNoInput)
	}

	agg, err := aggregate.Aggregate(records, c.opts.MinHistoryMonths)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoInput, err)
	}
	log.Printf("[INFO] aggregated %d records into %d categories over %s..%s",
		len(records), len(agg.Series), agg.Start, agg.End)

	insufficient := make(map[string]bool, len(agg.Insufficient))
	for _, name := range agg.Insufficient {
		insufficient[name] = true
	}

	set := &model.ForecastSet{
		RunID:       uuid.NewString(),
		GeneratedAt: c.opts.Now(),
		Categories:  make(map[string]*model.CategoryResult, len(agg.Series)),
		Diagnostics: model.Diagnostics{
			RowsSkipped:         skipped,
			InsufficientHistory: agg.Insufficient,
			ForecastUnavailable: make(map[string]string),
		},
	}

	// Actuals-only entries go in before any goroutine starts, so the map
	// is never written without the mutex once the fan-out is running.
	for _, series := range agg.Series {
		if !insufficient[series.Category] {
			continue
		}
		log.Printf("[WARN] category %q has fewer than %d non-zero months, actuals only",
			series.Category, c.opts.MinHistoryMonths)
		set.Categories[series.Category] = &model.CategoryResult{
			Category: series.Category,
			Status:   model.StatusActualsOnly,
			Series:   series,
		}
	}

	// Per-category fits are independent; fan out and merge by key, so
	// completion order never matters.
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Workers)
	for _, series := range agg.Series {
		if insufficient[series.Category] {
			continue
		}
		series := series
		g.Go(func() error {
			result := c.fitCategory(gctx, series)
			mu.Lock()
			set.Categories[series.Category] = result
			if result.Status == model.StatusUnavailable {
				set.Diagnostics.ForecastUnavailable[series.Category] = result.Reason
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // fit errors degrade per category, never propagate
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("run aborted: %w", err)
	}

	logRunSummary(set)
	return set, nil
}

func (c *Coordinator) fitCategory(ctx context.Context, series model.MonthlySeries) *model.CategoryResult {
	fitCtx := ctx
	if c.opts.FitTimeout > 0 {
		var cancel context.CancelFunc
		fitCtx, cancel = context.WithTimeout(ctx, c.opts.FitTimeout)
		defer cancel()
	}
	fc, err := c.fit(fitCtx, series, c.opts.Forecast)
	if err != nil {
		log.Printf("[ERROR] forecast for %q unavailable: %v", series.Category, err)
		return &model.CategoryResult{
			Category: series.Category,
			Status:   model.StatusUnavailable,
			Reason:   err.Error(),
			Series:   series,
		}
	}
	return &model.CategoryResult{
		Category: series.Category,
		Status:   model.StatusForecasted,
		Series:   series,
		Forecast: fc,
	}
}

func logRunSummary(set *model.ForecastSet) {
	forecasted := 0
	for _, res := range set.Categories {
		if res.Status == model.StatusForecasted {
			forecasted++
		}
	}
	unavailable := make([]string, 0, len(set.Diagnostics.ForecastUnavailable))
	for name := range set.Diagnostics.ForecastUnavailable {
		unavailable = append(unavailable, name)
	}
	sort.Strings(unavailable)
	log.Printf("[INFO] run %s: %d/%d categories forecasted, %d rows skipped, insufficient=%v, unavailable=%v",
		set.RunID, forecasted, len(set.Categories), set.Diagnostics.RowsSkipped,
		set.Diagnostics.InsufficientHistory, unavailable)
}
