package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"LedgerCast/internal/config"
	"LedgerCast/internal/forecast"
	"LedgerCast/internal/ingest"
	"LedgerCast/internal/pipeline"
	"LedgerCast/internal/recorder"
	"LedgerCast/internal/report"
	"LedgerCast/internal/scheduler"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	var (
		inputFlag  = flag.String("input", "", "path to the ledger CSV export (overrides config)")
		outputFlag = flag.String("output", "", "path to save the Excel forecast (overrides config)")
		configFlag = flag.String("config", "", "path to the YAML config file")
		schedule   = flag.Bool("schedule", false, "keep running and re-forecast on the configured cron")
	)
	flag.Parse()

	// .env before config, so env overrides in config.Load see it.
	if err := godotenv.Load(); err == nil {
		log.Println("[INFO] loaded .env")
	}

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	if *configFlag != "" {
		cfgPath = *configFlag
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if *inputFlag != "" {
		cfg.Input.Path = *inputFlag
	}
	if *outputFlag != "" {
		cfg.Output.ExcelPath = *outputFlag
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if !*schedule {
		if err := runOnce(ctx, cfg, rec); err != nil {
			log.Fatalf("[FATAL] %v", err)
		}
		return
	}

	if cfg.Schedule.Cron == "" {
		log.Fatal("[FATAL] --schedule requires schedule.cron in config")
	}
	sched := scheduler.New(ctx)
	if err := sched.Register(cfg.Schedule.Cron, func(ctx context.Context) {
		if err := runOnce(ctx, cfg, rec); err != nil {
			log.Printf("[ERROR] scheduled run: %v", err)
		}
	}); err != nil {
		log.Fatalf("[FATAL] %v", err)
	}
	sched.Start()
	defer sched.Stop()
	log.Printf("[INFO] ledgercast running on cron %q, press Ctrl+C to stop", cfg.Schedule.Cron)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
}

func buildCoordinator(cfg *config.Config) *pipeline.Coordinator {
	source := ingest.NewCSVSource(cfg.Input.Path, ingest.CSVColumns{
		Date:     cfg.Input.DateColumn,
		Category: cfg.Input.CategoryColumn,
		Amount:   cfg.Input.AmountColumn,
	})
	types, _ := cfg.CategoryTypes() // validated already
	norm := ingest.NewNormalizer(cfg.Categories.Synonyms, types)
	return pipeline.New(source, norm, pipeline.Options{
		MinHistoryMonths: cfg.Forecast.MinHistoryMonths,
		Forecast: forecast.Options{
			Horizon:         cfg.Forecast.Horizon,
			Confidence:      cfg.Forecast.ConfidenceLevel,
			MaxDifferencing: cfg.Forecast.MaxDifferencing, // resolved by config.Load
			SeasonalPeriod:  cfg.Forecast.SeasonalPeriod,
		},
		FitTimeout:          time.Duration(cfg.Forecast.FitTimeout),
		IncludeCurrentMonth: cfg.Forecast.IncludeCurrentMonth,
		Workers:             cfg.Forecast.Workers,
	})
}

func runOnce(ctx context.Context, cfg *config.Config, rec recorder.Recorder) error {
	// A fresh coordinator per run keeps skip counters and warnings per-run.
	set, err := buildCoordinator(cfg).Run(ctx)
	if err != nil {
		return fmt.Errorf("pipeline run: %w", err)
	}

	if err := rec.RecordRun(set); err != nil {
		log.Printf("[WARN] record run: %v", err)
	}

	if cfg.Output.ExcelPath != "" {
		if err := report.WriteExcel(set, cfg.Output.ExcelPath); err != nil {
			return fmt.Errorf("write excel report: %w", err)
		}
		log.Printf("[INFO] forecast saved to %s", cfg.Output.ExcelPath)
	}
	if cfg.Output.CSVPath != "" {
		f, err := os.Create(cfg.Output.CSVPath)
		if err != nil {
			return fmt.Errorf("create csv report: %w", err)
		}
		if err := report.WriteCSV(f, set); err != nil {
			f.Close()
			return fmt.Errorf("write csv report: %w", err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		log.Printf("[INFO] forecast table saved to %s", cfg.Output.CSVPath)
	}

	fmt.Print(report.FormatRunSummary(set))
	return nil
}
