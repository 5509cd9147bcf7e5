package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/abhi24703/dynamicpricing/internal/adjuster"
	"github.com/abhi24703/dynamicpricing/internal/artifact"
	"github.com/abhi24703/dynamicpricing/internal/config"
	"github.com/abhi24703/dynamicpricing/internal/dataset"
	"github.com/abhi24703/dynamicpricing/internal/estimator"
	"github.com/abhi24703/dynamicpricing/internal/model"
	"github.com/abhi24703/dynamicpricing/internal/pricing"
	"github.com/abhi24703/dynamicpricing/internal/recorder"
	"github.com/abhi24703/dynamicpricing/internal/scheduler"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "pricer",
		Usage: "hotel room price estimation from calendar, occupancy, and competitor context",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "configs/config.yaml",
				Usage:   "path to the YAML config file",
				EnvVars: []string{"PRICER_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			trainCommand(),
			predictCommand(),
			importanceCommand(),
			importCommand(),
			runCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// openRecorder falls back to a noop recorder when SQLite is unavailable so a
// failed history database never blocks a quote.
func openRecorder(cfg *config.Config) recorder.Recorder {
	if cfg.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}
	rec, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
	if err != nil {
		log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
		return recorder.NewNoopRecorder()
	}
	return rec
}

func openSource(cfg *config.Config, dataOverride string) (dataset.Source, func(), error) {
	if dataOverride != "" {
		return dataset.NewCSVSource(dataOverride), func() {}, nil
	}
	if cfg.Dataset.SQLitePath != "" {
		src, err := dataset.NewSQLiteSource(cfg.Dataset.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return src, func() { src.Close() }, nil
	}
	return dataset.NewCSVSource(cfg.Dataset.CSVPath), func() {}, nil
}

func restorePipeline(cfg *config.Config) (*pricing.Pipeline, error) {
	bundle, err := artifact.NewStore(cfg.Artifacts.Dir).Load()
	if err != nil {
		return nil, fmt.Errorf("load artifacts (run `pricer train` first): %w", err)
	}
	adj := adjuster.NewEngine(cfg.Pricing.BaselineCompetitorPrice)
	return pricing.Restore(bundle.Regressor, bundle.Scaler, bundle.Encoding, adj, bundle.ModelID), nil
}

func trainCommand() *cli.Command {
	return &cli.Command{
		Name:  "train",
		Usage: "train the price estimator on the historical dataset and save artifacts",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "data", Usage: "CSV dataset path (overrides config)"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			src, closeSrc, err := openSource(cfg, c.String("data"))
			if err != nil {
				return err
			}
			defer closeSrc()

			records, err := src.Load()
			if err != nil {
				return err
			}
			log.Printf("[INFO] loaded %d records from %s", len(records), src.Name())

			reg, err := estimator.New(cfg.Model.Algorithm, cfg.Model.Hyperparameters)
			if err != nil {
				return err
			}
			pipe := pricing.NewPipeline(reg, adjuster.NewEngine(cfg.Pricing.BaselineCompetitorPrice))

			eval, err := pipe.Train(records, cfg.Model.TestFraction, cfg.Model.Seed)
			if err != nil {
				return fmt.Errorf("train: %w", err)
			}
			fmt.Print(pricing.FormatEvaluation(eval))

			if ranked, err := pipe.FeatureImportance(); err == nil {
				fmt.Print(pricing.FormatImportances(ranked))
			}

			store := artifact.NewStore(cfg.Artifacts.Dir)
			if err := store.Save(&artifact.Bundle{
				ModelID:   pipe.ModelID(),
				Algorithm: cfg.Model.Algorithm,
				Regressor: pipe.Regressor(),
				Scaler:    pipe.Scaler(),
				Encoding:  pipe.DayEncoding(),
			}); err != nil {
				return fmt.Errorf("save artifacts: %w", err)
			}

			rec := openRecorder(cfg)
			defer rec.Close()
			if err := rec.RecordTraining(&recorder.TrainingRun{
				ModelID:   pipe.ModelID(),
				Algorithm: cfg.Model.Algorithm,
				Records:   len(records),
				TrainSize: eval.TrainSize,
				TestSize:  eval.TestSize,
				RMSE:      eval.RMSE,
				RSquared:  eval.RSquared,
			}); err != nil {
				log.Printf("[ERROR] record training run: %v", err)
			}
			return nil
		},
	}
}

func predictCommand() *cli.Command {
	return &cli.Command{
		Name:  "predict",
		Usage: "predict a price from saved artifacts",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "day", Required: true, Usage: "day name or 1-7 ordinal (1=Monday)"},
			&cli.BoolFlag{Name: "weekend", Usage: "weekend flag (not derived from day)"},
			&cli.BoolFlag{Name: "holiday", Usage: "holiday flag"},
			&cli.Float64Flag{Name: "occupancy", Required: true, Usage: "occupancy rate, 0.0-1.0"},
			&cli.Float64Flag{Name: "competitor", Required: true, Usage: "competitor price, INR"},
			&cli.BoolFlag{Name: "sweep", Usage: "also print one-factor-at-a-time scenario variations"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			pipe, err := restorePipeline(cfg)
			if err != nil {
				return err
			}

			ctx := model.PricingContext{
				DayOfWeek:       c.String("day"),
				IsWeekend:       c.Bool("weekend"),
				IsHoliday:       c.Bool("holiday"),
				OccupancyRate:   c.Float64("occupancy"),
				CompetitorPrice: c.Float64("competitor"),
			}

			quote, err := pipe.PredictPrice(ctx)
			if err != nil {
				return err
			}
			fmt.Print(pricing.FormatQuote(quote))

			rec := openRecorder(cfg)
			defer rec.Close()
			if err := rec.RecordQuote(quote); err != nil {
				log.Printf("[ERROR] record quote: %v", err)
			}

			if c.Bool("sweep") {
				return printSweep(pipe, ctx)
			}
			return nil
		},
	}
}

// printSweep varies one factor at a time around the base context.
func printSweep(pipe *pricing.Pipeline, base model.PricingContext) error {
	fmt.Println("\nScenario sweep (one factor varied, others held fixed)")

	fmt.Println("  occupancy:")
	for _, occ := range []float64{0.2, 0.4, 0.5, 0.65, 0.75, 0.85, 0.95} {
		quote, err := pipe.PredictPrice(base.WithOccupancy(occ))
		if err != nil {
			return err
		}
		fmt.Printf("    %.2f  ₹%.2f\n", occ, quote.FinalPrice)
	}

	fmt.Println("  competitor price:")
	for _, cp := range []float64{4000, 6000, 8000, 10000, 12000} {
		quote, err := pipe.PredictPrice(base.WithCompetitorPrice(cp))
		if err != nil {
			return err
		}
		fmt.Printf("    %.0f  ₹%.2f\n", cp, quote.FinalPrice)
	}

	fmt.Println("  day of week:")
	for _, day := range []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"} {
		quote, err := pipe.PredictPrice(base.WithDay(day))
		if err != nil {
			return err
		}
		fmt.Printf("    %-9s  ₹%.2f\n", day, quote.FinalPrice)
	}
	return nil
}

func importanceCommand() *cli.Command {
	return &cli.Command{
		Name:  "importance",
		Usage: "print ranked feature importances from saved artifacts",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			pipe, err := restorePipeline(cfg)
			if err != nil {
				return err
			}
			ranked, err := pipe.FeatureImportance()
			if err != nil {
				return err
			}
			fmt.Print(pricing.FormatImportances(ranked))
			return nil
		},
	}
}

func importCommand() *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "import a CSV dataset into the SQLite records table",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "data", Usage: "CSV dataset path (overrides config)"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if cfg.Dataset.SQLitePath == "" {
				return fmt.Errorf("dataset.sqlite_path is not configured")
			}

			csvPath := c.String("data")
			if csvPath == "" {
				csvPath = cfg.Dataset.CSVPath
			}
			records, err := dataset.NewCSVSource(csvPath).Load()
			if err != nil {
				return err
			}

			dst, err := dataset.NewSQLiteSource(cfg.Dataset.SQLitePath)
			if err != nil {
				return err
			}
			defer dst.Close()

			if err := dst.Insert(records); err != nil {
				return err
			}
			log.Printf("[INFO] imported %d records into %s", len(records), cfg.Dataset.SQLitePath)
			return nil
		},
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "run the daily repricing daemon from saved artifacts",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			pipe, err := restorePipeline(cfg)
			if err != nil {
				return err
			}

			rec := openRecorder(cfg)
			defer rec.Close()

			holidays := make(map[string]bool, len(cfg.Schedule.Holidays))
			for _, d := range cfg.Schedule.Holidays {
				holidays[d] = true
			}
			provider := &scheduler.ClockProvider{
				OccupancyRate:   cfg.Schedule.OccupancyRate,
				CompetitorPrice: cfg.Schedule.CompetitorPrice,
				Holidays:        holidays,
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sched := scheduler.NewScheduler(ctx, pipe, provider, rec)
			if err := sched.Register(cfg.Schedule.DailyCron); err != nil {
				return err
			}
			sched.Start()
			defer sched.Stop()

			if os.Getenv("RUN_ON_START") == "true" {
				log.Println("[INFO] RUN_ON_START enabled, repricing now")
				go sched.RunNow()
			}

			log.Println("[INFO] pricer daemon is running. Press Ctrl+C to stop.")
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			<-sigCh

			log.Println("[INFO] shutdown signal received, stopping...")
			return nil
		},
	}
}
