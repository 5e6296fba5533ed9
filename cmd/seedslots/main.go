// Command seedslots fills the next days of the booking book with random
// reservations until a target share of slots is taken.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"table-booking-backend/config"
	"table-booking-backend/internal/booking"
	"table-booking-backend/internal/catalog"
	"table-booking-backend/internal/clock"
	"table-booking-backend/internal/db"
	"table-booking-backend/internal/seeder"
	"table-booking-backend/internal/store"
)

func main() {
	logger := log.New(os.Stdout, "seedslots ", log.LstdFlags)

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Printf("could not read .env: %v", err)
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}

	days := flag.Int("days", cfg.Seeder.Days, "number of days to fill, starting tomorrow")
	target := flag.Float64("target-ratio", cfg.Seeder.TargetRatio, "stop once this share of slots is taken")
	maxAttempts := flag.Int("max-attempts", cfg.Seeder.MaxAttempts, "upper bound on create attempts")
	seed := flag.Int64("seed", cfg.Seeder.Seed, "random seed, for reproducible runs")
	workers := flag.Int("workers", cfg.Seeder.Workers, "concurrent create attempts")
	dryRun := flag.Bool("dry-run", false, "only report current occupancy")
	flag.Parse()

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	appStore := store.NewGormStore(gormDB)
	clk := clock.NewSystem()
	tables := catalog.New(appStore, cfg.Booking.CatalogCacheTTL(), clk, logger)
	if *cfg.Booking.SeedDefaultTables {
		if _, err := tables.SeedIfMissing(ctx, catalog.DefaultLayout); err != nil {
			logger.Fatalf("failed to seed tables: %v", err)
		}
	}
	engine := booking.NewEngineFromConfig(appStore, tables, clk, logger, &cfg.Booking)

	today := clk.Now().In(cfg.Booking.Location)
	pool := seeder.NewWorkerPool(*workers, engine, logger)
	res, err := pool.Run(ctx, seeder.Options{
		Start:        today.AddDate(0, 0, 1),
		Days:         *days,
		TargetRatio:  *target,
		MaxAttempts:  *maxAttempts,
		Seed:         *seed,
		ConfirmRatio: cfg.Seeder.ConfirmRatio,
		DryRun:       *dryRun,
	})
	if err != nil && res == nil {
		logger.Fatalf("seeding failed: %v", err)
	}
	if err != nil {
		logger.Printf("seeding stopped early: %v", err)
	}

	logger.Printf("attempts=%d created=%d confirmed=%d no_availability=%d conflicts=%d rejected=%d",
		res.Attempts, res.Created, res.Confirmed, res.NoAvailability, res.Conflicts, res.Rejected)
	logger.Printf("occupancy %s..%s: before %.1f%% after %.1f%% (%d/%d slots)",
		res.After.From, res.After.To, res.Before.Ratio*100, res.After.Ratio*100, res.After.UsedSlots, res.After.Capacity)
}
