package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"table-booking-backend/config"
	"table-booking-backend/internal/api"
	"table-booking-backend/internal/booking"
	"table-booking-backend/internal/catalog"
	"table-booking-backend/internal/clock"
	"table-booking-backend/internal/db"
	"table-booking-backend/internal/store"
)

func main() {
	// Setup logger
	logger := log.New(os.Stdout, "table-booking ", log.LstdFlags)

	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Printf("could not read .env: %v", err)
	}

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	// Initialize database
	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	appStore := store.NewGormStore(gormDB)
	clk := clock.NewSystem()

	tables := catalog.New(appStore, cfg.Booking.CatalogCacheTTL(), clk, logger)
	if *cfg.Booking.SeedDefaultTables {
		seedCtx, seedCancel := context.WithTimeout(context.Background(), 30*time.Second)
		_, err := tables.SeedIfMissing(seedCtx, catalog.DefaultLayout)
		seedCancel()
		if err != nil {
			logger.Fatalf("failed to seed tables: %v", err)
		}
	}

	engine := booking.NewEngineFromConfig(appStore, tables, clk, logger, &cfg.Booking)
	logger.Printf("booking engine ready (duration policy %s, timezone %s)", cfg.Booking.DurationPolicy, cfg.Booking.Location)

	// Initialize router
	router := api.NewRouter(api.NewHandler(engine, tables, appStore, logger), &cfg.Server)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start the server in a goroutine
	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Block until a signal is received.
	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	if sqlDB, err := gormDB.DB(); err == nil {
		sqlDB.Close()
	}
	logger.Println("Server gracefully stopped")
}
