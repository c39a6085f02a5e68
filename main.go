package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	appLogger "github.com/FACorreiaa/go-trip-planner/app/logger"
	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-planner/app/tracer"
	"github.com/FACorreiaa/go-trip-planner/config"
	"github.com/FACorreiaa/go-trip-planner/internal/api/auth"
	"github.com/FACorreiaa/go-trip-planner/internal/api/tours"
	"github.com/FACorreiaa/go-trip-planner/internal/client"
	"github.com/FACorreiaa/go-trip-planner/internal/places"
	"github.com/FACorreiaa/go-trip-planner/internal/planner"
	api "github.com/FACorreiaa/go-trip-planner/internal/router"
	"github.com/FACorreiaa/go-trip-planner/internal/search"
	"github.com/FACorreiaa/go-trip-planner/internal/statestore"
)

func main() {
	// --- Initial Loading ---
	// Use standard log until slog is configured, in case godotenv fails
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	// --- Logger Setup ---
	logger := setupLogger()
	slog.SetDefault(logger)

	// --- Observability ---
	tracer.InitTracingAndMetrics(cfg.Handlers.Prometheus.Port)
	metrics.InitAppMetrics()

	// --- Application Context & Shutdown ---
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// --- Local State ---
	store, err := statestore.NewFileStore(cfg.State.Dir, logger)
	if err != nil {
		logger.Error("Failed to initialize state store", slog.Any("error", err))
		os.Exit(1)
	}
	deviceID, err := store.DeviceID()
	if err != nil {
		logger.Error("Failed to load device identifier", slog.Any("error", err))
		os.Exit(1)
	}

	// --- Backend Client ---
	backend := client.New(cfg.Backend.BaseURL, deviceID, cfg.Backend.Timeout, logger)

	// --- Place Provider ---
	// The commercial places API only comes into play when a key is
	// configured; otherwise searches go through the trip backend.
	var provider places.Provider = backend
	if cfg.Places.APIKey != "" {
		logger.Info("Using commercial places API for destination search")
		provider = places.NewGoogleProvider(cfg.Places.BaseURL, cfg.Places.APIKey, nil)
	}
	placesService := places.NewServiceImpl(provider, cfg.Places.CacheTTL, logger)

	// --- Stores & Handlers ---
	plannerService := planner.NewServiceImpl(store, backend, logger)
	plannerHandler := planner.NewHandler(plannerService, logger)

	searchService := search.NewServiceImpl(cfg.Search.PageSize, logger)
	searchHandler := search.NewHandler(searchService, placesService, logger)

	authHandler := auth.NewHandler(backend, logger)
	toursHandler := tours.NewHandler(backend, logger)

	// --- Router Setup ---
	routerConfig := &api.Config{
		PlannerHandler: plannerHandler,
		SearchHandler:  searchHandler,
		AuthHandler:    authHandler,
		ToursHandler:   toursHandler,
	}
	mainRouter := api.SetupRouter(routerConfig)

	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(appLogger.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.StripSlashes)
	router.Use(middleware.Timeout(cfg.Server.Timeout))
	router.Use(middleware.Compress(5, "application/json"))
	router.Mount("/", mainRouter)

	// --- HTTP Server Setup ---
	serverAddress := fmt.Sprintf("127.0.0.1:%s", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddress,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	// --- Start Server Goroutine ---
	go func() {
		logger.Info("Starting trip planner engine", slog.String("address", serverAddress))
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server ListenAndServe error", slog.Any("error", err))
			cancel()
		}
	}()

	// --- Wait for Shutdown Signal ---
	<-ctx.Done()

	// --- Graceful Shutdown ---
	logger.Info("Shutdown signal received, starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
	} else {
		logger.Info("HTTP server gracefully stopped")
	}

	logger.Info("Engine shut down complete.")
}

// setupLogger configures and returns the application logger.
func setupLogger() *slog.Logger {
	var logger *slog.Logger
	env := os.Getenv("APP_ENV")

	if env == "development" || env == "" { // Default to development if not set
		// Colored logs for development
		tintOpts := &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}
		logger = slog.New(tint.NewHandler(os.Stdout, tintOpts))
		log.Println("Initialized development logger (tint)")
	} else {
		// JSON logs for production or other environments
		jsonOpts := &slog.HandlerOptions{
			Level:     slog.LevelInfo,
			AddSource: false,
		}
		logger = slog.New(slog.NewJSONHandler(os.Stdout, jsonOpts))
		log.Println("Initialized production logger (JSON)")
	}
	return logger
}
