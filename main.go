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

	appLogger "github.com/FACorreiaa/go-city-trip-planner/app/logger"
	"github.com/FACorreiaa/go-city-trip-planner/config"
	"github.com/FACorreiaa/go-city-trip-planner/internal/api/attractions"
	"github.com/FACorreiaa/go-city-trip-planner/internal/api/extractor"
	generativeAI "github.com/FACorreiaa/go-city-trip-planner/internal/api/generative_ai"
	"github.com/FACorreiaa/go-city-trip-planner/internal/api/planner"
	"github.com/FACorreiaa/go-city-trip-planner/internal/api/retrieval"
	"github.com/FACorreiaa/go-city-trip-planner/internal/api/sources"
	"github.com/FACorreiaa/go-city-trip-planner/internal/api/trip"
	api "github.com/FACorreiaa/go-city-trip-planner/internal/router"
	"github.com/FACorreiaa/go-city-trip-planner/internal/types"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
)

func main() {
	// Use standard log until slog is configured, in case godotenv fails
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	logger := setupLogger(cfg.Mode)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// --- Generative AI Setup ---
	aiClient, err := generativeAI.NewAIClient(ctx, cfg.Gemini.Model, float32(cfg.Gemini.Temperature), cfg.Gemini.Timeout)
	if err != nil {
		logger.Error("Failed to create AI client", slog.Any("error", err))
		os.Exit(1)
	}
	embeddingService := generativeAI.NewEmbeddingService(aiClient, cfg.Gemini.EmbeddingModel, logger)
	agent := generativeAI.NewFunctionAgent(aiClient, cfg.Planner.MaxIterations, logger)

	// --- Dependency Injection ---
	extractorService := extractor.NewServiceImpl(aiClient, logger)

	wikiClient := sources.NewWikipediaClient(cfg.Wikipedia.BaseURL, cfg.Fetch.Timeout, logger)
	webFetcher := sources.NewWebFetcher(cfg.Fetch.Timeout, logger)
	fetcher := sources.NewFetcherImpl(wikiClient, webFetcher, logger)

	attractionRepo := attractions.NewFileRepository(cfg.Store.Dir, logger)
	attractionService := attractions.NewServiceImpl(attractionRepo, fetcher, extractorService, logger)

	indexFactory := func(ctx context.Context, city string, collection *types.AttractionCollection) (planner.Retriever, error) {
		return retrieval.NewIndex(ctx, embeddingService, attractionRepo.CityDir(city), collection, logger)
	}

	plannerService := planner.NewServiceImpl(
		attractionService,
		indexFactory,
		agent,
		extractorService,
		wikiClient,
		cfg.Planner.TopK,
		sourcesByCity(cfg.Trip),
		logger,
	)

	tripHandler, err := trip.NewHandler(plannerService, cfg.Trip, logger)
	if err != nil {
		logger.Error("Failed to create trip handler", slog.Any("error", err))
		os.Exit(1)
	}

	// --- Router Setup ---
	mainRouter := api.SetupRouter(&api.Config{TripHandler: tripHandler})

	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(appLogger.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.StripSlashes)
	router.Use(middleware.Timeout(cfg.Server.Timeout))
	router.Mount("/", mainRouter)

	// --- HTTP Server Setup ---
	serverAddress := fmt.Sprintf(":%s", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddress,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.Server.Timeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	go func() {
		logger.Info("Starting HTTP server", slog.String("address", serverAddress))
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server ListenAndServe error", slog.Any("error", err))
			cancel()
		}
	}()

	<-ctx.Done()

	logger.Info("Shutdown signal received, starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
	} else {
		logger.Info("HTTP server gracefully stopped")
	}

	logger.Info("Application shut down complete.")
}

// sourcesByCity flattens the configured city sources into the per-city source
// lists the cache builds from, wiki pages first, preserving order.
func sourcesByCity(cfg config.TripConfig) map[string][]types.SourceRef {
	out := make(map[string][]types.SourceRef, len(cfg.Cities))
	for _, city := range cfg.Cities {
		refs := make([]types.SourceRef, 0, len(city.WikiPages)+len(city.WebPages))
		for _, page := range city.WikiPages {
			refs = append(refs, types.SourceRef{Kind: types.SourceWiki, Ref: page})
		}
		for _, page := range city.WebPages {
			refs = append(refs, types.SourceRef{Kind: types.SourceWeb, Ref: page})
		}
		out[city.Name] = refs
	}
	return out
}

// setupLogger configures and returns the application logger.
func setupLogger(mode string) *slog.Logger {
	var logger *slog.Logger

	if mode == "development" || mode == "" {
		// Colored logs for development
		tintOpts := &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}
		logger = slog.New(tint.NewHandler(os.Stdout, tintOpts))
	} else {
		// JSON logs for production or other environments
		jsonOpts := &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}
		logger = slog.New(slog.NewJSONHandler(os.Stdout, jsonOpts))
	}
	return logger
}
