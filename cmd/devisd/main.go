package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/truescope/devisd/internal/config"
	"github.com/truescope/devisd/internal/db"
	dbMemory "github.com/truescope/devisd/internal/db/memory"
	dbRedis "github.com/truescope/devisd/internal/db/redis"
	"github.com/truescope/devisd/internal/domain"
	logpkg "github.com/truescope/devisd/internal/logger"
	"github.com/truescope/devisd/internal/metrics"
	catalogrepo "github.com/truescope/devisd/internal/repository/catalog"
	interventionrepo "github.com/truescope/devisd/internal/repository/intervention"
	quoterepo "github.com/truescope/devisd/internal/repository/quote"
	chiTransport "github.com/truescope/devisd/internal/transport/chi"
	openaiGen "github.com/truescope/devisd/internal/transport/openai"
	healthuc "github.com/truescope/devisd/internal/usecase/health"
	"github.com/truescope/devisd/internal/usecase/matching"
	pricinguc "github.com/truescope/devisd/internal/usecase/pricing"
	quoteuc "github.com/truescope/devisd/internal/usecase/quote"
	"github.com/truescope/devisd/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting devisd API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	// Create database store based on driver
	var store db.Store
	switch cfg.Database.Driver {
	case "redis":
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
		})
	case "memory":
		store = dbMemory.NewStore()
	default:
		logger.Fatal("Unknown database driver", zap.String("driver", cfg.Database.Driver))
	}
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register generation metrics explicitly (no init())
	metrics.RegisterGenerationMetrics()

	// Repositories
	corpusRepo := interventionrepo.New(store)
	requestRepo := quoterepo.New(store)
	catalogRepo := catalogrepo.New(store)

	// Use case services — composition root
	pricingSvc := pricinguc.New(
		catalogRepo,
		time.Duration(cfg.Catalog.CacheTTLSec)*time.Second,
		nil,
		fallbackCatalog(),
		metrics.CatalogCacheTotal,
		logger,
	)

	if cfg.Catalog.SeedOnStart {
		n, err := pricingSvc.Seed(ctx)
		if err != nil {
			logger.Fatal("Failed to seed price catalog", zap.Error(err))
		}
		logger.Info("Price catalog seeded", zap.Int("entries", n))
	}

	matcherSvc := matching.New(corpusRepo, matching.Params{
		KeywordWeight:    cfg.Matching.KeywordWeight,
		TextWeight:       cfg.Matching.TextWeight,
		ProblemTypeBonus: cfg.Matching.ProblemTypeBonus,
		MinScore:         cfg.Matching.MinScore,
		MaxResults:       cfg.Matching.MaxResults,
		HighMaxScore:     cfg.Matching.HighMaxScore,
		HighAvgScore:     cfg.Matching.HighAvgScore,
		MediumMaxScore:   cfg.Matching.MediumMaxScore,
		MediumAvgScore:   cfg.Matching.MediumAvgScore,
	}, logger)

	generator := openaiGen.NewGenerator(&openaiGen.Config{
		APIKey:  cfg.Generation.APIKey,
		BaseURL: cfg.Generation.BaseURL,
		Model:   cfg.Generation.Model,
		Timeout: time.Duration(cfg.Generation.TimeoutSec) * time.Second,
		Logger:  logger,
	})
	logger.Info("Generator created",
		zap.String("model", cfg.Generation.Model),
		zap.Bool("api_key_set", cfg.Generation.APIKey != ""),
	)

	quoteSvc := quoteuc.New(requestRepo, corpusRepo, matcherSvc, pricingSvc, generator, nil, nil, logger)
	healthSvc := healthuc.New(store, generator)

	// HTTP server
	server := chiTransport.NewServer(quoteSvc, pricingSvc, corpusRepo, matcherSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// fallbackCatalog builds the in-process catalog served when the store cannot
// be read and nothing is cached yet. Same data as the seed defaults.
func fallbackCatalog() domain.Catalog {
	c := make(domain.Catalog)
	for _, p := range catalogrepo.DefaultPrices() {
		tc := c[p.Trade]
		switch p.Category {
		case domain.CategoryLabor:
			tc.Labor = append(tc.Labor, p)
		case domain.CategoryMaterials:
			tc.Materials = append(tc.Materials, p)
		}
		c[p.Trade] = tc
	}
	return c
}

func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
