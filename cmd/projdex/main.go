package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/projdex/internal/config"
	dbRedis "github.com/kailas-cloud/projdex/internal/db/redis"
	"github.com/kailas-cloud/projdex/internal/domain/search/filter"
	logpkg "github.com/kailas-cloud/projdex/internal/logger"
	"github.com/kailas-cloud/projdex/internal/metrics"
	catalogrepo "github.com/kailas-cloud/projdex/internal/repository/catalog"
	searchindexrepo "github.com/kailas-cloud/projdex/internal/repository/searchindex"
	githubTransport "github.com/kailas-cloud/projdex/internal/transport/github"
	openaiTransport "github.com/kailas-cloud/projdex/internal/transport/openai"
	resendTransport "github.com/kailas-cloud/projdex/internal/transport/resend"
	"github.com/kailas-cloud/projdex/internal/version"

	chiTransport "github.com/kailas-cloud/projdex/internal/transport/chi"
	facetsuc "github.com/kailas-cloud/projdex/internal/usecase/facets"
	indexeruc "github.com/kailas-cloud/projdex/internal/usecase/indexer"
	intakeuc "github.com/kailas-cloud/projdex/internal/usecase/intake"
	reviewuc "github.com/kailas-cloud/projdex/internal/usecase/review"
	searchuc "github.com/kailas-cloud/projdex/internal/usecase/search"
)

func main() {
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

	logger.Info("Starting projdex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	metrics.RegisterProviderMetrics()

	// Repositories over the shared store: a JSON catalog for review
	// records plus a hash-based search index with vector fields.
	catalogRepo := catalogrepo.New(store, cfg.Storage.KeyPrefix)
	indexRepo := searchindexrepo.New(
		store, cfg.Storage.KeyPrefix,
		cfg.Embedding.Dimensions, cfg.Search.HNSWM, cfg.Search.HNSWEFConstruct,
	)

	if err := catalogRepo.EnsureIndex(ctx, store); err != nil {
		logger.Fatal("Failed to ensure catalog index", zap.Error(err))
	}
	if err := indexRepo.EnsureIndex(ctx, store); err != nil {
		logger.Fatal("Failed to ensure search index", zap.Error(err))
	}

	embedder := openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Logger:     logger,
	})

	extractor := openaiTransport.NewExtractor(&openaiTransport.ExtractorConfig{
		APIKey:  cfg.Extraction.APIKey,
		BaseURL: cfg.Extraction.BaseURL,
		Model:   cfg.Extraction.Model,
		Logger:  logger,
	})

	readmeFetcher := githubTransport.NewReadmeFetcher(logger)

	notifier := resendTransport.NewNotifier(&resendTransport.Config{
		APIKey:    cfg.Notify.APIKey,
		BaseURL:   cfg.Notify.BaseURL,
		From:      cfg.Notify.From,
		Reviewers: splitList(cfg.Notify.Reviewers),
		Logger:    logger,
	})

	indexerSvc := indexeruc.New(indexRepo, embedder)
	intakeSvc := intakeuc.New(readmeFetcher, extractor)
	reviewSvc := reviewuc.New(catalogRepo, indexerSvc, notifier)
	facetsSvc := facetsuc.New(catalogRepo)
	searchSvc := searchuc.New(indexRepo, embedder, searchuc.Options{
		VectorField:  searchindexrepo.FieldDescriptionVector,
		KNNNeighbors: cfg.Search.KNNNeighbors,
		Window:       cfg.Search.ResultWindow,
		SingleSelect: filter.ParseSingleSelectMode(cfg.Search.SingleSelect),
	})

	identity := chiTransport.NewIdentity(cfg.Admin.Emails)
	server := chiTransport.NewServer(
		intakeSvc, reviewSvc, searchSvc, facetsSvc, identity, store, logger,
	)

	r := chi.NewRouter()
	r.Use(chiTransport.JSONRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiTransport.WideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

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

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
