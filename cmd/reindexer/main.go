// Command reindexer rebuilds the search index from approved catalog
// records. Run it after index schema changes or to converge approvals
// whose index write failed.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/projdex/internal/config"
	dbRedis "github.com/kailas-cloud/projdex/internal/db/redis"
	"github.com/kailas-cloud/projdex/internal/domain"
	logpkg "github.com/kailas-cloud/projdex/internal/logger"
	"github.com/kailas-cloud/projdex/internal/metrics"
	catalogrepo "github.com/kailas-cloud/projdex/internal/repository/catalog"
	searchindexrepo "github.com/kailas-cloud/projdex/internal/repository/searchindex"
	openaiTransport "github.com/kailas-cloud/projdex/internal/transport/openai"
	indexeruc "github.com/kailas-cloud/projdex/internal/usecase/indexer"
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

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := logpkg.ContextWithLogger(context.Background(), logger)
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}

	metrics.RegisterProviderMetrics()

	catalogRepo := catalogrepo.New(store, cfg.Storage.KeyPrefix)
	indexRepo := searchindexrepo.New(
		store, cfg.Storage.KeyPrefix,
		cfg.Embedding.Dimensions, cfg.Search.HNSWM, cfg.Search.HNSWEFConstruct,
	)

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

	indexerSvc := indexeruc.New(indexRepo, embedder)

	approved, err := catalogRepo.ListByStatus(ctx, domain.StatusApproved)
	if err != nil {
		logger.Fatal("Failed to list approved records", zap.Error(err))
	}

	pending, err := catalogRepo.CountByStatus(ctx, domain.StatusPending)
	if err != nil {
		logger.Warn("Failed to count pending records", zap.Error(err))
	}

	fmt.Printf("Reindexing %d approved records (%d pending, not indexed)\n", len(approved), pending)

	failed := 0
	for _, rec := range approved {
		marker := "new"
		if existed, err := indexRepo.Exists(ctx, rec.ID); err == nil && existed {
			marker = "refresh"
		}

		if _, err := indexerSvc.Index(ctx, rec); err != nil {
			failed++
			fmt.Printf("FAIL  %s  %s  (%v)\n", rec.ID, rec.GithubURL, err)
			continue
		}
		fmt.Printf("OK    %s  %s  (%s)\n", rec.ID, rec.GithubURL, marker)
	}

	fmt.Printf("Done: %d indexed, %d failed\n", len(approved)-failed, failed)
	if failed > 0 {
		os.Exit(1)
	}
}
