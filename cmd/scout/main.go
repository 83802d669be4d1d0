package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/veldt-labs/scout/internal/config"
	dbRedis "github.com/veldt-labs/scout/internal/db/redis"
	"github.com/veldt-labs/scout/internal/domain"
	"github.com/veldt-labs/scout/internal/domain/schema"
	logpkg "github.com/veldt-labs/scout/internal/logger"
	"github.com/veldt-labs/scout/internal/metrics"
	mcpTransport "github.com/veldt-labs/scout/internal/transport/mcp"
	openaiEmb "github.com/veldt-labs/scout/internal/transport/openai"
	"github.com/veldt-labs/scout/internal/transport/ops"
	healthuc "github.com/veldt-labs/scout/internal/usecase/health"
	"github.com/veldt-labs/scout/internal/usecase/reconcile"
	searchuc "github.com/veldt-labs/scout/internal/usecase/search"
	storeuc "github.com/veldt-labs/scout/internal/usecase/store"
	"github.com/veldt-labs/scout/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting scout MCP server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.String("domain", cfg.Server.Domain),
		zap.String("transport", cfg.Server.Transport),
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

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterSearchMetrics()

	sch, err := schema.Get(schema.Domain(cfg.Server.Domain))
	if err != nil {
		logger.Fatal("Unknown search domain", zap.Error(err))
	}

	reconciler, err := reconcile.New(store, sch, reconcile.Options{
		KeyPrefix:   cfg.Storage.KeyPrefix,
		VectorDim:   cfg.Embedding.Dimensions,
		HNSWM:       cfg.Index.HNSWM,
		EFConstruct: cfg.Index.HNSWEFConstruct,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to build index reconciler", zap.Error(err))
	}

	base, err := openaiEmb.NewProvider(cfg.Embedding.Provider, &openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Logger:     logger,
	})
	if err != nil {
		logger.Fatal("Failed to create embedding provider", zap.Error(err))
	}
	logger.Info("Embedder created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	queryEmbedder := withInstruction(base, cfg.Embedding.QueryInstruction)
	docEmbedder := withInstruction(base, cfg.Embedding.DocumentInstruction)

	searchSvc := searchuc.New(store, queryEmbedder, reconciler, sch, cfg.Storage.KeyPrefix, logger)

	srv := mcpTransport.New(cfg.Server.Name, version.Version, logger)
	switch schema.Domain(cfg.Server.Domain) {
	case schema.DomainCode:
		var storeSvc mcpTransport.StoreService
		if !cfg.Server.ReadOnly {
			storeSvc = storeuc.New(store, docEmbedder, reconciler, sch, cfg.Storage.KeyPrefix, logger)
		}
		srv.RegisterCodeTools(sch, searchSvc, storeSvc, cfg.Search.DefaultLimit)
	case schema.DomainMailbox:
		srv.RegisterMailboxTools(sch, searchSvc, cfg.Search.DefaultLimit)
	}

	var opsSrv *ops.Server
	if cfg.Ops.Enabled {
		healthSvc := healthuc.New(store, base)
		opsSrv = ops.New(ops.Config{
			Addr:            fmt.Sprintf(":%d", cfg.Ops.Port),
			ReadTimeout:     time.Duration(cfg.Ops.ReadTimeoutSec) * time.Second,
			WriteTimeout:    time.Duration(cfg.Ops.WriteTimeoutSec) * time.Second,
			ShutdownTimeout: time.Duration(cfg.Ops.ShutdownSec) * time.Second,
		}, healthSvc, logger)
		go func() {
			if err := opsSrv.Run(); err != nil {
				logger.Fatal("Ops listener error", zap.Error(err))
			}
		}()
	}

	serveErr := make(chan error, 1)
	go func() {
		switch cfg.Server.Transport {
		case "sse":
			serveErr <- srv.ServeSSE(cfg.Server.SSEAddr)
		default:
			serveErr <- srv.ServeStdio()
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		if err != nil {
			logger.Fatal("MCP server error", zap.Error(err))
		}
	case <-quit:
		logger.Info("Received shutdown signal")
	}

	if opsSrv != nil {
		if err := opsSrv.Shutdown(context.Background()); err != nil {
			logger.Error("Error during ops shutdown", zap.Error(err))
		}
	}

	logger.Info("Server stopped gracefully")
}

// withInstruction wraps the embedder with an instruction prefix when configured.
func withInstruction(base domain.Embedder, instruction string) domain.Embedder {
	if instruction == "" {
		return base
	}
	return domain.NewInstructionEmbedder(base, instruction)
}
