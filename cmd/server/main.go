package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/gracetownland/OER-AI/internal/api"
	"github.com/gracetownland/OER-AI/internal/blobstore"
	"github.com/gracetownland/OER-AI/internal/config"
	"github.com/gracetownland/OER-AI/internal/embedding"
	"github.com/gracetownland/OER-AI/internal/llm"
	"github.com/gracetownland/OER-AI/internal/pipeline"
	"github.com/gracetownland/OER-AI/internal/practice"
	"github.com/gracetownland/OER-AI/internal/rag"
	"github.com/gracetownland/OER-AI/internal/vectorstore"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Postgres: vector store and FAQ cache share the pool.
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("postgres connection failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	store := vectorstore.NewStore(pool, cfg.EmbeddingDims)
	if err := store.EnsureSchema(ctx); err != nil {
		log.Error("vector store schema setup failed", "error", err)
		os.Exit(1)
	}
	faq := rag.NewFAQCache(pool, cfg.EmbeddingDims)
	if err := faq.EnsureSchema(ctx); err != nil {
		log.Error("faq cache schema setup failed", "error", err)
		os.Exit(1)
	}

	// Redis: chat history and the rolling token window.
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer rdb.Close()

	// Clients.
	llmClient := llm.NewClient(cfg.AnthropicBaseURL, cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.LLMMaxTokens)
	guardrail := llm.NewGuardrail(cfg.GuardrailURL, cfg.GuardrailAPIKey, log)
	embedder := embedding.NewClient(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModel)
	blobs := blobstore.NewClient(cfg.BlobstoreURL, cfg.BlobstoreBucket, cfg.BlobstoreAPIKey)

	// Ingestion pipeline.
	orch := pipeline.NewOrchestrator(cfg, blobs, embedder, store, log)
	orch.Start(ctx)

	// Chat and practice services.
	history := rag.NewHistory(rdb)
	limiter := rag.NewTokenLimiter(rdb, cfg.DailyTokenCap)
	chat := rag.NewService(llmClient, guardrail, embedder, store, faq, history, limiter, log, rag.ServiceOptions{
		TopK:        cfg.ChatTopK,
		TokenBudget: cfg.TokenBudget,
	})
	generator := practice.NewGenerator(llmClient, embedder, store, log)

	// HTTP server.
	srv := api.NewServer(orch, chat, generator, llmClient, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		llmClient.Close()
		blobs.Close()
	}()

	log.Info("starting oer-ai", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
