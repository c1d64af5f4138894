package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"

	"github.com/eportaro/langchain-waha-flaskapi/internal/api/handlers"
	"github.com/eportaro/langchain-waha-flaskapi/internal/api/router"
	"github.com/eportaro/langchain-waha-flaskapi/internal/assistant"
	appconfig "github.com/eportaro/langchain-waha-flaskapi/internal/config"
	"github.com/eportaro/langchain-waha-flaskapi/internal/history"
	"github.com/eportaro/langchain-waha-flaskapi/internal/leads"
	"github.com/eportaro/langchain-waha-flaskapi/internal/media"
	"github.com/eportaro/langchain-waha-flaskapi/internal/notify"
	"github.com/eportaro/langchain-waha-flaskapi/internal/observability/metrics"
	"github.com/eportaro/langchain-waha-flaskapi/internal/profile"
	"github.com/eportaro/langchain-waha-flaskapi/internal/responder"
	"github.com/eportaro/langchain-waha-flaskapi/internal/retrieval"
	"github.com/eportaro/langchain-waha-flaskapi/internal/wahaclient"
	"github.com/eportaro/langchain-waha-flaskapi/pkg/logging"
)

func main() {
	// Load .env in development; absence is not an error.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting whatsapp assistant API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// Redis backs the per-chat conversation window.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Error("redis ping failed", "addr", cfg.RedisAddr, "error", err)
		os.Exit(1)
	}
	historyStore := history.NewStore(redisClient, cfg.HistoryTTL, otel.Tracer("history"))

	// Postgres is optional: without it leads live in memory and the
	// durable chat archive is skipped.
	var (
		pool          *pgxpool.Pool
		archiver      *history.Archiver
		leadsRepo     leads.Repository
		knowledgeRepo *retrieval.PostgresKnowledgeRepository
	)
	if cfg.DatabaseURL != "" {
		var err error
		pool, err = pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		archiver = history.NewArchiver(pool, logger)
		leadsRepo = leads.NewPostgresRepository(pool)
		knowledgeRepo = retrieval.NewPostgresKnowledgeRepository(pool)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory lead repository")
		leadsRepo = leads.NewInMemoryRepository()
	}

	openaiClient := openai.NewClient(cfg.OpenAIAPIKey)

	memStore := retrieval.NewMemoryStore(openaiClient, cfg.OpenAIEmbeddingModel, logger)
	var retriever retrieval.Retriever = memStore
	if knowledgeRepo != nil {
		retriever = retrieval.NewHydratingRetriever(knowledgeRepo, memStore, logger)
	}

	resp := responder.New(openaiClient, retriever, cfg.OpenAIChatModel, cfg.RetrievalTopK, logger)

	for _, dir := range []string{cfg.MediaWorkDir, cfg.NotesDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Error("failed to create working directory", "dir", dir, "error", err)
			os.Exit(1)
		}
	}
	pipeline := media.NewPipeline(
		media.NewYTDLPDownloader(cfg.YTDLPPath, cfg.MediaWorkDir, logger),
		media.NewFFmpegExtractor(cfg.FFmpegPath, cfg.MediaWorkDir, logger),
		media.NewWhisperTranscriber(openaiClient, cfg.OpenAITranscribeModel, cfg.MediaWorkDir, logger),
		media.NewLLMNoteSaver(openaiClient, cfg.OpenAIChatModel, cfg.NotesDir, logger),
		logger,
	)

	var emailSender notify.EmailSender
	if sg := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger); sg != nil {
		emailSender = sg
	} else {
		logger.Warn("SENDGRID_API_KEY not set, advisor notifications disabled")
	}
	notifier := notify.NewService(emailSender, logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	assistantMetrics := metrics.NewAssistantMetrics(registry)

	bot := assistant.NewService(
		history.NewNormalizer(logger),
		profile.NewExtractor(profile.DefaultCatalogs(cfg.ProgramCatalog, cfg.FarewellCatalog), logger),
		resp,
		pipeline,
		leadsRepo,
		notifier,
		assistantMetrics,
		logger,
	)

	waha, err := wahaclient.New(wahaclient.Config{
		BaseURL: cfg.WAHABaseURL,
		APIKey:  cfg.WAHAAPIKey,
		Session: cfg.WAHASession,
		Timeout: cfg.WAHATimeout,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("failed to build waha client", "error", err)
		os.Exit(1)
	}

	webhookCfg := handlers.WebhookConfig{
		Assistant:    bot,
		Store:        historyStore,
		Sender:       waha,
		Logger:       logger,
		HistoryLimit: cfg.HistoryLimit,
	}
	if archiver != nil {
		webhookCfg.Archiver = archiver
	}
	webhook := handlers.NewWebhookHandler(webhookCfg)

	r := router.New(&router.Config{
		Logger:         logger,
		Webhook:        webhook,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
