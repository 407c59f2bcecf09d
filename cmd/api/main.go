package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PavaniTiago/leads-intelligence-api/internal/application/analytics"
	"github.com/PavaniTiago/leads-intelligence-api/internal/application/audit"
	"github.com/PavaniTiago/leads-intelligence-api/internal/application/ingestion"
	"github.com/PavaniTiago/leads-intelligence-api/internal/application/usecases"
	"github.com/PavaniTiago/leads-intelligence-api/internal/config"
	"github.com/PavaniTiago/leads-intelligence-api/internal/domain/dates"
	"github.com/PavaniTiago/leads-intelligence-api/internal/domain/entities"
	"github.com/PavaniTiago/leads-intelligence-api/internal/domain/fields"
	"github.com/PavaniTiago/leads-intelligence-api/internal/domain/repositories"
	"github.com/PavaniTiago/leads-intelligence-api/internal/domain/status"
	"github.com/PavaniTiago/leads-intelligence-api/internal/infrastructure/cache"
	"github.com/PavaniTiago/leads-intelligence-api/internal/infrastructure/database"
	"github.com/PavaniTiago/leads-intelligence-api/internal/infrastructure/observability"
	"github.com/PavaniTiago/leads-intelligence-api/internal/infrastructure/supabase"
	"github.com/PavaniTiago/leads-intelligence-api/internal/infrastructure/webhook"
	"github.com/PavaniTiago/leads-intelligence-api/internal/interfaces/http/middleware"
	"github.com/PavaniTiago/leads-intelligence-api/internal/interfaces/http/routes"
	"github.com/PavaniTiago/leads-intelligence-api/internal/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Error loading config: %v", err)
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("❌ Error setting up logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	// Initialize database
	db, err := database.SetupDatabase(cfg)
	if err != nil {
		logger.Fatal("error setting up database", zap.Error(err))
	}

	// Audit: zap sempre, Supabase quando configurado
	sinks := audit.MultiSink{audit.NewZapSink(logger.Named("audit"))}
	var supabaseSink *supabase.LogSink
	if cfg.SupabaseEnabled() {
		inserter, err := supabase.NewInserter(cfg.SupabaseURL, cfg.SupabaseKey)
		if err != nil {
			logger.Warn("supabase audit sink disabled", zap.Error(err))
		} else {
			supabaseSink = supabase.NewLogSink(inserter, cfg.SupabaseLogTable, logger,
				supabase.WithMinLevel(audit.Level(cfg.SupabaseLogLevel)))
			sinks = append(sinks, supabaseSink)
		}
	}
	auditLog := audit.NewLogger(sinks, "leads")

	metrics := observability.New()
	loc := utils.GetBrasilLocation()

	classifier := status.NewClassifier(func(raw, suggestion string) {
		metrics.UnknownStatus(raw, suggestion)
		auditLog.WithSource("status").Warn(context.Background(), "unknown status", map[string]any{
			"status":     raw,
			"suggestion": suggestion,
		})
	})

	pipeline := ingestion.NewPipeline(
		fields.NewResolver(nil),
		dates.NewInterpreter(loc, nil),
		auditLog.WithSource("ingestion"),
		ingestion.WithChunkSize(cfg.IngestChunkSize),
		ingestion.WithObserver(metrics),
	)

	leadsCache := cache.New[[]entities.Lead](cfg.LeadsCacheTTL)
	defer leadsCache.Stop()

	fetcher := webhook.NewClient(cfg.WebhookURL, &http.Client{}, webhook.Options{
		Timeout:    cfg.WebhookTimeout,
		MaxRetries: cfg.WebhookRetries,
	}, logger.Named("webhook"))

	snapshots := repositories.NewLeadSnapshotRepository(db)

	leadUseCase := usecases.NewLeadUseCase(usecases.LeadDeps{
		Fetcher:      fetcher,
		Snapshots:    snapshots,
		Pipeline:     pipeline,
		Engine:       analytics.NewEngine(classifier),
		Cache:        leadsCache,
		Audit:        auditLog,
		Recorder:     metrics,
		Location:     loc,
		CacheTTL:     cfg.LeadsCacheTTL,
		SnapshotKeep: cfg.SnapshotKeep,
	})

	app := fiber.New(fiber.Config{
		Prefork:      false,
		BodyLimit:    20 * 1024 * 1024, // 20MB
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	})

	middleware.SetupMiddlewares(app, cfg.CORSOrigins, logger.Named("http"))

	routes.SetupRoutes(app, routes.Deps{
		LeadUseCase:    leadUseCase,
		Snapshots:      snapshots,
		Classifier:     classifier,
		MetricsHandler: metrics.Handler(),
		Location:       loc,
		JWTSecret:      cfg.JWTSecret,
		Log:            logger.Named("http"),
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		logger.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error("shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("server is running", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Error("server stopped", zap.Error(err))
	}

	if supabaseSink != nil {
		supabaseSink.Close()
	}
}
