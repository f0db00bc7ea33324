package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/scribeflow/scribeflow/pkg/validator"

	_ "github.com/scribeflow/scribeflow/docs"
	"github.com/scribeflow/scribeflow/internal/adapter/handler"
	"github.com/scribeflow/scribeflow/internal/adapter/repository"
	"github.com/scribeflow/scribeflow/internal/infrastructure/cache"
	"github.com/scribeflow/scribeflow/internal/infrastructure/database"
	"github.com/scribeflow/scribeflow/internal/infrastructure/storage"
	"github.com/scribeflow/scribeflow/internal/usecase/automation"
	"github.com/scribeflow/scribeflow/internal/usecase/classify"
	"github.com/scribeflow/scribeflow/internal/usecase/ingest"
	"github.com/scribeflow/scribeflow/internal/usecase/meeting"
	"github.com/scribeflow/scribeflow/internal/usecase/summary"
	"github.com/scribeflow/scribeflow/internal/usecase/transcriber"
	"github.com/scribeflow/scribeflow/pkg/config"
	"github.com/scribeflow/scribeflow/pkg/dispatch"
	"github.com/scribeflow/scribeflow/pkg/summarizer"
)

// @title           ScribeFlow API
// @version         1.0
// @description     Meeting transcript ingestion, minute-window classification, and automation dispatch

// @contact.name   API Support
// @contact.email  support@scribeflow.dev

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: strings.Split(cfg.Server.AllowedOrigins, ","),
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	log.Println("🔧 Initializing dependencies...")

	logger, err := zap.NewProduction()
	if cfg.Server.Environment == "development" {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	// Run migrations only when explicitly enabled in config.
	// Production deployments should manage schema via sql-migrate.
	if cfg.Database.AutoMigrate {
		if cfg.Server.Environment == "production" {
			log.Fatalf("DB_AUTO_MIGRATE is enabled in production. Disable it and manage schema with sql-migrate.")
		}
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	} else {
		log.Println("🔄 Skipping boot migrations; use sql-migrate for schema migrations in CI/CD/production")
	}

	// Initialize cache; fall back to the in-process store when Redis is
	// unreachable so a missing Redis never blocks local development
	log.Println("📦 Connecting to Redis...")
	var cacheStore cache.Store
	if redisStore, err := cache.NewRedisStore(cfg); err != nil {
		log.Printf("⚠️  Redis unavailable (%v), using in-memory cache", err)
		cacheStore = cache.NewMemoryStore()
	} else {
		cacheStore = redisStore
	}
	defer cacheStore.Close()

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	meetingRepo := repository.NewCachedMeetingRepository(repository.NewMeetingRepository(db), cacheStore, logger)
	windowRepo := repository.NewWindowRepository(db)
	eventRepo := repository.NewEventRepository(db)
	insightRepo := repository.NewInsightRepository(db)

	// Initialize classification and ingestion
	log.Println("🤖 Initializing classifier and windower...")
	classifier := classify.NewClassifier()
	windower := ingest.NewWindower(meetingRepo, windowRepo, eventRepo, insightRepo, classifier, logger)

	// Initialize automation lifecycle
	log.Println("⚡ Initializing automation service...")
	dispatcher := dispatch.NewWebhookDispatcher(cfg.Dispatch.WebhookURL, cfg.Dispatch.SigningSecret, cfg.Dispatch.Timeout)
	if cfg.Dispatch.WebhookURL == "" {
		log.Println("⚠️  DISPATCH_WEBHOOK_URL not set; event approval will fail until configured")
	}
	automationSvc := automation.NewService(eventRepo, dispatcher, logger, cfg.Automation.PendingMaxAge, cfg.Automation.JanitorInterval)
	automationSvc.StartJanitor()
	defer automationSvc.Stop()

	// Initialize summary archive storage
	log.Println("📦 Initializing archive storage...")
	var archive summary.ArchiveStore
	if archiveClient, err := storage.NewArchiveClient(cfg.Storage); err != nil {
		log.Printf("⚠️  Archive storage unavailable (%v), summaries will not be archived", err)
	} else {
		archive = archiveClient
	}

	// Initialize summarization and transcription
	log.Println("🎙️  Initializing summary and transcription services...")
	groqClient := summarizer.NewGroqClient(cfg.Summarizer)
	summarySvc := summary.NewService(meetingRepo, windowRepo, insightRepo, groqClient, archive, logger)
	transcriberSvc := transcriber.NewService(meetingRepo, windower, cfg.Transcription, logger)

	meetingSvc := meeting.NewService(meetingRepo, insightRepo, logger)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(cfg,
		handler.NewMeeting(meetingSvc, summarySvc, transcriberSvc, logger),
		handler.NewIngest(windower, logger),
		handler.NewEvent(automationSvc, logger),
		handler.NewWebhook(transcriberSvc, logger),
	)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
