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

	pkgvalidator "github.com/haiminhdev/meeting-agent/pkg/validator"

	"github.com/haiminhdev/meeting-agent/internal/adapter/handler"
	"github.com/haiminhdev/meeting-agent/internal/infrastructure/cache"
	"github.com/haiminhdev/meeting-agent/internal/infrastructure/external/calendar"
	"github.com/haiminhdev/meeting-agent/internal/infrastructure/external/transcribe"
	"github.com/haiminhdev/meeting-agent/internal/infrastructure/storage"
	aiuse "github.com/haiminhdev/meeting-agent/internal/usecase/ai"
	"github.com/haiminhdev/meeting-agent/internal/usecase/pipeline"
	pkgai "github.com/haiminhdev/meeting-agent/pkg/ai"
	"github.com/haiminhdev/meeting-agent/pkg/config"
)

// Processing results stay queryable for a day after a run
const resultTTL = 24 * time.Hour

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

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	// Initialize Ollama client and probe it; a dead Ollama is a warning,
	// not a startup failure, so transcript-only runs still work.
	log.Println("🤖 Initializing completion client...")
	ollamaClient := pkgai.NewOllamaClient(&cfg.Ollama)
	probeCtx, probeCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if models, err := ollamaClient.ListModels(probeCtx); err != nil {
		log.Printf("⚠️  Could not connect to Ollama at %s: %v", cfg.Ollama.BaseURL, err)
		log.Printf("   Make sure Ollama is running and %s is installed", cfg.Ollama.Model)
	} else {
		log.Printf("✅ Connected to Ollama. Available models: %s", strings.Join(models, ", "))
	}
	probeCancel()

	// Initialize transcription
	log.Println("🎙️  Initializing transcriber...")
	transcriber := transcribe.NewTranscriber(&cfg.Assembly, logger)

	// Initialize analysis stages
	speakerInference := aiuse.NewSpeakerInference(ollamaClient, logger)
	minutesSynth := aiuse.NewMinutesSynthesizer(ollamaClient, logger)
	eventExtractor := aiuse.NewEventExtractor(ollamaClient, logger)

	// Initialize calendar client when enabled
	var calendarClient pipeline.CalendarService
	if cfg.Calendar.Enabled {
		log.Println("📆 Initializing Google Calendar client...")
		client, err := calendar.NewGoogleClient(&cfg.Calendar, logger)
		if err != nil {
			log.Printf("⚠️  Calendar disabled: %v", err)
		} else {
			calendarClient = client
			log.Println("✅ Google Calendar client initialized")
		}
	} else {
		log.Println("ℹ️  Calendar push disabled by configuration")
	}

	// Initialize artifact store and result cache
	artifactStore := storage.NewArtifactStore(cfg, logger)
	resultStore := cache.NewResultStore(resultTTL)

	// Initialize pipeline service
	log.Println("⚙️  Initializing pipeline service...")
	pipelineService := pipeline.NewService(
		transcriber,
		speakerInference,
		minutesSynth,
		eventExtractor,
		calendarClient,
		artifactStore,
		resultStore,
		logger,
	)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	meetingHandler := handler.NewMeeting(pipelineService, logger)
	router := handler.NewRouter(cfg, meetingHandler)
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
