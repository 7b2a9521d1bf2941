package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Antirender/moodpeek1/internal/audit"
	"github.com/Antirender/moodpeek1/internal/azure"
	"github.com/Antirender/moodpeek1/internal/config"
	"github.com/Antirender/moodpeek1/internal/handler"
	"github.com/Antirender/moodpeek1/internal/images"
	"github.com/Antirender/moodpeek1/internal/middleware"
	"github.com/Antirender/moodpeek1/internal/pdf"
	"github.com/Antirender/moodpeek1/internal/repository"
	"github.com/Antirender/moodpeek1/internal/security"
	"github.com/Antirender/moodpeek1/internal/service"
	"github.com/Antirender/moodpeek1/internal/weather"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const localReportDir = "./reports"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize Zap logger
	var logger *zap.Logger
	if cfg.Server.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("Configuration loaded successfully",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
	)

	// Initialize database connection pool with pgx
	pool, err := pgxpool.New(context.Background(), cfg.Database.URL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	// Test database connection
	if err := pool.Ping(context.Background()); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}
	logger.Info("Successfully connected to database")

	// Initialize note encryption when a key is configured
	var encryptor *security.Encryptor
	if key, err := cfg.NoteEncryptionKey(); err != nil {
		logger.Fatal("Invalid note encryption key", zap.Error(err))
	} else if key != nil {
		encryptor, err = security.NewEncryptor(key)
		if err != nil {
			logger.Fatal("Failed to initialize note encryption", zap.Error(err))
		}
		logger.Info("Note encryption enabled")
	}

	// Initialize repositories
	entryRepo := repository.NewEntryRepository(pool, encryptor, logger)
	insightsRepo := repository.NewInsightsRepository(pool, logger)
	reportRepo := repository.NewReportRepository(pool, logger)

	// Initialize weather client
	weatherClient := weather.NewClient(
		cfg.Weather.GeocodeBaseURL,
		cfg.Weather.ForecastBaseURL,
		cfg.Weather.Timeout,
		logger,
	)

	// Initialize the image resolution pipeline
	diskCache, err := images.NewDiskCache(cfg.Images.CacheDir, logger)
	if err != nil {
		logger.Fatal("Failed to initialize image disk cache", zap.Error(err))
	}

	fetchClient := &http.Client{Timeout: cfg.Images.FetchTimeout}
	resolver := images.NewResolver(images.ResolverOptions{
		Memory:      images.NewMemoryCache(cfg.Images.MemoryCacheSize, cfg.Images.CoverTTL),
		Disk:        diskCache,
		Provider:    images.NewUnsplashProvider(cfg.Images.ProviderBaseURL, cfg.Images.ProviderAccessKey, fetchClient, logger),
		Seeds:       images.NewSeedLibrary(),
		Placeholder: images.NewPlaceholderProvider(cfg.Images.PlaceholderBaseURL),
		Limiter:     images.NewRateLimiter(cfg.Images.HourlyQuota, cfg.Images.Burst, logger),
		Filter:      images.NewSafetyFilter(),
		HTTPClient:  fetchClient,
		CoverTTL:    cfg.Images.CoverTTL,
		HeroTTL:     cfg.Images.HeroTTL,
		Logger:      logger,
	})

	// Initialize audit logging
	auditLogger := audit.NewLogger(pool, logger)

	// Initialize the weekly tip client when Azure OpenAI is configured
	var tips service.TipProvider
	if cfg.AIEnabled() {
		tipClient, err := azure.NewTipClient(
			cfg.AI.Endpoint,
			cfg.AI.APIKey,
			cfg.AI.Deployment,
			logger,
		)
		if err != nil {
			logger.Fatal("Failed to initialize tip client", zap.Error(err))
		}
		tips = tipClient
		logger.Info("AI weekly tips enabled")
	}

	// Initialize report archive: blob storage when configured, local disk otherwise
	var archive azure.ReportArchive
	if cfg.ReportArchiveEnabled() {
		archive, err = azure.NewBlobStorageClient(
			cfg.Storage.AccountName,
			cfg.Storage.AccountKey,
			cfg.Storage.ReportContainer,
			logger,
		)
		if err != nil {
			logger.Fatal("Failed to initialize blob storage client", zap.Error(err))
		}
	} else {
		archive, err = azure.NewLocalArchive(localReportDir, logger)
		if err != nil {
			logger.Fatal("Failed to initialize local report archive", zap.Error(err))
		}
		logger.Info("Using local report archive", zap.String("dir", localReportDir))
	}

	// Initialize services
	entryService := service.NewEntryService(entryRepo, weatherClient, logger)
	insightsService := service.NewInsightsService(entryRepo, insightsRepo, tips, logger)

	// Initialize PDF generator
	pdfGenerator := pdf.NewPDFGenerator(logger)

	reportService := service.NewReportService(
		insightsService,
		pdfGenerator,
		archive,
		reportRepo,
		logger,
	)

	// Initialize handlers
	entryHandler := handler.NewEntryHandler(entryService, auditLogger, logger)
	imageHandler := handler.NewImageHandler(resolver, diskCache.Dir(), logger)
	insightsHandler := handler.NewInsightsHandler(insightsService, logger)
	reportHandler := handler.NewReportHandler(reportService, auditLogger, logger)
	healthHandler := handler.NewHealthHandler(pool, logger)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Gin router
	r := gin.New()

	// Add recovery middleware (must be first)
	r.Use(middleware.RecoveryMiddleware(logger))

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"}, // Configure appropriately for production
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Add request ID middleware
	r.Use(middleware.RequestIDMiddleware())

	// Add request logging middleware
	r.Use(middleware.RequestLoggingMiddleware(logger))

	// Add error logging middleware
	r.Use(middleware.ErrorLoggingMiddleware(logger))

	// Register routes
	handler.RegisterRoutes(r, entryHandler, imageHandler, insightsHandler, reportHandler, healthHandler)

	// Start server with graceful shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
