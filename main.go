package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/HeyBatlle1/tos-salad/config"
	"github.com/HeyBatlle1/tos-salad/handler"
	"github.com/HeyBatlle1/tos-salad/middleware"
	"github.com/HeyBatlle1/tos-salad/pkg/logger"
	"github.com/HeyBatlle1/tos-salad/service"
	"github.com/HeyBatlle1/tos-salad/verifier"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	seedPath := flag.String("seed", "", "load a YAML seed file and exit")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	})

	slog.Info("configuration loaded successfully")

	// Content store
	store, err := service.NewStore(&cfg.Database)
	if err != nil {
		slog.Error("failed to initialize content store", "error", err)
		os.Exit(1)
	}

	// Snapshot archive is optional; the loader degrades without it
	var archive *service.ArchiveService
	if cfg.Minio.Endpoint != "" {
		archive, err = service.NewArchiveService(&cfg.Minio)
		if err != nil {
			slog.Error("failed to initialize snapshot archive", "error", err)
			os.Exit(1)
		}
		if err := archive.EnsureBucket(context.Background()); err != nil {
			slog.Error("failed to ensure archive bucket", "error", err)
			os.Exit(1)
		}
	} else {
		slog.Warn("no minio endpoint configured, document snapshots disabled")
	}

	loader := service.NewLoader(store, archive)

	// Seed mode: load the file and exit
	if *seedPath != "" {
		seed, err := service.ParseSeedFile(*seedPath)
		if err != nil {
			slog.Error("failed to parse seed file", "path", *seedPath, "error", err)
			os.Exit(1)
		}
		summary, err := loader.Run(context.Background(), seed)
		if err != nil {
			slog.Error("seed load failed", "error", err)
			os.Exit(1)
		}
		slog.Info("seed loaded", "companies", summary.Companies, "analyses", summary.Analyses)
		return
	}

	// Inference client is optional; the AI check degrades without it
	var modelClient verifier.ModelClient
	if cfg.Inference.APIKey != "" {
		inferenceSvc, err := service.NewInferenceService(&cfg.Inference)
		if err != nil {
			slog.Error("failed to initialize inference client", "error", err)
			os.Exit(1)
		}
		modelClient = inferenceSvc
	} else {
		slog.Warn("no inference API key configured, AI detection will report analysis_failed")
	}

	pipeline := verifier.New(modelClient, verifier.NoopLookup{}, store,
		verifier.WithModelTimeout(time.Duration(cfg.Verifier.ModelTimeoutSeconds)*time.Second),
		verifier.WithLookupTimeout(time.Duration(cfg.Verifier.LookupTimeoutSeconds)*time.Second),
	)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(cfg)
	companyHandler := handler.NewCompanyHandler(store)
	verifyHandler := handler.NewVerifyHandler(pipeline, cfg.Verifier.MaxUploadMB)
	seedHandler := handler.NewSeedHandler(loader)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New() // Use New() instead of Default() to avoid default middleware

	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))
	router.Use(middleware.RateLimit(100, time.Minute))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	// Public routes
	api := router.Group("/api")
	{
		api.POST("/auth/login", authHandler.Login)
		api.GET("/companies", companyHandler.List)
		api.GET("/companies/:domain", companyHandler.Get)
	}

	// The verification pipeline calls external services; keep its window
	// tighter than the general limit
	verify := api.Group("/")
	verify.Use(middleware.RateLimit(10, time.Minute))
	{
		verify.POST("/verify", verifyHandler.Verify)
	}

	// Protected routes
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(&cfg.Auth))
	{
		protected.GET("/auth/me", authHandler.GetCurrentUser)

		admin := protected.Group("/admin")
		admin.Use(middleware.RequireRole("admin"))
		{
			admin.POST("/seed", seedHandler.Load)
			admin.GET("/reports/recent", companyHandler.RecentReports)
		}
	}

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited gracefully")
}
