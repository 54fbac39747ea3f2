package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edulabs/promo-service/internal/config"
	"github.com/edulabs/promo-service/internal/handlers"
	"github.com/edulabs/promo-service/internal/middleware"
	"github.com/edulabs/promo-service/internal/repository"
	"github.com/edulabs/promo-service/internal/service"
	"github.com/edulabs/promo-service/pkg/db"
	"github.com/edulabs/promo-service/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting promotion admin api server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"log_level", cfg.LogLevel,
	)

	// Initialize repositories. Postgres when DATABASE_URL is set,
	// seeded in-memory stores otherwise.
	var (
		productRepo  repository.ProductRepository
		bundleRepo   repository.BundleRepository
		discountRepo repository.DiscountCodeRepository
	)
	if cfg.Database.URL != "" {
		conn, err := db.NewPostgresConnection(cfg.Database.URL)
		if err != nil {
			log.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer conn.Close()

		pgDiscountRepo, err := repository.NewPostgresDiscountCodeRepository(context.Background(), conn)
		if err != nil {
			log.Error("failed to initialize discount repository", "error", err)
			os.Exit(1)
		}

		productRepo = repository.NewPostgresProductRepository(conn)
		bundleRepo = repository.NewPostgresBundleRepository(conn)
		discountRepo = pgDiscountRepo
		log.Info("using postgres repositories")
	} else {
		productRepo = repository.NewInMemoryProductRepository()
		bundleRepo = repository.NewInMemoryBundleRepository()
		discountRepo = repository.NewInMemoryDiscountCodeRepository()
		log.Info("no DATABASE_URL configured, using in-memory repositories")
	}

	// Initialize services
	catalogService := service.NewCatalogService(productRepo)
	bundleService := service.NewBundleService(bundleRepo, nil)
	discountService := service.NewDiscountService(discountRepo, productRepo, nil)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(log)
	catalogHandler := handlers.NewCatalogHandler(catalogService, log)
	bundleHandler := handlers.NewBundleHandler(bundleService, log)
	discountHandler := handlers.NewDiscountHandler(discountService, log)

	// Create router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "api_key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Register health check endpoint
	r.Get("/health", healthHandler.ServeHTTP)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Catalog endpoints (read-only)
		r.Get("/catalog", catalogHandler.Snapshot)
		r.Get("/catalog/{productType}", catalogHandler.ListByType)

		// Draft validation endpoints
		r.Post("/bundle/validate", bundleHandler.Validate)
		r.Post("/discount/validate", discountHandler.Validate)
		r.Post("/discount/available", discountHandler.Available)

		// Admin CRUD, gated by API key
		r.Group(func(r chi.Router) {
			r.Use(middleware.APIKeyAuth(cfg.Auth))

			r.Get("/bundle", bundleHandler.List)
			r.Post("/bundle", bundleHandler.Create)
			r.Get("/bundle/{bundleId}", bundleHandler.Get)
			r.Put("/bundle/{bundleId}", bundleHandler.Update)
			r.Delete("/bundle/{bundleId}", bundleHandler.Delete)

			r.Get("/discount", discountHandler.List)
			r.Post("/discount", discountHandler.Create)
			r.Get("/discount/{discountId}", discountHandler.Get)
			r.Put("/discount/{discountId}", discountHandler.Update)
			r.Delete("/discount/{discountId}", discountHandler.Delete)
		})
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}
