package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/triplog/server/internal/config"
	"github.com/triplog/server/internal/handlers"
	custommw "github.com/triplog/server/internal/middleware"
	"github.com/triplog/server/internal/observability"
	"github.com/triplog/server/internal/repository"
	"github.com/triplog/server/internal/services"
)

const serviceVersion = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Telemetry (opt-in via OTEL_ENABLED)
	ctx := context.Background()
	telemetry, err := observability.Initialize(ctx, observability.NewConfig("triplog-server", serviceVersion))
	if err != nil {
		log.Fatalf("Failed to initialize telemetry: %v", err)
	}

	// Initialize database and repositories
	var teamRepo repository.TeamRepo
	var tripRepo repository.TripRepo
	if cfg.UsePostgres() {
		log.Println("Using PostgreSQL database")
		db, err := repository.NewPostgresDB(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to initialize PostgreSQL database: %v", err)
		}
		defer db.Close()
		teamRepo = repository.NewTeamRepositoryPostgres(db)
		tripRepo = repository.NewTripRepositoryPostgres(db)
	} else {
		log.Println("Using SQLite database")
		db, err := repository.NewSQLiteDB(cfg.DatabasePath)
		if err != nil {
			log.Fatalf("Failed to initialize SQLite database: %v", err)
		}
		defer db.Close()
		teamRepo = repository.NewTeamRepository(db)
		tripRepo = repository.NewTripRepository(db)
	}

	// Initialize services
	storageService, err := services.NewStorageService(cfg.Upload.BasePath, cfg.Upload.ChunkDirName)
	if err != nil {
		log.Fatalf("Failed to initialize storage service: %v", err)
	}

	pipelineMetrics, err := observability.NewPipelineMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize pipeline metrics: %v", err)
	}

	eventHub := services.NewEventHub()
	go eventHub.Run()

	uploadService := services.NewUploadService(
		storageService,
		services.NewThumbnailService(cfg.Upload.ThumbnailWidth),
		services.NewEXIFService(),
		eventHub,
		pipelineMetrics,
		cfg.Upload.MaxFileSizeBytes,
	)

	// Initialize handlers
	photoHandler := handlers.NewPhotoHandler(uploadService, storageService, cfg.Upload.FieldName, cfg.Upload.NotFoundImagePath)
	teamHandler := handlers.NewTeamHandler(teamRepo)
	tripHandler := handlers.NewTripHandler(tripRepo)
	healthHandler := handlers.NewHealthHandler()
	eventsHandler := handlers.NewEventsHandler(eventHub)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(custommw.CORS)

	httpMetrics, err := observability.NewHTTPMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize HTTP metrics: %v", err)
	}
	r.Use(observability.TracingMiddleware("triplog-server"))
	r.Use(observability.MetricsMiddleware(httpMetrics))

	// Routes
	r.Get("/health", healthHandler.HealthCheck)

	r.Route("/team", func(r chi.Router) {
		r.Get("/", teamHandler.List)
		r.Post("/", teamHandler.Add)
		r.Get("/{teamId}", teamHandler.GetByID)
		r.Put("/{teamId}", teamHandler.Update)
		r.Delete("/{teamId}", teamHandler.Delete)
	})

	r.Route("/trip", func(r chi.Router) {
		r.Get("/", tripHandler.List)
		r.Post("/", tripHandler.Add)
		r.Get("/{tripId}", tripHandler.GetByID)
		r.Put("/{tripId}", tripHandler.Update)
		r.Delete("/{tripId}", tripHandler.Delete)
	})

	r.Route("/photo", func(r chi.Router) {
		r.Post("/uploads", photoHandler.Upload)
		r.Delete("/uploads/{stepId}/{uuid}", photoHandler.DeleteFile)
		r.Delete("/delete/{stepId}", photoHandler.DeleteStep)
		r.Get("/notFound", photoHandler.GetNotFoundImage)
		r.Get("/{stepId}/{photouuid}/{name}", photoHandler.GetPhoto)
	})

	r.Get("/ws", eventsHandler.Serve)

	// Create server
	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // Longer for uploads
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Triplog server starting on %s", cfg.ServerAddress)
		log.Printf("Photo storage path: %s", cfg.Upload.BasePath)
		if cfg.Upload.MaxFileSizeBytes > 0 {
			log.Printf("Max file size: %d bytes", cfg.Upload.MaxFileSizeBytes)
		}

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		log.Printf("Telemetry shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
