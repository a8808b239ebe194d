package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"hms-be/internal/config"
	"hms-be/internal/container"
	"hms-be/internal/handler"
	"hms-be/internal/middleware"
	"hms-be/internal/repository"
	"hms-be/internal/service"
	"hms-be/pkg/database"
	"hms-be/pkg/logger"
	"hms-be/pkg/redis"
)

// Resources holds all resources that need cleanup
type Resources struct {
	db           *database.PostgresDB
	redisClient  *redis.Client
	statsService service.StatsService
	server       *http.Server
	log          *logger.Logger
	mu           sync.Mutex
	closed       bool
}

// Cleanup gracefully closes all resources
func (r *Resources) Cleanup(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	var errs []error

	r.log.Info("Starting graceful shutdown...")

	// Shutdown HTTP server first to stop accepting new requests
	if r.server != nil {
		if err := r.server.Shutdown(ctx); err != nil {
			r.log.WithError(err).Error("Failed to shutdown HTTP server")
			errs = append(errs, fmt.Errorf("HTTP server shutdown: %w", err))
		}
	}

	// Stop the stats sync service (flushes a final snapshot)
	if r.statsService != nil {
		if err := r.statsService.Stop(ctx); err != nil {
			r.log.WithError(err).Error("Failed to stop stats service")
			errs = append(errs, fmt.Errorf("stats service shutdown: %w", err))
		}
	}

	// Close Redis connection
	if r.redisClient != nil {
		if err := r.redisClient.Close(); err != nil {
			r.log.WithError(err).Error("Failed to close Redis connection")
			errs = append(errs, fmt.Errorf("Redis close: %w", err))
		}
	}

	// Close database connection pool
	if r.db != nil {
		r.db.Close()
	}

	if len(errs) > 0 {
		r.log.WithField("error_count", len(errs)).Error("Cleanup completed with errors")
		return fmt.Errorf("cleanup completed with %d errors: %v", len(errs), errs)
	}

	r.log.Info("Graceful shutdown completed successfully")
	return nil
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.WithFields(map[string]interface{}{
		"port":        cfg.Port,
		"log_level":   cfg.LogLevel,
		"environment": cfg.Environment,
	}).Info("Starting hms-be server")

	// Create dependency injection container
	c, err := container.New(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to create container")
	}

	// Initialize database connection
	ctx := context.Background()
	db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}

	// Initialize repositories
	eventRepo := repository.NewEventRepository(db)
	trackRepo := repository.NewTrackRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	roleRepo := repository.NewRoleRepository(db)

	// Initialize services
	cacheService := c.GetCacheService()
	permissionService := service.NewPermissionService(roleRepo, membershipRepo, log)
	distributionService := service.NewDistributionService(trackRepo, teamRepo, membershipRepo, assignmentRepo, log, nil)
	statsService := service.NewStatsService(eventRepo, cacheService, log, cfg.StatsSyncInterval)

	// Start the stats sync service
	if err := statsService.Start(ctx); err != nil {
		log.WithError(err).Fatal("Failed to start stats service")
	}

	// Setup router
	router := setupRouter(c, handlers{
		event:        handler.NewEventHandler(eventRepo, trackRepo, teamRepo, membershipRepo, statsService, cacheService, log),
		distribution: handler.NewDistributionHandler(distributionService, assignmentRepo, log),
		membership:   handler.NewMembershipHandler(membershipRepo, log),
		chat:         handler.NewChatHandler(c.GetChatService(), cacheService, cfg.ChatRateLimit, log),
	}, permissionService)

	// Create HTTP server
	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   60 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1MB max header size
	}

	// Create resources manager for cleanup
	resources := &Resources{
		db:           db,
		redisClient:  c.GetRedisClient(),
		statsService: statsService,
		server:       server,
		log:          log,
	}

	// Setup graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)

	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := resources.Cleanup(cleanupCtx); err != nil {
			log.WithError(err).Error("Cleanup completed with errors")
		}
	}()

	// Start server in a goroutine
	serverErrChan := make(chan error, 1)
	go func() {
		log.Info("Server starting on port " + cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("Server error occurred")
			serverErrChan <- err
		}
	}()

	// Wait for interrupt signal or server error
	select {
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("Received shutdown signal")
	case err := <-serverErrChan:
		log.WithError(err).Error("Server failed, initiating shutdown")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()

	if err := resources.Cleanup(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown completed with errors")
		os.Exit(1)
	}

	log.Info("Application shutdown complete")
}

type handlers struct {
	event        *handler.EventHandler
	distribution *handler.DistributionHandler
	membership   *handler.MembershipHandler
	chat         *handler.ChatHandler
}

// setupRouter configures and returns the HTTP router
func setupRouter(c *container.Container, h handlers, permissions *service.PermissionService) *chi.Mux {
	cfg := c.GetConfig()
	log := c.GetLogger()
	authService := c.GetAuthService()

	r := chi.NewRouter()

	// Setup CORS middleware
	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowedOrigins = cfg.AllowedOrigins

	// Setup middlewares
	r.Use(middleware.CORS(corsConfig))
	r.Use(middleware.RequestID(log))
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Compress(5))
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	healthHandler := handler.NewHealthHandler(c)

	// Health check (no auth required)
	r.Get("/health", healthHandler.Check)

	r.Route("/api", func(r chi.Router) {
		// All event routes require an authenticated session
		r.Route("/events/{eventID}", func(r chi.Router) {
			r.Use(middleware.Auth(authService, log))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(permissions, "events.read", log))

				r.Get("/", h.event.GetEvent)
				r.Get("/tracks", h.event.ListTracks)
				r.Get("/teams", h.event.ListTeams)
				r.Get("/stats", h.event.GetStats)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(permissions, "events.judges.read", log))

				r.Get("/judges", h.event.ListJudges)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(permissions, "events.members.manage", log))

				r.Patch("/memberships/{membershipID}", h.membership.UpdateStatus)
			})

			// Distribution engine
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(permissions, "events.assignments.manage", log))

				r.Get("/distribution/preview", h.distribution.Preview)
				r.Post("/distribution", h.distribution.Commit)
				r.Delete("/distribution", h.distribution.Clear)
				r.Get("/assignments", h.distribution.ListAssignments)
			})

			// AI coaching
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(permissions, "events.chat.use", log))

				r.Post("/chat", h.chat.Send)
			})
		})
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false,"error":{"type":"not_found","message":"Endpoint not found"}}`))
	})

	log.Info("Router configured successfully")
	return r
}
