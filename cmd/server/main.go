package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/stwalsh4118/landregistry/internal/cache"
	"github.com/stwalsh4118/landregistry/internal/config"
	"github.com/stwalsh4118/landregistry/internal/database"
	"github.com/stwalsh4118/landregistry/internal/handlers"
	"github.com/stwalsh4118/landregistry/internal/logger"
	"github.com/stwalsh4118/landregistry/internal/metrics"
	"github.com/stwalsh4118/landregistry/internal/middleware"
	"github.com/stwalsh4118/landregistry/internal/repository"
	"github.com/stwalsh4118/landregistry/internal/scheduler"
	"github.com/stwalsh4118/landregistry/internal/seed"
	"github.com/stwalsh4118/landregistry/internal/services"
)

const (
	version           = "0.1.0"
	shutdownTimeout   = 30 * time.Second
	readHeaderTimeout = 10 * time.Second
)

func main() {
	os.Exit(serve())
}

// serve returns the process exit code so deferred cleanup runs before exit.
func serve() int {
	// A missing .env is fine; the environment wins either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	log := logger.New(cfg.Server.Env)
	log.Info("Starting Land Registry API", map[string]interface{}{
		"version":     version,
		"environment": cfg.Server.Env,
		"port":        cfg.Server.Port,
		"db_driver":   cfg.Database.Driver,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("Server stopped with error", err, nil)
		return 1
	}
	log.Info("Server exited", nil)
	return 0
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	db, err := database.Open(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return err
	}
	log.Info("Database ready", map[string]interface{}{
		"driver":   db.Driver,
		"host":     cfg.Database.Host,
		"database": cfg.Database.Name,
	})

	m := metrics.New(prometheus.DefaultRegisterer)

	parcelCache := cache.NewNoop()
	var pingCache handlers.PingFunc
	redisClient, err := cache.NewClient(ctx, cfg.Redis)
	switch {
	case err != nil:
		log.Error("Redis unavailable, parcel cache disabled", err, nil)
	case redisClient != nil:
		defer redisClient.Close()
		parcelCache = cache.NewRedisParcelCache(redisClient.Client, cfg.Redis.TTL, m)
		pingCache = redisClient.Health
		log.Info("Parcel cache enabled", map[string]interface{}{"ttl": cfg.Redis.TTL.String()})
	}

	parcelRepo := repository.NewParcelRepository(db)
	expropriationRepo := repository.NewExpropriationRepository(db)
	userRepo := repository.NewUserRepository(db)
	requestRepo := repository.NewInheritanceRequestRepository(db)

	if cfg.Seed.OnStart {
		generator := seed.NewGenerator(parcelRepo, expropriationRepo, userRepo, log,
			append(seed.FromConfig(cfg.Seed), seed.WithMetrics(m))...)
		result, err := generator.Run(ctx)
		if err != nil {
			return fmt.Errorf("seed on start: %w", err)
		}
		log.Info("Seed on start finished", map[string]interface{}{"status": result.Status})
	}

	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Middleware order: RequestID -> Logger -> Recovery -> Metrics -> CORS
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log, "/health", "/metrics"))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Metrics(m))
	router.Use(middleware.CORS(cfg.CORS.Origins))

	healthHandler := handlers.NewHealthHandler(db.Ping, pingCache, cfg.Server.Env, db.Driver)
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	v1.GET("/info", healthHandler.Info)
	handlers.RegisterRoutes(v1,
		handlers.NewParcelHandler(services.NewParcelService(parcelRepo, parcelCache, log)),
		handlers.NewExpropriationHandler(services.NewExpropriationService(expropriationRepo, log)),
		handlers.NewInheritanceHandler(services.NewInheritanceService(requestRepo, parcelRepo, userRepo, parcelCache, log)),
	)

	jobs := scheduler.New(log, m)
	jobs.Register(scheduler.NewInspectionSweepJob(parcelRepo, parcelCache, log), cfg.Jobs.InspectionSweepInterval)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server listening", map[string]interface{}{
			"port": cfg.Server.Port,
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return jobs.Start(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Server forced to shutdown", err, map[string]interface{}{
				"timeout": shutdownTimeout.String(),
			})
			return err
		}
		return nil
	})

	return g.Wait()
}
