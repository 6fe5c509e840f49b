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

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/jwalitptl/homecare-api/internal/config"
	authhandler "github.com/jwalitptl/homecare-api/internal/handler/auth"
	"github.com/jwalitptl/homecare-api/internal/handler/health"
	patienthandler "github.com/jwalitptl/homecare-api/internal/handler/patient"
	"github.com/jwalitptl/homecare-api/internal/handler/prometheus"
	servicerequesthandler "github.com/jwalitptl/homecare-api/internal/handler/servicerequest"
	"github.com/jwalitptl/homecare-api/internal/middleware"
	"github.com/jwalitptl/homecare-api/internal/repository"
	"github.com/jwalitptl/homecare-api/internal/repository/memory"
	"github.com/jwalitptl/homecare-api/internal/repository/mongodb"
	"github.com/jwalitptl/homecare-api/internal/repository/postgres"
	"github.com/jwalitptl/homecare-api/internal/router"
	authservice "github.com/jwalitptl/homecare-api/internal/service/auth"
	"github.com/jwalitptl/homecare-api/internal/service/event"
	patientservice "github.com/jwalitptl/homecare-api/internal/service/patient"
	servicerequestservice "github.com/jwalitptl/homecare-api/internal/service/servicerequest"
	"github.com/jwalitptl/homecare-api/pkg/auth"
	"github.com/jwalitptl/homecare-api/pkg/logger"
	"github.com/jwalitptl/homecare-api/pkg/messaging/redis"
	"github.com/jwalitptl/homecare-api/pkg/metrics"
	"github.com/jwalitptl/homecare-api/pkg/security"
)

const shutdownTimeout = 15 * time.Second

func serveCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configFile)
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), cfg)
		},
	}
}

func loadConfig(configFile string) (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if err := logger.Setup(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty}); err != nil {
		return nil, err
	}
	return cfg, nil
}

// backend bundles the repositories of one storage driver.
type backend struct {
	users    repository.UserRepository
	patients repository.PatientRepository
	requests repository.ServiceRequestRepository
	ping     health.Pinger
	close    func()
}

func openBackend(ctx context.Context, cfg config.DatabaseConfig) (*backend, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		db, err := mongodb.NewDB(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		return &backend{
			users:    mongodb.NewUserRepository(db),
			patients: mongodb.NewPatientRepository(db),
			requests: mongodb.NewServiceRequestRepository(db),
			ping: health.PingFunc(func(ctx context.Context) error {
				return db.Client().Ping(ctx, readpref.Primary())
			}),
			close: func() { _ = db.Client().Disconnect(context.Background()) },
		}, nil

	case config.DriverPostgres:
		db, err := postgres.NewDB(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		return &backend{
			users:    postgres.NewUserRepository(db),
			patients: postgres.NewPatientRepository(db),
			requests: postgres.NewServiceRequestRepository(db),
			ping:     health.PingFunc(db.PingContext),
			close:    func() { _ = db.Close() },
		}, nil

	case config.DriverMemory:
		store := memory.NewStore()
		return &backend{
			users:    memory.NewUserRepository(store),
			patients: memory.NewPatientRepository(store),
			requests: memory.NewServiceRequestRepository(store),
			close:    func() {},
		}, nil
	}
	return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
}

func openPublisher(ctx context.Context, cfg config.RedisConfig, m *metrics.Metrics) (event.Publisher, func(), error) {
	if cfg.URL == "" {
		log.Info().Msg("redis url not set, lifecycle events are disabled")
		return event.Noop{}, func() {}, nil
	}

	broker, err := redis.NewRedisBroker(ctx, redis.Config{URL: cfg.URL}, log.Logger)
	if err != nil {
		return nil, nil, err
	}
	return event.NewEventService(broker, cfg.ChannelPrefix, m, log.Logger), func() { _ = broker.Close() }, nil
}

func runServer(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}

	db, err := openBackend(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open %s backend: %w", cfg.Database.Driver, err)
	}
	defer db.close()
	log.Info().Str("driver", cfg.Database.Driver).Msg("storage backend ready")

	m := metrics.New("homecare")

	publisher, closePublisher, err := openPublisher(ctx, cfg.Redis, m)
	if err != nil {
		return err
	}
	defer closePublisher()

	jwtSvc, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry)
	if err != nil {
		return err
	}

	authSvc := authservice.NewService(db.users, jwtSvc, security.NewBcryptHasher(cfg.Security.BcryptCost))
	patientSvc := patientservice.NewService(db.patients)
	requestSvc := servicerequestservice.NewService(db.requests, db.patients, publisher, m)

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.CORS.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.CORS.AllowedOrigins
	}

	r, err := router.NewRouter(
		middleware.NewAuthMiddleware(jwtSvc),
		authhandler.NewHandler(authSvc),
		patienthandler.NewHandler(patientSvc),
		servicerequesthandler.NewHandler(requestSvc),
		health.NewHandler(db.ping),
		prometheus.New(m),
		router.RouterConfig{
			Mode:             cfg.Server.Mode,
			RateLimitEnabled: cfg.RateLimit.Enabled,
			RateLimit: middleware.RateLimiterConfig{
				RPS:   cfg.RateLimit.RequestsPerSecond,
				Burst: cfg.RateLimit.Burst,
			},
			CORSConfig: corsConfig,
		},
	)
	if err != nil {
		return err
	}
	r.Setup()

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}
	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server exited")
	return nil
}
