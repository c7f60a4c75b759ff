// Package app assembles the POS service: it picks the storage backend,
// wires repositories into services and handlers, and owns the HTTP server
// lifecycle.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/chamarodfai/POS/internal/auth"
	"github.com/chamarodfai/POS/internal/config"
	"github.com/chamarodfai/POS/internal/event"
	poshttp "github.com/chamarodfai/POS/internal/handler/http"
	"github.com/chamarodfai/POS/internal/repository"
	pgrepo "github.com/chamarodfai/POS/internal/repository/postgres"
	redisrepo "github.com/chamarodfai/POS/internal/repository/redis"
	"github.com/chamarodfai/POS/internal/repository/sheets"
	"github.com/chamarodfai/POS/internal/service"
	"github.com/chamarodfai/POS/migrations"
	"github.com/chamarodfai/POS/pkg/database"
	"github.com/chamarodfai/POS/pkg/health"
	"github.com/chamarodfai/POS/pkg/httpclient"
	"github.com/chamarodfai/POS/pkg/kafka"
	"github.com/chamarodfai/POS/pkg/middleware"
	"github.com/chamarodfai/POS/pkg/tracing"
)

// App is the assembled service with its servers and owned connections.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	server        *http.Server
	metricsServer *http.Server

	closers         []func()
	tracingShutdown func(context.Context) error
}

// repositories groups the storage implementations picked at startup.
type repositories struct {
	menu   repository.MenuRepository
	promos repository.PromotionRepository
	orders repository.OrderRepository
	carts  repository.CartRepository
}

// New builds the application graph. Nothing starts serving until Run.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: logger}

	tracingShutdown, err := tracing.Init(ctx, cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	a.tracingShutdown = tracingShutdown

	healthHandler := health.NewHandler()

	// Carts live in Redis for both storage backends; they are ephemeral
	// session state, not catalog data.
	redisClient, err := database.NewRedisClient(ctx, database.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	a.closers = append(a.closers, func() { _ = redisClient.Close() })
	healthHandler.Register("redis", func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	})

	repos, err := a.buildRepositories(ctx, redisClient, healthHandler)
	if err != nil {
		return nil, err
	}

	publisher := a.buildPublisher(healthHandler)

	location, err := time.LoadLocation(cfg.ReportTimezone)
	if err != nil {
		return nil, fmt.Errorf("load report timezone: %w", err)
	}

	menuSvc := service.NewMenuService(repos.menu, logger)
	promoSvc := service.NewPromotionService(repos.promos, logger)
	cartSvc := service.NewCartService(repos.carts, repos.menu, repos.promos, logger)
	orderSvc := service.NewOrderService(repos.orders, repos.carts, repos.menu, repos.promos, publisher, location, logger)
	reportSvc := service.NewReportService(repos.orders, repos.menu, location, logger)

	jwtManager := auth.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins

	router := poshttp.NewRouter(poshttp.RouterConfig{
		Logger:         logger,
		TokenValidator: jwtManager,
		Health:         healthHandler,
		CORS:           corsCfg,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		Auth:           poshttp.NewAuthHandler(jwtManager, cfg.Auth, logger),
		Menu:           poshttp.NewMenuHandler(menuSvc, logger),
		Promotion:      poshttp.NewPromotionHandler(promoSvc, logger),
		Cart:           poshttp.NewCartHandler(cartSvc, logger),
		Order:          poshttp.NewOrderHandler(orderSvc, logger),
		Report:         poshttp.NewReportHandler(reportSvc, logger),
	})

	a.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	a.metricsServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.MetricsPort),
		Handler:           metricsMux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return a, nil
}

// buildRepositories selects the storage backend from configuration.
func (a *App) buildRepositories(ctx context.Context, redisClient *redis.Client, healthHandler *health.Handler) (*repositories, error) {
	carts := redisrepo.NewCartRepository(redisClient, a.cfg.CartTTL)

	switch a.cfg.StorageBackend {
	case config.BackendPostgres:
		pgCfg := database.DefaultPostgresConfig()
		pgCfg.Host = a.cfg.Postgres.Host
		pgCfg.Port = a.cfg.Postgres.Port
		pgCfg.User = a.cfg.Postgres.User
		pgCfg.Password = a.cfg.Postgres.Password
		pgCfg.DBName = a.cfg.Postgres.DBName
		pgCfg.SSLMode = a.cfg.Postgres.SSLMode
		pgCfg.MaxConns = a.cfg.Postgres.MaxConns
		pgCfg.MinConns = a.cfg.Postgres.MinConns

		pool, err := database.NewPostgresPool(ctx, &pgCfg, a.logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		a.closers = append(a.closers, pool.Close)

		if err := database.RunMigrations(ctx, pool, migrations.Files, a.logger); err != nil {
			return nil, fmt.Errorf("apply migrations: %w", err)
		}

		database.RegisterPoolMetrics(pool, a.cfg.ServiceName)
		healthHandler.Register("postgres", pool.Ping)

		return &repositories{
			menu:   pgrepo.NewMenuRepository(pool),
			promos: pgrepo.NewPromotionRepository(pool),
			orders: pgrepo.NewOrderRepository(pool),
			carts:  carts,
		}, nil

	case config.BackendSheets:
		clientCfg := httpclient.DefaultConfig()
		clientCfg.Timeout = a.cfg.Sheets.Timeout

		breaker := httpclient.NewBreakerClient(
			httpclient.New(clientCfg, a.logger),
			httpclient.DefaultBreakerConfig("sheets"),
			a.logger,
		)
		client := sheets.NewClient(a.cfg.Sheets.WebAppURL, a.cfg.Sheets.Token, breaker, a.logger)

		return &repositories{
			menu:   sheets.NewMenuRepository(client),
			promos: sheets.NewPromotionRepository(client),
			orders: sheets.NewOrderRepository(client),
			carts:  carts,
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", a.cfg.StorageBackend)
	}
}

// buildPublisher wires Kafka when brokers are configured; otherwise event
// publishing is a no-op.
func (a *App) buildPublisher(healthHandler *health.Handler) *event.Publisher {
	if len(a.cfg.Kafka.Brokers) == 0 {
		a.logger.Info("kafka brokers not configured, event publishing disabled")
		return nil
	}

	producer := kafka.NewProducer(kafka.ProducerConfig{
		Brokers: a.cfg.Kafka.Brokers,
		Topic:   a.cfg.Kafka.Topic,
	}, a.logger)
	a.closers = append(a.closers, func() { _ = producer.Close() })

	brokers := a.cfg.Kafka.Brokers
	healthHandler.Register("kafka", func(ctx context.Context) error {
		return kafka.PingBrokers(ctx, brokers)
	})

	return event.NewPublisher(producer, a.logger)
}

// Run starts both servers and blocks until the context is canceled, then
// shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 2)

	go func() {
		a.logger.Info("http server listening", slog.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	go func() {
		a.logger.Info("metrics server listening", slog.String("addr", a.metricsServer.Addr))
		if err := a.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("metrics server: %w", err)
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown failed", slog.String("error", err.Error()))
	}
	if err := a.metricsServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("metrics server shutdown failed", slog.String("error", err.Error()))
	}

	if a.tracingShutdown != nil {
		if err := a.tracingShutdown(shutdownCtx); err != nil {
			a.logger.Error("tracing shutdown failed", slog.String("error", err.Error()))
		}
	}

	for _, closer := range a.closers {
		closer()
	}

	a.logger.Info("shutdown complete")
	return nil
}
