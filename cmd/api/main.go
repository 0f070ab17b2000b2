package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/advisorly/content-compliance-backend/internal/api/rest"
	"github.com/advisorly/content-compliance-backend/internal/domain/compliance"
	"github.com/advisorly/content-compliance-backend/internal/infrastructure/cache"
	"github.com/advisorly/content-compliance-backend/internal/infrastructure/config"
	"github.com/advisorly/content-compliance-backend/internal/infrastructure/database"
	"github.com/advisorly/content-compliance-backend/internal/infrastructure/repository"
	"github.com/advisorly/content-compliance-backend/internal/infrastructure/telemetry"
	"github.com/advisorly/content-compliance-backend/internal/metrics"
	svccompliance "github.com/advisorly/content-compliance-backend/internal/service/compliance"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := telemetry.NewLogger(cfg.LogLevel, cfg.Environment)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	provider, err := telemetry.Setup(ctx, "content-compliance-api", cfg.Version, cfg.Environment)
	if err != nil {
		logger.Fatal("failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			logger.Warn("telemetry shutdown", zap.Error(err))
		}
	}()

	registry, err := metrics.NewRegistry("content-compliance")
	if err != nil {
		logger.Fatal("failed to build metrics registry", zap.Error(err))
	}

	// The database and redis are both optional. Without a database the
	// engine still validates but nothing persists; without redis the
	// quick-check cache and sliding-window rate limits are skipped.
	var repo *repository.ValidationRepository
	if cfg.Database.URL != "" {
		pool, err := database.Connect(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer pool.Close()
		repo = repository.NewValidationRepository(pool)
	} else {
		logger.Warn("no database configured, validations will not be persisted")
	}

	var (
		quickCache  svccompliance.QuickCheckCache
		rateLimiter cache.RateLimiter
	)
	if cfg.Redis.Address != "" {
		client, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer client.Close()

		redisCache := cache.NewRedisCacheFromClient(client, logger)
		quickCache = cache.NewQuickCheckCache(redisCache, cfg.Compliance.QuickCheckCacheTTL)
		rateLimiter = cache.NewRedisRateLimiter(client)
		logger.Info("redis connected", zap.String("addr", cfg.Redis.Address))
	} else {
		logger.Warn("no redis configured, quick-check caching and rate limiting disabled")
	}

	engine := svccompliance.NewEngine(logger)
	service := svccompliance.NewService(logger, engine, repoOrNil(repo), quickCache, registry)

	requestLogger := telemetry.NewRequestLogger(cfg.LogLevel)
	handler := rest.NewHandler(service, requestLogger, registry, provider.PrometheusRegistry)
	server := rest.NewServer(cfg, handler, requestLogger, rateLimiter)

	logger.Info("starting content compliance api",
		zap.String("version", cfg.Version),
		zap.String("environment", cfg.Environment),
		zap.Int("port", cfg.Server.Port),
	)

	if err := server.Start(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}

	logger.Info("server stopped")
}

// repoOrNil avoids handing the service a typed nil.
func repoOrNil(repo *repository.ValidationRepository) compliance.Repository {
	if repo == nil {
		return nil
	}
	return repo
}
