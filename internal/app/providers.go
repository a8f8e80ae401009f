package app

import (
	"database/sql"

	"linker/internal/config"
	"linker/internal/shortener/database"
	httpdelivery "linker/internal/shortener/delivery/http"
	"linker/internal/shortener/events"
	"linker/internal/shortener/repository/cache"
	"linker/internal/shortener/repository/postgres"
	"linker/internal/shortener/repository/sqlite"
	"linker/internal/shortener/usecase"

	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ProviderSet is the application provider set.
var ProviderSet = wire.NewSet(
	NewDB,
	NewRedisClient,
	NewLinkRepository,
	NewServiceOptions,
	NewHandlerOptions,
	NewRateLimiter,
	NewEnricher,
	usecase.NewLinkService,
	httpdelivery.NewHandler,
	httpdelivery.NewRouter,
	New,
)

// NewDB opens the configured database and brings its schema up to date.
func NewDB(cfg *config.Config, logger *zap.Logger) (*sql.DB, func(), error) {
	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := database.RunMigrations(db, cfg.DatabaseDriver); err != nil {
		db.Close()
		return nil, nil, err
	}

	logger.Info("database initialized", zap.String("driver", cfg.DatabaseDriver))

	cleanup := func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", zap.Error(err))
		}
	}
	return db, cleanup, nil
}

// NewRedisClient connects to REDIS_URL when set; otherwise it returns nil and
// the link cache is disabled.
func NewRedisClient(cfg *config.Config, logger *zap.Logger) (*redis.Client, func(), error) {
	rdb, err := cache.NewRedisClient(cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	if rdb == nil {
		logger.Info("redis not configured, link cache disabled")
		return nil, func() {}, nil
	}

	cleanup := func() {
		if err := rdb.Close(); err != nil {
			logger.Error("failed to close redis client", zap.Error(err))
		}
	}
	return rdb, cleanup, nil
}

// NewLinkRepository picks the store for the configured driver and puts the
// read-through cache in front of it.
func NewLinkRepository(cfg *config.Config, db *sql.DB, rdb *redis.Client, logger *zap.Logger) usecase.LinkRepository {
	var repo usecase.LinkRepository
	switch cfg.DatabaseDriver {
	case database.DriverPostgres:
		repo = postgres.NewLinkRepository(db)
	default:
		repo = sqlite.NewLinkRepository(db)
	}
	return cache.NewCachedLinkRepository(repo, cache.NewRedisLinkCache(rdb, logger))
}

func NewServiceOptions(cfg *config.Config) usecase.ServiceOptions {
	return usecase.ServiceOptions{
		Mode:       cfg.Mode,
		MaxRetries: cfg.MaxRetries,
	}
}

func NewHandlerOptions(cfg *config.Config) httpdelivery.Options {
	return httpdelivery.Options{
		BaseURL:       cfg.BaseURL,
		Mode:          cfg.Mode,
		AllowedOrigin: cfg.AllowedOrigin,
		TrustProxy:    cfg.TrustProxy,
	}
}

func NewRateLimiter(cfg *config.Config) (*httpdelivery.RateLimiter, func()) {
	rl := httpdelivery.NewRateLimiter(cfg.RateLimit)
	return rl, rl.Stop
}

// NewEnricher builds the click enricher, with country lookup when
// GEOIP_DB_PATH names a readable database. A bad path only disables it.
func NewEnricher(cfg *config.Config, logger *zap.Logger) (*events.Enricher, func()) {
	if cfg.GeoIPPath == "" {
		return events.NewEnricher(nil), func() {}
	}

	resolver, err := events.NewGeoIPResolver(cfg.GeoIPPath)
	if err != nil {
		logger.Warn("failed to open geoip database, country enrichment disabled",
			zap.String("path", cfg.GeoIPPath),
			zap.Error(err),
		)
		return events.NewEnricher(nil), func() {}
	}

	return events.NewEnricher(resolver), func() { resolver.Close() }
}
