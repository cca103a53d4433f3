package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/AdityaU3672/recruiterbook-api/internal/adapter/cache/redis"
	"github.com/AdityaU3672/recruiterbook-api/internal/adapter/repo/postgres"
	"github.com/AdityaU3672/recruiterbook-api/internal/config"
	"github.com/AdityaU3672/recruiterbook-api/internal/domain"
	"github.com/AdityaU3672/recruiterbook-api/internal/service/ratelimiter"
)

// Infra holds the connections a process opens at startup.
type Infra struct {
	Pool  *pgxpool.Pool
	Store *postgres.Store
	// Redis is nil when REDIS_URL is unset or unreachable.
	Redis   *goredis.Client
	Limiter *ratelimiter.TokenBucket
}

// OpenInfra connects to PostgreSQL, applies the schema when configured to and
// connects to Redis when REDIS_URL is set. Redis is optional: a failed
// connection is logged and the process runs without cache and shared quotas.
func OpenInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	pool, err := postgres.NewPool(ctx, cfg.DBURL, cfg.DBMaxConns)
	if err != nil {
		return nil, fmt.Errorf("op=app.open_infra: %w", err)
	}
	if cfg.DBAutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("op=app.open_infra: %w", err)
		}
	}
	inf := &Infra{Pool: pool, Store: postgres.NewStore(pool)}

	if cfg.RedisURL != "" {
		rdb, err := redis.Connect(ctx, cfg.RedisURL)
		if err != nil {
			slog.Warn("redis unavailable, running without cache", slog.Any("error", err))
		} else {
			inf.Redis = rdb
			inf.Limiter = ratelimiter.New(rdb, map[string]ratelimiter.BucketConfig{
				ratelimiter.BucketSearch: ratelimiter.PerMinute(cfg.SearchRatePerMin),
				ratelimiter.BucketAI:     ratelimiter.PerMinute(cfg.AIRatePerMin),
			})
		}
	}
	return inf, nil
}

// Cache returns the read cache, or nil when Redis is disabled.
func (i *Infra) Cache() domain.Cache {
	if i.Redis == nil {
		return nil
	}
	return redis.New(i.Redis, redis.DefaultPrefix)
}

// RedisClient returns Redis as an interface value that is nil when disabled.
func (i *Infra) RedisClient() goredis.UniversalClient {
	if i.Redis == nil {
		return nil
	}
	return i.Redis
}

// Close releases every connection.
func (i *Infra) Close() {
	if i.Redis != nil {
		if err := i.Redis.Close(); err != nil {
			slog.Error("failed to close redis", slog.Any("error", err))
		}
	}
	i.Pool.Close()
}
