package app

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	httpserver "github.com/AdityaU3672/recruiterbook-api/internal/adapter/httpserver"
)

// Pinger is the minimal interface for a database pool capable of Ping.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BuildReadinessChecks returns the db check and, when rdb is set, the redis check.
func BuildReadinessChecks(pool Pinger, rdb redis.UniversalClient) []httpserver.Check {
	checks := []httpserver.Check{{
		Name: "db",
		Fn: func(ctx context.Context) error {
			if pool == nil {
				return errors.New("db not configured")
			}
			return pool.Ping(ctx)
		},
	}}
	if rdb != nil {
		checks = append(checks, httpserver.Check{
			Name: "redis",
			Fn:   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		})
	}
	return checks
}
