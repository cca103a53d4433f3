package usecase

import (
	"encoding/json"
	"time"

	"github.com/AdityaU3672/recruiterbook-api/internal/domain"
	"github.com/AdityaU3672/recruiterbook-api/internal/observability"
)

func recruiterCacheKey(id string) string { return "recruiter:" + id }

// invalidate drops keys from a best-effort cache; failures are only logged.
func invalidate(ctx domain.Context, c domain.Cache, keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}
	if err := c.Delete(ctx, keys...); err != nil {
		observability.LoggerFromContext(ctx).Warn("cache invalidation failed", "keys", keys, "error", err)
	}
}

// cached loads key from c or calls load and stores its JSON form for ttl.
// A broken cache never fails the read.
func cached[T any](ctx domain.Context, c domain.Cache, key string, ttl time.Duration, load func() (T, error)) (T, error) {
	if c != nil {
		if raw, ok, err := c.Get(ctx, key); err == nil && ok {
			var v T
			if json.Unmarshal([]byte(raw), &v) == nil {
				return v, nil
			}
		}
	}
	v, err := load()
	if err != nil {
		return v, err
	}
	if c != nil {
		if b, err := json.Marshal(v); err == nil {
			if err := c.Set(ctx, key, string(b), ttl); err != nil {
				observability.LoggerFromContext(ctx).Warn("cache store failed", "key", key, "error", err)
			}
		}
	}
	return v, nil
}
