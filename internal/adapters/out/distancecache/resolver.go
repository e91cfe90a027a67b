// Package distancecache memoizes distance lookups in Redis.
//
// The cache is an optimization only: any Redis failure is logged and the
// lookup falls through to the wrapped resolver. Failed lookups are never cached.
package distancecache

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
)

const keyPrefix = "dispatch:distance:"

// Resolver decorates a ports.DistanceResolver with a Redis cache.
type Resolver struct {
	next   ports.DistanceResolver
	client redis.UniversalClient
	ttl    time.Duration
	logger *slog.Logger
}

// NewResolver wraps next. A ttl of zero keeps entries until Redis evicts them.
func NewResolver(next ports.DistanceResolver, client redis.UniversalClient, ttl time.Duration, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger.With("component", "distance_cache"),
	}
}

// Resolve returns the cached distance for the pair or resolves and stores it.
func (r *Resolver) Resolve(ctx context.Context, origin, destination kernel.GeoPoint) (int, error) {
	key := cacheKey(origin, destination)

	cached, err := r.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		if distance, convErr := strconv.Atoi(cached); convErr == nil && distance >= 0 {
			return distance, nil
		}
		r.logger.WarnContext(ctx, "discarding unreadable cache entry", "key", key)
	case errors.Is(err, redis.Nil):
	default:
		r.logger.WarnContext(ctx, "distance cache read failed", "error", err)
	}

	distance, err := r.next.Resolve(ctx, origin, destination)
	if err != nil {
		return 0, err
	}

	if setErr := r.client.Set(ctx, key, strconv.Itoa(distance), r.ttl).Err(); setErr != nil {
		r.logger.WarnContext(ctx, "distance cache write failed", "error", setErr)
	}

	return distance, nil
}

func cacheKey(origin, destination kernel.GeoPoint) string {
	return keyPrefix + origin.String() + ":" + destination.String()
}
