package distancecache_test

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dispatch/internal/adapters/out/distancecache"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
)

type MockDistanceResolver struct{ mock.Mock }

func (m *MockDistanceResolver) Resolve(ctx context.Context, origin, destination kernel.GeoPoint) (int, error) {
	args := m.Called(ctx, origin, destination)
	return args.Int(0), args.Error(1)
}

func unreachableRedis(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 100 * time.Millisecond,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestResolver_RedisDownFallsThrough(t *testing.T) {
	origin, err := kernel.NewGeoPoint("1", "2")
	require.NoError(t, err)
	destination, err := kernel.NewGeoPoint("3", "4")
	require.NoError(t, err)

	next := new(MockDistanceResolver)
	next.On("Resolve", mock.Anything, origin, destination).Return(1234, nil).Once()

	r := distancecache.NewResolver(next, unreachableRedis(t), time.Minute, nil)
	distance, err := r.Resolve(t.Context(), origin, destination)

	require.NoError(t, err)
	assert.Equal(t, 1234, distance)
	next.AssertExpectations(t)
}

func TestResolver_PropagatesResolutionError(t *testing.T) {
	origin, _ := kernel.NewGeoPoint("1", "2")
	destination, _ := kernel.NewGeoPoint("3", "4")
	resolveErr := ports.NewDistanceResolutionError("ZERO_RESULTS", nil)

	next := new(MockDistanceResolver)
	next.On("Resolve", mock.Anything, origin, destination).Return(0, resolveErr).Once()

	r := distancecache.NewResolver(next, unreachableRedis(t), time.Minute, nil)
	_, err := r.Resolve(t.Context(), origin, destination)

	require.ErrorIs(t, err, resolveErr)
}
