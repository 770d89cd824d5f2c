package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "vehicle-matcher/internal/common/errors"
	"vehicle-matcher/internal/common/logger"
	"vehicle-matcher/internal/models"
)

type countingStore struct {
	distinct      map[models.AttributeType][]string
	distinctCalls int
	vehicleCalls  int
	err           error
}

func (s *countingStore) QueryDistinct(_ context.Context, at models.AttributeType) ([]string, error) {
	s.distinctCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.distinct[at], nil
}

func (s *countingStore) QueryVehicles(_ context.Context, _ Filter) ([]models.Row, error) {
	s.vehicleCalls++
	return []models.Row{}, s.err
}

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestCachedStore_QueryDistinct_CachesResults(t *testing.T) {
	mr, rdb := setupRedis(t)
	inner := &countingStore{distinct: map[models.AttributeType][]string{
		models.AttributeMake: {"Toyota", "Volkswagen"},
	}}
	cache := NewCachedStore(inner, rdb, time.Hour, logger.NewTestLogger(t))

	first, err := cache.QueryDistinct(context.Background(), models.AttributeMake)
	require.NoError(t, err)
	second, err := cache.QueryDistinct(context.Background(), models.AttributeMake)
	require.NoError(t, err)

	assert.Equal(t, []string{"Toyota", "Volkswagen"}, first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.distinctCalls)
	assert.True(t, mr.Exists(DistinctCacheKey(models.AttributeMake)))
	assert.Equal(t, time.Hour, mr.TTL(DistinctCacheKey(models.AttributeMake)))
}

func TestCachedStore_QueryDistinct_CorruptEntryFallsThrough(t *testing.T) {
	mr, rdb := setupRedis(t)
	require.NoError(t, mr.Set(DistinctCacheKey(models.AttributeModel), "{not json"))

	inner := &countingStore{distinct: map[models.AttributeType][]string{
		models.AttributeModel: {"Camry"},
	}}
	cache := NewCachedStore(inner, rdb, time.Minute, logger.NewTestLogger(t))

	values, err := cache.QueryDistinct(context.Background(), models.AttributeModel)

	require.NoError(t, err)
	assert.Equal(t, []string{"Camry"}, values)
	assert.Equal(t, 1, inner.distinctCalls)
}

func TestCachedStore_QueryDistinct_RedisDownUsesInner(t *testing.T) {
	mr, rdb := setupRedis(t)
	mr.Close()

	inner := &countingStore{distinct: map[models.AttributeType][]string{
		models.AttributeDriveType: {"Front Wheel Drive"},
	}}
	cache := NewCachedStore(inner, rdb, time.Minute, logger.NewTestLogger(t))

	values, err := cache.QueryDistinct(context.Background(), models.AttributeDriveType)

	require.NoError(t, err)
	assert.Equal(t, []string{"Front Wheel Drive"}, values)
}

func TestCachedStore_InnerErrorNotCached(t *testing.T) {
	mr, rdb := setupRedis(t)
	inner := &countingStore{err: apperrors.NewStorageError(OpQueryDistinct, errors.New("down"))}
	cache := NewCachedStore(inner, rdb, time.Minute, logger.NewTestLogger(t))

	_, err := cache.QueryDistinct(context.Background(), models.AttributeMake)

	assert.True(t, errors.Is(err, apperrors.ErrStorage))
	assert.False(t, mr.Exists(DistinctCacheKey(models.AttributeMake)))
}

func TestCachedStore_QueryVehiclesBypassesCache(t *testing.T) {
	_, rdb := setupRedis(t)
	inner := &countingStore{}
	cache := NewCachedStore(inner, rdb, time.Minute, logger.NewTestLogger(t))

	_, _ = cache.QueryVehicles(context.Background(), Filter{models.AttributeMake: {"Toyota"}})
	_, _ = cache.QueryVehicles(context.Background(), Filter{models.AttributeMake: {"Toyota"}})

	assert.Equal(t, 2, inner.vehicleCalls)
}

func TestCachedStore_Invalidate(t *testing.T) {
	mr, rdb := setupRedis(t)
	inner := &countingStore{distinct: map[models.AttributeType][]string{
		models.AttributeMake: {"Toyota"},
	}}
	cache := NewCachedStore(inner, rdb, time.Minute, logger.NewTestLogger(t))

	_, err := cache.QueryDistinct(context.Background(), models.AttributeMake)
	require.NoError(t, err)
	require.NoError(t, cache.Invalidate(context.Background()))

	assert.False(t, mr.Exists(DistinctCacheKey(models.AttributeMake)))

	_, err = cache.QueryDistinct(context.Background(), models.AttributeMake)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.distinctCalls)
}
