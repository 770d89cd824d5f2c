package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"vehicle-matcher/internal/common/logger"
	"vehicle-matcher/internal/models"
)

const distinctKeyPrefix = "vehicle:distinct:"

// CachedStore keeps QueryDistinct results in Redis. Vehicle lookups always go
// to the inner store because listing counts change constantly.
type CachedStore struct {
	inner  Store
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedStore(inner Store, rdb *redis.Client, ttl time.Duration, log logger.Logger) *CachedStore {
	return &CachedStore{
		inner:  inner,
		redis:  rdb,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "distinct-cache"}),
	}
}

func DistinctCacheKey(attributeType models.AttributeType) string {
	return distinctKeyPrefix + string(attributeType)
}

func (c *CachedStore) QueryDistinct(ctx context.Context, attributeType models.AttributeType) ([]string, error) {
	key := DistinctCacheKey(attributeType)

	if val, err := c.redis.Get(ctx, key).Result(); err == nil {
		var values []string
		if err := json.Unmarshal([]byte(val), &values); err == nil {
			return values, nil
		}
		c.logger.Warn("discarding corrupt cache entry", map[string]interface{}{"key": key})
	} else if err != redis.Nil {
		c.logger.Warn("cache read failed", map[string]interface{}{"key": key, "error": err})
	}

	values, err := c.inner.QueryDistinct(ctx, attributeType)
	if err != nil {
		return nil, err
	}

	data, _ := json.Marshal(values)
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", map[string]interface{}{"key": key, "error": err})
	}
	return values, nil
}

func (c *CachedStore) QueryVehicles(ctx context.Context, filter Filter) ([]models.Row, error) {
	return c.inner.QueryVehicles(ctx, filter)
}

// Invalidate drops every cached distinct-value list.
func (c *CachedStore) Invalidate(ctx context.Context) error {
	keys := make([]string, 0, len(models.AttributeTypes))
	for _, at := range models.AttributeTypes {
		keys = append(keys, DistinctCacheKey(at))
	}
	return c.redis.Del(ctx, keys...).Err()
}
