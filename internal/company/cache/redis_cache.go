package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "vitrina:tenant:"

// RedisTenantCache maps tax ids to company ids.
type RedisTenantCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisTenantCache(client *redis.Client, ttl time.Duration) *RedisTenantCache {
	return &RedisTenantCache{client: client, ttl: ttl}
}

func key(taxID string) string {
	return keyPrefix + taxID
}

// Get returns ("", false, nil) on a miss.
func (c *RedisTenantCache) Get(ctx context.Context, taxID string) (string, bool, error) {
	companyID, err := c.client.Get(ctx, key(taxID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return companyID, true, nil
}

func (c *RedisTenantCache) Set(ctx context.Context, taxID, companyID string) error {
	return c.client.Set(ctx, key(taxID), companyID, c.ttl).Err()
}
