package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"vantage/internal/shared/identity"
)

const keyPrefix = "authguard:role:"

// Cache is the Redis-backed RoleCache. Misses and backend errors are
// reported separately so the guard can fall through to the directory.
type Cache struct {
	client *goredis.Client
}

func NewCache(client *goredis.Client) *Cache {
	return &Cache{client: client}
}

func (c *Cache) GetRole(ctx context.Context, subjectID string) (identity.Role, bool, error) {
	value, err := c.client.Get(ctx, keyPrefix+subjectID).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	role := identity.Role(value)
	if !identity.IsSupportedRole(role) {
		return "", false, nil
	}
	return role, true, nil
}

func (c *Cache) PutRole(ctx context.Context, subjectID string, role identity.Role, ttl time.Duration) error {
	return c.client.Set(ctx, keyPrefix+subjectID, string(role), ttl).Err()
}
