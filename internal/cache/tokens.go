package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrTokenNotFound is returned when a reset token is missing or expired.
var ErrTokenNotFound = errors.New("token cache: token not found")

const resetTokenTTL = 15 * time.Minute

// TokenCache stores short-lived password-reset tokens in Redis.
type TokenCache struct {
	client *redis.Client
}

// NewTokenCache creates a new TokenCache
func NewTokenCache(client *redis.Client) *TokenCache {
	return &TokenCache{client: client}
}

func (c *TokenCache) SaveResetToken(ctx context.Context, token string, userID uint64) error {
	return c.client.Set(ctx, "reset_token:"+token, strconv.FormatUint(userID, 10), resetTokenTTL).Err()
}

func (c *TokenCache) GetResetToken(ctx context.Context, token string) (uint64, error) {
	val, err := c.client.Get(ctx, "reset_token:"+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrTokenNotFound
		}
		return 0, err
	}
	return strconv.ParseUint(val, 10, 64)
}

func (c *TokenCache) DeleteResetToken(ctx context.Context, token string) error {
	return c.client.Del(ctx, "reset_token:"+token).Err()
}
