package cache

import (
	"context"
	"time"

	"gig-roster-api/core/config"
	"gig-roster-api/core/constants"
	"gig-roster-api/core/logger"

	"github.com/redis/go-redis/v9"
)

// Cache is the thin Redis surface the services use: single-use markers for
// redeemed invite tokens and dedupe keys for webhook deliveries.
type Cache interface {
	// MarkInviteTokenUsed records a redeemed invite token id. Returns false
	// if the token was already redeemed.
	MarkInviteTokenUsed(ctx context.Context, tokenID string, ttl time.Duration) (bool, error)
	// MarkWebhookSeen dedupes a provider push by message number. Returns
	// false if the message was already handled.
	MarkWebhookSeen(ctx context.Context, messageID string, ttl time.Duration) (bool, error)
	Close() error
}

type redisCache struct {
	client *redis.Client
}

func NewCache(cfg config.RedisConfig) (Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", "addr", cfg.Addr, "error", err)
		return nil, err
	}

	logger.Info("Redis initialized successfully", "addr", cfg.Addr)
	return &redisCache{client: client}, nil
}

func (c *redisCache) MarkInviteTokenUsed(ctx context.Context, tokenID string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, constants.RedisKeyInviteTokenUsed+tokenID, "1", ttl).Result()
}

func (c *redisCache) MarkWebhookSeen(ctx context.Context, messageID string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, constants.RedisKeyWebhookSeen+messageID, "1", ttl).Result()
}

func (c *redisCache) Close() error {
	return c.client.Close()
}
