package database

import (
	"context"
	"fmt"
	"time"

	"bbwaitlist/config"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects and pings Redis. Redis is optional here (rate
// limiting and referral-lookup caching degrade gracefully without it), so
// callers may treat an error as non-fatal.
func NewRedisClient(cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}
