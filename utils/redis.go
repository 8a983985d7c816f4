package utils

import (
	"context"
	"fmt"
	"time"

	"sitetrack/config"

	"github.com/go-redis/redis/v8"
)

// NewQueueRedisClient connects to the Redis database backing the notification queue.
func NewQueueRedisClient() (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis (queue): %w", err)
	}
	return client, nil
}
