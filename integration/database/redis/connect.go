package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Connect opens a Redis client, retrying with backoff per cfg, and verifies
// connectivity with a PING before returning.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	if cfg.ConnectionURL == "" {
		return nil, ErrEmptyConnectionURL
	}

	opts, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToParseRedisConnString, err)
	}
	if cfg.ConnectTimeout > 0 {
		opts.DialTimeout = cfg.ConnectTimeout
	}

	attempts := cfg.RetryAttempts
	if attempts <= 0 {
		attempts = 1
	}
	interval := cfg.RetryInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}

	client := redis.NewClient(opts)

	var lastErr error
	for i := 0; i < attempts; i++ {
		if err := client.Ping(ctx).Err(); err == nil {
			return client, nil
		} else {
			lastErr = err
		}
		if i < attempts-1 {
			select {
			case <-time.After(interval):
			case <-ctx.Done():
				client.Close()
				return nil, fmt.Errorf("%w: %v", ErrRedisNotReady, ctx.Err())
			}
		}
	}

	client.Close()
	return nil, fmt.Errorf("%w: %v", ErrRedisNotReady, lastErr)
}

// Healthcheck returns a function that pings client, suitable for readiness endpoints.
func Healthcheck(client *redis.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrHealthcheckFailed, err)
		}
		return nil
	}
}
