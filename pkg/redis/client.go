package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Package redis backs the idempotency layer: it holds short-lived processing
// locks while a payment mutation is in flight and retains the successful
// response body for replay.

var client *redis.Client

// Init initializes the Redis client
func Init(url, password string) error {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return err
	}

	if password != "" {
		opts.Password = password
	}

	client = redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return client.Ping(ctx).Err()
}

// SetClient sets the Redis client (used for testing)
func SetClient(c *redis.Client) {
	client = c
}

// Lookup returns the stored value for key. found is false when the key does
// not exist; err is reserved for transport failures.
func Lookup(ctx context.Context, key string) (value string, found bool, err error) {
	value, err = client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// AcquireLock claims key with a marker value for ttl. It returns false when
// another request already holds the lock.
func AcquireLock(ctx context.Context, key, marker string, ttl time.Duration) (bool, error) {
	return client.SetNX(ctx, key, marker, ttl).Result()
}

// ReleaseLock drops key so the request can be retried
func ReleaseLock(ctx context.Context, key string) error {
	return client.Del(ctx, key).Err()
}

// StoreResponse replaces the lock under key with the response body, retained
// for ttl so replays of the same request return the original result.
func StoreResponse(ctx context.Context, key, body string, ttl time.Duration) error {
	return client.Set(ctx, key, body, ttl).Err()
}
