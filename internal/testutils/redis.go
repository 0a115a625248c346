package testutils

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// NewMiniRedisClient starts an in-process Redis and returns a client bound to it.
// Both are torn down when the test ends.
func NewMiniRedisClient(t *testing.T) (redis.UniversalClient, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client, mr
}

// WaitForRedis pings addr until it answers or timeout passes
func WaitForRedis(addr string, timeout time.Duration) error {
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	var lastErr error
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		lastErr = client.Ping(ctx).Err()
		cancel()
		if lastErr == nil {
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}

	return fmt.Errorf("redis at %s not ready after %v: %w", addr, timeout, lastErr)
}
