package testutils

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// TestRedisDB keeps integration tests away from real saves
const TestRedisDB = 15

// TestRedisAddr returns BLUR_TEST_REDIS_ADDR, or localhost
func TestRedisAddr() string {
	if addr := os.Getenv("BLUR_TEST_REDIS_ADDR"); addr != "" {
		return addr
	}
	return "localhost:6379"
}

// CreateTestRedisClientOrSkip connects to the test database and flushes it
// before and after the test. The test is skipped when Redis is unreachable.
func CreateTestRedisClientOrSkip(t *testing.T) redis.UniversalClient {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: TestRedisAddr(),
		DB:   TestRedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		t.Skipf("Redis not available at %s: %v", TestRedisAddr(), err)
	}

	require.NoError(t, client.FlushDB(ctx).Err(), "failed to flush test database")

	t.Cleanup(func() {
		_ = client.FlushDB(context.Background()).Err()
		_ = client.Close()
	})

	return client
}
