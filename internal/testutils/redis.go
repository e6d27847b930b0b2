// Package testutils starts the external services integration tests need.
package testutils

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// RedisImage is the image StartRedisContainer runs
const RedisImage = "redis:7-alpine"

// TestRedisDB keeps tests away from data in DB 0
const TestRedisDB = 15

// StartRedisContainer runs a throwaway Redis and returns its address. The
// container is terminated when the test ends.
func StartRedisContainer(t *testing.T) string {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        RedisImage,
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("Docker not available for Redis container: %v", err)
	}

	t.Cleanup(func() {
		if termErr := container.Terminate(context.Background()); termErr != nil {
			t.Logf("failed to terminate redis container: %v", termErr)
		}
	})

	addr, err := container.Endpoint(ctx, "")
	require.NoError(t, err, "failed to resolve redis endpoint")

	return addr
}

// RedisClient connects to addr, or to REDIS_TEST_ADDR, or to a fresh
// container, flushes the test database and closes it when the test ends.
func RedisClient(t *testing.T, addr string) redis.UniversalClient {
	t.Helper()

	if addr == "" {
		addr = os.Getenv("REDIS_TEST_ADDR")
	}
	if addr == "" {
		addr = StartRedisContainer(t)
	}

	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   TestRedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		t.Skipf("Redis not available for testing: %v", err)
	}

	require.NoError(t, client.FlushDB(ctx).Err(), "failed to flush test redis database")

	t.Cleanup(func() {
		_ = client.FlushDB(context.Background()).Err()
		_ = client.Close()
	})

	return client
}
