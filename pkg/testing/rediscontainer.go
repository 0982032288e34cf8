package testing

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type RedisContainer struct {
	Container testcontainers.Container
	// Addr is host:port, as go-redis expects it.
	Addr string
}

// NewRedisContainer starts Redis through a generic container request and
// terminates it when the test ends.
func NewRedisContainer(ctx context.Context, tb testing.TB) *RedisContainer {
	tb.Helper()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7.4-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor: wait.ForLog("Ready to accept connections").
				WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		tb.Fatalf("failed to start redis container: %v", err)
	}
	terminateOnCleanup(tb, container, "redis")

	addr, err := endpoint(ctx, container, "6379")
	if err != nil {
		tb.Fatalf("redis: %v", err)
	}

	return &RedisContainer{
		Container: container,
		Addr:      addr,
	}
}
