package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProbeHealthChecker_ReportsEveryComponent(t *testing.T) {
	hc := NewProbeHealthChecker(time.Second).
		With("store", func(context.Context) error { return nil }).
		With("cache", func(context.Context) error { return errors.New("connection refused") })

	report := hc.Check(context.Background())

	assert.Equal(t, map[string]string{"store": StatusOk, "cache": StatusFail}, report)
	assert.False(t, Healthy(report))
}

func TestProbeHealthChecker_TimeoutBoundsProbe(t *testing.T) {
	hc := NewProbeHealthChecker(10*time.Millisecond).
		With("slow", func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		})

	assert.Equal(t, map[string]string{"slow": StatusFail}, hc.Check(context.Background()))
}

func TestOkHealthChecker(t *testing.T) {
	report := NewOkHealthChecker().Check(context.Background())

	assert.Empty(t, report)
	assert.True(t, Healthy(report))
}
