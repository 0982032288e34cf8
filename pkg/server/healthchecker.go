package server

import (
	"context"
	"log/slog"
	"sort"
	"time"
)

const (
	StatusOk   = "ok"
	StatusFail = "fail"
)

type HealthChecker interface {
	// Check returns the status of every probed component, keyed by name.
	Check(ctx context.Context) map[string]string
}

// Healthy reports whether every component in the report is ok.
func Healthy(report map[string]string) bool {
	for _, status := range report {
		if status != StatusOk {
			return false
		}
	}
	return true
}

type OkHealthChecker struct {
}

func NewOkHealthChecker() *OkHealthChecker {
	return &OkHealthChecker{}
}

func (hc *OkHealthChecker) Check(context.Context) map[string]string {
	return map[string]string{}
}

type ProbeFunc func(ctx context.Context) error

// ProbeHealthChecker runs named probes, each bounded by the same timeout.
type ProbeHealthChecker struct {
	timeout time.Duration
	probes  map[string]ProbeFunc
}

func NewProbeHealthChecker(timeout time.Duration) *ProbeHealthChecker {
	return &ProbeHealthChecker{
		timeout: timeout,
		probes:  make(map[string]ProbeFunc),
	}
}

func (hc *ProbeHealthChecker) With(name string, probe ProbeFunc) *ProbeHealthChecker {
	hc.probes[name] = probe
	return hc
}

func (hc *ProbeHealthChecker) Check(ctx context.Context) map[string]string {
	names := make([]string, 0, len(hc.probes))
	for name := range hc.probes {
		names = append(names, name)
	}
	sort.Strings(names)

	report := make(map[string]string, len(names))
	for _, name := range names {
		report[name] = hc.run(ctx, name)
	}
	return report
}

func (hc *ProbeHealthChecker) run(ctx context.Context, name string) string {
	if hc.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, hc.timeout)
		defer cancel()
	}
	if err := hc.probes[name](ctx); err != nil {
		slog.Warn("Health probe failed", "component", name, "error", err)
		return StatusFail
	}
	return StatusOk
}
