package source

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Policy is the resilience configuration of one source client.
type Policy struct {
	MaxConcurrent       int           `yaml:"maxConcurrent"`
	RetryCount          int           `yaml:"retryCount"`
	RetryBaseDelay      time.Duration `yaml:"retryBaseDelay"`
	BreakerFailures     int           `yaml:"breakerFailures"`
	BreakerOpenDuration time.Duration `yaml:"breakerOpenDuration"`
}

func DefaultPolicy() Policy {
	return Policy{
		MaxConcurrent:       2,
		RetryCount:          2,
		RetryBaseDelay:      200 * time.Millisecond,
		BreakerFailures:     3,
		BreakerOpenDuration: 30 * time.Second,
	}
}

// RetryDelay is the wait before the given retry attempt (1-based): base * 2^(attempt-1).
func (p Policy) RetryDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return p.RetryBaseDelay << (attempt - 1)
}

func (p Policy) Validate() error {
	var errs []error
	if p.MaxConcurrent < 1 || p.MaxConcurrent > 64 {
		errs = append(errs, fmt.Errorf("maxConcurrent must be between 1 and 64, got %d", p.MaxConcurrent))
	}
	if p.RetryCount < 0 || p.RetryCount > 10 {
		errs = append(errs, fmt.Errorf("retryCount must be between 0 and 10, got %d", p.RetryCount))
	}
	if p.RetryBaseDelay < time.Millisecond || p.RetryBaseDelay > 10*time.Second {
		errs = append(errs, fmt.Errorf("retryBaseDelay must be between 1ms and 10s, got %s", p.RetryBaseDelay))
	}
	if p.BreakerFailures < 1 || p.BreakerFailures > 20 {
		errs = append(errs, fmt.Errorf("breakerFailures must be between 1 and 20, got %d", p.BreakerFailures))
	}
	if p.BreakerOpenDuration < time.Second || p.BreakerOpenDuration > 10*time.Minute {
		errs = append(errs, fmt.Errorf("breakerOpenDuration must be between 1s and 10m, got %s", p.BreakerOpenDuration))
	}
	return errors.Join(errs...)
}

// Policies holds the default policy and per-source overrides.
type Policies struct {
	Default Policy
	Sources map[string]Policy
}

func DefaultPolicies() Policies {
	return Policies{Default: DefaultPolicy()}
}

// Resolve looks the policy up by source name, case-insensitively,
// falling back to the default policy.
func (p Policies) Resolve(name string) Policy {
	name = strings.TrimSpace(name)
	if name == "" {
		return p.Default
	}
	for k, v := range p.Sources {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return p.Default
}

func (p Policies) Validate() error {
	if err := p.Default.Validate(); err != nil {
		return fmt.Errorf("default policy: %w", err)
	}
	for name, pol := range p.Sources {
		if err := pol.Validate(); err != nil {
			return fmt.Errorf("policy %q: %w", name, err)
		}
	}
	return nil
}
