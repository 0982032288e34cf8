package source

import (
	"context"
	"fmt"
	"time"

	"github.com/DjordjeVuckovic/content-hunter/internal/domain"
	"github.com/DjordjeVuckovic/content-hunter/internal/events"
	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/semaphore"
)

// ResilientClient wraps one Source with a concurrency gate, retry with
// exponential backoff and a circuit breaker. The breaker wraps the retry
// loop: a call that fails after all retries counts once.
type ResilientClient struct {
	inner   Source
	policy  Policy
	gate    *semaphore.Weighted
	breaker *breaker
	sink    events.Sink
	now     func() time.Time
}

var _ Source = (*ResilientClient)(nil)

type ResilientOption func(*ResilientClient)

func WithSink(sink events.Sink) ResilientOption {
	return func(c *ResilientClient) {
		c.sink = sink
	}
}

// WithClock replaces the breaker's time source.
func WithClock(now func() time.Time) ResilientOption {
	return func(c *ResilientClient) {
		c.now = now
	}
}

func NewResilientClient(inner Source, policies Policies, opts ...ResilientOption) *ResilientClient {
	policy := policies.Resolve(inner.Name())

	c := &ResilientClient{
		inner:  inner,
		policy: policy,
		gate:   semaphore.NewWeighted(int64(max(1, policy.MaxConcurrent))),
		sink:   events.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.breaker = newBreaker(max(1, policy.BreakerFailures), policy.BreakerOpenDuration, c.now)

	return c
}

func (c *ResilientClient) Name() string {
	return c.inner.Name()
}

func (c *ResilientClient) Policy() Policy {
	return c.policy
}

func (c *ResilientClient) State() State {
	return c.breaker.State()
}

func (c *ResilientClient) Fetch(ctx context.Context, query string, page, size int) ([]domain.NormalizedItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	trial, t, err := c.breaker.allow()
	c.emitTransition(ctx, t, nil)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", c.Name(), err)
	}

	items, err := c.fetchWithRetry(ctx, query, page, size)
	c.emitTransition(ctx, c.breaker.record(trial, err), err)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", c.Name(), err)
	}
	return items, nil
}

func (c *ResilientClient) fetchWithRetry(ctx context.Context, query string, page, size int) ([]domain.NormalizedItem, error) {
	var items []domain.NormalizedItem
	attempt := 0

	op := func() error {
		attempt++
		res, err := c.fetchOnce(ctx, query, page, size)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return backoff.Permanent(ctxErr)
			}
			if IsCancellation(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		items = res
		return nil
	}

	notify := func(err error, wait time.Duration) {
		c.sink.Emit(ctx, events.Event{
			Kind:    events.SourceRetry,
			Source:  c.Name(),
			Attempt: attempt,
			Err:     err,
		})
	}

	if err := backoff.RetryNotify(op, c.retryBackOff(ctx), notify); err != nil {
		return nil, err
	}
	return items, nil
}

// fetchOnce runs a single attempt inside the admission gate.
func (c *ResilientClient) fetchOnce(ctx context.Context, query string, page, size int) ([]domain.NormalizedItem, error) {
	if err := c.gate.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer c.gate.Release(1)

	return c.inner.Fetch(ctx, query, page, size)
}

func (c *ResilientClient) retryBackOff(ctx context.Context) backoff.BackOff {
	if c.policy.RetryCount <= 0 {
		return backoff.WithContext(&backoff.StopBackOff{}, ctx)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.policy.RetryBaseDelay
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = c.policy.RetryDelay(c.policy.RetryCount)
	b.MaxElapsedTime = 0
	b.Reset()

	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.policy.RetryCount)), ctx)
}

func (c *ResilientClient) emitTransition(ctx context.Context, t *transition, cause error) {
	if t == nil {
		return
	}
	c.sink.Emit(ctx, events.Event{
		Kind:   events.BreakerTransition,
		Source: c.Name(),
		From:   t.from.String(),
		To:     t.to.String(),
		Err:    cause,
	})
}
