// Package aggregator answers search requests: cache lookup, fan-out to the
// sources, ingestion, ranking and caching of the serialized response.
package aggregator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/DjordjeVuckovic/content-hunter/internal/cache"
	"github.com/DjordjeVuckovic/content-hunter/internal/domain"
	"github.com/DjordjeVuckovic/content-hunter/internal/dto"
	"github.com/DjordjeVuckovic/content-hunter/internal/events"
	"github.com/DjordjeVuckovic/content-hunter/internal/search"
	"github.com/DjordjeVuckovic/content-hunter/internal/source"
	"golang.org/x/sync/errgroup"
)

type Ingester interface {
	Ingest(ctx context.Context, items []domain.NormalizedItem) ([]domain.ContentRecord, error)
}

type Ranker interface {
	Apply(ctx context.Context, c search.Criteria) (*search.Result, error)
}

type Service struct {
	sources  []source.Source
	ingester Ingester
	ranker   Ranker
	cache    cache.Cache
	ttl      time.Duration
	sink     events.Sink
}

type Option func(*Service)

func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.ttl = ttl
	}
}

func WithSink(sink events.Sink) Option {
	return func(s *Service) {
		s.sink = sink
	}
}

func NewService(sources []source.Source, ingester Ingester, ranker Ranker, c cache.Cache, opts ...Option) *Service {
	s := &Service{
		sources:  sources,
		ingester: ingester,
		ranker:   ranker,
		cache:    c,
		ttl:      cache.DefaultTTL,
		sink:     events.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search returns the serialized response for the request. A cached answer
// is returned verbatim. A source that fails contributes nothing; store and
// cache failures are returned.
func (s *Service) Search(ctx context.Context, req Request) ([]byte, error) {
	q, err := Normalize(req)
	if err != nil {
		return nil, err
	}
	key := q.CacheKey()

	cached, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	if ok {
		s.sink.Emit(ctx, events.Event{Kind: events.CacheHit, Key: key})
		return []byte(cached), nil
	}
	s.sink.Emit(ctx, events.Event{Kind: events.CacheMiss, Key: key})

	items, fetchErr := s.Fetch(ctx, q.Query, q.Page, q.Size)
	if len(items) > 0 {
		ingestCtx := ctx
		if fetchErr != nil {
			// keep what already arrived even though the caller gave up
			ingestCtx = context.WithoutCancel(ctx)
		}
		if _, err := s.ingester.Ingest(ingestCtx, items); err != nil {
			return nil, fmt.Errorf("ingest: %w", err)
		}
	}
	if fetchErr != nil {
		return nil, fetchErr
	}

	res, err := s.ranker.Apply(ctx, q.criteria())
	if err != nil {
		return nil, fmt.Errorf("search store: %w", err)
	}

	body, err := json.Marshal(dto.NewSearchResponse(res.Hits, res.Total, q.Page, q.Size))
	if err != nil {
		return nil, fmt.Errorf("encode response: %w", err)
	}

	if err := s.cache.Set(ctx, key, string(body), s.ttl); err != nil {
		return nil, fmt.Errorf("cache set: %w", err)
	}
	return body, nil
}

// Fetch queries every configured source; see FetchAll.
func (s *Service) Fetch(ctx context.Context, query string, page, size int) ([]domain.NormalizedItem, error) {
	return FetchAll(ctx, s.sources, s.sink, query, page, size)
}

// FetchAll queries the sources concurrently and flattens what they return
// in source order. Source failures are reported and absorbed; the only
// error is the caller's cancellation, returned together with the items
// that arrived.
func FetchAll(ctx context.Context, sources []source.Source, sink events.Sink, query string, page, size int) ([]domain.NormalizedItem, error) {
	results := make([][]domain.NormalizedItem, len(sources))

	var g errgroup.Group
	for i, src := range sources {
		g.Go(func() error {
			items, err := src.Fetch(ctx, query, page, size)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				sink.Emit(ctx, events.Event{Kind: events.SourceFailed, Source: src.Name(), Err: err})
				return nil
			}
			results[i] = items
			return nil
		})
	}
	err := g.Wait()

	var flat []domain.NormalizedItem
	for _, r := range results {
		flat = append(flat, r...)
	}
	return flat, err
}
