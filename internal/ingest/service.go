// Package ingest merges normalized source items into the canonical store.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/DjordjeVuckovic/content-hunter/internal/domain"
	"github.com/DjordjeVuckovic/content-hunter/internal/events"
	"github.com/DjordjeVuckovic/content-hunter/internal/scoring"
	"github.com/DjordjeVuckovic/content-hunter/internal/storage"
)

// Service upserts batches of items by natural key and rescores every touched record.
type Service struct {
	store  storage.Store
	scorer scoring.Scorer
	sink   events.Sink
	now    func() time.Time
}

type Option func(*Service)

func WithScorer(scorer scoring.Scorer) Option {
	return func(s *Service) {
		s.scorer = scorer
	}
}

func WithSink(sink events.Sink) Option {
	return func(s *Service) {
		s.sink = sink
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(store storage.Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		scorer: scoring.NewPopularityScorer(),
		sink:   events.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ingest merges the batch into the store and returns one record per distinct
// natural key, in first-seen order. Every item of the batch is scored against
// the same instant. Persistence is all or nothing.
func (s *Service) Ingest(ctx context.Context, items []domain.NormalizedItem) ([]domain.ContentRecord, error) {
	if len(items) == 0 {
		return nil, nil
	}
	now := s.now().UTC()

	keys := make([]domain.NaturalKey, 0, len(items))
	seen := make(map[domain.NaturalKey]int, len(items))
	for _, item := range items {
		if _, ok := seen[item.Key()]; ok {
			continue
		}
		seen[item.Key()] = len(keys)
		keys = append(keys, item.Key())
	}

	existing, err := s.store.FindByNaturalKeys(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("lookup existing content: %w", err)
	}

	records := make([]domain.ContentRecord, len(keys))
	merged := make([]bool, len(keys))
	for _, item := range items {
		i := seen[item.Key()]
		switch {
		case merged[i]:
			// a later duplicate in the same batch wins
			records[i].Merge(item, now)
		default:
			if rec, ok := existing[item.Key()]; ok {
				rec.Merge(item, now)
				records[i] = rec
			} else {
				records[i] = domain.NewContentRecord(item, now)
			}
			merged[i] = true
		}
	}

	for i := range records {
		records[i].Score = s.scorer.Compute(records[i], now)
	}

	saved, err := s.store.SaveBatch(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("save content batch: %w", err)
	}

	s.sink.Emit(ctx, events.Event{Kind: events.IngestBatch, Count: len(saved)})
	return saved, nil
}
