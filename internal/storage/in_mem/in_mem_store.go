package in_mem

import (
	"context"
	"sync"

	"github.com/DjordjeVuckovic/content-hunter/internal/domain"
	"github.com/DjordjeVuckovic/content-hunter/internal/storage"
)

// Store keeps content records in a map keyed by natural key.
// It has no native full text search; pair it with the fallback strategy.
type Store struct {
	storageLock sync.RWMutex
	storage     map[domain.NaturalKey]domain.ContentRecord
}

var _ storage.ContentStore = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		storage: make(map[domain.NaturalKey]domain.ContentRecord),
	}
}

func (s *Store) FindByNaturalKeys(ctx context.Context, keys []domain.NaturalKey) (map[domain.NaturalKey]domain.ContentRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	found := make(map[domain.NaturalKey]domain.ContentRecord, len(keys))
	for _, k := range keys {
		if rec, ok := s.storage[k]; ok {
			found[k] = rec
		}
	}
	return found, nil
}

func (s *Store) SaveBatch(ctx context.Context, records []domain.ContentRecord) ([]domain.ContentRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	saved := make([]domain.ContentRecord, len(records))
	for i, rec := range records {
		// a concurrent writer may have inserted the key first; keep its identity
		if existing, ok := s.storage[rec.Key()]; ok {
			rec.ID = existing.ID
			rec.CreatedAt = existing.CreatedAt
		}
		s.storage[rec.Key()] = rec
		saved[i] = rec
	}
	return saved, nil
}

func (s *Store) Scan(ctx context.Context, kind domain.Kind) ([]domain.ContentRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	out := make([]domain.ContentRecord, 0, len(s.storage))
	for _, rec := range s.storage {
		if kind != "" && rec.Kind != kind {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// Len is the number of stored records.
func (s *Store) Len() int {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()
	return len(s.storage)
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) Close() {}
