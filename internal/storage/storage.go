// Package storage defines the canonical content store contracts.
package storage

import (
	"context"

	"github.com/DjordjeVuckovic/content-hunter/internal/domain"
)

type Type string

const (
	ES    Type = "es"
	PG    Type = "pg"
	InMem Type = "in_mem"
)

type StorerError string

const (
	ErrUnsupportedStorer StorerError = "unsupported storage type: %s"
)

func (e StorerError) Error() string {
	return string(e)
}

// Store is upsert-by-natural-key access to content records.
type Store interface {
	// FindByNaturalKeys returns the stored records for the keys that exist.
	FindByNaturalKeys(ctx context.Context, keys []domain.NaturalKey) (map[domain.NaturalKey]domain.ContentRecord, error)
	// SaveBatch upserts every record together with its score, all or nothing.
	// The returned records carry the identity the store kept for each natural key.
	SaveBatch(ctx context.Context, records []domain.ContentRecord) ([]domain.ContentRecord, error)
	Ping(ctx context.Context) error
}

// Scanner exposes the store to in-process filtering.
type Scanner interface {
	// Scan returns every record of the given kind; an empty kind means all.
	Scan(ctx context.Context, kind domain.Kind) ([]domain.ContentRecord, error)
}

// FullTextQuery asks the store to match, rank and page in one round trip.
type FullTextQuery struct {
	Query string
	// Kind filters by content kind; empty means all.
	Kind domain.Kind
	// ByRelevance orders by the store's relevance before popularity.
	ByRelevance bool
	Offset      int
	Limit       int
}

type FullTextResult struct {
	Hits  []domain.RankedRecord
	Total int64
}

// FullTextSearcher is implemented by stores with a native text search facility.
type FullTextSearcher interface {
	SearchFullText(ctx context.Context, q FullTextQuery) (*FullTextResult, error)
}

// ContentStore is what every backend in this repository provides.
type ContentStore interface {
	Store
	Scanner
	Close()
}

type Capabilities struct {
	FullText bool
}

// CapabilitiesOf probes which optional read contracts a store implements.
func CapabilitiesOf(v any) Capabilities {
	_, fts := v.(FullTextSearcher)
	return Capabilities{FullText: fts}
}
