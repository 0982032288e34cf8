// Package search filters, ranks and pages content records.
//
// A Strategy is selected once at startup. Native mode hands matching and
// relevance to the store's full text facility; fallback mode matches by
// case-insensitive substring in process. Both order ties the same way, so
// swapping the backing store does not change the order of tied results.
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/DjordjeVuckovic/content-hunter/internal/domain"
	"github.com/DjordjeVuckovic/content-hunter/internal/storage"
	"github.com/DjordjeVuckovic/content-hunter/pkg/pagination"
)

type Mode string

const (
	Native   Mode = "native"
	Fallback Mode = "fallback"
)

// ParseMode accepts native or fallback, case-insensitively.
func ParseMode(raw string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(raw))); m {
	case Native, Fallback:
		return m, nil
	default:
		return "", fmt.Errorf("invalid search mode %q, expected one of %v", raw, []Mode{Native, Fallback})
	}
}

// DefaultMode is native when the store can search full text, fallback otherwise.
func DefaultMode(store any) Mode {
	if storage.CapabilitiesOf(store).FullText {
		return Native
	}
	return Fallback
}

type Sort string

const (
	SortPopularity Sort = "popularity"
	SortRelevance  Sort = "relevance"
)

type Criteria struct {
	Query string
	// Kind filters by content kind; empty means all kinds.
	Kind domain.Kind
	Sort Sort
	Page pagination.OffsetRequest
}

// byRelevance reports whether relevance leads the ordering.
func (c Criteria) byRelevance() bool {
	return c.Sort == SortRelevance && strings.TrimSpace(c.Query) != ""
}

type Result struct {
	Hits  []domain.RankedRecord
	Total int64
}

type Strategy struct {
	mode    Mode
	scanner storage.Scanner
	fts     storage.FullTextSearcher
}

// New binds a strategy to a store. Native mode requires a store with full
// text search; fallback mode requires a scannable store.
func New(mode Mode, store any) (*Strategy, error) {
	s := &Strategy{mode: mode}
	s.scanner, _ = store.(storage.Scanner)
	s.fts, _ = store.(storage.FullTextSearcher)

	switch mode {
	case Native:
		if s.fts == nil {
			return nil, fmt.Errorf("search mode %s: store %T has no full text search", mode, store)
		}
	case Fallback:
		if s.scanner == nil {
			return nil, fmt.Errorf("search mode %s: store %T cannot be scanned", mode, store)
		}
	default:
		return nil, fmt.Errorf("unknown search mode %q", mode)
	}
	return s, nil
}

func (s *Strategy) Mode() Mode {
	return s.mode
}

// Apply returns one page of matching records and the total match count.
func (s *Strategy) Apply(ctx context.Context, c Criteria) (*Result, error) {
	c.Page.Normalize()

	// an empty query has nothing to hand to the full text engine
	if s.mode == Native && (strings.TrimSpace(c.Query) != "" || s.scanner == nil) {
		return s.applyNative(ctx, c)
	}
	return s.applyFallback(ctx, c)
}

func (s *Strategy) applyNative(ctx context.Context, c Criteria) (*Result, error) {
	res, err := s.fts.SearchFullText(ctx, storage.FullTextQuery{
		Query:       c.Query,
		Kind:        c.Kind,
		ByRelevance: c.byRelevance(),
		Offset:      c.Page.Offset(),
		Limit:       c.Page.Size,
	})
	if err != nil {
		return nil, fmt.Errorf("native search: %w", err)
	}
	return &Result{Hits: res.Hits, Total: res.Total}, nil
}
