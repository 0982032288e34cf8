package search

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/DjordjeVuckovic/content-hunter/internal/domain"
	"github.com/DjordjeVuckovic/content-hunter/pkg/pagination"
)

func (s *Strategy) applyFallback(ctx context.Context, c Criteria) (*Result, error) {
	records, err := s.scanner.Scan(ctx, c.Kind)
	if err != nil {
		return nil, fmt.Errorf("fallback search: %w", err)
	}

	matched := Match(records, c.Query)
	Rank(matched, c.byRelevance())

	return &Result{
		Hits:  pagination.Paginate(matched, c.Page),
		Total: int64(len(matched)),
	}, nil
}

// Match keeps the records whose title or description contains the query,
// case-insensitively. Relevance is the number of matching fields (1 or 2).
// An empty query matches everything with relevance 0.
func Match(records []domain.ContentRecord, query string) []domain.RankedRecord {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]domain.RankedRecord, 0, len(records))
	for _, r := range records {
		if q == "" {
			out = append(out, domain.RankedRecord{ContentRecord: r})
			continue
		}
		relevance := 0
		if strings.Contains(strings.ToLower(r.Title), q) {
			relevance++
		}
		if strings.Contains(strings.ToLower(r.Description), q) {
			relevance++
		}
		if relevance > 0 {
			out = append(out, domain.RankedRecord{ContentRecord: r, Relevance: float64(relevance)})
		}
	}
	return out
}

// Rank sorts in place with Compare.
func Rank(records []domain.RankedRecord, byRelevance bool) {
	slices.SortFunc(records, func(a, b domain.RankedRecord) int {
		return Compare(a, b, byRelevance)
	})
}
