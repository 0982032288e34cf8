package es

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/content-hunter/internal/storage"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
)

// searchFields are matched by multi_match; the title counts double.
var searchFields = []string{"title^2", "description"}

// resultWindow keeps from+size inside max_result_window. A page past the
// window asks for no hits so the total is still reported.
func resultWindow(offset, limit int) (from, size int) {
	offset, limit = max(0, offset), max(0, limit)
	if offset >= maxScanSize {
		return 0, 0
	}
	return offset, min(limit, maxScanSize-offset)
}

func fieldSort(field string, order sortorder.SortOrder) *types.SortOptions {
	return &types.SortOptions{
		SortOptions: map[string]types.FieldSort{
			field: {Order: &order},
		},
	}
}

// SearchFullText runs a BM25 multi_match over title and description.
// Popularity, publication time and id break ties in that order.
func (s *Store) SearchFullText(ctx context.Context, q storage.FullTextQuery) (*storage.FullTextResult, error) {
	slog.Info("Executing es full text search", "query", q.Query, "kind", q.Kind, "by_relevance", q.ByRelevance, "offset", q.Offset, "limit", q.Limit)

	boolQuery := &types.BoolQuery{
		Must: []types.Query{{
			MultiMatch: &types.MultiMatchQuery{
				Query:  q.Query,
				Fields: searchFields,
			},
		}},
	}
	if q.Kind != "" {
		boolQuery.Filter = []types.Query{{
			Term: map[string]types.TermQuery{"kind": {Value: string(q.Kind)}},
		}}
	}

	from, size := resultWindow(q.Offset, q.Limit)
	req := s.client.Search().
		Index(s.indexName).
		Query(&types.Query{Bool: boolQuery}).
		From(from).
		Size(size).
		TrackScores(true)

	if q.ByRelevance {
		req = req.Sort(
			fieldSort("_score", sortorder.Desc),
			fieldSort("final_score", sortorder.Desc),
			fieldSort("published_at", sortorder.Desc),
			fieldSort("id", sortorder.Asc),
		)
	} else {
		req = req.Sort(
			fieldSort("final_score", sortorder.Desc),
			fieldSort("published_at", sortorder.Desc),
			fieldSort("id", sortorder.Asc),
		)
	}

	res, err := req.Do(ctx)
	if err != nil {
		slog.Error("Elasticsearch query failed", "error", err, "query", q.Query)
		return nil, fmt.Errorf("failed to execute search: %w", err)
	}

	hits, err := mapHits(res.Hits.Hits)
	if err != nil {
		return nil, fmt.Errorf("failed to map search results: %w", err)
	}

	var total int64
	if res.Hits.Total != nil {
		total = res.Hits.Total.Value
	}

	slog.Info("Es search results fetched", "total_matches", total, "returned_count", len(hits))
	return &storage.FullTextResult{Hits: hits, Total: total}, nil
}
