package pg

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/content-hunter/internal/domain"
	"github.com/DjordjeVuckovic/content-hunter/internal/storage"
	sq "github.com/Masterminds/squirrel"
)

const (
	tsQuery = "plainto_tsquery('english', ?)"
	tsMatch = "c.search_vector @@ " + tsQuery
	tsRank  = "ts_rank(c.search_vector, " + tsQuery + ")::float8 AS relevance"
)

// SearchFullText matches with the generated tsvector and ranks with ts_rank.
// Popularity, publication time and id break ties in that order.
func (s *Store) SearchFullText(ctx context.Context, q storage.FullTextQuery) (*storage.FullTextResult, error) {
	slog.Info("Executing pg full text search", "query", q.Query, "kind", q.Kind, "by_relevance", q.ByRelevance, "offset", q.Offset, "limit", q.Limit)

	where := sq.And{sq.Expr(tsMatch, q.Query)}
	if q.Kind != "" {
		where = append(where, sq.Eq{"c.kind": string(q.Kind)})
	}

	countSQL, countArgs, err := psql.Select("COUNT(*)").From("contents c").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build count query: %w", err)
	}
	var total int64
	if err := s.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count matches: %w", err)
	}

	orderBy := []string{"s.final DESC", "c.published_at DESC", "c.id ASC"}
	if q.ByRelevance {
		orderBy = append([]string{"relevance DESC"}, orderBy...)
	}

	searchSQL, args, err := selectContents().
		Column(sq.Expr(tsRank, q.Query)).
		Where(where).
		OrderBy(orderBy...).
		Offset(uint64(max(0, q.Offset))).
		Limit(uint64(max(0, q.Limit))).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build search query: %w", err)
	}

	rows, err := s.db.Query(ctx, searchSQL, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search query: %w", err)
	}
	defer rows.Close()

	hits := make([]domain.RankedRecord, 0, max(0, q.Limit))
	for rows.Next() {
		var relevance float64
		rec, err := scanRecord(rows, &relevance)
		if err != nil {
			return nil, err
		}
		hits = append(hits, domain.RankedRecord{ContentRecord: rec, Relevance: relevance})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	slog.Info("PG search results fetched", "total_matches", total, "returned_count", len(hits))
	return &storage.FullTextResult{Hits: hits, Total: total}, nil
}
