package pg

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/content-hunter/internal/domain"
	"github.com/DjordjeVuckovic/content-hunter/internal/storage"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// upsertContent writes one record and its score in a single statement.
// On a natural key conflict the stored id and created_at win.
const upsertContent = `
WITH upserted AS (
	INSERT INTO contents (
		id, source_name, external_id, kind, title, description, url,
		views, likes, reactions, reading_time_minutes,
		published_at, created_at, updated_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	ON CONFLICT (source_name, external_id) DO UPDATE SET
		kind                 = EXCLUDED.kind,
		title                = EXCLUDED.title,
		description          = EXCLUDED.description,
		url                  = EXCLUDED.url,
		views                = EXCLUDED.views,
		likes                = EXCLUDED.likes,
		reactions            = EXCLUDED.reactions,
		reading_time_minutes = EXCLUDED.reading_time_minutes,
		published_at         = EXCLUDED.published_at,
		updated_at           = EXCLUDED.updated_at
	RETURNING id, created_at
), scored AS (
	INSERT INTO content_scores (content_id, base, type_weight, recency, engagement, final)
	SELECT id, $15, $16, $17, $18, $19 FROM upserted
	ON CONFLICT (content_id) DO UPDATE SET
		base        = EXCLUDED.base,
		type_weight = EXCLUDED.type_weight,
		recency     = EXCLUDED.recency,
		engagement  = EXCLUDED.engagement,
		final       = EXCLUDED.final
)
SELECT id, created_at FROM upserted`

var contentColumns = []string{
	"c.id", "c.source_name", "c.external_id", "c.kind", "c.title", "c.description", "c.url",
	"c.views", "c.likes", "c.reactions", "c.reading_time_minutes",
	"c.published_at", "c.created_at", "c.updated_at",
	"s.base", "s.type_weight", "s.recency", "s.engagement", "s.final",
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type Store struct {
	pool *ConnectionPool
	db   *pgxpool.Pool
}

var (
	_ storage.ContentStore     = (*Store)(nil)
	_ storage.FullTextSearcher = (*Store)(nil)
)

func NewStore(pool *ConnectionPool) *Store {
	return &Store{pool: pool, db: pool.conn}
}

func selectContents() sq.SelectBuilder {
	return psql.Select(contentColumns...).
		From("contents c").
		Join("content_scores s ON s.content_id = c.id")
}

func (s *Store) FindByNaturalKeys(ctx context.Context, keys []domain.NaturalKey) (map[domain.NaturalKey]domain.ContentRecord, error) {
	found := make(map[domain.NaturalKey]domain.ContentRecord, len(keys))
	if len(keys) == 0 {
		return found, nil
	}

	sources := make([]string, len(keys))
	externalIDs := make([]string, len(keys))
	for i, k := range keys {
		sources[i] = k.Source
		externalIDs[i] = k.ExternalID
	}

	sql, args, err := selectContents().
		Where("(c.source_name, c.external_id) IN (SELECT * FROM unnest(?::text[], ?::text[]))", sources, externalIDs).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build lookup query: %w", err)
	}

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to lookup contents: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		found[rec.Key()] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return found, nil
}

func (s *Store) SaveBatch(ctx context.Context, records []domain.ContentRecord) ([]domain.ContentRecord, error) {
	if len(records) == 0 {
		return nil, nil
	}

	saved := make([]domain.ContentRecord, len(records))
	copy(saved, records)

	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, r := range records {
			batch.Queue(upsertContent,
				r.ID, r.Source, r.ExternalID, string(r.Kind), r.Title, r.Description, r.URL,
				r.Metrics.Views, r.Metrics.Likes, r.Metrics.Reactions, r.Metrics.ReadingTimeMinutes,
				r.PublishedAt, r.CreatedAt, r.UpdatedAt,
				r.Score.Base, r.Score.TypeWeight, r.Score.Recency, r.Score.Engagement, r.Score.Final,
			)
		}

		br := tx.SendBatch(ctx, batch)
		for i := range saved {
			if err := br.QueryRow().Scan(&saved[i].ID, &saved[i].CreatedAt); err != nil {
				_ = br.Close()
				return fmt.Errorf("failed to upsert content %s: %w", records[i].Key(), err)
			}
			saved[i].CreatedAt = saved[i].CreatedAt.UTC()
		}
		return br.Close()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save content batch: %w", err)
	}

	slog.Debug("PG content batch saved", "count", len(saved))
	return saved, nil
}

func (s *Store) Scan(ctx context.Context, kind domain.Kind) ([]domain.ContentRecord, error) {
	b := selectContents()
	if kind != "" {
		b = b.Where(sq.Eq{"c.kind": string(kind)})
	}

	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build scan query: %w", err)
	}

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to scan contents: %w", err)
	}
	defer rows.Close()

	var out []domain.ContentRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return out, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close() {
	s.pool.Close()
}

func scanRecord(row pgx.Row, extra ...any) (domain.ContentRecord, error) {
	var rec domain.ContentRecord
	var kind string
	dest := []any{
		&rec.ID, &rec.Source, &rec.ExternalID, &kind, &rec.Title, &rec.Description, &rec.URL,
		&rec.Metrics.Views, &rec.Metrics.Likes, &rec.Metrics.Reactions, &rec.Metrics.ReadingTimeMinutes,
		&rec.PublishedAt, &rec.CreatedAt, &rec.UpdatedAt,
		&rec.Score.Base, &rec.Score.TypeWeight, &rec.Score.Recency, &rec.Score.Engagement, &rec.Score.Final,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return domain.ContentRecord{}, fmt.Errorf("failed to scan content: %w", err)
	}
	rec.Kind = domain.Kind(kind)
	rec.PublishedAt = rec.PublishedAt.UTC()
	rec.CreatedAt = rec.CreatedAt.UTC()
	rec.UpdatedAt = rec.UpdatedAt.UTC()
	return rec, nil
}
