package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/DjordjeVuckovic/content-hunter/internal/domain"
	"github.com/DjordjeVuckovic/content-hunter/internal/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
)

// maxScanSize bounds Scan to the default index.max_result_window.
const maxScanSize = 10000

type Store struct {
	client    *elasticsearch.TypedClient
	indexName string
}

var (
	_ storage.ContentStore     = (*Store)(nil)
	_ storage.FullTextSearcher = (*Store)(nil)
)

func NewStore(ctx context.Context, config ClientConfig) (*Store, error) {
	client, err := newClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}
	s := &Store{
		client:    client,
		indexName: config.IndexName,
	}

	if err := s.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure index exists: %w", err)
	}

	return s, nil
}

func (s *Store) FindByNaturalKeys(ctx context.Context, keys []domain.NaturalKey) (map[domain.NaturalKey]domain.ContentRecord, error) {
	found := make(map[domain.NaturalKey]domain.ContentRecord, len(keys))
	if len(keys) == 0 {
		return found, nil
	}

	values := make([]types.FieldValue, len(keys))
	for i, k := range keys {
		values[i] = k.String()
	}

	res, err := s.client.Search().
		Index(s.indexName).
		Query(&types.Query{
			Terms: &types.TermsQuery{
				TermsQuery: map[string]types.TermsQueryField{"natural_key": values},
			},
		}).
		Size(len(keys)).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to lookup contents: %w", err)
	}

	records, err := mapHits(res.Hits.Hits)
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		found[r.Key()] = r.ContentRecord
	}
	return found, nil
}

// SaveBatch indexes every record through the bulk indexer and waits for the
// refresh so that the following read sees the batch. Bulk indexing is not
// transactional: the call fails if any document fails.
func (s *Store) SaveBatch(ctx context.Context, records []domain.ContentRecord) ([]domain.ContentRecord, error) {
	if len(records) == 0 {
		return nil, nil
	}

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:      s.indexName,
		Client:     s.client,
		NumWorkers: 1,
		Refresh:    "wait_for",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create bulk indexer: %w", err)
	}

	var successful, failed atomic.Int64

	for _, r := range records {
		doc := toDocument(r)
		docBytes, err := json.Marshal(doc)
		if err != nil {
			_ = bi.Close(ctx)
			return nil, fmt.Errorf("failed to marshal document %s: %w", doc.NaturalKey, err)
		}

		err = bi.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: doc.NaturalKey,
			Body:       bytes.NewReader(docBytes),
			OnSuccess: func(context.Context, esutil.BulkIndexerItem, esutil.BulkIndexerResponseItem) {
				successful.Add(1)
			},
			OnFailure: func(_ context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				failed.Add(1)
				if err != nil {
					slog.Error("bulk index error", "error", err, "id", item.DocumentID)
				} else {
					slog.Error("bulk index error", "status", res.Status, "error", res.Error.Type, "reason", res.Error.Reason, "id", item.DocumentID)
				}
			},
		})
		if err != nil {
			_ = bi.Close(ctx)
			return nil, fmt.Errorf("failed to add document %s to bulk indexer: %w", doc.NaturalKey, err)
		}
	}

	if err := bi.Close(ctx); err != nil {
		return nil, fmt.Errorf("failed to close bulk indexer: %w", err)
	}

	slog.Debug("ES content batch indexed", "successful", successful.Load(), "failed", failed.Load(), "index", s.indexName)

	if n := failed.Load(); n > 0 {
		return nil, fmt.Errorf("failed to index %d out of %d contents", n, len(records))
	}

	saved := make([]domain.ContentRecord, len(records))
	copy(saved, records)
	return saved, nil
}

func (s *Store) Scan(ctx context.Context, kind domain.Kind) ([]domain.ContentRecord, error) {
	q := &types.Query{MatchAll: types.NewMatchAllQuery()}
	if kind != "" {
		q = &types.Query{Term: map[string]types.TermQuery{"kind": {Value: string(kind)}}}
	}

	res, err := s.client.Search().
		Index(s.indexName).
		Query(q).
		Size(maxScanSize).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan contents: %w", err)
	}

	hits, err := mapHits(res.Hits.Hits)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ContentRecord, len(hits))
	for i, h := range hits {
		out[i] = h.ContentRecord
	}
	return out, nil
}

func (s *Store) Ping(ctx context.Context) error {
	ok, err := s.client.Ping().Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to ping Elasticsearch: %w", err)
	}
	if !ok {
		return fmt.Errorf("elasticsearch ping was not successful")
	}
	return nil
}

func (s *Store) Close() {}

func mapHits(hits []types.Hit) ([]domain.RankedRecord, error) {
	out := make([]domain.RankedRecord, 0, len(hits))
	for _, hit := range hits {
		var doc ContentDocument
		if err := json.Unmarshal(hit.Source_, &doc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal document: %w", err)
		}
		rec, err := doc.toRecord()
		if err != nil {
			return nil, fmt.Errorf("invalid document %s: %w", doc.NaturalKey, err)
		}
		var relevance float64
		if hit.Score_ != nil {
			relevance = float64(*hit.Score_)
		}
		out = append(out, domain.RankedRecord{ContentRecord: rec, Relevance: relevance})
	}
	return out, nil
}
