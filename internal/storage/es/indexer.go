package es

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
)

const contentAnalyzer = "content_analyzer"

func (s *Store) EnsureIndex(ctx context.Context) error {
	exists, err := s.client.Indices.Exists(s.indexName).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check if index exists: %w", err)
	}

	if exists {
		slog.Info("Index already exists", "index", s.indexName)
		return nil
	}

	settings := types.IndexSettings{
		Analysis: &types.IndexSettingsAnalysis{
			Analyzer: map[string]types.Analyzer{
				contentAnalyzer: types.StandardAnalyzer{
					Stopwords: []string{"_english_"},
				},
			},
		},
	}

	mappings := types.TypeMapping{
		Properties: map[string]types.Property{
			"id":                   types.NewKeywordProperty(),
			"natural_key":          types.NewKeywordProperty(),
			"source_name":          types.NewKeywordProperty(),
			"external_id":          types.NewKeywordProperty(),
			"kind":                 types.NewKeywordProperty(),
			"title":                textProperty(contentAnalyzer),
			"description":          textProperty(contentAnalyzer),
			"url":                  types.NewKeywordProperty(),
			"views":                types.NewIntegerNumberProperty(),
			"likes":                types.NewIntegerNumberProperty(),
			"reactions":            types.NewIntegerNumberProperty(),
			"reading_time_minutes": types.NewIntegerNumberProperty(),
			"published_at":         types.NewDateProperty(),
			"created_at":           types.NewDateProperty(),
			"updated_at":           types.NewDateProperty(),
			"base_score":           types.NewDoubleNumberProperty(),
			"type_weight":          types.NewDoubleNumberProperty(),
			"recency_score":        types.NewDoubleNumberProperty(),
			"engagement_score":     types.NewDoubleNumberProperty(),
			"final_score":          types.NewDoubleNumberProperty(),
		},
	}

	createRes, err := s.client.Indices.Create(s.indexName).
		Settings(&settings).
		Mappings(&mappings).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	if !createRes.Acknowledged {
		return fmt.Errorf("index creation was not acknowledged")
	}

	slog.Info("Index created successfully", "index", s.indexName)
	return nil
}

func textProperty(analyzer string) types.Property {
	p := types.NewTextProperty()
	if analyzer != "" {
		p.Analyzer = &analyzer
	}
	return p
}
