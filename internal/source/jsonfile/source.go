// Package jsonfile reads content listings from a JSON provider dump.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/content-hunter/internal/domain"
	"github.com/DjordjeVuckovic/content-hunter/pkg/pagination"
)

const DefaultName = "ProviderJson"

type payload struct {
	Contents []item `json:"contents"`
}

type item struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Type        string    `json:"type"`
	Metrics     *metrics  `json:"metrics"`
	PublishedAt time.Time `json:"published_at"`
	Tags        []string  `json:"tags"`
}

type metrics struct {
	Views    *int   `json:"views"`
	Likes    *int   `json:"likes"`
	Duration string `json:"duration"`
}

type Source struct {
	name string
	path string
}

func New(name, path string) *Source {
	if name == "" {
		name = DefaultName
	}
	return &Source{name: name, path: path}
}

func (s *Source) Name() string {
	return s.name
}

// Fetch returns the items whose title contains query (case-insensitive), paged.
func (s *Source) Fetch(ctx context.Context, query string, page, size int) ([]domain.NormalizedItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	var p payload
	if err := json.NewDecoder(f).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	var matched []domain.NormalizedItem
	for _, it := range p.Contents {
		if !strings.Contains(strings.ToLower(it.Title), needle) {
			continue
		}
		matched = append(matched, s.normalize(it))
	}

	return pagination.Paginate(matched, pagination.OffsetRequest{Page: page, Size: size}), nil
}

func (s *Source) normalize(it item) domain.NormalizedItem {
	n := domain.NormalizedItem{
		Source:      s.name,
		ExternalID:  it.ID,
		Kind:        domain.ParseKind(it.Type),
		Title:       it.Title,
		Description: strings.Join(it.Tags, ", "),
		URL:         fmt.Sprintf("mock://%s/%s", strings.ToLower(s.name), it.ID),
		PublishedAt: it.PublishedAt.UTC(),
	}
	if it.Metrics != nil {
		n.Metrics.Views = it.Metrics.Views
		n.Metrics.Likes = it.Metrics.Likes
	}
	return n
}
