// Package xmlfile reads content listings from an XML provider feed.
package xmlfile

import (
	"context"
	"encoding/xml"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/content-hunter/internal/domain"
	"github.com/DjordjeVuckovic/content-hunter/pkg/pagination"
)

const (
	DefaultName = "ProviderXml"
	dateLayout  = "2006-01-02"
)

type feed struct {
	Items []item `xml:"items>item"`
}

type item struct {
	ID              string   `xml:"id"`
	Type            string   `xml:"type"`
	Headline        string   `xml:"headline"`
	Stats           stats    `xml:"stats"`
	PublicationDate string   `xml:"publication_date"`
	Categories      []string `xml:"categories>category"`
}

type stats struct {
	Views       *int `xml:"views"`
	Likes       *int `xml:"likes"`
	ReadingTime *int `xml:"reading_time"`
	Reactions   *int `xml:"reactions"`
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

func (s *Source) Fetch(ctx context.Context, query string, page, size int) ([]domain.NormalizedItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	var fd feed
	if err := xml.NewDecoder(f).Decode(&fd); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	var matched []domain.NormalizedItem
	for _, it := range fd.Items {
		if !strings.Contains(strings.ToLower(it.Headline), needle) {
			continue
		}
		n, err := s.normalize(it)
		if err != nil {
			return nil, err
		}
		matched = append(matched, n)
	}

	return pagination.Paginate(matched, pagination.OffsetRequest{Page: page, Size: size}), nil
}

func (s *Source) normalize(it item) (domain.NormalizedItem, error) {
	published := time.Unix(0, 0).UTC()
	if d := strings.TrimSpace(it.PublicationDate); d != "" {
		t, err := time.Parse(dateLayout, d)
		if err != nil {
			return domain.NormalizedItem{}, fmt.Errorf("item %s: invalid publication_date %q: %w", it.ID, d, err)
		}
		published = t
	}

	return domain.NormalizedItem{
		Source:      s.name,
		ExternalID:  strings.TrimSpace(it.ID),
		Kind:        domain.ParseKind(it.Type),
		Title:       it.Headline,
		Description: strings.Join(it.Categories, ", "),
		URL:         fmt.Sprintf("mock://%s/%s", strings.ToLower(s.name), strings.TrimSpace(it.ID)),
		Metrics: domain.Metrics{
			Views:              it.Stats.Views,
			Likes:              it.Stats.Likes,
			Reactions:          it.Stats.Reactions,
			ReadingTimeMinutes: it.Stats.ReadingTime,
		},
		PublishedAt: published,
	}, nil
}
