package dto

import (
	"time"

	"github.com/DjordjeVuckovic/content-hunter/internal/domain"
	"github.com/DjordjeVuckovic/content-hunter/pkg/pagination"
	"github.com/google/uuid"
)

type ScoreBreakdown struct {
	Base       float64 `json:"base"`
	TypeWeight float64 `json:"typeWeight"`
	Recency    float64 `json:"recency"`
	Engagement float64 `json:"engagement"`
}

// SearchItem is one ranked content entry as served to clients.
type SearchItem struct {
	ID             uuid.UUID      `json:"id"`
	Title          string         `json:"title"`
	Kind           domain.Kind    `json:"kind"`
	FinalScore     float64        `json:"finalScore"`
	ScoreBreakdown ScoreBreakdown `json:"scoreBreakdown"`
	SourceName     string         `json:"sourceName"`
	PublishedAt    time.Time      `json:"publishedAt"`
	URL            string         `json:"url"`
}

// SearchResponse is the paged search payload: {meta, results}.
type SearchResponse = pagination.OffsetResult[SearchItem]

func NewSearchItem(r domain.RankedRecord) SearchItem {
	return SearchItem{
		ID:         r.ID,
		Title:      r.Title,
		Kind:       r.Kind,
		FinalScore: r.Score.Final,
		ScoreBreakdown: ScoreBreakdown{
			Base:       r.Score.Base,
			TypeWeight: r.Score.TypeWeight,
			Recency:    r.Score.Recency,
			Engagement: r.Score.Engagement,
		},
		SourceName:  r.Source,
		PublishedAt: r.PublishedAt.UTC(),
		URL:         r.URL,
	}
}

func NewSearchResponse(hits []domain.RankedRecord, total int64, page, size int) *SearchResponse {
	items := make([]SearchItem, len(hits))
	for i, h := range hits {
		items[i] = NewSearchItem(h)
	}
	return pagination.NewOffsetResult(items, total, page, size)
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Title  string              `json:"title,omitempty"`
	Error  string              `json:"error"`
	Errors map[string][]string `json:"errors,omitempty"`
}

type HealthResponse struct {
	Status string    `json:"status"`
	Store  string    `json:"store"`
	Cache  string    `json:"cache"`
	Time   time.Time `json:"time"`
}
