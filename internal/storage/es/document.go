package es

import (
	"time"

	"github.com/DjordjeVuckovic/content-hunter/internal/domain"
	"github.com/google/uuid"
)

// ContentDocument is one content record with its score, flattened for indexing.
// The document id is the natural key so re-indexing a record replaces it.
type ContentDocument struct {
	ID                 string    `json:"id"`
	NaturalKey         string    `json:"natural_key"`
	SourceName         string    `json:"source_name"`
	ExternalID         string    `json:"external_id"`
	Kind               string    `json:"kind"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	URL                string    `json:"url"`
	Views              *int      `json:"views,omitempty"`
	Likes              *int      `json:"likes,omitempty"`
	Reactions          *int      `json:"reactions,omitempty"`
	ReadingTimeMinutes *int      `json:"reading_time_minutes,omitempty"`
	PublishedAt        time.Time `json:"published_at"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
	BaseScore          float64   `json:"base_score"`
	TypeWeight         float64   `json:"type_weight"`
	RecencyScore       float64   `json:"recency_score"`
	EngagementScore    float64   `json:"engagement_score"`
	FinalScore         float64   `json:"final_score"`
}

func toDocument(r domain.ContentRecord) ContentDocument {
	return ContentDocument{
		ID:                 r.ID.String(),
		NaturalKey:         r.Key().String(),
		SourceName:         r.Source,
		ExternalID:         r.ExternalID,
		Kind:               string(r.Kind),
		Title:              r.Title,
		Description:        r.Description,
		URL:                r.URL,
		Views:              r.Metrics.Views,
		Likes:              r.Metrics.Likes,
		Reactions:          r.Metrics.Reactions,
		ReadingTimeMinutes: r.Metrics.ReadingTimeMinutes,
		PublishedAt:        r.PublishedAt,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
		BaseScore:          r.Score.Base,
		TypeWeight:         r.Score.TypeWeight,
		RecencyScore:       r.Score.Recency,
		EngagementScore:    r.Score.Engagement,
		FinalScore:         r.Score.Final,
	}
}

func (d ContentDocument) toRecord() (domain.ContentRecord, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return domain.ContentRecord{}, err
	}
	return domain.ContentRecord{
		ID:          id,
		Source:      d.SourceName,
		ExternalID:  d.ExternalID,
		Kind:        domain.Kind(d.Kind),
		Title:       d.Title,
		Description: d.Description,
		URL:         d.URL,
		Metrics: domain.Metrics{
			Views:              d.Views,
			Likes:              d.Likes,
			Reactions:          d.Reactions,
			ReadingTimeMinutes: d.ReadingTimeMinutes,
		},
		PublishedAt: d.PublishedAt.UTC(),
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
		Score: domain.ScoreRecord{
			Base:       d.BaseScore,
			TypeWeight: d.TypeWeight,
			Recency:    d.RecencyScore,
			Engagement: d.EngagementScore,
			Final:      d.FinalScore,
		},
	}, nil
}
