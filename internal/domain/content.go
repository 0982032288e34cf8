package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindVideo Kind = "video"
	KindText  Kind = "text"
)

// ParseKind maps a raw kind label onto a content Kind.
// Anything that is not a video ("article", "text", "post", ...) is text.
func ParseKind(raw string) Kind {
	if strings.EqualFold(strings.TrimSpace(raw), string(KindVideo)) {
		return KindVideo
	}
	return KindText
}

func (k Kind) Valid() bool {
	return k == KindVideo || k == KindText
}

// Metrics holds the optional engagement counters reported by a source.
// A nil field means the source did not report it.
type Metrics struct {
	Views              *int `json:"views,omitempty"`
	Likes              *int `json:"likes,omitempty"`
	Reactions          *int `json:"reactions,omitempty"`
	ReadingTimeMinutes *int `json:"readingTimeMinutes,omitempty"`
}

// NaturalKey identifies one piece of content across repeated ingestions.
type NaturalKey struct {
	Source     string
	ExternalID string
}

func (k NaturalKey) String() string {
	return fmt.Sprintf("%s/%s", k.Source, k.ExternalID)
}

// NormalizedItem is the source-agnostic shape produced by source adapters.
type NormalizedItem struct {
	Source      string
	ExternalID  string
	Kind        Kind
	Title       string
	Description string
	URL         string
	Metrics     Metrics
	PublishedAt time.Time
}

func (n NormalizedItem) Key() NaturalKey {
	return NaturalKey{Source: n.Source, ExternalID: n.ExternalID}
}

// ContentRecord is the canonical, persisted content entry.
// Score is owned by the record and replaced on every upsert.
type ContentRecord struct {
	ID          uuid.UUID   `json:"id"`
	Source      string      `json:"source"`
	ExternalID  string      `json:"externalId"`
	Kind        Kind        `json:"kind"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	URL         string      `json:"url"`
	Metrics     Metrics     `json:"metrics"`
	PublishedAt time.Time   `json:"publishedAt"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
	Score       ScoreRecord `json:"score"`
}

func (c ContentRecord) Key() NaturalKey {
	return NaturalKey{Source: c.Source, ExternalID: c.ExternalID}
}

// NewContentRecord builds a fresh record from a first sighting of an item.
func NewContentRecord(item NormalizedItem, now time.Time) ContentRecord {
	rec := ContentRecord{
		ID:        uuid.New(),
		CreatedAt: now,
	}
	rec.Merge(item, now)
	return rec
}

// Merge overwrites every mutable field from the item and refreshes UpdatedAt.
// ID and CreatedAt are left untouched.
func (c *ContentRecord) Merge(item NormalizedItem, now time.Time) {
	c.Source = item.Source
	c.ExternalID = item.ExternalID
	c.Kind = item.Kind
	c.Title = item.Title
	c.Description = item.Description
	c.URL = item.URL
	c.Metrics = item.Metrics
	c.PublishedAt = item.PublishedAt
	c.UpdatedAt = now
}

// RankedRecord is a content record together with the relevance signal
// produced by the search strategy that selected it.
type RankedRecord struct {
	ContentRecord
	Relevance float64
}
