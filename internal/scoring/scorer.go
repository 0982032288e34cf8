// Package scoring computes the popularity score of a content record.
package scoring

import (
	"math"
	"time"

	"github.com/DjordjeVuckovic/content-hunter/internal/domain"
	"github.com/DjordjeVuckovic/content-hunter/pkg/utils"
)

const (
	videoTypeWeight = 1.5
	textTypeWeight  = 1.0
)

// Scorer is the popularity scoring contract used by ingestion.
type Scorer interface {
	Compute(c domain.ContentRecord, now time.Time) domain.ScoreRecord
}

type PopularityScorer struct{}

func NewPopularityScorer() *PopularityScorer {
	return &PopularityScorer{}
}

func (PopularityScorer) Compute(c domain.ContentRecord, now time.Time) domain.ScoreRecord {
	return Compute(c, now)
}

// Compute is total and deterministic: missing or negative metrics count as 0.
func Compute(c domain.ContentRecord, now time.Time) domain.ScoreRecord {
	var base, typeWeight, engagement float64

	switch c.Kind {
	case domain.KindVideo:
		views := utils.IntOrZero(c.Metrics.Views)
		likes := utils.IntOrZero(c.Metrics.Likes)
		base = views/1000 + likes/100
		typeWeight = videoTypeWeight
		if views > 0 {
			engagement = likes / math.Max(1, views) * 10
		}
	default:
		readingTime := utils.IntOrZero(c.Metrics.ReadingTimeMinutes)
		reactions := utils.IntOrZero(c.Metrics.Reactions)
		base = readingTime + reactions/50
		typeWeight = textTypeWeight
		if readingTime > 0 {
			engagement = reactions / math.Max(1, readingTime) * 5
		}
	}

	recency := Recency(now.Sub(c.PublishedAt))
	final := base*typeWeight + recency + engagement

	return domain.ScoreRecord{
		Base:       utils.RoundDecimal(base, domain.ScoreDecimalPlaces),
		TypeWeight: typeWeight,
		Recency:    recency,
		Engagement: utils.RoundDecimal(engagement, domain.ScoreDecimalPlaces),
		Final:      utils.RoundDecimal(final, domain.FinalScoreDecimalPlaces),
	}
}

// Recency is a step function over the age in days.
// Content published in the future counts as brand new.
func Recency(age time.Duration) float64 {
	days := age.Hours() / 24
	switch {
	case days <= 7:
		return 5
	case days <= 30:
		return 3
	case days <= 90:
		return 1
	default:
		return 0
	}
}
