package domain

const (
	ScoreDecimalPlaces      = 3
	FinalScoreDecimalPlaces = 4
)

// ScoreRecord is the popularity breakdown of one ContentRecord.
// It is always recomputed as a whole, never patched.
type ScoreRecord struct {
	Base       float64 `json:"base"`
	TypeWeight float64 `json:"typeWeight"`
	Recency    float64 `json:"recency"`
	Engagement float64 `json:"engagement"`
	Final      float64 `json:"final"`
}
