package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// InsightType categorizes a stored analysis result
type InsightType string

const (
	InsightSentiment InsightType = "sentiment"
	InsightEmotion   InsightType = "emotion"
	InsightTopic     InsightType = "topic"
	InsightSummary   InsightType = "summary"
)

// Insight is one structured analysis result attached to a session
type Insight struct {
	ID        uuid.UUID   `json:"id"`
	SessionID uuid.UUID   `json:"session_id"`
	Type      InsightType `json:"insight_type"`
	Value     any         `json:"value"`
	CreatedAt time.Time   `json:"created_at"`
}

// Sentiment holds per-category sentiment scores
type Sentiment struct {
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
	Overall  string  `json:"overall,omitempty"`
}

// Emotions holds the six core emotion scores
type Emotions struct {
	Joy             float64 `json:"joy"`
	Sadness         float64 `json:"sadness"`
	Anger           float64 `json:"anger"`
	Fear            float64 `json:"fear"`
	Surprise        float64 `json:"surprise"`
	Disgust         float64 `json:"disgust"`
	DominantEmotion string  `json:"dominant_emotion,omitempty"`
}

// Topic is one extracted theme
type Topic struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords,omitempty"`
}

// Analysis is the full structured result of one text analysis
type Analysis struct {
	Sentiment Sentiment `json:"sentiment"`
	Emotions  Emotions  `json:"emotions"`
	Topics    []Topic   `json:"topics"`
	Summary   string    `json:"summary"`
}

// InsightRepository defines the interface for insight storage
type InsightRepository interface {
	Create(ctx context.Context, insight *Insight) error
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]Insight, error)
}
