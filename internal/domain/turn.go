package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Turn is one question/answer exchange in a session. AnswerText is null only
// for legacy rows; every write path inserts the row once, after the answer
// (or its error placeholder) is known. A turn may carry a structured chart
// payload instead of plain prose, in which case ChartType names the
// visualization and ChartData holds its JSON-serializable values.
type Turn struct {
	ID           uuid.UUID  `json:"id"`
	SessionID    uuid.UUID  `json:"session_id"`
	QuestionText string     `json:"question_text"`
	AnswerText   *string    `json:"answer_text"`
	ChartType    *string    `json:"chart_type,omitempty"`
	ChartData    any        `json:"chart_data,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	AnsweredAt   *time.Time `json:"answered_at,omitempty"`
}

// Chart types carried by visualization turns
const (
	ChartEmotionDistribution = "emotion_distribution"
	ChartKeyTopics           = "key_topics"
)

// QA is a question/answer pair as presented to the language model
type QA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// TurnRepository defines the interface for the session turn log
type TurnRepository interface {
	// Create performs a single atomic insert; turns are never updated.
	Create(ctx context.Context, turn *Turn) error
	// ListRecentAnswered returns up to limit answered turns, most recent
	// first.
	ListRecentAnswered(ctx context.Context, sessionID uuid.UUID, limit int) ([]Turn, error)
	// ListBySession returns a chronological page of the full turn log.
	ListBySession(ctx context.Context, sessionID uuid.UUID, limit, offset int) ([]Turn, error)
}
