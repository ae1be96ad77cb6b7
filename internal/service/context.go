package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/deeppurple/deeppurple/internal/domain"
	"github.com/deeppurple/deeppurple/internal/llm"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DefaultMaxContextChars caps the assembled document context
const DefaultMaxContextChars = 10000

// ContextCache is the optional read-through cache for assembled contexts
type ContextCache interface {
	Get(ctx context.Context, sessionID uuid.UUID) (string, bool, error)
	Set(ctx context.Context, sessionID uuid.UUID, assembled string) error
	Invalidate(ctx context.Context, sessionID uuid.UUID) error
}

// ContextAssembler builds the document context and conversation history a
// question is answered against.
type ContextAssembler struct {
	fileRepo        domain.FileRepository
	turnRepo        domain.TurnRepository
	cache           ContextCache
	maxContextChars int
}

// NewContextAssembler creates a new context assembler. cache may be nil.
func NewContextAssembler(
	fileRepo domain.FileRepository,
	turnRepo domain.TurnRepository,
	cache ContextCache,
	maxContextChars int,
) *ContextAssembler {
	if maxContextChars <= 0 {
		maxContextChars = DefaultMaxContextChars
	}
	return &ContextAssembler{
		fileRepo:        fileRepo,
		turnRepo:        turnRepo,
		cache:           cache,
		maxContextChars: maxContextChars,
	}
}

// GatherContext concatenates every document's extracted text for the
// session, oldest upload first, joined by a blank line and prefix-cut to
// the configured maximum. A session with no documents yields an empty
// string, which is a valid state rather than an error.
func (a *ContextAssembler) GatherContext(ctx context.Context, sessionID uuid.UUID) (string, error) {
	if a.cache != nil {
		if cached, ok, err := a.cache.Get(ctx, sessionID); err == nil && ok {
			return cached, nil
		}
	}

	contents, err := a.fileRepo.ListContentsBySession(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("failed to gather context: %w", err)
	}

	assembled := llm.TruncateChars(strings.Join(contents, "\n\n"), a.maxContextChars)

	if a.cache != nil {
		if err := a.cache.Set(ctx, sessionID, assembled); err != nil {
			log.Warn().Err(err).Str("session_id", sessionID.String()).Msg("failed to cache context")
		}
	}
	return assembled, nil
}

// GatherHistory returns up to limit prior answered turns in chronological
// order. limit <= 0 means no history and performs no query.
func (a *ContextAssembler) GatherHistory(ctx context.Context, sessionID uuid.UUID, limit int) ([]domain.QA, error) {
	if limit <= 0 {
		return []domain.QA{}, nil
	}

	turns, err := a.turnRepo.ListRecentAnswered(ctx, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to gather history: %w", err)
	}

	// Most-recent-first from storage; the model reads a transcript, so
	// reverse to oldest-first.
	history := make([]domain.QA, 0, len(turns))
	for i := len(turns) - 1; i >= 0; i-- {
		// Pending turns never reach the transcript.
		if turns[i].AnswerText == nil {
			continue
		}
		history = append(history, domain.QA{
			Question: turns[i].QuestionText,
			Answer:   historyAnswer(turns[i]),
		})
	}
	return history, nil
}

// historyAnswer renders a turn's answer for the transcript. Visualization
// turns carry their chart payload inline so follow-up questions can refer
// back to a chart the user was shown.
func historyAnswer(turn domain.Turn) string {
	answer := ""
	if turn.AnswerText != nil {
		answer = *turn.AnswerText
	}
	if turn.ChartData == nil {
		return answer
	}

	payload, err := json.Marshal(turn.ChartData)
	if err != nil {
		return answer
	}
	chartType := ""
	if turn.ChartType != nil {
		chartType = *turn.ChartType
	}
	return fmt.Sprintf("%s\n[%s chart: %s]", answer, chartType, payload)
}
