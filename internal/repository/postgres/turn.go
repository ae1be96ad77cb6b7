package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/deeppurple/deeppurple/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TurnRepository implements domain.TurnRepository
type TurnRepository struct {
	pool *pgxpool.Pool
}

// NewTurnRepository creates a new turn repository
func NewTurnRepository(db *DB) *TurnRepository {
	return &TurnRepository{pool: db.Pool}
}

func (r *TurnRepository) Create(ctx context.Context, turn *domain.Turn) error {
	var chartData []byte
	if turn.ChartData != nil {
		var err error
		chartData, err = json.Marshal(turn.ChartData)
		if err != nil {
			return fmt.Errorf("failed to marshal chart data: %w", err)
		}
	}

	query := `
		INSERT INTO turns (id, session_id, question_text, answer_text, chart_type, chart_data, created_at, answered_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		turn.ID,
		turn.SessionID,
		turn.QuestionText,
		turn.AnswerText,
		turn.ChartType,
		chartData,
		turn.CreatedAt,
		turn.AnsweredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create turn: %w", err)
	}
	return nil
}

func (r *TurnRepository) ListRecentAnswered(ctx context.Context, sessionID uuid.UUID, limit int) ([]domain.Turn, error) {
	query := `
		SELECT id, session_id, question_text, answer_text, chart_type, chart_data, created_at, answered_at
		FROM turns
		WHERE session_id = $1 AND answer_text IS NOT NULL
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
	return r.queryTurns(ctx, query, sessionID, limit)
}

func (r *TurnRepository) ListBySession(ctx context.Context, sessionID uuid.UUID, limit, offset int) ([]domain.Turn, error) {
	query := `
		SELECT id, session_id, question_text, answer_text, chart_type, chart_data, created_at, answered_at
		FROM turns
		WHERE session_id = $1
		ORDER BY created_at, id
		LIMIT $2 OFFSET $3
	`
	return r.queryTurns(ctx, query, sessionID, limit, offset)
}

func (r *TurnRepository) queryTurns(ctx context.Context, query string, sessionID uuid.UUID, args ...any) ([]domain.Turn, error) {
	queryArgs := append([]any{sessionID}, args...)
	rows, err := r.pool.Query(ctx, query, queryArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to list turns: %w", err)
	}
	defer rows.Close()

	var turns []domain.Turn
	for rows.Next() {
		t, err := scanTurn(rows)
		if err != nil {
			return nil, err
		}
		turns = append(turns, *t)
	}
	return turns, nil
}

func scanTurn(row pgx.Row) (*domain.Turn, error) {
	var t domain.Turn
	var chartData []byte
	if err := row.Scan(
		&t.ID,
		&t.SessionID,
		&t.QuestionText,
		&t.AnswerText,
		&t.ChartType,
		&chartData,
		&t.CreatedAt,
		&t.AnsweredAt,
	); err != nil {
		return nil, fmt.Errorf("failed to scan turn: %w", err)
	}
	if len(chartData) > 0 {
		var v any
		if err := json.Unmarshal(chartData, &v); err != nil {
			return nil, fmt.Errorf("failed to unmarshal chart data: %w", err)
		}
		t.ChartData = v
	}
	return &t, nil
}
