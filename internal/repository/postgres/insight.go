package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/deeppurple/deeppurple/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// InsightRepository implements domain.InsightRepository
type InsightRepository struct {
	pool *pgxpool.Pool
}

// NewInsightRepository creates a new insight repository
func NewInsightRepository(db *DB) *InsightRepository {
	return &InsightRepository{pool: db.Pool}
}

func (r *InsightRepository) Create(ctx context.Context, insight *domain.Insight) error {
	value, err := json.Marshal(insight.Value)
	if err != nil {
		return fmt.Errorf("failed to marshal insight value: %w", err)
	}

	query := `
		INSERT INTO insights (id, session_id, insight_type, value, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = r.pool.Exec(ctx, query,
		insight.ID,
		insight.SessionID,
		string(insight.Type),
		value,
		insight.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create insight: %w", err)
	}
	return nil
}

func (r *InsightRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]domain.Insight, error) {
	query := `
		SELECT id, session_id, insight_type, value, created_at
		FROM insights
		WHERE session_id = $1
		ORDER BY created_at, id
	`
	rows, err := r.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list insights: %w", err)
	}
	defer rows.Close()

	var insights []domain.Insight
	for rows.Next() {
		var in domain.Insight
		var insightType string
		var value []byte
		if err := rows.Scan(&in.ID, &in.SessionID, &insightType, &value, &in.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan insight: %w", err)
		}
		in.Type = domain.InsightType(insightType)
		if len(value) > 0 {
			var v any
			if err := json.Unmarshal(value, &v); err != nil {
				return nil, fmt.Errorf("failed to unmarshal insight value: %w", err)
			}
			in.Value = v
		}
		insights = append(insights, in)
	}
	return insights, nil
}
