package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Session is a named analysis workspace owned by one user. It groups the
// uploaded files, the extracted insights and the question/answer turn log.
type Session struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	Name       string    `json:"name"`
	IsArchived bool      `json:"is_archived"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// SessionUpdate carries the mutable session fields
type SessionUpdate struct {
	Name       *string `json:"name" validate:"omitempty,min=1,max=255"`
	IsArchived *bool   `json:"is_archived"`
}

// SessionRepository defines the interface for session storage
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	// GetByIDAndUser returns nil (no error) when the session does not exist
	// or belongs to another user.
	GetByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*Session, error)
	ListByUser(ctx context.Context, userID uuid.UUID, includeArchived bool, limit, offset int) ([]Session, error)
	Update(ctx context.Context, session *Session) error
	// Delete removes the session; files, file contents, insights and turns
	// cascade at the schema level.
	Delete(ctx context.Context, id uuid.UUID) error
}
