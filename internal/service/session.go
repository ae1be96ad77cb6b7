package service

import (
	"context"
	"fmt"
	"time"

	"github.com/deeppurple/deeppurple/internal/domain"
	"github.com/google/uuid"
)

// SessionService manages analysis sessions
type SessionService struct {
	sessionRepo domain.SessionRepository
}

// NewSessionService creates a new session service
func NewSessionService(sessionRepo domain.SessionRepository) *SessionService {
	return &SessionService{sessionRepo: sessionRepo}
}

// Create creates a new session for the user
func (s *SessionService) Create(ctx context.Context, userID uuid.UUID, name string) (*domain.Session, error) {
	if name == "" {
		name = "New Session"
	}

	now := time.Now()
	session := &domain.Session{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// Get returns the session if it exists and belongs to the user
func (s *SessionService) Get(ctx context.Context, id, userID uuid.UUID) (*domain.Session, error) {
	session, err := s.sessionRepo.GetByIDAndUser(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// List returns the user's sessions, newest first
func (s *SessionService) List(ctx context.Context, userID uuid.UUID, includeArchived bool, limit, offset int) ([]domain.Session, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	sessions, err := s.sessionRepo.ListByUser(ctx, userID, includeArchived, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

// Update renames or archives a session
func (s *SessionService) Update(ctx context.Context, id, userID uuid.UUID, update domain.SessionUpdate) (*domain.Session, error) {
	session, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		session.Name = *update.Name
	}
	if update.IsArchived != nil {
		session.IsArchived = *update.IsArchived
	}
	session.UpdatedAt = time.Now()

	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}
	return session, nil
}

// Delete removes a session and everything under it: files, extracted
// contents, insights and turns cascade at the schema level.
func (s *SessionService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if _, err := s.Get(ctx, id, userID); err != nil {
		return err
	}
	if err := s.sessionRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
