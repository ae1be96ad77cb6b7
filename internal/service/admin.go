package service

import (
	"context"
	"fmt"

	"github.com/deeppurple/deeppurple/internal/domain"
	"github.com/google/uuid"
)

// AdminService handles user administration
type AdminService struct {
	userRepo domain.UserRepository
}

// NewAdminService creates a new admin service
func NewAdminService(userRepo domain.UserRepository) *AdminService {
	return &AdminService{userRepo: userRepo}
}

// ListUsers returns a page of users
func (s *AdminService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	users, err := s.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// SetUserActive activates or deactivates an account
func (s *AdminService) SetUserActive(ctx context.Context, userID uuid.UUID, active bool) error {
	if err := s.userRepo.SetActive(ctx, userID, active); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// DeleteUser removes a user; their sessions and everything under them
// cascade at the schema level.
func (s *AdminService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
