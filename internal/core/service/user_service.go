package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/healthday/events-api/internal/core/domain"
	"github.com/healthday/events-api/internal/core/ports"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// UserService implements profile self-service and admin user management.
type UserService struct {
	users      ports.UserRepository
	bcryptCost int
	logger     zerolog.Logger
}

func NewUserService(users ports.UserRepository, bcryptCost int, logger zerolog.Logger) *UserService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = 10
	}
	return &UserService{users: users, bcryptCost: bcryptCost, logger: logger}
}

func (s *UserService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, input ports.UpdateProfileInput) (*domain.User, error) {
	return s.users.UpdateProfile(ctx, userID, input)
}

func (s *UserService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
		return domain.ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("change password: hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	s.logger.Info().Str("user_id", userID).Msg("password changed")
	return nil
}

func (s *UserService) List(ctx context.Context, page, limit int) (*ports.UserPage, error) {
	page, limit = normalizePage(page, limit)

	users, total, err := s.users.List(ctx, page, limit)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return &ports.UserPage{Items: users, Total: total, Page: page, Limit: limit}, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *UserService) SetRole(ctx context.Context, id, role string) (*domain.User, error) {
	if !domain.ValidRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, role)
	}

	user, err := s.users.UpdateRole(ctx, id, role)
	if err != nil {
		return nil, err
	}

	// Takes effect on the user's very next request: the Auth middleware
	// reloads the role from the store, never from the token.
	s.logger.Info().Str("user_id", id).Str("role", role).Msg("role updated")
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", id).Msg("user deleted")
	return nil
}

// normalizePage clamps pagination parameters to sane bounds.
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}
