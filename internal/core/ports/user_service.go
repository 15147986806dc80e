package ports

import (
	"context"

	"github.com/healthday/events-api/internal/core/domain"
)

// UserPage is one page of the admin user listing.
type UserPage struct {
	Items []*domain.User
	Total int64
	Page  int
	Limit int
}

// UserService implements profile self-service and admin user management.
type UserService interface {
	Profile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*domain.User, error)
	// ChangePassword verifies the current password before re-hashing the new one.
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error

	// Admin operations.
	List(ctx context.Context, page, limit int) (*UserPage, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	SetRole(ctx context.Context, id, role string) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}
