package ports

import (
	"context"
	"time"

	"github.com/healthday/events-api/internal/core/domain"
)

// UpdateProfileInput carries the optional profile fields a user may change.
// Nil pointers leave the stored value untouched.
type UpdateProfileInput struct {
	Name           *string
	ProfilePicture *string
	Organization   *string
	Position       *string
	Phone          *string
	Address        *domain.Address
	Preferences    *domain.Preferences
}

// UserRepository defines persistence for the identity store.
type UserRepository interface {
	// Create inserts a new user. Returns domain.ErrEmailTaken when the email
	// is already registered (unique index).
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindByVerificationToken matches an unexpired email-verification token.
	FindByVerificationToken(ctx context.Context, token string, now time.Time) (*domain.User, error)
	// FindByResetToken matches an unexpired password-reset token hash.
	FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (*domain.User, error)

	// MarkEmailVerified sets the verified flag and clears the token fields.
	MarkEmailVerified(ctx context.Context, id string) error
	// SetResetToken stores a hashed reset token and its expiry.
	SetResetToken(ctx context.Context, id, tokenHash string, expires time.Time) error
	// UpdatePassword replaces the stored hash.
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	// ResetPassword replaces the stored hash and clears the reset token fields.
	ResetPassword(ctx context.Context, id, passwordHash string) error

	UpdateProfile(ctx context.Context, id string, input UpdateProfileInput) (*domain.User, error)
	UpdateRole(ctx context.Context, id, role string) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	// List returns a page of users, newest first, and the total count.
	List(ctx context.Context, page, limit int) ([]*domain.User, int64, error)
}
