package ports

import (
	"context"

	"github.com/healthday/events-api/internal/core/domain"
)

// RegisterInput carries a new account's details.
type RegisterInput struct {
	Name         string
	Email        string
	Password     string
	Organization string
	Position     string
	Phone        string
}

// AuthResult is returned on successful registration or login.
type AuthResult struct {
	Token string
	User  *domain.User
}

// AuthService implements the credential flows: signup, login, email
// verification, and password recovery.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	VerifyEmail(ctx context.Context, token string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
	// CurrentUser loads the caller's account fresh from the identity store.
	CurrentUser(ctx context.Context, userID string) (*domain.User, error)
	// ValidateToken verifies a bearer token and returns the subject user id.
	// All failure modes collapse into domain.ErrNotAuthorized.
	ValidateToken(token string) (string, error)
}
