package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/healthday/events-api/internal/core/domain"
	"github.com/healthday/events-api/internal/core/ports"
)

const (
	verificationTokenTTL = 24 * time.Hour
	resetTokenTTL        = 10 * time.Minute
)

// AuthService implements signup, login, email verification and password
// recovery. Tokens it issues carry the subject id and expiry only; the role is
// re-fetched on every request so role changes apply immediately.
type AuthService struct {
	users      ports.UserRepository
	mailer     ports.Mailer
	jwtSecret  string
	tokenTTL   time.Duration
	bcryptCost int
	logger     zerolog.Logger
}

func NewAuthService(users ports.UserRepository, mailer ports.Mailer, jwtSecret string, tokenTTL time.Duration, bcryptCost int, logger zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 30 * 24 * time.Hour
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = 10
	}
	return &AuthService{
		users:      users,
		mailer:     mailer,
		jwtSecret:  jwtSecret,
		tokenTTL:   tokenTTL,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	verificationToken, err := randomToken()
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:                     input.Name,
		Email:                    input.Email,
		PasswordHash:             string(hash),
		Role:                     domain.RoleUser,
		EmailVerificationToken:   verificationToken,
		EmailVerificationExpires: now.Add(verificationTokenTTL),
		Organization:             input.Organization,
		Position:                 input.Position,
		Phone:                    input.Phone,
		Preferences:              &domain.Preferences{Notifications: true, Newsletter: true},
		CreatedAt:                now,
		UpdatedAt:                now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.mailer.SendVerification(ctx, created.Email, created.Name, verificationToken); err != nil {
		s.logger.Warn().Err(err).Str("email", created.Email).Msg("failed to queue verification mail")
	}

	token, err := s.issueToken(created.ID)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	s.logger.Info().Str("user_id", created.ID).Msg("user registered")
	return &ports.AuthResult{Token: token, User: created}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		// Unknown email and wrong password are indistinguishable to the caller.
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	return &ports.AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	user, err := s.users.FindByVerificationToken(ctx, token, time.Now().UTC())
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrBadToken
		}
		return fmt.Errorf("verify email: %w", err)
	}

	if err := s.users.MarkEmailVerified(ctx, user.ID); err != nil {
		return fmt.Errorf("verify email: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Msg("email verified")
	return nil
}

func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	token, err := randomToken()
	if err != nil {
		return fmt.Errorf("forgot password: %w", err)
	}

	// Only the hash hits the store; the raw token goes out by mail.
	expires := time.Now().UTC().Add(resetTokenTTL)
	if err := s.users.SetResetToken(ctx, user.ID, hashToken(token), expires); err != nil {
		return fmt.Errorf("forgot password: %w", err)
	}

	if err := s.mailer.SendPasswordReset(ctx, user.Email, user.Name, token); err != nil {
		s.logger.Warn().Err(err).Str("email", user.Email).Msg("failed to queue reset mail")
	}

	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	user, err := s.users.FindByResetToken(ctx, hashToken(token), time.Now().UTC())
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrBadToken
		}
		return fmt.Errorf("reset password: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("reset password: hash password: %w", err)
	}

	if err := s.users.ResetPassword(ctx, user.ID, string(hash)); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Msg("password reset")
	return nil
}

func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

// ValidateToken verifies signature and expiry and returns the subject user id.
// Expired, malformed and badly-signed tokens all fail the same way, so the
// error reveals nothing about which check tripped.
func (s *AuthService) ValidateToken(token string) (string, error) {
	claims := jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return "", domain.ErrNotAuthorized
	}
	return claims.Subject, nil
}

func (s *AuthService) issueToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

// randomToken returns 20 random bytes hex-encoded.
func randomToken() (string, error) {
	b := make([]byte, 20)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// hashToken returns the hex sha256 of a reset token.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
