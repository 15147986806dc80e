package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/healthday/events-api/internal/core/domain"
	"github.com/healthday/events-api/internal/core/ports"
)

type memUserRepo struct {
	mu      sync.Mutex
	users   map[string]*domain.User
	byEmail map[string]string
	nextID  int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{
		users:   make(map[string]*domain.User),
		byEmail: make(map[string]string),
	}
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byEmail[user.Email]; taken {
		return nil, domain.ErrEmailTaken
	}
	r.nextID++
	cp := *user
	cp.ID = fmt.Sprintf("user-%d", r.nextID)
	r.users[cp.ID] = &cp
	r.byEmail[cp.Email] = cp.ID
	out := cp
	return &out, nil
}

func (r *memUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *r.users[id]
	return &cp, nil
}

func (r *memUserRepo) FindByVerificationToken(_ context.Context, token string, now time.Time) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.EmailVerificationToken == token && u.EmailVerificationExpires.After(now) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) FindByResetToken(_ context.Context, tokenHash string, now time.Time) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ResetPasswordToken == tokenHash && u.ResetPasswordExpires.After(now) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) MarkEmailVerified(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.IsEmailVerified = true
	u.EmailVerificationToken = ""
	return nil
}

func (r *memUserRepo) SetResetToken(_ context.Context, id, tokenHash string, expires time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.ResetPasswordToken = tokenHash
	u.ResetPasswordExpires = expires
	return nil
}

func (r *memUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (r *memUserRepo) ResetPassword(_ context.Context, id, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.ResetPasswordToken = ""
	u.ResetPasswordExpires = time.Time{}
	return nil
}

func (r *memUserRepo) UpdateProfile(_ context.Context, id string, input ports.UpdateProfileInput) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if input.Name != nil {
		u.Name = *input.Name
	}
	if input.ProfilePicture != nil {
		u.ProfilePicture = *input.ProfilePicture
	}
	if input.Organization != nil {
		u.Organization = *input.Organization
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) UpdateRole(_ context.Context, id, role string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Role = role
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	delete(r.byEmail, u.Email)
	delete(r.users, id)
	return nil
}

func (r *memUserRepo) List(_ context.Context, page, limit int) ([]*domain.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.User
	for _, u := range r.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

type recordingMailer struct {
	mu            sync.Mutex
	verifications []string
	resets        []string
}

func (m *recordingMailer) SendVerification(_ context.Context, to, _, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.verifications = append(m.verifications, token)
	return nil
}

func (m *recordingMailer) SendPasswordReset(_ context.Context, to, _, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets = append(m.resets, token)
	return nil
}

func (m *recordingMailer) SendRegistrationConfirmation(context.Context, string, string, string, time.Time) error {
	return nil
}

func newAuthFixture() (*AuthService, *memUserRepo, *recordingMailer) {
	repo := newMemUserRepo()
	mailer := &recordingMailer{}
	svc := NewAuthService(repo, mailer, "test-secret", time.Hour, 4, zerolog.Nop())
	return svc, repo, mailer
}

func TestAuthRegister_Success(t *testing.T) {
	svc, repo, mailer := newAuthFixture()

	result, err := svc.Register(context.Background(), ports.RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("expected a session token")
	}
	if result.User.Role != domain.RoleUser {
		t.Fatalf("new accounts must get the user role, got %s", result.User.Role)
	}
	if result.User.PasswordHash == "secret123" {
		t.Fatalf("password stored unhashed")
	}

	stored, err := repo.FindByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("stored user: %v", err)
	}
	if stored.EmailVerificationToken == "" {
		t.Fatalf("expected a verification token")
	}
	if len(mailer.verifications) != 1 || mailer.verifications[0] != stored.EmailVerificationToken {
		t.Fatalf("mailed token must match the stored token")
	}
}

func TestAuthRegister_DuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthFixture()

	input := ports.RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "secret123"}
	if _, err := svc.Register(context.Background(), input); err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, err := svc.Register(context.Background(), input)
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthLogin(t *testing.T) {
	svc, _, _ := newAuthFixture()
	input := ports.RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "secret123"}
	if _, err := svc.Register(context.Background(), input); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Login(context.Background(), "alice@example.com", "secret123"); err != nil {
		t.Fatalf("login: %v", err)
	}

	// Wrong password and unknown email must be indistinguishable.
	if _, err := svc.Login(context.Background(), "alice@example.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "nobody@example.com", "secret123"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestValidateToken(t *testing.T) {
	svc, _, _ := newAuthFixture()
	result, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Alice", Email: "alice@example.com", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	userID, err := svc.ValidateToken(result.Token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if userID != result.User.ID {
		t.Fatalf("expected subject %s, got %s", result.User.ID, userID)
	}
}

func TestValidateToken_Failures(t *testing.T) {
	svc, _, _ := newAuthFixture()

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})
	expiredToken, _ := expired.SignedString([]byte("test-secret"))

	wrongKey := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "user-1"})
	wrongKeyToken, _ := wrongKey.SignedString([]byte("other-secret"))

	noSubject := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	noSubjectToken, _ := noSubject.SignedString([]byte("test-secret"))

	cases := map[string]string{
		"garbage":    "not-a-token",
		"empty":      "",
		"expired":    expiredToken,
		"wrong key":  wrongKeyToken,
		"no subject": noSubjectToken,
		"alg none":   "eyJhbGciOiJub25lIn0.eyJzdWIiOiJ1c2VyLTEifQ.",
	}
	for name, token := range cases {
		if _, err := svc.ValidateToken(token); !errors.Is(err, domain.ErrNotAuthorized) {
			t.Fatalf("%s: expected ErrNotAuthorized, got %v", name, err)
		}
	}
}

func TestVerifyEmail(t *testing.T) {
	svc, repo, mailer := newAuthFixture()
	if _, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Alice", Email: "alice@example.com", Password: "secret123",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := svc.VerifyEmail(context.Background(), mailer.verifications[0]); err != nil {
		t.Fatalf("verify: %v", err)
	}

	stored, _ := repo.FindByEmail(context.Background(), "alice@example.com")
	if !stored.IsEmailVerified {
		t.Fatalf("expected verified flag set")
	}

	if err := svc.VerifyEmail(context.Background(), "bogus"); !errors.Is(err, domain.ErrBadToken) {
		t.Fatalf("expected ErrBadToken, got %v", err)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	svc, repo, mailer := newAuthFixture()
	if _, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Alice", Email: "alice@example.com", Password: "secret123",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := svc.ForgotPassword(context.Background(), "alice@example.com"); err != nil {
		t.Fatalf("forgot: %v", err)
	}
	if err := svc.ForgotPassword(context.Background(), "nobody@example.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	rawToken := mailer.resets[0]
	stored, _ := repo.FindByEmail(context.Background(), "alice@example.com")
	if stored.ResetPasswordToken == rawToken {
		t.Fatalf("store must hold the token hash, not the raw token")
	}

	if err := svc.ResetPassword(context.Background(), rawToken, "newsecret"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, err := svc.Login(context.Background(), "alice@example.com", "newsecret"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
	if _, err := svc.Login(context.Background(), "alice@example.com", "secret123"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("old password must no longer work, got %v", err)
	}

	// Token is single use.
	if err := svc.ResetPassword(context.Background(), rawToken, "again"); !errors.Is(err, domain.ErrBadToken) {
		t.Fatalf("expected ErrBadToken on reuse, got %v", err)
	}
}
