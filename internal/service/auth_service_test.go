package service

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"testing"
	"time"

	"smart_temperature/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// mockAuthRepo is a lightweight in-test mock for repository.Authorization.
type mockAuthRepo struct {
	GetFn            func() (*models.SystemUser, error)
	CreateFn         func(hash string, at time.Time) error
	UpdatePasswordFn func(hash string, at time.Time) error

	createCalls []string
	updateCalls []string
}

func (m *mockAuthRepo) Get(ctx context.Context) (*models.SystemUser, error) {
	return m.GetFn()
}

func (m *mockAuthRepo) Create(ctx context.Context, passwordHash string, at time.Time) error {
	m.createCalls = append(m.createCalls, passwordHash)
	if m.CreateFn != nil {
		return m.CreateFn(passwordHash, at)
	}
	return nil
}

func (m *mockAuthRepo) UpdatePassword(ctx context.Context, passwordHash string, at time.Time) error {
	m.updateCalls = append(m.updateCalls, passwordHash)
	if m.UpdatePasswordFn != nil {
		return m.UpdatePasswordFn(passwordHash, at)
	}
	return nil
}

func testAuthConfig() AuthConfig {
	return AuthConfig{
		DefaultPassword: "admin123",
		SigningKey:      "test-signing-key",
		TokenTTL:        time.Hour,
	}
}

// --- InitDefaultUser tests ---

func TestAuthService_InitDefaultUser_SeedsOnce(t *testing.T) {
	mock := &mockAuthRepo{
		GetFn: func() (*models.SystemUser, error) { return nil, nil },
	}
	svc := NewAuthService(mock, testAuthConfig())

	if err := svc.InitDefaultUser(context.Background()); err != nil {
		t.Fatalf("InitDefaultUser returned error: %v", err)
	}
	if len(mock.createCalls) != 1 {
		t.Fatalf("expected 1 Create call, got %d", len(mock.createCalls))
	}
	if err := verifyPassword(mock.createCalls[0], "admin123"); err != nil {
		t.Errorf("stored hash does not verify with default password: %v", err)
	}
}

func TestAuthService_InitDefaultUser_NoOpWhenExists(t *testing.T) {
	mock := &mockAuthRepo{
		GetFn: func() (*models.SystemUser, error) {
			return &models.SystemUser{ID: 1, PasswordHash: "stored"}, nil
		},
	}
	svc := NewAuthService(mock, testAuthConfig())

	if err := svc.InitDefaultUser(context.Background()); err != nil {
		t.Fatalf("InitDefaultUser returned error: %v", err)
	}
	if len(mock.createCalls) != 0 {
		t.Fatalf("expected no Create calls, got %d", len(mock.createCalls))
	}
}

// --- Login tests ---

func TestAuthService_Login_SuccessIssuesParsableToken(t *testing.T) {
	hash, err := hashPassword("letmein")
	if err != nil {
		t.Fatalf("hashPassword failed: %v", err)
	}
	mock := &mockAuthRepo{
		GetFn: func() (*models.SystemUser, error) {
			return &models.SystemUser{ID: 1, PasswordHash: hash}, nil
		},
	}
	svc := NewAuthService(mock, testAuthConfig())

	token, err := svc.Login(context.Background(), "letmein")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected non-empty token")
	}
	if err := svc.ParseToken(token); err != nil {
		t.Fatalf("ParseToken rejected a fresh token: %v", err)
	}
}

func TestAuthService_Login_CreatesCredentialLazily(t *testing.T) {
	// Empty table on first Get; the seeded credential is served afterwards.
	var seeded *models.SystemUser
	mock := &mockAuthRepo{}
	mock.GetFn = func() (*models.SystemUser, error) { return seeded, nil }
	mock.CreateFn = func(hash string, at time.Time) error {
		seeded = &models.SystemUser{ID: 1, PasswordHash: hash, LastPasswordChange: at}
		return nil
	}
	svc := NewAuthService(mock, testAuthConfig())

	token, err := svc.Login(context.Background(), "admin123")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected non-empty token")
	}
	if len(mock.createCalls) != 1 {
		t.Fatalf("expected lazy Create, got %d calls", len(mock.createCalls))
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	hash, err := hashPassword("correct")
	if err != nil {
		t.Fatalf("hashPassword failed: %v", err)
	}
	mock := &mockAuthRepo{
		GetFn: func() (*models.SystemUser, error) {
			return &models.SystemUser{ID: 1, PasswordHash: hash}, nil
		},
	}
	svc := NewAuthService(mock, testAuthConfig())

	_, err = svc.Login(context.Background(), "wrong")
	if !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("expected ErrInvalidPassword, got: %v", err)
	}
}

func TestAuthService_Login_RepoError(t *testing.T) {
	mock := &mockAuthRepo{
		GetFn: func() (*models.SystemUser, error) { return nil, errors.New("db down") },
	}
	svc := NewAuthService(mock, testAuthConfig())

	_, err := svc.Login(context.Background(), "admin123")
	if err == nil {
		t.Fatalf("expected repo error, got nil")
	}
}

// --- ChangePassword tests ---

func TestAuthService_ChangePassword(t *testing.T) {
	hash, err := hashPassword("old-pass")
	if err != nil {
		t.Fatalf("hashPassword failed: %v", err)
	}
	mock := &mockAuthRepo{
		GetFn: func() (*models.SystemUser, error) {
			return &models.SystemUser{ID: 1, PasswordHash: hash}, nil
		},
	}
	svc := NewAuthService(mock, testAuthConfig())

	if err := svc.ChangePassword(context.Background(), "old-pass", "new-pass"); err != nil {
		t.Fatalf("ChangePassword returned error: %v", err)
	}
	if len(mock.updateCalls) != 1 {
		t.Fatalf("expected 1 UpdatePassword call, got %d", len(mock.updateCalls))
	}
	if err := verifyPassword(mock.updateCalls[0], "new-pass"); err != nil {
		t.Errorf("stored hash does not verify with new password: %v", err)
	}

	// wrong old password
	if err := svc.ChangePassword(context.Background(), "wrong", "new-pass"); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("expected ErrInvalidPassword, got: %v", err)
	}

	// too-short new password rejected before touching the repo
	if err := svc.ChangePassword(context.Background(), "old-pass", "abc"); !errors.Is(err, ErrPasswordTooShort) {
		t.Fatalf("expected ErrPasswordTooShort, got: %v", err)
	}
	if len(mock.updateCalls) != 1 {
		t.Fatalf("short password must not reach the repo; calls=%d", len(mock.updateCalls))
	}
}

// --- ParseToken tests ---

func TestAuthService_ParseToken_Malformed(t *testing.T) {
	svc := NewAuthService(&mockAuthRepo{}, testAuthConfig())
	if err := svc.ParseToken("not-a-jwt"); err == nil {
		t.Fatalf("expected error for malformed token")
	}
}

func TestAuthService_ParseToken_InvalidSignature(t *testing.T) {
	svc := NewAuthService(&mockAuthRepo{}, testAuthConfig())

	// Token signed with a different key.
	now := time.Now()
	tk := jwt.NewWithClaims(jwt.SigningMethodHS256, &jwt.RegisteredClaims{
		Subject:   "system",
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(now),
	})
	badToken, err := tk.SignedString([]byte("different-key"))
	if err != nil {
		t.Fatalf("SignedString failed: %v", err)
	}

	if err := svc.ParseToken(badToken); err == nil {
		t.Fatalf("expected signature verification error")
	}
}

func TestAuthService_ParseToken_Expired(t *testing.T) {
	cfg := testAuthConfig()
	svc := NewAuthService(&mockAuthRepo{}, cfg)

	past := time.Now().Add(-2 * time.Hour)
	tk := jwt.NewWithClaims(jwt.SigningMethodHS256, &jwt.RegisteredClaims{
		Subject:   "system",
		ExpiresAt: jwt.NewNumericDate(past),
		IssuedAt:  jwt.NewNumericDate(past.Add(-time.Minute)),
	})
	expiredToken, err := tk.SignedString([]byte(cfg.SigningKey))
	if err != nil {
		t.Fatalf("SignedString failed: %v", err)
	}

	if err := svc.ParseToken(expiredToken); err == nil {
		t.Fatalf("expected error for expired token")
	}
}

func TestAuthService_ParseToken_UnexpectedAlg(t *testing.T) {
	svc := NewAuthService(&mockAuthRepo{}, testAuthConfig())

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("rsa.GenerateKey failed: %v", err)
	}

	now := time.Now()
	tk := jwt.NewWithClaims(jwt.SigningMethodRS256, &jwt.RegisteredClaims{
		Subject:   "system",
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(now),
	})
	tokenStr, err := tk.SignedString(privateKey)
	if err != nil {
		t.Fatalf("SignedString failed: %v", err)
	}

	if err := svc.ParseToken(tokenStr); err == nil {
		t.Fatalf("expected error due to unexpected signing method")
	}
}
