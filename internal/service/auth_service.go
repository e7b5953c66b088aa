package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"smart_temperature/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 6

// Domain errors for auth flows.
var (
	ErrInvalidPassword  = errors.New("invalid password")
	ErrPasswordTooShort = errors.New("new password must be at least 6 characters")
	ErrInvalidToken     = errors.New("invalid token")
)

// AuthService manages the single shared credential and session tokens.
type AuthService struct {
	authRepo repository.Authorization
	cfg      AuthConfig
	now      func() time.Time
}

func NewAuthService(repo repository.Authorization, cfg AuthConfig) *AuthService {
	return &AuthService{authRepo: repo, cfg: cfg, now: time.Now}
}

// InitDefaultUser seeds the singleton credential with the configured default
// password. Idempotent: a no-op when the row already exists.
func (s *AuthService) InitDefaultUser(ctx context.Context) error {
	u, err := s.authRepo.Get(ctx)
	if err != nil {
		return err
	}
	if u != nil {
		return nil
	}
	hash, err := hashPassword(s.cfg.DefaultPassword)
	if err != nil {
		return fmt.Errorf("hash default password: %w", err)
	}
	return s.authRepo.Create(ctx, hash, s.now().UTC())
}

// Login verifies the shared password and issues a session token. The
// credential is created lazily with the default password on first use.
func (s *AuthService) Login(ctx context.Context, password string) (string, error) {
	u, err := s.authRepo.Get(ctx)
	if err != nil {
		return "", err
	}
	if u == nil {
		if err := s.InitDefaultUser(ctx); err != nil {
			return "", err
		}
		if u, err = s.authRepo.Get(ctx); err != nil {
			return "", err
		}
	}

	if err := verifyPassword(u.PasswordHash, password); err != nil {
		return "", ErrInvalidPassword
	}
	return s.issueToken()
}

// ChangePassword verifies the old password, then stores a new hash and
// touches the last-change timestamp.
func (s *AuthService) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	if len(strings.TrimSpace(newPassword)) < minPasswordLen {
		return ErrPasswordTooShort
	}

	u, err := s.authRepo.Get(ctx)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrInvalidPassword
	}
	if err := verifyPassword(u.PasswordHash, oldPassword); err != nil {
		return ErrInvalidPassword
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash new password: %w", err)
	}
	return s.authRepo.UpdatePassword(ctx, hash, s.now().UTC())
}

// ParseToken validates a session token issued by Login.
func (s *AuthService) ParseToken(accessToken string) error {
	token, err := jwt.ParseWithClaims(accessToken, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.SigningKey), nil
	})
	if err != nil {
		return err
	}
	if !token.Valid {
		return ErrInvalidToken
	}
	return nil
}

// helper: hash password safely
func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// helper: verify password against hash
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// helper: issue a signed session token
func (s *AuthService) issueToken() (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &jwt.RegisteredClaims{
		Subject:   "system",
		ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
		IssuedAt:  jwt.NewNumericDate(now),
	})
	return token.SignedString([]byte(s.cfg.SigningKey))
}
