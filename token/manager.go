// Package token issues and verifies the access/refresh token pair used by
// the API. Access tokens are short-lived HS256 JWTs; refresh tokens are
// opaque random strings stored server-side, one per user.
package token

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/metrohr/leavehub/users"
)

const refreshTokenBytes = 32

var (
	// ErrInvalidToken is returned when an access token fails verification.
	ErrInvalidToken = errors.New("invalid token")
	// ErrRefreshNotFound is returned when a refresh token is unknown or was
	// already invalidated.
	ErrRefreshNotFound = errors.New("refresh token not found")
	// ErrRefreshExpired is returned when a refresh token outlived its expiry.
	ErrRefreshExpired = errors.New("refresh token expired")
)

// Claims is the payload carried by access tokens.
type Claims struct {
	Email  string `json:"email"`
	Role   string `json:"role"`
	AreaID *int64 `json:"area_id,omitempty"`
	jwt.RegisteredClaims
}

// Manager creates and verifies tokens.
type Manager struct {
	secret             []byte
	issuer             string
	refreshRepo        Repo
	accessTokenExpiry  time.Duration
	refreshTokenExpiry time.Duration
	nowFunc            func() time.Time
}

type ManagerOption func(*Manager)

func WithTokenExpiry(accessTokenExpiry, refreshTokenExpiry time.Duration) ManagerOption {
	return func(m *Manager) {
		m.accessTokenExpiry = accessTokenExpiry
		m.refreshTokenExpiry = refreshTokenExpiry
	}
}

func WithIssuer(issuer string) ManagerOption {
	return func(m *Manager) {
		m.issuer = issuer
	}
}

func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

func New(secret []byte, refreshRepo Repo, options ...ManagerOption) *Manager {
	m := &Manager{
		secret:      secret,
		issuer:      "leavehub",
		refreshRepo: refreshRepo,
	}

	for _, opt := range options {
		opt(m)
	}

	if m.accessTokenExpiry == 0 {
		m.accessTokenExpiry = time.Minute * 15
	}
	if m.refreshTokenExpiry == 0 {
		m.refreshTokenExpiry = time.Hour * 24
	}
	if m.nowFunc == nil {
		m.nowFunc = time.Now
	}

	return m
}

// CreateAccessToken signs a new access token for the user.
func (m *Manager) CreateAccessToken(user *users.User) (string, error) {
	if user == nil {
		return "", errors.New("[CreateAccessToken] nil user")
	}
	now := m.nowFunc()
	claims := Claims{
		Email:  user.Email,
		Role:   string(user.Role),
		AreaID: user.AreaID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   userIDToSubject(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTokenExpiry)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", errors.Wrap(err, "[CreateAccessToken] SignedString")
	}
	return signed, nil
}

// Introspect verifies an access token and returns its claims.
func (m *Manager) Introspect(raw string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %q", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.nowFunc), jwt.WithIssuer(m.issuer))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// CreateRefreshToken issues a new opaque refresh token for the user,
// replacing any existing one (single refresh token per user).
func (m *Manager) CreateRefreshToken(ctx context.Context, userID int64) (string, error) {
	if existing, err := m.refreshRepo.GetByUserID(ctx, userID); err == nil && existing != nil {
		if err := m.refreshRepo.Delete(ctx, existing.Token); err != nil {
			return "", errors.Wrap(err, "[CreateRefreshToken] Delete existing")
		}
	}

	tokenBytes := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", errors.Wrap(err, "[CreateRefreshToken] rand.Read")
	}

	tokenStr := hex.EncodeToString(tokenBytes)
	if err := m.refreshRepo.Upsert(ctx, &StoredRefreshToken{
		Token:    tokenStr,
		UserID:   userID,
		IssuedAt: m.nowFunc(),
	}); err != nil {
		return "", errors.Wrap(err, "[CreateRefreshToken] Upsert")
	}
	return tokenStr, nil
}

// ExchangeRefreshToken validates a refresh token and returns the owning
// user's ID. The token stays valid until it expires or is invalidated.
func (m *Manager) ExchangeRefreshToken(ctx context.Context, token string) (int64, error) {
	stored, err := m.refreshRepo.Get(ctx, token)
	if err != nil || stored == nil {
		return 0, ErrRefreshNotFound
	}
	if m.nowFunc().After(stored.IssuedAt.Add(m.refreshTokenExpiry)) {
		_ = m.refreshRepo.Delete(ctx, token)
		return 0, ErrRefreshExpired
	}
	return stored.UserID, nil
}

// InvalidateRefreshToken removes a refresh token from storage. Unknown
// tokens are not an error so logout stays idempotent.
func (m *Manager) InvalidateRefreshToken(ctx context.Context, token string) error {
	if err := m.refreshRepo.Delete(ctx, token); err != nil && !errors.Is(err, ErrRefreshNotFound) {
		return errors.Wrap(err, "[InvalidateRefreshToken] Delete")
	}
	return nil
}
