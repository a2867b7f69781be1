// Package auth implements first-party credential authentication: login,
// token refresh, logout and password changes.
package auth

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/metrohr/leavehub/token"
	"github.com/metrohr/leavehub/users"
)

var (
	// ErrInvalidCredentials is returned when the email or password is wrong.
	// Both cases share one error so callers cannot probe for accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountDisabled is returned when the account exists but is inactive.
	ErrAccountDisabled = errors.New("account disabled")
)

// TokenPair is the access/refresh pair handed out at login.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// LoginResult bundles the authenticated user with their tokens.
type LoginResult struct {
	User   *users.User `json:"user"`
	Tokens TokenPair   `json:"tokens"`
}

// Service provides methods for credential authentication and token lifecycle.
type Service struct {
	users   users.Repo
	tokens  *token.Manager
	nowTime func() time.Time
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

// NewService initializes a new Service with required dependencies.
func NewService(userRepo users.Repo, tokens *token.Manager, options ...ServiceOption) (*Service, error) {
	if userRepo == nil {
		return nil, errors.New("[NewService] user repo is required")
	}
	if tokens == nil {
		return nil, errors.New("[NewService] token manager is required")
	}

	s := &Service{
		users:   userRepo,
		tokens:  tokens,
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// Login verifies the credentials and, on success, issues a fresh token pair
// and stamps the user's last access time.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !users.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if !user.Active {
		return nil, ErrAccountDisabled
	}

	access, err := s.tokens.CreateAccessToken(user)
	if err != nil {
		return nil, errors.Wrap(err, "[Login] CreateAccessToken")
	}
	refresh, err := s.tokens.CreateRefreshToken(ctx, user.ID)
	if err != nil {
		return nil, errors.Wrap(err, "[Login] CreateRefreshToken")
	}

	if err := s.users.TouchLastAccess(ctx, user.ID, s.nowTime()); err != nil {
		return nil, errors.Wrap(err, "[Login] TouchLastAccess")
	}

	return &LoginResult{User: user, Tokens: TokenPair{Access: access, Refresh: refresh}}, nil
}

// Refresh exchanges a valid refresh token for a new access token. The
// refresh token itself is not rotated.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	userID, err := s.tokens.ExchangeRefreshToken(ctx, refreshToken)
	if err != nil {
		return "", err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", errors.Wrap(err, "[Refresh] GetByID")
	}
	if !user.Active {
		return "", ErrAccountDisabled
	}

	access, err := s.tokens.CreateAccessToken(user)
	if err != nil {
		return "", errors.Wrap(err, "[Refresh] CreateAccessToken")
	}
	return access, nil
}

// Logout invalidates the refresh token. Calling it with an already
// invalidated token is not an error.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	return s.tokens.InvalidateRefreshToken(ctx, refreshToken)
}

// Authenticate verifies a raw access token and resolves its user.
func (s *Service) Authenticate(ctx context.Context, rawAccess string) (*users.User, error) {
	claims, err := s.tokens.Introspect(rawAccess)
	if err != nil {
		return nil, err
	}
	userID, err := token.SubjectToUserID(claims.Subject)
	if err != nil {
		return nil, token.ErrInvalidToken
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, token.ErrInvalidToken
	}
	if !user.Active {
		return nil, ErrAccountDisabled
	}
	return user, nil
}

// Profile returns the user's profile by ID.
func (s *Service) Profile(ctx context.Context, userID int64) (*users.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "[Profile] GetByID")
	}
	return user, nil
}

// ChangePassword verifies the current password and stores a hash of the
// new one.
func (s *Service) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return errors.Wrap(err, "[ChangePassword] GetByID")
	}
	if !users.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return ErrInvalidCredentials
	}
	if err := users.ValidatePasswordStrength(newPassword); err != nil {
		return err
	}
	hash, err := users.HashPassword(newPassword)
	if err != nil {
		return errors.Wrap(err, "[ChangePassword] HashPassword")
	}
	if err := s.users.SetPassword(ctx, userID, hash); err != nil {
		return errors.Wrap(err, "[ChangePassword] SetPassword")
	}
	return nil
}
