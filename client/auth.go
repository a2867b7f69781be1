package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/metrohr/leavehub/session"
)

var _ session.AuthAPI = (*AuthClient)(nil)

// AuthClient calls the authentication endpoints over a plain HTTP client,
// outside the session transport. The session manager uses it for login,
// refresh and logout so those calls never recurse through the
// refresh-and-retry policy.
type AuthClient struct {
	inner *Client
}

func NewAuthClient(baseURL string) *AuthClient {
	return &AuthClient{
		inner: New(baseURL, &http.Client{Timeout: 15 * time.Second}),
	}
}

// Login exchanges credentials for a token pair and the user's profile.
func (a *AuthClient) Login(ctx context.Context, email, password string) (session.LoginResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var resp session.LoginResponse
	if err := a.inner.post(ctx, "/auth/login/", body, &resp); err != nil {
		return session.LoginResponse{}, fmt.Errorf("client.Login: %w", err)
	}
	return resp, nil
}

// Refresh exchanges a refresh token for a new access token.
func (a *AuthClient) Refresh(ctx context.Context, refreshToken string) (string, error) {
	body := map[string]string{"refresh": refreshToken}
	var resp struct {
		Access string `json:"access"`
	}
	if err := a.inner.post(ctx, "/auth/token/refresh/", body, &resp); err != nil {
		return "", fmt.Errorf("client.Refresh: %w", err)
	}
	return resp.Access, nil
}

// Logout invalidates a refresh token server-side.
func (a *AuthClient) Logout(ctx context.Context, refreshToken string) error {
	body := map[string]string{"refresh": refreshToken}
	if err := a.inner.post(ctx, "/auth/logout/", body, nil); err != nil {
		return fmt.Errorf("client.Logout: %w", err)
	}
	return nil
}
