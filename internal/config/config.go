// Package config reads runtime configuration from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

const (
	portEnvVar        = "PORT"
	appNameVar        = "APP_NAME"
	databaseURLVar    = "DATABASE_URL"
	jwtSecretVar      = "JWT_SECRET"
	tokenIssuerVar    = "TOKEN_ISSUER"
	accessExpiryVar   = "ACCESS_TOKEN_EXPIRY"
	refreshExpiryVar  = "REFRESH_TOKEN_EXPIRY"
	folioPrefixVar    = "FOLIO_PREFIX"
	apiBaseURLVar     = "API_BASE_URL"
	sessionFileVar    = "SESSION_FILE"
	allowedOriginsVar = "ALLOWED_ORIGINS"
)

// Server holds the backend configuration.
type Server struct {
	Port               string
	AppName            string
	DatabaseURL        string
	JWTSecret          string
	TokenIssuer        string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	FolioPrefix        string
	AllowedOrigins     string
}

// LoadServer reads the server configuration. DATABASE_URL and JWT_SECRET
// are required.
func LoadServer() (*Server, error) {
	cfg := &Server{
		Port:               portFromEnv(),
		AppName:            GetEnv(appNameVar, "LeaveHub"),
		DatabaseURL:        os.Getenv(databaseURLVar),
		JWTSecret:          os.Getenv(jwtSecretVar),
		TokenIssuer:        GetEnv(tokenIssuerVar, "leavehub"),
		AccessTokenExpiry:  durationFromEnv(accessExpiryVar, 15*time.Minute),
		RefreshTokenExpiry: durationFromEnv(refreshExpiryVar, 24*time.Hour),
		FolioPrefix:        GetEnv(folioPrefixVar, "VAC"),
		AllowedOrigins:     GetEnv(allowedOriginsVar, "*"),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.Errorf("[LoadServer] %s is required", databaseURLVar)
	}
	if cfg.JWTSecret == "" {
		return nil, errors.Errorf("[LoadServer] %s is required", jwtSecretVar)
	}
	return cfg, nil
}

// Client holds the terminal client configuration.
type Client struct {
	APIBaseURL  string
	SessionFile string
}

// LoadClient reads the client configuration. Everything has a default.
func LoadClient() *Client {
	return &Client{
		APIBaseURL:  GetEnv(apiBaseURLVar, "http://127.0.0.1:8000/api"),
		SessionFile: GetEnv(sessionFileVar, defaultSessionFile()),
	}
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".leavehub-session.json"
	}
	return filepath.Join(home, ".leavehub", "session.json")
}

func portFromEnv() string {
	port := GetEnv(portEnvVar, "8000")
	if port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func durationFromEnv(envVar string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(envVar)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return defaultValue
	}
	return d
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
