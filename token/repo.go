package token

import (
	"context"
	"strconv"
	"time"
)

// StoredRefreshToken is the server-side record of an issued refresh token.
type StoredRefreshToken struct {
	Token    string
	UserID   int64
	IssuedAt time.Time
}

// Repo is the persistence boundary for refresh tokens.
type Repo interface {
	Upsert(ctx context.Context, refreshToken *StoredRefreshToken) error
	Delete(ctx context.Context, token string) error
	Get(ctx context.Context, token string) (*StoredRefreshToken, error)
	GetByUserID(ctx context.Context, userID int64) (*StoredRefreshToken, error)
}

func userIDToSubject(id int64) string {
	return strconv.FormatInt(id, 10)
}

// SubjectToUserID parses a JWT subject back into a user ID.
func SubjectToUserID(sub string) (int64, error) {
	return strconv.ParseInt(sub, 10, 64)
}
