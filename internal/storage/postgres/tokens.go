package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/metrohr/leavehub/token"
)

var _ token.Repo = (*TokenStore)(nil)

// TokenStore implements token.Repo on the shared pool.
type TokenStore struct {
	pool *pgxpool.Pool
}

// Tokens returns the refresh token repository view of the store.
func (s *Store) Tokens() *TokenStore {
	return &TokenStore{pool: s.pool}
}

func (s *TokenStore) Upsert(ctx context.Context, refreshToken *token.StoredRefreshToken) error {
	const query = `
	INSERT INTO refresh_tokens (token, user_id, issued_at)
	VALUES ($1, $2, $3)
	ON CONFLICT (user_id) DO UPDATE
	SET token = EXCLUDED.token, issued_at = EXCLUDED.issued_at;`

	_, err := s.pool.Exec(ctx, query, refreshToken.Token, refreshToken.UserID, refreshToken.IssuedAt)
	if err != nil {
		return errors.Wrap(err, "[Upsert] Exec")
	}
	return nil
}

func (s *TokenStore) Delete(ctx context.Context, t string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE token = $1;`, t); err != nil {
		return errors.Wrap(err, "[Delete] Exec")
	}
	return nil
}

func (s *TokenStore) Get(ctx context.Context, t string) (*token.StoredRefreshToken, error) {
	var stored token.StoredRefreshToken
	err := s.pool.QueryRow(ctx, `SELECT token, user_id, issued_at FROM refresh_tokens WHERE token = $1;`, t).
		Scan(&stored.Token, &stored.UserID, &stored.IssuedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, token.ErrRefreshNotFound
		}
		return nil, err
	}
	return &stored, nil
}

func (s *TokenStore) GetByUserID(ctx context.Context, userID int64) (*token.StoredRefreshToken, error) {
	var stored token.StoredRefreshToken
	err := s.pool.QueryRow(ctx, `SELECT token, user_id, issued_at FROM refresh_tokens WHERE user_id = $1;`, userID).
		Scan(&stored.Token, &stored.UserID, &stored.IssuedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, token.ErrRefreshNotFound
		}
		return nil, err
	}
	return &stored, nil
}
