package faketokenrepo

import (
	"context"
	"sync"

	"github.com/metrohr/leavehub/token"
)

var _ token.Repo = (*FakeRefreshTokenRepo)(nil)

type FakeRefreshTokenRepo struct {
	tokens map[string]*token.StoredRefreshToken
	lock   sync.RWMutex
}

func NewFakeRefreshTokenRepo() *FakeRefreshTokenRepo {
	return &FakeRefreshTokenRepo{
		tokens: make(map[string]*token.StoredRefreshToken),
	}
}

func (tr *FakeRefreshTokenRepo) Upsert(_ context.Context, refreshToken *token.StoredRefreshToken) error {
	tr.lock.Lock()
	defer tr.lock.Unlock()

	cp := *refreshToken
	tr.tokens[cp.Token] = &cp
	return nil
}

func (tr *FakeRefreshTokenRepo) Delete(_ context.Context, t string) error {
	tr.lock.Lock()
	defer tr.lock.Unlock()

	delete(tr.tokens, t)
	return nil
}

func (tr *FakeRefreshTokenRepo) Get(_ context.Context, t string) (*token.StoredRefreshToken, error) {
	tr.lock.RLock()
	defer tr.lock.RUnlock()

	stored, ok := tr.tokens[t]
	if !ok {
		return nil, token.ErrRefreshNotFound
	}
	cp := *stored
	return &cp, nil
}

func (tr *FakeRefreshTokenRepo) GetByUserID(_ context.Context, userID int64) (*token.StoredRefreshToken, error) {
	tr.lock.RLock()
	defer tr.lock.RUnlock()

	for _, stored := range tr.tokens {
		if stored.UserID == userID {
			cp := *stored
			return &cp, nil
		}
	}
	return nil, token.ErrRefreshNotFound
}
