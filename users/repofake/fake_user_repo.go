package fakeuserrepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/metrohr/leavehub/users"
)

var _ users.Repo = (*FakeUserRepo)(nil)

type FakeUserRepo struct {
	users    map[int64]*users.User
	emailIds map[string]int64 // email to user id
	nextID   int64
	lock     sync.RWMutex
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{
		users:    make(map[int64]*users.User),
		emailIds: make(map[string]int64),
	}
}

func (ur *FakeUserRepo) GetByID(_ context.Context, id int64) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	u, ok := ur.users[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (ur *FakeUserRepo) GetByEmail(_ context.Context, email string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	id, ok := ur.emailIds[email]
	if !ok {
		return nil, users.ErrNotFound
	}
	cp := *ur.users[id]
	return &cp, nil
}

func (ur *FakeUserRepo) List(_ context.Context, filter users.ListFilter) ([]*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	list := make([]*users.User, 0, len(ur.users))
	for _, u := range ur.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.AreaID != nil && (u.AreaID == nil || *u.AreaID != *filter.AreaID) {
			continue
		}
		cp := *u
		list = append(list, &cp)
	}

	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (ur *FakeUserRepo) Create(_ context.Context, user *users.User) (*users.User, error) {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	if _, exists := ur.emailIds[user.Email]; exists {
		return nil, users.ErrDuplicateEmail
	}

	ur.nextID++
	cp := *user
	cp.ID = ur.nextID
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	ur.users[cp.ID] = &cp
	ur.emailIds[cp.Email] = cp.ID

	out := cp
	return &out, nil
}

func (ur *FakeUserRepo) Update(_ context.Context, user *users.User) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	existing, ok := ur.users[user.ID]
	if !ok {
		return users.ErrNotFound
	}
	delete(ur.emailIds, existing.Email)
	cp := *user
	ur.users[cp.ID] = &cp
	ur.emailIds[cp.Email] = cp.ID
	return nil
}

func (ur *FakeUserRepo) SetActive(_ context.Context, id int64, active bool) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	u, ok := ur.users[id]
	if !ok {
		return users.ErrNotFound
	}
	u.Active = active
	return nil
}

func (ur *FakeUserRepo) SetPassword(_ context.Context, id int64, passwordHash string) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	u, ok := ur.users[id]
	if !ok {
		return users.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (ur *FakeUserRepo) TouchLastAccess(_ context.Context, id int64, at time.Time) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	u, ok := ur.users[id]
	if !ok {
		return users.ErrNotFound
	}
	u.LastAccess = &at
	return nil
}
