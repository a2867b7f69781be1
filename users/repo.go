package users

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a user does not exist.
var ErrNotFound = errors.New("user not found")

// ErrDuplicateEmail is returned when creating a user with an email that is taken.
var ErrDuplicateEmail = errors.New("email already registered")

// ListFilter narrows the result of a List call. Zero values mean "no filter".
type ListFilter struct {
	Role   RoleType
	AreaID *int64
}

// Repo is the persistence boundary for user accounts.
type Repo interface {
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, filter ListFilter) ([]*User, error)
	Create(ctx context.Context, user *User) (*User, error)
	Update(ctx context.Context, user *User) error
	SetActive(ctx context.Context, id int64, active bool) error
	SetPassword(ctx context.Context, id int64, passwordHash string) error
	TouchLastAccess(ctx context.Context, id int64, at time.Time) error
}
