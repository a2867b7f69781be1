package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/metrohr/leavehub/users"
)

var _ users.Repo = (*UserStore)(nil)

// UserStore implements users.Repo on the shared pool.
type UserStore struct {
	pool *pgxpool.Pool
}

// Users returns the user repository view of the store.
func (s *Store) Users() *UserStore {
	return &UserStore{pool: s.pool}
}

const userColumns = `
	u.id, u.email, u.first_name, u.last_name, u.role, u.area_id,
	COALESCE(a.name, ''), u.password_hash, u.active, u.created_at, u.last_access`

func scanUser(row pgx.Row) (*users.User, error) {
	var u users.User
	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Role, &u.AreaID,
		&u.AreaName, &u.PasswordHash, &u.Active, &u.CreatedAt, &u.LastAccess)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, users.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *UserStore) GetByID(ctx context.Context, id int64) (*users.User, error) {
	const query = `
	SELECT` + userColumns + `
	FROM users u
	LEFT JOIN areas a ON u.area_id = a.id
	WHERE u.id = $1;`
	return scanUser(s.pool.QueryRow(ctx, query, id))
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	const query = `
	SELECT` + userColumns + `
	FROM users u
	LEFT JOIN areas a ON u.area_id = a.id
	WHERE u.email = $1;`
	return scanUser(s.pool.QueryRow(ctx, query, email))
}

func (s *UserStore) List(ctx context.Context, filter users.ListFilter) ([]*users.User, error) {
	const query = `
	SELECT` + userColumns + `
	FROM users u
	LEFT JOIN areas a ON u.area_id = a.id
	WHERE ($1::text IS NULL OR u.role = $1)
	  AND ($2::bigint IS NULL OR u.area_id = $2)
	ORDER BY u.id;`

	var role *string
	if filter.Role != "" {
		r := string(filter.Role)
		role = &r
	}

	rows, err := s.pool.Query(ctx, query, role, filter.AreaID)
	if err != nil {
		return nil, errors.Wrap(err, "[List] Query")
	}
	defer rows.Close()

	var list []*users.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

func (s *UserStore) Create(ctx context.Context, u *users.User) (*users.User, error) {
	const query = `
	INSERT INTO users (email, first_name, last_name, role, area_id, password_hash, active)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id, created_at;`

	created := *u
	err := s.pool.QueryRow(ctx, query, u.Email, u.FirstName, u.LastName, u.Role, u.AreaID,
		u.PasswordHash, u.Active).Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, users.ErrDuplicateEmail
		}
		return nil, errors.Wrap(err, "[Create] QueryRow")
	}
	return &created, nil
}

func (s *UserStore) Update(ctx context.Context, u *users.User) error {
	const query = `
	UPDATE users
	SET email = $2, first_name = $3, last_name = $4, role = $5, area_id = $6
	WHERE id = $1;`

	tag, err := s.pool.Exec(ctx, query, u.ID, u.Email, u.FirstName, u.LastName, u.Role, u.AreaID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return users.ErrDuplicateEmail
		}
		return errors.Wrap(err, "[Update] Exec")
	}
	if tag.RowsAffected() == 0 {
		return users.ErrNotFound
	}
	return nil
}

func (s *UserStore) SetActive(ctx context.Context, id int64, active bool) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET active = $2 WHERE id = $1;`, id, active)
	if err != nil {
		return errors.Wrap(err, "[SetActive] Exec")
	}
	if tag.RowsAffected() == 0 {
		return users.ErrNotFound
	}
	return nil
}

func (s *UserStore) SetPassword(ctx context.Context, id int64, passwordHash string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET password_hash = $2 WHERE id = $1;`, id, passwordHash)
	if err != nil {
		return errors.Wrap(err, "[SetPassword] Exec")
	}
	if tag.RowsAffected() == 0 {
		return users.ErrNotFound
	}
	return nil
}

func (s *UserStore) TouchLastAccess(ctx context.Context, id int64, at time.Time) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET last_access = $2 WHERE id = $1;`, id, at)
	if err != nil {
		return errors.Wrap(err, "[TouchLastAccess] Exec")
	}
	if tag.RowsAffected() == 0 {
		return users.ErrNotFound
	}
	return nil
}
