package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/metrohr/leavehub/areas"
)

var _ areas.Repo = (*AreaStore)(nil)

// AreaStore implements areas.Repo on the shared pool.
type AreaStore struct {
	pool *pgxpool.Pool
}

// Areas returns the area repository view of the store.
func (s *Store) Areas() *AreaStore {
	return &AreaStore{pool: s.pool}
}

const areaColumns = `
	id, name, code, description, active,
	extension_active, extension_days, anticipation_days, created_at`

func scanArea(row pgx.Row) (*areas.Area, error) {
	var a areas.Area
	err := row.Scan(&a.ID, &a.Name, &a.Code, &a.Description, &a.Active,
		&a.Settings.ExtensionActive, &a.Settings.ExtensionDays, &a.Settings.AnticipationDays, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, areas.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (s *AreaStore) GetByID(ctx context.Context, id int64) (*areas.Area, error) {
	const query = `SELECT` + areaColumns + ` FROM areas WHERE id = $1;`
	return scanArea(s.pool.QueryRow(ctx, query, id))
}

func (s *AreaStore) GetByCode(ctx context.Context, code string) (*areas.Area, error) {
	const query = `SELECT` + areaColumns + ` FROM areas WHERE code = $1;`
	return scanArea(s.pool.QueryRow(ctx, query, code))
}

func (s *AreaStore) List(ctx context.Context, activeOnly bool) ([]*areas.Area, error) {
	const query = `
	SELECT` + areaColumns + `
	FROM areas
	WHERE NOT $1::boolean OR active
	ORDER BY id;`

	rows, err := s.pool.Query(ctx, query, activeOnly)
	if err != nil {
		return nil, errors.Wrap(err, "[List] Query")
	}
	defer rows.Close()

	var list []*areas.Area
	for rows.Next() {
		a, err := scanArea(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (s *AreaStore) Create(ctx context.Context, area *areas.Area) (*areas.Area, error) {
	const query = `
	INSERT INTO areas (name, code, description, active, extension_active, extension_days, anticipation_days)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id, created_at;`

	created := *area
	err := s.pool.QueryRow(ctx, query, area.Name, area.Code, area.Description, area.Active,
		area.Settings.ExtensionActive, area.Settings.ExtensionDays, area.Settings.AnticipationDays).
		Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, areas.ErrDuplicateCode
		}
		return nil, errors.Wrap(err, "[Create] QueryRow")
	}
	return &created, nil
}

func (s *AreaStore) Update(ctx context.Context, area *areas.Area) error {
	const query = `
	UPDATE areas
	SET name = $2, code = $3, description = $4,
	    extension_active = $5, extension_days = $6, anticipation_days = $7
	WHERE id = $1;`

	tag, err := s.pool.Exec(ctx, query, area.ID, area.Name, area.Code, area.Description,
		area.Settings.ExtensionActive, area.Settings.ExtensionDays, area.Settings.AnticipationDays)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return areas.ErrDuplicateCode
		}
		return errors.Wrap(err, "[Update] Exec")
	}
	if tag.RowsAffected() == 0 {
		return areas.ErrNotFound
	}
	return nil
}

func (s *AreaStore) SetActive(ctx context.Context, id int64, active bool) error {
	tag, err := s.pool.Exec(ctx, `UPDATE areas SET active = $2 WHERE id = $1;`, id, active)
	if err != nil {
		return errors.Wrap(err, "[SetActive] Exec")
	}
	if tag.RowsAffected() == 0 {
		return areas.ErrNotFound
	}
	return nil
}
