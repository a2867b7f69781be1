package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/metrohr/leavehub/catalogs"
)

var _ catalogs.Repo = (*CatalogStore)(nil)

// CatalogStore implements catalogs.Repo on the shared pool.
type CatalogStore struct {
	pool *pgxpool.Pool
}

// Catalogs returns the catalog repository view of the store.
func (s *Store) Catalogs() *CatalogStore {
	return &CatalogStore{pool: s.pool}
}

// Catalog listings share one filter shape: active-only plus "global or
// this area" scoping.
const catalogFilterClause = `
	WHERE (NOT $1::boolean OR active)
	  AND ($2::bigint IS NULL OR area_id IS NULL OR area_id = $2)
	ORDER BY id;`

func (s *CatalogStore) ListVacationTypes(ctx context.Context, filter catalogs.ListFilter) ([]*catalogs.VacationType, error) {
	const query = `
	SELECT id, name, code, description, requires_documents, area_id, active
	FROM vacation_types` + catalogFilterClause

	rows, err := s.pool.Query(ctx, query, filter.ActiveOnly, filter.AreaID)
	if err != nil {
		return nil, errors.Wrap(err, "[ListVacationTypes] Query")
	}
	defer rows.Close()

	var list []*catalogs.VacationType
	for rows.Next() {
		var t catalogs.VacationType
		if err := rows.Scan(&t.ID, &t.Name, &t.Code, &t.Description, &t.RequiresDocuments, &t.AreaID, &t.Active); err != nil {
			return nil, err
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}

func (s *CatalogStore) GetVacationType(ctx context.Context, id int64) (*catalogs.VacationType, error) {
	const query = `
	SELECT id, name, code, description, requires_documents, area_id, active
	FROM vacation_types WHERE id = $1;`

	var t catalogs.VacationType
	err := s.pool.QueryRow(ctx, query, id).
		Scan(&t.ID, &t.Name, &t.Code, &t.Description, &t.RequiresDocuments, &t.AreaID, &t.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalogs.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (s *CatalogStore) CreateVacationType(ctx context.Context, t *catalogs.VacationType) (*catalogs.VacationType, error) {
	const query = `
	INSERT INTO vacation_types (name, code, description, requires_documents, area_id, active)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id;`

	created := *t
	err := s.pool.QueryRow(ctx, query, t.Name, t.Code, t.Description, t.RequiresDocuments, t.AreaID, t.Active).
		Scan(&created.ID)
	if err != nil {
		return nil, errors.Wrap(err, "[CreateVacationType] QueryRow")
	}
	return &created, nil
}

func (s *CatalogStore) UpdateVacationType(ctx context.Context, t *catalogs.VacationType) error {
	const query = `
	UPDATE vacation_types
	SET name = $2, code = $3, description = $4, requires_documents = $5, area_id = $6, active = $7
	WHERE id = $1;`

	tag, err := s.pool.Exec(ctx, query, t.ID, t.Name, t.Code, t.Description, t.RequiresDocuments, t.AreaID, t.Active)
	if err != nil {
		return errors.Wrap(err, "[UpdateVacationType] Exec")
	}
	if tag.RowsAffected() == 0 {
		return catalogs.ErrNotFound
	}
	return nil
}

func (s *CatalogStore) ListEconomicDayTypes(ctx context.Context, filter catalogs.ListFilter) ([]*catalogs.EconomicDayType, error) {
	const query = `
	SELECT id, name, code, category, description, help_text, day_limit, area_id, active
	FROM economic_day_types` + catalogFilterClause

	rows, err := s.pool.Query(ctx, query, filter.ActiveOnly, filter.AreaID)
	if err != nil {
		return nil, errors.Wrap(err, "[ListEconomicDayTypes] Query")
	}
	defer rows.Close()

	var list []*catalogs.EconomicDayType
	for rows.Next() {
		var t catalogs.EconomicDayType
		if err := rows.Scan(&t.ID, &t.Name, &t.Code, &t.Category, &t.Description, &t.HelpText, &t.DayLimit, &t.AreaID, &t.Active); err != nil {
			return nil, err
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}

func (s *CatalogStore) GetEconomicDayType(ctx context.Context, id int64) (*catalogs.EconomicDayType, error) {
	const query = `
	SELECT id, name, code, category, description, help_text, day_limit, area_id, active
	FROM economic_day_types WHERE id = $1;`

	var t catalogs.EconomicDayType
	err := s.pool.QueryRow(ctx, query, id).
		Scan(&t.ID, &t.Name, &t.Code, &t.Category, &t.Description, &t.HelpText, &t.DayLimit, &t.AreaID, &t.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalogs.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (s *CatalogStore) CreateEconomicDayType(ctx context.Context, t *catalogs.EconomicDayType) (*catalogs.EconomicDayType, error) {
	const query = `
	INSERT INTO economic_day_types (name, code, category, description, help_text, day_limit, area_id, active)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING id;`

	created := *t
	err := s.pool.QueryRow(ctx, query, t.Name, t.Code, t.Category, t.Description, t.HelpText, t.DayLimit, t.AreaID, t.Active).
		Scan(&created.ID)
	if err != nil {
		return nil, errors.Wrap(err, "[CreateEconomicDayType] QueryRow")
	}
	return &created, nil
}

func (s *CatalogStore) UpdateEconomicDayType(ctx context.Context, t *catalogs.EconomicDayType) error {
	const query = `
	UPDATE economic_day_types
	SET name = $2, code = $3, category = $4, description = $5, help_text = $6, day_limit = $7, area_id = $8, active = $9
	WHERE id = $1;`

	tag, err := s.pool.Exec(ctx, query, t.ID, t.Name, t.Code, t.Category, t.Description, t.HelpText, t.DayLimit, t.AreaID, t.Active)
	if err != nil {
		return errors.Wrap(err, "[UpdateEconomicDayType] Exec")
	}
	if tag.RowsAffected() == 0 {
		return catalogs.ErrNotFound
	}
	return nil
}

func (s *CatalogStore) ListRequirements(ctx context.Context, filter catalogs.ListFilter) ([]*catalogs.Requirement, error) {
	const query = `
	SELECT id, name, code, description, mandatory, area_id, active
	FROM requirements` + catalogFilterClause

	rows, err := s.pool.Query(ctx, query, filter.ActiveOnly, filter.AreaID)
	if err != nil {
		return nil, errors.Wrap(err, "[ListRequirements] Query")
	}
	defer rows.Close()

	var list []*catalogs.Requirement
	for rows.Next() {
		var r catalogs.Requirement
		if err := rows.Scan(&r.ID, &r.Name, &r.Code, &r.Description, &r.Mandatory, &r.AreaID, &r.Active); err != nil {
			return nil, err
		}
		list = append(list, &r)
	}
	return list, rows.Err()
}

func (s *CatalogStore) CreateRequirement(ctx context.Context, r *catalogs.Requirement) (*catalogs.Requirement, error) {
	const query = `
	INSERT INTO requirements (name, code, description, mandatory, area_id, active)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id;`

	created := *r
	err := s.pool.QueryRow(ctx, query, r.Name, r.Code, r.Description, r.Mandatory, r.AreaID, r.Active).
		Scan(&created.ID)
	if err != nil {
		return nil, errors.Wrap(err, "[CreateRequirement] QueryRow")
	}
	return &created, nil
}

func (s *CatalogStore) UpdateRequirement(ctx context.Context, r *catalogs.Requirement) error {
	const query = `
	UPDATE requirements
	SET name = $2, code = $3, description = $4, mandatory = $5, area_id = $6, active = $7
	WHERE id = $1;`

	tag, err := s.pool.Exec(ctx, query, r.ID, r.Name, r.Code, r.Description, r.Mandatory, r.AreaID, r.Active)
	if err != nil {
		return errors.Wrap(err, "[UpdateRequirement] Exec")
	}
	if tag.RowsAffected() == 0 {
		return catalogs.ErrNotFound
	}
	return nil
}

func (s *CatalogStore) ListSigners(ctx context.Context, areaID int64) ([]*catalogs.Signer, error) {
	const query = `
	SELECT id, area_id, role, full_name, position, sign_order, active
	FROM signers
	WHERE area_id = $1
	ORDER BY sign_order;`

	rows, err := s.pool.Query(ctx, query, areaID)
	if err != nil {
		return nil, errors.Wrap(err, "[ListSigners] Query")
	}
	defer rows.Close()

	var list []*catalogs.Signer
	for rows.Next() {
		var sg catalogs.Signer
		if err := rows.Scan(&sg.ID, &sg.AreaID, &sg.Role, &sg.FullName, &sg.Position, &sg.Order, &sg.Active); err != nil {
			return nil, err
		}
		list = append(list, &sg)
	}
	return list, rows.Err()
}

func (s *CatalogStore) CreateSigner(ctx context.Context, sg *catalogs.Signer) (*catalogs.Signer, error) {
	const query = `
	INSERT INTO signers (area_id, role, full_name, position, sign_order, active)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id;`

	created := *sg
	err := s.pool.QueryRow(ctx, query, sg.AreaID, sg.Role, sg.FullName, sg.Position, sg.Order, sg.Active).
		Scan(&created.ID)
	if err != nil {
		return nil, errors.Wrap(err, "[CreateSigner] QueryRow")
	}
	return &created, nil
}

func (s *CatalogStore) UpdateSigner(ctx context.Context, sg *catalogs.Signer) error {
	const query = `
	UPDATE signers
	SET area_id = $2, role = $3, full_name = $4, position = $5, sign_order = $6, active = $7
	WHERE id = $1;`

	tag, err := s.pool.Exec(ctx, query, sg.ID, sg.AreaID, sg.Role, sg.FullName, sg.Position, sg.Order, sg.Active)
	if err != nil {
		return errors.Wrap(err, "[UpdateSigner] Exec")
	}
	if tag.RowsAffected() == 0 {
		return catalogs.ErrNotFound
	}
	return nil
}
