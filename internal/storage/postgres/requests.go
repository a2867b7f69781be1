package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/metrohr/leavehub/requests"
)

var (
	_ requests.Repo        = (*RequestStore)(nil)
	_ requests.BalanceRepo = (*BalanceStore)(nil)
)

// RequestStore implements requests.Repo on the shared pool.
type RequestStore struct {
	pool *pgxpool.Pool
}

// Requests returns the leave request repository view of the store.
func (s *Store) Requests() *RequestStore {
	return &RequestStore{pool: s.pool}
}

const requestColumns = `
	r.id, r.folio, r.employee_id, e.first_name || ' ' || e.last_name, r.area_id, r.kind,
	r.vacation_type_id, r.economic_day_type_id, r.request_date, r.start_date, r.resume_date,
	r.business_days, r.period, r.notes, r.status, r.pdf_path, r.pdf_generated_at,
	r.rest_day_conflict, r.warning, r.created_at, r.created_by`

func scanRequest(row pgx.Row) (*requests.LeaveRequest, error) {
	var r requests.LeaveRequest
	err := row.Scan(&r.ID, &r.Folio, &r.EmployeeID, &r.EmployeeName, &r.AreaID, &r.Kind,
		&r.VacationTypeID, &r.EconomicDayTypeID, &r.RequestDate, &r.StartDate, &r.ResumeDate,
		&r.BusinessDays, &r.Period, &r.Notes, &r.Status, &r.PDFPath, &r.PDFGeneratedAt,
		&r.RestDayConflict, &r.Warning, &r.CreatedAt, &r.CreatedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, requests.ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

func (s *RequestStore) GetByID(ctx context.Context, id string) (*requests.LeaveRequest, error) {
	const query = `
	SELECT` + requestColumns + `
	FROM leave_requests r
	JOIN employees e ON r.employee_id = e.id
	WHERE r.id = $1;`
	return scanRequest(s.pool.QueryRow(ctx, query, id))
}

func (s *RequestStore) GetByFolio(ctx context.Context, folio string) (*requests.LeaveRequest, error) {
	const query = `
	SELECT` + requestColumns + `
	FROM leave_requests r
	JOIN employees e ON r.employee_id = e.id
	WHERE r.folio = $1;`
	return scanRequest(s.pool.QueryRow(ctx, query, folio))
}

func (s *RequestStore) List(ctx context.Context, filter requests.ListFilter) ([]*requests.LeaveRequest, error) {
	const query = `
	SELECT` + requestColumns + `
	FROM leave_requests r
	JOIN employees e ON r.employee_id = e.id
	WHERE ($1::bigint IS NULL OR r.area_id = $1)
	  AND ($2::bigint IS NULL OR r.employee_id = $2)
	  AND ($3::text = '' OR r.status = $3)
	  AND ($4::text = '' OR r.kind = $4)
	ORDER BY r.created_at DESC;`

	rows, err := s.pool.Query(ctx, query, filter.AreaID, filter.EmployeeID, string(filter.Status), string(filter.Kind))
	if err != nil {
		return nil, errors.Wrap(err, "[List] Query")
	}
	defer rows.Close()

	var list []*requests.LeaveRequest
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, r)
	}
	return list, rows.Err()
}

func (s *RequestStore) Create(ctx context.Context, r *requests.LeaveRequest) (*requests.LeaveRequest, error) {
	const query = `
	INSERT INTO leave_requests (id, folio, employee_id, area_id, kind,
		vacation_type_id, economic_day_type_id, request_date, start_date, resume_date,
		business_days, period, notes, status, rest_day_conflict, warning, created_by)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	RETURNING created_at;`

	created := *r
	if created.ID == "" {
		created.ID = uuid.NewString()
	}
	err := s.pool.QueryRow(ctx, query, created.ID, r.Folio, r.EmployeeID, r.AreaID, r.Kind,
		r.VacationTypeID, r.EconomicDayTypeID, r.RequestDate, r.StartDate, r.ResumeDate,
		r.BusinessDays, r.Period, r.Notes, r.Status, r.RestDayConflict, r.Warning, r.CreatedBy).
		Scan(&created.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, requests.ErrDuplicateFolio
		}
		return nil, errors.Wrap(err, "[Create] QueryRow")
	}
	return &created, nil
}

func (s *RequestStore) UpdateStatus(ctx context.Context, id string, status requests.Status) error {
	tag, err := s.pool.Exec(ctx, `UPDATE leave_requests SET status = $2 WHERE id = $1;`, id, status)
	if err != nil {
		return errors.Wrap(err, "[UpdateStatus] Exec")
	}
	if tag.RowsAffected() == 0 {
		return requests.ErrNotFound
	}
	return nil
}

func (s *RequestStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM leave_requests WHERE id = $1;`, id)
	if err != nil {
		return errors.Wrap(err, "[Delete] Exec")
	}
	if tag.RowsAffected() == 0 {
		return requests.ErrNotFound
	}
	return nil
}

// BalanceStore implements requests.BalanceRepo on the shared pool.
type BalanceStore struct {
	pool *pgxpool.Pool
}

// Balances returns the vacation balance repository view of the store.
func (s *Store) Balances() *BalanceStore {
	return &BalanceStore{pool: s.pool}
}

func (s *BalanceStore) ListByEmployee(ctx context.Context, employeeID int64) ([]*requests.VacationBalance, error) {
	const query = `
	SELECT id, employee_id, period, days_granted, days_used, days_available, period_start, period_end
	FROM vacation_balances
	WHERE employee_id = $1
	ORDER BY period;`

	rows, err := s.pool.Query(ctx, query, employeeID)
	if err != nil {
		return nil, errors.Wrap(err, "[ListByEmployee] Query")
	}
	defer rows.Close()

	var list []*requests.VacationBalance
	for rows.Next() {
		var b requests.VacationBalance
		if err := rows.Scan(&b.ID, &b.EmployeeID, &b.Period, &b.DaysGranted, &b.DaysUsed,
			&b.DaysAvailable, &b.PeriodStart, &b.PeriodEnd); err != nil {
			return nil, err
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}

func (s *BalanceStore) Get(ctx context.Context, employeeID int64, period string) (*requests.VacationBalance, error) {
	const query = `
	SELECT id, employee_id, period, days_granted, days_used, days_available, period_start, period_end
	FROM vacation_balances
	WHERE employee_id = $1 AND period = $2;`

	var b requests.VacationBalance
	err := s.pool.QueryRow(ctx, query, employeeID, period).
		Scan(&b.ID, &b.EmployeeID, &b.Period, &b.DaysGranted, &b.DaysUsed,
			&b.DaysAvailable, &b.PeriodStart, &b.PeriodEnd)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, requests.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (s *BalanceStore) Upsert(ctx context.Context, b *requests.VacationBalance) (*requests.VacationBalance, error) {
	const query = `
	INSERT INTO vacation_balances (employee_id, period, days_granted, days_used, days_available, period_start, period_end)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (employee_id, period) DO UPDATE
	SET days_granted = EXCLUDED.days_granted,
	    days_used = EXCLUDED.days_used,
	    days_available = EXCLUDED.days_available,
	    period_start = EXCLUDED.period_start,
	    period_end = EXCLUDED.period_end
	RETURNING id;`

	created := *b
	err := s.pool.QueryRow(ctx, query, b.EmployeeID, b.Period, b.DaysGranted, b.DaysUsed,
		b.DaysAvailable, b.PeriodStart, b.PeriodEnd).Scan(&created.ID)
	if err != nil {
		return nil, errors.Wrap(err, "[Upsert] QueryRow")
	}
	return &created, nil
}

func (s *BalanceStore) AddMovement(ctx context.Context, m *requests.BalanceMovement) error {
	const query = `
	INSERT INTO balance_movements (employee_id, period, movement_type, days_before, days_moved, days_after, request_id, description)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`

	_, err := s.pool.Exec(ctx, query, m.EmployeeID, m.Period, m.Type, m.DaysBefore, m.DaysMoved,
		m.DaysAfter, m.RequestID, m.Description)
	if err != nil {
		return errors.Wrap(err, "[AddMovement] Exec")
	}
	return nil
}

func (s *BalanceStore) ListMovements(ctx context.Context, employeeID int64) ([]*requests.BalanceMovement, error) {
	const query = `
	SELECT id, employee_id, period, movement_type, days_before, days_moved, days_after, request_id, description, moved_at
	FROM balance_movements
	WHERE employee_id = $1
	ORDER BY moved_at;`

	rows, err := s.pool.Query(ctx, query, employeeID)
	if err != nil {
		return nil, errors.Wrap(err, "[ListMovements] Query")
	}
	defer rows.Close()

	var list []*requests.BalanceMovement
	for rows.Next() {
		var m requests.BalanceMovement
		if err := rows.Scan(&m.ID, &m.EmployeeID, &m.Period, &m.Type, &m.DaysBefore, &m.DaysMoved,
			&m.DaysAfter, &m.RequestID, &m.Description, &m.MovedAt); err != nil {
			return nil, err
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
