package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/metrohr/leavehub/employees"
)

var _ employees.Repo = (*EmployeeStore)(nil)

// EmployeeStore implements employees.Repo on the shared pool.
type EmployeeStore struct {
	pool *pgxpool.Pool
}

// Employees returns the employee repository view of the store.
func (s *Store) Employees() *EmployeeStore {
	return &EmployeeStore{pool: s.pool}
}

const employeeColumns = `
	e.id, e.area_id, COALESCE(a.name, ''), e.file_number, e.first_name, e.last_name,
	e.hire_date, e.labor_category, e.metro_line, e.shift, e.ticket_booth, e.active,
	e.rest_days, e.rest_shift, e.rest_line, e.created_at`

func scanEmployee(row pgx.Row) (*employees.Employee, error) {
	var e employees.Employee
	var restDays []string
	var restShift, restLine string
	err := row.Scan(&e.ID, &e.AreaID, &e.AreaName, &e.FileNumber, &e.FirstName, &e.LastName,
		&e.HireDate, &e.LaborCategory, &e.MetroLine, &e.Shift, &e.TicketBooth, &e.Active,
		&restDays, &restShift, &restLine, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, employees.ErrNotFound
		}
		return nil, err
	}
	if len(restDays) > 0 || restShift != "" || restLine != "" {
		e.RestCalendar = &employees.RestCalendar{
			RotatedDays: restDays,
			Shift:       restShift,
			Line:        restLine,
		}
	}
	return &e, nil
}

func restColumns(e *employees.Employee) ([]string, string, string) {
	if e.RestCalendar == nil {
		return []string{}, "", ""
	}
	days := e.RestCalendar.RotatedDays
	if days == nil {
		days = []string{}
	}
	return days, e.RestCalendar.Shift, e.RestCalendar.Line
}

func (s *EmployeeStore) GetByID(ctx context.Context, id int64) (*employees.Employee, error) {
	const query = `
	SELECT` + employeeColumns + `
	FROM employees e
	LEFT JOIN areas a ON e.area_id = a.id
	WHERE e.id = $1;`
	return scanEmployee(s.pool.QueryRow(ctx, query, id))
}

func (s *EmployeeStore) GetByFileNumber(ctx context.Context, fileNumber string) (*employees.Employee, error) {
	const query = `
	SELECT` + employeeColumns + `
	FROM employees e
	LEFT JOIN areas a ON e.area_id = a.id
	WHERE e.file_number = $1;`
	return scanEmployee(s.pool.QueryRow(ctx, query, fileNumber))
}

func (s *EmployeeStore) List(ctx context.Context, filter employees.ListFilter) ([]*employees.Employee, error) {
	const query = `
	SELECT` + employeeColumns + `
	FROM employees e
	LEFT JOIN areas a ON e.area_id = a.id
	WHERE ($1::bigint IS NULL OR e.area_id = $1)
	  AND (NOT $2::boolean OR e.active)
	  AND ($3::text = '' OR
	       e.first_name || ' ' || e.last_name || ' ' || e.file_number ILIKE '%' || $3 || '%')
	ORDER BY e.id;`

	rows, err := s.pool.Query(ctx, query, filter.AreaID, filter.ActiveOnly, filter.Search)
	if err != nil {
		return nil, errors.Wrap(err, "[List] Query")
	}
	defer rows.Close()

	var list []*employees.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func (s *EmployeeStore) Create(ctx context.Context, employee *employees.Employee) (*employees.Employee, error) {
	const query = `
	INSERT INTO employees (area_id, file_number, first_name, last_name, hire_date,
		labor_category, metro_line, shift, ticket_booth, active, rest_days, rest_shift, rest_line)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	RETURNING id, created_at;`

	days, restShift, restLine := restColumns(employee)
	created := *employee
	err := s.pool.QueryRow(ctx, query, employee.AreaID, employee.FileNumber, employee.FirstName,
		employee.LastName, employee.HireDate, employee.LaborCategory, employee.MetroLine,
		employee.Shift, employee.TicketBooth, employee.Active, days, restShift, restLine).
		Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, employees.ErrDuplicateFileNumber
		}
		return nil, errors.Wrap(err, "[Create] QueryRow")
	}
	return &created, nil
}

func (s *EmployeeStore) Update(ctx context.Context, employee *employees.Employee) error {
	const query = `
	UPDATE employees
	SET area_id = $2, file_number = $3, first_name = $4, last_name = $5, hire_date = $6,
	    labor_category = $7, metro_line = $8, shift = $9, ticket_booth = $10,
	    rest_days = $11, rest_shift = $12, rest_line = $13
	WHERE id = $1;`

	days, restShift, restLine := restColumns(employee)
	tag, err := s.pool.Exec(ctx, query, employee.ID, employee.AreaID, employee.FileNumber,
		employee.FirstName, employee.LastName, employee.HireDate, employee.LaborCategory,
		employee.MetroLine, employee.Shift, employee.TicketBooth, days, restShift, restLine)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return employees.ErrDuplicateFileNumber
		}
		return errors.Wrap(err, "[Update] Exec")
	}
	if tag.RowsAffected() == 0 {
		return employees.ErrNotFound
	}
	return nil
}

func (s *EmployeeStore) SetActive(ctx context.Context, id int64, active bool) error {
	tag, err := s.pool.Exec(ctx, `UPDATE employees SET active = $2 WHERE id = $1;`, id, active)
	if err != nil {
		return errors.Wrap(err, "[SetActive] Exec")
	}
	if tag.RowsAffected() == 0 {
		return employees.ErrNotFound
	}
	return nil
}
