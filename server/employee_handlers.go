package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/metrohr/leavehub/employees"
	"github.com/metrohr/leavehub/requests"
)

func (s *Server) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var requested *int64
	if raw := r.URL.Query().Get("area"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondDetail(w, http.StatusBadRequest, "invalid area filter")
			return
		}
		requested = &id
	}

	filter := employees.ListFilter{
		AreaID:     scopeAreaID(user, requested),
		ActiveOnly: r.URL.Query().Get("active") == "true",
		Search:     r.URL.Query().Get("search"),
	}
	list, err := s.repos.Employees.List(r.Context(), filter)
	if err != nil {
		respondDetail(w, http.StatusInternalServerError, "could not list employees")
		return
	}
	respondJSON(w, http.StatusOK, list)
}

// loadScopedEmployee fetches an employee and enforces area scoping for
// area admins.
func (s *Server) loadScopedEmployee(w http.ResponseWriter, r *http.Request) *employees.Employee {
	id, err := pathID(r)
	if err != nil {
		respondDetail(w, http.StatusBadRequest, "invalid employee id")
		return nil
	}
	employee, err := s.repos.Employees.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, employees.ErrNotFound) {
			respondDetail(w, http.StatusNotFound, "employee not found")
			return nil
		}
		respondDetail(w, http.StatusInternalServerError, "could not fetch employee")
		return nil
	}

	user := userFromContext(r.Context())
	if !user.CanAccessArea(employee.AreaID) {
		respondDetail(w, http.StatusForbidden, "employee belongs to another area")
		return nil
	}
	return employee
}

func (s *Server) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	employee := s.loadScopedEmployee(w, r)
	if employee == nil {
		return
	}
	respondJSON(w, http.StatusOK, employee)
}

func (s *Server) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	var employee employees.Employee
	if err := decodeJSON(r, &employee); err != nil {
		respondDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user := userFromContext(r.Context())
	if !user.IsSuperAdmin() {
		if user.AreaID == nil {
			respondDetail(w, http.StatusForbidden, "no area assigned")
			return
		}
		employee.AreaID = *user.AreaID
	}

	if err := employee.Validate(); err != nil {
		respondDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	employee.Active = true

	created, err := s.repos.Employees.Create(r.Context(), &employee)
	if err != nil {
		if errors.Is(err, employees.ErrDuplicateFileNumber) {
			respondDetail(w, http.StatusConflict, "file number already registered")
			return
		}
		respondDetail(w, http.StatusInternalServerError, "could not create employee")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	existing := s.loadScopedEmployee(w, r)
	if existing == nil {
		return
	}

	var employee employees.Employee
	if err := decodeJSON(r, &employee); err != nil {
		respondDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	employee.ID = existing.ID

	user := userFromContext(r.Context())
	if !user.IsSuperAdmin() {
		employee.AreaID = existing.AreaID
	}

	if err := employee.Validate(); err != nil {
		respondDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.repos.Employees.Update(r.Context(), &employee); err != nil {
		switch {
		case errors.Is(err, employees.ErrNotFound):
			respondDetail(w, http.StatusNotFound, "employee not found")
		case errors.Is(err, employees.ErrDuplicateFileNumber):
			respondDetail(w, http.StatusConflict, "file number already registered")
		default:
			respondDetail(w, http.StatusInternalServerError, "could not update employee")
		}
		return
	}
	respondJSON(w, http.StatusOK, &employee)
}

// handleEmployeeBalances returns the employee's stored balances; periods
// without a stored balance are seeded from the seniority table.
func (s *Server) handleEmployeeBalances(w http.ResponseWriter, r *http.Request) {
	employee := s.loadScopedEmployee(w, r)
	if employee == nil {
		return
	}

	stored, err := s.repos.Balances.ListByEmployee(r.Context(), employee.ID)
	if err != nil {
		respondDetail(w, http.StatusInternalServerError, "could not fetch balances")
		return
	}

	known := make(map[string]bool, len(stored))
	for _, b := range stored {
		known[b.Period] = true
	}

	periods, err := s.calculator.PeriodsForYear(employee.HireDate, time.Now().Year())
	if err == nil {
		for _, p := range periods {
			if known[p.Name] {
				continue
			}
			stored = append(stored, &requests.VacationBalance{
				EmployeeID:    employee.ID,
				Period:        p.Name,
				DaysGranted:   p.DaysGranted,
				DaysAvailable: p.DaysGranted,
				PeriodStart:   p.Start,
				PeriodEnd:     p.End,
			})
		}
	}

	respondJSON(w, http.StatusOK, stored)
}

func (s *Server) handleEmployeePeriods(w http.ResponseWriter, r *http.Request) {
	employee := s.loadScopedEmployee(w, r)
	if employee == nil {
		return
	}

	year := time.Now().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondDetail(w, http.StatusBadRequest, "invalid year")
			return
		}
		year = parsed
	}

	periods, err := s.calculator.PeriodsForYear(employee.HireDate, year)
	if err != nil {
		respondDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, periods)
}
