package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/metrohr/leavehub/employees"
	"github.com/metrohr/leavehub/requests"
	"github.com/metrohr/leavehub/schedule"
)

const dateLayout = "2006-01-02"

func (s *Server) handleListRequests(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	q := r.URL.Query()

	var requestedArea *int64
	if raw := q.Get("area"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondDetail(w, http.StatusBadRequest, "invalid area filter")
			return
		}
		requestedArea = &id
	}

	filter := requests.ListFilter{
		AreaID: scopeAreaID(user, requestedArea),
		Status: requests.Status(q.Get("status")),
		Kind:   requests.Kind(q.Get("kind")),
	}
	if raw := q.Get("employee"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondDetail(w, http.StatusBadRequest, "invalid employee filter")
			return
		}
		filter.EmployeeID = &id
	}

	list, err := s.repos.Requests.List(r.Context(), filter)
	if err != nil {
		respondDetail(w, http.StatusInternalServerError, "could not list requests")
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	req, err := s.repos.Requests.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, requests.ErrNotFound) {
			respondDetail(w, http.StatusNotFound, "request not found")
			return
		}
		respondDetail(w, http.StatusInternalServerError, "could not fetch request")
		return
	}

	user := userFromContext(r.Context())
	if !user.CanAccessArea(req.AreaID) {
		respondDetail(w, http.StatusForbidden, "request belongs to another area")
		return
	}
	respondJSON(w, http.StatusOK, req)
}

func (s *Server) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	var req requests.LeaveRequest
	if err := decodeJSON(r, &req); err != nil {
		respondDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user := userFromContext(r.Context())
	employee, err := s.repos.Employees.GetByID(r.Context(), req.EmployeeID)
	if err != nil {
		if errors.Is(err, employees.ErrNotFound) {
			respondDetail(w, http.StatusBadRequest, "employee not found")
			return
		}
		respondDetail(w, http.StatusInternalServerError, "could not fetch employee")
		return
	}
	if !user.CanAccessArea(employee.AreaID) {
		respondDetail(w, http.StatusForbidden, "employee belongs to another area")
		return
	}
	req.AreaID = employee.AreaID
	req.CreatedBy = &user.ID

	now := time.Now()
	if req.RequestDate.IsZero() {
		req.RequestDate = now
	}
	if req.ResumeDate.IsZero() && req.BusinessDays > 0 {
		resume, err := schedule.ResumeDate(req.StartDate, req.BusinessDays, nil)
		if err != nil {
			respondDetail(w, http.StatusBadRequest, err.Error())
			return
		}
		req.ResumeDate = resume
	}

	if err := req.Validate(); err != nil {
		respondDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	// Flag rather than reject when the start date lands on one of the
	// employee's rotated rest days.
	if employee.RestCalendar.RestsOn(req.StartDate.Weekday()) {
		req.RestDayConflict = true
		req.Warning = "start date falls on the employee's rest day"
	}

	// Validate against balances and limits first, but only debit once the
	// request exists, so a failed create never consumes days.
	var balance *requests.VacationBalance
	switch req.Kind {
	case requests.KindVacation:
		if balance = s.resolveVacationBalance(w, r, employee, &req); balance == nil {
			return
		}
	case requests.KindEconomicDay:
		if err := s.checkEconomicDayLimit(w, r, &req); err != nil {
			return
		}
	}

	req.Status = requests.StatusPending
	created, err := s.createWithFolio(r, &req, now)
	if err != nil {
		respondDetail(w, http.StatusInternalServerError, "could not create request")
		return
	}

	if balance != nil {
		if err := s.debitVacationBalance(r, created, balance); err != nil {
			// Roll the request back rather than leave days consumed
			// without one, or a request without its debit.
			_ = s.repos.Requests.Delete(r.Context(), created.ID)
			respondDetail(w, http.StatusInternalServerError, "could not update balance")
			return
		}
	}
	respondJSON(w, http.StatusCreated, created)
}

// createWithFolio assigns a folio and retries on the unlikely collision.
func (s *Server) createWithFolio(r *http.Request, req *requests.LeaveRequest, now time.Time) (*requests.LeaveRequest, error) {
	for attempt := 0; attempt < 3; attempt++ {
		folio, err := requests.NewFolio(s.folioPrefix, now)
		if err != nil {
			return nil, err
		}
		req.Folio = folio
		created, err := s.repos.Requests.Create(r.Context(), req)
		if errors.Is(err, requests.ErrDuplicateFolio) {
			continue
		}
		return created, err
	}
	return nil, requests.ErrDuplicateFolio
}

// resolveVacationBalance resolves the employee's period and checks the
// requested days fit the available balance, without mutating it. A nil
// return means a response was already written.
func (s *Server) resolveVacationBalance(w http.ResponseWriter, r *http.Request, employee *employees.Employee, req *requests.LeaveRequest) *requests.VacationBalance {
	if req.Period == "" {
		periods, err := s.calculator.PeriodsForYear(employee.HireDate, req.StartDate.Year())
		if err != nil {
			respondDetail(w, http.StatusBadRequest, err.Error())
			return nil
		}
		for _, p := range periods {
			if !req.StartDate.Before(p.Start) && !req.StartDate.After(p.End) {
				req.Period = p.Name
				break
			}
		}
		if req.Period == "" {
			req.Period = fmt.Sprintf("%d-1", req.StartDate.Year())
		}
	}

	balance, err := s.repos.Balances.Get(r.Context(), employee.ID, req.Period)
	if errors.Is(err, requests.ErrNotFound) {
		balance = s.seedBalance(employee, req.Period, req.StartDate.Year())
	} else if err != nil {
		respondDetail(w, http.StatusInternalServerError, "could not fetch balance")
		return nil
	}

	if err := schedule.ValidateBalance(req.BusinessDays, balance.DaysAvailable); err != nil {
		respondDetail(w, http.StatusBadRequest, err.Error())
		return nil
	}
	return balance
}

// debitVacationBalance records the created request's use of days.
func (s *Server) debitVacationBalance(r *http.Request, req *requests.LeaveRequest, balance *requests.VacationBalance) error {
	before := balance.DaysAvailable
	balance.Use(req.BusinessDays)
	if _, err := s.repos.Balances.Upsert(r.Context(), balance); err != nil {
		return errors.Wrap(err, "[debitVacationBalance] Upsert")
	}
	movement := &requests.BalanceMovement{
		EmployeeID:  req.EmployeeID,
		Period:      req.Period,
		Type:        requests.MovementUse,
		DaysBefore:  before,
		DaysMoved:   req.BusinessDays,
		DaysAfter:   balance.DaysAvailable,
		RequestID:   req.ID,
		Description: "vacation request",
	}
	if err := s.repos.Balances.AddMovement(r.Context(), movement); err != nil {
		return errors.Wrap(err, "[debitVacationBalance] AddMovement")
	}
	return nil
}

// seedBalance builds a fresh balance for a period that has no stored row,
// granting days from the seniority table.
func (s *Server) seedBalance(employee *employees.Employee, period string, year int) *requests.VacationBalance {
	granted := 0
	var start, end time.Time
	if periods, err := s.calculator.PeriodsForYear(employee.HireDate, year); err == nil {
		for _, p := range periods {
			if p.Name == period {
				granted = p.DaysGranted
				start, end = p.Start, p.End
				break
			}
		}
	}
	return &requests.VacationBalance{
		EmployeeID:    employee.ID,
		Period:        period,
		DaysGranted:   granted,
		DaysAvailable: granted,
		PeriodStart:   start,
		PeriodEnd:     end,
	}
}

// checkEconomicDayLimit enforces the per-type day limit against what the
// employee already consumed this year. A non-nil return means a response
// was already written.
func (s *Server) checkEconomicDayLimit(w http.ResponseWriter, r *http.Request, req *requests.LeaveRequest) error {
	dayType, err := s.repos.Catalogs.GetEconomicDayType(r.Context(), *req.EconomicDayTypeID)
	if err != nil {
		respondDetail(w, http.StatusBadRequest, "economic day type not found")
		return err
	}
	if dayType.DayLimit == nil {
		return nil
	}

	existing, err := s.repos.Requests.List(r.Context(), requests.ListFilter{
		EmployeeID: &req.EmployeeID,
		Kind:       requests.KindEconomicDay,
	})
	if err != nil {
		respondDetail(w, http.StatusInternalServerError, "could not check day limit")
		return err
	}

	used := 0
	for _, e := range existing {
		if e.Status == requests.StatusRejected || e.Status == requests.StatusCancelled {
			continue
		}
		if e.EconomicDayTypeID == nil || *e.EconomicDayTypeID != dayType.ID {
			continue
		}
		if e.StartDate.Year() != req.StartDate.Year() {
			continue
		}
		used += e.BusinessDays
	}

	if err := dayType.ValidateDayLimit(used, req.BusinessDays); err != nil {
		respondDetail(w, http.StatusBadRequest, err.Error())
		return err
	}
	return nil
}

type statusUpdateRequest struct {
	Status requests.Status `json:"status"`
}

func (s *Server) handleUpdateRequestStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var body statusUpdateRequest
	if err := decodeJSON(r, &body); err != nil || !requests.ValidStatus(body.Status) {
		respondDetail(w, http.StatusBadRequest, "invalid status")
		return
	}

	req, err := s.repos.Requests.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, requests.ErrNotFound) {
			respondDetail(w, http.StatusNotFound, "request not found")
			return
		}
		respondDetail(w, http.StatusInternalServerError, "could not fetch request")
		return
	}

	user := userFromContext(r.Context())
	if !user.CanAccessArea(req.AreaID) {
		respondDetail(w, http.StatusForbidden, "request belongs to another area")
		return
	}

	if err := s.repos.Requests.UpdateStatus(r.Context(), id, body.Status); err != nil {
		respondDetail(w, http.StatusInternalServerError, "could not update status")
		return
	}

	// Cancelling or rejecting a vacation request returns its days.
	if req.Kind == requests.KindVacation && req.Status == requests.StatusPending &&
		(body.Status == requests.StatusCancelled || body.Status == requests.StatusRejected) {
		s.returnVacationDays(r, req, body.Status)
	}

	req.Status = body.Status
	respondJSON(w, http.StatusOK, req)
}

func (s *Server) returnVacationDays(r *http.Request, req *requests.LeaveRequest, newStatus requests.Status) {
	balance, err := s.repos.Balances.Get(r.Context(), req.EmployeeID, req.Period)
	if err != nil {
		return
	}
	before := balance.DaysAvailable
	balance.Use(-req.BusinessDays)
	if _, err := s.repos.Balances.Upsert(r.Context(), balance); err != nil {
		return
	}
	_ = s.repos.Balances.AddMovement(r.Context(), &requests.BalanceMovement{
		EmployeeID:  req.EmployeeID,
		Period:      req.Period,
		Type:        requests.MovementCancel,
		DaysBefore:  before,
		DaysMoved:   req.BusinessDays,
		DaysAfter:   balance.DaysAvailable,
		RequestID:   req.ID,
		Description: "request " + string(newStatus),
	})
}

type resumeDateRequest struct {
	StartDate    string `json:"start_date"`
	BusinessDays int    `json:"business_days"`
}

func (s *Server) handleResumeDate(w http.ResponseWriter, r *http.Request) {
	var body resumeDateRequest
	if err := decodeJSON(r, &body); err != nil {
		respondDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	start, err := time.Parse(dateLayout, body.StartDate)
	if err != nil {
		respondDetail(w, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
		return
	}

	resume, err := schedule.ResumeDate(start, body.BusinessDays, nil)
	if err != nil {
		respondDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"resume_date": resume.Format(dateLayout)})
}
