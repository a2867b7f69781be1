package requests

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/pkg/errors"
)

// ErrNotFound is returned when a leave request does not exist.
var ErrNotFound = errors.New("request not found")

// ErrDuplicateFolio is returned when a generated folio collides.
var ErrDuplicateFolio = errors.New("folio already in use")

// Kind distinguishes the two request families.
type Kind string

const (
	KindVacation    Kind = "vacation"
	KindEconomicDay Kind = "economic_day"
)

// Status is the review state of a request.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// ValidStatus reports whether s is a known review state.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// LeaveRequest is a vacation or economic-day request filed for an employee.
type LeaveRequest struct {
	ID                string     `json:"id,omitempty"` // UUID
	Folio             string     `json:"folio,omitempty"`
	EmployeeID        int64      `json:"employee_id"`
	EmployeeName      string     `json:"employee_name,omitempty"`
	AreaID            int64      `json:"area_id"`
	Kind              Kind       `json:"kind"`
	VacationTypeID    *int64     `json:"vacation_type_id,omitempty"`
	EconomicDayTypeID *int64     `json:"economic_day_type_id,omitempty"`
	RequestDate       time.Time  `json:"request_date"`
	StartDate         time.Time  `json:"start_date"`
	ResumeDate        time.Time  `json:"resume_date"`
	BusinessDays      int        `json:"business_days"`
	Period            string     `json:"period,omitempty"` // Vacation period, e.g. "2024-1"
	Notes             string     `json:"notes,omitempty"`
	Status            Status     `json:"status"`
	PDFPath           string     `json:"pdf_path,omitempty"`
	PDFGeneratedAt    *time.Time `json:"pdf_generated_at,omitempty"`
	RestDayConflict   bool       `json:"rest_day_conflict"`
	Warning           string     `json:"warning,omitempty"`
	CreatedAt         time.Time  `json:"created_at,omitempty"`
	CreatedBy         *int64     `json:"created_by,omitempty"`
}

// Validate enforces the structural invariants of a request: exactly one
// catalog type matching the kind, a positive day count, and a resuming
// date strictly after the start date.
func (r *LeaveRequest) Validate() error {
	switch r.Kind {
	case KindVacation:
		if r.VacationTypeID == nil {
			return errors.New("vacation requests need a vacation type")
		}
		if r.EconomicDayTypeID != nil {
			return errors.New("vacation requests cannot carry an economic-day type")
		}
	case KindEconomicDay:
		if r.EconomicDayTypeID == nil {
			return errors.New("economic-day requests need an economic-day type")
		}
		if r.VacationTypeID != nil {
			return errors.New("economic-day requests cannot carry a vacation type")
		}
	default:
		return errors.Errorf("unknown request kind %q", r.Kind)
	}

	if r.BusinessDays < 1 {
		return errors.New("must request at least 1 business day")
	}
	if !r.ResumeDate.After(r.StartDate) {
		return errors.New("resuming date must be after the start date")
	}
	return nil
}

// NewFolio builds a human-readable request identifier:
// PREFIX-YYYYMMDD-NNNN with a random 4-digit suffix.
func NewFolio(prefix string, now time.Time) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", errors.Wrap(err, "[NewFolio] rand")
	}
	return fmt.Sprintf("%s-%s-%04d", prefix, now.Format("20060102"), n.Int64()), nil
}

// MovementType classifies balance history entries.
type MovementType string

const (
	MovementGrant  MovementType = "grant"
	MovementUse    MovementType = "use"
	MovementAdjust MovementType = "adjust"
	MovementCancel MovementType = "cancel"
)

// VacationBalance tracks an employee's granted and used days per period.
type VacationBalance struct {
	ID            int64     `json:"id,omitempty"`
	EmployeeID    int64     `json:"employee_id"`
	Period        string    `json:"period"`
	DaysGranted   int       `json:"days_granted"`
	DaysUsed      int       `json:"days_used"`
	DaysAvailable int       `json:"days_available"`
	PeriodStart   time.Time `json:"period_start"`
	PeriodEnd     time.Time `json:"period_end"`
}

// Use consumes days from the balance, keeping DaysAvailable consistent.
func (b *VacationBalance) Use(days int) {
	b.DaysUsed += days
	b.DaysAvailable = b.DaysGranted - b.DaysUsed
}

// BalanceMovement is one entry in the balance audit trail.
type BalanceMovement struct {
	ID          int64        `json:"id,omitempty"`
	EmployeeID  int64        `json:"employee_id"`
	Period      string       `json:"period"`
	Type        MovementType `json:"type"`
	DaysBefore  int          `json:"days_before"`
	DaysMoved   int          `json:"days_moved"`
	DaysAfter   int          `json:"days_after"`
	RequestID   string       `json:"request_id,omitempty"`
	Description string       `json:"description,omitempty"`
	MovedAt     time.Time    `json:"moved_at,omitempty"`
}

// ListFilter narrows request listings. Zero values mean "no filter".
type ListFilter struct {
	AreaID     *int64
	EmployeeID *int64
	Status     Status
	Kind       Kind
}

// Repo is the persistence boundary for leave requests.
type Repo interface {
	GetByID(ctx context.Context, id string) (*LeaveRequest, error)
	GetByFolio(ctx context.Context, folio string) (*LeaveRequest, error)
	List(ctx context.Context, filter ListFilter) ([]*LeaveRequest, error)
	Create(ctx context.Context, r *LeaveRequest) (*LeaveRequest, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	Delete(ctx context.Context, id string) error
}

// BalanceRepo is the persistence boundary for vacation balances and their
// audit trail.
type BalanceRepo interface {
	ListByEmployee(ctx context.Context, employeeID int64) ([]*VacationBalance, error)
	Get(ctx context.Context, employeeID int64, period string) (*VacationBalance, error)
	Upsert(ctx context.Context, b *VacationBalance) (*VacationBalance, error)
	AddMovement(ctx context.Context, m *BalanceMovement) error
	ListMovements(ctx context.Context, employeeID int64) ([]*BalanceMovement, error)
}
