package employees

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ErrNotFound is returned when an employee does not exist.
var ErrNotFound = errors.New("employee not found")

// ErrDuplicateFileNumber is returned when the personnel file number is taken.
var ErrDuplicateFileNumber = errors.New("file number already registered")

// RestCalendar describes an employee's rotated rest days. Days are lowercase
// English weekday names ("monday" ... "sunday").
type RestCalendar struct {
	RotatedDays []string `json:"rotated_days"`
	Shift       string   `json:"shift,omitempty"`
	Line        string   `json:"line,omitempty"`
}

// RestsOn reports whether the calendar marks the given weekday as a rest day.
func (c *RestCalendar) RestsOn(day time.Weekday) bool {
	if c == nil {
		return false
	}
	name := strings.ToLower(day.String())
	for _, d := range c.RotatedDays {
		if strings.ToLower(strings.TrimSpace(d)) == name {
			return true
		}
	}
	return false
}

// Employee is a worker on whose behalf leave requests are filed.
type Employee struct {
	ID            int64         `json:"id,omitempty"`
	AreaID        int64         `json:"area_id"`
	AreaName      string        `json:"area_name,omitempty"`
	FileNumber    string        `json:"file_number"` // Personnel file number, unique
	FirstName     string        `json:"first_name"`
	LastName      string        `json:"last_name"`
	HireDate      time.Time     `json:"hire_date"`
	LaborCategory string        `json:"labor_category,omitempty"`
	MetroLine     string        `json:"metro_line,omitempty"`
	Shift         string        `json:"shift,omitempty"`
	TicketBooth   bool          `json:"ticket_booth"` // Ticket-booth staff follow a distinct rest rotation
	Active        bool          `json:"active"`
	RestCalendar  *RestCalendar `json:"rest_calendar,omitempty"`
	CreatedAt     time.Time     `json:"created_at,omitempty"`
}

// FullName returns the employee's display name.
func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// Validate checks required fields before persisting.
func (e *Employee) Validate() error {
	if e.AreaID == 0 {
		return errors.New("area is required")
	}
	if strings.TrimSpace(e.FileNumber) == "" {
		return errors.New("file number is required")
	}
	if strings.TrimSpace(e.FirstName) == "" || strings.TrimSpace(e.LastName) == "" {
		return errors.New("employee name is required")
	}
	if e.HireDate.IsZero() {
		return errors.New("hire date is required")
	}
	return nil
}

// ListFilter narrows the result of a List call. Zero values mean "no filter".
type ListFilter struct {
	AreaID     *int64
	ActiveOnly bool
	Search     string // Matches name or file number, case-insensitive
}

// Repo is the persistence boundary for employees.
type Repo interface {
	GetByID(ctx context.Context, id int64) (*Employee, error)
	GetByFileNumber(ctx context.Context, fileNumber string) (*Employee, error)
	List(ctx context.Context, filter ListFilter) ([]*Employee, error)
	Create(ctx context.Context, employee *Employee) (*Employee, error)
	Update(ctx context.Context, employee *Employee) error
	SetActive(ctx context.Context, id int64, active bool) error
}
