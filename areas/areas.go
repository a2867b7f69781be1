package areas

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ErrNotFound is returned when an area does not exist.
var ErrNotFound = errors.New("area not found")

// ErrDuplicateCode is returned when creating an area with a code that is taken.
var ErrDuplicateCode = errors.New("area code already in use")

// Settings holds per-area request policy knobs. All fields are optional;
// zero values fall back to system defaults.
type Settings struct {
	ExtensionActive  bool `json:"extension_active,omitempty"`  // Allow requests past the period end
	ExtensionDays    int  `json:"extension_days,omitempty"`    // Grace days granted by the extension
	AnticipationDays int  `json:"anticipation_days,omitempty"` // Minimum days before a request's start date
}

// Area is an organisational subdivision. It scopes employees, catalogs
// and the admin_area role.
type Area struct {
	ID          int64     `json:"id,omitempty"`
	Name        string    `json:"name"`
	Code        string    `json:"code"` // Unique short code, e.g. "TAQ"
	Description string    `json:"description,omitempty"`
	Active      bool      `json:"active"`
	Settings    Settings  `json:"settings"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

// Validate checks required fields before persisting.
func (a *Area) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return errors.New("area name is required")
	}
	if strings.TrimSpace(a.Code) == "" {
		return errors.New("area code is required")
	}
	return nil
}

// Repo is the persistence boundary for areas.
type Repo interface {
	GetByID(ctx context.Context, id int64) (*Area, error)
	GetByCode(ctx context.Context, code string) (*Area, error)
	List(ctx context.Context, activeOnly bool) ([]*Area, error)
	Create(ctx context.Context, area *Area) (*Area, error)
	Update(ctx context.Context, area *Area) error
	SetActive(ctx context.Context, id int64, active bool) error
}
