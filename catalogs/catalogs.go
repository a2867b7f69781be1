package catalogs

import (
	"context"

	"github.com/pkg/errors"
)

// ErrNotFound is returned when a catalog entry does not exist.
var ErrNotFound = errors.New("catalog entry not found")

// EconomicDayCategory says whether an economic day is paid.
type EconomicDayCategory string

const (
	CategoryPaid   EconomicDayCategory = "paid"
	CategoryUnpaid EconomicDayCategory = "unpaid"
)

// SignerRole identifies the position of a signature on a printed request.
type SignerRole string

const (
	SignerRequester    SignerRole = "requester"
	SignerAreaManager  SignerRole = "area_manager"
	SignerManagerChief SignerRole = "manager_chief"
)

// VacationType is a catalog entry for standard vacation requests.
// AreaID nil means the entry is global.
type VacationType struct {
	ID                int64  `json:"id,omitempty"`
	Name              string `json:"name"`
	Code              string `json:"code"`
	Description       string `json:"description,omitempty"`
	RequiresDocuments bool   `json:"requires_documents"`
	AreaID            *int64 `json:"area_id,omitempty"`
	Active            bool   `json:"active"`
}

// EconomicDayType is a catalog entry for special "economic day" leave.
type EconomicDayType struct {
	ID          int64               `json:"id,omitempty"`
	Name        string              `json:"name"`
	Code        string              `json:"code"`
	Category    EconomicDayCategory `json:"category"`
	Description string              `json:"description,omitempty"`
	HelpText    string              `json:"help_text,omitempty"`
	DayLimit    *int                `json:"day_limit,omitempty"` // nil means unlimited
	AreaID      *int64              `json:"area_id,omitempty"`
	Active      bool                `json:"active"`
}

// ValidateDayLimit checks whether requesting more days stays within the
// type's limit given the days already used this period.
func (t *EconomicDayType) ValidateDayLimit(used, requested int) error {
	if t.DayLimit == nil {
		return nil
	}
	if used+requested > *t.DayLimit {
		remaining := *t.DayLimit - used
		if remaining < 0 {
			remaining = 0
		}
		return errors.Errorf("exceeds the allowed limit, %d day(s) remaining", remaining)
	}
	return nil
}

// Requirement is a supporting document or condition a request may need.
type Requirement struct {
	ID          int64  `json:"id,omitempty"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`
	Mandatory   bool   `json:"mandatory"`
	AreaID      *int64 `json:"area_id,omitempty"`
	Active      bool   `json:"active"`
}

// Signer is a person whose signature appears on printed request forms,
// ordered by Order within an area.
type Signer struct {
	ID       int64      `json:"id,omitempty"`
	AreaID   int64      `json:"area_id"`
	Role     SignerRole `json:"role"`
	FullName string     `json:"full_name"`
	Position string     `json:"position"`
	Order    int        `json:"order"`
	Active   bool       `json:"active"`
}

// ListFilter narrows catalog listings. AreaID nil lists global and
// area-scoped entries alike.
type ListFilter struct {
	AreaID     *int64
	ActiveOnly bool
}

// Repo is the persistence boundary for all four catalog entities.
type Repo interface {
	ListVacationTypes(ctx context.Context, filter ListFilter) ([]*VacationType, error)
	GetVacationType(ctx context.Context, id int64) (*VacationType, error)
	CreateVacationType(ctx context.Context, t *VacationType) (*VacationType, error)
	UpdateVacationType(ctx context.Context, t *VacationType) error

	ListEconomicDayTypes(ctx context.Context, filter ListFilter) ([]*EconomicDayType, error)
	GetEconomicDayType(ctx context.Context, id int64) (*EconomicDayType, error)
	CreateEconomicDayType(ctx context.Context, t *EconomicDayType) (*EconomicDayType, error)
	UpdateEconomicDayType(ctx context.Context, t *EconomicDayType) error

	ListRequirements(ctx context.Context, filter ListFilter) ([]*Requirement, error)
	CreateRequirement(ctx context.Context, r *Requirement) (*Requirement, error)
	UpdateRequirement(ctx context.Context, r *Requirement) error

	ListSigners(ctx context.Context, areaID int64) ([]*Signer, error)
	CreateSigner(ctx context.Context, s *Signer) (*Signer, error)
	UpdateSigner(ctx context.Context, s *Signer) error
}
