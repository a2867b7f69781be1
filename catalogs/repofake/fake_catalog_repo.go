package fakecatalogrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/metrohr/leavehub/catalogs"
)

var _ catalogs.Repo = (*FakeCatalogRepo)(nil)

// FakeCatalogRepo keeps all four catalog entities in memory.
type FakeCatalogRepo struct {
	vacationTypes    map[int64]*catalogs.VacationType
	economicDayTypes map[int64]*catalogs.EconomicDayType
	requirements     map[int64]*catalogs.Requirement
	signers          map[int64]*catalogs.Signer
	nextID           int64
	lock             sync.RWMutex
}

func NewFakeCatalogRepo() *FakeCatalogRepo {
	return &FakeCatalogRepo{
		vacationTypes:    make(map[int64]*catalogs.VacationType),
		economicDayTypes: make(map[int64]*catalogs.EconomicDayType),
		requirements:     make(map[int64]*catalogs.Requirement),
		signers:          make(map[int64]*catalogs.Signer),
	}
}

func matchesFilter(areaID *int64, active bool, filter catalogs.ListFilter) bool {
	if filter.ActiveOnly && !active {
		return false
	}
	// Area filter keeps global entries plus the requested area's entries.
	if filter.AreaID != nil && areaID != nil && *areaID != *filter.AreaID {
		return false
	}
	return true
}

func (cr *FakeCatalogRepo) ListVacationTypes(_ context.Context, filter catalogs.ListFilter) ([]*catalogs.VacationType, error) {
	cr.lock.RLock()
	defer cr.lock.RUnlock()

	list := make([]*catalogs.VacationType, 0, len(cr.vacationTypes))
	for _, t := range cr.vacationTypes {
		if !matchesFilter(t.AreaID, t.Active, filter) {
			continue
		}
		cp := *t
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (cr *FakeCatalogRepo) GetVacationType(_ context.Context, id int64) (*catalogs.VacationType, error) {
	cr.lock.RLock()
	defer cr.lock.RUnlock()

	t, ok := cr.vacationTypes[id]
	if !ok {
		return nil, catalogs.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (cr *FakeCatalogRepo) CreateVacationType(_ context.Context, t *catalogs.VacationType) (*catalogs.VacationType, error) {
	cr.lock.Lock()
	defer cr.lock.Unlock()

	cr.nextID++
	cp := *t
	cp.ID = cr.nextID
	cr.vacationTypes[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (cr *FakeCatalogRepo) UpdateVacationType(_ context.Context, t *catalogs.VacationType) error {
	cr.lock.Lock()
	defer cr.lock.Unlock()

	if _, ok := cr.vacationTypes[t.ID]; !ok {
		return catalogs.ErrNotFound
	}
	cp := *t
	cr.vacationTypes[cp.ID] = &cp
	return nil
}

func (cr *FakeCatalogRepo) ListEconomicDayTypes(_ context.Context, filter catalogs.ListFilter) ([]*catalogs.EconomicDayType, error) {
	cr.lock.RLock()
	defer cr.lock.RUnlock()

	list := make([]*catalogs.EconomicDayType, 0, len(cr.economicDayTypes))
	for _, t := range cr.economicDayTypes {
		if !matchesFilter(t.AreaID, t.Active, filter) {
			continue
		}
		cp := *t
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (cr *FakeCatalogRepo) GetEconomicDayType(_ context.Context, id int64) (*catalogs.EconomicDayType, error) {
	cr.lock.RLock()
	defer cr.lock.RUnlock()

	t, ok := cr.economicDayTypes[id]
	if !ok {
		return nil, catalogs.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (cr *FakeCatalogRepo) CreateEconomicDayType(_ context.Context, t *catalogs.EconomicDayType) (*catalogs.EconomicDayType, error) {
	cr.lock.Lock()
	defer cr.lock.Unlock()

	cr.nextID++
	cp := *t
	cp.ID = cr.nextID
	cr.economicDayTypes[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (cr *FakeCatalogRepo) UpdateEconomicDayType(_ context.Context, t *catalogs.EconomicDayType) error {
	cr.lock.Lock()
	defer cr.lock.Unlock()

	if _, ok := cr.economicDayTypes[t.ID]; !ok {
		return catalogs.ErrNotFound
	}
	cp := *t
	cr.economicDayTypes[cp.ID] = &cp
	return nil
}

func (cr *FakeCatalogRepo) ListRequirements(_ context.Context, filter catalogs.ListFilter) ([]*catalogs.Requirement, error) {
	cr.lock.RLock()
	defer cr.lock.RUnlock()

	list := make([]*catalogs.Requirement, 0, len(cr.requirements))
	for _, r := range cr.requirements {
		if !matchesFilter(r.AreaID, r.Active, filter) {
			continue
		}
		cp := *r
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (cr *FakeCatalogRepo) CreateRequirement(_ context.Context, r *catalogs.Requirement) (*catalogs.Requirement, error) {
	cr.lock.Lock()
	defer cr.lock.Unlock()

	cr.nextID++
	cp := *r
	cp.ID = cr.nextID
	cr.requirements[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (cr *FakeCatalogRepo) UpdateRequirement(_ context.Context, r *catalogs.Requirement) error {
	cr.lock.Lock()
	defer cr.lock.Unlock()

	if _, ok := cr.requirements[r.ID]; !ok {
		return catalogs.ErrNotFound
	}
	cp := *r
	cr.requirements[cp.ID] = &cp
	return nil
}

func (cr *FakeCatalogRepo) ListSigners(_ context.Context, areaID int64) ([]*catalogs.Signer, error) {
	cr.lock.RLock()
	defer cr.lock.RUnlock()

	list := make([]*catalogs.Signer, 0, len(cr.signers))
	for _, s := range cr.signers {
		if s.AreaID != areaID {
			continue
		}
		cp := *s
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Order < list[j].Order })
	return list, nil
}

func (cr *FakeCatalogRepo) CreateSigner(_ context.Context, s *catalogs.Signer) (*catalogs.Signer, error) {
	cr.lock.Lock()
	defer cr.lock.Unlock()

	cr.nextID++
	cp := *s
	cp.ID = cr.nextID
	cr.signers[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (cr *FakeCatalogRepo) UpdateSigner(_ context.Context, s *catalogs.Signer) error {
	cr.lock.Lock()
	defer cr.lock.Unlock()

	if _, ok := cr.signers[s.ID]; !ok {
		return catalogs.ErrNotFound
	}
	cp := *s
	cr.signers[cp.ID] = &cp
	return nil
}
