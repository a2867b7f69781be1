package fakearearepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/metrohr/leavehub/areas"
)

var _ areas.Repo = (*FakeAreaRepo)(nil)

type FakeAreaRepo struct {
	areas  map[int64]*areas.Area
	codes  map[string]int64
	nextID int64
	lock   sync.RWMutex
}

func NewFakeAreaRepo() *FakeAreaRepo {
	return &FakeAreaRepo{
		areas: make(map[int64]*areas.Area),
		codes: make(map[string]int64),
	}
}

func (ar *FakeAreaRepo) GetByID(_ context.Context, id int64) (*areas.Area, error) {
	ar.lock.RLock()
	defer ar.lock.RUnlock()

	a, ok := ar.areas[id]
	if !ok {
		return nil, areas.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (ar *FakeAreaRepo) GetByCode(_ context.Context, code string) (*areas.Area, error) {
	ar.lock.RLock()
	defer ar.lock.RUnlock()

	id, ok := ar.codes[code]
	if !ok {
		return nil, areas.ErrNotFound
	}
	cp := *ar.areas[id]
	return &cp, nil
}

func (ar *FakeAreaRepo) List(_ context.Context, activeOnly bool) ([]*areas.Area, error) {
	ar.lock.RLock()
	defer ar.lock.RUnlock()

	list := make([]*areas.Area, 0, len(ar.areas))
	for _, a := range ar.areas {
		if activeOnly && !a.Active {
			continue
		}
		cp := *a
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (ar *FakeAreaRepo) Create(_ context.Context, area *areas.Area) (*areas.Area, error) {
	ar.lock.Lock()
	defer ar.lock.Unlock()

	if _, exists := ar.codes[area.Code]; exists {
		return nil, areas.ErrDuplicateCode
	}

	ar.nextID++
	cp := *area
	cp.ID = ar.nextID
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	ar.areas[cp.ID] = &cp
	ar.codes[cp.Code] = cp.ID

	out := cp
	return &out, nil
}

func (ar *FakeAreaRepo) Update(_ context.Context, area *areas.Area) error {
	ar.lock.Lock()
	defer ar.lock.Unlock()

	existing, ok := ar.areas[area.ID]
	if !ok {
		return areas.ErrNotFound
	}
	delete(ar.codes, existing.Code)
	cp := *area
	ar.areas[cp.ID] = &cp
	ar.codes[cp.Code] = cp.ID
	return nil
}

func (ar *FakeAreaRepo) SetActive(_ context.Context, id int64, active bool) error {
	ar.lock.Lock()
	defer ar.lock.Unlock()

	a, ok := ar.areas[id]
	if !ok {
		return areas.ErrNotFound
	}
	a.Active = active
	return nil
}
