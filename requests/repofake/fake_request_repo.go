package fakerequestrepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/metrohr/leavehub/requests"
)

var _ requests.Repo = (*FakeRequestRepo)(nil)

type FakeRequestRepo struct {
	requests map[string]*requests.LeaveRequest
	folios   map[string]string
	lock     sync.RWMutex
}

func NewFakeRequestRepo() *FakeRequestRepo {
	return &FakeRequestRepo{
		requests: make(map[string]*requests.LeaveRequest),
		folios:   make(map[string]string),
	}
}

func (rr *FakeRequestRepo) GetByID(_ context.Context, id string) (*requests.LeaveRequest, error) {
	rr.lock.RLock()
	defer rr.lock.RUnlock()

	r, ok := rr.requests[id]
	if !ok {
		return nil, requests.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (rr *FakeRequestRepo) GetByFolio(_ context.Context, folio string) (*requests.LeaveRequest, error) {
	rr.lock.RLock()
	defer rr.lock.RUnlock()

	id, ok := rr.folios[folio]
	if !ok {
		return nil, requests.ErrNotFound
	}
	cp := *rr.requests[id]
	return &cp, nil
}

func (rr *FakeRequestRepo) List(_ context.Context, filter requests.ListFilter) ([]*requests.LeaveRequest, error) {
	rr.lock.RLock()
	defer rr.lock.RUnlock()

	list := make([]*requests.LeaveRequest, 0, len(rr.requests))
	for _, r := range rr.requests {
		if filter.AreaID != nil && r.AreaID != *filter.AreaID {
			continue
		}
		if filter.EmployeeID != nil && r.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		if filter.Kind != "" && r.Kind != filter.Kind {
			continue
		}
		cp := *r
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (rr *FakeRequestRepo) Create(_ context.Context, r *requests.LeaveRequest) (*requests.LeaveRequest, error) {
	rr.lock.Lock()
	defer rr.lock.Unlock()

	if _, exists := rr.folios[r.Folio]; exists {
		return nil, requests.ErrDuplicateFolio
	}

	cp := *r
	if cp.ID == "" {
		cp.ID = uuid.NewString()
	}
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	rr.requests[cp.ID] = &cp
	rr.folios[cp.Folio] = cp.ID

	out := cp
	return &out, nil
}

func (rr *FakeRequestRepo) UpdateStatus(_ context.Context, id string, status requests.Status) error {
	rr.lock.Lock()
	defer rr.lock.Unlock()

	r, ok := rr.requests[id]
	if !ok {
		return requests.ErrNotFound
	}
	r.Status = status
	return nil
}

func (rr *FakeRequestRepo) Delete(_ context.Context, id string) error {
	rr.lock.Lock()
	defer rr.lock.Unlock()

	r, ok := rr.requests[id]
	if !ok {
		return requests.ErrNotFound
	}
	delete(rr.folios, r.Folio)
	delete(rr.requests, id)
	return nil
}
