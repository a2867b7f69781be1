package fakeemployeerepo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/metrohr/leavehub/employees"
)

var _ employees.Repo = (*FakeEmployeeRepo)(nil)

type FakeEmployeeRepo struct {
	employees   map[int64]*employees.Employee
	fileNumbers map[string]int64
	nextID      int64
	lock        sync.RWMutex
}

func NewFakeEmployeeRepo() *FakeEmployeeRepo {
	return &FakeEmployeeRepo{
		employees:   make(map[int64]*employees.Employee),
		fileNumbers: make(map[string]int64),
	}
}

func (er *FakeEmployeeRepo) GetByID(_ context.Context, id int64) (*employees.Employee, error) {
	er.lock.RLock()
	defer er.lock.RUnlock()

	e, ok := er.employees[id]
	if !ok {
		return nil, employees.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (er *FakeEmployeeRepo) GetByFileNumber(_ context.Context, fileNumber string) (*employees.Employee, error) {
	er.lock.RLock()
	defer er.lock.RUnlock()

	id, ok := er.fileNumbers[fileNumber]
	if !ok {
		return nil, employees.ErrNotFound
	}
	cp := *er.employees[id]
	return &cp, nil
}

func (er *FakeEmployeeRepo) List(_ context.Context, filter employees.ListFilter) ([]*employees.Employee, error) {
	er.lock.RLock()
	defer er.lock.RUnlock()

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	list := make([]*employees.Employee, 0, len(er.employees))
	for _, e := range er.employees {
		if filter.AreaID != nil && e.AreaID != *filter.AreaID {
			continue
		}
		if filter.ActiveOnly && !e.Active {
			continue
		}
		if search != "" {
			haystack := strings.ToLower(e.FullName() + " " + e.FileNumber)
			if !strings.Contains(haystack, search) {
				continue
			}
		}
		cp := *e
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (er *FakeEmployeeRepo) Create(_ context.Context, employee *employees.Employee) (*employees.Employee, error) {
	er.lock.Lock()
	defer er.lock.Unlock()

	if _, exists := er.fileNumbers[employee.FileNumber]; exists {
		return nil, employees.ErrDuplicateFileNumber
	}

	er.nextID++
	cp := *employee
	cp.ID = er.nextID
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	er.employees[cp.ID] = &cp
	er.fileNumbers[cp.FileNumber] = cp.ID

	out := cp
	return &out, nil
}

func (er *FakeEmployeeRepo) Update(_ context.Context, employee *employees.Employee) error {
	er.lock.Lock()
	defer er.lock.Unlock()

	existing, ok := er.employees[employee.ID]
	if !ok {
		return employees.ErrNotFound
	}
	delete(er.fileNumbers, existing.FileNumber)
	cp := *employee
	er.employees[cp.ID] = &cp
	er.fileNumbers[cp.FileNumber] = cp.ID
	return nil
}

func (er *FakeEmployeeRepo) SetActive(_ context.Context, id int64, active bool) error {
	er.lock.Lock()
	defer er.lock.Unlock()

	e, ok := er.employees[id]
	if !ok {
		return employees.ErrNotFound
	}
	e.Active = active
	return nil
}
