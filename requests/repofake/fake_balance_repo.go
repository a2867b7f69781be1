package fakerequestrepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/metrohr/leavehub/requests"
)

var _ requests.BalanceRepo = (*FakeBalanceRepo)(nil)

type balanceKey struct {
	employeeID int64
	period     string
}

type FakeBalanceRepo struct {
	balances  map[balanceKey]*requests.VacationBalance
	movements []*requests.BalanceMovement
	nextID    int64
	lock      sync.RWMutex
}

func NewFakeBalanceRepo() *FakeBalanceRepo {
	return &FakeBalanceRepo{
		balances: make(map[balanceKey]*requests.VacationBalance),
	}
}

func (br *FakeBalanceRepo) ListByEmployee(_ context.Context, employeeID int64) ([]*requests.VacationBalance, error) {
	br.lock.RLock()
	defer br.lock.RUnlock()

	list := make([]*requests.VacationBalance, 0)
	for _, b := range br.balances {
		if b.EmployeeID != employeeID {
			continue
		}
		cp := *b
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Period < list[j].Period })
	return list, nil
}

func (br *FakeBalanceRepo) Get(_ context.Context, employeeID int64, period string) (*requests.VacationBalance, error) {
	br.lock.RLock()
	defer br.lock.RUnlock()

	b, ok := br.balances[balanceKey{employeeID, period}]
	if !ok {
		return nil, requests.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (br *FakeBalanceRepo) Upsert(_ context.Context, b *requests.VacationBalance) (*requests.VacationBalance, error) {
	br.lock.Lock()
	defer br.lock.Unlock()

	cp := *b
	key := balanceKey{cp.EmployeeID, cp.Period}
	if existing, ok := br.balances[key]; ok {
		cp.ID = existing.ID
	} else {
		br.nextID++
		cp.ID = br.nextID
	}
	br.balances[key] = &cp
	out := cp
	return &out, nil
}

func (br *FakeBalanceRepo) AddMovement(_ context.Context, m *requests.BalanceMovement) error {
	br.lock.Lock()
	defer br.lock.Unlock()

	br.nextID++
	cp := *m
	cp.ID = br.nextID
	if cp.MovedAt.IsZero() {
		cp.MovedAt = time.Now()
	}
	br.movements = append(br.movements, &cp)
	return nil
}

func (br *FakeBalanceRepo) ListMovements(_ context.Context, employeeID int64) ([]*requests.BalanceMovement, error) {
	br.lock.RLock()
	defer br.lock.RUnlock()

	list := make([]*requests.BalanceMovement, 0)
	for _, m := range br.movements {
		if m.EmployeeID != employeeID {
			continue
		}
		cp := *m
		list = append(list, &cp)
	}
	return list, nil
}
