package check

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

var errStoreDown = errors.New("store down")

type memStore struct {
	mu     sync.Mutex
	nextID int64
	checks []Check
	names  map[int64]string
	now    func() time.Time
	fail   error
}

func newMemStore() *memStore {
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	var tick int
	return &memStore{
		names: map[int64]string{1: "Іван Петренко", 2: "Jane Doe"},
		now: func() time.Time {
			tick++
			return base.Add(time.Duration(tick) * time.Minute)
		},
	}
}

func (m *memStore) Create(_ context.Context, nc NewCheck) (Check, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return Check{}, m.fail
	}
	m.nextID++
	products := make([]LineItem, len(nc.Products))
	copy(products, nc.Products)
	c := Check{
		ID:            m.nextID,
		UserID:        nc.UserID,
		OwnerName:     m.names[nc.UserID],
		CreatedAt:     m.now(),
		Total:         nc.Total,
		PaymentType:   nc.PaymentType,
		PaymentAmount: nc.PaymentAmount,
		Rest:          nc.Rest,
		Products:      products,
	}
	m.checks = append(m.checks, c)
	return c, nil
}

func (m *memStore) GetByID(_ context.Context, checkID, ownerID int64) (Check, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return Check{}, m.fail
	}
	for _, c := range m.checks {
		if c.ID == checkID && c.UserID == ownerID {
			return c, nil
		}
	}
	return Check{}, ErrNotFound
}

func (m *memStore) matching(ownerID int64, f Filter) []Check {
	out := make([]Check, 0)
	for _, c := range m.checks {
		if c.UserID == ownerID && f.Matches(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (m *memStore) List(_ context.Context, ownerID int64, f Filter, p Page) ([]Check, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	all := m.matching(ownerID, f)
	if p.Offset >= len(all) {
		return []Check{}, nil
	}
	end := p.Offset + p.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[p.Offset:end], nil
}

func (m *memStore) Count(_ context.Context, ownerID int64, f Filter) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return 0, m.fail
	}
	return int64(len(m.matching(ownerID, f))), nil
}

func (m *memStore) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.checks)
}
