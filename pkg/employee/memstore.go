package employee

import (
	"context"
	"sort"
	"sync"
)

// MemStore is an in-process Store used for local runs and tests.
type MemStore struct {
	mu     sync.RWMutex
	nextID int
	rows   map[int]Employee
}

// NewMemStore creates a MemStore holding seed. Seed rows without an id are
// assigned one.
func NewMemStore(seed ...Employee) *MemStore {
	s := &MemStore{nextID: 1, rows: make(map[int]Employee, len(seed))}
	for _, e := range seed {
		if e.ID == 0 {
			e.ID = s.nextID
		}
		if e.ID >= s.nextID {
			s.nextID = e.ID + 1
		}
		s.rows[e.ID] = e
	}
	return s
}

func (s *MemStore) GetAll(ctx context.Context) ([]Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Employee, 0, len(s.rows))
	for _, e := range s.rows {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemStore) GetByID(ctx context.Context, id int) (*Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.rows[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (s *MemStore) Add(ctx context.Context, e *Employee) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = s.nextID
	s.nextID++
	s.rows[e.ID] = *e
	return nil
}

func (s *MemStore) Update(ctx context.Context, e *Employee) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rows[e.ID]; !ok {
		return false, nil
	}
	s.rows[e.ID] = *e
	return true, nil
}

func (s *MemStore) PatchFields(ctx context.Context, id int, fields PatchFields) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.rows[id]
	if !ok {
		return false, nil
	}
	fields.Apply(&e)
	s.rows[id] = e
	return true, nil
}
