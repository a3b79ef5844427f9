// Package testutil provides an in-memory TaskStore with the same
// observable semantics as the postgres repository, for tests that do
// not want a database.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"taskboard/internal/domain"
)

type MemStore struct {
	mu     sync.Mutex
	nextID int64
	tasks  map[int64]*domain.Task

	// Err, when set, is returned from every method.
	Err error
}

func NewMemStore() *MemStore {
	return &MemStore{tasks: make(map[int64]*domain.Task)}
}

// Seed inserts a task keeping any pre-set CreatedAt, so ordering tests
// can control timestamps.
func (s *MemStore) Seed(t *domain.Task) *domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	t.ID = s.nextID
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = t.CreatedAt
	}
	cp := *t
	s.tasks[t.ID] = &cp
	return t
}

func (s *MemStore) Create(ctx context.Context, t *domain.Task) error {
	if s.Err != nil {
		return s.Err
	}
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
	s.Seed(t)
	return nil
}

func (s *MemStore) GetByID(ctx context.Context, id int64, userID string) (*domain.Task, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok || t.UserID != userID {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (s *MemStore) List(ctx context.Context, q domain.TaskQuery) ([]*domain.Task, int, error) {
	if s.Err != nil {
		return nil, 0, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []*domain.Task
	for _, t := range s.tasks {
		if t.UserID != q.UserID {
			continue
		}
		if q.Text != "" && !strings.Contains(strings.ToLower(t.Title), strings.ToLower(q.Text)) {
			continue
		}
		if q.Completed != nil && t.Completed != *q.Completed {
			continue
		}
		cp := *t
		matched = append(matched, &cp)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	total := len(matched)
	if q.Offset >= total {
		return nil, total, nil
	}
	end := q.Offset + q.Limit
	if end > total {
		end = total
	}
	return matched[q.Offset:end], total, nil
}

func (s *MemStore) Update(ctx context.Context, id int64, userID string, p domain.TaskPatch) (*domain.Task, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok || t.UserID != userID {
		return nil, nil
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = p.Description
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	t.UpdatedAt = time.Now()
	cp := *t
	return &cp, nil
}

func (s *MemStore) Toggle(ctx context.Context, id int64, userID string) (*domain.Task, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok || t.UserID != userID {
		return nil, nil
	}
	t.Completed = !t.Completed
	t.UpdatedAt = time.Now()
	cp := *t
	return &cp, nil
}

func (s *MemStore) Delete(ctx context.Context, id int64, userID string) (*domain.Task, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok || t.UserID != userID {
		return nil, nil
	}
	delete(s.tasks, id)
	cp := *t
	return &cp, nil
}
