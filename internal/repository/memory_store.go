package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/eaglebank/onboarding/internal/analytics"
	"github.com/eaglebank/onboarding/shared/models"
)

// MemoryStore keeps applications in process memory. It satisfies the same
// contracts as the PostgreSQL repositories, aggregating with the analytics
// primitives instead of SQL.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]models.Application
	now    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1, byID: make(map[int64]models.Application), now: time.Now}
}

func (s *MemoryStore) Insert(_ context.Context, app *models.Application) (*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.byID {
		if existing.AccountNo == app.AccountNo || existing.IBAN == app.IBAN {
			return nil, fmt.Errorf("failed to create application: %w", models.ErrIdentifierCollision)
		}
	}

	stored := *app
	stored.ID = s.nextID
	s.nextID++
	now := s.now().UTC()
	stored.CreatedAt, stored.UpdatedAt = now, now
	s.byID[stored.ID] = stored
	return &stored, nil
}

func (s *MemoryStore) UpdateByID(_ context.Context, id int64, patch models.ApplicationPatch) (*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.byID[id]
	if !ok {
		return nil, models.ErrApplicationNotFound
	}
	patch.ApplyTo(&stored)
	stored.UpdatedAt = s.now().UTC()
	s.byID[id] = stored
	return &stored, nil
}

func (s *MemoryStore) DeleteByID(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return false, nil
	}
	delete(s.byID, id)
	return true, nil
}

func (s *MemoryStore) GetByID(_ context.Context, id int64) (*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.byID[id]
	if !ok {
		return nil, models.ErrApplicationNotFound
	}
	return &stored, nil
}

func (s *MemoryStore) FindByField(_ context.Context, field, value string) (*models.Application, error) {
	if !models.IsLookupField(field) {
		return nil, fmt.Errorf("field %q cannot be used for lookups", field)
	}
	for _, a := range s.snapshot() {
		if a.Lookup(field) == value {
			return &a, nil
		}
	}
	return nil, models.ErrApplicationNotFound
}

func (s *MemoryStore) FindByCategory(_ context.Context, field, value string) ([]models.Application, error) {
	if !dataColumnNames[field] {
		return nil, fmt.Errorf("unknown field %q", field)
	}
	var out []models.Application
	for _, a := range s.snapshot() {
		if a.Category(field) == value {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *MemoryStore) CountAll(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID), nil
}

func (s *MemoryStore) Paginate(_ context.Context, skip, limit int) ([]models.Application, error) {
	all := s.snapshot()
	if skip >= len(all) {
		return nil, nil
	}
	end := min(skip+limit, len(all))
	return all[skip:end], nil
}

func (s *MemoryStore) All(_ context.Context) ([]models.Application, error) {
	return s.snapshot(), nil
}

func (s *MemoryStore) GroupCount(_ context.Context, d analytics.Dimension) (analytics.Counts, error) {
	return analytics.GroupCount(s.snapshot(), d), nil
}

func (s *MemoryStore) CrossTabulate(_ context.Context, first, second analytics.Dimension) (analytics.CrossTab, error) {
	return analytics.CrossTabulate(s.snapshot(), first, second), nil
}

func (s *MemoryStore) NumericSummary(_ context.Context, f analytics.NumericField) (analytics.Summary, error) {
	return analytics.Summarize(s.snapshot(), f), nil
}

func (s *MemoryStore) FlagCounts(_ context.Context) (analytics.Counts, error) {
	return analytics.FlagCounts(s.snapshot()), nil
}

func (s *MemoryStore) KinCounts(_ context.Context) (analytics.Counts, error) {
	return analytics.KinCounts(s.snapshot()), nil
}

// snapshot copies every stored application, ordered by id.
func (s *MemoryStore) snapshot() []models.Application {
	s.mu.RLock()
	out := make([]models.Application, 0, len(s.byID))
	for _, a := range s.byID {
		out = append(out, a)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
