package store

import (
	"context"
	"sort"
	"sync"

	"github.com/example/taxconsult-api/internal/catalog"
	"github.com/example/taxconsult-api/internal/lead"
)

// MemoryStore is the in-memory backend used in development and tests.
// Listings are sorted the same way the SQL backends order them, so the
// resolver behaves identically regardless of backend.
type MemoryStore struct {
	mu         sync.RWMutex
	categories map[string]catalog.Category
	services   map[string]catalog.Service
	leads      map[string]lead.Lead
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		categories: make(map[string]catalog.Category),
		services:   make(map[string]catalog.Service),
		leads:      make(map[string]lead.Lead),
	}
}

func (s *MemoryStore) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]catalog.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Slug < out[j].Slug
	})
	return out, nil
}

func (s *MemoryStore) GetCategory(ctx context.Context, internalID string) (*catalog.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if c, ok := s.categories[internalID]; ok {
		return &c, nil
	}
	return nil, nil
}

func (s *MemoryStore) SaveCategory(ctx context.Context, c *catalog.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.categories[c.InternalID] = *c
	return nil
}

func (s *MemoryStore) DeleteCategory(ctx context.Context, internalID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.categories, internalID)
	return nil
}

func (s *MemoryStore) ListServices(ctx context.Context, includeDrafts bool) ([]catalog.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]catalog.Service, 0, len(s.services))
	for _, svc := range s.services {
		if includeDrafts || svc.Published() {
			out = append(out, svc)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Slug < out[j].Slug
	})
	return out, nil
}

func (s *MemoryStore) FindServiceBySlug(ctx context.Context, slug string, includeDrafts bool) (*catalog.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, svc := range s.services {
		if equalSlug(svc.Slug, slug) && (includeDrafts || svc.Published()) {
			return &svc, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) GetService(ctx context.Context, id string) (*catalog.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if svc, ok := s.services[id]; ok {
		return &svc, nil
	}
	return nil, nil
}

func (s *MemoryStore) SaveService(ctx context.Context, svc *catalog.Service) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.services[svc.ID] = *svc
	return nil
}

func (s *MemoryStore) DeleteService(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.services, id)
	return nil
}

func (s *MemoryStore) SaveLead(ctx context.Context, l *lead.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.leads[l.ID] = *l
	return nil
}

func (s *MemoryStore) GetLead(ctx context.Context, id string) (*lead.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if l, ok := s.leads[id]; ok {
		return &l, nil
	}
	return nil, nil
}

func (s *MemoryStore) ListLeads(ctx context.Context) ([]lead.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]lead.Lead, 0, len(s.leads))
	for _, l := range s.leads {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) SetLeadStatus(ctx context.Context, id, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.leads[id]
	if !ok {
		return lead.ErrNotFound
	}
	l.Status = status
	s.leads[id] = l
	return nil
}
