package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/example/taxconsult-api/internal/catalog"
	"github.com/example/taxconsult-api/internal/lead"
)

// MockStore is an in-memory mock of the full store surface for testing.
// It records calls and lets tests inject a failure per method name.
type MockStore struct {
	mu         sync.RWMutex
	categories map[string]catalog.Category
	services   map[string]catalog.Service
	leads      map[string]lead.Lead

	// For tracking calls in tests
	Calls []string

	// FailOn maps a method name to the error it should return
	FailOn map[string]error
}

// NewMockStore creates a new MockStore
func NewMockStore() *MockStore {
	return &MockStore{
		categories: make(map[string]catalog.Category),
		services:   make(map[string]catalog.Service),
		leads:      make(map[string]lead.Lead),
		Calls:      make([]string, 0),
		FailOn:     make(map[string]error),
	}
}

func (m *MockStore) record(method string) error {
	m.Calls = append(m.Calls, method)
	return m.FailOn[method]
}

// SeedCategory sets a category directly for testing (no call recorded).
func (m *MockStore) SeedCategory(c catalog.Category) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories[c.InternalID] = c
}

// SeedService sets a service directly for testing (no call recorded).
func (m *MockStore) SeedService(s catalog.Service) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.services[s.ID] = s
}

// SeedLead sets a lead directly for testing (no call recorded).
func (m *MockStore) SeedLead(l lead.Lead) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leads[l.ID] = l
}

func (m *MockStore) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.record("ListCategories"); err != nil {
		return nil, err
	}
	out := make([]catalog.Category, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, c)
	}
	sortCategories(out)
	return out, nil
}

func (m *MockStore) GetCategory(ctx context.Context, internalID string) (*catalog.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.record("GetCategory"); err != nil {
		return nil, err
	}
	if c, ok := m.categories[internalID]; ok {
		return &c, nil
	}
	return nil, nil
}

func (m *MockStore) SaveCategory(ctx context.Context, c *catalog.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.record("SaveCategory"); err != nil {
		return err
	}
	m.categories[c.InternalID] = *c
	return nil
}

func (m *MockStore) DeleteCategory(ctx context.Context, internalID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.record("DeleteCategory"); err != nil {
		return err
	}
	delete(m.categories, internalID)
	return nil
}

func (m *MockStore) ListServices(ctx context.Context, includeDrafts bool) ([]catalog.Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.record("ListServices"); err != nil {
		return nil, err
	}
	out := make([]catalog.Service, 0, len(m.services))
	for _, s := range m.services {
		if includeDrafts || s.Published() {
			out = append(out, s)
		}
	}
	sortServices(out)
	return out, nil
}

func (m *MockStore) FindServiceBySlug(ctx context.Context, slug string, includeDrafts bool) (*catalog.Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.record("FindServiceBySlug"); err != nil {
		return nil, err
	}
	for _, s := range m.services {
		if strings.EqualFold(s.Slug, slug) && (includeDrafts || s.Published()) {
			return &s, nil
		}
	}
	return nil, nil
}

func (m *MockStore) GetService(ctx context.Context, id string) (*catalog.Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.record("GetService"); err != nil {
		return nil, err
	}
	if s, ok := m.services[id]; ok {
		return &s, nil
	}
	return nil, nil
}

func (m *MockStore) SaveService(ctx context.Context, s *catalog.Service) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.record("SaveService"); err != nil {
		return err
	}
	m.services[s.ID] = *s
	return nil
}

func (m *MockStore) DeleteService(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.record("DeleteService"); err != nil {
		return err
	}
	delete(m.services, id)
	return nil
}

func (m *MockStore) SaveLead(ctx context.Context, l *lead.Lead) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.record("SaveLead"); err != nil {
		return err
	}
	m.leads[l.ID] = *l
	return nil
}

func (m *MockStore) GetLead(ctx context.Context, id string) (*lead.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.record("GetLead"); err != nil {
		return nil, err
	}
	if l, ok := m.leads[id]; ok {
		return &l, nil
	}
	return nil, nil
}

func (m *MockStore) ListLeads(ctx context.Context) ([]lead.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.record("ListLeads"); err != nil {
		return nil, err
	}
	out := make([]lead.Lead, 0, len(m.leads))
	for _, l := range m.leads {
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

func (m *MockStore) SetLeadStatus(ctx context.Context, id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.record("SetLeadStatus"); err != nil {
		return err
	}
	l, ok := m.leads[id]
	if !ok {
		return lead.ErrNotFound
	}
	l.Status = status
	m.leads[id] = l
	return nil
}

// LeadByID returns a lead directly for assertions (no call recorded).
func (m *MockStore) LeadByID(id string) (lead.Lead, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.leads[id]
	return l, ok
}

// Reset clears all data and recorded calls.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories = make(map[string]catalog.Category)
	m.services = make(map[string]catalog.Service)
	m.leads = make(map[string]lead.Lead)
	m.Calls = make([]string, 0)
	m.FailOn = make(map[string]error)
}

func sortCategories(out []catalog.Category) {
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Slug < out[j].Slug
	})
}

func sortServices(out []catalog.Service) {
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Slug < out[j].Slug
	})
}
