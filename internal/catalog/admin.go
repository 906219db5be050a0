package catalog

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AdminStore is the write contract for catalog administration.
type AdminStore interface {
	Store
	GetCategory(ctx context.Context, internalID string) (*Category, error)
	SaveCategory(ctx context.Context, cat *Category) error
	DeleteCategory(ctx context.Context, internalID string) error
	GetService(ctx context.Context, id string) (*Service, error)
	SaveService(ctx context.Context, svc *Service) error
	DeleteService(ctx context.Context, id string) error
}

// Admin owns catalog mutations: it enforces slug/externalID uniqueness and
// the referential-integrity rule that a category cannot be deleted while any
// service still references it. The resolver side never writes.
type Admin struct {
	store AdminStore
}

func NewAdmin(store AdminStore) *Admin {
	return &Admin{store: store}
}

// CreateCategory assigns a store identity and persists the category after
// checking that no existing category shares its slug or externalID.
func (a *Admin) CreateCategory(ctx context.Context, cat Category) (*Category, error) {
	cat.Slug = strings.ToLower(strings.TrimSpace(cat.Slug))
	if err := a.checkCategoryUniqueness(ctx, &cat, ""); err != nil {
		return nil, err
	}
	cat.InternalID = uuid.New().String()
	now := time.Now().UTC()
	cat.CreatedAt = now
	cat.UpdatedAt = now
	if err := a.store.SaveCategory(ctx, &cat); err != nil {
		return nil, fmt.Errorf("saving category: %w", err)
	}
	log.Printf("[Admin] category created: %s (%s)", cat.Slug, cat.InternalID)
	return &cat, nil
}

// UpdateCategory replaces a category's content, keeping identity and
// creation time, with uniqueness checked against every other category.
func (a *Admin) UpdateCategory(ctx context.Context, internalID string, cat Category) (*Category, error) {
	existing, err := a.store.GetCategory(ctx, internalID)
	if err != nil {
		return nil, fmt.Errorf("loading category: %w", err)
	}
	if existing == nil {
		return nil, NewNotFound("category", internalID)
	}
	cat.Slug = strings.ToLower(strings.TrimSpace(cat.Slug))
	if err := a.checkCategoryUniqueness(ctx, &cat, internalID); err != nil {
		return nil, err
	}
	cat.InternalID = existing.InternalID
	cat.CreatedAt = existing.CreatedAt
	cat.UpdatedAt = time.Now().UTC()
	if err := a.store.SaveCategory(ctx, &cat); err != nil {
		return nil, fmt.Errorf("saving category: %w", err)
	}
	return &cat, nil
}

// DeleteCategory removes a category, blocked while any service still
// references it through any encoding of the category reference.
func (a *Admin) DeleteCategory(ctx context.Context, internalID string) error {
	cat, err := a.store.GetCategory(ctx, internalID)
	if err != nil {
		return fmt.Errorf("loading category: %w", err)
	}
	if cat == nil {
		return NewNotFound("category", internalID)
	}
	services, err := a.store.ListServices(ctx, true)
	if err != nil {
		return fmt.Errorf("loading services: %w", err)
	}
	for i := range services {
		if referencesCategory(&services[i], cat) {
			return fmt.Errorf("%w: %s", ErrCategoryInUse, services[i].Slug)
		}
	}
	if err := a.store.DeleteCategory(ctx, internalID); err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}
	log.Printf("[Admin] category deleted: %s (%s)", cat.Slug, internalID)
	return nil
}

// CreateService assigns identity and persists the service; slug must be
// globally unique among services.
func (a *Admin) CreateService(ctx context.Context, svc Service) (*Service, error) {
	svc.Slug = strings.ToLower(strings.TrimSpace(svc.Slug))
	if err := a.checkServiceSlug(ctx, svc.Slug, ""); err != nil {
		return nil, err
	}
	svc.ID = uuid.New().String()
	if svc.Status == "" {
		svc.Status = StatusDraft
	}
	now := time.Now().UTC()
	svc.CreatedAt = now
	svc.UpdatedAt = now
	if err := a.store.SaveService(ctx, &svc); err != nil {
		return nil, fmt.Errorf("saving service: %w", err)
	}
	log.Printf("[Admin] service created: %s (%s)", svc.Slug, svc.ID)
	return &svc, nil
}

// UpdateService replaces a service's content, keeping identity and creation
// time.
func (a *Admin) UpdateService(ctx context.Context, id string, svc Service) (*Service, error) {
	existing, err := a.store.GetService(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading service: %w", err)
	}
	if existing == nil {
		return nil, NewNotFound("service", id)
	}
	svc.Slug = strings.ToLower(strings.TrimSpace(svc.Slug))
	if err := a.checkServiceSlug(ctx, svc.Slug, id); err != nil {
		return nil, err
	}
	svc.ID = existing.ID
	svc.CreatedAt = existing.CreatedAt
	svc.UpdatedAt = time.Now().UTC()
	if err := a.store.SaveService(ctx, &svc); err != nil {
		return nil, fmt.Errorf("saving service: %w", err)
	}
	return &svc, nil
}

// DeleteService removes a service.
func (a *Admin) DeleteService(ctx context.Context, id string) error {
	existing, err := a.store.GetService(ctx, id)
	if err != nil {
		return fmt.Errorf("loading service: %w", err)
	}
	if existing == nil {
		return NewNotFound("service", id)
	}
	if err := a.store.DeleteService(ctx, id); err != nil {
		return fmt.Errorf("deleting service: %w", err)
	}
	log.Printf("[Admin] service deleted: %s (%s)", existing.Slug, id)
	return nil
}

func (a *Admin) checkCategoryUniqueness(ctx context.Context, cat *Category, selfID string) error {
	categories, err := a.store.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("loading categories: %w", err)
	}
	for i := range categories {
		other := &categories[i]
		if other.InternalID == selfID {
			continue
		}
		if equalFold(other.Slug, cat.Slug) {
			return fmt.Errorf("%w: %s", ErrSlugTaken, cat.Slug)
		}
		if cat.ExternalID != "" && equalFold(other.ExternalID, cat.ExternalID) {
			return fmt.Errorf("%w: %s", ErrExternalIDTaken, cat.ExternalID)
		}
	}
	return nil
}

func (a *Admin) checkServiceSlug(ctx context.Context, slug, selfID string) error {
	services, err := a.store.ListServices(ctx, true)
	if err != nil {
		return fmt.Errorf("loading services: %w", err)
	}
	for i := range services {
		if services[i].ID == selfID {
			continue
		}
		if equalFold(services[i].Slug, slug) {
			return fmt.Errorf("%w: %s", ErrSlugTaken, slug)
		}
	}
	return nil
}

// referencesCategory reports whether a service points at the category
// through any of the reference encodings, including the legacy title field.
func referencesCategory(svc *Service, cat *Category) bool {
	for _, ref := range []string{svc.CategoryRef, svc.SubcategoryRef} {
		if ref == "" {
			continue
		}
		if ref == cat.InternalID || equalFold(ref, cat.Slug) || equalFold(ref, cat.ExternalID) {
			return true
		}
	}
	return svc.CategoryName != "" && cat.Title != "" &&
		strings.Contains(normalize(svc.CategoryName), normalize(cat.Title))
}
