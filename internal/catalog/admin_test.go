package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAdminStore struct {
	fakeStore
}

func (f *fakeAdminStore) GetCategory(ctx context.Context, internalID string) (*Category, error) {
	for i := range f.categories {
		if f.categories[i].InternalID == internalID {
			c := f.categories[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeAdminStore) SaveCategory(ctx context.Context, cat *Category) error {
	for i := range f.categories {
		if f.categories[i].InternalID == cat.InternalID {
			f.categories[i] = *cat
			return nil
		}
	}
	f.categories = append(f.categories, *cat)
	return nil
}

func (f *fakeAdminStore) DeleteCategory(ctx context.Context, internalID string) error {
	for i := range f.categories {
		if f.categories[i].InternalID == internalID {
			f.categories = append(f.categories[:i], f.categories[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeAdminStore) GetService(ctx context.Context, id string) (*Service, error) {
	for i := range f.services {
		if f.services[i].ID == id {
			s := f.services[i]
			return &s, nil
		}
	}
	return nil, nil
}

func (f *fakeAdminStore) SaveService(ctx context.Context, svc *Service) error {
	for i := range f.services {
		if f.services[i].ID == svc.ID {
			f.services[i] = *svc
			return nil
		}
	}
	f.services = append(f.services, *svc)
	return nil
}

func (f *fakeAdminStore) DeleteService(ctx context.Context, id string) error {
	for i := range f.services {
		if f.services[i].ID == id {
			f.services = append(f.services[:i], f.services[i+1:]...)
			return nil
		}
	}
	return nil
}

// ============================================
// Category Admin Tests
// ============================================

func TestAdmin_CreateCategory_AssignsIdentity(t *testing.T) {
	store := &fakeAdminStore{}
	admin := NewAdmin(store)

	got, err := admin.CreateCategory(context.Background(), Category{Slug: "GST", ExternalID: "gst", Title: "GST"})
	require.NoError(t, err)
	assert.NotEmpty(t, got.InternalID)
	assert.Equal(t, "gst", got.Slug)
	assert.False(t, got.CreatedAt.IsZero())
	assert.Len(t, store.categories, 1)
}

func TestAdmin_CreateCategory_DuplicateSlug(t *testing.T) {
	store := &fakeAdminStore{}
	admin := NewAdmin(store)

	_, err := admin.CreateCategory(context.Background(), Category{Slug: "gst", ExternalID: "gst"})
	require.NoError(t, err)
	_, err = admin.CreateCategory(context.Background(), Category{Slug: "GST", ExternalID: "gst-2"})
	assert.ErrorIs(t, err, ErrSlugTaken)
}

func TestAdmin_CreateCategory_DuplicateExternalID(t *testing.T) {
	store := &fakeAdminStore{}
	admin := NewAdmin(store)

	_, err := admin.CreateCategory(context.Background(), Category{Slug: "gst", ExternalID: "gst"})
	require.NoError(t, err)
	_, err = admin.CreateCategory(context.Background(), Category{Slug: "gst-filing", ExternalID: "GST"})
	assert.ErrorIs(t, err, ErrExternalIDTaken)
}

func TestAdmin_UpdateCategory_KeepsIdentity(t *testing.T) {
	store := &fakeAdminStore{}
	admin := NewAdmin(store)

	created, err := admin.CreateCategory(context.Background(), Category{Slug: "gst", ExternalID: "gst", Title: "GST"})
	require.NoError(t, err)

	updated, err := admin.UpdateCategory(context.Background(), created.InternalID, Category{Slug: "gst", ExternalID: "gst", Title: "GST Services"})
	require.NoError(t, err)
	assert.Equal(t, created.InternalID, updated.InternalID)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "GST Services", updated.Title)
}

func TestAdmin_UpdateCategory_NotFound(t *testing.T) {
	admin := NewAdmin(&fakeAdminStore{})

	_, err := admin.UpdateCategory(context.Background(), "missing", Category{Slug: "x"})
	assert.True(t, IsNotFound(err))
}

func TestAdmin_DeleteCategory_BlockedWhileReferenced(t *testing.T) {
	store := &fakeAdminStore{}
	admin := NewAdmin(store)

	created, err := admin.CreateCategory(context.Background(), Category{Slug: "gst", ExternalID: "gst", Title: "GST"})
	require.NoError(t, err)
	store.services = append(store.services, Service{ID: "svc-1", Slug: "gst-filing", CategoryRef: created.InternalID})

	err = admin.DeleteCategory(context.Background(), created.InternalID)
	assert.ErrorIs(t, err, ErrCategoryInUse)
	assert.Len(t, store.categories, 1)
}

func TestAdmin_DeleteCategory_BlockedBySlugReference(t *testing.T) {
	store := &fakeAdminStore{}
	admin := NewAdmin(store)

	created, err := admin.CreateCategory(context.Background(), Category{Slug: "gst", ExternalID: "gst-ext", Title: "GST"})
	require.NoError(t, err)
	// Reference by slug rather than id still blocks deletion.
	store.services = append(store.services, Service{ID: "svc-1", Slug: "gst-filing", CategoryRef: "gst"})

	err = admin.DeleteCategory(context.Background(), created.InternalID)
	assert.ErrorIs(t, err, ErrCategoryInUse)
}

func TestAdmin_DeleteCategory_Unreferenced(t *testing.T) {
	store := &fakeAdminStore{}
	admin := NewAdmin(store)

	created, err := admin.CreateCategory(context.Background(), Category{Slug: "gst", ExternalID: "gst"})
	require.NoError(t, err)

	require.NoError(t, admin.DeleteCategory(context.Background(), created.InternalID))
	assert.Empty(t, store.categories)
}

// ============================================
// Service Admin Tests
// ============================================

func TestAdmin_CreateService_DefaultsToDraft(t *testing.T) {
	store := &fakeAdminStore{}
	admin := NewAdmin(store)

	got, err := admin.CreateService(context.Background(), Service{Slug: "gst-filing", Title: "GST Filing"})
	require.NoError(t, err)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, StatusDraft, got.Status)
}

func TestAdmin_CreateService_DuplicateSlug(t *testing.T) {
	store := &fakeAdminStore{}
	admin := NewAdmin(store)

	_, err := admin.CreateService(context.Background(), Service{Slug: "gst-filing"})
	require.NoError(t, err)
	_, err = admin.CreateService(context.Background(), Service{Slug: "GST-Filing"})
	assert.ErrorIs(t, err, ErrSlugTaken)
}

func TestAdmin_UpdateService_KeepsIdentity(t *testing.T) {
	store := &fakeAdminStore{}
	admin := NewAdmin(store)

	created, err := admin.CreateService(context.Background(), Service{Slug: "gst-filing", Title: "GST Filing"})
	require.NoError(t, err)

	updated, err := admin.UpdateService(context.Background(), created.ID, Service{Slug: "gst-filing", Title: "GST Return Filing", Status: StatusPublished})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, StatusPublished, updated.Status)
}

func TestAdmin_DeleteService(t *testing.T) {
	store := &fakeAdminStore{}
	admin := NewAdmin(store)

	created, err := admin.CreateService(context.Background(), Service{Slug: "gst-filing"})
	require.NoError(t, err)

	require.NoError(t, admin.DeleteService(context.Background(), created.ID))
	assert.Empty(t, store.services)

	err = admin.DeleteService(context.Background(), created.ID)
	assert.True(t, IsNotFound(err))
}
