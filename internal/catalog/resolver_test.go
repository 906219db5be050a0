package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	categories []Category
	services   []Service
	err        error
}

func (f *fakeStore) ListCategories(ctx context.Context) ([]Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	return append([]Category(nil), f.categories...), nil
}

func (f *fakeStore) ListServices(ctx context.Context, includeDrafts bool) ([]Service, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []Service
	for _, s := range f.services {
		if includeDrafts || s.Published() {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStore) FindServiceBySlug(ctx context.Context, slug string, includeDrafts bool) (*Service, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.services {
		s := f.services[i]
		if equalFold(s.Slug, slug) && (includeDrafts || s.Published()) {
			return &s, nil
		}
	}
	return nil, nil
}

func ts(day int) time.Time {
	return time.Date(2025, time.March, day, 0, 0, 0, 0, time.UTC)
}

// ============================================
// Category Level Tests
// ============================================

func TestResolver_CategoryLevel_LeafWithStructuredServices(t *testing.T) {
	// Scenario: flat category, two services referencing its internalID.
	store := &fakeStore{
		categories: []Category{
			{InternalID: "cat-gst", ExternalID: "gst", Slug: "gst", Title: "GST", Type: "simple", CreatedAt: ts(1)},
		},
		services: []Service{
			{ID: "svc-1", Slug: "gst-registration", CategoryRef: "cat-gst", CreatedAt: ts(2)},
			{ID: "svc-2", Slug: "gst-filing", CategoryRef: "cat-gst", CreatedAt: ts(3)},
		},
	}
	r := NewResolver(store)

	got, err := r.ResolveCategoryLevel(context.Background(), "gst", false)
	require.NoError(t, err)
	require.NotNil(t, got.Category)
	assert.Equal(t, "gst", got.Category.Slug)
	assert.Empty(t, got.Subcategories)
	require.Len(t, got.Services, 2)
	assert.Equal(t, 2, got.ItemsCount)
	// created_at desc ordering
	assert.Equal(t, "gst-filing", got.Services[0].Slug)
	assert.Equal(t, "gst-registration", got.Services[1].Slug)
}

func TestResolver_CategoryLevel_GroupingTypeSiblings(t *testing.T) {
	// Scenario: "ipo" is both a category slug and a type shared with
	// financial-due-diligence; the siblings become the subcategory rows.
	store := &fakeStore{
		categories: []Category{
			{InternalID: "cat-ipo", Slug: "ipo", Title: "IPO", Type: "ipo", CreatedAt: ts(2)},
			{InternalID: "cat-fdd", Slug: "financial-due-diligence", Title: "Financial Due Diligence", Type: "ipo", CreatedAt: ts(1)},
		},
	}
	r := NewResolver(store)

	got, err := r.ResolveCategoryLevel(context.Background(), "ipo", false)
	require.NoError(t, err)
	require.NotNil(t, got.Category)
	assert.Equal(t, "ipo", got.Category.Slug)
	require.Len(t, got.Subcategories, 1)
	assert.Equal(t, "financial-due-diligence", got.Subcategories[0].Slug)
	assert.Equal(t, 1, got.ItemsCount)
}

func TestResolver_CategoryLevel_VirtualParentForPureTypeToken(t *testing.T) {
	// The token matches no slug or externalID, only the shared type; all N
	// categories become rows, sub-items or not.
	store := &fakeStore{
		categories: []Category{
			{InternalID: "cat-loans", Slug: "business-loans", Title: "Business Loans", Type: "banking-finance", SubServiceIDs: []string{"svc-p"}, CreatedAt: ts(3)},
			{InternalID: "cat-accounts", Slug: "current-accounts", Title: "Current Accounts", Type: "banking-finance", CreatedAt: ts(2)},
			{InternalID: "cat-other", Slug: "trademark", Title: "Trademark", Type: "legal", CreatedAt: ts(1)},
		},
		services: []Service{
			{ID: "svc-p", Slug: "working-capital", Title: "Working Capital", CreatedAt: ts(4)},
		},
	}
	r := NewResolver(store)

	got, err := r.ResolveCategoryLevel(context.Background(), "banking-finance", false)
	require.NoError(t, err)
	require.NotNil(t, got.Category)
	assert.True(t, got.Category.Virtual)
	assert.Empty(t, got.Category.ID)
	require.Len(t, got.Subcategories, 2)
	assert.Equal(t, 2, got.ItemsCount)
	// The sub-item-carrying member reports its sub-item count.
	assert.Equal(t, "business-loans", got.Subcategories[0].Slug)
	assert.Equal(t, 1, got.Subcategories[0].ItemsCount)
}

func TestResolver_CategoryLevel_ExplicitSubItems(t *testing.T) {
	store := &fakeStore{
		categories: []Category{
			{InternalID: "cat-reg", Slug: "registrations", Title: "Registrations", Type: "simple",
				SubServiceIDs: []string{"svc-a", "svc-b"}, CreatedAt: ts(1)},
		},
		services: []Service{
			{ID: "svc-a", Slug: "company-registration", Title: "Company Registration", CreatedAt: ts(4)},
			{ID: "svc-b", Slug: "llp-registration", Title: "LLP Registration", CreatedAt: ts(3)},
			{ID: "svc-c", Slug: "pvt-ltd", Title: "Pvt Ltd", SubcategoryRef: "svc-a", CreatedAt: ts(2)},
		},
	}
	r := NewResolver(store)

	got, err := r.ResolveCategoryLevel(context.Background(), "registrations", false)
	require.NoError(t, err)
	require.Len(t, got.Subcategories, 2)
	assert.Equal(t, 2, got.ItemsCount)
	assert.Equal(t, "company-registration", got.Subcategories[0].Slug)
	// svc-c nests under svc-a, so that row counts 1.
	assert.Equal(t, 1, got.Subcategories[0].ItemsCount)
	assert.Equal(t, 0, got.Subcategories[1].ItemsCount)
}

func TestResolver_CategoryLevel_FreeTextFallback(t *testing.T) {
	store := &fakeStore{
		services: []Service{
			{ID: "svc-1", Slug: "legacy-advisory", CategoryRef: "wealth", CreatedAt: ts(1)},
			{ID: "svc-2", Slug: "old-consulting", CategoryName: "Wealth Management Desk", CreatedAt: ts(2)},
		},
	}
	r := NewResolver(store)

	got, err := r.ResolveCategoryLevel(context.Background(), "wealth", false)
	require.NoError(t, err)
	assert.Nil(t, got.Category)
	assert.Len(t, got.Services, 2)
	assert.Equal(t, 2, got.ItemsCount)
}

func TestResolver_CategoryLevel_NotFound(t *testing.T) {
	r := NewResolver(&fakeStore{})

	got, err := r.ResolveCategoryLevel(context.Background(), "nothing-here", false)
	assert.Nil(t, got)
	assert.True(t, IsNotFound(err))
}

func TestResolver_CategoryLevel_StoreErrorPropagates(t *testing.T) {
	storeErr := errors.New("connection refused")
	r := NewResolver(&fakeStore{err: storeErr})

	_, err := r.ResolveCategoryLevel(context.Background(), "gst", false)
	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)
	assert.False(t, IsNotFound(err))
}

func TestResolver_CategoryLevel_DraftFiltering(t *testing.T) {
	store := &fakeStore{
		categories: []Category{
			{InternalID: "cat-gst", Slug: "gst", Type: "simple", CreatedAt: ts(1)},
		},
		services: []Service{
			{ID: "svc-1", Slug: "gst-registration", CategoryRef: "cat-gst", Status: StatusPublished, CreatedAt: ts(2)},
			{ID: "svc-2", Slug: "gst-audit", CategoryRef: "cat-gst", Status: StatusDraft, CreatedAt: ts(3)},
		},
	}
	r := NewResolver(store)

	got, err := r.ResolveCategoryLevel(context.Background(), "gst", false)
	require.NoError(t, err)
	assert.Equal(t, 1, got.ItemsCount)

	got, err = r.ResolveCategoryLevel(context.Background(), "gst", true)
	require.NoError(t, err)
	assert.Equal(t, 2, got.ItemsCount)
}

// ============================================
// Subcategory Level Tests
// ============================================

func scenarioIPOStore() *fakeStore {
	return &fakeStore{
		categories: []Category{
			{InternalID: "cat-ipo", Slug: "ipo", Title: "IPO", Type: "ipo", CreatedAt: ts(2)},
			{InternalID: "cat-fdd", Slug: "financial-due-diligence", Title: "Financial Due Diligence", Type: "ipo", CreatedAt: ts(1)},
		},
	}
}

func TestResolver_SubcategoryLevel_FuzzyRecoversLegacyService(t *testing.T) {
	// Legacy service tagged only with the type; slug contains the
	// subcategory slug verbatim, so rule 5 recovers it.
	store := scenarioIPOStore()
	store.services = []Service{
		{ID: "svc-1", Slug: "financial-due-diligence-report", CategoryRef: "ipo", SubcategoryRef: "", CreatedAt: ts(3)},
	}
	r := NewResolver(store)

	listing, detail, err := r.ResolveSubcategoryLevel(context.Background(), "ipo", "financial-due-diligence", false)
	require.NoError(t, err)
	require.Nil(t, detail)
	require.NotNil(t, listing)
	require.Len(t, listing.Services, 1)
	assert.Equal(t, "financial-due-diligence-report", listing.Services[0].Slug)
	assert.Equal(t, 1, listing.ItemsCount)
	assert.Equal(t, 1, listing.Subcategory.ItemsCount)
}

func TestResolver_SubcategoryLevel_NoKeywordNoMatch(t *testing.T) {
	// The slug shares no keyword with the subcategory; the listing is
	// empty, not an error.
	store := scenarioIPOStore()
	store.services = []Service{
		{ID: "svc-1", Slug: "peer-comparison-analysis", Title: "Peer Comparison Analysis", CategoryRef: "ipo", CreatedAt: ts(3)},
	}
	r := NewResolver(store)

	listing, detail, err := r.ResolveSubcategoryLevel(context.Background(), "ipo", "financial-due-diligence", false)
	require.NoError(t, err)
	require.Nil(t, detail)
	require.NotNil(t, listing)
	assert.Empty(t, listing.Services)
	assert.Equal(t, 0, listing.ItemsCount)
}

func TestResolver_SubcategoryLevel_TypeMismatchDiscarded(t *testing.T) {
	store := &fakeStore{
		categories: []Category{
			{InternalID: "cat-ipo", Slug: "ipo", Title: "IPO", Type: "ipo", CreatedAt: ts(2)},
			{InternalID: "cat-tm", Slug: "trademark", Title: "Trademark", Type: "legal", CreatedAt: ts(1)},
		},
	}
	r := NewResolver(store)

	// trademark is a real category but not of the parent's type; with no
	// matching service slug either, the result is not-found.
	listing, detail, err := r.ResolveSubcategoryLevel(context.Background(), "ipo", "trademark", false)
	assert.Nil(t, listing)
	assert.Nil(t, detail)
	assert.True(t, IsNotFound(err))
}

func TestResolver_SubcategoryLevel_ExplicitSubItemService(t *testing.T) {
	store := &fakeStore{
		categories: []Category{
			{InternalID: "cat-reg", Slug: "registrations", Title: "Registrations", Type: "simple",
				SubServiceIDs: []string{"svc-a"}, CreatedAt: ts(1)},
		},
		services: []Service{
			{ID: "svc-a", Slug: "company-registration", Title: "Company Registration", CreatedAt: ts(3)},
			{ID: "svc-c", Slug: "pvt-ltd", Title: "Pvt Ltd", SubcategoryRef: "svc-a", CreatedAt: ts(2)},
		},
	}
	r := NewResolver(store)

	listing, detail, err := r.ResolveSubcategoryLevel(context.Background(), "registrations", "company-registration", false)
	require.NoError(t, err)
	require.Nil(t, detail)
	require.NotNil(t, listing)
	assert.Equal(t, "company-registration", listing.Subcategory.Slug)
	require.Len(t, listing.Services, 1)
	assert.Equal(t, "pvt-ltd", listing.Services[0].Slug)
}

func TestResolver_SubcategoryLevel_LeafFallbackToServiceDetail(t *testing.T) {
	// Flat category: the second segment is really a service slug.
	store := &fakeStore{
		categories: []Category{
			{InternalID: "cat-gst", Slug: "gst", Title: "GST", Type: "simple", CreatedAt: ts(1)},
		},
		services: []Service{
			{ID: "svc-1", Slug: "gst-registration", CategoryRef: "cat-gst", CreatedAt: ts(2)},
		},
	}
	r := NewResolver(store)

	listing, detail, err := r.ResolveSubcategoryLevel(context.Background(), "gst", "gst-registration", false)
	require.NoError(t, err)
	assert.Nil(t, listing)
	require.NotNil(t, detail)
	assert.Equal(t, "gst-registration", detail.Service.Slug)
	require.NotNil(t, detail.Category)
	assert.Equal(t, "gst", detail.Category.Slug)
}

func TestResolver_SubcategoryLevel_UnknownCategory(t *testing.T) {
	r := NewResolver(&fakeStore{})

	listing, detail, err := r.ResolveSubcategoryLevel(context.Background(), "ghost", "anything", false)
	assert.Nil(t, listing)
	assert.Nil(t, detail)
	assert.True(t, IsNotFound(err))
}

// ============================================
// Service Detail Tests
// ============================================

func TestResolver_ServiceDetail_ExactSlug(t *testing.T) {
	store := &fakeStore{
		categories: []Category{
			{InternalID: "cat-gst", Slug: "gst", Title: "GST", Type: "simple", CreatedAt: ts(1)},
		},
		services: []Service{
			{ID: "svc-1", Slug: "gst-registration", CategoryRef: "cat-gst", CreatedAt: ts(2)},
		},
	}
	r := NewResolver(store)

	got, err := r.ResolveServiceDetail(context.Background(), "gst", "", "GST-Registration", false)
	require.NoError(t, err)
	assert.Equal(t, "svc-1", got.Service.ID)
	require.NotNil(t, got.Category)
	assert.Equal(t, "cat-gst", got.Category.ID)
}

func TestResolver_ServiceDetail_PrefixRecovery(t *testing.T) {
	// The public URL is more specific than the stored slug.
	store := &fakeStore{
		categories: []Category{
			{InternalID: "cat-gst", Slug: "gst", Title: "GST", Type: "simple", CreatedAt: ts(1)},
		},
		services: []Service{
			{ID: "svc-1", Slug: "registration", CategoryRef: "cat-gst", CreatedAt: ts(2)},
		},
	}
	r := NewResolver(store)

	got, err := r.ResolveServiceDetail(context.Background(), "gst", "", "registration-for-startups", false)
	require.NoError(t, err)
	assert.Equal(t, "svc-1", got.Service.ID)
}

func TestResolver_ServiceDetail_PrefixNeedsCategoryContext(t *testing.T) {
	store := &fakeStore{
		services: []Service{
			{ID: "svc-1", Slug: "registration", CreatedAt: ts(1)},
		},
	}
	r := NewResolver(store)

	_, err := r.ResolveServiceDetail(context.Background(), "", "", "registration-for-startups", false)
	assert.True(t, IsNotFound(err))
}

func TestResolver_ServiceDetail_ContextMismatchIsNotFound(t *testing.T) {
	// The slug exists but belongs to a different category; no silent
	// substitution.
	store := &fakeStore{
		categories: []Category{
			{InternalID: "cat-gst", Slug: "gst", Title: "GST", Type: "simple", CreatedAt: ts(2)},
			{InternalID: "cat-tm", Slug: "trademark", Title: "Trademark", Type: "legal", CreatedAt: ts(1)},
		},
		services: []Service{
			{ID: "svc-1", Slug: "logo-registration", CategoryRef: "cat-tm", CreatedAt: ts(3)},
		},
	}
	r := NewResolver(store)

	_, err := r.ResolveServiceDetail(context.Background(), "gst", "", "logo-registration", false)
	assert.True(t, IsNotFound(err))
}

func TestResolver_ServiceDetail_SubcategoryContextValidated(t *testing.T) {
	store := scenarioIPOStore()
	store.services = []Service{
		{ID: "svc-1", Slug: "financial-due-diligence-report", CategoryRef: "ipo", CreatedAt: ts(3)},
	}
	r := NewResolver(store)

	got, err := r.ResolveServiceDetail(context.Background(), "ipo", "financial-due-diligence", "financial-due-diligence-report", false)
	require.NoError(t, err)
	assert.Equal(t, "svc-1", got.Service.ID)
}

// ============================================
// Idempotence
// ============================================

func TestResolver_Idempotence(t *testing.T) {
	store := &fakeStore{
		categories: []Category{
			{InternalID: "cat-ipo", Slug: "ipo", Title: "IPO", Type: "ipo", CreatedAt: ts(2)},
			{InternalID: "cat-fdd", Slug: "financial-due-diligence", Title: "Financial Due Diligence", Type: "ipo", CreatedAt: ts(1)},
		},
		services: []Service{
			{ID: "svc-1", Slug: "financial-due-diligence-report", CategoryRef: "ipo", CreatedAt: ts(3)},
			{ID: "svc-2", Slug: "ipo-readiness", CategoryRef: "ipo", CreatedAt: ts(4)},
		},
	}
	r := NewResolver(store)

	first, err := r.ResolveCategoryLevel(context.Background(), "ipo", false)
	require.NoError(t, err)
	second, err := r.ResolveCategoryLevel(context.Background(), "ipo", false)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
