package catalog

import "context"

// Store is the read contract the resolver needs from the persistence layer.
// ListServices applies the draft filter store-side; both listings must come
// back in a stable order (created_at descending, then slug) so resolution is
// idempotent across identical requests.
type Store interface {
	ListCategories(ctx context.Context) ([]Category, error)
	ListServices(ctx context.Context, includeDrafts bool) ([]Service, error)
	FindServiceBySlug(ctx context.Context, slug string, includeDrafts bool) (*Service, error)
}
