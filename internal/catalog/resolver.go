package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Resolver is the public face of the catalog: given 1-3 path tokens it
// decides whether the request denotes a category listing, a subcategory
// listing, or a single service, walking the fallback chains in fixed order.
// Each call works against a per-request snapshot of the store, so concurrent
// requests share no mutable state.
type Resolver struct {
	store Store
}

func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// snapshot loads categories and services concurrently. The two reads are
// independent; everything after them is sequential. Both sets are re-sorted
// here so resolution order never depends on backend iteration order.
func (r *Resolver) snapshot(ctx context.Context, includeDrafts bool) (*Directory, *Matcher, error) {
	var (
		wg         sync.WaitGroup
		categories []Category
		services   []Service
		catErr     error
		svcErr     error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		categories, catErr = r.store.ListCategories(ctx)
	}()
	go func() {
		defer wg.Done()
		services, svcErr = r.store.ListServices(ctx, includeDrafts)
	}()
	wg.Wait()
	if catErr != nil {
		return nil, nil, fmt.Errorf("loading categories: %w", catErr)
	}
	if svcErr != nil {
		return nil, nil, fmt.Errorf("loading services: %w", svcErr)
	}

	sort.SliceStable(categories, func(i, j int) bool {
		if !categories[i].CreatedAt.Equal(categories[j].CreatedAt) {
			return categories[i].CreatedAt.After(categories[j].CreatedAt)
		}
		return categories[i].Slug < categories[j].Slug
	})
	sort.SliceStable(services, func(i, j int) bool {
		if !services[i].CreatedAt.Equal(services[j].CreatedAt) {
			return services[i].CreatedAt.After(services[j].CreatedAt)
		}
		return services[i].Slug < services[j].Slug
	})

	return NewDirectory(categories), NewMatcher(services), nil
}

// resolveNode turns a category token into a stored category or, when the
// token only matches a shared type, a synthetic parent grouping every
// category of that type.
func resolveNode(dir *Directory, token string) *CategoryNode {
	if cat := dir.FindByToken(token); cat != nil {
		return &CategoryNode{Stored: cat}
	}
	if members := dir.FindByType(token); len(members) > 0 {
		return &CategoryNode{Type: strings.ToLower(strings.TrimSpace(token)), Members: members}
	}
	return nil
}

// ResolveCategoryLevel handles a one-segment path.
func (r *Resolver) ResolveCategoryLevel(ctx context.Context, token string, includeDrafts bool) (*CategoryListing, error) {
	dir, matcher, err := r.snapshot(ctx, includeDrafts)
	if err != nil {
		return nil, err
	}
	return r.categoryListing(dir, matcher, token)
}

func (r *Resolver) categoryListing(dir *Directory, matcher *Matcher, token string) (*CategoryListing, error) {
	if cat := dir.FindByToken(token); cat != nil {
		if cat.HasSubItems() {
			rows := subItemRows(cat, matcher)
			return &CategoryListing{
				Category:      projectCategory(cat),
				Subcategories: rows,
				ItemsCount:    len(rows),
			}, nil
		}
		// A category of a grouping type acts as parent to its same-type
		// siblings, even though no stored parent/child link exists.
		if siblings := typeSiblings(dir, cat); len(siblings) > 0 {
			rows := siblingRows(siblings, matcher)
			return &CategoryListing{
				Category:      projectCategory(cat),
				Subcategories: rows,
				ItemsCount:    len(rows),
			}, nil
		}
		// Leaf category: services attach directly, no subcategory tier.
		matched := matcher.ServicesFor(cat)
		return &CategoryListing{
			Category:   projectCategory(cat),
			Services:   projectServices(matched),
			ItemsCount: len(matched),
		}, nil
	}

	if members := dir.FindByType(token); len(members) > 0 {
		node := &CategoryNode{Type: strings.ToLower(strings.TrimSpace(token)), Members: members}
		rows := siblingRows(members, matcher)
		return &CategoryListing{
			Category:      projectNode(node),
			Subcategories: rows,
			ItemsCount:    len(rows),
		}, nil
	}

	// Free-text last resort: the token never resolved to any category, but
	// legacy services may still be tagged with it directly.
	if matched := matcher.servicesByRawToken(token); len(matched) > 0 {
		return &CategoryListing{
			Services:   projectServices(matched),
			ItemsCount: len(matched),
		}, nil
	}

	return nil, NewNotFound("category", token)
}

// typeSiblings returns the other categories sharing cat's type, in snapshot
// order. Empty when the type is unset or cat is the only one carrying it.
func typeSiblings(dir *Directory, cat *Category) []Category {
	var out []Category
	for _, c := range dir.FindByType(cat.Type) {
		if c.InternalID != cat.InternalID {
			out = append(out, c)
		}
	}
	return out
}

// subItemRows projects a category's explicit sub-item services as
// subcategory rows. Each row's count is the number of services nested under
// that sub-item. Sub-items missing from the snapshot (deleted, or drafts
// filtered out) are skipped.
func subItemRows(cat *Category, matcher *Matcher) []SubcategoryRow {
	rows := make([]SubcategoryRow, 0, len(cat.SubServiceIDs))
	for _, id := range cat.SubServiceIDs {
		sub := matcher.serviceByID(id)
		if sub == nil {
			continue
		}
		rows = append(rows, projectServiceRow(sub, len(matcher.ServicesUnderParentService(sub))))
	}
	return rows
}

// siblingRows projects the members of a virtual type parent. Every member is
// presented as a subcategory row regardless of its own shape. A member with
// explicit sub-items reports their count; one without reports its matched
// service count, with fuzzy claims assigned first-member-wins.
func siblingRows(members []Category, matcher *Matcher) []SubcategoryRow {
	matchedBy := matcher.ServicesForSiblings(members)
	rows := make([]SubcategoryRow, 0, len(members))
	for i := range members {
		m := &members[i]
		count := len(matchedBy[m.InternalID])
		if m.HasSubItems() {
			count = len(m.SubServiceIDs)
		}
		rows = append(rows, projectCategoryRow(m, count))
	}
	return rows
}

// ResolveSubcategoryLevel handles a two-segment path. Exactly one of the two
// results is non-nil on success: flat categories have no subcategory tier,
// so the second segment may turn out to be a service slug and resolve to a
// detail instead of a listing.
func (r *Resolver) ResolveSubcategoryLevel(ctx context.Context, categoryToken, subToken string, includeDrafts bool) (*SubcategoryListing, *ServiceDetail, error) {
	dir, matcher, err := r.snapshot(ctx, includeDrafts)
	if err != nil {
		return nil, nil, err
	}

	node := resolveNode(dir, categoryToken)
	if node == nil {
		return nil, nil, NewNotFound("category", categoryToken)
	}
	parentType := node.Type
	if !node.Synthetic() {
		parentType = node.Stored.Type
	}

	// (a) subToken as a sibling Category of the resolved parent.
	if sub := dir.FindByToken(subToken); sub != nil {
		sameRecord := !node.Synthetic() && sub.InternalID == node.Stored.InternalID
		validType := equalFold(sub.Type, parentType) || equalFold(sub.Type, categoryToken)
		if !sameRecord && validType {
			matched := matcher.ServicesFor(sub)
			return &SubcategoryListing{
				Category:    projectNode(node),
				Subcategory: projectCategoryRow(sub, len(matched)),
				Services:    projectServices(matched),
				ItemsCount:  len(matched),
			}, nil, nil
		}
	}

	// (b) subToken as a service inside the category's explicit sub-items.
	if !node.Synthetic() && node.Stored.HasSubItems() {
		for _, id := range node.Stored.SubServiceIDs {
			sub := matcher.serviceByID(id)
			if sub == nil || !equalFold(sub.Slug, subToken) {
				continue
			}
			children := matcher.ServicesUnderParentService(sub)
			return &SubcategoryListing{
				Category:    projectCategory(node.Stored),
				Subcategory: projectServiceRow(sub, len(children)),
				Services:    projectServices(children),
				ItemsCount:  len(children),
			}, nil, nil
		}
	}

	// Leaf fallback: a flat category has no subcategory tier, so the second
	// segment must be a service slug.
	if flatNode(node) {
		detail, err := r.serviceDetail(dir, matcher, categoryToken, "", subToken)
		if err == nil {
			return nil, detail, nil
		}
		if !IsNotFound(err) {
			return nil, nil, err
		}
	}

	return nil, nil, NewNotFound("subcategory", subToken)
}

func flatNode(node *CategoryNode) bool {
	if !node.Synthetic() {
		return !node.Stored.HasSubItems()
	}
	for i := range node.Members {
		if node.Members[i].HasSubItems() {
			return false
		}
	}
	return true
}

// ResolveServiceDetail handles a three-segment path; subToken may be empty
// when called through the leaf fallback.
func (r *Resolver) ResolveServiceDetail(ctx context.Context, categoryToken, subToken, slug string, includeDrafts bool) (*ServiceDetail, error) {
	dir, matcher, err := r.snapshot(ctx, includeDrafts)
	if err != nil {
		return nil, err
	}
	return r.serviceDetail(dir, matcher, categoryToken, subToken, slug)
}

func (r *Resolver) serviceDetail(dir *Directory, matcher *Matcher, categoryToken, subToken, slug string) (*ServiceDetail, error) {
	svc := matcher.serviceBySlug(slug)
	if svc == nil && categoryToken != "" {
		svc = matcher.serviceBySlugPrefix(slug)
	}
	if svc == nil {
		return nil, NewNotFound("service", slug)
	}

	// The found service must actually belong to the supplied context; a
	// mismatch is a not-found, never a silent substitution.
	if categoryToken != "" {
		node := resolveNode(dir, categoryToken)
		switch {
		case node == nil:
			if !matcher.matchesRawToken(svc, categoryToken) {
				return nil, NewNotFound("service", slug)
			}
		case node.Synthetic():
			if !belongsToGroup(matcher, svc, node) {
				return nil, NewNotFound("service", slug)
			}
		default:
			if !matcher.Belongs(svc, node.Stored) {
				return nil, NewNotFound("service", slug)
			}
		}
	}
	if subToken != "" {
		if sub := dir.FindByToken(subToken); sub != nil {
			if !matcher.Belongs(svc, sub) {
				return nil, NewNotFound("service", slug)
			}
		} else if parent := matcher.serviceBySlug(subToken); parent != nil && parent.ID != svc.ID {
			if svc.SubcategoryRef != parent.ID && !equalFold(svc.SubcategoryRef, parent.Slug) {
				return nil, NewNotFound("service", slug)
			}
		}
	}

	catInfo := projectCategory(dir.ResolveCategoryReference(svc.CategoryRef))
	if catInfo == nil && categoryToken != "" {
		if node := resolveNode(dir, categoryToken); node != nil {
			catInfo = projectNode(node)
		}
	}
	subInfo := projectCategory(dir.ResolveCategoryReference(svc.SubcategoryRef))

	return &ServiceDetail{Service: *svc, Category: catInfo, Subcategory: subInfo}, nil
}

func belongsToGroup(matcher *Matcher, svc *Service, node *CategoryNode) bool {
	if equalFold(svc.CategoryRef, node.Type) {
		return true
	}
	for i := range node.Members {
		if matcher.Belongs(svc, &node.Members[i]) {
			return true
		}
	}
	return false
}
