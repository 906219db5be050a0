package catalog

import "strings"

// Directory is a per-request index over a category snapshot. Lookups are
// read-only and fail silently: absence is expected and handled by the
// caller's fallback chain, never raised as an error.
type Directory struct {
	categories   []Category
	byInternalID map[string]*Category
	bySlug       map[string]*Category
	byExternalID map[string]*Category
}

// NewDirectory indexes a category snapshot. Slug and externalID keys are
// lowercased so token lookups are case-insensitive.
func NewDirectory(categories []Category) *Directory {
	d := &Directory{
		categories:   categories,
		byInternalID: make(map[string]*Category, len(categories)),
		bySlug:       make(map[string]*Category, len(categories)),
		byExternalID: make(map[string]*Category, len(categories)),
	}
	for i := range categories {
		c := &d.categories[i]
		d.byInternalID[c.InternalID] = c
		if c.Slug != "" {
			d.bySlug[strings.ToLower(c.Slug)] = c
		}
		if c.ExternalID != "" {
			d.byExternalID[strings.ToLower(c.ExternalID)] = c
		}
	}
	return d
}

// All returns the snapshot in its stored order.
func (d *Directory) All() []Category {
	return d.categories
}

// FindByToken matches a token case-insensitively against slug or externalID.
func (d *Directory) FindByToken(token string) *Category {
	key := strings.ToLower(strings.TrimSpace(token))
	if c, ok := d.bySlug[key]; ok {
		return c
	}
	if c, ok := d.byExternalID[key]; ok {
		return c
	}
	return nil
}

// FindByType returns every category whose type equals the token,
// case-insensitively, in snapshot order.
func (d *Directory) FindByType(typeToken string) []Category {
	key := strings.ToLower(strings.TrimSpace(typeToken))
	if key == "" {
		return nil
	}
	var out []Category
	for _, c := range d.categories {
		if strings.ToLower(c.Type) == key {
			out = append(out, c)
		}
	}
	return out
}

// ByInternalID returns the category with the given store identity.
func (d *Directory) ByInternalID(id string) *Category {
	return d.byInternalID[id]
}

// ResolveCategoryReference canonicalizes a union-typed category reference.
// The value may be a category internalID, a slug, or an externalID; each
// form is tried in that order. A raw type token does not resolve here, it
// denotes a group rather than a single category.
func (d *Directory) ResolveCategoryReference(ref string) *Category {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil
	}
	if c, ok := d.byInternalID[ref]; ok {
		return c
	}
	key := strings.ToLower(ref)
	if c, ok := d.bySlug[key]; ok {
		return c
	}
	if c, ok := d.byExternalID[key]; ok {
		return c
	}
	return nil
}
