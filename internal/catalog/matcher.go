package catalog

import (
	"log"
	"strings"
)

// FallbackStrategy is one rung of the membership-matching ladder. Strategies
// are tried in declaration order and the first one that yields a non-empty
// result set wins; later rungs are progressively cheaper to get wrong but
// more expensive to run.
type FallbackStrategy int

const (
	StrategyStructured FallbackStrategy = iota
	StrategyTextual
	StrategyLegacy
	StrategyFuzzy
	StrategyFullScan
)

func (s FallbackStrategy) String() string {
	switch s {
	case StrategyStructured:
		return "structured"
	case StrategyTextual:
		return "textual"
	case StrategyLegacy:
		return "legacy"
	case StrategyFuzzy:
		return "fuzzy"
	case StrategyFullScan:
		return "fullscan"
	default:
		return "unknown"
	}
}

var strategyLadder = []FallbackStrategy{
	StrategyStructured,
	StrategyTextual,
	StrategyLegacy,
	StrategyFuzzy,
	StrategyFullScan,
}

// Matcher decides whether a service belongs to a category under the
// ambiguity that categoryRef/subcategoryRef can be encoded five different
// ways. It never writes and never errors: a non-match is a normal result.
type Matcher struct {
	services []Service
}

// NewMatcher wraps a service snapshot. The snapshot's order is the stable
// iteration order used for tie-breaking.
func NewMatcher(services []Service) *Matcher {
	return &Matcher{services: services}
}

// Match applies a single strategy rung for one service/category pair.
func (m *Matcher) Match(svc *Service, cat *Category, strategy FallbackStrategy) bool {
	switch strategy {
	case StrategyStructured:
		// Rule 1: subcategoryRef carries the category identity.
		if svc.SubcategoryRef != "" && svc.SubcategoryRef == cat.InternalID {
			return true
		}
		// Rule 2: categoryRef carries the category identity.
		return svc.CategoryRef == cat.InternalID
	case StrategyTextual:
		// Rule 3: categoryRef equals slug or externalID exactly.
		return equalFold(svc.CategoryRef, cat.Slug) || equalFold(svc.CategoryRef, cat.ExternalID)
	case StrategyLegacy:
		// Rule 4: legacy free-text categoryName vs category title. Substring
		// in either direction, since historical titles carry suffixes.
		if svc.CategoryName == "" || cat.Title == "" {
			return false
		}
		name := strings.ToLower(strings.TrimSpace(svc.CategoryName))
		title := strings.ToLower(strings.TrimSpace(cat.Title))
		return strings.Contains(name, title) || strings.Contains(title, name)
	case StrategyFuzzy:
		return m.matchFuzzy(svc, cat)
	case StrategyFullScan:
		return m.matchNormalized(svc, cat)
	default:
		return false
	}
}

// matchFuzzy is rule 5: the service was tagged only with the category's raw
// type and never linked to its true subcategory. It must never claim a
// service that already has a non-empty subcategoryRef, or the service would
// surface under two subcategories at once.
func (m *Matcher) matchFuzzy(svc *Service, cat *Category) bool {
	if cat.Type == "" || strings.TrimSpace(svc.SubcategoryRef) != "" {
		return false
	}
	if !equalFold(svc.CategoryRef, cat.Type) {
		return false
	}
	if slugContains(svc.Slug, cat.Slug) || slugContains(svc.Slug, cat.ExternalID) {
		return true
	}
	return titleSharesKeyword(svc.Title, cat.Title)
}

// matchNormalized is the last-resort pass: both sides collapse to
// lowercase-trimmed strings and rules 1-5 re-apply as plain string equality,
// tolerating an identifier stored as ObjectId, ObjectId-as-string, or plain
// string interchangeably.
func (m *Matcher) matchNormalized(svc *Service, cat *Category) bool {
	catRef := normalize(svc.CategoryRef)
	subRef := normalize(svc.SubcategoryRef)
	id := normalize(cat.InternalID)
	slug := normalize(cat.Slug)
	ext := normalize(cat.ExternalID)

	if subRef != "" && (subRef == id || subRef == slug || subRef == ext) {
		return true
	}
	if catRef != "" && (catRef == id || catRef == slug || catRef == ext) {
		return true
	}
	name := normalize(svc.CategoryName)
	title := normalize(cat.Title)
	if name != "" && title != "" && (strings.Contains(name, title) || strings.Contains(title, name)) {
		return true
	}
	return m.matchFuzzy(svc, cat)
}

// Belongs reports whether the service belongs to the category under any
// rung of the ladder. Used for membership validation on detail lookups.
func (m *Matcher) Belongs(svc *Service, cat *Category) bool {
	for _, strategy := range strategyLadder {
		if m.Match(svc, cat, strategy) {
			return true
		}
	}
	return false
}

// ServicesFor walks the ladder for one category and returns the first
// non-empty result set, preserving snapshot order.
func (m *Matcher) ServicesFor(cat *Category) []Service {
	for _, strategy := range strategyLadder {
		var out []Service
		for i := range m.services {
			if m.Match(&m.services[i], cat, strategy) {
				out = append(out, m.services[i])
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

// CountFor is ServicesFor without materializing the slice contents.
func (m *Matcher) CountFor(cat *Category) int {
	return len(m.ServicesFor(cat))
}

// ServicesUnderParentService returns services nested under another service:
// the child's subcategoryRef carries the parent service's own id. This is
// the second-level nesting used by categories whose hierarchy is
// service-typed.
func (m *Matcher) ServicesUnderParentService(parent *Service) []Service {
	var out []Service
	for i := range m.services {
		s := &m.services[i]
		if s.ID == parent.ID {
			continue
		}
		if s.SubcategoryRef == parent.ID || equalFold(s.SubcategoryRef, parent.Slug) {
			out = append(out, m.services[i])
		}
	}
	return out
}

// ServicesForSiblings resolves membership across a group of sibling
// categories (the members of a virtual type parent). A fuzzy-matched service
// is claimed by the first sibling that matches it, in the given category
// order; a second fuzzy claim is logged as ambiguous and dropped, so no
// service appears under two siblings. Structured, textual, and legacy
// matches are authoritative and never deduplicated.
func (m *Matcher) ServicesForSiblings(cats []Category) map[string][]Service {
	out := make(map[string][]Service, len(cats))
	claimed := make(map[string]string)
	for ci := range cats {
		cat := &cats[ci]
		for _, strategy := range strategyLadder {
			var matched []Service
			for i := range m.services {
				svc := &m.services[i]
				if !m.Match(svc, cat, strategy) {
					continue
				}
				if strategy == StrategyFuzzy || strategy == StrategyFullScan {
					if owner, ok := claimed[svc.ID]; ok && owner != cat.InternalID {
						log.Printf("[Matcher] ambiguous fuzzy match: service %q already claimed by category %q, skipping for %q",
							svc.Slug, owner, cat.Slug)
						continue
					}
					claimed[svc.ID] = cat.InternalID
				}
				matched = append(matched, m.services[i])
			}
			if len(matched) > 0 {
				out[cat.InternalID] = matched
				break
			}
		}
	}
	return out
}

// serviceByID finds a service by store identity.
func (m *Matcher) serviceByID(id string) *Service {
	for i := range m.services {
		if m.services[i].ID == id {
			return &m.services[i]
		}
	}
	return nil
}

// serviceBySlug finds a service by exact slug, case-insensitively.
func (m *Matcher) serviceBySlug(slug string) *Service {
	for i := range m.services {
		if equalFold(m.services[i].Slug, slug) {
			return &m.services[i]
		}
	}
	return nil
}

// serviceBySlugPrefix recovers a service whose stored slug is a strict
// hyphen-delimited prefix of the requested slug, preferring the longest
// stored slug among candidates. Handles content whose public URL is more
// specific than the stored slug.
func (m *Matcher) serviceBySlugPrefix(requested string) *Service {
	req := strings.ToLower(strings.TrimSpace(requested))
	var best *Service
	for i := range m.services {
		stored := strings.ToLower(m.services[i].Slug)
		if stored == "" || !strings.HasPrefix(req, stored+"-") {
			continue
		}
		if best == nil || len(stored) > len(best.Slug) {
			best = &m.services[i]
		}
	}
	return best
}

// matchesRawToken is the free-text last resort for tokens that resolve to no
// category at all: categoryRef equals the raw token, or the legacy
// categoryName contains it.
func (m *Matcher) matchesRawToken(svc *Service, token string) bool {
	key := normalize(token)
	if key == "" {
		return false
	}
	if normalize(svc.CategoryRef) == key {
		return true
	}
	return svc.CategoryName != "" && strings.Contains(normalize(svc.CategoryName), key)
}

// servicesByRawToken collects every service matching the raw token, in
// snapshot order.
func (m *Matcher) servicesByRawToken(token string) []Service {
	var out []Service
	for i := range m.services {
		if m.matchesRawToken(&m.services[i], token) {
			out = append(out, m.services[i])
		}
	}
	return out
}

func equalFold(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// slugContains reports whether haystack contains needle with hyphen and
// underscore treated as interchangeable.
func slugContains(haystack, needle string) bool {
	if haystack == "" || needle == "" {
		return false
	}
	return strings.Contains(flattenSlug(haystack), flattenSlug(needle))
}

func flattenSlug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "")
	return strings.ReplaceAll(s, "_", "")
}

// titleSharesKeyword reports whether the service title contains any
// whitespace-delimited word of the category title. Words under 3 characters
// are too generic to count.
func titleSharesKeyword(serviceTitle, categoryTitle string) bool {
	if serviceTitle == "" || categoryTitle == "" {
		return false
	}
	haystack := strings.ToLower(serviceTitle)
	for _, word := range strings.Fields(strings.ToLower(categoryTitle)) {
		if len(word) < 3 {
			continue
		}
		if strings.Contains(haystack, word) {
			return true
		}
	}
	return false
}
