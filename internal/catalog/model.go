package catalog

import "time"

// StatusPublished and StatusDraft are the two service publication states.
// An empty status is treated as published (pre-migration content has none).
const (
	StatusPublished = "published"
	StatusDraft     = "draft"
)

// Price is a service price range.
type Price struct {
	Min      int    `json:"min"`
	Max      int    `json:"max"`
	Currency string `json:"currency"`
}

// Category is a node in the catalog hierarchy. ExternalID and Slug are each
// globally unique among categories. A category with no SubServiceIDs and no
// sibling sharing its Type is a leaf: its children are Services found by
// membership matching, not an enumerated list.
type Category struct {
	InternalID      string    `json:"_id"`
	ExternalID      string    `json:"id"`
	Slug            string    `json:"slug"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	IconName        string    `json:"icon_name"`
	HeroTitle       string    `json:"hero_title"`
	HeroDescription string    `json:"hero_description"`
	Type            string    `json:"category_type"`
	SubServiceIDs   []string  `json:"sub_service_ids,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// HasSubItems reports whether the category models its subcategories as an
// explicit ordered list of services.
func (c *Category) HasSubItems() bool {
	return len(c.SubServiceIDs) > 0
}

// Service is a sellable offering. CategoryRef and SubcategoryRef carry a
// union-typed reference: a category internal id, a slug, an external id, or
// (legacy content) the raw category type string. SubcategoryRef may be empty,
// which is the "no subcategory" encoding; CategoryName is a legacy free-text
// field matched case-insensitively.
type Service struct {
	ID               string    `json:"_id"`
	Slug             string    `json:"slug"`
	Title            string    `json:"title"`
	ShortDescription string    `json:"short_description"`
	LongDescription  string    `json:"long_description"`
	IconName         string    `json:"icon_name"`
	CategoryRef      string    `json:"category"`
	SubcategoryRef   string    `json:"subcategory,omitempty"`
	CategoryName     string    `json:"category_name,omitempty"`
	Price            Price     `json:"price"`
	Duration         string    `json:"duration"`
	Features         []string  `json:"features"`
	Benefits         []string  `json:"benefits"`
	Requirements     []string  `json:"requirements"`
	Status           string    `json:"status,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Published reports whether the service is visible without includeDrafts.
func (s *Service) Published() bool {
	return s.Status == "" || s.Status == StatusPublished
}

// CategoryNode is either a stored category or a synthetic parent created on
// the fly to represent "all categories of this type" as one listing. The
// synthetic form never carries a store identity, so it cannot be mistaken
// for a persistable record.
type CategoryNode struct {
	Stored  *Category
	Type    string
	Members []Category
}

// Synthetic reports whether the node is a virtual type-group parent.
func (n *CategoryNode) Synthetic() bool {
	return n.Stored == nil
}
