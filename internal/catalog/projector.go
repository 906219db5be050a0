package catalog

// Response projection: flattens internal records, which mix raw identifiers,
// embedded sub-records, and legacy string fields, into stable typed response
// shapes. ItemsCount is always re-derived at read time; fuzzy membership
// makes any stored counter unreliable across catalog edits.

// CategoryInfo is the flattened category header shared by all three
// response kinds. A virtual type parent projects with an empty ID.
type CategoryInfo struct {
	ID              string `json:"id,omitempty"`
	ExternalID      string `json:"external_id,omitempty"`
	Slug            string `json:"slug"`
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	IconName        string `json:"icon_name,omitempty"`
	HeroTitle       string `json:"hero_title,omitempty"`
	HeroDescription string `json:"hero_description,omitempty"`
	Type            string `json:"category_type,omitempty"`
	Virtual         bool   `json:"virtual,omitempty"`
}

// SubcategoryRow is one child row in a category listing. The child may be a
// stored Category or an explicit sub-item Service; both flatten to this.
type SubcategoryRow struct {
	ID               string `json:"id,omitempty"`
	Slug             string `json:"slug"`
	Title            string `json:"title"`
	ShortDescription string `json:"short_description,omitempty"`
	IconName         string `json:"icon_name,omitempty"`
	ItemsCount       int    `json:"items_count"`
}

// ServiceSummary is one service row in a listing.
type ServiceSummary struct {
	ID               string `json:"id"`
	Slug             string `json:"slug"`
	Title            string `json:"title"`
	ShortDescription string `json:"short_description,omitempty"`
	IconName         string `json:"icon_name,omitempty"`
	Price            Price  `json:"price"`
	Duration         string `json:"duration,omitempty"`
}

// CategoryListing is the one-segment response: either subcategory rows
// (structured categories and virtual parents) or direct service rows (leaf
// and free-text listings).
type CategoryListing struct {
	Category      *CategoryInfo    `json:"category"`
	Subcategories []SubcategoryRow `json:"subcategories,omitempty"`
	Services      []ServiceSummary `json:"services,omitempty"`
	ItemsCount    int              `json:"items_count"`
}

// SubcategoryListing is the two-segment response.
type SubcategoryListing struct {
	Category    *CategoryInfo    `json:"category"`
	Subcategory SubcategoryRow   `json:"subcategory"`
	Services    []ServiceSummary `json:"services"`
	ItemsCount  int              `json:"items_count"`
}

// ServiceDetail is the three-segment (or leaf two-segment) response.
type ServiceDetail struct {
	Service     Service       `json:"service"`
	Category    *CategoryInfo `json:"category,omitempty"`
	Subcategory *CategoryInfo `json:"subcategory,omitempty"`
}

func projectCategory(c *Category) *CategoryInfo {
	if c == nil {
		return nil
	}
	return &CategoryInfo{
		ID:              c.InternalID,
		ExternalID:      c.ExternalID,
		Slug:            c.Slug,
		Title:           c.Title,
		Description:     c.Description,
		IconName:        c.IconName,
		HeroTitle:       c.HeroTitle,
		HeroDescription: c.HeroDescription,
		Type:            c.Type,
	}
}

func projectNode(n *CategoryNode) *CategoryInfo {
	if n.Synthetic() {
		return &CategoryInfo{
			Slug:    n.Type,
			Title:   n.Type,
			Type:    n.Type,
			Virtual: true,
		}
	}
	return projectCategory(n.Stored)
}

func projectCategoryRow(c *Category, itemsCount int) SubcategoryRow {
	return SubcategoryRow{
		ID:               c.InternalID,
		Slug:             c.Slug,
		Title:            c.Title,
		ShortDescription: c.Description,
		IconName:         c.IconName,
		ItemsCount:       itemsCount,
	}
}

func projectServiceRow(s *Service, itemsCount int) SubcategoryRow {
	return SubcategoryRow{
		ID:               s.ID,
		Slug:             s.Slug,
		Title:            s.Title,
		ShortDescription: s.ShortDescription,
		IconName:         s.IconName,
		ItemsCount:       itemsCount,
	}
}

func projectServices(services []Service) []ServiceSummary {
	out := make([]ServiceSummary, 0, len(services))
	for i := range services {
		s := &services[i]
		out = append(out, ServiceSummary{
			ID:               s.ID,
			Slug:             s.Slug,
			Title:            s.Title,
			ShortDescription: s.ShortDescription,
			IconName:         s.IconName,
			Price:            s.Price,
			Duration:         s.Duration,
		})
	}
	return out
}
