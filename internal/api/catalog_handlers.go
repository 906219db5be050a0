package api

import (
	"net/http"
	"strings"

	"github.com/example/taxconsult-api/internal/api/middleware"
	"github.com/example/taxconsult-api/internal/auth"
)

// HandleListCategories handles GET /api/services/categories. It returns the
// raw stored categories, not a resolved listing; the frontend navigation
// builds itself from this.
func (h *Handlers) HandleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.ListCategories(r.Context())
	if err != nil {
		respondCatalogError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"categories": categories,
		"count":      len(categories),
	})
}

// HandleServicePath handles GET /api/services/{category}[/{sub}[/{slug}]].
// One segment resolves a category listing, two a subcategory listing (or a
// service detail when the category turns out to be flat), three a service
// detail.
func (h *Handlers) HandleServicePath(w http.ResponseWriter, r *http.Request) {
	path := extractPathParam(r.URL.Path, "/api/services/")
	path = strings.Trim(path, "/")
	if path == "" {
		respondJSONError(w, http.StatusBadRequest, "category is required")
		return
	}

	segments := strings.Split(path, "/")
	if len(segments) > 3 {
		respondJSONError(w, http.StatusNotFound, "not found")
		return
	}

	includeDrafts := h.includeDrafts(r)

	switch len(segments) {
	case 1:
		listing, err := h.resolver.ResolveCategoryLevel(r.Context(), segments[0], includeDrafts)
		if err != nil {
			respondCatalogError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, listing)
	case 2:
		listing, detail, err := h.resolver.ResolveSubcategoryLevel(r.Context(), segments[0], segments[1], includeDrafts)
		if err != nil {
			respondCatalogError(w, err)
			return
		}
		if detail != nil {
			respondJSON(w, http.StatusOK, detail)
			return
		}
		respondJSON(w, http.StatusOK, listing)
	case 3:
		detail, err := h.resolver.ResolveServiceDetail(r.Context(), segments[0], segments[1], segments[2], includeDrafts)
		if err != nil {
			respondCatalogError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, detail)
	}
}

// includeDrafts honors ?includeDrafts=true only for an authenticated admin;
// anonymous callers always get the published view.
func (h *Handlers) includeDrafts(r *http.Request) bool {
	if r.URL.Query().Get("includeDrafts") != "true" {
		return false
	}
	tokenString := middleware.ExtractToken(r)
	if tokenString == "" {
		return false
	}
	claims, err := h.jwtService.ValidateAccessToken(tokenString)
	if err != nil {
		return false
	}
	return claims.Role == auth.RoleAdmin
}
