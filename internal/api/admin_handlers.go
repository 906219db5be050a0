package api

import (
	"net/http"
	"strings"

	"github.com/example/taxconsult-api/internal/catalog"
)

// HandleCreateCategory handles POST /api/admin/categories
func (h *Handlers) HandleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var cat catalog.Category
	if err := decodeJSON(r, &cat); err != nil {
		respondJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(cat.Slug) == "" {
		respondJSONError(w, http.StatusBadRequest, "slug is required")
		return
	}

	created, err := h.admin.CreateCategory(r.Context(), cat)
	if err != nil {
		respondCatalogError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// HandleUpdateCategory handles PUT /api/admin/categories/{id}
func (h *Handlers) HandleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/api/admin/categories/")
	if id == "" {
		respondJSONError(w, http.StatusBadRequest, "category id is required")
		return
	}

	var cat catalog.Category
	if err := decodeJSON(r, &cat); err != nil {
		respondJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.admin.UpdateCategory(r.Context(), id, cat)
	if err != nil {
		respondCatalogError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// HandleDeleteCategory handles DELETE /api/admin/categories/{id}
func (h *Handlers) HandleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/api/admin/categories/")
	if id == "" {
		respondJSONError(w, http.StatusBadRequest, "category id is required")
		return
	}

	if err := h.admin.DeleteCategory(r.Context(), id); err != nil {
		respondCatalogError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "category deleted"})
}

// HandleCreateService handles POST /api/admin/services
func (h *Handlers) HandleCreateService(w http.ResponseWriter, r *http.Request) {
	var svc catalog.Service
	if err := decodeJSON(r, &svc); err != nil {
		respondJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(svc.Slug) == "" {
		respondJSONError(w, http.StatusBadRequest, "slug is required")
		return
	}

	created, err := h.admin.CreateService(r.Context(), svc)
	if err != nil {
		respondCatalogError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// HandleUpdateService handles PUT /api/admin/services/{id}
func (h *Handlers) HandleUpdateService(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/api/admin/services/")
	if id == "" {
		respondJSONError(w, http.StatusBadRequest, "service id is required")
		return
	}

	var svc catalog.Service
	if err := decodeJSON(r, &svc); err != nil {
		respondJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.admin.UpdateService(r.Context(), id, svc)
	if err != nil {
		respondCatalogError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// HandleDeleteService handles DELETE /api/admin/services/{id}
func (h *Handlers) HandleDeleteService(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/api/admin/services/")
	if id == "" {
		respondJSONError(w, http.StatusBadRequest, "service id is required")
		return
	}

	if err := h.admin.DeleteService(r.Context(), id); err != nil {
		respondCatalogError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "service deleted"})
}

// HandleListLeads handles GET /api/admin/leads
func (h *Handlers) HandleListLeads(w http.ResponseWriter, r *http.Request) {
	leads, err := h.leads.List(r.Context())
	if err != nil {
		respondCatalogError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"leads": leads,
		"count": len(leads),
	})
}

// HandleMarkLeadContacted handles POST /api/admin/leads/{id}/contacted
func (h *Handlers) HandleMarkLeadContacted(w http.ResponseWriter, r *http.Request) {
	path := extractPathParam(r.URL.Path, "/api/admin/leads/")
	id := strings.TrimSuffix(path, "/contacted")
	if id == "" || id == path {
		respondJSONError(w, http.StatusNotFound, "not found")
		return
	}

	if err := h.leads.MarkContacted(r.Context(), id); err != nil {
		respondCatalogError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "lead marked contacted"})
}
