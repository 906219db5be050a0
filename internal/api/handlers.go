package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/example/taxconsult-api/internal/auth"
	"github.com/example/taxconsult-api/internal/catalog"
	"github.com/example/taxconsult-api/internal/lead"
)

// AdminCredentials is the single admin account the login endpoint checks
// against. The hash is bcrypt, supplied via configuration.
type AdminCredentials struct {
	Email        string
	PasswordHash string
}

// Handlers holds HTTP handler dependencies
type Handlers struct {
	resolver   *catalog.Resolver
	admin      *catalog.Admin
	leads      *lead.Service
	store      catalog.Store
	jwtService *auth.JWTService
	adminCreds AdminCredentials
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	resolver *catalog.Resolver,
	admin *catalog.Admin,
	leads *lead.Service,
	store catalog.Store,
	jwtService *auth.JWTService,
	adminCreds AdminCredentials,
) *Handlers {
	return &Handlers{
		resolver:   resolver,
		admin:      admin,
		leads:      leads,
		store:      store,
		jwtService: jwtService,
		adminCreds: adminCreds,
	}
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("[API] failed to encode response: %v", err)
		}
	}
}

// respondJSONError writes a JSON error response
func respondJSONError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// extractPathParam extracts a path parameter after the given prefix
func extractPathParam(path, prefix string) string {
	return strings.TrimPrefix(path, prefix)
}

// respondCatalogError maps catalog and lead errors to HTTP status codes.
// Unknown errors are logged and surfaced as a bare 500.
func respondCatalogError(w http.ResponseWriter, err error) {
	switch {
	case catalog.IsNotFound(err):
		respondJSONError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, catalog.ErrSlugTaken),
		errors.Is(err, catalog.ErrExternalIDTaken),
		errors.Is(err, catalog.ErrCategoryInUse):
		respondJSONError(w, http.StatusConflict, err.Error())
	case errors.Is(err, lead.ErrNameRequired), errors.Is(err, lead.ErrPhoneRequired):
		respondJSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, lead.ErrNotFound):
		respondJSONError(w, http.StatusNotFound, err.Error())
	default:
		log.Printf("[API] internal error: %v", err)
		respondJSONError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON decodes a request body into dst, rejecting malformed payloads.
func decodeJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}
