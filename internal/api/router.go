package api

import (
	"log"
	"net/http"
	"time"

	"github.com/example/taxconsult-api/internal/api/middleware"
	"github.com/example/taxconsult-api/internal/auth"
)

// NewRouter creates and configures the HTTP router
func NewRouter(h *Handlers, jwtService *auth.JWTService) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Auth routes
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			h.HandleLogin(w, r)
		default:
			respondJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	})
	mux.HandleFunc("/api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			h.HandleLogout(w, r)
		default:
			respondJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	})

	// Public catalog routes. The exact "categories" registration wins over the
	// trailing-slash prefix pattern.
	mux.HandleFunc("/api/services/categories", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.HandleListCategories(w, r)
		default:
			respondJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	})
	mux.HandleFunc("/api/services/", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.HandleServicePath(w, r)
		default:
			respondJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	})

	// Lead capture routes
	mux.HandleFunc("/api/leads/callback", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			h.HandleCaptureCallback(w, r)
		default:
			respondJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	})
	mux.HandleFunc("/api/leads/inquiry", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			h.HandleCaptureInquiry(w, r)
		default:
			respondJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	})

	// Admin routes (admin role required)
	requireAdmin := func(next http.Handler) http.Handler {
		return middleware.AuthMiddleware(jwtService)(middleware.RequireRole(auth.RoleAdmin)(next))
	}

	mux.Handle("/api/admin/categories", requireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			h.HandleCreateCategory(w, r)
		default:
			respondJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	})))
	mux.Handle("/api/admin/categories/", requireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			h.HandleUpdateCategory(w, r)
		case http.MethodDelete:
			h.HandleDeleteCategory(w, r)
		default:
			respondJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	})))
	mux.Handle("/api/admin/services", requireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			h.HandleCreateService(w, r)
		default:
			respondJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	})))
	mux.Handle("/api/admin/services/", requireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			h.HandleUpdateService(w, r)
		case http.MethodDelete:
			h.HandleDeleteService(w, r)
		default:
			respondJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	})))
	mux.Handle("/api/admin/leads", requireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.HandleListLeads(w, r)
		default:
			respondJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	})))
	mux.Handle("/api/admin/leads/", requireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			h.HandleMarkLeadContacted(w, r)
		default:
			respondJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	})))

	return withLogging(mux)
}

// withLogging logs each request with method, path, and duration
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("[API] %s %s %v", r.Method, r.URL.Path, time.Since(start))
	})
}
