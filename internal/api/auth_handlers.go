package api

import (
	"log"
	"net/http"
	"time"

	"github.com/example/taxconsult-api/internal/auth"
)

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents a login response
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
}

// HandleLogin handles POST /api/auth/login against the configured admin
// account. The token is returned in the body and set as an HttpOnly cookie.
func (h *Handlers) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email != h.adminCreds.Email || !auth.CheckPassword(req.Password, h.adminCreds.PasswordHash) {
		log.Printf("[API] failed login attempt for %s", req.Email)
		respondJSONError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, expiresAt, err := h.jwtService.GenerateAccessToken(req.Email, auth.RoleAdmin)
	if err != nil {
		log.Printf("[API] failed to generate token: %v", err)
		respondJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	respondJSON(w, http.StatusOK, LoginResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		Email:       req.Email,
		Role:        auth.RoleAdmin,
	})
}

// HandleLogout handles POST /api/auth/logout by expiring the cookie.
func (h *Handlers) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	respondJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}
