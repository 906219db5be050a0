package api

import (
	"net/http"

	"github.com/example/taxconsult-api/internal/lead"
)

// CallbackRequest represents a phone-back request from the callback widget
type CallbackRequest struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	ServiceSlug   string `json:"service_slug,omitempty"`
	PreferredTime string `json:"preferred_time,omitempty"`
}

// InquiryRequest represents a contact-form inquiry
type InquiryRequest struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Email       string `json:"email,omitempty"`
	Subject     string `json:"subject,omitempty"`
	Message     string `json:"message,omitempty"`
	ServiceSlug string `json:"service_slug,omitempty"`
}

// HandleCaptureCallback handles POST /api/leads/callback
func (h *Handlers) HandleCaptureCallback(w http.ResponseWriter, r *http.Request) {
	var req CallbackRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	captured, err := h.leads.CaptureCallback(r.Context(), lead.Lead{
		Name:          req.Name,
		Phone:         req.Phone,
		ServiceSlug:   req.ServiceSlug,
		PreferredTime: req.PreferredTime,
	})
	if err != nil {
		respondCatalogError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, captured)
}

// HandleCaptureInquiry handles POST /api/leads/inquiry
func (h *Handlers) HandleCaptureInquiry(w http.ResponseWriter, r *http.Request) {
	var req InquiryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	captured, err := h.leads.CaptureInquiry(r.Context(), lead.Lead{
		Name:        req.Name,
		Phone:       req.Phone,
		Email:       req.Email,
		Subject:     req.Subject,
		Message:     req.Message,
		ServiceSlug: req.ServiceSlug,
	})
	if err != nil {
		respondCatalogError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, captured)
}
