package lead

import (
	"context"
	"time"
)

// Lead kinds. A callback is a phone-back request from the floating widget;
// an inquiry is the long contact form with a subject and message.
const (
	KindCallback = "callback"
	KindInquiry  = "inquiry"
)

// Lead status lifecycle: new -> notified -> contacted.
const (
	StatusNew       = "new"
	StatusNotified  = "notified"
	StatusContacted = "contacted"
)

// Lead is a captured callback or inquiry request.
type Lead struct {
	ID            string    `json:"id"`
	Kind          string    `json:"kind"`
	Name          string    `json:"name"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email,omitempty"`
	Subject       string    `json:"subject,omitempty"`
	Message       string    `json:"message,omitempty"`
	ServiceSlug   string    `json:"service_slug,omitempty"`
	PreferredTime string    `json:"preferred_time,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Store is the persistence contract for leads.
type Store interface {
	SaveLead(ctx context.Context, l *Lead) error
	GetLead(ctx context.Context, id string) (*Lead, error)
	ListLeads(ctx context.Context) ([]Lead, error)
	SetLeadStatus(ctx context.Context, id, status string) error
}
