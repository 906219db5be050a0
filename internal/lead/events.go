package lead

import "time"

// TopicLeads is the Kafka topic carrying lead lifecycle events.
const TopicLeads = "leads"

// Event types.
const (
	EventLeadCaptured = "LeadCaptured"
)

// CapturedEvent is published when a callback or inquiry lead is stored.
// The notifier worker consumes it and marks the lead notified.
type CapturedEvent struct {
	EventType   string    `json:"event_type"`
	LeadID      string    `json:"lead_id"`
	Kind        string    `json:"kind"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	ServiceSlug string    `json:"service_slug,omitempty"`
	CapturedAt  time.Time `json:"captured_at"`
}
