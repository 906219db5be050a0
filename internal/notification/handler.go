package notification

import (
	"context"
	"encoding/json"
	"log"

	"github.com/example/taxconsult-api/internal/lead"
)

// Handler processes lead events from Kafka. Delivery to the sales team is
// handled outside this service; the worker records notification state so a
// crashed consumer never re-alerts the same lead.
type Handler struct {
	leads lead.Store
}

// NewHandler creates a new notification handler
func NewHandler(leads lead.Store) *Handler {
	return &Handler{leads: leads}
}

// HandleEvent processes an event from Kafka.
func (h *Handler) HandleEvent(ctx context.Context, key, value []byte) error {
	var event lead.CapturedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		log.Printf("[Notifier] Failed to unmarshal event: %v", err)
		return err
	}

	if event.EventType != lead.EventLeadCaptured {
		return nil
	}
	return h.handleLeadCaptured(ctx, event)
}

func (h *Handler) handleLeadCaptured(ctx context.Context, e lead.CapturedEvent) error {
	log.Printf("[Notifier] Processing %s for lead %s (%s)", e.EventType, e.LeadID, e.Kind)

	stored, err := h.leads.GetLead(ctx, e.LeadID)
	if err != nil {
		log.Printf("[Notifier] Error loading lead %s: %v", e.LeadID, err)
		return err
	}
	if stored == nil {
		// The lead row may lag behind the event with a non-transactional
		// store; skip and let a later event or manual review catch it.
		log.Printf("[Notifier] Lead not found: %s", e.LeadID)
		return nil
	}
	if stored.Status != lead.StatusNew {
		log.Printf("[Notifier] Lead %s already %s, skipping", e.LeadID, stored.Status)
		return nil
	}

	if err := h.leads.SetLeadStatus(ctx, e.LeadID, lead.StatusNotified); err != nil {
		log.Printf("[Notifier] Failed to mark lead %s notified: %v", e.LeadID, err)
		return err
	}

	log.Printf("[Notifier] Lead %s marked notified", e.LeadID)
	return nil
}
