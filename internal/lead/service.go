package lead

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNameRequired  = errors.New("name is required")
	ErrPhoneRequired = errors.New("phone is required")
	ErrNotFound      = errors.New("lead not found")
)

// Publisher is the event-publishing contract the capture path needs. The
// Kafka producer satisfies it; tests inject a recorder.
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}

// Service captures leads: validate, persist, publish. Event publication is
// best-effort; a broker outage must not lose the lead itself.
type Service struct {
	store     Store
	publisher Publisher
}

func NewService(store Store, publisher Publisher) *Service {
	return &Service{store: store, publisher: publisher}
}

// CaptureCallback records a phone-back request.
func (s *Service) CaptureCallback(ctx context.Context, l Lead) (*Lead, error) {
	l.Kind = KindCallback
	return s.capture(ctx, l)
}

// CaptureInquiry records a contact-form inquiry.
func (s *Service) CaptureInquiry(ctx context.Context, l Lead) (*Lead, error) {
	l.Kind = KindInquiry
	return s.capture(ctx, l)
}

func (s *Service) capture(ctx context.Context, l Lead) (*Lead, error) {
	l.Name = strings.TrimSpace(l.Name)
	l.Phone = strings.TrimSpace(l.Phone)
	if l.Name == "" {
		return nil, ErrNameRequired
	}
	if l.Phone == "" {
		return nil, ErrPhoneRequired
	}

	l.ID = uuid.New().String()
	l.Status = StatusNew
	now := time.Now().UTC()
	l.CreatedAt = now
	l.UpdatedAt = now

	if err := s.store.SaveLead(ctx, &l); err != nil {
		return nil, fmt.Errorf("saving lead: %w", err)
	}

	if s.publisher != nil {
		event := CapturedEvent{
			EventType:   EventLeadCaptured,
			LeadID:      l.ID,
			Kind:        l.Kind,
			Name:        l.Name,
			Phone:       l.Phone,
			ServiceSlug: l.ServiceSlug,
			CapturedAt:  now,
		}
		if err := s.publisher.Publish(ctx, l.ID, event); err != nil {
			log.Printf("[Lead] failed to publish %s for %s: %v", EventLeadCaptured, l.ID, err)
		}
	}

	log.Printf("[Lead] captured %s lead %s (%s)", l.Kind, l.ID, l.Phone)
	return &l, nil
}

// List returns every lead, newest first per the store's ordering.
func (s *Service) List(ctx context.Context) ([]Lead, error) {
	return s.store.ListLeads(ctx)
}

// MarkContacted advances a lead to the contacted state.
func (s *Service) MarkContacted(ctx context.Context, id string) error {
	l, err := s.store.GetLead(ctx, id)
	if err != nil {
		return fmt.Errorf("loading lead: %w", err)
	}
	if l == nil {
		return ErrNotFound
	}
	return s.store.SetLeadStatus(ctx, id, StatusContacted)
}
