package lead

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLeadStore struct {
	leads   []Lead
	saveErr error
}

func (f *fakeLeadStore) SaveLead(ctx context.Context, l *Lead) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.leads = append(f.leads, *l)
	return nil
}

func (f *fakeLeadStore) GetLead(ctx context.Context, id string) (*Lead, error) {
	for i := range f.leads {
		if f.leads[i].ID == id {
			l := f.leads[i]
			return &l, nil
		}
	}
	return nil, nil
}

func (f *fakeLeadStore) ListLeads(ctx context.Context) ([]Lead, error) {
	return append([]Lead(nil), f.leads...), nil
}

func (f *fakeLeadStore) SetLeadStatus(ctx context.Context, id, status string) error {
	for i := range f.leads {
		if f.leads[i].ID == id {
			f.leads[i].Status = status
			return nil
		}
	}
	return ErrNotFound
}

type recordingPublisher struct {
	keys   []string
	events []any
	err    error
}

func (r *recordingPublisher) Publish(ctx context.Context, key string, event any) error {
	if r.err != nil {
		return r.err
	}
	r.keys = append(r.keys, key)
	r.events = append(r.events, event)
	return nil
}

func TestService_CaptureCallback(t *testing.T) {
	store := &fakeLeadStore{}
	pub := &recordingPublisher{}
	svc := NewService(store, pub)

	got, err := svc.CaptureCallback(context.Background(), Lead{Name: "Asha Verma", Phone: "+91-9000000001", ServiceSlug: "gst-registration"})
	require.NoError(t, err)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, KindCallback, got.Kind)
	assert.Equal(t, StatusNew, got.Status)
	require.Len(t, store.leads, 1)

	require.Len(t, pub.events, 1)
	event := pub.events[0].(CapturedEvent)
	assert.Equal(t, EventLeadCaptured, event.EventType)
	assert.Equal(t, got.ID, event.LeadID)
	assert.Equal(t, "gst-registration", event.ServiceSlug)
	assert.Equal(t, got.ID, pub.keys[0])
}

func TestService_CaptureInquiry_Validation(t *testing.T) {
	svc := NewService(&fakeLeadStore{}, nil)

	_, err := svc.CaptureInquiry(context.Background(), Lead{Phone: "+91-9000000001"})
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = svc.CaptureInquiry(context.Background(), Lead{Name: "Asha"})
	assert.ErrorIs(t, err, ErrPhoneRequired)
}

func TestService_Capture_PublishFailureDoesNotLoseLead(t *testing.T) {
	store := &fakeLeadStore{}
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := NewService(store, pub)

	got, err := svc.CaptureCallback(context.Background(), Lead{Name: "Asha", Phone: "123"})
	require.NoError(t, err)
	assert.NotEmpty(t, got.ID)
	assert.Len(t, store.leads, 1)
}

func TestService_Capture_StoreFailure(t *testing.T) {
	store := &fakeLeadStore{saveErr: errors.New("write failed")}
	svc := NewService(store, nil)

	_, err := svc.CaptureCallback(context.Background(), Lead{Name: "Asha", Phone: "123"})
	assert.Error(t, err)
}

func TestService_MarkContacted(t *testing.T) {
	store := &fakeLeadStore{}
	svc := NewService(store, nil)

	got, err := svc.CaptureCallback(context.Background(), Lead{Name: "Asha", Phone: "123"})
	require.NoError(t, err)

	require.NoError(t, svc.MarkContacted(context.Background(), got.ID))
	assert.Equal(t, StatusContacted, store.leads[0].Status)

	err = svc.MarkContacted(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
