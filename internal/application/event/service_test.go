package event

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/kinboard-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockStore struct{ mock.Mock }

func (m *mockStore) Put(ctx context.Context, e *domain.Event) error {
	return m.Called(ctx, e).Error(0)
}
func (m *mockStore) Get(ctx context.Context, eventID string) (*domain.Event, error) {
	args := m.Called(ctx, eventID)
	if e, _ := args.Get(0).(*domain.Event); e != nil {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockStore) ListByFamily(ctx context.Context, familyID string, from, to time.Time) ([]domain.Event, error) {
	args := m.Called(ctx, familyID, from, to)
	return args.Get(0).([]domain.Event), args.Error(1)
}
func (m *mockStore) Update(ctx context.Context, eventID string, updates map[string]interface{}) error {
	return m.Called(ctx, eventID, updates).Error(0)
}
func (m *mockStore) SoftDelete(ctx context.Context, eventID string) error {
	return m.Called(ctx, eventID).Error(0)
}

type mockAttachments struct{ mock.Mock }

func (m *mockAttachments) Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	args := m.Called(ctx, key, r, contentType)
	return args.String(0), args.Error(1)
}
func (m *mockAttachments) PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, key, ttl)
	return args.String(0), args.Error(1)
}
func (m *mockAttachments) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendEmail(to, subject, body string) error {
	return m.Called(to, subject, body).Error(0)
}

type mockSMSSender struct{ mock.Mock }

func (m *mockSMSSender) SendSMS(ctx context.Context, to, msg string) error {
	return m.Called(ctx, to, msg).Error(0)
}

// --- tests ---

func TestCreate_SetsDefaultsAndPersists(t *testing.T) {
	store := &mockStore{}
	store.On("Put", mock.Anything, mock.MatchedBy(func(e *domain.Event) bool {
		return e.EventID != "" && e.Enable && e.FamilyID == "fam1" && e.UserID == "u1" &&
			e.EndsAt.Equal(e.StartsAt.Add(time.Hour))
	})).Return(nil)

	svc := NewService(store, nil, nil, nil)
	starts := time.Date(2026, 9, 12, 14, 0, 0, 0, time.UTC)
	e, err := svc.Create(context.Background(), "fam1", "u1", domain.CreateEventRequest{
		Title:    "Swim practice",
		StartsAt: starts,
	})

	require.NoError(t, err)
	assert.Equal(t, "Swim practice", e.Title)
	store.AssertExpectations(t)
}

func TestCreate_EndsBeforeStarts(t *testing.T) {
	svc := NewService(&mockStore{}, nil, nil, nil)
	starts := time.Date(2026, 9, 12, 14, 0, 0, 0, time.UTC)

	_, err := svc.Create(context.Background(), "fam1", "u1", domain.CreateEventRequest{
		Title:    "Backwards",
		StartsAt: starts,
		EndsAt:   starts.Add(-time.Hour),
	})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestCreate_Remind_SendsInvitesBestEffort(t *testing.T) {
	store := &mockStore{}
	store.On("Put", mock.Anything, mock.Anything).Return(nil)

	mailer := &mockMailer{}
	mailer.On("SendEmail", "ben@example.com", mock.Anything, mock.Anything).Return(assert.AnError)

	sms := &mockSMSSender{}
	sms.On("SendSMS", mock.Anything, "+15550001", mock.Anything).Return(nil)

	svc := NewService(store, nil, mailer, sms)
	_, err := svc.Create(context.Background(), "fam1", "u1", domain.CreateEventRequest{
		Title:    "BBQ",
		StartsAt: time.Now().Add(24 * time.Hour),
		Remind:   true,
		Attendees: []domain.Attendee{
			{Name: "Ben", Email: "ben@example.com"},
			{Name: "Mia", Phone: "+15550001"},
		},
	})

	// A failed email must not fail the creation.
	require.NoError(t, err)
	mailer.AssertExpectations(t)
	sms.AssertExpectations(t)
}

func TestGet_OtherFamilyLooksMissing(t *testing.T) {
	store := &mockStore{}
	store.On("Get", mock.Anything, "ev1").Return(&domain.Event{
		EventID: "ev1", FamilyID: "fam2", UserID: "u9", Enable: true,
	}, nil)

	svc := NewService(store, nil, nil, nil)
	_, err := svc.Get(context.Background(), "fam1", "ev1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdate_NonCreatorForbidden(t *testing.T) {
	store := &mockStore{}
	store.On("Get", mock.Anything, "ev1").Return(&domain.Event{
		EventID: "ev1", FamilyID: "fam1", UserID: "u1", Enable: true,
	}, nil)

	svc := NewService(store, nil, nil, nil)
	title := "hijacked"
	_, err := svc.Update(context.Background(), "fam1", "u2", "ev1", domain.UpdateEventRequest{Title: &title})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	store.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdate_OnlyChangedFields(t *testing.T) {
	store := &mockStore{}
	ev := &domain.Event{EventID: "ev1", FamilyID: "fam1", UserID: "u1", Enable: true}
	store.On("Get", mock.Anything, "ev1").Return(ev, nil)
	store.On("Update", mock.Anything, "ev1", map[string]interface{}{"title": "Dentist"}).Return(nil)

	svc := NewService(store, nil, nil, nil)
	title := "Dentist"
	_, err := svc.Update(context.Background(), "fam1", "u1", "ev1", domain.UpdateEventRequest{Title: &title})
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestDelete_RemovesAttachment(t *testing.T) {
	store := &mockStore{}
	store.On("Get", mock.Anything, "ev1").Return(&domain.Event{
		EventID: "ev1", FamilyID: "fam1", UserID: "u1", Enable: true,
		AttachmentKey: "events/ev1/map.pdf",
	}, nil)
	store.On("SoftDelete", mock.Anything, "ev1").Return(nil)

	atts := &mockAttachments{}
	atts.On("Delete", mock.Anything, "events/ev1/map.pdf").Return(nil)

	svc := NewService(store, atts, nil, nil)
	require.NoError(t, svc.Delete(context.Background(), "fam1", "u1", "ev1"))
	atts.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestAttachmentURL_NoAttachment(t *testing.T) {
	store := &mockStore{}
	store.On("Get", mock.Anything, "ev1").Return(&domain.Event{
		EventID: "ev1", FamilyID: "fam1", UserID: "u1", Enable: true,
	}, nil)

	svc := NewService(store, &mockAttachments{}, nil, nil)
	_, err := svc.AttachmentURL(context.Background(), "fam1", "ev1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
