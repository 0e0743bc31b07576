package event

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/kinboard-api/internal/domain"
	s3infra "github.com/kinboard-api/internal/infrastructure/s3"
	"github.com/kinboard-api/internal/pkg/id"
)

// Store is the minimal interface the service requires from the events table.
type Store interface {
	Put(ctx context.Context, e *domain.Event) error
	Get(ctx context.Context, eventID string) (*domain.Event, error)
	ListByFamily(ctx context.Context, familyID string, from, to time.Time) ([]domain.Event, error)
	Update(ctx context.Context, eventID string, updates map[string]interface{}) error
	SoftDelete(ctx context.Context, eventID string) error
}

// AttachmentStore is the minimal interface the service requires from the
// object storage backend.
type AttachmentStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

// Mailer sends invite emails.
type Mailer interface {
	SendEmail(to, subject, body string) error
}

// SMSSender sends invite texts.
type SMSSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

type Service interface {
	Create(ctx context.Context, familyID, userID string, req domain.CreateEventRequest) (*domain.Event, error)
	Get(ctx context.Context, familyID, eventID string) (*domain.Event, error)
	List(ctx context.Context, familyID string, from, to time.Time) ([]domain.Event, error)
	Update(ctx context.Context, familyID, userID, eventID string, req domain.UpdateEventRequest) (*domain.Event, error)
	Delete(ctx context.Context, familyID, userID, eventID string) error
	Attach(ctx context.Context, familyID, userID, eventID, filename string, r io.Reader) (string, error)
	AttachmentURL(ctx context.Context, familyID, eventID string) (string, error)
}

type service struct {
	store       Store
	attachments AttachmentStore
	mailer      Mailer
	smsSender   SMSSender
}

func NewService(store Store, attachments AttachmentStore, mailer Mailer, smsSender SMSSender) Service {
	return &service{
		store:       store,
		attachments: attachments,
		mailer:      mailer,
		smsSender:   smsSender,
	}
}

func (s *service) Create(ctx context.Context, familyID, userID string, req domain.CreateEventRequest) (*domain.Event, error) {
	endsAt := req.EndsAt
	if endsAt.IsZero() {
		endsAt = req.StartsAt.Add(time.Hour)
	}
	if endsAt.Before(req.StartsAt) {
		return nil, fmt.Errorf("event ends before it starts: %w", domain.ErrBadRequest)
	}

	now := time.Now().UTC()
	e := &domain.Event{
		EventID:     id.New(),
		FamilyID:    familyID,
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		StartsAt:    req.StartsAt,
		EndsAt:      endsAt,
		AllDay:      req.AllDay,
		Attendees:   req.Attendees,
		Color:       req.Color,
		Enable:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Put(ctx, e); err != nil {
		return nil, err
	}

	if req.Remind {
		s.sendInvites(ctx, e)
	}
	return e, nil
}

// sendInvites notifies attendees. Best-effort: a failed channel is logged and
// skipped, never failing the event creation that triggered it.
func (s *service) sendInvites(ctx context.Context, e *domain.Event) {
	subject := "Invitation: " + e.Title
	body := fmt.Sprintf("%s\n%s\nStarts: %s", e.Title, e.Location, e.StartsAt.Format(time.RFC1123))

	for _, a := range e.Attendees {
		if a.Email != "" && s.mailer != nil {
			if err := s.mailer.SendEmail(a.Email, subject, body); err != nil {
				slog.Warn("failed to send invite email", "event_id", e.EventID, "to", a.Email, "err", err)
			}
		}
		if a.Phone != "" && s.smsSender != nil {
			msg := fmt.Sprintf("%s on %s", e.Title, e.StartsAt.Format("Mon Jan 2 15:04"))
			if err := s.smsSender.SendSMS(ctx, a.Phone, msg); err != nil {
				slog.Warn("failed to send invite SMS", "event_id", e.EventID, "err", err)
			}
		}
	}
}

// Get returns the event if it belongs to the caller's family. Events of other
// families look exactly like missing events.
func (s *service) Get(ctx context.Context, familyID, eventID string) (*domain.Event, error) {
	e, err := s.store.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if e.FamilyID != familyID {
		return nil, fmt.Errorf("event %s: %w", eventID, domain.ErrNotFound)
	}
	return e, nil
}

func (s *service) List(ctx context.Context, familyID string, from, to time.Time) ([]domain.Event, error) {
	return s.store.ListByFamily(ctx, familyID, from, to)
}

func (s *service) Update(ctx context.Context, familyID, userID, eventID string, req domain.UpdateEventRequest) (*domain.Event, error) {
	e, err := s.Get(ctx, familyID, eventID)
	if err != nil {
		return nil, err
	}
	if e.UserID != userID {
		return nil, fmt.Errorf("only the creator can edit an event: %w", domain.ErrForbidden)
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.Latitude != nil {
		updates["latitude"] = *req.Latitude
	}
	if req.Longitude != nil {
		updates["longitude"] = *req.Longitude
	}
	if req.StartsAt != nil {
		updates["starts_at"] = *req.StartsAt
	}
	if req.EndsAt != nil {
		updates["ends_at"] = *req.EndsAt
	}
	if req.AllDay != nil {
		updates["all_day"] = *req.AllDay
	}
	if req.Attendees != nil {
		updates["attendees"] = req.Attendees
	}
	if req.Color != nil {
		updates["color"] = *req.Color
	}
	if len(updates) == 0 {
		return e, nil
	}

	if err := s.store.Update(ctx, eventID, updates); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, eventID)
}

func (s *service) Delete(ctx context.Context, familyID, userID, eventID string) error {
	e, err := s.Get(ctx, familyID, eventID)
	if err != nil {
		return err
	}
	if e.UserID != userID {
		return fmt.Errorf("only the creator can delete an event: %w", domain.ErrForbidden)
	}

	if e.AttachmentKey != "" {
		if err := s.attachments.Delete(ctx, e.AttachmentKey); err != nil {
			slog.Warn("failed to delete event attachment", "event_id", eventID, "err", err)
		}
	}
	return s.store.SoftDelete(ctx, eventID)
}

// Attach uploads a file for the event and records its object key.
func (s *service) Attach(ctx context.Context, familyID, userID, eventID, filename string, r io.Reader) (string, error) {
	e, err := s.Get(ctx, familyID, eventID)
	if err != nil {
		return "", err
	}
	if e.UserID != userID {
		return "", fmt.Errorf("only the creator can attach files: %w", domain.ErrForbidden)
	}

	key := fmt.Sprintf("events/%s/%s", eventID, filename)
	url, err := s.attachments.Upload(ctx, key, r, s3infra.DetectContentType(filename))
	if err != nil {
		return "", err
	}
	if err := s.store.Update(ctx, eventID, map[string]interface{}{"attachment_key": key}); err != nil {
		return "", err
	}
	return url, nil
}

// AttachmentURL returns a short-lived presigned download URL.
func (s *service) AttachmentURL(ctx context.Context, familyID, eventID string) (string, error) {
	e, err := s.Get(ctx, familyID, eventID)
	if err != nil {
		return "", err
	}
	if e.AttachmentKey == "" {
		return "", fmt.Errorf("event %s has no attachment: %w", eventID, domain.ErrNotFound)
	}
	return s.attachments.PresignedURL(ctx, e.AttachmentKey, 15*time.Minute)
}
