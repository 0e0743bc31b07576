package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kinboard-api/internal/domain"
	"github.com/kinboard-api/internal/infrastructure/llm"
)

// EventLister is the slice of the calendar the assistant may read.
type EventLister interface {
	List(ctx context.Context, familyID string, from, to time.Time) ([]domain.Event, error)
}

// ChatRequest is the payload for an assistant conversation turn.
type ChatRequest struct {
	Messages []llm.Message `json:"messages" validate:"required,min=1,dive"`
}

type Service interface {
	Chat(ctx context.Context, familyID string, req ChatRequest) (string, error)
}

type service struct {
	llm    llm.Client
	events EventLister
}

func NewService(llmClient llm.Client, events EventLister) Service {
	return &service{llm: llmClient, events: events}
}

// Chat forwards the conversation to the configured model, prefixed with a
// summary of the family's next two weeks so the assistant can answer
// schedule questions. The calendar context is best-effort: if listing fails
// the chat still goes through without it.
func (s *service) Chat(ctx context.Context, familyID string, req ChatRequest) (string, error) {
	now := time.Now().UTC()
	system := llm.Message{
		Role:    "system",
		Content: fmt.Sprintf("You are a family calendar assistant. Today is %s.", now.Format("Monday, January 2, 2006")),
	}

	events, err := s.events.List(ctx, familyID, now, now.AddDate(0, 0, 14))
	if err != nil {
		slog.Warn("assistant could not load calendar context", "family_id", familyID, "err", err)
	} else if len(events) > 0 {
		system.Content += "\nUpcoming events:\n" + summarize(events)
	}

	messages := append([]llm.Message{system}, req.Messages...)
	return s.llm.Chat(ctx, messages)
}

func summarize(events []domain.Event) string {
	var b strings.Builder
	for _, e := range events {
		fmt.Fprintf(&b, "- %s: %s", e.StartsAt.Format("Mon Jan 2 15:04"), e.Title)
		if e.Location != "" {
			fmt.Fprintf(&b, " @ %s", e.Location)
		}
		b.WriteString("\n")
	}
	return b.String()
}
