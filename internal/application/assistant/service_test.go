package assistant

import (
	"context"
	"testing"
	"time"

	"github.com/kinboard-api/internal/domain"
	"github.com/kinboard-api/internal/infrastructure/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockLLM struct{ mock.Mock }

func (m *mockLLM) Chat(ctx context.Context, messages []llm.Message) (string, error) {
	args := m.Called(ctx, messages)
	return args.String(0), args.Error(1)
}

type mockEvents struct{ mock.Mock }

func (m *mockEvents) List(ctx context.Context, familyID string, from, to time.Time) ([]domain.Event, error) {
	args := m.Called(ctx, familyID, from, to)
	if evs, _ := args.Get(0).([]domain.Event); evs != nil {
		return evs, args.Error(1)
	}
	return nil, args.Error(1)
}

func TestChat_InjectsCalendarContext(t *testing.T) {
	events := &mockEvents{}
	events.On("List", mock.Anything, "fam1", mock.Anything, mock.Anything).Return([]domain.Event{
		{Title: "Swim practice", StartsAt: time.Date(2026, 9, 3, 16, 0, 0, 0, time.UTC)},
	}, nil)

	ai := &mockLLM{}
	ai.On("Chat", mock.Anything, mock.MatchedBy(func(msgs []llm.Message) bool {
		return len(msgs) == 2 && msgs[0].Role == "system" &&
			assert.ObjectsAreEqual("user", msgs[1].Role)
	})).Return("You have swim practice on Thursday.", nil)

	svc := NewService(ai, events)
	reply, err := svc.Chat(context.Background(), "fam1", ChatRequest{
		Messages: []llm.Message{{Role: "user", Content: "what's coming up?"}},
	})

	require.NoError(t, err)
	assert.Equal(t, "You have swim practice on Thursday.", reply)

	sys := ai.Calls[0].Arguments.Get(1).([]llm.Message)[0]
	assert.Contains(t, sys.Content, "Swim practice")
}

func TestChat_CalendarFailureIsNotFatal(t *testing.T) {
	events := &mockEvents{}
	events.On("List", mock.Anything, "fam1", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	ai := &mockLLM{}
	ai.On("Chat", mock.Anything, mock.Anything).Return("hello", nil)

	svc := NewService(ai, events)
	reply, err := svc.Chat(context.Background(), "fam1", ChatRequest{
		Messages: []llm.Message{{Role: "user", Content: "hi"}},
	})

	require.NoError(t, err)
	assert.Equal(t, "hello", reply)
}
