package events

import (
	"context"
	"errors"
	"testing"

	"chat-budgeting-be/internal/entity"
	"chat-budgeting-be/internal/pkg/logger"
	pkgEvents "chat-budgeting-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	events []pkgEvents.Event
	err    error
}

func (s *recordingSink) Publish(ctx context.Context, event pkgEvents.Event) error {
	s.events = append(s.events, event)
	return s.err
}

func TestPublishRunRecorded(t *testing.T) {
	sink := &recordingSink{}
	p := NewNatsPublisher(sink, logger.NewNopLogger())

	p.PublishRunRecorded(context.Background(), &entity.LLMRun{Id: 3, UserMessageId: 11, LLMModelUsed: "gemini-2.0-flash"})

	require.Len(t, sink.events, 1)
	assert.Equal(t, pkgEvents.NL2SQLRunRecorded, sink.events[0].EventType())
	assert.Equal(t, int64(11), sink.events[0].Payload()["user_message_id"])
}

func TestPublishRunRecordedIsNilSafe(t *testing.T) {
	assert.NotPanics(t, func() {
		NewNatsPublisher(nil, logger.NewNopLogger()).PublishRunRecorded(context.Background(), &entity.LLMRun{})
		var p *NatsPublisher
		p.PublishRunRecorded(context.Background(), &entity.LLMRun{})
	})
}

func TestPublishRunRecordedSwallowsSinkError(t *testing.T) {
	sink := &recordingSink{err: errors.New("no responders")}
	p := NewNatsPublisher(sink, logger.NewNopLogger())

	assert.NotPanics(t, func() {
		p.PublishRunRecorded(context.Background(), &entity.LLMRun{UserMessageId: 1})
	})
	assert.Len(t, sink.events, 1)
}
