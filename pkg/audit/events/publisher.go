package events

import (
	"context"
	"time"

	"chat-budgeting-be/internal/entity"
	"chat-budgeting-be/internal/pkg/logger"
	pkgEvents "chat-budgeting-be/pkg/events"
)

// Sink is the transport an event is handed to, satisfied by *nats.Publisher.
type Sink interface {
	Publish(ctx context.Context, event pkgEvents.Event) error
}

// Publisher abstracts event publishing for audit records
type Publisher interface {
	PublishRunRecorded(ctx context.Context, run *entity.LLMRun)
}

// NatsPublisher ignores every call when built without a sink.
type NatsPublisher struct {
	sink   Sink
	logger logger.ILogger
}

func NewNatsPublisher(sink Sink, logger logger.ILogger) *NatsPublisher {
	return &NatsPublisher{
		sink:   sink,
		logger: logger,
	}
}

// PublishRunRecorded emits NL2SQL_RUN_RECORDED. Failures are logged only.
func (p *NatsPublisher) PublishRunRecorded(ctx context.Context, run *entity.LLMRun) {
	if p == nil || p.sink == nil || run == nil {
		return
	}

	evt := pkgEvents.BaseEvent{
		Type: pkgEvents.NL2SQLRunRecorded,
		Data: map[string]interface{}{
			"run_id":           run.Id,
			"user_message_id":  run.UserMessageId,
			"endpoint_path":    run.EndpointPath,
			"llm_model_used":   run.LLMModelUsed,
			"llm_provider":     run.LLMProviderUsed,
			"generated_sql":    run.GeneratedSQL,
			"latency_total_ms": run.LatencyTotalMs,
			"is_success":       run.IsSuccess,
		},
		OccurredAt: time.Now(),
	}

	if err := p.sink.Publish(ctx, evt); err != nil {
		p.logger.Error("AUDIT", "Failed to publish NL2SQL_RUN_RECORDED event", map[string]interface{}{"error": err.Error()})
	}
}
