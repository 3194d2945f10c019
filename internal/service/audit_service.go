// FILE: internal/service/audit_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"chat-budgeting-be/internal/config"
	"chat-budgeting-be/internal/dto"
	"chat-budgeting-be/internal/entity"
	"chat-budgeting-be/internal/pkg/logger"
	"chat-budgeting-be/internal/repository/unitofwork"
	auditEvents "chat-budgeting-be/pkg/audit/events"
	"chat-budgeting-be/pkg/embedding"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

// IAuditService runs the background audit and vector jobs.
type IAuditService interface {
	// Run blocks until ctx is cancelled or the router is closed.
	Run(ctx context.Context) error
	// Running is closed once every handler is subscribed.
	Running() chan struct{}
	Close() error
}

type auditService struct {
	router            *message.Router
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	events            auditEvents.Publisher
	logger            logger.ILogger
}

func NewAuditService(
	subscriber message.Subscriber,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	events auditEvents.Publisher,
	log logger.ILogger,
	cfg config.AuditConfig,
) (IAuditService, error) {
	wmLogger := logger.NewWatermillAdapter(log, "AUDIT")

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: 10 * time.Second}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("create audit router: %w", err)
	}

	s := &auditService{
		router:            router,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		events:            events,
		logger:            log,
	}

	// outermost first: give up after retries so gochannel does not redeliver forever
	router.AddMiddleware(
		s.dropAfterRetries,
		middleware.Retry{
			MaxRetries:      cfg.MaxRetries,
			InitialInterval: cfg.RetryInterval,
			Multiplier:      2,
			MaxInterval:     30 * time.Second,
			Logger:          wmLogger,
		}.Middleware,
		middleware.Recoverer,
	)

	router.AddNoPublisherHandler("record_llm_run", TopicRecordLLMRun, subscriber, s.handleRecordLLMRun)
	router.AddNoPublisherHandler("upsert_message_vector", TopicUpsertMessageVector, subscriber, s.handleUpsertMessageVector)

	return s, nil
}

func (s *auditService) Run(ctx context.Context) error {
	return s.router.Run(ctx)
}

func (s *auditService) Running() chan struct{} {
	return s.router.Running()
}

func (s *auditService) Close() error {
	return s.router.Close()
}

func (s *auditService) dropAfterRetries(h message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		produced, err := h(msg)
		if err != nil {
			s.logger.Error("AUDIT", "Job dropped after retries", map[string]interface{}{
				"message_uuid": msg.UUID,
				"handler":      message.HandlerNameFromCtx(msg.Context()),
				"error":        err.Error(),
			})
			return nil, nil
		}
		return produced, nil
	}
}

func (s *auditService) handleRecordLLMRun(msg *message.Message) error {
	var payload dto.RecordLLMRunMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		s.logger.Error("AUDIT", "Malformed llm run payload", map[string]interface{}{"error": err.Error()})
		return nil
	}

	ctx := msg.Context()
	run := &entity.LLMRun{
		UserMessageId:             payload.UserMessageId,
		RetrievedContextKnowledge: payload.RetrievedContextKnowledge,
		RetrievedContextMemory:    payload.RetrievedContextMemory,
		GeneratedSQL:              payload.GeneratedSQL,
		LLMModelUsed:              payload.LLMModelUsed,
		LLMProviderUsed:           payload.LLMProviderUsed,
		TokenLLM:                  payload.TokenLLM,
		IsSuccess:                 true,
		EndpointPath:              payload.EndpointPath,
		LatencyTotalMs:            payload.LatencyTotalMs,
		LatencyClassificationMs:   payload.LatencyClassificationMs,
		LatencyRagMs:              payload.LatencyRagMs,
		LatencySQLGenerationMs:    payload.LatencySQLGenerationMs,
		LatencySQLExecutionMs:     payload.LatencySQLExecutionMs,
		LatencyReasoningMs:        payload.LatencyReasoningMs,
		Timestamp:                 payload.Timestamp,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	created, err := uow.LLMRunRepository().CreateIfAbsent(ctx, run)
	if err != nil {
		return fmt.Errorf("record llm run for message %d: %w", payload.UserMessageId, err)
	}
	if !created {
		s.logger.Debug("AUDIT", "LLM run already recorded", map[string]interface{}{"user_message_id": payload.UserMessageId})
		return nil
	}

	s.events.PublishRunRecorded(ctx, run)
	s.logger.Info("AUDIT", "LLM run recorded", map[string]interface{}{
		"user_message_id": payload.UserMessageId,
		"latency_ms":      payload.LatencyTotalMs,
	})
	return nil
}

func (s *auditService) handleUpsertMessageVector(msg *message.Message) error {
	var payload dto.UpsertMessageVectorMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		s.logger.Error("AUDIT", "Malformed vector payload", map[string]interface{}{"error": err.Error()})
		return nil
	}

	ctx := msg.Context()
	res, err := s.embeddingProvider.Generate(ctx, payload.Text, embedding.TaskRetrievalDocument)
	if err != nil {
		return fmt.Errorf("embed message %d: %w", payload.MessageId, err)
	}

	vector := &entity.MessageVector{
		Id:        payload.PointId,
		Embedding: res.Embedding.Values,
		Payload: entity.VectorPayload{
			Text:              payload.Text,
			Sender:            entity.Sender(payload.Sender),
			RoomId:            payload.RoomId,
			Timestamp:         payload.Timestamp.UTC().Format(time.RFC3339),
			OriginalMessageId: payload.MessageId,
		},
		CreatedAt: time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.MessageVectorRepository().Upsert(ctx, vector); err != nil {
		return fmt.Errorf("upsert vector for message %d: %w", payload.MessageId, err)
	}

	s.logger.Debug("AUDIT", "Message vector upserted", map[string]interface{}{
		"message_id": payload.MessageId,
		"point_id":   payload.PointId.String(),
	})
	return nil
}
