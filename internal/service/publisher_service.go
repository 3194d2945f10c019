// FILE: internal/service/publisher_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"

	"chat-budgeting-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

const (
	TopicRecordLLMRun        = "nl2sql.llm_run.record"
	TopicUpsertMessageVector = "nl2sql.message_vector.upsert"
)

type IPublisherService interface {
	PublishRecordLLMRun(ctx context.Context, payload dto.RecordLLMRunMessage) error
	PublishUpsertMessageVector(ctx context.Context, payload dto.UpsertMessageVectorMessage) error
}

type publisherService struct {
	publisher message.Publisher
}

func NewPublisherService(publisher message.Publisher) IPublisherService {
	return &publisherService{
		publisher: publisher,
	}
}

func (s *publisherService) PublishRecordLLMRun(ctx context.Context, payload dto.RecordLLMRunMessage) error {
	return s.publish(ctx, TopicRecordLLMRun, payload)
}

func (s *publisherService) PublishUpsertMessageVector(ctx context.Context, payload dto.UpsertMessageVectorMessage) error {
	return s.publish(ctx, TopicUpsertMessageVector, payload)
}

func (s *publisherService) publish(ctx context.Context, topic string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", topic, err)
	}

	msg := message.NewMessage(watermill.NewUUID(), body)
	// the request context ends with the response, the job must outlive it
	msg.SetContext(context.WithoutCancel(ctx))

	if err := s.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}
