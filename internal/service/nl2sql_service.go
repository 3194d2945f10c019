// FILE: internal/service/nl2sql_service.go
package service

import (
	"context"
	"time"

	"chat-budgeting-be/internal/config"
	"chat-budgeting-be/internal/constant"
	"chat-budgeting-be/internal/dto"
	"chat-budgeting-be/internal/entity"
	"chat-budgeting-be/internal/pkg/logger"
	"chat-budgeting-be/pkg/apperror"
	"chat-budgeting-be/pkg/latency"
	"chat-budgeting-be/pkg/llm"
	"chat-budgeting-be/pkg/llm/router"
	"chat-budgeting-be/pkg/lock"
	"chat-budgeting-be/pkg/nl2sql/generation"
	"chat-budgeting-be/pkg/nl2sql/history"
	"chat-budgeting-be/pkg/nl2sql/intent"
	"chat-budgeting-be/pkg/nl2sql/reasoning"
	"chat-budgeting-be/pkg/nl2sql/resultset"
	"chat-budgeting-be/pkg/sqlguard"

	"github.com/google/uuid"
)

// Flow selects one of the pipeline variants.
type Flow int

const (
	FlowSingleShotReasoning Flow = iota
	FlowSingleShotData
	FlowConversational
)

func (f Flow) Conversational() bool { return f == FlowConversational }

func (f Flow) WithReasoning() bool { return f != FlowSingleShotData }

// EndpointPath is stored on LLM run records.
func (f Flow) EndpointPath() string {
	switch f {
	case FlowSingleShotData:
		return "/api/v1/nl2sql/sql-data"
	case FlowConversational:
		return "/api/v1/nl2sql/sql-data-reasoning-conversation"
	default:
		return "/api/v1/nl2sql/sql-data-reasoning"
	}
}

// Stage contracts, satisfied by the pkg/nl2sql packages.
type (
	ModelResolver interface {
		Resolve(model string) (router.Resolution, error)
	}
	IntentClassifier interface {
		Classify(ctx context.Context, provider llm.LLMProvider, question, history string, conversational bool) (string, error)
	}
	SchemaRetriever interface {
		Retrieve(ctx context.Context, question string) (string, error)
	}
	SQLGenerator interface {
		Generate(ctx context.Context, provider llm.LLMProvider, in generation.Input) (string, error)
	}
	QueryExecutor interface {
		Execute(ctx context.Context, stmt string) ([]resultset.Row, error)
	}
	RowSummarizer interface {
		Summarize(ctx context.Context, provider llm.LLMProvider, in reasoning.Input) (string, error)
	}
	ConversationMemory interface {
		Messages(ctx context.Context, roomID int64) ([]*entity.ChatMessage, error)
		AddMessage(ctx context.Context, in history.AddMessageInput) (*entity.ChatMessage, error)
	}
)

// NL2SQLStages groups the pipeline stages handed to NewNL2SQLService.
type NL2SQLStages struct {
	Classifier IntentClassifier
	Retriever  SchemaRetriever
	Generator  SQLGenerator
	Executor   QueryExecutor
	Summarizer RowSummarizer
}

type INL2SQLService interface {
	Run(ctx context.Context, flow Flow, req *dto.NL2SQLRequest) (*dto.NL2SQLResponse, error)
}

type nl2sqlService struct {
	models        ModelResolver
	stages        NL2SQLStages
	memory        ConversationMemory
	rooms         IRoomService
	locker        lock.RoomLocker
	publisher     IPublisherService
	logger        logger.ILogger
	pipeline      config.PipelineConfig
	historyWindow int
}

func NewNL2SQLService(
	models ModelResolver,
	stages NL2SQLStages,
	memory ConversationMemory,
	rooms IRoomService,
	locker lock.RoomLocker,
	publisher IPublisherService,
	logger logger.ILogger,
	pipeline config.PipelineConfig,
	historyWindow int,
) INL2SQLService {
	return &nl2sqlService{
		models:        models,
		stages:        stages,
		memory:        memory,
		rooms:         rooms,
		locker:        locker,
		publisher:     publisher,
		logger:        logger,
		pipeline:      pipeline,
		historyWindow: historyWindow,
	}
}

// runState is the transient state of one request.
type runState struct {
	flow           Flow
	req            *dto.NL2SQLRequest
	model          router.Resolution
	historyText    string
	userMessage    *entity.ChatMessage
	classification string
	schemaContext  string
	sql            string
	rows           []resultset.Row
	reasoning      string
	timings        latency.Stages
}

func (s *nl2sqlService) Run(ctx context.Context, flow Flow, req *dto.NL2SQLRequest) (*dto.NL2SQLResponse, error) {
	start := time.Now()
	if s.pipeline.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.pipeline.RequestTimeout)
		defer cancel()
	}

	model, err := s.models.Resolve(req.Model)
	if err != nil {
		return nil, err
	}

	room, err := s.rooms.PrepareTurn(ctx, req.Nip, req.KodeUnit, req.DisplayName, req.RoomId)
	if err != nil {
		return nil, err
	}

	if flow.Conversational() {
		release, err := s.locker.Acquire(ctx, room.Id)
		if err != nil {
			return nil, err
		}
		defer release()
	}

	st := &runState{flow: flow, req: req, model: model}

	if flow.Conversational() {
		turns, err := s.memory.Messages(ctx, room.Id)
		if err != nil {
			return nil, apperror.Infrastructure("load history", err)
		}
		st.historyText = history.Window(turns, s.historyWindow)
	}

	userMessage, err := s.memory.AddMessage(ctx, history.AddMessageInput{
		RoomID: room.Id,
		Sender: entity.SenderUser,
		Text:   req.Prompt,
	})
	if err != nil {
		return nil, apperror.Infrastructure("save user turn", err)
	}
	st.userMessage = userMessage

	if err := s.execute(ctx, st); err != nil {
		s.logger.Warn("NL2SQL", "Pipeline run failed", map[string]interface{}{
			"flow":            st.flow.EndpointPath(),
			"room_id":         room.Id,
			"user_message_id": userMessage.Id,
			"classification":  st.classification,
			"sql":             st.sql,
			"error":           err.Error(),
		})
		if flow.Conversational() {
			s.recordFailure(ctx, room.Id, userMessage.Id, err)
		}
		return nil, err
	}

	aiText := constant.DataOnlyAIMessage
	if flow.WithReasoning() {
		aiText = st.reasoning
	}
	aiMessage, err := s.memory.AddMessage(ctx, history.AddMessageInput{
		RoomID:  room.Id,
		Sender:  entity.SenderAI,
		Text:    aiText,
		ReplyTo: &userMessage.Id,
	})
	if err != nil {
		err = apperror.Infrastructure("save ai turn", err)
		if flow.Conversational() {
			s.recordFailure(ctx, room.Id, userMessage.Id, err)
		}
		return nil, err
	}

	st.timings.Total = latency.Since(start)
	s.schedule(ctx, st, aiMessage)

	s.logger.Info("NL2SQL", "Pipeline run completed", map[string]interface{}{
		"flow":              st.flow.EndpointPath(),
		"room_id":           room.Id,
		"user_message_id":   userMessage.Id,
		"model":             model.Model,
		"provider":          model.Kind.String(),
		"rows":              len(st.rows),
		"latency_total_ms":  st.timings.Total,
		"latency_class_ms":  st.timings.Classification,
		"latency_rag_ms":    st.timings.Retrieval,
		"latency_sqlgen_ms": st.timings.Generation,
		"latency_exec_ms":   st.timings.Execution,
		"latency_reason_ms": st.timings.Summarization,
	})

	resp := &dto.NL2SQLResponse{Query: st.sql, DataRaw: st.rows}
	if flow.WithReasoning() {
		reasoningText := st.reasoning
		resp.Reasoning = &reasoningText
	}
	return resp, nil
}

// execute runs classification through summarization, filling st.
func (s *nl2sqlService) execute(ctx context.Context, st *runState) error {
	conversational := st.flow.Conversational()
	var err error

	st.classification, st.timings.Classification, err = latency.Measure(ctx, "classification", func(ctx context.Context) (string, error) {
		ctx, cancel := s.llmStage(ctx)
		defer cancel()
		return s.stages.Classifier.Classify(ctx, st.model, st.req.Prompt, st.historyText, conversational)
	})
	if err != nil {
		return err
	}
	if err := intent.Decide(st.classification, conversational); err != nil {
		return err
	}

	st.schemaContext, st.timings.Retrieval, err = latency.Measure(ctx, "retrieval", func(ctx context.Context) (string, error) {
		ctx, cancel := s.llmStage(ctx)
		defer cancel()
		return s.stages.Retriever.Retrieve(ctx, st.req.Prompt)
	})
	if err != nil {
		return err
	}

	raw, elapsed, err := latency.Measure(ctx, "generation", func(ctx context.Context) (string, error) {
		ctx, cancel := s.llmStage(ctx)
		defer cancel()
		return s.stages.Generator.Generate(ctx, st.model, generation.Input{
			Question:       st.req.Prompt,
			SchemaContext:  st.schemaContext,
			History:        st.historyText,
			Conversational: conversational,
		})
	})
	st.timings.Generation = elapsed
	if err != nil {
		return err
	}

	st.sql = sqlguard.Sanitize(raw)
	if err := sqlguard.Validate(st.sql); err != nil {
		return err
	}

	st.rows, st.timings.Execution, err = latency.Measure(ctx, "execution", func(ctx context.Context) ([]resultset.Row, error) {
		return s.stages.Executor.Execute(ctx, st.sql)
	})
	if err != nil {
		return err
	}

	if !st.flow.WithReasoning() {
		return nil
	}

	st.reasoning, st.timings.Summarization, err = latency.Measure(ctx, "summarization", func(ctx context.Context) (string, error) {
		ctx, cancel := s.llmStage(ctx)
		defer cancel()
		return s.stages.Summarizer.Summarize(ctx, st.model, reasoning.Input{
			Question:       st.req.Prompt,
			Rows:           st.rows,
			History:        st.historyText,
			Conversational: conversational,
		})
	})
	return err
}

func (s *nl2sqlService) llmStage(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.pipeline.LLMStageTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.pipeline.LLMStageTimeout)
}

// recordFailure appends the user-facing error text as the ai reply. It runs
// detached from the request deadline, which may be what failed.
func (s *nl2sqlService) recordFailure(ctx context.Context, roomId, userMessageId int64, cause error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if _, err := s.memory.AddMessage(ctx, history.AddMessageInput{
		RoomID:  roomId,
		Sender:  entity.SenderAI,
		Text:    apperror.PublicMessage(cause),
		ReplyTo: &userMessageId,
	}); err != nil {
		s.logger.Error("NL2SQL", "Failed to record error turn", map[string]interface{}{
			"room_id": roomId,
			"cause":   cause.Error(),
			"error":   err.Error(),
		})
	}
}

// schedule hands the audit record and both turn vectors to the background
// jobs. Publish failures are logged and never reach the caller.
func (s *nl2sqlService) schedule(ctx context.Context, st *runState, aiMessage *entity.ChatMessage) {
	run := dto.RecordLLMRunMessage{
		UserMessageId:             st.userMessage.Id,
		RetrievedContextKnowledge: st.schemaContext,
		RetrievedContextMemory:    st.historyText,
		GeneratedSQL:              st.sql,
		LLMModelUsed:              st.model.Model,
		LLMProviderUsed:           st.model.Kind.String(),
		TokenLLM:                  llm.EstimateTokens(st.classification, st.sql, st.reasoning),
		EndpointPath:              st.flow.EndpointPath(),
		LatencyTotalMs:            st.timings.Total,
		LatencyClassificationMs:   st.timings.Classification,
		LatencyRagMs:              st.timings.Retrieval,
		LatencySQLGenerationMs:    st.timings.Generation,
		LatencySQLExecutionMs:     st.timings.Execution,
		LatencyReasoningMs:        st.timings.Summarization,
		Timestamp:                 time.Now().UTC(),
	}
	if err := s.publisher.PublishRecordLLMRun(ctx, run); err != nil {
		s.logger.Error("NL2SQL", "Failed to schedule llm run record", map[string]interface{}{"error": err.Error()})
	}

	for _, m := range []*entity.ChatMessage{st.userMessage, aiMessage} {
		job := dto.UpsertMessageVectorMessage{
			PointId:   uuid.New(),
			MessageId: m.Id,
			RoomId:    m.RoomId,
			Sender:    string(m.Sender),
			Text:      m.MessageText,
			Timestamp: m.Timestamp,
		}
		if err := s.publisher.PublishUpsertMessageVector(ctx, job); err != nil {
			s.logger.Error("NL2SQL", "Failed to schedule message vector", map[string]interface{}{
				"message_id": m.Id,
				"error":      err.Error(),
			})
		}
	}
}
