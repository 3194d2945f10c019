package dto

import (
	"time"

	"github.com/google/uuid"
)

// RecordLLMRunMessage is the payload of the llm run audit job.
type RecordLLMRunMessage struct {
	UserMessageId             int64     `json:"user_message_id"`
	RetrievedContextKnowledge string    `json:"retrieved_context_knowledge"`
	RetrievedContextMemory    string    `json:"retrieved_context_memory"`
	GeneratedSQL              string    `json:"generated_sql"`
	LLMModelUsed              string    `json:"llm_model_used"`
	LLMProviderUsed           string    `json:"llm_provider_used"`
	TokenLLM                  int       `json:"token_llm"`
	EndpointPath              string    `json:"endpoint_path"`
	LatencyTotalMs            int64     `json:"latency_total_ms"`
	LatencyClassificationMs   int64     `json:"latency_classification_ms"`
	LatencyRagMs              int64     `json:"latency_rag_ms"`
	LatencySQLGenerationMs    int64     `json:"latency_sql_generation_ms"`
	LatencySQLExecutionMs     int64     `json:"latency_sql_execution_ms"`
	LatencyReasoningMs        int64     `json:"latency_reasoning_ms"`
	Timestamp                 time.Time `json:"timestamp"`
}

// UpsertMessageVectorMessage is the payload of the vector job. PointId is
// fixed when the job is published so redeliveries overwrite the same point.
type UpsertMessageVectorMessage struct {
	PointId   uuid.UUID `json:"point_id"`
	MessageId int64     `json:"message_id"`
	RoomId    int64     `json:"room_id"`
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}
