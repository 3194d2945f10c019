package dto

import "time"

type CreateRoomRequest struct {
	Nip         string `json:"nip" validate:"required,max=32"`
	KodeUnit    string `json:"kode_unit" validate:"max=32"`
	DisplayName string `json:"display_name" validate:"max=128"`
	Title       string `json:"title" validate:"required,max=255"`
}

type RoomResponse struct {
	Id        int64     `json:"id"`
	UserId    int64     `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

type ChatMessageResponse struct {
	Id          int64     `json:"id"`
	Seq         int64     `json:"seq"`
	Sender      string    `json:"sender"`
	MessageText string    `json:"message_text"`
	TokenUser   int       `json:"token_user"`
	Timestamp   time.Time `json:"timestamp"`
	ReplyToId   *int64    `json:"reply_to_id"`
}

type ClearHistoryResponse struct {
	RoomId          int64 `json:"room_id"`
	DeletedMessages int64 `json:"deleted_messages"`
}

type LLMRunResponse struct {
	Id                        int64     `json:"id"`
	UserMessageId             int64     `json:"user_message_id"`
	RetrievedContextKnowledge string    `json:"retrieved_context_knowledge"`
	RetrievedContextMemory    string    `json:"retrieved_context_memory"`
	GeneratedSQL              string    `json:"generated_sql"`
	LLMModelUsed              string    `json:"llm_model_used"`
	LLMProviderUsed           string    `json:"llm_provider_used"`
	TokenLLM                  int       `json:"token_llm"`
	IsSuccess                 bool      `json:"is_success"`
	EndpointPath              string    `json:"endpoint_path"`
	LatencyTotalMs            int64     `json:"latency_total_ms"`
	LatencyClassificationMs   int64     `json:"latency_classification_ms"`
	LatencyRagMs              int64     `json:"latency_rag_ms"`
	LatencySQLGenerationMs    int64     `json:"latency_sql_generation_ms"`
	LatencySQLExecutionMs     int64     `json:"latency_sql_execution_ms"`
	LatencyReasoningMs        int64     `json:"latency_reasoning_ms"`
	Timestamp                 time.Time `json:"timestamp"`
}
