package model

import "time"

type LLMRun struct {
	Id                        int64        `gorm:"primaryKey;autoIncrement"`
	UserMessageId             int64        `gorm:"not null;uniqueIndex"`
	UserMessage               *ChatMessage `gorm:"foreignKey:UserMessageId;constraint:OnDelete:CASCADE"`
	RetrievedContextKnowledge string       `gorm:"type:text"`
	RetrievedContextMemory    string       `gorm:"type:text"`
	GeneratedSQL              string       `gorm:"column:generated_sql;type:text"`
	LLMModelUsed              string       `gorm:"column:llm_model_used;type:varchar(255)"`
	LLMProviderUsed           string       `gorm:"column:llm_provider_used;type:varchar(50)"`
	TokenLLM                  int          `gorm:"column:token_llm;default:0"`
	IsSuccess                 bool         `gorm:"not null"`
	EndpointPath              string       `gorm:"type:varchar(255)"`
	LatencyTotalMs            int64
	LatencyClassificationMs   int64
	LatencyRagMs              int64
	LatencySQLGenerationMs    int64 `gorm:"column:latency_sql_generation_ms"`
	LatencySQLExecutionMs     int64 `gorm:"column:latency_sql_execution_ms"`
	LatencyReasoningMs        int64
	Timestamp                 time.Time `gorm:"autoCreateTime"`
}

func (LLMRun) TableName() string {
	return "llm_runs"
}
