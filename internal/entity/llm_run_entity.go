package entity

import "time"

// LLMRun is the audit record of one completed pipeline run, keyed by the user
// turn that triggered it. Written once, never updated.
type LLMRun struct {
	Id                        int64
	UserMessageId             int64
	RetrievedContextKnowledge string
	RetrievedContextMemory    string
	GeneratedSQL              string
	LLMModelUsed              string
	LLMProviderUsed           string
	TokenLLM                  int
	IsSuccess                 bool
	EndpointPath              string
	LatencyTotalMs            int64
	LatencyClassificationMs   int64
	LatencyRagMs              int64
	LatencySQLGenerationMs    int64
	LatencySQLExecutionMs     int64
	LatencyReasoningMs        int64
	Timestamp                 time.Time
}
