package mapper

import (
	"chat-budgeting-be/internal/entity"
	"chat-budgeting-be/internal/model"
)

type LLMRunMapper struct{}

func NewLLMRunMapper() *LLMRunMapper {
	return &LLMRunMapper{}
}

func (m *LLMRunMapper) ToEntity(r *model.LLMRun) *entity.LLMRun {
	if r == nil {
		return nil
	}
	return &entity.LLMRun{
		Id:                        r.Id,
		UserMessageId:             r.UserMessageId,
		RetrievedContextKnowledge: r.RetrievedContextKnowledge,
		RetrievedContextMemory:    r.RetrievedContextMemory,
		GeneratedSQL:              r.GeneratedSQL,
		LLMModelUsed:              r.LLMModelUsed,
		LLMProviderUsed:           r.LLMProviderUsed,
		TokenLLM:                  r.TokenLLM,
		IsSuccess:                 r.IsSuccess,
		EndpointPath:              r.EndpointPath,
		LatencyTotalMs:            r.LatencyTotalMs,
		LatencyClassificationMs:   r.LatencyClassificationMs,
		LatencyRagMs:              r.LatencyRagMs,
		LatencySQLGenerationMs:    r.LatencySQLGenerationMs,
		LatencySQLExecutionMs:     r.LatencySQLExecutionMs,
		LatencyReasoningMs:        r.LatencyReasoningMs,
		Timestamp:                 r.Timestamp,
	}
}

func (m *LLMRunMapper) ToModel(r *entity.LLMRun) *model.LLMRun {
	if r == nil {
		return nil
	}
	return &model.LLMRun{
		Id:                        r.Id,
		UserMessageId:             r.UserMessageId,
		RetrievedContextKnowledge: r.RetrievedContextKnowledge,
		RetrievedContextMemory:    r.RetrievedContextMemory,
		GeneratedSQL:              r.GeneratedSQL,
		LLMModelUsed:              r.LLMModelUsed,
		LLMProviderUsed:           r.LLMProviderUsed,
		TokenLLM:                  r.TokenLLM,
		IsSuccess:                 r.IsSuccess,
		EndpointPath:              r.EndpointPath,
		LatencyTotalMs:            r.LatencyTotalMs,
		LatencyClassificationMs:   r.LatencyClassificationMs,
		LatencyRagMs:              r.LatencyRagMs,
		LatencySQLGenerationMs:    r.LatencySQLGenerationMs,
		LatencySQLExecutionMs:     r.LatencySQLExecutionMs,
		LatencyReasoningMs:        r.LatencyReasoningMs,
		Timestamp:                 r.Timestamp,
	}
}
