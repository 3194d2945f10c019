// Package generation turns a question and schema context into SQL text.
package generation

import (
	"context"
	"strings"

	"chat-budgeting-be/internal/constant"
	"chat-budgeting-be/internal/pkg/logger"
	"chat-budgeting-be/pkg/apperror"
	"chat-budgeting-be/pkg/llm"
	"chat-budgeting-be/pkg/nl2sql"
)

type Generator struct {
	llmLog logger.ILogger
}

func NewGenerator(llmLog logger.ILogger) *Generator {
	return &Generator{llmLog: llmLog}
}

type Input struct {
	Question       string
	SchemaContext  string
	History        string
	Conversational bool
}

// Generate returns the model output untouched. Sanitizing and validation
// happen in sqlguard.
func (g *Generator) Generate(ctx context.Context, provider llm.LLMProvider, in Input) (string, error) {
	template := constant.SQLGenerationPrompt
	vars := map[string]string{
		constant.PlaceholderQuestion: in.Question,
		constant.PlaceholderContext:  in.SchemaContext,
	}
	if in.Conversational {
		template = constant.SQLGenerationConversationPrompt
		history := in.History
		if strings.TrimSpace(history) == "" {
			history = constant.EmptyHistoryLabel
		}
		vars[constant.PlaceholderHistory] = history
	}
	prompt := nl2sql.RenderPrompt(template, vars)

	raw, err := provider.Generate(ctx, prompt, llm.WithTemperature(0))
	if err != nil {
		return "", apperror.Infrastructure("generate sql", err)
	}

	g.llmLog.Debug("GENERATION", "SQL generated", map[string]interface{}{
		"question": in.Question,
		"prompt":   prompt,
		"raw":      raw,
	})
	return raw, nil
}
