// Package intent decides whether a question belongs to the budgeting domain.
package intent

import (
	"context"
	"strings"

	"chat-budgeting-be/internal/constant"
	"chat-budgeting-be/internal/pkg/logger"
	"chat-budgeting-be/pkg/apperror"
	"chat-budgeting-be/pkg/llm"
	"chat-budgeting-be/pkg/nl2sql"
)

type Classifier struct {
	llmLog logger.ILogger
}

func NewClassifier(llmLog logger.ILogger) *Classifier {
	return &Classifier{llmLog: llmLog}
}

// Classify asks the model for a category and returns its answer trimmed but
// otherwise as written. Conversational mode adds the rendered history to the
// prompt.
func (c *Classifier) Classify(ctx context.Context, provider llm.LLMProvider, question, history string, conversational bool) (string, error) {
	template := constant.QuestionClassificationPrompt
	vars := map[string]string{constant.PlaceholderQuestion: question}
	if conversational {
		template = constant.QuestionClassificationConversationPrompt
		vars[constant.PlaceholderHistory] = historyOrPlaceholder(history)
	}
	prompt := nl2sql.RenderPrompt(template, vars)

	raw, err := provider.Generate(ctx, prompt, llm.WithTemperature(0), llm.WithMaxTokens(16))
	if err != nil {
		return "", apperror.Infrastructure("classify question", err)
	}

	c.llmLog.Debug("INTENT", "Classification", map[string]interface{}{
		"question": question,
		"raw":      raw,
	})
	return strings.TrimSpace(raw), nil
}

// Decide returns a *apperror.DomainRelevanceError unless the classification
// is in-domain. Markers match case-insensitively and the error keeps the
// classification as given. Continuations are accepted in conversational mode
// only.
func Decide(classification string, conversational bool) error {
	lowered := strings.ToLower(classification)
	if strings.Contains(lowered, constant.IntentCompanyData) {
		return nil
	}
	if conversational && strings.Contains(lowered, constant.IntentContinuation) {
		return nil
	}
	return &apperror.DomainRelevanceError{Classification: classification}
}

func historyOrPlaceholder(history string) string {
	if strings.TrimSpace(history) == "" {
		return constant.EmptyHistoryLabel
	}
	return history
}
