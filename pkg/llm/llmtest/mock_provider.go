// Package llmtest provides a testify mock of llm.LLMProvider.
package llmtest

import (
	"context"
	"strings"

	"chat-budgeting-be/pkg/llm"

	"github.com/stretchr/testify/mock"
)

// MockProvider records calls. Option values are resolved into llm.Options
// before matching, so expectations can assert on model or temperature.
type MockProvider struct {
	mock.Mock
}

var _ llm.LLMProvider = (*MockProvider)(nil)

func (m *MockProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	args := m.Called(ctx, history, llm.Apply(llm.Options{}, options...))
	return args.String(0), args.Error(1)
}

func (m *MockProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	args := m.Called(ctx, prompt, llm.Apply(llm.Options{}, options...))
	return args.String(0), args.Error(1)
}

// PromptContaining matches a prompt argument holding every fragment.
func PromptContaining(fragments ...string) interface{} {
	return mock.MatchedBy(func(prompt string) bool {
		for _, f := range fragments {
			if !strings.Contains(prompt, f) {
				return false
			}
		}
		return true
	})
}
