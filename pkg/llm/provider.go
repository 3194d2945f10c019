package llm

import (
	"context"
	"fmt"
	"strings"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// Apply folds opts over defaults.
func Apply(defaults Options, opts ...Option) Options {
	for _, opt := range opts {
		opt(&defaults)
	}
	return defaults
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the response
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}

// Kind tags the backend a model is served by.
type Kind int

const (
	KindUnknown Kind = iota
	KindGemini
	KindOpenRouter
	KindAnthropic
	KindOllama
)

// String is the label stored on LLM run records.
func (k Kind) String() string {
	switch k {
	case KindGemini:
		return "Gemini"
	case KindOpenRouter:
		return "OpenRouter"
	case KindAnthropic:
		return "Anthropic"
	case KindOllama:
		return "Ollama"
	default:
		return "Unknown"
	}
}

// ParseKind accepts the lowercase config names ("gemini", "openrouter",
// "anthropic", "ollama") and the String labels.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gemini":
		return KindGemini, nil
	case "openrouter", "openai_compatible":
		return KindOpenRouter, nil
	case "anthropic":
		return KindAnthropic, nil
	case "ollama":
		return KindOllama, nil
	default:
		return KindUnknown, fmt.Errorf("unknown llm provider %q", s)
	}
}

// EstimateTokens is a whitespace word count, used where providers do not
// report usage.
func EstimateTokens(texts ...string) int {
	n := 0
	for _, t := range texts {
		n += len(strings.Fields(t))
	}
	return n
}
