// Package router maps a model identifier to the provider that serves it.
// The table is explicit; there is no substring guessing on model names.
package router

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"chat-budgeting-be/pkg/apperror"
	"chat-budgeting-be/pkg/llm"

	"gopkg.in/yaml.v3"
)

// Table is the on-disk routing table.
//
//	default_provider: openrouter
//	models:
//	  - model: gemini-2.5-flash
//	    provider: gemini
type Table struct {
	DefaultProvider string  `yaml:"default_provider"`
	Models          []Route `yaml:"models"`
}

type Route struct {
	Model    string `yaml:"model"`
	Provider string `yaml:"provider"`
}

// DefaultTable is used when no routing file exists.
func DefaultTable() Table {
	return Table{
		DefaultProvider: "openrouter",
		Models: []Route{
			{Model: "gemini-2.5-flash", Provider: "gemini"},
			{Model: "gemini-2.5-pro", Provider: "gemini"},
			{Model: "gemini-2.0-flash", Provider: "gemini"},
			{Model: "gemini-1.5-flash", Provider: "gemini"},
			{Model: "claude-sonnet-4-5", Provider: "anthropic"},
			{Model: "claude-opus-4-1", Provider: "anthropic"},
			{Model: "claude-3-5-haiku-latest", Provider: "anthropic"},
			{Model: "llama3", Provider: "ollama"},
			{Model: "qwen2.5", Provider: "ollama"},
		},
	}
}

// LoadTable reads a YAML routing table. A missing file yields DefaultTable.
func LoadTable(path string) (Table, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultTable(), nil
	}
	if err != nil {
		return Table{}, fmt.Errorf("read routing table: %w", err)
	}
	var t Table
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return Table{}, fmt.Errorf("parse routing table %s: %w", path, err)
	}
	return t, nil
}

// Resolution is a provider bound to one model. It satisfies llm.LLMProvider so
// pipeline stages never see the model id.
type Resolution struct {
	Kind     llm.Kind
	Model    string
	Provider llm.LLMProvider
}

var _ llm.LLMProvider = Resolution{}

func (r Resolution) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	return r.Provider.Chat(ctx, history, append(opts, llm.WithModel(r.Model))...)
}

func (r Resolution) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return r.Provider.Generate(ctx, prompt, append(opts, llm.WithModel(r.Model))...)
}

type Router struct {
	routes    map[string]llm.Kind
	fallback  llm.Kind
	providers map[llm.Kind]llm.LLMProvider
}

// New validates the table against the registered providers.
func New(table Table, providers map[llm.Kind]llm.LLMProvider) (*Router, error) {
	r := &Router{
		routes:    make(map[string]llm.Kind, len(table.Models)),
		providers: providers,
	}
	for _, route := range table.Models {
		kind, err := llm.ParseKind(route.Provider)
		if err != nil {
			return nil, fmt.Errorf("route %q: %w", route.Model, err)
		}
		r.routes[strings.TrimSpace(route.Model)] = kind
	}
	if table.DefaultProvider != "" {
		kind, err := llm.ParseKind(table.DefaultProvider)
		if err != nil {
			return nil, fmt.Errorf("default provider: %w", err)
		}
		r.fallback = kind
	}
	return r, nil
}

// Resolve returns the provider for model. Models missing from the table go to
// the default provider; a model no registered provider can serve is a
// validation error.
func (r *Router) Resolve(model string) (Resolution, error) {
	model = strings.TrimSpace(model)
	if model == "" {
		return Resolution{}, &apperror.ValidationError{Message: "Model wajib diisi."}
	}

	kind, ok := r.routes[model]
	if !ok {
		kind = r.fallback
	}
	provider, ok := r.providers[kind]
	if !ok || provider == nil {
		return Resolution{}, &apperror.ValidationError{Message: fmt.Sprintf("Model '%s' tidak didukung.", model)}
	}
	return Resolution{Kind: kind, Model: model, Provider: provider}, nil
}
