package contract

import (
	"context"

	"chat-budgeting-be/internal/entity"
	"chat-budgeting-be/internal/repository/specification"
)

type LLMRunRepository interface {
	// CreateIfAbsent inserts run unless one already exists for its user message.
	// It reports whether a row was written.
	CreateIfAbsent(ctx context.Context, run *entity.LLMRun) (bool, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.LLMRun, error)
}
