package contract

import (
	"context"

	"chat-budgeting-be/internal/entity"
)

type MessageVectorRepository interface {
	// Upsert writes the point, replacing an existing one with the same id.
	Upsert(ctx context.Context, vector *entity.MessageVector) error
	DeleteByRoomId(ctx context.Context, roomId int64) error
}

type SchemaDocumentRepository interface {
	// SearchSimilarWithScore returns the limit nearest passages, most similar first.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int) ([]*entity.ScoredSchemaDocument, error)
}
