package implementation

import (
	"context"

	"chat-budgeting-be/internal/entity"
	"chat-budgeting-be/internal/mapper"
	"chat-budgeting-be/internal/model"
	"chat-budgeting-be/internal/repository/contract"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type SchemaDocumentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.VectorMapper
}

func NewSchemaDocumentRepository(db *gorm.DB) contract.SchemaDocumentRepository {
	return &SchemaDocumentRepositoryImpl{
		db:     db,
		mapper: mapper.NewVectorMapper(),
	}
}

func (r *SchemaDocumentRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int) ([]*entity.ScoredSchemaDocument, error) {
	if limit <= 0 {
		limit = 4
	}

	// pgvector cosine distance is 1 - cosine_similarity
	type result struct {
		model.SchemaDocument
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)
	err := r.db.WithContext(ctx).
		Table("schema_documents").
		Select("schema_documents.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*entity.ScoredSchemaDocument, len(results))
	for i, res := range results {
		scored[i] = &entity.ScoredSchemaDocument{
			Document:   r.mapper.SchemaDocumentToEntity(&res.SchemaDocument),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
