package mapper

import (
	"encoding/json"

	"chat-budgeting-be/internal/entity"
	"chat-budgeting-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type VectorMapper struct{}

func NewVectorMapper() *VectorMapper {
	return &VectorMapper{}
}

func (m *VectorMapper) MessageVectorToModel(v *entity.MessageVector) (*model.MessageVector, error) {
	if v == nil {
		return nil, nil
	}
	payload, err := json.Marshal(v.Payload)
	if err != nil {
		return nil, err
	}
	return &model.MessageVector{
		Id:              v.Id,
		RoomId:          v.Payload.RoomId,
		SourceMessageId: v.Payload.OriginalMessageId,
		EmbeddingValue:  pgvector.NewVector(v.Embedding),
		Payload:         datatypes.JSON(payload),
		CreatedAt:       v.CreatedAt,
	}, nil
}

func (m *VectorMapper) MessageVectorToEntity(v *model.MessageVector) (*entity.MessageVector, error) {
	if v == nil {
		return nil, nil
	}
	var payload entity.VectorPayload
	if len(v.Payload) > 0 {
		if err := json.Unmarshal(v.Payload, &payload); err != nil {
			return nil, err
		}
	}
	return &entity.MessageVector{
		Id:        v.Id,
		Embedding: v.EmbeddingValue.Slice(),
		Payload:   payload,
		CreatedAt: v.CreatedAt,
	}, nil
}

// SchemaDocumentToEntity tolerates bad metadata; the content is what matters for retrieval.
func (m *VectorMapper) SchemaDocumentToEntity(d *model.SchemaDocument) *entity.SchemaDocument {
	if d == nil {
		return nil
	}
	var metadata map[string]any
	if len(d.Metadata) > 0 {
		_ = json.Unmarshal(d.Metadata, &metadata)
	}
	return &entity.SchemaDocument{
		Id:        d.Id,
		Content:   d.Content,
		Metadata:  metadata,
		CreatedAt: d.CreatedAt,
	}
}
