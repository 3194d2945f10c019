package entity

import (
	"time"

	"github.com/google/uuid"
)

// VectorPayload is stored next to each message embedding.
type VectorPayload struct {
	Text              string `json:"text"`
	Sender            Sender `json:"sender"`
	RoomId            int64  `json:"room_id"`
	Timestamp         string `json:"timestamp"` // ISO-8601
	OriginalMessageId int64  `json:"original_message_id"`
}

type MessageVector struct {
	Id        uuid.UUID
	Embedding []float32
	Payload   VectorPayload
	CreatedAt time.Time
}

// SchemaDocument is one indexed passage describing a table or column.
type SchemaDocument struct {
	Id        uuid.UUID
	Content   string
	Metadata  map[string]any
	CreatedAt time.Time
}

type ScoredSchemaDocument struct {
	Document   *SchemaDocument
	Similarity float64 // 1.0 = identical
}
