package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// MessageVector has no foreign keys to the chat tables. It can lag behind
// or fail without touching chat history.
type MessageVector struct {
	Id              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	RoomId          int64           `gorm:"not null;index"`
	SourceMessageId int64           `gorm:"not null;index"`
	EmbeddingValue  pgvector.Vector `gorm:"type:vector(768)"`
	Payload         datatypes.JSON  `gorm:"type:jsonb;not null"`
	CreatedAt       time.Time       `gorm:"autoCreateTime"`
}

func (MessageVector) TableName() string {
	return "message_vectors"
}

// SchemaDocument rows are written by the schema ingestion job; this service only reads them.
type SchemaDocument struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Content        string          `gorm:"type:text;not null"`
	Metadata       datatypes.JSON  `gorm:"type:jsonb"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(768)"`
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
}

func (SchemaDocument) TableName() string {
	return "schema_documents"
}
