package unitofwork

import (
	"context"

	"chat-budgeting-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ChatRoomRepository() contract.ChatRoomRepository
	ChatMessageRepository() contract.ChatMessageRepository
	LLMRunRepository() contract.LLMRunRepository
	MessageVectorRepository() contract.MessageVectorRepository
	SchemaDocumentRepository() contract.SchemaDocumentRepository
}
