package contract

import (
	"context"

	"chat-budgeting-be/internal/entity"
	"chat-budgeting-be/internal/repository/specification"
)

type ChatMessageRepository interface {
	Create(ctx context.Context, message *entity.ChatMessage) error
	// NextSeq returns max(seq)+1 for the room, 1 for an empty room.
	NextSeq(ctx context.Context, roomId int64) (int64, error)
	DeleteByRoomId(ctx context.Context, roomId int64) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatMessage, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
