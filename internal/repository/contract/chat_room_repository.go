package contract

import (
	"context"

	"chat-budgeting-be/internal/entity"
	"chat-budgeting-be/internal/repository/specification"
)

type ChatRoomRepository interface {
	Create(ctx context.Context, room *entity.ChatRoom) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatRoom, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatRoom, error)
}
