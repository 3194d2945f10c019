package mapper

import (
	"chat-budgeting-be/internal/entity"
	"chat-budgeting-be/internal/model"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

// Room Mappers

func (m *ChatMapper) ChatRoomToEntity(r *model.ChatRoom) *entity.ChatRoom {
	if r == nil {
		return nil
	}
	return &entity.ChatRoom{
		Id:        r.Id,
		UserId:    r.UserId,
		Title:     r.Title,
		CreatedAt: r.CreatedAt,
	}
}

func (m *ChatMapper) ChatRoomToModel(r *entity.ChatRoom) *model.ChatRoom {
	if r == nil {
		return nil
	}
	return &model.ChatRoom{
		Id:        r.Id,
		UserId:    r.UserId,
		Title:     r.Title,
		CreatedAt: r.CreatedAt,
	}
}

// Message Mappers

func (m *ChatMapper) ChatMessageToEntity(msg *model.ChatMessage) *entity.ChatMessage {
	if msg == nil {
		return nil
	}

	var replyTo *int64
	if msg.ReplyToId != nil {
		id := *msg.ReplyToId
		replyTo = &id
	}

	return &entity.ChatMessage{
		Id:          msg.Id,
		RoomId:      msg.RoomId,
		Seq:         msg.Seq,
		Sender:      entity.Sender(msg.Sender),
		MessageText: msg.MessageText,
		TokenUser:   msg.TokenUser,
		Timestamp:   msg.Timestamp,
		ReplyToId:   replyTo,
	}
}

func (m *ChatMapper) ChatMessageToModel(msg *entity.ChatMessage) *model.ChatMessage {
	if msg == nil {
		return nil
	}

	var replyTo *int64
	if msg.ReplyToId != nil {
		id := *msg.ReplyToId
		replyTo = &id
	}

	return &model.ChatMessage{
		Id:          msg.Id,
		RoomId:      msg.RoomId,
		Seq:         msg.Seq,
		Sender:      string(msg.Sender),
		MessageText: msg.MessageText,
		TokenUser:   msg.TokenUser,
		Timestamp:   msg.Timestamp,
		ReplyToId:   replyTo,
	}
}
