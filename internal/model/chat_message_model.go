package model

import "time"

type ChatMessage struct {
	Id          int64        `gorm:"primaryKey;autoIncrement"`
	RoomId      int64        `gorm:"not null;uniqueIndex:idx_chat_messages_room_seq,priority:1"`
	Room        *ChatRoom    `gorm:"foreignKey:RoomId;constraint:OnDelete:CASCADE"`
	Seq         int64        `gorm:"not null;uniqueIndex:idx_chat_messages_room_seq,priority:2"`
	Sender      string       `gorm:"type:varchar(10);not null;check:chk_chat_messages_sender,sender IN ('user','ai')"`
	MessageText string       `gorm:"type:text;not null"`
	TokenUser   int          `gorm:"not null;default:0"`
	Timestamp   time.Time    `gorm:"not null;index"`
	ReplyToId   *int64       `gorm:"index"`
	ReplyTo     *ChatMessage `gorm:"foreignKey:ReplyToId;constraint:OnDelete:SET NULL"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
