package specification

import "gorm.io/gorm"

type ByRoomID struct {
	RoomID int64
}

func (s ByRoomID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("room_id = ?", s.RoomID)
}

type BySender struct {
	Sender string
}

func (s BySender) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("sender = ?", s.Sender)
}

type ByUserMessageID struct {
	UserMessageID int64
}

func (s ByUserMessageID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_message_id = ?", s.UserMessageID)
}
