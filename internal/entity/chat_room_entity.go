package entity

import "time"

type ChatRoom struct {
	Id        int64
	UserId    int64
	Title     string
	CreatedAt time.Time
}
