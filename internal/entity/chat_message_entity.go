package entity

import "time"

type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

func (s Sender) Valid() bool {
	return s == SenderUser || s == SenderAI
}

// ChatMessage is one turn of a room. Seq orders turns inside a room and is
// unique per room. ReplyToId links an ai turn to the user turn it answers.
type ChatMessage struct {
	Id          int64
	RoomId      int64
	Seq         int64
	Sender      Sender
	MessageText string
	TokenUser   int
	Timestamp   time.Time
	ReplyToId   *int64
}
