package entity

import "time"

type User struct {
	Id          int64
	Nip         string
	KodeUnit    string
	DisplayName string
	CreatedAt   time.Time
}
