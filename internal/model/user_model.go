package model

import "time"

type User struct {
	Id          int64     `gorm:"primaryKey;autoIncrement"`
	Nip         string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	KodeUnit    string    `gorm:"type:varchar(50)"`
	DisplayName string    `gorm:"type:varchar(255)"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (User) TableName() string {
	return "users"
}
