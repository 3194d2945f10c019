package specification

import "gorm.io/gorm"

type ByNip struct {
	Nip string
}

func (s ByNip) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("nip = ?", s.Nip)
}

// UserOwnedBy restricts rooms to one owner.
type UserOwnedBy struct {
	UserID int64
}

func (s UserOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}
